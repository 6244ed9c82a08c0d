package match

import (
	"fmt"
	"strings"
)

// Assertable is implemented by the root comparators.
type Assertable interface {
	Comparator
	AssertSubset(observed any, message ...string) error
	AssertAll(observed any, message ...string) error
}

// RootMapping is a Mapping that can assert against an observation.
type RootMapping struct {
	Mapping
}

func NewRootMapping(fields map[string]any) *RootMapping {
	return &RootMapping{Mapping{fields: fields}}
}

// AssertSubset compares in subset mode and returns an *AssertionError on
// mismatch. message parts are joined into the error heading.
func (r *RootMapping) AssertSubset(observed any, message ...string) error {
	return check(r, observed, true, message)
}

// AssertAll compares in exact mode and returns an *AssertionError on
// mismatch.
func (r *RootMapping) AssertAll(observed any, message ...string) error {
	return check(r, observed, false, message)
}

// RootSequence is a Sequence that can assert against an observation.
type RootSequence struct {
	Sequence
}

func NewRootSequence(items ...any) *RootSequence {
	return &RootSequence{Sequence{items: items}}
}

func (r *RootSequence) AssertSubset(observed any, message ...string) error {
	return check(r, observed, true, message)
}

func (r *RootSequence) AssertAll(observed any, message ...string) error {
	return check(r, observed, false, message)
}

func check(c Comparator, observed any, subset bool, message []string) error {
	res := Compare(c, observed, subset)
	if res.Success {
		return nil
	}
	return &AssertionError{Heading: strings.Join(message, " "), Subset: subset, Result: res}
}

// AssertionError is returned when a root comparison fails.
type AssertionError struct {
	Heading string  // Optional caller-supplied heading
	Subset  bool    // Mode of the comparison, selects the default heading
	Result  *Result // The failing comparison
}

// Error renders the heading followed by the indented diff. Without a
// heading, the default names the comparison mode.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	heading := e.Heading
	switch {
	case heading != "":
	case e.Subset:
		heading = "One or more subset differences were found"
	default:
		heading = "One or more exact differences were found"
	}
	fmt.Fprintf(&buf, "%s\n", heading)

	diff := strings.TrimRight(e.Result.DiffInfo(), "\n")
	for _, line := range strings.Split(diff, "\n") {
		fmt.Fprintf(&buf, "  %s\n", line)
	}
	return buf.String()
}

// FailedKeys returns the failing paths of the underlying result.
func (e *AssertionError) FailedKeys() []string {
	return e.Result.FailedKeys()
}
