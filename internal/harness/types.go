package harness

import (
	"github.com/roach88/shapematch/internal/match"
)

// Result is the outcome of running a case.
type Result struct {
	// Name is the case name.
	Name string `json:"name"`

	// Pass is true when the comparison outcome and failing paths are what
	// the case wants.
	Pass bool `json:"pass"`

	// Matched is the raw comparison outcome.
	Matched bool `json:"matched"`

	// FailedKeys are the failing paths of the comparison.
	FailedKeys []string `json:"failed_keys"`

	// Diff is the rendered diff, empty when the comparison matched.
	Diff string `json:"diff,omitempty"`

	// Errors explains why Pass is false.
	Errors []string `json:"errors,omitempty"`

	// Comparison is the full result tree.
	Comparison *match.Result `json:"-"`
}

// NewResult creates a passing result for the named case.
func NewResult(name string) *Result {
	return &Result{
		Name:       name,
		Pass:       true,
		FailedKeys: []string{},
		Errors:     []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
