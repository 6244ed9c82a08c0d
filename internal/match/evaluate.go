package match

import (
	"github.com/cockroachdb/errors"
)

// DefaultMaxDepth bounds how deep Compare descends before reporting
// OpDepthExceeded.
const DefaultMaxDepth = 512

// Evaluator runs comparisons. The zero value is ready to use.
type Evaluator struct {
	// MaxDepth is the deepest nesting level evaluated. Zero or negative
	// means DefaultMaxDepth.
	MaxDepth int
}

// Compare evaluates c against observed. In subset mode mappings ignore
// observed-only keys. Compare never panics: predicate faults are reported
// through Result.Error.
func (e Evaluator) Compare(c Comparator, observed any, subset bool) *Result {
	maxDepth := e.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return run(c, observed, frame{subset: subset, maxDepth: maxDepth})
}

// Compare evaluates c against observed with the default Evaluator.
func Compare(c Comparator, observed any, subset bool) *Result {
	return Evaluator{}.Compare(c, observed, subset)
}

// frame carries the traversal policy through one descent.
type frame struct {
	subset   bool
	depth    int
	maxDepth int
}

// descend evaluates a child comparator one level deeper.
func (f frame) descend(c Comparator, observed any) *Result {
	f.depth++
	return run(c, observed, f)
}

// run is the single adapter between comparators and results: returned
// errors and recovered panics both become failing leaves.
func run(c Comparator, observed any, f frame) (res *Result) {
	if c == nil {
		c = Normalize(nil)
	}

	if f.depth > f.maxDepth {
		return &Result{
			Operation: OpDepthExceeded,
			Expected:  f.maxDepth,
			Observed:  Describe(observed),
			Error: errors.Mark(
				errors.Newf("%s exceeded maximum depth %d", c.Operation(), f.maxDepth),
				ErrMaxDepth,
			),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			res = fault(c, observed, errors.Newf("%s panicked: %v", c.Operation(), r))
		}
	}()

	res, err := c.evaluate(f, observed)
	if err != nil {
		return fault(c, observed, err)
	}
	if res == nil {
		return fault(c, observed, errors.AssertionFailedf("%s produced no result", c.Operation()))
	}
	return res
}

func fault(c Comparator, observed any, err error) *Result {
	return &Result{
		Operation: c.Operation(),
		Success:   false,
		Expected:  c.Value(),
		Observed:  observed,
		Error:     err,
	}
}
