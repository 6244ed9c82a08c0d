// Package match evaluates declarative expectations against observed data.
//
// An expectation is a tree of Comparator nodes. Leaf comparators test a
// single value (Equals, Less, Like, Match, ...), combinators build on other
// comparators (Between, OneOf, NoneOf) and composites recurse into mappings
// and sequences (Mapping, Sequence, StrictSequence, FixedSequence, and the
// JSON-decoding variants). Composite values may freely mix raw literals and
// comparators; raw literals are normalized with Normalize at each descent:
//
//	expected := match.NewRootMapping(map[string]any{
//	    "id":     match.NewNotNull(),
//	    "name":   match.NewLike("ali*"),
//	    "age":    match.NewBetween(18, 99),
//	    "roles":  []any{"admin", match.NewOneOf("owner", "viewer")},
//	})
//
//	res := match.Compare(expected, observed, true)
//	if !res.Success {
//	    fmt.Print(res.DiffInfo())
//	    fmt.Println(res.FailedKeys())
//	}
//
// # Subset and exact mode
//
// In subset mode mappings ignore keys that only exist on the observed side.
// In exact mode those keys are compared against Equals(nil) and therefore
// fail unless the observed value is null. Sequence lengths must always match.
// The mode is propagated unchanged through every nested descent.
//
// # Coercion
//
// Expectations loaded from text documents carry string literals. Before a
// leaf predicate runs, Coerce converts a string expectation toward the type
// of the observed value (integer, float or bool), so "5" equals 5.
//
// # Faults
//
// Compare never panics. A predicate that fails (bad coercion, invalid regex,
// undecodable JSON, unorderable operands) produces a failing Result with
// Error set; the fault stays local to its node and siblings still evaluate.
// Cyclic observations terminate: Compare stops at Evaluator.MaxDepth and
// equality treats a container pair it is already comparing as equal.
//
// Root comparators (RootMapping, RootSequence) add AssertSubset and AssertAll,
// which return an *AssertionError carrying the rendered diff.
package match
