package match

import (
	"strings"
	"unicode"
)

// Operation identifiers reported in Result.Operation.
const (
	OpEquals         = "equals"
	OpUnequals       = "unequals"
	OpAnything       = "anything"
	OpLess           = "less"
	OpLessOrEqual    = "less_or_equal"
	OpGreater        = "greater"
	OpGreaterOrEqual = "greater_or_equal"
	OpBetween        = "between"
	OpOneOf          = "one_of"
	OpNoneOf         = "none_of"
	OpOptional       = "optional"
	OpNotNull        = "not_null"
	OpLike           = "like"
	OpLikeCase       = "like_case"
	OpMatch          = "match"

	OpMapping        = "mapping"
	OpSequence       = "sequence"
	OpStrictSequence = "strict_sequence"
	OpFixedSequence  = "fixed_sequence"
	OpJSONMapping    = "json_mapping"
	OpJSONSequence   = "json_sequence"

	// OpMappingType reports an observed value that is not mapping-shaped.
	OpMappingType = "mapping_type"

	// OpDepthExceeded reports a descent past Evaluator.MaxDepth.
	OpDepthExceeded = "depth_exceeded"

	// NegatedPrefix is prepended to the operation of the option that made
	// a NoneOf fail.
	NegatedPrefix = "not "
)

// Comparator is an immutable expected-value descriptor.
//
// The set of implementations is closed to this package; new predicates are
// added by constructing a Leaf with NewLeaf and registering a parse strategy
// for it.
type Comparator interface {
	// Operation names the comparison, e.g. "greater_or_equal".
	Operation() string

	// Value returns the literal the comparator was built from. Composite
	// values may contain other comparators.
	Value() any

	evaluate(f frame, observed any) (*Result, error)
}

// Tuple is a fixed-arity sequence. Go arrays are treated the same way.
type Tuple []any

// Normalize turns a raw literal into a comparator. Comparators are returned
// as is, mappings become Mapping, []any becomes Sequence, Tuple becomes
// FixedSequence and every other value becomes Equals.
func Normalize(v any) Comparator {
	switch t := v.(type) {
	case Comparator:
		return t
	case map[string]any:
		return NewMapping(t)
	case Tuple:
		return NewFixedSequence(t...)
	case []any:
		return NewSequence(t...)
	default:
		return NewEquals(v)
	}
}

// SnakeCase converts a Go type name to its snake_case form:
// GreaterOrEqual becomes greater_or_equal and JSONMapping json_mapping.
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
