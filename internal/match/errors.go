package match

import (
	"github.com/cockroachdb/errors"
)

// Sentinel marks attached to predicate faults. Test with errors.Is.
var (
	// ErrCoercion marks a string expectation that could not be converted
	// toward the observed type.
	ErrCoercion = errors.New("coercion failed")

	// ErrIncomparable marks operands that cannot be ordered.
	ErrIncomparable = errors.New("values are not comparable")

	// ErrPattern marks an invalid wildcard or regular expression.
	ErrPattern = errors.New("invalid pattern")

	// ErrDecode marks observed text that could not be decoded as JSON, or
	// decoded to the wrong kind.
	ErrDecode = errors.New("decode failed")

	// ErrMaxDepth marks a comparison that descended deeper than the
	// evaluator allows, typically because of a cyclic structure.
	ErrMaxDepth = errors.New("maximum comparison depth exceeded")
)
