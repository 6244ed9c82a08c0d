package match

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Between accepts observations within [min, max], both ends inclusive.
// Each bound is coerced toward the observation independently.
type Between struct {
	min, max any
}

func NewBetween(minimum, maximum any) *Between {
	return &Between{min: minimum, max: maximum}
}

// BetweenFromLiteral builds a Between from a two element sequence or a
// mapping with "min" and "max" keys.
func BetweenFromLiteral(literal any) (*Between, error) {
	if items, _, ok := asSequence(literal); ok {
		if len(items) != 2 {
			return nil, errors.Newf("between requires [min, max], got %d elements", len(items))
		}
		return NewBetween(items[0], items[1]), nil
	}
	if m, ok := asMapping(literal); ok {
		lo, hasMin := m["min"]
		hi, hasMax := m["max"]
		if !hasMin || !hasMax || len(m) != 2 {
			return nil, errors.Newf("between requires exactly the keys min and max")
		}
		return NewBetween(lo, hi), nil
	}
	return nil, errors.Newf("between requires a sequence or mapping, got %s", Describe(literal))
}

func (b *Between) Operation() string { return OpBetween }

func (b *Between) Value() any { return map[string]any{"min": b.min, "max": b.max} }

func (b *Between) evaluate(_ frame, observed any) (*Result, error) {
	lo, err := Coerce(b.min, observed)
	if err != nil {
		return nil, err
	}
	hi, err := Coerce(b.max, observed)
	if err != nil {
		return nil, err
	}
	low, err := order(lo, observed)
	if err != nil {
		return nil, err
	}
	high, err := order(observed, hi)
	if err != nil {
		return nil, err
	}
	return &Result{
		Operation: OpBetween,
		Success:   low <= 0 && high <= 0,
		Expected:  b.Value(),
		Observed:  observed,
	}, nil
}

// OneOf succeeds when any option matches. Raw options are normalized.
type OneOf struct {
	options []any
}

func NewOneOf(options ...any) *OneOf {
	return &OneOf{options: options}
}

func (o *OneOf) Operation() string { return OpOneOf }

func (o *OneOf) Value() any { return map[string]any{"options": o.options} }

// evaluate returns the first successful option result unchanged. When all
// options fail, a single result lists each alternative as "(i) expected".
func (o *OneOf) evaluate(f frame, observed any) (*Result, error) {
	failed := make([]string, 0, len(o.options))
	for i, option := range o.options {
		res := f.descend(Normalize(option), observed)
		if res.Success {
			return res, nil
		}
		failed = append(failed, fmt.Sprintf("(%d) %v", i, res.Expected))
	}
	return &Result{
		Operation: OpOneOf,
		Success:   false,
		Expected:  strings.Join(failed, ", "),
		Observed:  observed,
	}, nil
}

// NoneOf succeeds when no option matches.
type NoneOf struct {
	options []any
}

func NewNoneOf(options ...any) *NoneOf {
	return &NoneOf{options: options}
}

func (n *NoneOf) Operation() string { return OpNoneOf }

func (n *NoneOf) Value() any { return map[string]any{"options": n.options} }

// evaluate fails on the first matching option, reporting it as
// "not <operation>" with that option's operands and children.
func (n *NoneOf) evaluate(f frame, observed any) (*Result, error) {
	for _, option := range n.options {
		res := f.descend(Normalize(option), observed)
		if res.Success {
			return &Result{
				Operation: NegatedPrefix + res.Operation,
				Success:   false,
				Expected:  res.Expected,
				Observed:  res.Observed,
				Children:  res.Children,
			}, nil
		}
	}
	return &Result{
		Operation: OpNoneOf,
		Success:   true,
		Expected:  n.Value(),
		Observed:  observed,
	}, nil
}

// OptionsFromLiteral extracts OneOf/NoneOf options from a sequence or from
// a mapping holding an "options" sequence.
func OptionsFromLiteral(literal any) ([]any, error) {
	if m, ok := asMapping(literal); ok {
		inner, exists := m["options"]
		if !exists {
			return nil, errors.New("options mapping requires an options key")
		}
		literal = inner
	}
	items, _, ok := asSequence(literal)
	if !ok {
		return nil, errors.Newf("options must be a sequence, got %s", Describe(literal))
	}
	return items, nil
}
