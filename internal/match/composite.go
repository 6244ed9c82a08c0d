package match

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Mapping compares keyed fields. The fields map must not be modified after
// construction; its values may be raw literals or comparators.
type Mapping struct {
	fields map[string]any
}

func NewMapping(fields map[string]any) *Mapping {
	return &Mapping{fields: fields}
}

func (m *Mapping) Operation() string { return OpMapping }

func (m *Mapping) Value() any { return m.fields }

func (m *Mapping) evaluate(f frame, observed any) (*Result, error) {
	return compareMapping(OpMapping, m.fields, f, observed), nil
}

// compareMapping visits every expected key and, in exact mode, every
// observed-only key. A null observation is an empty mapping.
func compareMapping(op string, fields map[string]any, f frame, observed any) *Result {
	obs := map[string]any{}
	if observed != nil {
		m, ok := asMapping(observed)
		if !ok {
			return &Result{
				Operation: OpMappingType,
				Expected:  "mapping",
				Observed:  Describe(observed),
			}
		}
		obs = m
	}

	keys := sortedKeys(fields)
	if !f.subset {
		for _, k := range sortedKeys(obs) {
			if _, ok := fields[k]; !ok {
				keys = append(keys, k)
			}
		}
	}

	res := &Result{Operation: op, Success: true, Expected: fields, Observed: observed}
	for _, k := range keys {
		res.add(k, f.descend(Normalize(fields[k]), obs[k]))
	}
	return res
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// seqShape says which observed containers a sequence comparator accepts.
type seqShape int

const (
	anySequence seqShape = iota
	orderedSequence
	fixedSequence
)

func (s seqShape) String() string {
	switch s {
	case orderedSequence:
		return "ordered sequence"
	case fixedSequence:
		return "tuple"
	}
	return "sequence"
}

// Sequence compares elements by position against an ordered or
// fixed-arity observation of the same length.
type Sequence struct {
	items []any
}

func NewSequence(items ...any) *Sequence {
	return &Sequence{items: items}
}

func (s *Sequence) Operation() string { return OpSequence }

func (s *Sequence) Value() any { return s.items }

func (s *Sequence) evaluate(f frame, observed any) (*Result, error) {
	return compareSequence(OpSequence, anySequence, s.items, f, observed), nil
}

// StrictSequence is a Sequence that rejects fixed-arity observations.
type StrictSequence struct {
	items []any
}

func NewStrictSequence(items ...any) *StrictSequence {
	return &StrictSequence{items: items}
}

func (s *StrictSequence) Operation() string { return OpStrictSequence }

func (s *StrictSequence) Value() any { return s.items }

func (s *StrictSequence) evaluate(f frame, observed any) (*Result, error) {
	return compareSequence(OpStrictSequence, orderedSequence, s.items, f, observed), nil
}

// FixedSequence only accepts fixed-arity observations (Tuple or array).
type FixedSequence struct {
	items Tuple
}

func NewFixedSequence(items ...any) *FixedSequence {
	return &FixedSequence{items: Tuple(items)}
}

func (s *FixedSequence) Operation() string { return OpFixedSequence }

func (s *FixedSequence) Value() any { return s.items }

func (s *FixedSequence) evaluate(f frame, observed any) (*Result, error) {
	return compareSequence(OpFixedSequence, fixedSequence, s.items, f, observed), nil
}

// compareSequence checks the container shape and length, then compares
// element-wise. Length must match in subset mode too.
func compareSequence(op string, shape seqShape, items []any, f frame, observed any) *Result {
	var obs []any
	if observed != nil {
		o, fixed, ok := asSequence(observed)
		if !ok || (shape == orderedSequence && fixed) || (shape == fixedSequence && !fixed) {
			return &Result{
				Operation: op + "_type",
				Expected:  shape.String(),
				Observed:  Describe(observed),
			}
		}
		obs = o
	}

	if len(items) != len(obs) {
		return &Result{
			Operation: op + "_length",
			Expected:  len(items),
			Observed:  len(obs),
		}
	}

	res := &Result{Operation: op, Success: true, Expected: items, Observed: observed}
	for i, item := range items {
		res.add("index_"+strconv.Itoa(i), f.descend(Normalize(item), obs[i]))
	}
	return res
}

// JSONMapping decodes observed JSON text and compares it as a Mapping.
type JSONMapping struct {
	fields map[string]any
}

func NewJSONMapping(fields map[string]any) *JSONMapping {
	return &JSONMapping{fields: fields}
}

func (j *JSONMapping) Operation() string { return OpJSONMapping }

func (j *JSONMapping) Value() any { return j.fields }

func (j *JSONMapping) evaluate(f frame, observed any) (*Result, error) {
	decoded, err := decodeJSON(observed, "{}")
	if err != nil {
		return nil, err
	}
	m, ok := decoded.(map[string]any)
	if !ok {
		return nil, errors.Mark(errors.Newf("expected a JSON object, decoded %s", Describe(decoded)), ErrDecode)
	}
	return compareMapping(OpJSONMapping, j.fields, f, m), nil
}

// JSONSequence decodes observed JSON text and compares it as a Sequence.
type JSONSequence struct {
	items []any
}

func NewJSONSequence(items ...any) *JSONSequence {
	return &JSONSequence{items: items}
}

func (j *JSONSequence) Operation() string { return OpJSONSequence }

func (j *JSONSequence) Value() any { return j.items }

func (j *JSONSequence) evaluate(f frame, observed any) (*Result, error) {
	decoded, err := decodeJSON(observed, "[]")
	if err != nil {
		return nil, err
	}
	s, ok := decoded.([]any)
	if !ok {
		return nil, errors.Mark(errors.Newf("expected a JSON array, decoded %s", Describe(decoded)), ErrDecode)
	}
	return compareSequence(OpJSONSequence, anySequence, j.items, f, s), nil
}

// decodeJSON decodes observed text. A null observation or empty text
// decodes as the empty document supplied by the caller.
func decodeJSON(observed any, empty string) (any, error) {
	var text []byte
	switch t := observed.(type) {
	case nil:
	case string:
		text = []byte(t)
	case []byte:
		text = t
	default:
		return nil, errors.Mark(errors.Newf("expected JSON text, got %s", Describe(observed)), ErrDecode)
	}

	if len(text) == 0 {
		text = []byte(empty)
	}

	var decoded any
	if err := json.Unmarshal(text, &decoded); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode JSON"), ErrDecode)
	}
	return decoded, nil
}
