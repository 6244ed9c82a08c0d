package match

import (
	"cmp"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Coerce converts a string expectation toward the type of the observed
// value. Rules, in order: an integer observation parses the expectation as
// an integer, a float observation parses it as a float, a bool observation
// maps exactly "true" and "false". Anything else is returned unchanged.
func Coerce(expected, observed any) (any, error) {
	s, ok := expected.(string)
	if !ok {
		return expected, nil
	}

	switch {
	case isInteger(observed):
		text := strings.TrimSpace(s)
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n, nil
		}
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "coerce %q to integer", s), ErrCoercion)
		}
		return n, nil
	case isFloat(observed):
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "coerce %q to float", s), ErrCoercion)
		}
		return f, nil
	case isBool(observed) && (s == "true" || s == "false"):
		return s == "true", nil
	}
	return expected, nil
}

func isInteger(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Float32 || k == reflect.Float64
}

func isBool(v any) bool {
	if v == nil {
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.Bool
}

type numberKind int

const (
	kindInt numberKind = iota
	kindUint
	kindFloat
)

type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

func asNumber(v any) (number, bool) {
	if v == nil {
		return number{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: kindInt, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: kindUint, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: kindFloat, f: rv.Float()}, true
	}
	return number{}, false
}

func (n number) float() float64 {
	switch n.kind {
	case kindInt:
		return float64(n.i)
	case kindUint:
		return float64(n.u)
	}
	return n.f
}

// compareNumbers orders two numbers. ok is false when either side is NaN.
func compareNumbers(a, b number) (c int, ok bool) {
	if a.kind == kindFloat || b.kind == kindFloat {
		af, bf := a.float(), b.float()
		if math.IsNaN(af) || math.IsNaN(bf) {
			return 0, false
		}
		return cmp.Compare(af, bf), true
	}
	switch {
	case a.kind == kindInt && b.kind == kindInt:
		return cmp.Compare(a.i, b.i), true
	case a.kind == kindUint && b.kind == kindUint:
		return cmp.Compare(a.u, b.u), true
	case a.kind == kindInt:
		if a.i < 0 {
			return -1, true
		}
		return cmp.Compare(uint64(a.i), b.u), true
	default:
		if b.i < 0 {
			return 1, true
		}
		return cmp.Compare(a.u, uint64(b.i)), true
	}
}

// equal reports structural equality. Numbers compare by value across
// kinds, ordered and fixed-arity sequences never equal each other.
// Cyclic values terminate: a pair of containers already under comparison
// is assumed equal, as reflect.DeepEqual does.
func equal(a, b any) bool {
	return equalVisited(a, b, make(map[visit]bool))
}

// visit identifies a pair of containers being compared.
type visit struct {
	a, b uintptr
	typ  reflect.Type
}

func equalVisited(a, b any, seen map[visit]bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if an, ok := asNumber(a); ok {
		bn, ok := asNumber(b)
		if !ok {
			return false
		}
		c, ok := compareNumbers(an, bn)
		return ok && c == 0
	}

	if as, afixed, ok := asSequence(a); ok {
		bs, bfixed, ok := asSequence(b)
		if !ok || afixed != bfixed || len(as) != len(bs) {
			return false
		}
		if revisit(a, b, seen) {
			return true
		}
		for i := range as {
			if !equalVisited(as[i], bs[i], seen) {
				return false
			}
		}
		return true
	}

	if am, ok := asMapping(a); ok {
		bm, ok := asMapping(b)
		if !ok || len(am) != len(bm) {
			return false
		}
		if revisit(a, b, seen) {
			return true
		}
		for k, av := range am {
			bv, exists := bm[k]
			if !exists || !equalVisited(av, bv, seen) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

// revisit records the container pair (a, b) and reports whether it was
// already recorded. Values without a stable identity are never recorded.
func revisit(a, b any, seen map[visit]bool) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !hasIdentity(av) || !hasIdentity(bv) {
		return false
	}
	v := visit{a: av.Pointer(), b: bv.Pointer(), typ: av.Type()}
	if seen[v] {
		return true
	}
	seen[v] = true
	return false
}

func hasIdentity(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Map, reflect.Slice:
		return !v.IsNil()
	}
	return false
}

// order compares a with b. Numbers, strings, bools and times are ordered;
// every other pairing is a fault.
func order(a, b any) (int, error) {
	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			c, ok := compareNumbers(an, bn)
			if !ok {
				return 0, errors.Mark(errors.New("NaN is not ordered"), ErrIncomparable)
			}
			return c, nil
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), nil
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return cmp.Compare(boolRank(av), boolRank(bv)), nil
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv), nil
		}
	}

	return 0, errors.Mark(
		errors.Newf("cannot order %s and %s", Describe(a), Describe(b)),
		ErrIncomparable,
	)
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// asSequence returns the elements of an ordered or fixed-arity sequence.
// Strings and byte slices are text, not sequences.
func asSequence(v any) (items []any, fixed bool, ok bool) {
	switch t := v.(type) {
	case nil, string, []byte:
		return nil, false, false
	case []any:
		return t, false, true
	case Tuple:
		return []any(t), true, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false, false
	}
	items = make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, rv.Kind() == reflect.Array, true
}

// asMapping returns a string-keyed view of a mapping-shaped value.
func asMapping(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

// Describe names the shape of a value for type-mismatch diagnostics.
func Describe(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case string:
		return "string"
	case []byte:
		return "bytes"
	case Tuple:
		return "tuple"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.String:
		return "string"
	case reflect.Slice:
		return "sequence"
	case reflect.Array:
		return "tuple"
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return "mapping"
		}
	}
	return rv.Type().String()
}
