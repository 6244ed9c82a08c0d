package match

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquals_Reflexive(t *testing.T) {
	values := []any{
		nil, true, false, 0, -3, int64(1 << 40), uint8(7), 2.5, "", "text",
		[]any{1, "a"}, Tuple{1, 2}, map[string]any{"a": []any{1}},
	}

	for _, v := range values {
		assert.True(t, Compare(NewEquals(v), v, false).Success, "Equals(%#v)", v)
		assert.False(t, Compare(NewUnequals(v), v, false).Success, "Unequals(%#v)", v)
	}
}

func TestEquals_Coercion(t *testing.T) {
	assert.True(t, Compare(NewEquals("5"), 5, false).Success)
	assert.True(t, Compare(NewEquals("2.5"), 2.5, false).Success)
	assert.True(t, Compare(NewEquals("true"), true, false).Success)
	assert.False(t, Compare(NewEquals("false"), true, false).Success)
	assert.False(t, Compare(NewEquals(5), "5", false).Success, "only the expectation is coerced")
}

func TestEquals_CoercionFaultIsCaptured(t *testing.T) {
	res := Compare(NewEquals("abc"), 5, false)

	assert.False(t, res.Success)
	assert.Equal(t, OpEquals, res.Operation)
	assert.Equal(t, "abc", res.Expected)
	assert.Equal(t, 5, res.Observed)
	assert.Empty(t, res.Children)
	require.Error(t, res.Error)
	assert.True(t, errors.Is(res.Error, ErrCoercion))
}

func TestOrdering_OperandOrder(t *testing.T) {
	tests := []struct {
		name     string
		cmp      Comparator
		observed any
		want     bool
	}{
		{"less below", NewLess(5), 4, true},
		{"less equal", NewLess(5), 5, false},
		{"less above", NewLess(5), 6, false},
		{"less_or_equal equal", NewLessOrEqual(5), 5, true},
		{"less_or_equal above", NewLessOrEqual(5), 6, false},
		{"greater above", NewGreater(5), 6, true},
		{"greater equal", NewGreater(5), 5, false},
		{"greater below", NewGreater(5), 4, false},
		{"greater_or_equal equal", NewGreaterOrEqual(5), 5, true},
		{"greater_or_equal below", NewGreaterOrEqual(5), 4, false},
		{"coerced string bound", NewLess("10"), 9, true},
		{"coerced float bound", NewGreater("0.5"), 0.75, true},
		{"strings", NewLess("m"), "a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compare(tt.cmp, tt.observed, false)
			require.NoError(t, res.Error)
			assert.Equal(t, tt.want, res.Success)
			assert.Equal(t, tt.cmp.Operation(), res.Operation)
		})
	}
}

func TestOrdering_IncomparableIsFault(t *testing.T) {
	res := Compare(NewLess(5), "x", false)
	assert.False(t, res.Success)
	assert.True(t, errors.Is(res.Error, ErrIncomparable))

	res = Compare(NewGreater(5), nil, false)
	assert.False(t, res.Success)
	assert.True(t, errors.Is(res.Error, ErrIncomparable))
}

func TestOptionalNotNullAnything(t *testing.T) {
	assert.True(t, Compare(NewOptional(3), nil, false).Success)
	assert.True(t, Compare(NewOptional(3), 3, false).Success)
	assert.False(t, Compare(NewOptional(3), 4, false).Success)
	assert.False(t, Compare(NewOptional("3"), 3, false).Success, "optional does not coerce")

	assert.False(t, Compare(NewNotNull(), nil, false).Success)
	assert.True(t, Compare(NewNotNull(), 0, false).Success)
	assert.True(t, Compare(NewNotNull(), "", false).Success)

	for _, v := range []any{nil, 1, "x", []any{}, map[string]any{}} {
		res := Compare(NewAnything(), v, false)
		assert.True(t, res.Success)
		assert.Nil(t, res.Expected)
	}
}

func TestLike(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		fold    bool
		want    bool
	}{
		{"HeLLo*", "hello world", true, true},
		{"Hello*", "hello world", false, false},
		{"Hello*", "Hello world", false, true},
		{"file?.txt", "file1.txt", true, true},
		{"file?.txt", "file12.txt", true, false},
		{"[!a]bc", "xbc", false, true},
		{"[!a]bc", "abc", false, false},
		{"[a-c]x", "bx", false, true},
		{"a.b", "axb", false, false},
		{"*/*", "dir/file", false, true},
		{"[unclosed", "[unclosed", false, true},
		{"ÄPFEL", "äpfel", true, true},
		{"prefix", "prefix and more", true, false},
	}

	for _, tt := range tests {
		var c Comparator = NewLikeCase(tt.pattern)
		if tt.fold {
			c = NewLike(tt.pattern)
		}
		res := Compare(c, tt.text, false)
		require.NoError(t, res.Error, tt.pattern)
		assert.Equal(t, tt.want, res.Success, "%s vs %q", tt.pattern, tt.text)
	}
}

func TestLike_NonStringIsFault(t *testing.T) {
	res := Compare(NewLike("5*"), 55, false)
	assert.False(t, res.Success)
	require.Error(t, res.Error)
	assert.Equal(t, OpLike, res.Operation)
}

func TestMatch_AnchoredAtStartOnly(t *testing.T) {
	re := NewMatch("ab+", "")

	assert.True(t, Compare(re, "abbb", false).Success)
	assert.True(t, Compare(re, "abbbc trailing", false).Success, "trailing text is allowed")
	assert.False(t, Compare(re, "cab", false).Success, "match must start at the beginning")
}

func TestMatch_AnchorIgnoresMultiline(t *testing.T) {
	re := NewMatch("second", "m")
	assert.False(t, Compare(re, "first\nsecond", false).Success)
}

func TestMatch_Flags(t *testing.T) {
	assert.True(t, Compare(NewMatch("hello", "i"), "HELLO there", false).Success)
	assert.True(t, Compare(NewMatch("hello", "IGNORECASE"), "HeLLo", false).Success)
	assert.True(t, Compare(NewMatch("a.b", "IGNORECASE|DOTALL"), "A\nB", false).Success)
	assert.False(t, Compare(NewMatch("a.b", ""), "a\nb", false).Success)

	res := Compare(NewMatch("x", "BOGUS"), "x", false)
	assert.False(t, res.Success)
	assert.True(t, errors.Is(res.Error, ErrPattern))
}

func TestMatch_InvalidRegexIsFault(t *testing.T) {
	res := Compare(NewMatch("(", ""), "(", false)

	assert.False(t, res.Success)
	assert.Equal(t, OpMatch, res.Operation)
	assert.True(t, errors.Is(res.Error, ErrPattern))
	assert.Equal(t, map[string]any{"regex": "(", "flags": ""}, res.Expected)
}

func TestLeaf_Custom(t *testing.T) {
	even := NewLeaf("even", nil, func(_, observed any) (bool, error) {
		n, ok := observed.(int)
		if !ok {
			return false, errors.Newf("not an int: %T", observed)
		}
		return n%2 == 0, nil
	})

	assert.True(t, Compare(even, 4, false).Success)
	assert.False(t, Compare(even, 3, false).Success)

	res := Compare(even, "4", false)
	assert.False(t, res.Success)
	assert.Equal(t, "even", res.Operation)
	require.Error(t, res.Error)
}

func TestLeaf_PanicIsCaptured(t *testing.T) {
	boom := NewLeaf("boom", 1, func(_, _ any) (bool, error) {
		panic("kaboom")
	})

	res := Compare(NewMapping(map[string]any{"a": boom, "b": 2}), map[string]any{"a": 1, "b": 2}, false)

	assert.False(t, res.Success)
	a, ok := res.Child("a")
	require.True(t, ok)
	require.Error(t, a.Error)
	assert.Contains(t, a.Error.Error(), "kaboom")

	b, ok := res.Child("b")
	require.True(t, ok)
	assert.True(t, b.Success, "siblings still evaluate")
}
