package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetween_Inclusive(t *testing.T) {
	b := NewBetween(1, 5)

	assert.True(t, Compare(b, 1, false).Success)
	assert.True(t, Compare(b, 3, false).Success)
	assert.True(t, Compare(b, 5, false).Success)
	assert.False(t, Compare(b, 6, false).Success)
	assert.False(t, Compare(b, 0, false).Success)
	assert.True(t, Compare(b, 4.5, false).Success)
}

func TestBetween_CoercesBounds(t *testing.T) {
	b := NewBetween("1", "5")
	res := Compare(b, 5, false)

	require.NoError(t, res.Error)
	assert.True(t, res.Success)
	assert.Equal(t, OpBetween, res.Operation)
	assert.Equal(t, map[string]any{"min": "1", "max": "5"}, res.Expected)

	res = Compare(NewBetween("a", "z"), "m", false)
	assert.True(t, res.Success)

	res = Compare(NewBetween("one", "5"), 3, false)
	assert.False(t, res.Success)
	assert.Error(t, res.Error)
}

func TestBetweenFromLiteral(t *testing.T) {
	b, err := BetweenFromLiteral([]any{1, 5})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"min": 1, "max": 5}, b.Value())

	b, err = BetweenFromLiteral(map[string]any{"min": 2, "max": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"min": 2, "max": 3}, b.Value())

	_, err = BetweenFromLiteral([]any{1})
	assert.Error(t, err)

	_, err = BetweenFromLiteral(map[string]any{"min": 1})
	assert.Error(t, err)

	_, err = BetweenFromLiteral(map[string]any{"min": 1, "max": 2, "step": 1})
	assert.Error(t, err)

	_, err = BetweenFromLiteral(7)
	assert.Error(t, err)
}

func TestOneOf_ReturnsFirstSuccessVerbatim(t *testing.T) {
	res := Compare(NewOneOf(1, NewGreater(1), 3), 2, false)

	assert.True(t, res.Success)
	assert.Equal(t, OpGreater, res.Operation)
	assert.Equal(t, 1, res.Expected)
	assert.Equal(t, 2, res.Observed)
}

func TestOneOf_AggregatesFailures(t *testing.T) {
	res := Compare(NewOneOf(1, 2, 3), 5, false)

	assert.False(t, res.Success)
	assert.Equal(t, OpOneOf, res.Operation)
	assert.Equal(t, "(0) 1, (1) 2, (2) 3", res.Expected)
	assert.Equal(t, 5, res.Observed)
	assert.Empty(t, res.Children)
	assert.NoError(t, res.Error)
}

func TestOneOf_Empty(t *testing.T) {
	res := Compare(NewOneOf(), 5, false)
	assert.False(t, res.Success)
	assert.Equal(t, "", res.Expected)
}

func TestNoneOf_FailsOnFirstMatch(t *testing.T) {
	res := Compare(NewNoneOf(1, 2, 3), 2, false)

	assert.False(t, res.Success)
	assert.Equal(t, "not equals", res.Operation)
	assert.Equal(t, 2, res.Expected)
	assert.Equal(t, 2, res.Observed)
}

func TestNoneOf_SucceedsWhenNothingMatches(t *testing.T) {
	res := Compare(NewNoneOf(1, 2, 3), 5, false)

	assert.True(t, res.Success)
	assert.Equal(t, OpNoneOf, res.Operation)
}

func TestNoneOf_PropagatesChildren(t *testing.T) {
	forbidden := map[string]any{"role": "root"}
	res := Compare(NewNoneOf(forbidden), map[string]any{"role": "root"}, true)

	assert.False(t, res.Success)
	assert.Equal(t, "not mapping", res.Operation)
	require.Len(t, res.Children, 1)
	assert.Equal(t, "role", res.Children[0].Key)

	// The children themselves succeeded, so the negation is reported as a
	// single record rather than an empty map.
	data, ok := res.DiffData().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "not mapping", data["operation"])
	assert.Empty(t, res.FailedKeys())
}

func TestOptionsFromLiteral(t *testing.T) {
	opts, err := OptionsFromLiteral([]any{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, opts)

	opts, err = OptionsFromLiteral(map[string]any{"options": []any{"a"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, opts)

	_, err = OptionsFromLiteral(map[string]any{"choices": []any{"a"}})
	assert.Error(t, err)

	_, err = OptionsFromLiteral("a")
	assert.Error(t, err)
}
