package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userExpectation() *Mapping {
	return NewMapping(map[string]any{
		"name": "bob",
		"age":  NewGreater(18),
	})
}

func TestDiffData_NilOnSuccess(t *testing.T) {
	res := Compare(userExpectation(), map[string]any{"name": "bob", "age": 30}, true)
	require.True(t, res.Success)
	assert.Nil(t, res.DiffData())
	assert.Equal(t, "", res.DiffInfo())
	assert.Empty(t, res.FailedKeys())
}

func TestDiffData_KeepsOnlyFailingBranches(t *testing.T) {
	expected := NewMapping(map[string]any{
		"ok":   1,
		"bad":  2,
		"deep": map[string]any{"fine": true, "wrong": "x"},
	})
	res := Compare(expected, map[string]any{
		"ok":   1,
		"bad":  3,
		"deep": map[string]any{"fine": true, "wrong": "y"},
	}, true)

	want := map[string]any{
		"bad": map[string]any{"operation": "equals", "expected": 2, "observed": 3},
		"deep": map[string]any{
			"wrong": map[string]any{"operation": "equals", "expected": "x", "observed": "y"},
		},
	}
	assert.Equal(t, want, res.DiffData())
}

func TestDiffData_LeafCarriesError(t *testing.T) {
	res := Compare(NewEquals("abc"), 5, false)

	data, ok := res.DiffData().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "equals", data["operation"])
	assert.Contains(t, data["error"], "abc")
}

func TestDiffInfo_YAML(t *testing.T) {
	res := Compare(userExpectation(), map[string]any{"name": "alice", "age": 10}, true)

	want := `age:
  expected: 18
  observed: 10
  operation: greater
name:
  expected: bob
  observed: alice
  operation: equals
`
	assert.Equal(t, want, res.DiffInfo())
}

func TestDiffInfo_PrettyFallback(t *testing.T) {
	type opaque struct{ N int }
	custom := NewLeaf("custom", opaque{N: 1}, func(_, _ any) (bool, error) { return false, nil })

	info := Compare(custom, 1, false).DiffInfo()
	assert.Contains(t, info, "custom")
	assert.Contains(t, info, "expected")
}

func TestDiffInfo_CyclicOperands(t *testing.T) {
	seq := []any{1, nil}
	seq[1] = seq

	info := Compare(NewEquals(2), seq, false).DiffInfo()
	assert.Contains(t, info, "equals")
	assert.Contains(t, info, "DEPTH EXCEEDED")

	shared := []any{1}
	info = Compare(NewEquals(nil), []any{shared, shared}, false).DiffInfo()
	assert.Contains(t, info, "operation: equals", "repeated acyclic values still render as YAML")
}

func TestFailedKeys_Paths(t *testing.T) {
	expected := NewMapping(map[string]any{
		"field": 1,
		"a": map[string]any{
			"b": []any{1, 2},
		},
		"list": []any{0, 0, 0, 9},
		"n":    []any{1},
	})
	observed := map[string]any{
		"field": 2,
		"a":     map[string]any{"b": []any{1, 3}},
		"list":  []any{0, 0, 0, 8},
		"n":     []any{1, 2},
	}

	res := Compare(expected, observed, false)
	assert.Equal(t, []string{"a.b.index_1", "field", "list.index_3", "n"}, res.FailedKeys())
}

func TestFailedKeys_RoundTrip(t *testing.T) {
	expected := NewMapping(map[string]any{
		"a": map[string]any{"x": 1, "y": []any{1, map[string]any{"z": 2}}},
		"b": NewOneOf(1, 2),
		"c": NewJSONSequence(1),
	})
	observed := map[string]any{
		"a": map[string]any{"x": 0, "y": []any{1, map[string]any{"z": 3}}},
		"b": 3,
		"c": "garbage",
		"d": "extra",
	}

	res := Compare(expected, observed, false)
	keys := res.FailedKeys()
	require.NotEmpty(t, keys)

	for _, key := range keys {
		node, ok := res.Lookup(key)
		require.True(t, ok, key)
		assert.False(t, node.Success, key)
	}
	assert.Equal(t, []string{"a.x", "a.y.index_1.z", "b", "c", "d"}, keys)
}

func TestFailedKeys_EmptyForFailingLeaf(t *testing.T) {
	res := Compare(NewEquals(1), 2, false)
	assert.False(t, res.Success)
	assert.Empty(t, res.FailedKeys())
}

func TestLookup(t *testing.T) {
	res := Compare(NewMapping(map[string]any{"a": []any{1}}), map[string]any{"a": []any{1}}, true)

	root, ok := res.Lookup("")
	require.True(t, ok)
	assert.Same(t, res, root)

	leaf, ok := res.Lookup("a.index_0")
	require.True(t, ok)
	assert.Equal(t, OpEquals, leaf.Operation)

	_, ok = res.Lookup("a.index_1")
	assert.False(t, ok)
}
