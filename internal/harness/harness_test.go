package harness

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/shapematch/internal/match"
	"github.com/roach88/shapematch/internal/registry"
)

func mustParse(t *testing.T, doc string) *Case {
	t.Helper()
	c, err := ParseCase([]byte(doc))
	require.NoError(t, err)
	return c
}

func TestRun_Pass(t *testing.T) {
	c := mustParse(t, `
name: pass
expected: !expect
  id: !match.not_null
  roles: [admin, !match.one_of [owner, viewer]]
observed:
  id: 7
  roles: [admin, viewer]
`)

	result, err := Run(c)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.True(t, result.Matched)
	assert.Empty(t, result.FailedKeys)
	assert.Empty(t, result.Diff)
	assert.Empty(t, result.Errors)
}

func TestRun_UnwantedMismatch(t *testing.T) {
	c := mustParse(t, `
name: mismatch
expected: {a: !match.less 3}
observed: {a: 5}
`)

	result, err := Run(c)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.False(t, result.Matched)
	assert.Equal(t, []string{"a"}, result.FailedKeys)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "operation: less")
}

func TestRun_WantFail(t *testing.T) {
	c := mustParse(t, `
name: want_fail
want: fail
failed_keys: [b.index_0]
expected: {a: 1, b: [2]}
observed: {a: 1, b: [3]}
`)

	result, err := Run(c)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.False(t, result.Matched)
	assert.Equal(t, []string{"b.index_0"}, result.FailedKeys)
}

func TestRun_WantFailButMatched(t *testing.T) {
	c := mustParse(t, "name: x\nwant: fail\nexpected: 1\nobserved: 1\n")

	result, err := Run(c)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"expected the comparison to fail, but it matched"}, result.Errors)
}

func TestRun_FailedKeysDisagree(t *testing.T) {
	c := mustParse(t, "name: x\nwant: fail\nfailed_keys: [b]\nexpected: {a: 1}\nobserved: {a: 2}\n")

	result, err := Run(c)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"failed keys: want [b], got [a]"}, result.Errors)
}

func TestRun_ObservedFile(t *testing.T) {
	c, err := LoadCase(filepath.Join("testdata", "cases", "inventory_cue.yaml"))
	require.NoError(t, err)

	result, err := Run(c)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_MalformedExpectation(t *testing.T) {
	c := mustParse(t, "name: x\nexpected: {a: !match.nope 1}\nobserved: {}\n")

	_, err := Run(c)
	var pe *registry.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "!match.nope", pe.Tag)
}

func TestRun_MissingObservedFile(t *testing.T) {
	c := mustParse(t, "name: x\nexpected: 1\nobserved_file: /nonexistent/value.json\n")

	_, err := Run(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load observation")
}

func TestHarness_CustomRegistry(t *testing.T) {
	reg := registry.Builtin()
	reg.Register(registry.Tag("even"), func(_ *registry.Builder, _ *yaml.Node) (match.Comparator, error) {
		return match.NewLeaf("even", nil, func(_, observed any) (bool, error) {
			n, ok := observed.(int)
			return ok && n%2 == 0, nil
		}), nil
	})

	c := mustParse(t, "name: even\nexpected:\n  n: !match.even\nobserved: {n: 4}\n")

	_, err := Run(c)
	require.Error(t, err, "the default registry does not know the tag")

	result, err := New(WithRegistry(reg)).Run(c)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestHarness_MaxDepth(t *testing.T) {
	c := mustParse(t, "name: deep\nexpected: {a: {b: {c: 1}}}\nobserved: {a: {b: {c: 1}}}\n")

	result, err := New(WithMaxDepth(2)).Run(c)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"a.b.c"}, result.FailedKeys)

	got, ok := result.Comparison.Lookup("a.b.c")
	require.True(t, ok)
	assert.Equal(t, match.OpDepthExceeded, got.Operation)
}

func TestHarness_LogsEachCase(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := mustParse(t, "name: logged\nexpected: 1\nobserved: 1\n")

	_, err := New(WithLogger(logger)).Run(c)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `msg="case evaluated"`)
	assert.Contains(t, buf.String(), "case=logged")
	assert.Contains(t, buf.String(), "pass=true")
}
