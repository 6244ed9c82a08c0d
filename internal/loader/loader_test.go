package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shapematch/internal/match"
	"github.com/roach88/shapematch/internal/registry"
)

var wantUser = map[string]any{
	"name":    "Alice",
	"age":     30,
	"score":   9.5,
	"tags":    []any{"a", "b"},
	"manager": nil,
}

func TestLoadObserved_FormatsAgree(t *testing.T) {
	for _, name := range []string{"user.json", "user.yaml", "user.cue"} {
		t.Run(name, func(t *testing.T) {
			v, err := LoadObserved(filepath.Join("testdata", name))
			require.NoError(t, err)
			assert.Equal(t, wantUser, v)
		})
	}
}

func TestLoadExpected_MatchesObservations(t *testing.T) {
	expected, err := LoadExpected(registry.Builtin(), filepath.Join("testdata", "user_expect.yaml"))
	require.NoError(t, err)

	root, ok := expected.(match.Assertable)
	require.True(t, ok)

	for _, name := range []string{"user.json", "user.yaml", "user.cue"} {
		observed, err := LoadObserved(filepath.Join("testdata", name))
		require.NoError(t, err)
		assert.NoError(t, root.AssertAll(observed), name)
	}
}

func TestLoadObserved_UnsupportedExtension(t *testing.T) {
	_, err := LoadObserved("observed.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadObserved_MissingFile(t *testing.T) {
	_, err := LoadObserved(filepath.Join("testdata", "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadObserved_IncompleteCUE(t *testing.T) {
	_, err := LoadObserved(filepath.Join("testdata", "incomplete.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not concrete")
}

func TestDecodeObserved_JSONTrailingData(t *testing.T) {
	_, err := DecodeObserved([]byte(`{"a": 1} {"b": 2}`), FormatJSON, "inline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing data")
}

func TestDecodeObserved_JSONNumbers(t *testing.T) {
	v, err := DecodeObserved([]byte(`[1, 2.5, 1e400, 18446744073709551615]`), FormatJSON, "inline")
	require.NoError(t, err)

	items := v.([]any)
	assert.Equal(t, 1, items[0])
	assert.Equal(t, 2.5, items[1])
	assert.Equal(t, "1e400", items[2], "out of range numbers stay textual")
	assert.InDelta(t, 1.8446744073709552e19, items[3], 1)
}

func TestLoadExpected_ParseErrorKeepsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: !match.bogus 1\n"), 0o644))

	_, err := LoadExpected(registry.Builtin(), path)
	var pe *registry.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), path)
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("A.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
}
