// Package loader reads expectation and observation documents from disk.
//
// Expectations are tagged YAML (JSON is accepted as a YAML subset) and are
// built through a registry. Observations are plain data in JSON, YAML or
// CUE, decoded into the generic shape the match package compares against:
// map[string]any, []any, string, bool, int, float64 and nil.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/shapematch/internal/match"
	"github.com/roach88/shapematch/internal/registry"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format identifies an observation encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFor derives the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// LoadExpected reads and builds the expectation stored at path.
func LoadExpected(reg *registry.Registry, path string) (match.Comparator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expectation: %w", err)
	}
	c, err := reg.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadObserved reads the observation stored at path, choosing the decoder
// from its extension.
func LoadObserved(path string) (any, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read observation: %w", err)
	}
	v, err := DecodeObserved(data, format, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// DecodeObserved decodes data in the given format. name is used for CUE
// positions only.
func DecodeObserved(data []byte, format Format, name string) (any, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatCUE:
		return decodeCUE(data, name)
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to parse JSON: trailing data after document")
	}
	return numbers(v), nil
}

// numbers replaces json.Number with int when the value is integral and
// fits, float64 otherwise, so JSON and YAML observations agree.
func numbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil && int64(int(n)) == n {
			return int(n)
		}
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		for k, item := range t {
			t[k] = numbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = numbers(item)
		}
		return t
	}
	return v
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return v, nil
}

// decodeCUE evaluates a CUE document, requires it to be concrete, and
// exports it through JSON.
func decodeCUE(data []byte, name string) (any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE value is not concrete: %w", err)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to export CUE: %w", err)
	}
	return decodeJSON(out)
}
