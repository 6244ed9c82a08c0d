package match

import (
	"bytes"
	"reflect"
	"sort"
	"strings"

	"github.com/kr/pretty"
	"gopkg.in/yaml.v3"
)

// Result is the outcome of evaluating a comparator against an observed
// value. Results are created fresh by every Compare call and are read-only
// afterwards.
type Result struct {
	// Operation names the comparator that produced this result.
	Operation string

	// Success is the predicate outcome for leaves, and the conjunction of
	// all children for composites.
	Success bool

	// Expected and Observed are the operands, kept for diagnostics.
	Expected any
	Observed any

	// Children holds one entry per visited field or index, in visit order.
	// Always empty for leaves.
	Children []Child

	// Error is set only when the predicate itself faulted.
	Error error
}

// Child is a keyed nested result. Keys are field names or index_<n>.
type Child struct {
	Key    string
	Result *Result
}

func (r *Result) add(key string, child *Result) {
	r.Children = append(r.Children, Child{Key: key, Result: child})
	r.Success = r.Success && child.Success
}

// Child returns the nested result stored under key.
func (r *Result) Child(key string) (*Result, bool) {
	for _, c := range r.Children {
		if c.Key == key {
			return c.Result, true
		}
	}
	return nil, false
}

// Lookup resolves a dotted path such as "a.b.index_1", as returned by
// FailedKeys. The empty path resolves to r itself.
func (r *Result) Lookup(path string) (*Result, bool) {
	if path == "" {
		return r, true
	}
	cur := r
	for _, key := range strings.Split(path, ".") {
		next, ok := cur.Child(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func (r *Result) hasFailingChildren() bool {
	for _, c := range r.Children {
		if !c.Result.Success {
			return true
		}
	}
	return false
}

// DiffData projects the result onto its failing branches. It returns nil
// when the comparison succeeded. A failing node with failing children
// becomes a map of those children; any other failing node becomes a record
// of operation, expected, observed and, when present, error.
func (r *Result) DiffData() any {
	if r == nil || r.Success {
		return nil
	}

	if r.hasFailingChildren() {
		out := make(map[string]any)
		for _, c := range r.Children {
			if !c.Result.Success {
				out[c.Key] = c.Result.DiffData()
			}
		}
		return out
	}

	record := map[string]any{
		"operation": r.Operation,
		"expected":  r.Expected,
		"observed":  r.Observed,
	}
	if r.Error != nil {
		record["error"] = r.Error.Error()
	}
	return record
}

// DiffInfo renders DiffData as YAML. Data that YAML cannot represent
// faithfully, such as comparators nested in an expected value or cyclic
// operands, is rendered with a generic pretty printer instead, which stops
// at a fixed depth. Returns "" on success.
func (r *Result) DiffInfo() string {
	data := r.DiffData()
	if data == nil {
		return ""
	}

	if renderable(reflect.ValueOf(data), make(map[uintptr]bool)) {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(data); err == nil && enc.Close() == nil {
			return buf.String()
		}
	}
	return pretty.Sprint(data) + "\n"
}

// renderable reports whether v is built only from scalars, slices, arrays
// and string-keyed maps, and holds no cycle. active tracks the containers
// on the current path.
func renderable(v reflect.Value, active map[uintptr]bool) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		return renderable(v.Elem(), active)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Len() > 0 {
			ptr := v.Pointer()
			if active[ptr] {
				return false
			}
			active[ptr] = true
			defer delete(active, ptr)
		}
		for i := 0; i < v.Len(); i++ {
			if !renderable(v.Index(i), active) {
				return false
			}
		}
		return true
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return false
		}
		if v.IsNil() {
			return true
		}
		ptr := v.Pointer()
		if active[ptr] {
			return false
		}
		active[ptr] = true
		defer delete(active, ptr)
		iter := v.MapRange()
		for iter.Next() {
			if !renderable(iter.Value(), active) {
				return false
			}
		}
		return true
	}
	return false
}

// FailedKeys returns the sorted dotted paths of every failing leaf and of
// every failing subtree without failing children of its own. It is empty
// when the comparison succeeded or the result has no children.
func (r *Result) FailedKeys() []string {
	keys := []string{}
	if r == nil || r.Success {
		return keys
	}
	r.collectFailed("", &keys)
	sort.Strings(keys)
	return keys
}

func (r *Result) collectFailed(prefix string, out *[]string) {
	for _, c := range r.Children {
		if c.Result.Success {
			continue
		}
		path := c.Key
		if prefix != "" {
			path = prefix + "." + c.Key
		}
		if c.Result.hasFailingChildren() {
			c.Result.collectFailed(path, out)
		} else {
			*out = append(*out, path)
		}
	}
}
