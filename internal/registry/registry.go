package registry

import (
	"reflect"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shapematch/internal/match"
)

// Namespace prefixes every canonical comparator tag.
const Namespace = "!match"

// Reserved tags for the root comparators.
const (
	RootMappingTag  = "!expect"
	RootSequenceTag = "!expect_list"
)

// Strategy constructs a comparator from a tagged node. The node still
// carries its tag; use Builder.Content to read its untagged literal.
type Strategy func(b *Builder, node *yaml.Node) (match.Comparator, error)

// Registry maps tags to construction strategies.
type Registry struct {
	strategies map[string]Strategy
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Builtin returns a new registry populated with every built-in comparator.
func Builtin() *Registry {
	r := New()
	registerBuiltins(r)
	return r
}

var defaultRegistry = sync.OnceValue(Builtin)

// Default returns the process-wide registry, populated on first use.
func Default() *Registry {
	return defaultRegistry()
}

// Register binds tag to s, replacing any earlier binding.
func (r *Registry) Register(tag string, s Strategy) {
	r.strategies[tag] = s
}

// RegisterVariant binds s under the canonical tag of prototype's type and
// returns that tag.
func (r *Registry) RegisterVariant(prototype match.Comparator, s Strategy) string {
	tag := TagFor(prototype)
	r.Register(tag, s)
	return tag
}

// Resolve returns the strategy bound to tag.
func (r *Registry) Resolve(tag string) (Strategy, bool) {
	s, ok := r.strategies[tag]
	return s, ok
}

// Tags returns every registered tag in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.strategies))
	for tag := range r.strategies {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// TagFor derives the canonical tag of a comparator type, e.g.
// *match.GreaterOrEqual becomes "!match.greater_or_equal".
func TagFor(prototype match.Comparator) string {
	t := reflect.TypeOf(prototype)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return Tag(match.SnakeCase(t.Name()))
}

// Tag returns the namespaced tag for an operation name.
func Tag(name string) string {
	return Namespace + "." + name
}
