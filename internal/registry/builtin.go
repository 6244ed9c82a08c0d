package registry

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shapematch/internal/match"
)

// Short aliases accepted alongside the canonical tags.
var aliases = map[string]match.Comparator{
	"dict":        &match.Mapping{},
	"list":        &match.Sequence{},
	"strict_list": &match.StrictSequence{},
	"tuple":       &match.FixedSequence{},
	"json_dict":   &match.JSONMapping{},
	"json_list":   &match.JSONSequence{},
}

func registerBuiltins(r *Registry) {
	r.RegisterVariant(&match.Equals{}, fromValue(func(v any) match.Comparator { return match.NewEquals(v) }))
	r.RegisterVariant(&match.Unequals{}, fromValue(func(v any) match.Comparator { return match.NewUnequals(v) }))
	r.RegisterVariant(&match.Less{}, fromValue(func(v any) match.Comparator { return match.NewLess(v) }))
	r.RegisterVariant(&match.LessOrEqual{}, fromValue(func(v any) match.Comparator { return match.NewLessOrEqual(v) }))
	r.RegisterVariant(&match.Greater{}, fromValue(func(v any) match.Comparator { return match.NewGreater(v) }))
	r.RegisterVariant(&match.GreaterOrEqual{}, fromValue(func(v any) match.Comparator { return match.NewGreaterOrEqual(v) }))
	r.RegisterVariant(&match.Optional{}, parseOptional)

	r.RegisterVariant(&match.Anything{}, noValue(func() match.Comparator { return match.NewAnything() }))
	r.RegisterVariant(&match.NotNull{}, noValue(func() match.Comparator { return match.NewNotNull() }))

	r.RegisterVariant(&match.Like{}, fromText(func(s string) match.Comparator { return match.NewLike(s) }))
	r.RegisterVariant(&match.LikeCase{}, fromText(func(s string) match.Comparator { return match.NewLikeCase(s) }))
	r.RegisterVariant(&match.Match{}, parseMatch)

	r.RegisterVariant(&match.Between{}, parseBetween)
	r.RegisterVariant(&match.OneOf{}, fromOptions(func(opts []any) match.Comparator { return match.NewOneOf(opts...) }))
	r.RegisterVariant(&match.NoneOf{}, fromOptions(func(opts []any) match.Comparator { return match.NewNoneOf(opts...) }))

	mapping := fromMapping(func(m map[string]any) match.Comparator { return match.NewMapping(m) })
	sequence := fromSequence(func(items []any) match.Comparator { return match.NewSequence(items...) })
	r.RegisterVariant(&match.Mapping{}, mapping)
	r.RegisterVariant(&match.Sequence{}, sequence)
	r.RegisterVariant(&match.StrictSequence{}, fromSequence(func(items []any) match.Comparator { return match.NewStrictSequence(items...) }))
	r.RegisterVariant(&match.FixedSequence{}, fromSequence(func(items []any) match.Comparator { return match.NewFixedSequence(items...) }))
	r.RegisterVariant(&match.JSONMapping{}, fromMapping(func(m map[string]any) match.Comparator { return match.NewJSONMapping(m) }))
	r.RegisterVariant(&match.JSONSequence{}, fromSequence(func(items []any) match.Comparator { return match.NewJSONSequence(items...) }))

	for alias, prototype := range aliases {
		s, _ := r.Resolve(TagFor(prototype))
		r.Register(Tag(alias), s)
	}

	r.Register(RootMappingTag, fromMapping(func(m map[string]any) match.Comparator { return match.NewRootMapping(m) }))
	r.Register(RootSequenceTag, fromSequence(func(items []any) match.Comparator { return match.NewRootSequence(items...) }))
}

// fromValue builds a comparator from the node's literal. Scalars keep their
// source text, so "02139" stays a string and Coerce types it against the
// observed value; sequences and mappings are deep-constructed.
func fromValue(ctor func(any) match.Comparator) Strategy {
	return func(b *Builder, node *yaml.Node) (match.Comparator, error) {
		if node.Kind == yaml.ScalarNode {
			return ctor(node.Value), nil
		}
		v, err := b.Content(node)
		if err != nil {
			return nil, err
		}
		return ctor(v), nil
	}
}

// parseOptional treats a bare tag as "absent only"; any other scalar is
// text like fromValue.
func parseOptional(b *Builder, node *yaml.Node) (match.Comparator, error) {
	if bare(node) {
		return match.NewOptional(nil), nil
	}
	return fromValue(func(v any) match.Comparator { return match.NewOptional(v) })(b, node)
}

// noValue accepts an empty or null scalar.
func noValue(ctor func() match.Comparator) Strategy {
	return func(_ *Builder, node *yaml.Node) (match.Comparator, error) {
		if node.Kind != yaml.ScalarNode || (node.Value != "" && node.Value != "~" && node.Value != "null") {
			return nil, newParseError(node, "takes no value", nil)
		}
		return ctor(), nil
	}
}

// fromText uses the raw scalar text, so patterns like 5* stay strings.
func fromText(ctor func(string) match.Comparator) Strategy {
	return func(_ *Builder, node *yaml.Node) (match.Comparator, error) {
		if node.Kind != yaml.ScalarNode {
			return nil, newParseError(node, "requires a scalar pattern", nil)
		}
		return ctor(node.Value), nil
	}
}

func fromOptions(ctor func([]any) match.Comparator) Strategy {
	return func(b *Builder, node *yaml.Node) (match.Comparator, error) {
		v, err := b.Content(node)
		if err != nil {
			return nil, err
		}
		opts, err := match.OptionsFromLiteral(v)
		if err != nil {
			return nil, newParseError(node, err.Error(), err)
		}
		return ctor(opts), nil
	}
}

// bare reports a tag applied to nothing, as in "tags: !match.list".
func bare(node *yaml.Node) bool {
	const quoted = yaml.DoubleQuotedStyle | yaml.SingleQuotedStyle | yaml.LiteralStyle | yaml.FoldedStyle
	return node.Kind == yaml.ScalarNode && node.Value == "" && node.Style&quoted == 0
}

// fromMapping builds a composite from a mapping; a bare tag is an empty one.
func fromMapping(ctor func(map[string]any) match.Comparator) Strategy {
	return func(b *Builder, node *yaml.Node) (match.Comparator, error) {
		if bare(node) {
			return ctor(map[string]any{}), nil
		}
		if node.Kind != yaml.MappingNode {
			return nil, newParseError(node, "requires a mapping", nil)
		}
		v, err := b.Content(node)
		if err != nil {
			return nil, err
		}
		return ctor(v.(map[string]any)), nil
	}
}

func fromSequence(ctor func([]any) match.Comparator) Strategy {
	return func(b *Builder, node *yaml.Node) (match.Comparator, error) {
		if bare(node) {
			return ctor([]any{}), nil
		}
		if node.Kind != yaml.SequenceNode {
			return nil, newParseError(node, "requires a sequence", nil)
		}
		v, err := b.Content(node)
		if err != nil {
			return nil, err
		}
		return ctor(v.([]any)), nil
	}
}

// parseBetween accepts [min, max] or {min: .., max: ..}.
func parseBetween(b *Builder, node *yaml.Node) (match.Comparator, error) {
	v, err := b.Content(node)
	if err != nil {
		return nil, err
	}
	c, err := match.BetweenFromLiteral(v)
	if err != nil {
		return nil, newParseError(node, err.Error(), err)
	}
	return c, nil
}

// parseMatch accepts a bare regex scalar or {regex: .., flags: ..}, where
// flags is a string or a sequence of flag names.
func parseMatch(b *Builder, node *yaml.Node) (match.Comparator, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return match.NewMatch(node.Value, ""), nil
	case yaml.MappingNode:
	default:
		return nil, newParseError(node, "requires a regex or a {regex, flags} mapping", nil)
	}

	v, err := b.Content(node)
	if err != nil {
		return nil, err
	}
	fields := v.(map[string]any)
	regex, ok := fields["regex"].(string)
	if !ok {
		return nil, newParseError(node, "regex must be a string", nil)
	}

	var flags string
	switch f := fields["flags"].(type) {
	case nil:
	case string:
		flags = f
	case []any:
		names := make([]string, 0, len(f))
		for _, name := range f {
			names = append(names, fmt.Sprint(name))
		}
		flags = strings.Join(names, "|")
	default:
		return nil, newParseError(node, fmt.Sprintf("flags must be a string or sequence, got %s", match.Describe(f)), nil)
	}

	for k := range fields {
		if k != "regex" && k != "flags" {
			return nil, newParseError(node, fmt.Sprintf("unknown key %q", k), nil)
		}
	}
	return match.NewMatch(regex, flags), nil
}
