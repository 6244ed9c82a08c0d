package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shapematch/internal/match"
)

// maxNodes bounds how many nodes one document may expand to through
// aliases.
const maxNodes = 1 << 20

// Builder deep-constructs literals from YAML nodes, resolving nested tags
// through its registry. A Builder is used for a single document.
type Builder struct {
	reg *Registry

	expanding map[*yaml.Node]bool // alias targets under construction
	nodes     int
}

// NewBuilder returns a builder resolving tags through r.
func NewBuilder(r *Registry) *Builder {
	return &Builder{reg: r, expanding: make(map[*yaml.Node]bool)}
}

// Decode parses a single YAML document and builds the comparator it
// describes. Untagged documents are normalized, so a plain mapping becomes
// a match.Mapping.
func (r *Registry) Decode(data []byte) (match.Comparator, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Message: "empty document"}
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return r.Build(&doc)
}

// Build constructs the comparator described by node.
func (r *Registry) Build(node *yaml.Node) (match.Comparator, error) {
	lit, err := NewBuilder(r).Literal(node)
	if err != nil {
		return nil, err
	}
	return match.Normalize(lit), nil
}

// Literal converts node into a Go value. Tagged nodes become comparators,
// mappings become map[string]any, sequences []any and scalars their
// implicitly resolved YAML type.
func (b *Builder) Literal(node *yaml.Node) (any, error) {
	if b.nodes++; b.nodes > maxNodes {
		return nil, newParseError(node, fmt.Sprintf("document expands to more than %d nodes", maxNodes), nil)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return b.Literal(node.Content[0])
	case yaml.AliasNode:
		return b.alias(node)
	}

	if tag := customTag(node); tag != "" {
		s, ok := b.reg.Resolve(tag)
		if !ok {
			return nil, newParseError(node, "unknown tag", nil)
		}
		c, err := s(b, node)
		if err != nil {
			return nil, asParseError(node, err)
		}
		return c, nil
	}

	switch node.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind == yaml.AliasNode {
				key = key.Alias
			}
			if key.Kind != yaml.ScalarNode {
				return nil, newParseError(key, "mapping keys must be scalars", nil)
			}
			v, err := b.Literal(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[key.Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := b.Literal(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, newParseError(node, "invalid scalar", err)
		}
		return v, nil
	}
	return nil, newParseError(node, fmt.Sprintf("unsupported node kind %d", node.Kind), nil)
}

// alias expands an alias node. An alias reached again while its own
// anchor is still being built refers to itself and is rejected.
func (b *Builder) alias(node *yaml.Node) (any, error) {
	target := node.Alias
	if target == nil {
		return nil, newParseError(node, "unresolved alias", nil)
	}
	if b.expanding[target] {
		return nil, newParseError(node, fmt.Sprintf("alias *%s refers to itself", node.Value), nil)
	}
	b.expanding[target] = true
	defer delete(b.expanding, target)
	return b.Literal(target)
}

// Content returns the literal of node with its own tag stripped, so a
// strategy can read the value it was applied to.
func (b *Builder) Content(node *yaml.Node) (any, error) {
	plain := *node
	plain.Tag = ""
	return b.Literal(&plain)
}

// customTag returns the node's application tag, or "" for untagged nodes
// and standard !! tags.
func customTag(node *yaml.Node) string {
	tag := node.Tag
	if tag == "" || tag == "!" || strings.HasPrefix(tag, "!!") || !strings.HasPrefix(tag, "!") {
		return ""
	}
	return tag
}
