package registry

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseError reports a tagged literal that could not be turned into a
// comparator. It indicates an authoring mistake in the expectation.
type ParseError struct {
	Tag     string // Tag being constructed, if any
	Line    int    // 1-based position of the offending node
	Column  int
	Message string
	Err     error // Underlying error (optional)
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Tag != "" {
		msg = fmt.Sprintf("%s: %s", e.Tag, msg)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(node *yaml.Node, message string, err error) *ParseError {
	pe := &ParseError{Message: message, Err: err}
	if node != nil {
		pe.Tag = customTag(node)
		pe.Line = node.Line
		pe.Column = node.Column
	}
	return pe
}

// asParseError attaches node context to err unless it already has some.
func asParseError(node *yaml.Node, err error) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return newParseError(node, err.Error(), err)
}
