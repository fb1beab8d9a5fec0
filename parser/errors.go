package parser

import (
	"fmt"

	"github.com/robinvdvleuten/pyfmt/ast"
)

// ParseError represents a syntax error during lexing or parsing.
type ParseError struct {
	Pos     ast.Position
	Message string
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d", e.Pos.Line)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

// newErrorf creates a ParseError at the given position.
func newErrorf(pos ast.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}
