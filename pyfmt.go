// Package pyfmt reformats Python source files into a canonical form while
// preserving their comments.
//
// The pipeline has three stages: the parser produces a syntax tree plus a
// position-ordered comment stream, the trivia package attaches the
// comments to the tree, and the formatter renders the annotated tree as
// deterministic text. Reformatting already-canonical source is the
// identity.
package pyfmt

import (
	"context"

	"github.com/robinvdvleuten/pyfmt/ast"
	"github.com/robinvdvleuten/pyfmt/formatter"
	"github.com/robinvdvleuten/pyfmt/parser"
	"github.com/robinvdvleuten/pyfmt/trivia"
)

// Parse parses Python source and returns the syntax tree with comments
// attached.
func Parse(ctx context.Context, src []byte) (*ast.Module, error) {
	res, err := parser.ParseBytes(ctx, src)
	if err != nil {
		return nil, err
	}
	return trivia.Merge(res.Module, res.Comments, res.Lines), nil
}

// Reformat renders src in canonical form.
func Reformat(ctx context.Context, src []byte) ([]byte, error) {
	f := &formatter.Formatter{}
	return f.Reformat(ctx, src)
}
