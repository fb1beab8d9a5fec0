package formatter

import (
	"context"

	"github.com/robinvdvleuten/pyfmt/parser"
	"github.com/robinvdvleuten/pyfmt/telemetry"
	"github.com/robinvdvleuten/pyfmt/trivia"
)

// Reformat parses src, reattaches its comments, and renders the canonical
// form. The result is stable: reformatting its own output is the identity.
func (f *Formatter) Reformat(ctx context.Context, src []byte) ([]byte, error) {
	return f.ReformatFile(ctx, "", src)
}

// ReformatFile is Reformat with a filename for positions in errors.
func (f *Formatter) ReformatFile(ctx context.Context, filename string, src []byte) ([]byte, error) {
	res, err := parser.ParseBytesWithFilename(ctx, filename, src)
	if err != nil {
		return nil, err
	}

	timer := telemetry.FromContext(ctx).Start("merge")
	merged := trivia.Merge(res.Module, res.Comments, res.Lines)
	timer.End()

	timer = telemetry.FromContext(ctx).Start("print")
	defer timer.End()
	return []byte(f.FormatString(merged)), nil
}
