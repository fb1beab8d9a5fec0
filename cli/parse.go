package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/pyfmt/parser"
	"github.com/robinvdvleuten/pyfmt/trivia"
)

type ParseCmd struct {
	File     FileOrStdin `help:"Python input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Comments bool        `help:"Attach comments to the tree before dumping."`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	res, err := parser.ParseBytesWithFilename(context.Background(), cmd.File.GetAbsoluteFilename(), sourceContent)
	if err != nil {
		renderer := NewErrorRenderer(sourceContent)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	if cmd.Comments {
		repr.Println(trivia.Merge(res.Module, res.Comments, res.Lines))
		return nil
	}

	repr.Println(res.Module)
	if len(res.Comments) > 0 {
		repr.Println(res.Comments)
	}
	return nil
}
