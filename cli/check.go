package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/pyfmt/formatter"
	"github.com/robinvdvleuten/pyfmt/telemetry"
)

type CheckCmd struct {
	Files []FileOrStdin `help:"Python input filenames (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, nil)
		}()
	}

	if len(cmd.Files) == 0 {
		cmd.Files = make([]FileOrStdin, 1)
	}

	failed := false
	for i := range cmd.Files {
		if err := cmd.checkFile(runCtx, ctx.Stderr, &cmd.Files[i]); err != nil {
			failed = true
		}
	}
	if failed {
		return NewCommandError(1)
	}
	return nil
}

// checkFile reports whether one input is already in canonical form.
func (cmd *CheckCmd) checkFile(runCtx context.Context, stderr io.Writer, file *FileOrStdin) error {
	if err := file.EnsureContents(); err != nil {
		return err
	}
	source, err := file.GetSourceContent()
	if err != nil {
		printError(stderr, err.Error())
		return err
	}

	f := &formatter.Formatter{}
	formatted, err := f.ReformatFile(runCtx, file.GetAbsoluteFilename(), source)
	if err != nil {
		renderer := NewErrorRenderer(source)
		_, _ = fmt.Fprintln(stderr, renderer.Render(err))
		printError(stderr, fmt.Sprintf("%s: parse error", filepath.Base(file.Filename)))
		return err
	}

	name := filepath.Base(file.Filename)
	if !bytes.Equal(source, formatted) {
		printError(stderr, fmt.Sprintf("%s is not canonical", name))
		return fmt.Errorf("%s: not canonical", file.Filename)
	}
	printSuccess(stderr, fmt.Sprintf("%s is canonical", pathStyle.Render(name)))
	return nil
}
