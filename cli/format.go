package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/pyfmt/formatter"
	"github.com/robinvdvleuten/pyfmt/telemetry"
)

// debounceDelay batches editor save events before reformatting.
const debounceDelay = 100 * time.Millisecond

type FmtCmd struct {
	Files []string `help:"Python input filenames (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Write bool     `help:"Rewrite files in place instead of printing to stdout." short:"w"`
	Watch bool     `help:"Watch the files and reformat them on change (implies --write)."`
	Yes   bool     `help:"Skip the confirmation prompt when rewriting multiple files." short:"y"`
}

func (cmd *FmtCmd) Run(ctx *kong.Context, globals *Globals) error {
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

	cmd.Files = stdinArgs(cmd.Files)
	if len(cmd.Files) == 0 {
		if cmd.Write || cmd.Watch {
			return fmt.Errorf("--write and --watch require file arguments")
		}
		return cmd.formatStdin(runCtx, ctx)
	}

	slices.Sort(cmd.Files)
	cmd.Files = slices.Compact(cmd.Files)

	if cmd.Watch {
		cmd.Write = true
	}

	if cmd.Write && len(cmd.Files) > 1 && !cmd.Yes {
		confirmed, err := promptYesNo(ctx, fmt.Sprintf("Rewrite %d files in place?", len(cmd.Files)))
		if err != nil {
			return err
		}
		if !confirmed && isTerminal() {
			printInfof(ctx.Stderr, "aborted")
			return nil
		}
	}

	failed := false
	for _, filename := range cmd.Files {
		if err := cmd.formatFile(runCtx, ctx, filename); err != nil {
			failed = true
		}
	}
	if failed {
		return NewCommandError(1)
	}

	if cmd.Watch {
		return cmd.watch(runCtx, ctx)
	}
	return nil
}

// stdinArgs maps the conventional lone "-" argument onto the empty list
// that selects stdin.
func stdinArgs(files []string) []string {
	if len(files) == 1 && files[0] == "-" {
		return nil
	}
	return files
}

// formatStdin reformats stdin onto stdout.
func (cmd *FmtCmd) formatStdin(runCtx context.Context, ctx *kong.Context) error {
	var file FileOrStdin
	if err := file.EnsureContents(); err != nil {
		return err
	}

	f := &formatter.Formatter{}
	formatted, err := f.ReformatFile(runCtx, file.Filename, file.Contents)
	if err != nil {
		renderer := NewErrorRenderer(file.Contents)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	_, _ = os.Stdout.Write(formatted)
	return nil
}

// formatFile reformats one file, rewriting it in place under --write and
// printing it to stdout otherwise.
func (cmd *FmtCmd) formatFile(runCtx context.Context, ctx *kong.Context, filename string) error {
	source, err := os.ReadFile(filename)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return err
	}

	f := &formatter.Formatter{}
	formatted, err := f.ReformatFile(runCtx, filename, source)
	if err != nil {
		renderer := NewErrorRenderer(source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, fmt.Sprintf("%s: parse error", filename))
		return err
	}

	if !cmd.Write {
		_, _ = os.Stdout.Write(formatted)
		return nil
	}

	if bytes.Equal(source, formatted) {
		printInfof(ctx.Stderr, "%s unchanged", pathStyle.Render(filename))
		return nil
	}

	if err := os.WriteFile(filename, formatted, 0o644); err != nil {
		printError(ctx.Stderr, err.Error())
		return err
	}
	printSuccess(ctx.Stderr, fmt.Sprintf("reformatted %s", pathStyle.Render(filename)))
	return nil
}

// watch reformats the files whenever they change on disk, until
// interrupted. Events are debounced because editors typically fire several
// writes per save.
func (cmd *FmtCmd) watch(runCtx context.Context, ctx *kong.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(cmd.Files))
	dirs := make([]string, 0, len(cmd.Files))
	for _, filename := range cmd.Files {
		abs, err := filepath.Abs(filename)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs = append(dirs, filepath.Dir(abs))
	}

	// Watch directories rather than files: rewriting a file in place
	// replaces the inode on some editors, which drops a file watch.
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	printInfof(ctx.Stderr, "watching %d files", len(watched))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	pending := make(map[string]bool)
	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			pending[abs] = true
			if debounce == nil {
				debounce = time.NewTimer(debounceDelay)
			} else {
				debounce.Reset(debounceDelay)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			for filename := range pending {
				_ = cmd.formatFile(runCtx, ctx, filename)
			}
			clear(pending)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, watchErr.Error())

		case <-interrupt:
			return nil
		}
	}
}
