// Package telemetry times the phases of a reformatting run. A run builds a
// small tree of spans: a root span for the invocation with children for the
// parse, merge, and print phases, written as an indented tree on stderr
// when --telemetry is set.
//
// Collectors travel through context so the parser and formatter stay free
// of plumbing arguments:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	run := collector.Start("reformat")
//	parse := run.Child("parse")
//	// ... work ...
//	parse.End()
//	run.End()
//
//	collector.Report(os.Stderr, nil)
//
// When no collector is installed, FromContext returns one that discards
// everything, so instrumented code never checks for presence.
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/pyfmt/output"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector gathers timing spans for one invocation.
type Collector interface {
	// Start opens a span. End must be called when the phase completes.
	Start(name string) Timer

	// Report writes the collected spans to w, styled when styles is
	// non-nil.
	Report(w io.Writer, styles *output.Styles)
}

// Timer is one open span. Child opens a nested span beneath it.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector returns a context carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext returns the context's collector, or a discarding one when
// none was installed.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return discardCollector{}
}
