package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/pyfmt/output"
)

// TimingCollector records spans as a tree. The first span opened becomes
// the root; spans opened while another is running nest beneath it, so the
// parse, merge, and print phases land under the command's run span without
// the phases knowing about each other.
type TimingCollector struct {
	mu   sync.Mutex
	root *span
	open *span
}

// span is one timed phase.
type span struct {
	name     string
	started  time.Time
	stopped  time.Time
	parent   *span
	children []*span
}

func (s *span) elapsed() time.Duration { return s.stopped.Sub(s.started) }

// NewTimingCollector returns an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start opens a span beneath the currently open one.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, started: time.Now()}
	if c.root == nil {
		c.root = s
	} else {
		s.parent = c.open
		c.open.children = append(c.open.children, s)
	}
	c.open = s

	return &spanTimer{collector: c, span: s}
}

// Report writes the span tree to w. A collector that never opened a span
// writes nothing.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	writeSpanTree(w, c.root, styles)
}

// spanTimer closes and nests spans on its TimingCollector.
type spanTimer struct {
	collector *TimingCollector
	span      *span
}

func (t *spanTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.span.stopped = time.Now()
	if t.span.parent != nil {
		t.collector.open = t.span.parent
	}
}

func (t *spanTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	s := &span{name: name, started: time.Now(), parent: t.span}
	t.span.children = append(t.span.children, s)

	return &spanTimer{collector: t.collector, span: s}
}
