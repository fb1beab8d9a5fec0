package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/pyfmt/output"
)

// slowPhase marks phases worth highlighting in a styled report.
const slowPhase = 100 * time.Millisecond

// writeSpanTree renders a span tree:
//
//	reformat: 125ms
//	├─ parse: 85ms
//	├─ merge: 5ms
//	└─ print: 35ms
func writeSpanTree(w io.Writer, root *span, styles *output.Styles) {
	name := root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", name, formatDuration(root.elapsed()))

	for i, child := range root.children {
		writeSpan(w, child, "", i == len(root.children)-1, styles)
	}
}

func writeSpan(w io.Writer, s *span, prefix string, last bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if last {
		branch, extension = "└─ ", "   "
	}

	lead := prefix + branch
	timing := formatDuration(s.elapsed())
	if styles != nil {
		lead = styles.Dim(lead)
		if s.elapsed() >= slowPhase {
			timing = styles.Warning(timing)
		} else {
			timing = styles.Dim(timing)
		}
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", lead, s.name, timing)

	for i, child := range s.children {
		writeSpan(w, child, prefix+extension, i == len(s.children)-1, styles)
	}
}

// formatDuration renders milliseconds below one second, seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
