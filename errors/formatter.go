// Package errors provides error formatting for parse failures. It
// separates presentation from the parser itself so errors can be rendered
// as annotated text for the CLI or as structured JSON for other consumers.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/pyfmt/ast"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// TextFormatter renders errors for command-line output, with a source
// excerpt and a caret under the offending column when source is available.
type TextFormatter struct {
	sourceContent []byte
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the source content for error context.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error, attaching source context when the error
// carries a position.
func (tf *TextFormatter) Format(err error) string {
	if e, ok := err.(interface {
		GetPosition() ast.Position
		Error() string
	}); ok && tf.sourceContent != nil {
		return tf.formatWithSourceContext(e.GetPosition(), e.Error())
	}
	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

// formatWithSourceContext renders the error message followed by the
// source lines around the error position, with a caret under the column.
func (tf *TextFormatter) formatWithSourceContext(pos ast.Position, message string) string {
	var buf bytes.Buffer

	buf.WriteString(message)
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(tf.sourceContent), "\n")

	startLine := pos.Line - 3
	endLine := pos.Line + 1
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		if i >= len(sourceLines) {
			break
		}
		line := strings.TrimSuffix(sourceLines[i], "\r")
		buf.WriteString("   ")
		buf.WriteString(line)
		buf.WriteByte('\n')

		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", caretOffset(line, pos.Column)))
			buf.WriteString("^\n")
		}
	}
	return buf.String()
}

// caretOffset converts a 1-based column into a display width so the caret
// lines up under tabs and wide runes.
func caretOffset(line string, column int) int {
	prefix := line
	if index := column - 1; index <= len(line) {
		prefix = line[:index]
	}

	width := 0
	for _, r := range prefix {
		if r == '\t' {
			width += 8 - width%8
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string        `json:"type"`
	Message  string        `json:"message"`
	Position *PositionJSON `json:"position,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	return string(data)
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	if e, ok := err.(interface{ GetPosition() ast.Position }); ok {
		pos := e.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}
	return errJSON
}
