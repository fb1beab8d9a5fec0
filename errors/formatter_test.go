package errors

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/pyfmt/ast"
	"github.com/robinvdvleuten/pyfmt/parser"
)

func TestTextFormatterPlainError(t *testing.T) {
	tf := NewTextFormatter()
	assert.Equal(t, "boom", tf.Format(errors.New("boom")))
}

func TestTextFormatterSourceContext(t *testing.T) {
	source := []byte("x = 1\ny = (\nz = 3\n")
	tf := NewTextFormatter(WithSource(source))

	err := &parser.ParseError{
		Pos:     ast.Position{Line: 2, Column: 5},
		Message: "expected ')'",
	}

	out := tf.Format(err)
	assert.True(t, strings.Contains(out, "expected ')'"))
	assert.True(t, strings.Contains(out, "y = ("))
	assert.True(t, strings.Contains(out, "^"))

	// The caret sits under column 5 of the offending line.
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if strings.Contains(line, "y = (") {
			assert.Equal(t, "       ^", lines[i+1])
		}
	}
}

func TestCaretOffsetTabs(t *testing.T) {
	// A tab advances to the next multiple of eight.
	assert.Equal(t, 8, caretOffset("\tx = 1", 2))
	assert.Equal(t, 0, caretOffset("x = 1", 1))
	assert.Equal(t, 4, caretOffset("x = 1", 5))
}

func TestFormatAllSeparatesErrors(t *testing.T) {
	tf := NewTextFormatter()
	out := tf.FormatAll([]error{errors.New("one"), errors.New("two")})
	assert.Equal(t, "one\n\ntwo", out)
}

func TestJSONFormatterIncludesPosition(t *testing.T) {
	jf := NewJSONFormatter()

	err := &parser.ParseError{
		Pos:     ast.Position{Filename: "main.py", Line: 3, Column: 2},
		Message: "unexpected indent",
	}

	var decoded ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.Format(err)), &decoded))
	assert.Equal(t, "main.py", decoded.Position.Filename)
	assert.Equal(t, 3, decoded.Position.Line)
	assert.True(t, strings.Contains(decoded.Message, "unexpected indent"))
}
