package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.NotZero(t, styles)
	assert.NotZero(t, styles.output)
}

func TestStylesContainText(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	tests := []struct {
		name   string
		result string
	}{
		{"Success", styles.Success("ok")},
		{"Error", styles.Error("boom")},
		{"FilePath", styles.FilePath("main.py")},
		{"LineNumber", styles.LineNumber("42")},
		{"Keyword", styles.Keyword("def")},
		{"Dim", styles.Dim("secondary")},
		{"Warning", styles.Warning("careful")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, "", tt.result)
		})
	}
}

func TestStylesTiming(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.True(t, strings.Contains(styles.Timing("5ms", false), "5ms"))
	assert.True(t, strings.Contains(styles.Timing("1.50s", true), "1.50s"))
}
