package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// quoteString renders a string literal with double quotes and a fixed
// escape set. Printable characters pass through unchanged so non-ASCII
// text survives the round trip.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else if r == utf8.RuneError && size == 1 {
				fmt.Fprintf(&b, `\x%02x`, s[i])
			} else {
				b.WriteRune(r)
			}
		}
		i += size
	}

	b.WriteByte('"')
	return b.String()
}

// quoteBytes renders the body of a bytes literal. Anything outside
// printable ASCII is hex-escaped.
func quoteBytes(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&b, `\x%02x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}

	b.WriteByte('"')
	return b.String()
}

// escapeFStringText escapes the literal text between replacement fields.
// Braces double so they are not read as fields.
func escapeFStringText(s string) string {
	quoted := quoteString(s)
	quoted = quoted[1 : len(quoted)-1]
	quoted = strings.ReplaceAll(quoted, "{", "{{")
	return strings.ReplaceAll(quoted, "}", "}}")
}

// formatFloat renders a float the way the source language prints one: the
// shortest decimal form that round-trips, with a ".0" suffix when neither
// a fraction nor an exponent is present.
func formatFloat(v float64) string {
	text := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(text, ".e") {
		if strings.ContainsAny(text, "infNaN") {
			return text
		}
		return text + ".0"
	}
	return text
}
