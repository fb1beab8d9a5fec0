package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func scanTypes(t *testing.T, source string) []TokenType {
	t.Helper()

	lexer := NewLexer([]byte(source), "")
	tokens, err := lexer.ScanAll()
	assert.NoError(t, err)

	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexerSimpleAssignment(t *testing.T) {
	types := scanTypes(t, "x = 1\n")
	assert.Equal(t, []TokenType{NAME, ASSIGN, NUMBER, NEWLINE, EOF}, types)
}

func TestLexerIndentation(t *testing.T) {
	source := "if a:\n    x = 1\ny = 2\n"
	types := scanTypes(t, source)
	assert.Equal(t, []TokenType{
		IF, NAME, COLON, NEWLINE,
		INDENT, NAME, ASSIGN, NUMBER, NEWLINE, DEDENT,
		NAME, ASSIGN, NUMBER, NEWLINE, EOF,
	}, types)
}

func TestLexerDedentsFlushedAtEOF(t *testing.T) {
	source := "if a:\n    if b:\n        x = 1\n"
	types := scanTypes(t, source)

	dedents := 0
	for _, typ := range types {
		if typ == DEDENT {
			dedents++
		}
	}
	assert.Equal(t, 2, dedents)
}

func TestLexerBlankAndCommentLinesProduceNoTokens(t *testing.T) {
	source := "x = 1\n\n# just a comment\n\ny = 2\n"
	types := scanTypes(t, source)
	assert.Equal(t, []TokenType{
		NAME, ASSIGN, NUMBER, NEWLINE,
		NAME, ASSIGN, NUMBER, NEWLINE, EOF,
	}, types)
}

func TestLexerCollectsComments(t *testing.T) {
	source := "# first\nx = 1  # trailing\n# last\n"

	lexer := NewLexer([]byte(source), "")
	_, err := lexer.ScanAll()
	assert.NoError(t, err)

	comments := lexer.Comments()
	assert.Equal(t, 3, len(comments))
	assert.Equal(t, "# first", comments[0].Text)
	assert.Equal(t, 1, comments[0].Pos.Line)
	assert.Equal(t, "# trailing", comments[1].Text)
	assert.Equal(t, 2, comments[1].Pos.Line)
	assert.Equal(t, 8, comments[1].Pos.Column)
	assert.Equal(t, "# last", comments[2].Text)
}

func TestLexerNewlineSuppressedInBrackets(t *testing.T) {
	source := "x = [1,\n     2]\n"
	types := scanTypes(t, source)
	assert.Equal(t, []TokenType{
		NAME, ASSIGN, LBRACKET, NUMBER, COMMA, NUMBER, RBRACKET, NEWLINE, EOF,
	}, types)
}

func TestLexerBackslashContinuation(t *testing.T) {
	source := "x = 1 + \\\n    2\n"
	types := scanTypes(t, source)
	assert.Equal(t, []TokenType{
		NAME, ASSIGN, NUMBER, PLUS, NUMBER, NEWLINE, EOF,
	}, types)
}

func TestLexerKeywordsAndNames(t *testing.T) {
	types := scanTypes(t, "for item in items:\n    pass\n")
	assert.Equal(t, FOR, types[0])
	assert.Equal(t, NAME, types[1])
	assert.Equal(t, IN, types[2])
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		source string
		want   TokenType
	}{
		{"a ** b\n", DOUBLESTAR},
		{"a // b\n", DOUBLESLASH},
		{"a << b\n", LSHIFT},
		{"a >= b\n", GE},
		{"a != b\n", NE},
		{"a += b\n", AUGASSIGN},
		{"a //= b\n", AUGASSIGN},
		{"a **= b\n", AUGASSIGN},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			types := scanTypes(t, tt.source)
			assert.Equal(t, tt.want, types[1])
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"single quotes", "'hello'\n"},
		{"double quotes", "\"hello\"\n"},
		{"triple quotes", "'''multi\nline'''\n"},
		{"raw prefix", "r'\\d+'\n"},
		{"bytes prefix", "b'data'\n"},
		{"fstring prefix", "f'{x}'\n"},
		{"combined prefix", "rb'data'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types := scanTypes(t, tt.source)
			assert.Equal(t, STRING, types[0])
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []string{
		"42\n", "4.2\n", "42E+84\n", "0x1f\n", "0o777\n", "0b1010\n", "1_000_000\n", ".5\n",
	}

	for _, source := range tests {
		t.Run(source, func(t *testing.T) {
			types := scanTypes(t, source)
			assert.Equal(t, NUMBER, types[0])
		})
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	lexer := NewLexer([]byte("x = 'oops\n"), "")
	_, err := lexer.ScanAll()
	assert.Error(t, err)
}

func TestLexerInconsistentDedent(t *testing.T) {
	lexer := NewLexer([]byte("if a:\n        x = 1\n    y = 2\n"), "")
	_, err := lexer.ScanAll()
	assert.Error(t, err)
}

func TestLexerTabIndentation(t *testing.T) {
	source := "if a:\n\tx = 1\n"
	types := scanTypes(t, source)
	assert.Equal(t, []TokenType{
		IF, NAME, COLON, NEWLINE,
		INDENT, NAME, ASSIGN, NUMBER, NEWLINE, DEDENT, EOF,
	}, types)
}
