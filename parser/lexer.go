package parser

// Lexer implements a zero-copy lexer for Python source files.
//
// The zero-copy approach:
// - Tokens store byte offsets, not string values
// - Comments are diverted into a separate position-ordered list instead of
//   the token stream, so the parser never sees them
// - Indentation is tracked with a stack and surfaces as INDENT/DEDENT tokens
// - Newlines inside brackets are ignored (implicit line joining)

import (
	"strings"

	"github.com/robinvdvleuten/pyfmt/ast"
)

// tabWidth is the number of columns a tab advances to when measuring
// indentation, matching the CPython tokenizer.
const tabWidth = 8

// Lexer tokenizes Python source code.
type Lexer struct {
	source   []byte
	filename string
	pos      int // Current byte position
	line     int // Current line (1-indexed)
	column   int // Current column (1-indexed)
	tokens   []Token
	comments []*ast.Comment
	indents  []int // Indentation stack, always starts with 0
	depth    int   // Bracket nesting depth
	err      error // First error encountered
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source []byte, filename string) *Lexer {
	// Estimate token count: empirically ~1 token per 6 bytes of Python
	estimatedTokens := len(source)/6 + 64

	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
		tokens:   make([]Token, 0, estimatedTokens),
		indents:  []int{0},
	}
}

// Comments returns the comments collected during scanning, ordered by
// source position.
func (l *Lexer) Comments() []*ast.Comment {
	return l.comments
}

// ScanAll lexes the entire source file and returns all tokens.
// This is a single-pass scanner with no backtracking.
func (l *Lexer) ScanAll() ([]Token, error) {
	for l.pos < len(l.source) {
		indent, ok := l.scanLineStart()
		if !ok {
			continue
		}
		l.applyIndent(indent)
		l.scanLogicalLine()
	}

	// Close any open indentation levels
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(Token{Type: DEDENT, Start: l.pos, End: l.pos, Line: l.line, Column: l.column})
	}

	l.emit(Token{Type: EOF, Start: l.pos, End: l.pos, Line: l.line, Column: l.column})
	return l.tokens, l.err
}

// scanLineStart measures the indentation of a physical line. Blank lines and
// comment-only lines produce no tokens (the comment itself is collected) and
// return ok=false.
func (l *Lexer) scanLineStart() (int, bool) {
	indent := 0
	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case ' ':
			indent++
			l.advance()
		case '\t':
			indent = (indent/tabWidth + 1) * tabWidth
			l.advance()
		case '\r':
			l.advance()
		default:
			goto measured
		}
	}
measured:
	if l.pos >= len(l.source) {
		return 0, false
	}

	switch l.source[l.pos] {
	case '\n':
		l.advance()
		return 0, false
	case '#':
		l.scanComment()
		if l.pos < len(l.source) && l.source[l.pos] == '\n' {
			l.advance()
		}
		return 0, false
	}

	return indent, true
}

// applyIndent compares the measured indentation against the stack and emits
// INDENT/DEDENT tokens.
func (l *Lexer) applyIndent(indent int) {
	current := l.indents[len(l.indents)-1]

	if indent > current {
		l.indents = append(l.indents, indent)
		l.emit(Token{Type: INDENT, Start: l.pos, End: l.pos, Line: l.line, Column: l.column})
		return
	}

	for indent < l.indents[len(l.indents)-1] {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(Token{Type: DEDENT, Start: l.pos, End: l.pos, Line: l.line, Column: l.column})
	}

	if indent != l.indents[len(l.indents)-1] {
		l.errorAt(l.line, l.column, "unindent does not match any outer indentation level")
	}
}

// scanLogicalLine scans tokens until the logical line ends. Newlines inside
// brackets and escaped newlines continue the logical line.
func (l *Lexer) scanLogicalLine() {
	for {
		l.skipSpaces()

		if l.pos >= len(l.source) {
			l.emit(Token{Type: NEWLINE, Start: l.pos, End: l.pos, Line: l.line, Column: l.column})
			return
		}

		ch := l.source[l.pos]

		switch {
		case ch == '#':
			l.scanComment()

		case ch == '\n':
			l.advance()
			if l.depth > 0 {
				continue
			}
			l.emit(Token{Type: NEWLINE, Start: l.pos, End: l.pos, Line: l.line - 1, Column: l.column})
			return

		case ch == '\\' && l.peekAt(1) == '\n':
			l.advance()
			l.advance()

		case ch == '\\' && l.peekAt(1) == '\r' && l.peekAt(2) == '\n':
			l.advance()
			l.advance()
			l.advance()

		default:
			tok := l.scanToken()
			l.emit(tok)
		}
	}
}

// scanToken scans the next token from the current position.
func (l *Lexer) scanToken() Token {
	start := l.pos
	startLine := l.line
	startCol := l.column

	ch := l.advance()

	switch {
	case isIdentStart(ch):
		return l.scanNameOrString(start, startLine, startCol)

	case ch >= '0' && ch <= '9':
		return l.scanNumber(start, startLine, startCol)

	case ch == '.' && isDigit(l.peek()):
		return l.scanNumber(start, startLine, startCol)

	case ch == '"' || ch == '\'':
		return l.scanString(start, startLine, startCol, ch)
	}

	mk := func(typ TokenType) Token {
		return Token{typ, start, l.pos, startLine, startCol}
	}

	switch ch {
	case '(':
		l.depth++
		return mk(LPAREN)
	case ')':
		l.depth--
		return mk(RPAREN)
	case '[':
		l.depth++
		return mk(LBRACKET)
	case ']':
		l.depth--
		return mk(RBRACKET)
	case '{':
		l.depth++
		return mk(LBRACE)
	case '}':
		l.depth--
		return mk(RBRACE)
	case ',':
		return mk(COMMA)
	case ':':
		return mk(COLON)
	case ';':
		return mk(SEMI)
	case '.':
		return mk(DOT)
	case '~':
		return mk(TILDE)

	case '=':
		if l.match('=') {
			return mk(EQ)
		}
		return mk(ASSIGN)
	case '!':
		if l.match('=') {
			return mk(NE)
		}
		l.errorAt(startLine, startCol, "unexpected character %q", '!')
		return mk(ILLEGAL)
	case '<':
		if l.match('<') {
			if l.match('=') {
				return mk(AUGASSIGN)
			}
			return mk(LSHIFT)
		}
		if l.match('=') {
			return mk(LE)
		}
		return mk(LT)
	case '>':
		if l.match('>') {
			if l.match('=') {
				return mk(AUGASSIGN)
			}
			return mk(RSHIFT)
		}
		if l.match('=') {
			return mk(GE)
		}
		return mk(GT)

	case '+':
		if l.match('=') {
			return mk(AUGASSIGN)
		}
		return mk(PLUS)
	case '-':
		if l.match('=') {
			return mk(AUGASSIGN)
		}
		return mk(MINUS)
	case '*':
		if l.match('*') {
			if l.match('=') {
				return mk(AUGASSIGN)
			}
			return mk(DOUBLESTAR)
		}
		if l.match('=') {
			return mk(AUGASSIGN)
		}
		return mk(STAR)
	case '/':
		if l.match('/') {
			if l.match('=') {
				return mk(AUGASSIGN)
			}
			return mk(DOUBLESLASH)
		}
		if l.match('=') {
			return mk(AUGASSIGN)
		}
		return mk(SLASH)
	case '%':
		if l.match('=') {
			return mk(AUGASSIGN)
		}
		return mk(PERCENT)
	case '@':
		if l.match('=') {
			return mk(AUGASSIGN)
		}
		return mk(ATSIGN)
	case '&':
		if l.match('=') {
			return mk(AUGASSIGN)
		}
		return mk(AMPER)
	case '|':
		if l.match('=') {
			return mk(AUGASSIGN)
		}
		return mk(VBAR)
	case '^':
		if l.match('=') {
			return mk(AUGASSIGN)
		}
		return mk(CARET)
	}

	l.errorAt(startLine, startCol, "unexpected character %q", ch)
	return Token{ILLEGAL, start, l.pos, startLine, startCol}
}

// scanNameOrString scans an identifier, keyword, or prefixed string literal
// (b"...", f'...', rb"...").
func (l *Lexer) scanNameOrString(start, line, col int) Token {
	for l.pos < len(l.source) && isIdentPart(l.source[l.pos]) {
		l.advance()
	}

	word := string(l.source[start:l.pos])

	// A short run of string-prefix letters directly followed by a quote is a
	// string literal, not an identifier.
	if len(word) <= 2 && isStringPrefix(word) {
		if q := l.peek(); q == '"' || q == '\'' {
			l.advance()
			return l.scanString(start, line, col, q)
		}
	}

	if typ, ok := keywords[word]; ok {
		return Token{typ, start, l.pos, line, col}
	}
	return Token{NAME, start, l.pos, line, col}
}

func isStringPrefix(word string) bool {
	for _, r := range word {
		switch r {
		case 'r', 'R', 'b', 'B', 'f', 'F', 'u', 'U':
		default:
			return false
		}
	}
	return len(word) > 0
}

// scanNumber scans an integer or float literal, including hex/octal/binary
// forms, underscores, and exponents.
func (l *Lexer) scanNumber(start, line, col int) Token {
	// Radix prefix: 0x, 0o, 0b
	if l.source[start] == '0' && l.pos < len(l.source) {
		switch l.source[l.pos] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.advance()
			for l.pos < len(l.source) && (isHexDigit(l.source[l.pos]) || l.source[l.pos] == '_') {
				l.advance()
			}
			return Token{NUMBER, start, l.pos, line, col}
		}
	}

	for l.pos < len(l.source) && (isDigit(l.source[l.pos]) || l.source[l.pos] == '_') {
		l.advance()
	}

	// Fractional part
	if l.pos < len(l.source) && l.source[l.pos] == '.' {
		l.advance()
		for l.pos < len(l.source) && (isDigit(l.source[l.pos]) || l.source[l.pos] == '_') {
			l.advance()
		}
	}

	// Exponent part
	if l.pos < len(l.source) && (l.source[l.pos] == 'e' || l.source[l.pos] == 'E') {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			l.advance() // e
			if l.source[l.pos] == '+' || l.source[l.pos] == '-' {
				l.advance()
			}
			for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
				l.advance()
			}
		}
	}

	return Token{NUMBER, start, l.pos, line, col}
}

// scanString scans a string literal. The opening quote has been consumed;
// start may point at a prefix (b, f, r) before the quote.
func (l *Lexer) scanString(start, line, col int, quote byte) Token {
	triple := false
	if l.peek() == quote && l.peekAt(1) == quote {
		l.advance()
		l.advance()
		triple = true
	}

	for l.pos < len(l.source) {
		ch := l.source[l.pos]

		if ch == '\\' && l.pos+1 < len(l.source) {
			l.advance()
			l.advance()
			continue
		}

		if ch == quote {
			if !triple {
				l.advance()
				return Token{STRING, start, l.pos, line, col}
			}
			if l.peekAt(1) == quote && l.peekAt(2) == quote {
				l.advance()
				l.advance()
				l.advance()
				return Token{STRING, start, l.pos, line, col}
			}
			l.advance()
			continue
		}

		if ch == '\n' && !triple {
			break
		}

		l.advance()
	}

	l.errorAt(line, col, "unterminated string literal")
	return Token{ILLEGAL, start, l.pos, line, col}
}

// scanComment collects a comment into the comment list. The comment text
// includes the leading '#' and excludes the newline.
func (l *Lexer) scanComment() {
	line := l.line
	col := l.column
	start := l.pos

	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.advance()
	}

	text := strings.TrimRight(string(l.source[start:l.pos]), "\r")
	l.comments = append(l.comments, &ast.Comment{
		Pos:  ast.Position{Filename: l.filename, Line: line, Column: col},
		Text: text,
	})
}

// Helper methods

func (l *Lexer) emit(tok Token) {
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) skipSpaces() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch != ' ' && ch != '\t' && ch != '\r' {
			break
		}
		l.advance()
	}
}

func (l *Lexer) peek() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.source) {
		return 0
	}
	return l.source[l.pos+n]
}

func (l *Lexer) match(expected byte) bool {
	if l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) errorAt(line, col int, format string, args ...interface{}) {
	if l.err == nil {
		l.err = newErrorf(ast.Position{Filename: l.filename, Line: line, Column: col}, format, args...)
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
