package parser

import "github.com/robinvdvleuten/pyfmt/ast"

// Token navigation helpers shared by the statement and expression parsers.

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAhead(n int) Token {
	pos := p.pos + n
	if pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[pos]
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return Token{Type: ILLEGAL}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) expect(typ TokenType, message string) (Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}

	tok := p.peek()
	return Token{Type: ILLEGAL}, p.errorAtToken(tok, "%s but got %s", message, p.describe(tok))
}

// describe renders a token for error messages.
func (p *Parser) describe(tok Token) string {
	switch tok.Type {
	case EOF:
		return "end of file"
	case NEWLINE:
		return "end of line"
	case INDENT:
		return "indent"
	case DEDENT:
		return "dedent"
	case NAME, NUMBER, STRING:
		return "'" + tok.String(p.source) + "'"
	default:
		return "'" + tok.Type.String() + "'"
	}
}

// text materializes a token's source text.
func (p *Parser) text(tok Token) string {
	return tok.String(p.source)
}

// Error helpers

func (p *Parser) errorAtToken(tok Token, format string, args ...interface{}) error {
	return newErrorf(p.tokenPosition(tok), format, args...)
}

func (p *Parser) tokenPosition(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
