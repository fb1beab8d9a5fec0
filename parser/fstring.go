package parser

import (
	"strings"

	"github.com/robinvdvleuten/pyfmt/ast"
)

// parseFStringBody splits the body of a formatted string literal into
// alternating literal and formatted segments. Doubled braces escape to a
// single literal brace.
func (p *Parser) parseFStringBody(tok Token, body string, raw bool) ([]ast.Expr, error) {
	pos := p.tokenPosition(tok)

	var parts []ast.Expr
	var literal strings.Builder

	flushLiteral := func() {
		if literal.Len() == 0 {
			return
		}
		text := literal.String()
		if !raw {
			text = unescapeString(text)
		}
		parts = append(parts, &ast.Str{Pos: pos, Value: text})
		literal.Reset()
	}

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch c {
		case '{':
			if i+1 < len(body) && body[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			flushLiteral()
			value, rest, err := p.parseFormattedValue(tok, body[i+1:])
			if err != nil {
				return nil, err
			}
			parts = append(parts, value)
			i = len(body) - len(rest) - 1

		case '}':
			if i+1 < len(body) && body[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return nil, p.errorAtToken(tok, "single '}' is not allowed in f-string")

		default:
			literal.WriteByte(c)
		}
	}

	flushLiteral()
	return parts, nil
}

// parseFormattedValue parses one replacement field starting after its '{',
// returning the node and the unconsumed remainder after the closing '}'.
func (p *Parser) parseFormattedValue(tok Token, s string) (ast.Expr, string, error) {
	exprEnd := scanFieldExpr(s)
	if exprEnd < 0 {
		return nil, "", p.errorAtToken(tok, "unterminated replacement field in f-string")
	}
	exprText := strings.TrimSpace(s[:exprEnd])
	if exprText == "" {
		return nil, "", p.errorAtToken(tok, "empty expression in f-string")
	}

	value, err := p.parseFieldExpr(tok, exprText)
	if err != nil {
		return nil, "", err
	}
	field := &ast.FormattedValue{Pos: p.tokenPosition(tok), Value: value}

	rest := s[exprEnd:]
	if strings.HasPrefix(rest, "!") {
		if len(rest) < 2 {
			return nil, "", p.errorAtToken(tok, "missing conversion in f-string")
		}
		field.Conversion = string(rest[1])
		rest = rest[2:]
	}

	if strings.HasPrefix(rest, ":") {
		specEnd := scanFormatSpec(rest[1:])
		if specEnd < 0 {
			return nil, "", p.errorAtToken(tok, "unterminated replacement field in f-string")
		}
		field.FormatSpec = rest[1 : 1+specEnd]
		rest = rest[1+specEnd:]
	}

	if !strings.HasPrefix(rest, "}") {
		return nil, "", p.errorAtToken(tok, "unterminated replacement field in f-string")
	}
	return field, rest[1:], nil
}

// scanFieldExpr finds the end of a replacement field expression, stopping
// at a top-level '}', '!' (not '!='), or ':'. Brackets and string quotes
// inside the expression nest.
func scanFieldExpr(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		case '\'', '"':
			end := skipQuoted(s, i)
			if end < 0 {
				return -1
			}
			i = end
		case '!':
			if depth == 0 && (i+1 >= len(s) || s[i+1] != '=') {
				return i
			}
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// scanFormatSpec finds the end of a format spec, which may itself contain
// nested replacement fields.
func scanFormatSpec(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// skipQuoted returns the index of the closing quote of a string starting
// at i, or -1 when unterminated.
func skipQuoted(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return -1
}

// parseFieldExpr parses the expression text of a replacement field with a
// fresh lexer and parser.
func (p *Parser) parseFieldExpr(tok Token, text string) (ast.Expr, error) {
	lexer := NewLexer([]byte(text), p.filename)
	tokens, err := lexer.ScanAll()
	if err != nil {
		return nil, p.errorAtToken(tok, "invalid expression in f-string: %s", err)
	}

	sub := &Parser{source: []byte(text), filename: p.filename, tokens: tokens}
	value, err := sub.parseTestList()
	if err != nil {
		return nil, p.errorAtToken(tok, "invalid expression in f-string: %s", err)
	}
	if !sub.match(NEWLINE) && !sub.isAtEnd() {
		return nil, p.errorAtToken(tok, "invalid expression in f-string")
	}
	return value, nil
}
