package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/robinvdvleuten/pyfmt/ast"
	"github.com/shopspring/decimal"
)

// parseNumber converts a NUMBER token into an Int or Float node. Integers
// are kept as arbitrary-precision decimals so that large literals survive
// the round trip exactly. Underscore digit separators are dropped.
func (p *Parser) parseNumber(tok Token) (ast.Expr, error) {
	pos := p.tokenPosition(tok)
	text := strings.ReplaceAll(p.text(tok), "_", "")

	if len(text) > 1 && text[0] == '0' {
		base := 0
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			value := new(big.Int)
			if _, ok := value.SetString(text[2:], base); !ok {
				return nil, p.errorAtToken(tok, "invalid numeric literal %q", p.text(tok))
			}
			return &ast.Int{Pos: pos, Value: decimal.NewFromBigInt(value, 0)}, nil
		}
	}

	if strings.ContainsAny(text, ".eE") {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorAtToken(tok, "invalid numeric literal %q", p.text(tok))
		}
		return &ast.Float{Pos: pos, Value: value}, nil
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return nil, p.errorAtToken(tok, "invalid numeric literal %q", p.text(tok))
	}
	return &ast.Int{Pos: pos, Value: value}, nil
}

// stringFlags describe the prefix of a string literal.
type stringFlags struct {
	raw     bool
	bytes   bool
	fstring bool
}

// parseStrings parses one or more adjacent string literals and concatenates
// them into a single node. Any formatted segment turns the whole run into
// an FString.
func (p *Parser) parseStrings() (ast.Expr, error) {
	first := p.peek()
	pos := p.tokenPosition(first)

	var plain strings.Builder
	var parts []ast.Expr
	anyF := false
	anyBytes := false
	anyStr := false

	for p.check(STRING) {
		tok := p.advance()
		body, flags, err := p.splitStringToken(tok)
		if err != nil {
			return nil, err
		}

		if flags.bytes {
			anyBytes = true
		} else {
			anyStr = true
		}
		if anyBytes && anyStr {
			return nil, p.errorAtToken(tok, "cannot mix bytes and string literals")
		}

		if flags.fstring {
			anyF = true
			segment, err := p.parseFStringBody(tok, body, flags.raw)
			if err != nil {
				return nil, err
			}
			if plain.Len() > 0 {
				parts = append(parts, &ast.Str{Pos: pos, Value: plain.String()})
				plain.Reset()
			}
			parts = append(parts, segment...)
			continue
		}

		decoded := body
		if !flags.raw {
			decoded = unescapeString(body)
		}
		if anyF {
			parts = append(parts, &ast.Str{Pos: p.tokenPosition(tok), Value: decoded})
		} else {
			plain.WriteString(decoded)
		}
	}

	if anyF {
		if plain.Len() > 0 {
			parts = append(parts, &ast.Str{Pos: pos, Value: plain.String()})
		}
		return &ast.FString{Pos: pos, Parts: parts}, nil
	}
	if anyBytes {
		return &ast.Bytes{Pos: pos, Value: plain.String()}, nil
	}
	return &ast.Str{Pos: pos, Value: plain.String()}, nil
}

// splitStringToken strips the prefix and quotes from a STRING token,
// returning the raw body and the decoded prefix flags.
func (p *Parser) splitStringToken(tok Token) (string, stringFlags, error) {
	text := p.text(tok)
	var flags stringFlags

	i := 0
prefix:
	for i < len(text) {
		switch text[i] {
		case 'r', 'R':
			flags.raw = true
		case 'b', 'B':
			flags.bytes = true
		case 'f', 'F':
			flags.fstring = true
		case 'u', 'U':
			// legacy prefix, no effect
		default:
			break prefix
		}
		i++
	}

	text = text[i:]
	if len(text) >= 6 && (strings.HasPrefix(text, `"""`) || strings.HasPrefix(text, "'''")) {
		return text[3 : len(text)-3], flags, nil
	}
	if len(text) >= 2 {
		return text[1 : len(text)-1], flags, nil
	}
	return "", flags, p.errorAtToken(tok, "malformed string literal")
}

// unescapeString decodes Python escape sequences. Unknown escapes keep
// their backslash, matching the runtime behavior.
func unescapeString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			out.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case '\n':
			// line continuation, emits nothing
		case '\\':
			out.WriteByte('\\')
		case '\'':
			out.WriteByte('\'')
		case '"':
			out.WriteByte('"')
		case 'a':
			out.WriteByte('\a')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case 'v':
			out.WriteByte('\v')
		case 'x':
			if i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
				value, _ := strconv.ParseUint(s[i+1:i+3], 16, 8)
				out.WriteByte(byte(value))
				i += 2
			} else {
				out.WriteString(`\x`)
			}
		case 'u':
			if i+4 < len(s) && isHexRun(s[i+1:i+5]) {
				value, _ := strconv.ParseUint(s[i+1:i+5], 16, 32)
				out.WriteRune(rune(value))
				i += 4
			} else {
				out.WriteString(`\u`)
			}
		case 'U':
			if i+8 < len(s) && isHexRun(s[i+1:i+9]) {
				value, _ := strconv.ParseUint(s[i+1:i+9], 16, 32)
				out.WriteRune(rune(value))
				i += 8
			} else {
				out.WriteString(`\U`)
			}
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			value, _ := strconv.ParseUint(s[i:j], 8, 16)
			out.WriteByte(byte(value))
			i = j - 1
		default:
			out.WriteByte('\\')
			out.WriteByte(s[i])
		}
	}
	return out.String()
}

func isHexRun(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}
