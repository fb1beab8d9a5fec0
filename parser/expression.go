package parser

import (
	"github.com/robinvdvleuten/pyfmt/ast"
)

// parseTestList parses: test {',' test} [','], yielding a Tuple when more
// than one element or a trailing comma is present.
func (p *Parser) parseTestList() (ast.Expr, error) {
	first, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	if !p.check(COMMA) {
		return first, nil
	}

	elts := []ast.Expr{first}
	for p.match(COMMA) {
		if p.atExprListEnd() {
			break
		}
		next, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	return &ast.Tuple{Pos: first.Position(), Elts: elts}, nil
}

// parseTestListStar is parseTestList but allowing starred elements, as on
// the right (and left) side of assignments.
func (p *Parser) parseTestListStar() (ast.Expr, error) {
	first, err := p.parseTestOrStar()
	if err != nil {
		return nil, err
	}
	if !p.check(COMMA) {
		return first, nil
	}

	elts := []ast.Expr{first}
	for p.match(COMMA) {
		if p.atExprListEnd() {
			break
		}
		next, err := p.parseTestOrStar()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	return &ast.Tuple{Pos: first.Position(), Elts: elts}, nil
}

// parseTargetList parses the loop targets of a for statement or
// comprehension clause. Target elements sit below the comparison level so
// the 'in' keyword is left for the caller.
func (p *Parser) parseTargetList() (ast.Expr, error) {
	first, err := p.parseTargetItem()
	if err != nil {
		return nil, err
	}
	if !p.check(COMMA) {
		return first, nil
	}

	elts := []ast.Expr{first}
	for p.match(COMMA) {
		if p.check(IN) {
			break
		}
		next, err := p.parseTargetItem()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	return &ast.Tuple{Pos: first.Position(), Elts: elts}, nil
}

func (p *Parser) parseTargetItem() (ast.Expr, error) {
	if p.check(STAR) {
		tok := p.advance()
		value, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		return &ast.Starred{Pos: p.tokenPosition(tok), Value: value}, nil
	}
	return p.parseBitOr()
}

// parseExprList parses the operand list of a del statement.
func (p *Parser) parseExprList() ([]ast.Expr, error) {
	var elts []ast.Expr
	for {
		e, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
		if !p.match(COMMA) {
			return elts, nil
		}
		if p.atExprListEnd() {
			return elts, nil
		}
	}
}

// atExprListEnd reports whether a comma-separated expression list has run
// out of elements, permitting a trailing comma.
func (p *Parser) atExprListEnd() bool {
	switch p.peek().Type {
	case NEWLINE, SEMI, EOF, ASSIGN, RPAREN, RBRACKET, RBRACE, COLON, IN:
		return true
	}
	return false
}

func (p *Parser) parseTestOrStar() (ast.Expr, error) {
	if p.check(STAR) {
		tok := p.advance()
		value, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		return &ast.Starred{Pos: p.tokenPosition(tok), Value: value}, nil
	}
	return p.parseTest()
}

// parseTest parses: lambda | or_test ['if' or_test 'else' test]
func (p *Parser) parseTest() (ast.Expr, error) {
	if p.check(LAMBDA) {
		return p.parseLambda()
	}

	body, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if !p.match(IF) {
		return body, nil
	}
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ELSE, "expected 'else' in conditional expression"); err != nil {
		return nil, err
	}
	orelse, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	return &ast.IfExp{Pos: body.Position(), Cond: cond, Body: body, OrElse: orelse}, nil
}

// parseLambda parses: lambda [params] ':' test
func (p *Parser) parseLambda() (ast.Expr, error) {
	tok := p.advance()

	params, err := p.parseParams(COLON)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COLON, "expected ':' in lambda"); err != nil {
		return nil, err
	}
	body, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Pos: p.tokenPosition(tok), Params: params, Body: body}, nil
}

// parseOr parses: and_test {'or' and_test}, collapsing the chain into a
// single BoolOp.
func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if !p.check(OR) {
		return left, nil
	}

	values := []ast.Expr{left}
	for p.match(OR) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		values = append(values, right)
	}
	return &ast.BoolOp{Pos: left.Position(), Op: "or", Values: values}, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	if !p.check(AND) {
		return left, nil
	}

	values := []ast.Expr{left}
	for p.match(AND) {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		values = append(values, right)
	}
	return &ast.BoolOp{Pos: left.Position(), Op: "and", Values: values}, nil
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.check(NOT) {
		tok := p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Pos: p.tokenPosition(tok), Op: "not", Operand: operand}, nil
	}
	return p.parseComparison()
}

// parseComparison parses a chained comparison, e.g. a < b <= c, including
// the two-word operators 'is not' and 'not in'.
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}

	var ops []string
	var comparators []ast.Expr
	for {
		op, ok := p.matchCompareOp()
		if !ok {
			break
		}
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		comparators = append(comparators, right)
	}

	if len(ops) == 0 {
		return left, nil
	}
	return &ast.Compare{Pos: left.Position(), Left: left, Ops: ops, Comparators: comparators}, nil
}

// matchCompareOp consumes a comparison operator if one is next.
func (p *Parser) matchCompareOp() (string, bool) {
	switch p.peek().Type {
	case LT:
		p.advance()
		return "<", true
	case GT:
		p.advance()
		return ">", true
	case LE:
		p.advance()
		return "<=", true
	case GE:
		p.advance()
		return ">=", true
	case EQ:
		p.advance()
		return "==", true
	case NE:
		p.advance()
		return "!=", true
	case IN:
		p.advance()
		return "in", true
	case IS:
		p.advance()
		if p.match(NOT) {
			return "is not", true
		}
		return "is", true
	case NOT:
		if p.peekAhead(1).Type == IN {
			p.advance()
			p.advance()
			return "not in", true
		}
	}
	return "", false
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseBitXor, map[TokenType]string{VBAR: "|"})
}

func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseBitAnd, map[TokenType]string{CARET: "^"})
}

func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseShift, map[TokenType]string{AMPER: "&"})
}

func (p *Parser) parseShift() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseArith, map[TokenType]string{LSHIFT: "<<", RSHIFT: ">>"})
}

func (p *Parser) parseArith() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseTerm, map[TokenType]string{PLUS: "+", MINUS: "-"})
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseFactor, map[TokenType]string{
		STAR:        "*",
		SLASH:       "/",
		DOUBLESLASH: "//",
		PERCENT:     "%",
		ATSIGN:      "@",
	})
}

// parseBinaryLeft parses a left-associative binary operator level.
func (p *Parser) parseBinaryLeft(next func() (ast.Expr, error), ops map[TokenType]string) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.peek().Type]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Pos: left.Position(), Left: left, Op: op, Right: right}
	}
}

// parseFactor parses unary +, -, ~.
func (p *Parser) parseFactor() (ast.Expr, error) {
	var op string
	switch p.peek().Type {
	case PLUS:
		op = "+"
	case MINUS:
		op = "-"
	case TILDE:
		op = "~"
	default:
		return p.parsePower()
	}

	tok := p.advance()
	operand, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Pos: p.tokenPosition(tok), Op: op, Operand: operand}, nil
}

// parsePower parses: postfix ['**' factor]. Exponentiation is
// right-associative and binds tighter than unary on its left.
func (p *Parser) parsePower() (ast.Expr, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.match(DOUBLESTAR) {
		return base, nil
	}
	exp, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Pos: base.Position(), Left: base, Op: "**", Right: exp}, nil
}

// parsePostfix parses trailers on an atom: calls, attribute access, and
// subscripts.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(LPAREN):
			args, keywords, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Pos: expr.Position(), Func: expr, Args: args, Keywords: keywords}

		case p.match(DOT):
			name, err := p.expect(NAME, "expected attribute name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &ast.Attribute{Pos: expr.Position(), Value: expr, Attr: p.text(name)}

		case p.match(LBRACKET):
			index, err := p.parseSubscript()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET, "expected ']'"); err != nil {
				return nil, err
			}
			expr = &ast.Subscript{Pos: expr.Position(), Value: expr, Index: index}

		default:
			return expr, nil
		}
	}
}

// parseSubscript parses the inside of a subscript, which is either a plain
// index expression, a slice, or a tuple of those.
func (p *Parser) parseSubscript() (ast.Expr, error) {
	first, err := p.parseSliceItem()
	if err != nil {
		return nil, err
	}
	if !p.check(COMMA) {
		return first, nil
	}

	elts := []ast.Expr{first}
	for p.match(COMMA) {
		if p.check(RBRACKET) {
			break
		}
		next, err := p.parseSliceItem()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	return &ast.Tuple{Pos: first.Position(), Elts: elts}, nil
}

// parseSliceItem parses: [test] [':' [test] [':' [test]]]
func (p *Parser) parseSliceItem() (ast.Expr, error) {
	pos := p.tokenPosition(p.peek())
	slice := &ast.Slice{Pos: pos}

	if !p.check(COLON) {
		lower, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		if !p.check(COLON) {
			return lower, nil
		}
		slice.Lower = lower
	}

	if _, err := p.expect(COLON, "expected ':' in slice"); err != nil {
		return nil, err
	}

	if !p.check(COLON) && !p.check(RBRACKET) && !p.check(COMMA) {
		upper, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		slice.Upper = upper
	}

	if p.match(COLON) {
		if !p.check(RBRACKET) && !p.check(COMMA) {
			step, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			slice.Step = step
		}
	}
	return slice, nil
}

// parseCallArgs parses call arguments after the opening paren, consuming
// the closing paren. A bare generator expression argument is allowed.
func (p *Parser) parseCallArgs() ([]ast.Expr, []*ast.Keyword, error) {
	var args []ast.Expr
	var keywords []*ast.Keyword

	for !p.check(RPAREN) {
		switch {
		case p.check(DOUBLESTAR):
			p.advance()
			value, err := p.parseTest()
			if err != nil {
				return nil, nil, err
			}
			keywords = append(keywords, &ast.Keyword{Value: value})

		case p.check(STAR):
			tok := p.advance()
			value, err := p.parseTest()
			if err != nil {
				return nil, nil, err
			}
			args = append(args, &ast.Starred{Pos: p.tokenPosition(tok), Value: value})

		case p.check(NAME) && p.peekAhead(1).Type == ASSIGN:
			name := p.advance()
			p.advance() // =
			value, err := p.parseTest()
			if err != nil {
				return nil, nil, err
			}
			keywords = append(keywords, &ast.Keyword{Name: p.text(name), Value: value})

		default:
			value, err := p.parseTest()
			if err != nil {
				return nil, nil, err
			}
			if p.check(FOR) && len(args) == 0 && len(keywords) == 0 {
				generators, err := p.parseComprehensionClauses()
				if err != nil {
					return nil, nil, err
				}
				args = append(args, &ast.GeneratorExp{Pos: value.Position(), Elt: value, Generators: generators})
			} else {
				args = append(args, value)
			}
		}

		if !p.match(COMMA) {
			break
		}
	}

	if _, err := p.expect(RPAREN, "expected ')'"); err != nil {
		return nil, nil, err
	}
	return args, keywords, nil
}

// parseComprehensionClauses parses: 'for' targets 'in' or_test {('if' or_test | 'for' ...)}
func (p *Parser) parseComprehensionClauses() ([]*ast.Comprehension, error) {
	var generators []*ast.Comprehension

	for p.match(FOR) {
		target, err := p.parseTargetList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(IN, "expected 'in' in comprehension"); err != nil {
			return nil, err
		}
		iter, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		comp := &ast.Comprehension{Target: target, Iter: iter}

		for p.match(IF) {
			cond, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			comp.Ifs = append(comp.Ifs, cond)
		}
		generators = append(generators, comp)
	}
	return generators, nil
}

// parseAtom parses the leaves of the expression grammar.
func (p *Parser) parseAtom() (ast.Expr, error) {
	tok := p.peek()
	pos := p.tokenPosition(tok)

	switch tok.Type {
	case NAME:
		p.advance()
		return &ast.Name{Pos: pos, ID: p.text(tok)}, nil

	case NUMBER:
		p.advance()
		return p.parseNumber(tok)

	case STRING:
		return p.parseStrings()

	case TRUE:
		p.advance()
		return &ast.NameConstant{Pos: pos, Value: "True"}, nil

	case FALSE:
		p.advance()
		return &ast.NameConstant{Pos: pos, Value: "False"}, nil

	case NONE:
		p.advance()
		return &ast.NameConstant{Pos: pos, Value: "None"}, nil

	case LPAREN:
		return p.parseParenAtom()

	case LBRACKET:
		return p.parseListAtom()

	case LBRACE:
		return p.parseBraceAtom()

	case LAMBDA:
		return p.parseLambda()

	default:
		return nil, p.errorAtToken(tok, "unexpected %s", p.describe(tok))
	}
}

// parseParenAtom parses a parenthesized expression, a tuple, or a
// generator expression. A parenthesized single expression without a comma
// is not a tuple; its grouping parens are dropped.
func (p *Parser) parseParenAtom() (ast.Expr, error) {
	tok := p.advance() // (
	pos := p.tokenPosition(tok)

	if p.match(RPAREN) {
		return &ast.Tuple{Pos: pos}, nil
	}

	first, err := p.parseTestOrStar()
	if err != nil {
		return nil, err
	}

	if p.check(FOR) {
		generators, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "expected ')'"); err != nil {
			return nil, err
		}
		return &ast.GeneratorExp{Pos: pos, Elt: first, Generators: generators}, nil
	}

	if !p.check(COMMA) {
		if _, err := p.expect(RPAREN, "expected ')'"); err != nil {
			return nil, err
		}
		return first, nil
	}

	elts := []ast.Expr{first}
	for p.match(COMMA) {
		if p.check(RPAREN) {
			break
		}
		next, err := p.parseTestOrStar()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	if _, err := p.expect(RPAREN, "expected ')'"); err != nil {
		return nil, err
	}
	return &ast.Tuple{Pos: pos, Elts: elts}, nil
}

// parseListAtom parses a list display or a list comprehension.
func (p *Parser) parseListAtom() (ast.Expr, error) {
	tok := p.advance() // [
	pos := p.tokenPosition(tok)

	if p.match(RBRACKET) {
		return &ast.List{Pos: pos}, nil
	}

	first, err := p.parseTestOrStar()
	if err != nil {
		return nil, err
	}

	if p.check(FOR) {
		generators, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACKET, "expected ']'"); err != nil {
			return nil, err
		}
		return &ast.ListComp{Pos: pos, Elt: first, Generators: generators}, nil
	}

	elts := []ast.Expr{first}
	for p.match(COMMA) {
		if p.check(RBRACKET) {
			break
		}
		next, err := p.parseTestOrStar()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	if _, err := p.expect(RBRACKET, "expected ']'"); err != nil {
		return nil, err
	}
	return &ast.List{Pos: pos, Elts: elts}, nil
}

// parseBraceAtom parses a dict or set display, or the corresponding
// comprehension. An empty '{}' is a dict.
func (p *Parser) parseBraceAtom() (ast.Expr, error) {
	tok := p.advance() // {
	pos := p.tokenPosition(tok)

	if p.match(RBRACE) {
		return &ast.Dict{Pos: pos}, nil
	}

	// Dict unpacking starts with '**', set elements may start with '*'.
	if p.check(DOUBLESTAR) {
		return p.parseDictRest(pos, nil, nil)
	}

	first, err := p.parseTestOrStar()
	if err != nil {
		return nil, err
	}

	if p.match(COLON) {
		value, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		if p.check(FOR) {
			generators, err := p.parseComprehensionClauses()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACE, "expected '}'"); err != nil {
				return nil, err
			}
			return &ast.DictComp{Pos: pos, Key: first, Value: value, Generators: generators}, nil
		}
		if p.match(COMMA) {
			return p.parseDictRest(pos, []ast.Expr{first}, []ast.Expr{value})
		}
		if _, err := p.expect(RBRACE, "expected '}'"); err != nil {
			return nil, err
		}
		return &ast.Dict{Pos: pos, Keys: []ast.Expr{first}, Values: []ast.Expr{value}}, nil
	}

	if p.check(FOR) {
		generators, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACE, "expected '}'"); err != nil {
			return nil, err
		}
		return &ast.SetComp{Pos: pos, Elt: first, Generators: generators}, nil
	}

	elts := []ast.Expr{first}
	for p.match(COMMA) {
		if p.check(RBRACE) {
			break
		}
		next, err := p.parseTestOrStar()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	if _, err := p.expect(RBRACE, "expected '}'"); err != nil {
		return nil, err
	}
	return &ast.Set{Pos: pos, Elts: elts}, nil
}

// parseDictRest parses the remaining entries of a dict display. A nil key
// marks a '**' unpacking entry.
func (p *Parser) parseDictRest(pos ast.Position, keys, values []ast.Expr) (ast.Expr, error) {
	for !p.check(RBRACE) {
		if p.check(DOUBLESTAR) {
			tok := p.advance()
			value, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			keys = append(keys, nil)
			values = append(values, &ast.Starred{Pos: p.tokenPosition(tok), Value: value})
		} else {
			key, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(COLON, "expected ':' in dict entry"); err != nil {
				return nil, err
			}
			value, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			values = append(values, value)
		}
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.expect(RBRACE, "expected '}'"); err != nil {
		return nil, err
	}
	return &ast.Dict{Pos: pos, Keys: keys, Values: values}, nil
}
