// Package parser implements lexing and parsing of Python source files.
//
// The parser produces three things per input: the syntax tree, a separate
// position-ordered list of comment tokens, and the raw source split into
// lines. Comments are deliberately kept out of the tree; the trivia package
// reattaches them before formatting.
package parser

import (
	"context"
	"io"
	"strings"

	"github.com/robinvdvleuten/pyfmt/ast"
	"github.com/robinvdvleuten/pyfmt/telemetry"
)

// Result holds everything produced by a single parse.
type Result struct {
	// Module is the syntax tree, or nil when the source contains no
	// executable statements (empty input or comments only).
	Module *ast.Module

	// Comments are the comment tokens in source order.
	Comments []*ast.Comment

	// Lines is the raw source split into physical lines, used by the
	// trivia package to disambiguate comments on "else:" lines.
	Lines []string

	// Source is the raw input.
	Source []byte
}

// Line returns the raw text of a 1-based source line, or "" when out of range.
func (r *Result) Line(n int) string {
	if n < 1 || n > len(r.Lines) {
		return ""
	}
	return r.Lines[n-1]
}

// Parser builds an AST from a scanned token stream.
type Parser struct {
	source   []byte
	filename string
	tokens   []Token
	pos      int
}

// Parse parses Python source from an io.Reader.
func Parse(ctx context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(ctx, data)
}

// ParseString parses Python source from a string.
func ParseString(ctx context.Context, str string) (*Result, error) {
	return ParseBytes(ctx, []byte(str))
}

// ParseBytes parses Python source from bytes.
func ParseBytes(ctx context.Context, data []byte) (*Result, error) {
	return ParseBytesWithFilename(ctx, "", data)
}

// ParseBytesWithFilename parses Python source from bytes, recording the
// filename in positions and errors.
func ParseBytesWithFilename(ctx context.Context, filename string, data []byte) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start("parse")
	defer timer.End()

	lexer := NewLexer(data, filename)
	tokens, err := lexer.ScanAll()
	if err != nil {
		return nil, err
	}

	p := &Parser{
		source:   data,
		filename: filename,
		tokens:   tokens,
	}

	module, err := p.parseModule()
	if err != nil {
		return nil, err
	}

	return &Result{
		Module:   module,
		Comments: lexer.Comments(),
		Lines:    splitLines(data),
		Source:   data,
	}, nil
}

// MustParseBytes parses source and panics on error. Intended for tests.
func MustParseBytes(ctx context.Context, data []byte) *Result {
	res, err := ParseBytes(ctx, data)
	if err != nil {
		panic(err)
	}
	return res
}

// splitLines splits source into physical lines without their line endings.
func splitLines(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// parseModule parses the whole token stream. Returns nil when the input has
// no statements at all.
func (p *Parser) parseModule() (*ast.Module, error) {
	var body []ast.Stmt

	for !p.isAtEnd() {
		if p.match(NEWLINE) {
			continue
		}

		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
	}

	if len(body) == 0 {
		return nil, nil
	}
	return &ast.Module{Body: body}, nil
}

// parseStatement parses one compound statement or one logical line of
// simple statements.
func (p *Parser) parseStatement() ([]ast.Stmt, error) {
	switch p.peek().Type {
	case IF:
		s, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil
	case WHILE:
		s, err := p.parseWhile()
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil
	case FOR:
		s, err := p.parseFor()
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil
	case TRY:
		s, err := p.parseTry()
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil
	case DEF:
		s, err := p.parseFunctionDef()
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil
	case CLASS:
		s, err := p.parseClassDef()
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil
	default:
		return p.parseSimpleLine()
	}
}

// parseSimpleLine parses one or more simple statements separated by ';'
// and terminated by NEWLINE.
func (p *Parser) parseSimpleLine() ([]ast.Stmt, error) {
	var out []ast.Stmt

	for {
		s, err := p.parseSmallStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)

		if !p.match(SEMI) {
			break
		}
		if p.check(NEWLINE) || p.isAtEnd() {
			break
		}
	}

	if _, err := p.expect(NEWLINE, "expected end of line"); err != nil {
		return nil, err
	}
	return out, nil
}

// parseSmallStatement parses a single simple statement.
func (p *Parser) parseSmallStatement() (ast.Stmt, error) {
	tok := p.peek()
	pos := p.tokenPosition(tok)

	switch tok.Type {
	case PASS:
		p.advance()
		return &ast.Pass{Pos: pos}, nil

	case BREAK:
		p.advance()
		return &ast.Break{Pos: pos}, nil

	case CONTINUE:
		p.advance()
		return &ast.Continue{Pos: pos}, nil

	case RETURN:
		p.advance()
		var value ast.Expr
		if !p.atStatementEnd() {
			v, err := p.parseTestList()
			if err != nil {
				return nil, err
			}
			value = v
		}
		return &ast.Return{Pos: pos, Value: value}, nil

	case DEL:
		p.advance()
		targets, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &ast.Delete{Pos: pos, Targets: targets}, nil

	case GLOBAL:
		p.advance()
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		return &ast.Global{Pos: pos, Names: names}, nil

	case NONLOCAL:
		p.advance()
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		return &ast.Nonlocal{Pos: pos, Names: names}, nil

	case RAISE:
		p.advance()
		raise := &ast.Raise{Pos: pos}
		if !p.atStatementEnd() {
			exc, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			raise.Exc = exc
			if p.match(FROM) {
				cause, err := p.parseTest()
				if err != nil {
					return nil, err
				}
				raise.Cause = cause
			}
		}
		return raise, nil

	case ASSERT:
		p.advance()
		test, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		stmt := &ast.Assert{Pos: pos, Test: test}
		if p.match(COMMA) {
			msg, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			stmt.Msg = msg
		}
		return stmt, nil

	case IMPORT:
		return p.parseImport(pos)

	case FROM:
		return p.parseImportFrom(pos)

	default:
		return p.parseExprOrAssign(pos)
	}
}

// atStatementEnd reports whether the current token terminates a simple
// statement.
func (p *Parser) atStatementEnd() bool {
	switch p.peek().Type {
	case NEWLINE, SEMI, EOF:
		return true
	}
	return false
}

// parseNameList parses NAME {',' NAME}.
func (p *Parser) parseNameList() ([]string, error) {
	var names []string
	for {
		tok, err := p.expect(NAME, "expected name")
		if err != nil {
			return nil, err
		}
		names = append(names, p.text(tok))
		if !p.match(COMMA) {
			return names, nil
		}
	}
}

// parseDottedName parses NAME {'.' NAME} into a single dotted string.
func (p *Parser) parseDottedName() (string, error) {
	tok, err := p.expect(NAME, "expected module name")
	if err != nil {
		return "", err
	}
	name := p.text(tok)
	for p.match(DOT) {
		part, err := p.expect(NAME, "expected name after '.'")
		if err != nil {
			return "", err
		}
		name += "." + p.text(part)
	}
	return name, nil
}

// parseImport parses: import dotted_name [as NAME] {, dotted_name [as NAME]}
func (p *Parser) parseImport(pos ast.Position) (ast.Stmt, error) {
	p.advance() // import

	stmt := &ast.Import{Pos: pos}
	for {
		name, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		alias := &ast.Alias{Name: name}
		if p.match(AS) {
			tok, err := p.expect(NAME, "expected name after 'as'")
			if err != nil {
				return nil, err
			}
			alias.AsName = p.text(tok)
		}
		stmt.Names = append(stmt.Names, alias)
		if !p.match(COMMA) {
			return stmt, nil
		}
	}
}

// parseImportFrom parses: from [.]* [dotted_name] import ('*' | names | '(' names ')')
func (p *Parser) parseImportFrom(pos ast.Position) (ast.Stmt, error) {
	p.advance() // from

	stmt := &ast.ImportFrom{Pos: pos}
	for p.match(DOT) {
		stmt.Level++
	}

	if !p.check(IMPORT) {
		module, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		stmt.Module = module
	} else if stmt.Level == 0 {
		return nil, p.errorAtToken(p.peek(), "expected module name after 'from'")
	}

	if _, err := p.expect(IMPORT, "expected 'import'"); err != nil {
		return nil, err
	}

	if p.match(STAR) {
		stmt.Names = []*ast.Alias{{Name: "*"}}
		return stmt, nil
	}

	parens := p.match(LPAREN)
	for {
		tok, err := p.expect(NAME, "expected imported name")
		if err != nil {
			return nil, err
		}
		alias := &ast.Alias{Name: p.text(tok)}
		if p.match(AS) {
			as, err := p.expect(NAME, "expected name after 'as'")
			if err != nil {
				return nil, err
			}
			alias.AsName = p.text(as)
		}
		stmt.Names = append(stmt.Names, alias)
		if !p.match(COMMA) {
			break
		}
		if parens && p.check(RPAREN) {
			break
		}
	}
	if parens {
		if _, err := p.expect(RPAREN, "expected ')'"); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// parseExprOrAssign parses an expression statement, assignment, or
// augmented assignment.
func (p *Parser) parseExprOrAssign(pos ast.Position) (ast.Stmt, error) {
	first, err := p.parseTestListStar()
	if err != nil {
		return nil, err
	}

	if p.check(AUGASSIGN) {
		opTok := p.advance()
		op := strings.TrimSuffix(p.text(opTok), "=")
		value, err := p.parseTestList()
		if err != nil {
			return nil, err
		}
		return &ast.AugAssign{Pos: pos, Target: first, Op: op, Value: value}, nil
	}

	if !p.check(ASSIGN) {
		return &ast.ExprStmt{Pos: pos, Value: first}, nil
	}

	targets := []ast.Expr{first}
	var value ast.Expr = first
	for p.match(ASSIGN) {
		next, err := p.parseTestListStar()
		if err != nil {
			return nil, err
		}
		targets = append(targets, next)
		value = next
	}
	return &ast.Assign{Pos: pos, Targets: targets[:len(targets)-1], Value: value}, nil
}

// parseSuite parses: ':' NEWLINE INDENT statement+ DEDENT
func (p *Parser) parseSuite() ([]ast.Stmt, error) {
	if _, err := p.expect(COLON, "expected ':'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(NEWLINE, "expected an indented block"); err != nil {
		return nil, err
	}
	if _, err := p.expect(INDENT, "expected an indented block"); err != nil {
		return nil, err
	}

	var body []ast.Stmt
	for !p.check(DEDENT) && !p.isAtEnd() {
		if p.match(NEWLINE) {
			continue
		}
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
	}

	if _, err := p.expect(DEDENT, "expected dedent"); err != nil {
		return nil, err
	}
	return body, nil
}

// parseIf parses an if statement. Each elif clause becomes a nested If that
// is the sole element of its parent's Else.
func (p *Parser) parseIf() (*ast.If, error) {
	tok := p.advance() // if or elif

	cond, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{Pos: p.tokenPosition(tok), Cond: cond, Body: body}

	switch {
	case p.check(ELIF):
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.Else = []ast.Stmt{nested}

	case p.match(ELSE):
		orelse, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		stmt.Else = orelse
	}

	return stmt, nil
}

// parseWhile parses: while test ':' suite ['else' ':' suite]
func (p *Parser) parseWhile() (*ast.While, error) {
	tok := p.advance()

	cond, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	stmt := &ast.While{Pos: p.tokenPosition(tok), Cond: cond, Body: body}
	if p.match(ELSE) {
		orelse, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		stmt.Else = orelse
	}
	return stmt, nil
}

// parseFor parses: for exprlist 'in' testlist ':' suite ['else' ':' suite]
func (p *Parser) parseFor() (*ast.For, error) {
	tok := p.advance()

	target, err := p.parseTargetList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(IN, "expected 'in'"); err != nil {
		return nil, err
	}
	iter, err := p.parseTestList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	stmt := &ast.For{Pos: p.tokenPosition(tok), Target: target, Iter: iter, Body: body}
	if p.match(ELSE) {
		orelse, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		stmt.Else = orelse
	}
	return stmt, nil
}

// parseTry parses: try ':' suite (except clauses ['else'] | ) ['finally']
func (p *Parser) parseTry() (*ast.Try, error) {
	tok := p.advance()

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	stmt := &ast.Try{Pos: p.tokenPosition(tok), Body: body}

	for p.check(EXCEPT) {
		exceptTok := p.advance()
		handler := &ast.ExceptHandler{Pos: p.tokenPosition(exceptTok)}

		if !p.check(COLON) {
			typ, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			handler.Type = typ
			if p.match(AS) {
				name, err := p.expect(NAME, "expected name after 'as'")
				if err != nil {
					return nil, err
				}
				handler.Name = p.text(name)
			}
		}

		handlerBody, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		handler.Body = handlerBody
		stmt.Handlers = append(stmt.Handlers, handler)
	}

	if len(stmt.Handlers) > 0 && p.match(ELSE) {
		orelse, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		stmt.Else = orelse
	}

	if p.match(FINALLY) {
		finally, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		stmt.Finally = finally
	}

	if len(stmt.Handlers) == 0 && stmt.Finally == nil {
		return nil, p.errorAtToken(tok, "expected 'except' or 'finally' block")
	}
	return stmt, nil
}

// parseFunctionDef parses: def NAME '(' params ')' ':' suite
func (p *Parser) parseFunctionDef() (*ast.FunctionDef, error) {
	tok := p.advance()

	name, err := p.expect(NAME, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN, "expected '('"); err != nil {
		return nil, err
	}
	params, err := p.parseParams(RPAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "expected ')'"); err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDef{
		Pos:    p.tokenPosition(tok),
		Name:   p.text(name),
		Params: params,
		Body:   body,
	}, nil
}

// parseClassDef parses: class NAME ['(' arguments ')'] ':' suite
func (p *Parser) parseClassDef() (*ast.ClassDef, error) {
	tok := p.advance()

	name, err := p.expect(NAME, "expected class name")
	if err != nil {
		return nil, err
	}

	stmt := &ast.ClassDef{Pos: p.tokenPosition(tok), Name: p.text(name)}

	if p.match(LPAREN) {
		args, keywords, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		stmt.Bases = args
		stmt.Keywords = keywords
	}

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

// parseParams parses a parameter list for def or lambda, stopping before
// the end token (RPAREN or COLON). Declaration groups may appear in any
// order in related tooling; here the Python order is enforced loosely and
// the printer re-emits groups in canonical order.
func (p *Parser) parseParams(end TokenType) (*ast.Params, error) {
	params := &ast.Params{}
	seenStar := false

	for !p.check(end) {
		switch {
		case p.match(DOUBLESTAR):
			name, err := p.expect(NAME, "expected name after '**'")
			if err != nil {
				return nil, err
			}
			params.Kwarg = p.text(name)

		case p.match(STAR):
			seenStar = true
			if p.check(NAME) {
				name := p.advance()
				params.Vararg = p.text(name)
			}

		default:
			name, err := p.expect(NAME, "expected parameter name")
			if err != nil {
				return nil, err
			}
			arg := &ast.Arg{Name: p.text(name)}
			if p.match(ASSIGN) {
				def, err := p.parseTest()
				if err != nil {
					return nil, err
				}
				arg.Default = def
			}
			if seenStar {
				params.KwOnly = append(params.KwOnly, arg)
			} else {
				params.Args = append(params.Args, arg)
			}
		}

		if !p.match(COMMA) {
			break
		}
	}

	return params, nil
}
