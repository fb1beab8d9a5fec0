// Package trivia attaches the comment stream produced by the parser onto a
// syntax tree. The result is a new tree in which every comment appears
// exactly once, either as a standalone CommentStmt, as the trailing comment
// of a Commented statement, or on a branch header via BranchComments.
//
// Attachment works off source positions alone. A comment belongs before a
// statement when it sits on an earlier line, inline when it shares the
// statement's line, and at the end of a block when it is indented at least
// as far as the block and sits above the block's bounding line. Clause
// header lines ("else:", "elif ...:", "except ...:", "finally:") are
// recognized from the raw source because column information cannot tell a
// comment on an "else:" line apart from one trailing the preceding block.
package trivia

import (
	"math"
	"regexp"

	"github.com/robinvdvleuten/pyfmt/ast"
)

var (
	elseHeader   = regexp.MustCompile(`^\s*else\s*:`)
	elifHeader   = regexp.MustCompile(`^\s*elif\b`)
	clauseHeader = regexp.MustCompile(`^\s*(else\s*:|elif\b|except\b|except\s*:|finally\s*:)`)
	finallyHead  = regexp.MustCompile(`^\s*finally\s*:`)
)

// Merge attaches comments onto module, returning a fresh tree. The input
// tree is not modified; compound statements whose blocks receive comments
// are shallow-copied with new block slices. A nil module with comments
// yields a module of standalone comments. A nil module without comments
// yields nil.
func Merge(module *ast.Module, comments []*ast.Comment, lines []string) *ast.Module {
	if module == nil {
		if len(comments) == 0 {
			return nil
		}
		body := make([]ast.Stmt, len(comments))
		for i, c := range comments {
			body[i] = &ast.CommentStmt{Comment: c}
		}
		return &ast.Module{Body: body}
	}

	m := &merger{comments: comments, lines: lines}
	body := m.mergeBlock(module.Body, math.MaxInt)

	// Anything left over belongs after the last statement.
	for _, c := range m.rest() {
		body = append(body, &ast.CommentStmt{Comment: c})
	}
	return &ast.Module{Body: body}
}

type merger struct {
	comments []*ast.Comment
	idx      int
	lines    []string
}

// peek returns the next unattached comment, or nil.
func (m *merger) peek() *ast.Comment {
	if m.idx >= len(m.comments) {
		return nil
	}
	return m.comments[m.idx]
}

// rest consumes and returns all remaining comments.
func (m *merger) rest() []*ast.Comment {
	out := m.comments[m.idx:]
	m.idx = len(m.comments)
	return out
}

// takeOnLine consumes the next comment if it sits on the given line.
func (m *merger) takeOnLine(line int) *ast.Comment {
	if c := m.peek(); c != nil && c.Pos.Line == line {
		m.idx++
		return c
	}
	return nil
}

// line returns the raw text of a 1-based source line.
func (m *merger) line(n int) string {
	if n < 1 || n > len(m.lines) {
		return ""
	}
	return m.lines[n-1]
}

// mergeBlock merges comments into one block of statements. limit is the
// first line that no longer belongs to the block (the line of the next
// statement after the block, or MaxInt for the outermost block).
func (m *merger) mergeBlock(body []ast.Stmt, limit int) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(body))

	for i, stmt := range body {
		// Comments on earlier lines stand alone before the statement.
		for {
			c := m.peek()
			if c == nil || c.Pos.Line >= stmt.Position().Line {
				break
			}
			m.idx++
			out = append(out, &ast.CommentStmt{Comment: c})
		}

		next := limit
		if i+1 < len(body) {
			next = body[i+1].Position().Line
		}
		out = append(out, m.mergeStmt(stmt, next))
	}

	// Trailing comments indented at least as far as the block belong at
	// its end. A comment on a clause header line is left for the
	// enclosing branch statement to claim.
	blockCol := 1
	if len(body) > 0 {
		blockCol = body[len(body)-1].Position().Column
	}
	for {
		c := m.peek()
		if c == nil || c.Pos.Line >= limit || c.Pos.Column < blockCol {
			break
		}
		if clauseHeader.MatchString(m.line(c.Pos.Line)) {
			break
		}
		m.idx++
		out = append(out, &ast.CommentStmt{Comment: c})
	}
	return out
}

// mergeStmt merges comments into a single statement. limit bounds the
// statement's blocks, exclusive.
func (m *merger) mergeStmt(stmt ast.Stmt, limit int) ast.Stmt {
	switch s := stmt.(type) {
	case *ast.If:
		return m.mergeIf(s, limit)
	case *ast.While:
		return m.mergeWhile(s, limit)
	case *ast.For:
		return m.mergeFor(s, limit)
	case *ast.Try:
		return m.mergeTry(s, limit)
	case *ast.FunctionDef:
		head := m.takeOnLine(s.Pos.Line)
		clone := *s
		clone.Body = m.mergeBlock(s.Body, limit)
		return withTrailing(&clone, head)
	case *ast.ClassDef:
		head := m.takeOnLine(s.Pos.Line)
		clone := *s
		clone.Body = m.mergeBlock(s.Body, limit)
		return withTrailing(&clone, head)
	default:
		if c := m.takeOnLine(stmt.Position().Line); c != nil {
			return &ast.Commented{Stmt: stmt, Trailing: c}
		}
		return stmt
	}
}

// withTrailing wraps stmt when a header comment was found.
func withTrailing(stmt ast.Stmt, head *ast.Comment) ast.Stmt {
	if head == nil {
		return stmt
	}
	return &ast.Commented{Stmt: stmt, Trailing: head}
}

// mergeIf merges comments into an if statement, including the elif chain.
// An elif clause is a nested If that is the sole element of Else and whose
// header line actually reads "elif" in the source.
func (m *merger) mergeIf(stmt *ast.If, limit int) ast.Stmt {
	head := m.takeOnLine(stmt.Pos.Line)
	clone := &ast.If{Pos: stmt.Pos, Cond: stmt.Cond}

	nested, isElif := m.elifTail(stmt.Else)

	bodyLimit := limit
	elseLine := 0
	switch {
	case isElif:
		bodyLimit = nested.Pos.Line
	case len(stmt.Else) > 0:
		elseLine = m.findClauseLine(elseHeader, stmt.Else[0].Position().Line)
		if elseLine > 0 {
			bodyLimit = elseLine
		} else {
			bodyLimit = stmt.Else[0].Position().Line
		}
	}
	clone.Body = m.mergeBlock(stmt.Body, bodyLimit)

	var elseComment *ast.Comment
	switch {
	case isElif:
		clone.Else = []ast.Stmt{m.mergeStmt(nested, limit)}
	case len(stmt.Else) > 0:
		if elseLine > 0 {
			elseComment = m.takeOnLine(elseLine)
		}
		clone.Else = m.mergeBlock(stmt.Else, limit)
	}

	if head == nil && elseComment == nil {
		return clone
	}
	return &ast.BranchComments{Stmt: clone, Head: head, Else: elseComment}
}

// elifTail reports whether orelse is an elif continuation.
func (m *merger) elifTail(orelse []ast.Stmt) (*ast.If, bool) {
	if len(orelse) != 1 {
		return nil, false
	}
	nested, ok := orelse[0].(*ast.If)
	if !ok {
		return nil, false
	}
	return nested, elifHeader.MatchString(m.line(nested.Pos.Line))
}

func (m *merger) mergeWhile(stmt *ast.While, limit int) ast.Stmt {
	head := m.takeOnLine(stmt.Pos.Line)
	clone := &ast.While{Pos: stmt.Pos, Cond: stmt.Cond}

	body, orelse, elseComment := m.mergeLoopBlocks(stmt.Body, stmt.Else, limit)
	clone.Body, clone.Else = body, orelse

	if head == nil && elseComment == nil {
		return clone
	}
	return &ast.BranchComments{Stmt: clone, Head: head, Else: elseComment}
}

func (m *merger) mergeFor(stmt *ast.For, limit int) ast.Stmt {
	head := m.takeOnLine(stmt.Pos.Line)
	clone := &ast.For{Pos: stmt.Pos, Target: stmt.Target, Iter: stmt.Iter}

	body, orelse, elseComment := m.mergeLoopBlocks(stmt.Body, stmt.Else, limit)
	clone.Body, clone.Else = body, orelse

	if head == nil && elseComment == nil {
		return clone
	}
	return &ast.BranchComments{Stmt: clone, Head: head, Else: elseComment}
}

// mergeLoopBlocks handles the shared body/else shape of while and for.
func (m *merger) mergeLoopBlocks(body, orelse []ast.Stmt, limit int) ([]ast.Stmt, []ast.Stmt, *ast.Comment) {
	bodyLimit := limit
	elseLine := 0
	if len(orelse) > 0 {
		elseLine = m.findClauseLine(elseHeader, orelse[0].Position().Line)
		if elseLine > 0 {
			bodyLimit = elseLine
		} else {
			bodyLimit = orelse[0].Position().Line
		}
	}

	mergedBody := m.mergeBlock(body, bodyLimit)

	var elseComment *ast.Comment
	var mergedElse []ast.Stmt
	if len(orelse) > 0 {
		if elseLine > 0 {
			elseComment = m.takeOnLine(elseLine)
		}
		mergedElse = m.mergeBlock(orelse, limit)
	}
	return mergedBody, mergedElse, elseComment
}

// mergeTry merges comments into a try statement. Comments on except,
// else, and finally header lines are hoisted to the top of the clause body
// so they are preserved on their own line.
func (m *merger) mergeTry(stmt *ast.Try, limit int) ast.Stmt {
	head := m.takeOnLine(stmt.Pos.Line)
	clone := &ast.Try{Pos: stmt.Pos}

	bodyLimit := limit
	if len(stmt.Handlers) > 0 {
		bodyLimit = stmt.Handlers[0].Pos.Line
	} else if len(stmt.Finally) > 0 {
		bodyLimit = m.clauseStart(finallyHead, stmt.Finally[0].Position().Line)
	}
	clone.Body = m.mergeBlock(stmt.Body, bodyLimit)

	elseLine := 0
	if len(stmt.Else) > 0 {
		elseLine = m.clauseStart(elseHeader, stmt.Else[0].Position().Line)
	}
	finallyLine := 0
	if len(stmt.Finally) > 0 {
		finallyLine = m.clauseStart(finallyHead, stmt.Finally[0].Position().Line)
	}

	for i, handler := range stmt.Handlers {
		next := limit
		switch {
		case i+1 < len(stmt.Handlers):
			next = stmt.Handlers[i+1].Pos.Line
		case elseLine > 0:
			next = elseLine
		case finallyLine > 0:
			next = finallyLine
		}

		merged := &ast.ExceptHandler{Pos: handler.Pos, Type: handler.Type, Name: handler.Name}
		headerComment := m.takeOnLine(handler.Pos.Line)
		merged.Body = m.mergeBlock(handler.Body, next)
		if headerComment != nil {
			merged.Body = append([]ast.Stmt{&ast.CommentStmt{Comment: headerComment}}, merged.Body...)
		}
		clone.Handlers = append(clone.Handlers, merged)
	}

	if len(stmt.Else) > 0 {
		next := limit
		if finallyLine > 0 {
			next = finallyLine
		}
		headerComment := m.takeOnLine(elseLine)
		clone.Else = m.mergeBlock(stmt.Else, next)
		if headerComment != nil {
			clone.Else = append([]ast.Stmt{&ast.CommentStmt{Comment: headerComment}}, clone.Else...)
		}
	}

	if len(stmt.Finally) > 0 {
		headerComment := m.takeOnLine(finallyLine)
		clone.Finally = m.mergeBlock(stmt.Finally, limit)
		if headerComment != nil {
			clone.Finally = append([]ast.Stmt{&ast.CommentStmt{Comment: headerComment}}, clone.Finally...)
		}
	}

	return withTrailing(clone, head)
}

// findClauseLine scans backward from just above the first statement of a
// clause for its header line. Returns 0 when not found.
func (m *merger) findClauseLine(header *regexp.Regexp, firstStmtLine int) int {
	for n := firstStmtLine - 1; n >= 1; n-- {
		if header.MatchString(m.line(n)) {
			return n
		}
		// Anything other than a blank or comment line means the header
		// was not where expected.
		if !blankOrComment(m.line(n)) {
			return 0
		}
	}
	return 0
}

// clauseStart is findClauseLine falling back to the clause's first
// statement line when the header cannot be located.
func (m *merger) clauseStart(header *regexp.Regexp, firstStmtLine int) int {
	if n := m.findClauseLine(header, firstStmtLine); n > 0 {
		return n
	}
	return firstStmtLine
}

func blankOrComment(line string) bool {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '\r':
			continue
		case '#':
			return true
		default:
			return false
		}
	}
	return true
}
