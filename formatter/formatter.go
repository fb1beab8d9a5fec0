// Package formatter renders a syntax tree back to canonical source text.
//
// The output is deterministic: four-space indentation, double-quoted
// strings, canonical numeric literals, single spaces around binary
// operators, and one statement per line. Formatting already-formatted
// output is the identity.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/robinvdvleuten/pyfmt/ast"
)

const (
	// DefaultIndent is the indentation emitted per block level.
	DefaultIndent = "    "

	// commentSpacing separates a statement from its trailing comment.
	commentSpacing = "  "
)

// Formatter renders syntax trees to canonical source text.
type Formatter struct {
	// Indent is the string emitted per indentation level. An empty value
	// selects DefaultIndent.
	Indent string
}

// Format writes the canonical rendering of module to w. A nil module
// produces no output.
func (f *Formatter) Format(module *ast.Module, w io.Writer) error {
	_, err := io.WriteString(w, f.FormatString(module))
	return err
}

// FormatString renders module to a string.
func (f *Formatter) FormatString(module *ast.Module) string {
	if module == nil {
		return ""
	}

	indent := f.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	var buf strings.Builder
	for _, stmt := range module.Body {
		f.formatStmt(stmt, indent, 0, &buf)
	}
	return buf.String()
}

// formatStmt renders one statement, including any comment wrappers, at
// the given depth.
func (f *Formatter) formatStmt(stmt ast.Stmt, indent string, depth int, buf *strings.Builder) {
	switch s := stmt.(type) {
	case *ast.CommentStmt:
		f.writeLine(normalizeComment(s.Comment), indent, depth, buf)

	case *ast.Commented:
		f.formatHeaded(s.Stmt, s.Trailing, nil, indent, depth, buf)

	case *ast.BranchComments:
		f.formatHeaded(s.Stmt, s.Head, s.Else, indent, depth, buf)

	default:
		f.formatHeaded(stmt, nil, nil, indent, depth, buf)
	}
}

// formatHeaded renders a bare statement with an optional header comment
// and, for branching statements, an optional comment on the else line.
func (f *Formatter) formatHeaded(stmt ast.Stmt, head, elseComment *ast.Comment, indent string, depth int, buf *strings.Builder) {
	suffix := ""
	if head != nil {
		suffix = commentSpacing + normalizeComment(head)
	}

	switch s := stmt.(type) {
	case *ast.If:
		f.formatIf(s, "if", suffix, elseComment, indent, depth, buf)

	case *ast.While:
		f.writeLine("while "+f.formatExpr(s.Cond, precTest)+":"+suffix, indent, depth, buf)
		f.formatSuite(s.Body, indent, depth, buf)
		f.formatElse(s.Else, elseComment, indent, depth, buf)

	case *ast.For:
		header := "for " + f.formatExpr(s.Target, precTest) + " in " + f.formatExpr(s.Iter, precTest) + ":"
		f.writeLine(header+suffix, indent, depth, buf)
		f.formatSuite(s.Body, indent, depth, buf)
		f.formatElse(s.Else, elseComment, indent, depth, buf)

	case *ast.Try:
		f.formatTry(s, suffix, indent, depth, buf)

	case *ast.FunctionDef:
		f.writeLine("def "+s.Name+"("+f.formatParams(s.Params)+"):"+suffix, indent, depth, buf)
		f.formatSuite(s.Body, indent, depth, buf)

	case *ast.ClassDef:
		f.writeLine(f.classHeader(s)+suffix, indent, depth, buf)
		f.formatSuite(s.Body, indent, depth, buf)

	default:
		f.writeLine(f.formatSimple(stmt)+suffix, indent, depth, buf)
	}
}

// formatIf renders an if or elif header and its branches. A terminal else
// holding nothing but another if collapses into an elif chain.
func (f *Formatter) formatIf(stmt *ast.If, keyword, suffix string, elseComment *ast.Comment, indent string, depth int, buf *strings.Builder) {
	f.writeLine(keyword+" "+f.formatExpr(stmt.Cond, precTest)+":"+suffix, indent, depth, buf)
	f.formatSuite(stmt.Body, indent, depth, buf)

	if len(stmt.Else) == 0 {
		return
	}

	if nested, head, nestedElse, ok := elifBranch(stmt.Else); ok {
		nestedSuffix := ""
		if head != nil {
			nestedSuffix = commentSpacing + normalizeComment(head)
		}
		f.formatIf(nested, "elif", nestedSuffix, nestedElse, indent, depth, buf)
		return
	}

	f.formatElse(stmt.Else, elseComment, indent, depth, buf)
}

// elifBranch reports whether orelse is exactly one if statement, possibly
// carrying branch comments.
func elifBranch(orelse []ast.Stmt) (*ast.If, *ast.Comment, *ast.Comment, bool) {
	if len(orelse) != 1 {
		return nil, nil, nil, false
	}
	switch w := orelse[0].(type) {
	case *ast.If:
		return w, nil, nil, true
	case *ast.BranchComments:
		if nested, ok := w.Stmt.(*ast.If); ok {
			return nested, w.Head, w.Else, true
		}
	}
	return nil, nil, nil, false
}

// formatElse renders a terminal else clause when present.
func (f *Formatter) formatElse(orelse []ast.Stmt, comment *ast.Comment, indent string, depth int, buf *strings.Builder) {
	if len(orelse) == 0 {
		return
	}
	suffix := ""
	if comment != nil {
		suffix = commentSpacing + normalizeComment(comment)
	}
	f.writeLine("else:"+suffix, indent, depth, buf)
	f.formatSuite(orelse, indent, depth, buf)
}

func (f *Formatter) formatTry(stmt *ast.Try, suffix string, indent string, depth int, buf *strings.Builder) {
	f.writeLine("try:"+suffix, indent, depth, buf)
	f.formatSuite(stmt.Body, indent, depth, buf)

	for _, handler := range stmt.Handlers {
		header := "except"
		if handler.Type != nil {
			header += " " + f.formatExpr(handler.Type, precTest)
			if handler.Name != "" {
				header += " as " + handler.Name
			}
		}
		f.writeLine(header+":", indent, depth, buf)
		f.formatSuite(handler.Body, indent, depth, buf)
	}

	if len(stmt.Else) > 0 {
		f.writeLine("else:", indent, depth, buf)
		f.formatSuite(stmt.Else, indent, depth, buf)
	}
	if len(stmt.Finally) > 0 {
		f.writeLine("finally:", indent, depth, buf)
		f.formatSuite(stmt.Finally, indent, depth, buf)
	}
}

func (f *Formatter) formatSuite(body []ast.Stmt, indent string, depth int, buf *strings.Builder) {
	for _, stmt := range body {
		f.formatStmt(stmt, indent, depth+1, buf)
	}
}

func (f *Formatter) classHeader(s *ast.ClassDef) string {
	if len(s.Bases) == 0 && len(s.Keywords) == 0 {
		return "class " + s.Name + ":"
	}

	args := make([]string, 0, len(s.Bases)+len(s.Keywords))
	for _, base := range s.Bases {
		args = append(args, f.formatExpr(base, precTest))
	}
	for _, kw := range s.Keywords {
		args = append(args, f.formatKeyword(kw))
	}
	return "class " + s.Name + "(" + strings.Join(args, ", ") + "):"
}

// formatParams renders a parameter list in canonical group order:
// positional parameters, *args, keyword-only parameters, **kwargs.
func (f *Formatter) formatParams(params *ast.Params) string {
	if params == nil {
		return ""
	}

	var parts []string
	for _, arg := range params.Args {
		parts = append(parts, f.formatArg(arg))
	}
	if params.Vararg != "" {
		parts = append(parts, "*"+params.Vararg)
	} else if len(params.KwOnly) > 0 {
		parts = append(parts, "*")
	}
	for _, arg := range params.KwOnly {
		parts = append(parts, f.formatArg(arg))
	}
	if params.Kwarg != "" {
		parts = append(parts, "**"+params.Kwarg)
	}
	return strings.Join(parts, ", ")
}

func (f *Formatter) formatArg(arg *ast.Arg) string {
	if arg.Default == nil {
		return arg.Name
	}
	return arg.Name + "=" + f.formatExpr(arg.Default, precTest)
}

// formatSimple renders a simple statement without its line ending.
func (f *Formatter) formatSimple(stmt ast.Stmt) string {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return f.formatExpr(s.Value, precTest)

	case *ast.Assign:
		var b strings.Builder
		for _, target := range s.Targets {
			b.WriteString(f.formatExpr(target, precTest))
			b.WriteString(" = ")
		}
		b.WriteString(f.formatExpr(s.Value, precTest))
		return b.String()

	case *ast.AugAssign:
		return f.formatExpr(s.Target, precTest) + " " + s.Op + "= " + f.formatExpr(s.Value, precTest)

	case *ast.Return:
		if s.Value == nil {
			return "return"
		}
		return "return " + f.formatExpr(s.Value, precTest)

	case *ast.Pass:
		return "pass"

	case *ast.Break:
		return "break"

	case *ast.Continue:
		return "continue"

	case *ast.Delete:
		return "del " + f.formatExprList(s.Targets)

	case *ast.Global:
		return "global " + strings.Join(s.Names, ", ")

	case *ast.Nonlocal:
		return "nonlocal " + strings.Join(s.Names, ", ")

	case *ast.Raise:
		if s.Exc == nil {
			return "raise"
		}
		text := "raise " + f.formatExpr(s.Exc, precTest)
		if s.Cause != nil {
			text += " from " + f.formatExpr(s.Cause, precTest)
		}
		return text

	case *ast.Assert:
		text := "assert " + f.formatExpr(s.Test, precTest)
		if s.Msg != nil {
			text += ", " + f.formatExpr(s.Msg, precTest)
		}
		return text

	case *ast.Import:
		return "import " + f.formatAliases(s.Names)

	case *ast.ImportFrom:
		return "from " + strings.Repeat(".", s.Level) + s.Module + " import " + f.formatAliases(s.Names)

	default:
		return fmt.Sprintf("<unsupported %T>", stmt)
	}
}

func (f *Formatter) formatAliases(names []*ast.Alias) string {
	parts := make([]string, len(names))
	for i, alias := range names {
		parts[i] = alias.Name
		if alias.AsName != "" {
			parts[i] += " as " + alias.AsName
		}
	}
	return strings.Join(parts, ", ")
}

func (f *Formatter) formatExprList(exprs []ast.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = f.formatExpr(e, precTest)
	}
	return strings.Join(parts, ", ")
}

func (f *Formatter) writeLine(text string, indent string, depth int, buf *strings.Builder) {
	for i := 0; i < depth; i++ {
		buf.WriteString(indent)
	}
	buf.WriteString(text)
	buf.WriteByte('\n')
}

// normalizeComment renders a comment as "# " plus its trimmed text. An
// empty comment renders as a bare "#".
func normalizeComment(c *ast.Comment) string {
	text := strings.TrimSpace(strings.TrimPrefix(c.Text, "#"))
	if text == "" {
		return "#"
	}
	return "# " + text
}
