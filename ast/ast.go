// Package ast declares the types used to represent syntax trees for Python
// source files.
//
// The tree is produced by the parser package and can be annotated with
// comment nodes by the trivia package before being rendered back to text by
// the formatter package. Statement nodes carry the position assigned by the
// parser; comment placement depends on those positions, so they are never
// recomputed after parsing.
package ast

// Node is the interface implemented by all AST nodes.
type Node interface {
	Position() Position
}

// Stmt is the interface implemented by all statement nodes.
//
// A block (a statement sequence owned by a module, suite, or clause) is
// represented as []Stmt. After comment merging a block may also contain
// CommentStmt entries interleaved with the original statements.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the interface implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Module is the root of a parsed source file.
type Module struct {
	Body []Stmt
}

func (m *Module) Position() Position {
	if len(m.Body) > 0 {
		return m.Body[0].Position()
	}
	return Position{}
}

// ExprStmt is an expression evaluated for its value at statement level.
type ExprStmt struct {
	Pos   Position
	Value Expr
}

// Assign is an assignment statement. Targets holds every target of a chained
// assignment (a = b = 1 has two targets).
type Assign struct {
	Pos     Position
	Targets []Expr
	Value   Expr
}

// AugAssign is an augmented assignment statement such as x += 1.
// Op holds the operator without the trailing '=' (e.g. "+", "//", "**").
type AugAssign struct {
	Pos    Position
	Target Expr
	Op     string
	Value  Expr
}

// Return is a return statement with an optional value.
type Return struct {
	Pos   Position
	Value Expr
}

// Pass is a pass statement.
type Pass struct {
	Pos Position
}

// Break is a break statement.
type Break struct {
	Pos Position
}

// Continue is a continue statement.
type Continue struct {
	Pos Position
}

// Delete is a del statement.
type Delete struct {
	Pos     Position
	Targets []Expr
}

// Global is a global declaration.
type Global struct {
	Pos   Position
	Names []string
}

// Nonlocal is a nonlocal declaration.
type Nonlocal struct {
	Pos   Position
	Names []string
}

// Raise is a raise statement: raise [Exc [from Cause]].
type Raise struct {
	Pos   Position
	Exc   Expr
	Cause Expr
}

// Assert is an assert statement with an optional message.
type Assert struct {
	Pos  Position
	Test Expr
	Msg  Expr
}

// Alias is a single name within an import statement, optionally renamed.
type Alias struct {
	Name   string
	AsName string
}

// Import is an import statement.
type Import struct {
	Pos   Position
	Names []*Alias
}

// ImportFrom is a from ... import ... statement. Level counts leading dots
// for relative imports.
type ImportFrom struct {
	Pos    Position
	Module string
	Level  int
	Names  []*Alias
}

// If is a conditional statement. An elif clause is represented as a nested
// If that is the sole element of Else; a terminal else clause is any other
// non-empty Else.
type If struct {
	Pos  Position
	Cond Expr
	Body []Stmt
	Else []Stmt
}

// While is a while loop with an optional else clause.
type While struct {
	Pos  Position
	Cond Expr
	Body []Stmt
	Else []Stmt
}

// For is a for loop with an optional else clause.
type For struct {
	Pos    Position
	Target Expr
	Iter   Expr
	Body   []Stmt
	Else   []Stmt
}

// ExceptHandler is a single except clause of a Try statement.
type ExceptHandler struct {
	Pos  Position
	Type Expr   // nil for a bare except
	Name string // bound name after "as", empty if absent
	Body []Stmt
}

func (h *ExceptHandler) Position() Position { return h.Pos }

// Try is a try statement with handlers and optional else/finally clauses.
type Try struct {
	Pos      Position
	Body     []Stmt
	Handlers []*ExceptHandler
	Else     []Stmt
	Finally  []Stmt
}

// Arg is a single parameter of a function or lambda. Default is nil for
// parameters without a default value.
type Arg struct {
	Name    string
	Default Expr
}

// Params describes a full parameter list. The printer renders the groups in
// this fixed order regardless of how they were declared.
type Params struct {
	Args   []*Arg // positional (possibly defaulted)
	Vararg string // *args name, empty if absent
	KwOnly []*Arg // keyword-only parameters
	Kwarg  string // **kwargs name, empty if absent
}

// HasParams reports whether the parameter list is non-empty.
func (p *Params) HasParams() bool {
	if p == nil {
		return false
	}
	return len(p.Args) > 0 || p.Vararg != "" || len(p.KwOnly) > 0 || p.Kwarg != ""
}

// FunctionDef is a function definition.
type FunctionDef struct {
	Pos    Position
	Name   string
	Params *Params
	Body   []Stmt
}

// Keyword is a keyword argument in a call or class definition. A nil-named
// keyword represents a **mapping unpacking.
type Keyword struct {
	Name  string // empty for **expr
	Value Expr
}

// ClassDef is a class definition with optional bases and keyword arguments.
type ClassDef struct {
	Pos      Position
	Name     string
	Bases    []Expr
	Keywords []*Keyword
	Body     []Stmt
}

func (s *ExprStmt) Position() Position    { return s.Pos }
func (s *Assign) Position() Position      { return s.Pos }
func (s *AugAssign) Position() Position   { return s.Pos }
func (s *Return) Position() Position      { return s.Pos }
func (s *Pass) Position() Position        { return s.Pos }
func (s *Break) Position() Position       { return s.Pos }
func (s *Continue) Position() Position    { return s.Pos }
func (s *Delete) Position() Position      { return s.Pos }
func (s *Global) Position() Position      { return s.Pos }
func (s *Nonlocal) Position() Position    { return s.Pos }
func (s *Raise) Position() Position       { return s.Pos }
func (s *Assert) Position() Position      { return s.Pos }
func (s *Import) Position() Position      { return s.Pos }
func (s *ImportFrom) Position() Position  { return s.Pos }
func (s *If) Position() Position          { return s.Pos }
func (s *While) Position() Position       { return s.Pos }
func (s *For) Position() Position         { return s.Pos }
func (s *Try) Position() Position         { return s.Pos }
func (s *FunctionDef) Position() Position { return s.Pos }
func (s *ClassDef) Position() Position    { return s.Pos }

func (*ExprStmt) stmtNode()    {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*Return) stmtNode()      {}
func (*Pass) stmtNode()        {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Delete) stmtNode()      {}
func (*Global) stmtNode()      {}
func (*Nonlocal) stmtNode()    {}
func (*Raise) stmtNode()       {}
func (*Assert) stmtNode()      {}
func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*For) stmtNode()         {}
func (*Try) stmtNode()         {}
func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
