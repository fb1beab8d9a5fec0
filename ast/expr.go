package ast

import "github.com/shopspring/decimal"

// Name is an identifier expression.
type Name struct {
	Pos Position
	ID  string
}

// Int is an integer literal. The value is stored exactly; the original
// spelling (hex, octal, binary, underscores) is not preserved.
type Int struct {
	Pos   Position
	Value decimal.Decimal
}

// Float is a floating point literal.
type Float struct {
	Pos   Position
	Value float64
}

// Str is a string literal. Value holds the decoded content without quotes.
type Str struct {
	Pos   Position
	Value string
}

// Bytes is a bytes literal (b"..."). Value holds the decoded content.
type Bytes struct {
	Pos   Position
	Value string
}

// FString is a formatted string literal (f"..."). Parts alternates between
// *Str literal segments and *FormattedValue interpolations, in source order.
type FString struct {
	Pos   Position
	Parts []Expr
}

// FormattedValue is a single {expr} interpolation inside an FString.
// Conversion holds a "!r"-style conversion and FormatSpec the raw text
// after ":", both empty when absent; they are re-emitted verbatim.
type FormattedValue struct {
	Pos        Position
	Value      Expr
	Conversion string
	FormatSpec string
}

// NameConstant is one of the singleton constants True, False, or None.
type NameConstant struct {
	Pos   Position
	Value string
}

// List is a list display: [a, b, c].
type List struct {
	Pos  Position
	Elts []Expr
}

// Tuple is a tuple display. A one-element tuple renders with a trailing
// comma to stay distinguishable from a parenthesized expression.
type Tuple struct {
	Pos  Position
	Elts []Expr
}

// Dict is a dict display. Keys and Values are parallel slices.
type Dict struct {
	Pos    Position
	Keys   []Expr
	Values []Expr
}

// Set is a set display: {a, b, c}.
type Set struct {
	Pos  Position
	Elts []Expr
}

// Attribute is an attribute access: value.attr.
type Attribute struct {
	Pos   Position
	Value Expr
	Attr  string
}

// Subscript is a subscription: value[index].
type Subscript struct {
	Pos   Position
	Value Expr
	Index Expr
}

// Slice is a slice expression within a subscription: lower:upper[:step].
// Any of the three parts may be nil.
type Slice struct {
	Pos   Position
	Lower Expr
	Upper Expr
	Step  Expr
}

// Call is a function call. Args holds positional arguments (including
// *unpacking as Starred); Keywords holds name=value and **unpacking entries.
type Call struct {
	Pos      Position
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

// BinOp is a binary operation. Op is the surface operator ("+", "//", ...).
type BinOp struct {
	Pos   Position
	Left  Expr
	Op    string
	Right Expr
}

// UnaryOp is a unary operation. Op is "-", "+", "~", or "not".
type UnaryOp struct {
	Pos     Position
	Op      string
	Operand Expr
}

// BoolOp is an and/or chain with two or more operands.
type BoolOp struct {
	Pos    Position
	Op     string
	Values []Expr
}

// Compare is a comparison chain: Left Op[0] Comparators[0] Op[1] ... .
type Compare struct {
	Pos         Position
	Left        Expr
	Ops         []string
	Comparators []Expr
}

// Lambda is a lambda expression.
type Lambda struct {
	Pos    Position
	Params *Params
	Body   Expr
}

// IfExp is a conditional expression: body if cond else orelse.
type IfExp struct {
	Pos    Position
	Cond   Expr
	Body   Expr
	OrElse Expr
}

// Starred is a *expr in a call, assignment target, or display.
type Starred struct {
	Pos   Position
	Value Expr
}

// Comprehension is one "for target in iter [if cond]*" clause of a
// comprehension expression.
type Comprehension struct {
	Target Expr
	Iter   Expr
	Ifs    []Expr
}

// ListComp is a list comprehension.
type ListComp struct {
	Pos        Position
	Elt        Expr
	Generators []*Comprehension
}

// SetComp is a set comprehension.
type SetComp struct {
	Pos        Position
	Elt        Expr
	Generators []*Comprehension
}

// DictComp is a dict comprehension.
type DictComp struct {
	Pos        Position
	Key        Expr
	Value      Expr
	Generators []*Comprehension
}

// GeneratorExp is a generator expression.
type GeneratorExp struct {
	Pos        Position
	Elt        Expr
	Generators []*Comprehension
}

func (e *Name) Position() Position           { return e.Pos }
func (e *Int) Position() Position            { return e.Pos }
func (e *Float) Position() Position          { return e.Pos }
func (e *Str) Position() Position            { return e.Pos }
func (e *Bytes) Position() Position          { return e.Pos }
func (e *FString) Position() Position        { return e.Pos }
func (e *FormattedValue) Position() Position { return e.Pos }
func (e *NameConstant) Position() Position   { return e.Pos }
func (e *List) Position() Position           { return e.Pos }
func (e *Tuple) Position() Position          { return e.Pos }
func (e *Dict) Position() Position           { return e.Pos }
func (e *Set) Position() Position            { return e.Pos }
func (e *Attribute) Position() Position      { return e.Pos }
func (e *Subscript) Position() Position      { return e.Pos }
func (e *Slice) Position() Position          { return e.Pos }
func (e *Call) Position() Position           { return e.Pos }
func (e *BinOp) Position() Position          { return e.Pos }
func (e *UnaryOp) Position() Position        { return e.Pos }
func (e *BoolOp) Position() Position         { return e.Pos }
func (e *Compare) Position() Position        { return e.Pos }
func (e *Lambda) Position() Position         { return e.Pos }
func (e *IfExp) Position() Position          { return e.Pos }
func (e *Starred) Position() Position        { return e.Pos }
func (e *ListComp) Position() Position       { return e.Pos }
func (e *SetComp) Position() Position        { return e.Pos }
func (e *DictComp) Position() Position       { return e.Pos }
func (e *GeneratorExp) Position() Position   { return e.Pos }

func (*Name) exprNode()           {}
func (*Int) exprNode()            {}
func (*Float) exprNode()          {}
func (*Str) exprNode()            {}
func (*Bytes) exprNode()          {}
func (*FString) exprNode()        {}
func (*FormattedValue) exprNode() {}
func (*NameConstant) exprNode()   {}
func (*List) exprNode()           {}
func (*Tuple) exprNode()          {}
func (*Dict) exprNode()           {}
func (*Set) exprNode()            {}
func (*Attribute) exprNode()      {}
func (*Subscript) exprNode()      {}
func (*Slice) exprNode()          {}
func (*Call) exprNode()           {}
func (*BinOp) exprNode()          {}
func (*UnaryOp) exprNode()        {}
func (*BoolOp) exprNode()         {}
func (*Compare) exprNode()        {}
func (*Lambda) exprNode()         {}
func (*IfExp) exprNode()          {}
func (*Starred) exprNode()        {}
func (*ListComp) exprNode()       {}
func (*SetComp) exprNode()        {}
func (*DictComp) exprNode()       {}
func (*GeneratorExp) exprNode()   {}
