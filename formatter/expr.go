package formatter

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/pyfmt/ast"
)

// Operator precedence levels, lowest binding first. An expression is
// parenthesized when its own level is below the minimum its context
// requires, which keeps the rendered text parsing back to the same tree.
const (
	precTest    = 0  // lambda, conditional expression
	precOr      = 1  // or
	precAnd     = 2  // and
	precNot     = 3  // not x
	precCompare = 4  // comparisons, in, is
	precBitOr   = 5  // |
	precBitXor  = 6  // ^
	precBitAnd  = 7  // &
	precShift   = 8  // << >>
	precArith   = 9  // + -
	precTerm    = 10 // * / // % @
	precUnary   = 11 // +x -x ~x
	precPower   = 12 // **
	precPostfix = 14 // call, subscript, attribute
	precAtom    = 16
)

var binOpPrec = map[string]int{
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"<<": precShift,
	">>": precShift,
	"+":  precArith,
	"-":  precArith,
	"*":  precTerm,
	"/":  precTerm,
	"//": precTerm,
	"%":  precTerm,
	"@":  precTerm,
	"**": precPower,
}

// formatExpr renders an expression, parenthesizing it when its precedence
// is below minPrec.
func (f *Formatter) formatExpr(e ast.Expr, minPrec int) string {
	text, prec := f.renderExpr(e)
	if prec < minPrec {
		return "(" + text + ")"
	}
	return text
}

// renderExpr renders an expression and reports its precedence level.
func (f *Formatter) renderExpr(e ast.Expr) (string, int) {
	switch x := e.(type) {
	case *ast.Name:
		return x.ID, precAtom

	case *ast.NameConstant:
		return x.Value, precAtom

	case *ast.Int:
		return x.Value.String(), precAtom

	case *ast.Float:
		return formatFloat(x.Value), precAtom

	case *ast.Str:
		return quoteString(x.Value), precAtom

	case *ast.Bytes:
		return "b" + quoteBytes(x.Value), precAtom

	case *ast.FString:
		return f.formatFString(x), precAtom

	case *ast.Tuple:
		return f.formatTuple(x), precAtom

	case *ast.List:
		return "[" + f.formatElts(x.Elts) + "]", precAtom

	case *ast.Set:
		return "{" + f.formatElts(x.Elts) + "}", precAtom

	case *ast.Dict:
		return f.formatDict(x), precAtom

	case *ast.ListComp:
		return "[" + f.formatExpr(x.Elt, precTest) + f.formatGenerators(x.Generators) + "]", precAtom

	case *ast.SetComp:
		return "{" + f.formatExpr(x.Elt, precTest) + f.formatGenerators(x.Generators) + "}", precAtom

	case *ast.DictComp:
		entry := f.formatExpr(x.Key, precTest) + ": " + f.formatExpr(x.Value, precTest)
		return "{" + entry + f.formatGenerators(x.Generators) + "}", precAtom

	case *ast.GeneratorExp:
		return "(" + f.formatExpr(x.Elt, precTest) + f.formatGenerators(x.Generators) + ")", precAtom

	case *ast.Attribute:
		return f.formatPostfixValue(x.Value) + "." + x.Attr, precPostfix

	case *ast.Subscript:
		return f.formatPostfixValue(x.Value) + "[" + f.formatIndex(x.Index) + "]", precPostfix

	case *ast.Call:
		return f.formatCall(x), precPostfix

	case *ast.BinOp:
		return f.formatBinOp(x)

	case *ast.UnaryOp:
		return f.formatUnaryOp(x)

	case *ast.BoolOp:
		prec := precOr
		if x.Op == "and" {
			prec = precAnd
		}
		parts := make([]string, len(x.Values))
		for i, value := range x.Values {
			parts[i] = f.formatExpr(value, prec+1)
		}
		return strings.Join(parts, " "+x.Op+" "), prec

	case *ast.Compare:
		var b strings.Builder
		b.WriteString(f.formatExpr(x.Left, precBitOr))
		for i, op := range x.Ops {
			b.WriteString(" " + op + " ")
			b.WriteString(f.formatExpr(x.Comparators[i], precBitOr))
		}
		return b.String(), precCompare

	case *ast.IfExp:
		text := f.formatExpr(x.Body, precOr) + " if " + f.formatExpr(x.Cond, precOr) +
			" else " + f.formatExpr(x.OrElse, precTest)
		return text, precTest

	case *ast.Lambda:
		header := "lambda"
		if x.Params.HasParams() {
			header += " " + f.formatParams(x.Params)
		}
		return header + ": " + f.formatExpr(x.Body, precTest), precTest

	case *ast.Starred:
		return "*" + f.formatExpr(x.Value, precOr), precTest

	case *ast.Slice:
		return f.formatSlice(x), precTest

	default:
		return fmt.Sprintf("<unsupported %T>", e), precAtom
	}
}

// formatPostfixValue renders the operand of a trailer. Numeric literals
// are parenthesized so a trailing dot is not read as a decimal point.
func (f *Formatter) formatPostfixValue(e ast.Expr) string {
	switch e.(type) {
	case *ast.Int, *ast.Float:
		return "(" + f.formatExpr(e, precTest) + ")"
	}
	return f.formatExpr(e, precPostfix)
}

func (f *Formatter) formatBinOp(x *ast.BinOp) (string, int) {
	prec := binOpPrec[x.Op]

	if x.Op == "**" {
		// Exponentiation is right-associative. Its left operand must be
		// a trailer chain while the right side admits a leading unary.
		left := f.formatExpr(x.Left, precPostfix)
		right := f.formatExpr(x.Right, precUnary)
		return left + " ** " + right, prec
	}

	left := f.formatExpr(x.Left, prec)
	right := f.formatExpr(x.Right, prec+1)
	return left + " " + x.Op + " " + right, prec
}

func (f *Formatter) formatUnaryOp(x *ast.UnaryOp) (string, int) {
	if x.Op == "not" {
		return "not " + f.formatExpr(x.Operand, precNot), precNot
	}
	return x.Op + f.formatExpr(x.Operand, precUnary), precUnary
}

// formatTuple renders a tuple, always parenthesized. A one-element tuple
// keeps its trailing comma so it cannot be misread as a grouped
// expression.
func (f *Formatter) formatTuple(x *ast.Tuple) string {
	if len(x.Elts) == 0 {
		return "()"
	}
	if len(x.Elts) == 1 {
		return "(" + f.formatExpr(x.Elts[0], precTest) + ",)"
	}
	return "(" + f.formatElts(x.Elts) + ")"
}

func (f *Formatter) formatElts(elts []ast.Expr) string {
	parts := make([]string, len(elts))
	for i, e := range elts {
		parts[i] = f.formatExpr(e, precTest)
	}
	return strings.Join(parts, ", ")
}

// formatDict renders a dict display. A nil key marks a "**" unpacking
// entry whose expression is carried in a Starred value.
func (f *Formatter) formatDict(x *ast.Dict) string {
	if len(x.Keys) == 0 {
		return "{}"
	}

	parts := make([]string, len(x.Keys))
	for i, key := range x.Keys {
		if key == nil {
			value := x.Values[i]
			if starred, ok := value.(*ast.Starred); ok {
				value = starred.Value
			}
			parts[i] = "**" + f.formatExpr(value, precOr)
			continue
		}
		parts[i] = f.formatExpr(key, precTest) + ": " + f.formatExpr(x.Values[i], precTest)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (f *Formatter) formatGenerators(generators []*ast.Comprehension) string {
	var b strings.Builder
	for _, gen := range generators {
		b.WriteString(" for ")
		b.WriteString(f.formatCompTarget(gen.Target))
		b.WriteString(" in ")
		b.WriteString(f.formatExpr(gen.Iter, precOr))
		for _, cond := range gen.Ifs {
			b.WriteString(" if ")
			b.WriteString(f.formatExpr(cond, precOr))
		}
	}
	return b.String()
}

// formatCompTarget renders a comprehension loop target, leaving tuple
// targets unparenthesized as in "for k, v in items".
func (f *Formatter) formatCompTarget(target ast.Expr) string {
	if tuple, ok := target.(*ast.Tuple); ok && len(tuple.Elts) > 0 {
		return f.formatElts(tuple.Elts)
	}
	return f.formatExpr(target, precOr)
}

func (f *Formatter) formatCall(x *ast.Call) string {
	fn := f.formatPostfixValue(x.Func)

	// A generator expression that is the sole argument sheds its own
	// parentheses.
	if len(x.Args) == 1 && len(x.Keywords) == 0 {
		if gen, ok := x.Args[0].(*ast.GeneratorExp); ok {
			return fn + "(" + f.formatExpr(gen.Elt, precTest) + f.formatGenerators(gen.Generators) + ")"
		}
	}

	parts := make([]string, 0, len(x.Args)+len(x.Keywords))
	for _, arg := range x.Args {
		parts = append(parts, f.formatExpr(arg, precTest))
	}
	for _, kw := range x.Keywords {
		parts = append(parts, f.formatKeyword(kw))
	}
	return fn + "(" + strings.Join(parts, ", ") + ")"
}

func (f *Formatter) formatKeyword(kw *ast.Keyword) string {
	if kw.Name == "" {
		return "**" + f.formatExpr(kw.Value, precOr)
	}
	return kw.Name + "=" + f.formatExpr(kw.Value, precTest)
}

// formatIndex renders the inside of a subscript. Tuples of slices keep
// their elements bare, as in "m[1:2, 3]".
func (f *Formatter) formatIndex(index ast.Expr) string {
	if tuple, ok := index.(*ast.Tuple); ok && len(tuple.Elts) > 1 {
		parts := make([]string, len(tuple.Elts))
		for i, e := range tuple.Elts {
			parts[i] = f.formatExpr(e, precTest)
		}
		return strings.Join(parts, ", ")
	}
	return f.formatExpr(index, precTest)
}

func (f *Formatter) formatSlice(x *ast.Slice) string {
	var b strings.Builder
	if x.Lower != nil {
		b.WriteString(f.formatExpr(x.Lower, precTest))
	}
	b.WriteByte(':')
	if x.Upper != nil {
		b.WriteString(f.formatExpr(x.Upper, precTest))
	}
	if x.Step != nil {
		b.WriteByte(':')
		b.WriteString(f.formatExpr(x.Step, precTest))
	}
	return b.String()
}

func (f *Formatter) formatFString(x *ast.FString) string {
	var b strings.Builder
	b.WriteString(`f"`)
	for _, part := range x.Parts {
		switch p := part.(type) {
		case *ast.Str:
			b.WriteString(escapeFStringText(p.Value))
		case *ast.FormattedValue:
			b.WriteByte('{')
			b.WriteString(f.formatExpr(p.Value, precTest))
			if p.Conversion != "" {
				b.WriteByte('!')
				b.WriteString(p.Conversion)
			}
			if p.FormatSpec != "" {
				b.WriteByte(':')
				b.WriteString(p.FormatSpec)
			}
			b.WriteByte('}')
		}
	}
	b.WriteByte('"')
	return b.String()
}
