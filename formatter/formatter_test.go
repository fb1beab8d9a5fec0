package formatter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/pyfmt/ast"
	"github.com/robinvdvleuten/pyfmt/parser"
	"github.com/robinvdvleuten/pyfmt/telemetry"
	"github.com/robinvdvleuten/pyfmt/trivia"
)

func reformat(t *testing.T, source string) string {
	t.Helper()

	f := &Formatter{}
	out, err := f.Reformat(context.Background(), []byte(source))
	assert.NoError(t, err)
	return string(out)
}

func TestCanonicalExamples(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single quotes", "'single quotes'\n", "\"single quotes\"\n"},
		{"float exponent", "42E+84\n", "4.2e+85\n"},
		{"one element tuple", "(  1, )\n", "(1,)\n"},
		{"grouping dropped", "(1)\n", "1\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, reformat(t, test.in))
		})
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"assignment spacing", "x=1\n", "x = 1\n"},
		{"chained assignment", "a=b=  1\n", "a = b = 1\n"},
		{"augmented assignment", "x   +=1\n", "x += 1\n"},
		{"semicolons split", "x = 1; y = 2\n", "x = 1\ny = 2\n"},
		{"return bare", "def f():\n  return\n", "def f():\n    return\n"},
		{"del targets", "del x,y\n", "del x, y\n"},
		{"global", "global  a ,b\n", "global a, b\n"},
		{"raise from", "raise E( 1 )  from  cause\n", "raise E(1) from cause\n"},
		{"assert with message", "assert x,'no'\n", "assert x, \"no\"\n"},
		{"import as", "import  os , sys  as  system\n", "import os, sys as system\n"},
		{"relative import", "from ..pkg import a as b\n", "from ..pkg import a as b\n"},
		{"from dot", "from . import c\n", "from . import c\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, reformat(t, test.in))
		})
	}
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"precedence kept", "(a + b) * c\n", "(a + b) * c\n"},
		{"redundant parens dropped", "(a + (b * c))\n", "a + b * c\n"},
		{"power right associative", "2 ** 3 ** 4\n", "2 ** 3 ** 4\n"},
		{"power left grouped", "(2 ** 3) ** 4\n", "(2 ** 3) ** 4\n"},
		{"power of sum", "(a + b) ** 2\n", "(a + b) ** 2\n"},
		{"unary in power", "2 ** -3\n", "2 ** -3\n"},
		{"not over and", "not (a and b)\n", "not (a and b)\n"},
		{"comparison chain", "a < b <= c\n", "a < b <= c\n"},
		{"is not", "a is not None\n", "a is not None\n"},
		{"number attribute", "(2).bit_length()\n", "(2).bit_length()\n"},
		{"conditional expression", "a if cond else b\n", "a if cond else b\n"},
		{"lambda", "lambda a, b=1: a + b\n", "lambda a, b=1: a + b\n"},
		{"bare tuple parenthesized", "x = 1, 2\n", "x = (1, 2)\n"},
		{"empty tuple", "()\n", "()\n"},
		{"list spacing", "[1,2 ,3]\n", "[1, 2, 3]\n"},
		{"dict spacing", "{ 1 :2,'a': 3}\n", "{1: 2, \"a\": 3}\n"},
		{"dict unpacking", "{**base, 1: 2}\n", "{**base, 1: 2}\n"},
		{"set", "{1, 2}\n", "{1, 2}\n"},
		{"empty dict", "{}\n", "{}\n"},
		{"list comprehension", "[ x*2 for x in xs if x ]\n", "[x * 2 for x in xs if x]\n"},
		{"dict comprehension", "{k:v for k,v in items}\n", "{k: v for k, v in items}\n"},
		{"sole generator argument", "sum((x for x in xs))\n", "sum(x for x in xs)\n"},
		{"call argument order", "f( 1 ,x , key=2, *rest, **extra )\n", "f(1, x, *rest, key=2, **extra)\n"},
		{"slice", "xs[ 1 : 2 : 3 ]\n", "xs[1:2:3]\n"},
		{"open slice", "xs[:]\n", "xs[:]\n"},
		{"matrix index", "m[1:2, 3]\n", "m[1:2, 3]\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, reformat(t, test.in))
		})
	}
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hex", "0x1F\n", "31\n"},
		{"octal", "0o17\n", "15\n"},
		{"binary", "0b101\n", "5\n"},
		{"underscores", "1_000_000\n", "1000000\n"},
		{"big integer", "123456789012345678901234567890\n", "123456789012345678901234567890\n"},
		{"leading dot", ".5\n", "0.5\n"},
		{"trailing dot", "10.\n", "10.0\n"},
		{"plain exponent", "1e3\n", "1000.0\n"},
		{"large exponent", "1E300\n", "1e+300\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, reformat(t, test.in))
		})
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"escapes kept", "'a\\nb'\n", "\"a\\nb\"\n"},
		{"hex escape decoded", "'\\x41'\n", "\"A\"\n"},
		{"quote swap escapes", "'say \"hi\"'\n", "\"say \\\"hi\\\"\"\n"},
		{"adjacent concat", "'a' 'b'\n", "\"ab\"\n"},
		{"bytes", "b'\\x00a'\n", "b\"\\x00a\"\n"},
		{"fstring", "f'{n:>8} of {total}'\n", "f\"{n:>8} of {total}\"\n"},
		{"fstring braces", "f'{{literal}}'\n", "f\"{{literal}}\"\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, reformat(t, test.in))
		})
	}
}

func TestBranchComments(t *testing.T) {
	source := `# c1
if a:  # c2
    x = 1  # c3
    # c4
else:  # c6
    y = 2  # c7
# c8
`
	assert.Equal(t, source, reformat(t, source))
}

func TestElifChain(t *testing.T) {
	source := `if a:
    x = 1
elif b:  # second
    x = 2
elif c:
    x = 3
else:
    x = 4
`
	assert.Equal(t, source, reformat(t, source))
}

func TestNestedIfCollapsesToElif(t *testing.T) {
	source := `if a:
    x = 1
else:
    if b:
        x = 2
`
	want := `if a:
    x = 1
elif b:
    x = 2
`
	assert.Equal(t, want, reformat(t, source))
}

func TestParameterOrder(t *testing.T) {
	source := "def f(a, b=1, *args, key, opt=2, **kw):\n    pass\n"
	assert.Equal(t, source, reformat(t, source))
}

func TestKeywordOnlyMarker(t *testing.T) {
	source := "def f(a, *, key):\n    pass\n"
	assert.Equal(t, source, reformat(t, source))
}

func TestCompoundStatements(t *testing.T) {
	source := `while a:  # head
    x = 1
else:  # done
    y = 2
for k, v in items:
    print(k)
try:
    risky()
except ValueError as err:
    handle(err)
except:
    pass
else:
    ok()
finally:
    cleanup()
class C(Base, meta=M):
    attr = 1
`
	assert.Equal(t, source, reformat(t, source))
}

func TestCommentNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"missing space added", "#comment\n", "# comment\n"},
		{"extra space trimmed", "#   wide\n", "# wide\n"},
		{"empty comment", "#\n", "#\n"},
		{"trailing normalized", "x = 1    #note\n", "x = 1  # note\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, reformat(t, test.in))
		})
	}
}

var corpus = []string{
	"x = 1  # note\n",
	"'single quotes'\n",
	"42E+84\n",
	"(  1, )\n",
	"(1)\n",
	"if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n",
	"def f(a, b=1, *args, **kw):\n    return a + b\n",
	"class C:\n    # about x\n    x = [i for i in range(10)]\n",
	"try:\n    pass\nexcept E as e:  # why\n    raise\nfinally:\n    pass\n",
	"while x:\n    x -= 1\nelse:\n    done()\n",
	"d = {**a, 'k': f'{v!r:>4}'}\n",
}

func TestIdempotence(t *testing.T) {
	for _, source := range corpus {
		once := reformat(t, source)
		assert.Equal(t, once, reformat(t, once))
	}
}

// Reformatting never loses a comment: every comment collected from the
// input appears verbatim in the output after normalization.
func TestCommentConservation(t *testing.T) {
	source := `# m1
import os  # m2

def f(a):  # m3
    # m4
    if a:  # m5
        return 1  # m6
    # m7
    return 0  # m8
# m9
`
	out := reformat(t, source)
	for _, text := range []string{"# m1", "# m2", "# m3", "# m4", "# m5", "# m6", "# m7", "# m8", "# m9"} {
		assert.Equal(t, 1, strings.Count(out, text))
	}
}

// Reformatting never changes what the code means: the comment-free
// rendering of the output tree matches that of the input tree.
func TestSemanticRoundTrip(t *testing.T) {
	f := &Formatter{}
	for _, source := range corpus {
		before, err := parser.ParseString(context.Background(), source)
		assert.NoError(t, err)

		out := reformat(t, source)
		after, err := parser.ParseString(context.Background(), out)
		assert.NoError(t, err)

		assert.Equal(t, f.FormatString(before.Module), f.FormatString(after.Module))
	}
}

func TestCustomIndent(t *testing.T) {
	f := &Formatter{Indent: "\t"}
	res, err := parser.ParseString(context.Background(), "if a:\n    pass\n")
	assert.NoError(t, err)

	merged := trivia.Merge(res.Module, res.Comments, res.Lines)
	assert.Equal(t, "if a:\n\tpass\n", f.FormatString(merged))
}

func TestReformatRecordsPhases(t *testing.T) {
	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)

	run := collector.Start("reformat")
	f := &Formatter{}
	_, err := f.Reformat(ctx, []byte("x = 1\n"))
	assert.NoError(t, err)
	run.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	out := buf.String()
	for _, phase := range []string{"parse", "merge", "print"} {
		assert.True(t, strings.Contains(out, phase))
	}
}

func TestEmptyInput(t *testing.T) {
	assert.Equal(t, "", reformat(t, ""))
	assert.Equal(t, "# only\n", reformat(t, "# only\n"))
}

// Nodes the renderer does not know are printed as a placeholder naming
// the type, so a golden diff identifies the gap.
func TestUnsupportedPlaceholderNamesVariant(t *testing.T) {
	f := &Formatter{}
	assert.Equal(t, "<unsupported *ast.CommentStmt>", f.formatSimple(&ast.CommentStmt{}))

	text, _ := f.renderExpr(&ast.FormattedValue{})
	assert.Equal(t, "<unsupported *ast.FormattedValue>", text)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{0.5, "0.5"},
		{1000, "1000.0"},
		{4.2e+85, "4.2e+85"},
		{1e-7, "1e-07"},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, formatFloat(test.in))
	}
}

func TestQuoteString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{"a\nb", `"a\nb"`},
		{`back\slash`, `"back\\slash"`},
		{"quote\"mark", `"quote\"mark"`},
		{"\x01", `"\x01"`},
		{"héllo", `"héllo"`},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, quoteString(test.in))
	}
}
