package trivia

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/pyfmt/ast"
	"github.com/robinvdvleuten/pyfmt/parser"
)

func merge(t *testing.T, source string) *ast.Module {
	t.Helper()

	res, err := parser.ParseString(context.Background(), source)
	assert.NoError(t, err)
	return Merge(res.Module, res.Comments, res.Lines)
}

// collectComments walks a merged tree and returns every comment text in
// traversal order.
func collectComments(body []ast.Stmt) []string {
	var out []string
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.CommentStmt:
			out = append(out, s.Comment.Text)
			continue
		case *ast.Commented:
			out = append(out, s.Trailing.Text)
			stmt = s.Stmt
		case *ast.BranchComments:
			if s.Head != nil {
				out = append(out, s.Head.Text)
			}
			if s.Else != nil {
				out = append(out, s.Else.Text)
			}
			stmt = s.Stmt
		}

		switch s := stmt.(type) {
		case *ast.If:
			out = append(out, collectComments(s.Body)...)
			out = append(out, collectComments(s.Else)...)
		case *ast.While:
			out = append(out, collectComments(s.Body)...)
			out = append(out, collectComments(s.Else)...)
		case *ast.For:
			out = append(out, collectComments(s.Body)...)
			out = append(out, collectComments(s.Else)...)
		case *ast.Try:
			out = append(out, collectComments(s.Body)...)
			for _, h := range s.Handlers {
				out = append(out, collectComments(h.Body)...)
			}
			out = append(out, collectComments(s.Else)...)
			out = append(out, collectComments(s.Finally)...)
		case *ast.FunctionDef:
			out = append(out, collectComments(s.Body)...)
		case *ast.ClassDef:
			out = append(out, collectComments(s.Body)...)
		}
	}
	return out
}

func TestMergeNilModuleWithComments(t *testing.T) {
	module := merge(t, "# one\n# two\n")
	assert.NotZero(t, module)
	assert.Equal(t, 2, len(module.Body))

	first, ok := module.Body[0].(*ast.CommentStmt)
	assert.True(t, ok)
	assert.Equal(t, "# one", first.Comment.Text)
}

func TestMergeNilModuleWithoutComments(t *testing.T) {
	res, err := parser.ParseString(context.Background(), "")
	assert.NoError(t, err)
	assert.Zero(t, Merge(res.Module, res.Comments, res.Lines))
}

func TestMergeStandaloneBeforeStatement(t *testing.T) {
	module := merge(t, "# leading\nx = 1\n")
	assert.Equal(t, 2, len(module.Body))

	_, ok := module.Body[0].(*ast.CommentStmt)
	assert.True(t, ok)
	_, ok = module.Body[1].(*ast.Assign)
	assert.True(t, ok)
}

func TestMergeTrailingOnSimpleStatement(t *testing.T) {
	module := merge(t, "x = 1  # note\n")
	commented, ok := module.Body[0].(*ast.Commented)
	assert.True(t, ok)
	assert.Equal(t, "# note", commented.Trailing.Text)

	_, ok = commented.Stmt.(*ast.Assign)
	assert.True(t, ok)
}

func TestMergeCommentAfterLastStatement(t *testing.T) {
	module := merge(t, "x = 1\n# closing\n")
	assert.Equal(t, 2, len(module.Body))
	_, ok := module.Body[1].(*ast.CommentStmt)
	assert.True(t, ok)
}

func TestMergeBranchComments(t *testing.T) {
	source := `# c1
if a:  # c2
    x = 1  # c3
    # c4
else:  # c6
    y = 2  # c7
# c8
`
	module := merge(t, source)
	assert.Equal(t, 3, len(module.Body))

	// c1 stands alone before the if.
	c1, ok := module.Body[0].(*ast.CommentStmt)
	assert.True(t, ok)
	assert.Equal(t, "# c1", c1.Comment.Text)

	// c2 and c6 hang off the branch headers.
	branch, ok := module.Body[1].(*ast.BranchComments)
	assert.True(t, ok)
	assert.Equal(t, "# c2", branch.Head.Text)
	assert.Equal(t, "# c6", branch.Else.Text)

	stmt := branch.Stmt.(*ast.If)

	// c3 trails the first body statement, c4 ends the body.
	assert.Equal(t, 2, len(stmt.Body))
	c3, ok := stmt.Body[0].(*ast.Commented)
	assert.True(t, ok)
	assert.Equal(t, "# c3", c3.Trailing.Text)
	c4, ok := stmt.Body[1].(*ast.CommentStmt)
	assert.True(t, ok)
	assert.Equal(t, "# c4", c4.Comment.Text)

	// c7 trails the else body statement.
	assert.Equal(t, 1, len(stmt.Else))
	c7, ok := stmt.Else[0].(*ast.Commented)
	assert.True(t, ok)
	assert.Equal(t, "# c7", c7.Trailing.Text)

	// c8 follows the whole statement at top level.
	c8, ok := module.Body[2].(*ast.CommentStmt)
	assert.True(t, ok)
	assert.Equal(t, "# c8", c8.Comment.Text)
}

func TestMergeElifHeaderComment(t *testing.T) {
	source := `if a:
    x = 1
elif b:  # on elif
    y = 2
`
	module := merge(t, source)
	stmt := module.Body[0].(*ast.If)

	// The comment belongs to the elif header, not the if body.
	assert.Equal(t, 1, len(stmt.Body))

	branch, ok := stmt.Else[0].(*ast.BranchComments)
	assert.True(t, ok)
	assert.Equal(t, "# on elif", branch.Head.Text)
}

func TestMergeElseHeaderVersusBodyEnd(t *testing.T) {
	source := `if a:
    x = 1
    # body end
else:  # on else
    y = 2
`
	module := merge(t, source)
	branch := module.Body[0].(*ast.BranchComments)
	assert.Zero(t, branch.Head)
	assert.Equal(t, "# on else", branch.Else.Text)

	stmt := branch.Stmt.(*ast.If)
	last, ok := stmt.Body[1].(*ast.CommentStmt)
	assert.True(t, ok)
	assert.Equal(t, "# body end", last.Comment.Text)
}

func TestMergeDedentedCommentLeavesBlock(t *testing.T) {
	source := `if a:
    x = 1
# dedented
y = 2
`
	module := merge(t, source)
	assert.Equal(t, 3, len(module.Body))

	stmt := module.Body[0].(*ast.If)
	assert.Equal(t, 1, len(stmt.Body))

	c, ok := module.Body[1].(*ast.CommentStmt)
	assert.True(t, ok)
	assert.Equal(t, "# dedented", c.Comment.Text)
}

func TestMergeIndentedTrailingStaysInBlock(t *testing.T) {
	source := `if a:
    x = 1
    # inside
y = 2
`
	module := merge(t, source)
	stmt := module.Body[0].(*ast.If)
	assert.Equal(t, 2, len(stmt.Body))

	c, ok := stmt.Body[1].(*ast.CommentStmt)
	assert.True(t, ok)
	assert.Equal(t, "# inside", c.Comment.Text)
}

func TestMergeLoopHeaders(t *testing.T) {
	source := `while a:  # head
    x = 1
else:  # done
    y = 2
`
	module := merge(t, source)
	branch, ok := module.Body[0].(*ast.BranchComments)
	assert.True(t, ok)
	assert.Equal(t, "# head", branch.Head.Text)
	assert.Equal(t, "# done", branch.Else.Text)
}

func TestMergeFunctionHeaderComment(t *testing.T) {
	source := `def f():  # docs later
    return 1
`
	module := merge(t, source)
	commented, ok := module.Body[0].(*ast.Commented)
	assert.True(t, ok)
	assert.Equal(t, "# docs later", commented.Trailing.Text)

	_, ok = commented.Stmt.(*ast.FunctionDef)
	assert.True(t, ok)
}

func TestMergeExceptHeaderComment(t *testing.T) {
	source := `try:
    risky()
except ValueError:  # narrow
    pass
finally:
    cleanup()
`
	module := merge(t, source)
	stmt := module.Body[0].(*ast.Try)

	c, ok := stmt.Handlers[0].Body[0].(*ast.CommentStmt)
	assert.True(t, ok)
	assert.Equal(t, "# narrow", c.Comment.Text)
}

func TestMergeConservesEveryComment(t *testing.T) {
	source := `# m1
import os  # m2

def f(a):  # m3
    # m4
    if a:  # m5
        return 1  # m6
    # m7
    return 0  # m8

# m9
class C:
    x = 1  # m10
# m11
`
	res, err := parser.ParseString(context.Background(), source)
	assert.NoError(t, err)

	merged := Merge(res.Module, res.Comments, res.Lines)
	texts := collectComments(merged.Body)
	assert.Equal(t, len(res.Comments), len(texts))
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	source := `if a:
    x = 1  # inner
`
	res, err := parser.ParseString(context.Background(), source)
	assert.NoError(t, err)

	before := res.Module.Body[0].(*ast.If)

	_ = Merge(res.Module, res.Comments, res.Lines)

	// The original body slice still holds the bare statement.
	_, ok := before.Body[0].(*ast.Assign)
	assert.True(t, ok)
}
