package pyfmt

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/pyfmt/ast"
)

func TestParse(t *testing.T) {
	module, err := Parse(context.Background(), []byte("x = 1  # note\n"))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(module.Body))

	commented, ok := module.Body[0].(*ast.Commented)
	assert.True(t, ok)
	assert.Equal(t, "# note", commented.Trailing.Text)
}

func TestReformat(t *testing.T) {
	out, err := Reformat(context.Background(), []byte("x=( 1, )  #tuple\n"))
	assert.NoError(t, err)
	assert.Equal(t, "x = (1,)  # tuple\n", string(out))
}

func TestReformatParseError(t *testing.T) {
	_, err := Reformat(context.Background(), []byte("def f(:\n"))
	assert.Error(t, err)
}
