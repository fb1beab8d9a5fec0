package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckFileCanonical(t *testing.T) {
	path := writeTempFile(t, "ok.py", "x = (1,)\n")

	var buf bytes.Buffer
	cmd := &CheckCmd{}
	err := cmd.checkFile(context.Background(), &buf, &FileOrStdin{Filename: path})
	assert.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "is canonical"))
}

func TestCheckFileNotCanonical(t *testing.T) {
	path := writeTempFile(t, "messy.py", "x=( 1, )\n")

	var buf bytes.Buffer
	cmd := &CheckCmd{}
	err := cmd.checkFile(context.Background(), &buf, &FileOrStdin{Filename: path})
	assert.Error(t, err)
	assert.True(t, strings.Contains(buf.String(), "not canonical"))
}

func TestCheckFileParseError(t *testing.T) {
	path := writeTempFile(t, "broken.py", "def f(:\n")

	var buf bytes.Buffer
	cmd := &CheckCmd{}
	err := cmd.checkFile(context.Background(), &buf, &FileOrStdin{Filename: path})
	assert.Error(t, err)
	assert.True(t, strings.Contains(buf.String(), "parse error"))
}

func TestStdinArgs(t *testing.T) {
	assert.Equal(t, 0, len(stdinArgs([]string{"-"})))
	assert.Equal(t, []string{"a.py"}, stdinArgs([]string{"a.py"}))
	assert.Equal(t, []string{"a.py", "b.py"}, stdinArgs([]string{"a.py", "b.py"}))
}
