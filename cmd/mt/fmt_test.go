package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatScript(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{name: "trailing whitespace", src: "1 @ + 1  \t\n", want: "1 @ + 1\n"},
		{name: "missing final newline", src: "print 1", want: "print 1\n"},
		{name: "collapses blank runs", src: "1\n\n\n   \n2\n\n\n", want: "1\n\n2\n"},
		{name: "drops leading blank lines", src: "\n\n1\n", want: "1\n"},
		{name: "crlf", src: "1\r\n\r\n2\r\n", want: "1\n\n2\n"},
		{name: "keeps multi-line literal", src: "print <<a  \n\n\n  b>>  \n", want: "print <<a  \n\n\n  b>>\n"},
		{name: "empty", src: "\n\n", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatScript(tc.src))
		})
	}
}

func TestFmtCheckDetectsUnformattedFiles(t *testing.T) {
	path := writeScript(t, "1  \n\n\n2")
	out, err := executeCLI(t, "fmt", "--check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need formatting")
	assert.Contains(t, out, path)
}

func TestFmtWriteFormatsFileInPlace(t *testing.T) {
	path := writeScript(t, "1  \n\n\n2")
	_, err := executeCLI(t, "fmt", "-w", path)
	require.NoError(t, err)

	updated, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1\n\n2\n", string(updated))
}

func TestFmtPrintsFormattedOutput(t *testing.T) {
	path := writeScript(t, "print 1\t\n")
	out, err := executeCLI(t, "fmt", path)
	require.NoError(t, err)
	assert.Equal(t, "print 1\n", out)
}

func TestFmtFormatsDirectories(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.mt")
	second := filepath.Join(root, "nested", "b.mt")
	other := filepath.Join(root, "notes.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(second), 0o755))
	require.NoError(t, os.WriteFile(first, []byte("1  \n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("2\n\n\n\n3"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("left  alone  "), 0o644))

	_, err := executeCLI(t, "fmt", "-w", root)
	require.NoError(t, err)
	_, err = executeCLI(t, "fmt", "--check", root)
	require.NoError(t, err)

	untouched, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, "left  alone  ", string(untouched))
}
