package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.mt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunPrintsProgramResults(t *testing.T) {
	path := writeScript(t, "1 @ + 1\n\nprint <<hi>>\n")

	out, err := executeCLI(t, "run", path)
	require.NoError(t, err)
	assert.Equal(t, "hi\n[0] 2\n[1] hi\n", out)
}

func TestRunConcatenatesFilesIntoPrograms(t *testing.T) {
	first := writeScript(t, "<<one>>")
	second := writeScript(t, "list 1 2 @ #-")

	out, err := executeCLI(t, "run", first, second)
	require.NoError(t, err)
	assert.Equal(t, "[0] one\n[1] 2\n", out)
}

func TestRunReportsFailedPrograms(t *testing.T) {
	path := writeScript(t, "frobnicate 1\n\n2")

	out, err := executeCLI(t, "run", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 program(s) failed")
	assert.Contains(t, out, "[0] error: ")
	assert.Contains(t, out, "[1] 2\n")
}

func TestRunHonorsLoopLimitFlag(t *testing.T) {
	path := writeScript(t, "0 @ ?= {< 10} {+ 1}")

	out, err := executeCLI(t, "run", path)
	require.NoError(t, err)
	assert.Equal(t, "[0] 10\n", out)

	out, err = executeCLI(t, "--loop-limit", "5", "run", path)
	require.Error(t, err)
	assert.Contains(t, out, "[0] error: ")
}

func TestRunRequiresScript(t *testing.T) {
	_, err := executeCLI(t, "run")
	require.Error(t, err)
}

func TestRunMissingFile(t *testing.T) {
	_, err := executeCLI(t, "run", filepath.Join(t.TempDir(), "missing.mt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read script")
}

func TestCheckCommand(t *testing.T) {
	good := writeScript(t, "print <<ok>>\n\n{+ 1}")
	out, err := executeCLI(t, "check", good)
	require.NoError(t, err)
	assert.Equal(t, "ok "+good+"\n", out)
	assert.NotContains(t, out, "[0]")

	bad := writeScript(t, "1\n\nf [a] x")
	_, err = executeCLI(t, "check", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
	assert.Contains(t, err.Error(), "program 1")
	assert.Contains(t, err.Error(), "must be followed by")
}

func TestFuncsCommand(t *testing.T) {
	out, err := executeCLI(t, "funcs")
	require.NoError(t, err)
	for _, want := range []string{"Function", "Shorthand", "add", "while", "?=", "fetch"} {
		assert.Contains(t, out, want)
	}

	out, err = executeCLI(t, "funcs", "pow")
	require.NoError(t, err)
	assert.Contains(t, out, "** ^")
	assert.Contains(t, out, "(1 functions)")

	out, err = executeCLI(t, "funcs", "nothing")
	require.NoError(t, err)
	assert.Equal(t, "(0 functions)\n", out)
}

func TestInvalidConfigFails(t *testing.T) {
	path := writeScript(t, "1")
	_, err := executeCLI(t, "--max-concurrency", "-1", "run", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrency")
}
