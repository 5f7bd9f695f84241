// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"repl", "run", "doc"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("max-stack-height"))
}

func TestRunCommand_Expression(t *testing.T) {
	out, _, err := execute(t, "run", "-e", "-p", "+ 1 2", "(list 1 2)")
	require.NoError(t, err)
	assert.Equal(t, "3\n{1 2}\n", out)
}

func TestRunCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.lspt")
	err := os.WriteFile(path, []byte("(def {x} 2)\n(def {sq} (\\ {n} {* n n}))\n(* (sq x) 10)\n"), 0600)
	require.NoError(t, err)

	out, _, err := execute(t, "run", "-p", path)
	require.NoError(t, err)
	assert.Equal(t, "()\n()\n40\n", out)
}

func TestRunCommand_Error(t *testing.T) {
	out, errOut, err := execute(t, "run", "-e", "-p", "+ 1 1", "head {}", "+ 2 2")
	require.Error(t, err)
	assert.ErrorIs(t, err, errEvaluation)
	assert.Equal(t, "2\n", out)
	assert.Equal(t, "error[empty-list-access]: Function 'head' passed {} for argument 0.\n  --> expr1\n", errOut)
}

func TestRunCommand_ParseError(t *testing.T) {
	_, errOut, err := execute(t, "run", "--color", "never", "-e", "(+ 1")
	require.Error(t, err)
	assert.ErrorIs(t, err, errSyntax)
	assert.Contains(t, errOut, "error: unmatched (\n  --> expr0:1:5\n")
	assert.Contains(t, errOut, " 1 |  (+ 1\n")
	assert.Contains(t, errOut, "= note: input ended inside an open expression")

	path := filepath.Join(t.TempDir(), "bad.lspt")
	require.NoError(t, os.WriteFile(path, []byte("(+ 1 2)\n  )\n"), 0600))
	_, errOut, err = execute(t, "run", "--color", "never", path)
	require.ErrorIs(t, err, errSyntax)
	assert.Contains(t, errOut, "--> "+path+":2:3\n")
	assert.Contains(t, errOut, " 2 |    )\n")
}

func TestRunCommand_Exit(t *testing.T) {
	out, _, err := execute(t, "run", "-e", "-p", "+ 1 1", "exit", "+ 2 2")
	require.NoError(t, err)
	assert.Equal(t, "2\n()\n", out)
}

func TestRunCommand_StackHeight(t *testing.T) {
	_, errOut, err := execute(t, "run", "--max-stack-height", "3", "-e", "(+ 1 (+ 1 (+ 1 1)))")
	require.Error(t, err)
	assert.Contains(t, errOut, "maximum evaluation depth exceeded")

	out, _, err := execute(t, "run", "--max-stack-height", "10", "-e", "-p", "(+ 1 (+ 1 (+ 1 1)))")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestRunCommand_TraceOpenTelemetry(t *testing.T) {
	out, errOut, err := execute(t, "run", "--trace", "otel", "-e", "-p", "+ 1 (* 2 3)")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
	assert.Contains(t, errOut, `"Name": "*"`)
	assert.Contains(t, errOut, `"Name": "+"`)
}

func TestRunCommand_TraceOpenCensus(t *testing.T) {
	out, errOut, err := execute(t, "run", "--trace", "opencensus", "--trace-lambdas", "-e", "-p", `(\ {x} {+ x 1}) 1`)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
	assert.Contains(t, errOut, "Name: lambda {x}")
	assert.NotContains(t, errOut, "Name: +")
}

func TestRunCommand_TraceUnknown(t *testing.T) {
	_, _, err := execute(t, "run", "--trace", "zipkin", "-e", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown trace exporter")
}

func TestDocCommand(t *testing.T) {
	out, _, err := execute(t, "doc")
	require.NoError(t, err)
	assert.Contains(t, out, "  head")
	assert.Contains(t, out, "  exit")

	out, _, err = execute(t, "doc", "cons")
	require.NoError(t, err)
	assert.Contains(t, out, "builtin (cons value qexpr)")

	_, _, err = execute(t, "doc", "no-such-symbol")
	assert.Error(t, err)
}

func TestDocCommand_SourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.lspt")
	err := os.WriteFile(path, []byte("(def {twice} (\\ {f x} {f (f x)}))"), 0600)
	require.NoError(t, err)

	out, _, err := execute(t, "doc", "-f", path, "twice")
	require.NoError(t, err)
	assert.Equal(t, "lambda (twice f x)\n", out)
}
