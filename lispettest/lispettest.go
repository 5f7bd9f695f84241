// Copyright © 2018 The ELPS authors

// Package lispettest runs tables of lispet expressions against isolated
// environments.
package lispettest

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"testing"

	"github.com/flyrain/lispet/lispet"
	"github.com/flyrain/lispet/parser"
)

// TestSequence is a sequence of lispet input lines which are evaluated
// sequentially by a lispet.LEnv, each the way the REPL evaluates a line.
type TestSequence []struct {
	Expr   string // a line of lispet input
	Result string // the printed result
	Output string // debug output written to Runtime.Stderr
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// NewEnv returns an initialized root environment that writes debugging output
// to stderr.  The exit builtin writes "exit <code>" to stderr instead of
// terminating the process.
func NewEnv(stderr io.Writer, config ...lispet.Config) (*lispet.LEnv, error) {
	env := lispet.NewEnv(nil)
	config = append([]lispet.Config{
		lispet.WithReader(parser.NewReader()),
		lispet.WithStderr(stderr),
		lispet.WithExit(func(code int) {
			fmt.Fprintf(stderr, "exit %d\n", code)
		}),
	}, config...)
	err := lispet.GoError(lispet.InitializeUserEnv(env, config...))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lispet environment: %v", err)
	}
	return env, nil
}

// EvalLine parses line with the runtime's Reader and evaluates the resulting
// root S-expression in env.
func EvalLine(env *lispet.LEnv, line string) (*lispet.LVal, error) {
	ast, err := env.Runtime.Reader.Parse("test", []byte(line))
	if err != nil {
		return nil, err
	}
	return env.Eval(lispet.Build(ast)), nil
}

// RunTestSuite runs each TestSequence in tests on isolated lispet.LEnvs.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		log.Printf("test %d -- %s", i, test.Name)
		var exprBuf bytes.Buffer
		env, err := NewEnv(io.MultiWriter(os.Stderr, &exprBuf))
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			exprBuf.Reset()
			v, err := EvalLine(env, expr.Expr)
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			result := v.String()
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if exprBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected debug output %q (got %q)", i, test.Name, j, expr.Output, exprBuf.String())
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that evaluates the expressions in
// source on a fresh environment for each iteration.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	ast, err := parser.NewReader().Parse("benchmark", []byte(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	exprs := lispet.Build(ast)
	for i := 0; i < b.N; i++ {
		env, err := NewEnv(io.Discard)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		for i, expr := range exprs.Cells {
			lerr := env.Eval(expr)
			if lerr.Type == lispet.LErr {
				b.Fatalf("expr %d: %v", i, lerr)
			}
		}
		b.StopTimer()
	}
}
