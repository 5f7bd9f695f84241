// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/flyrain/lispet/lispet"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	errEvaluation = errors.New("evaluation failed")
	errSyntax     = errors.New("syntax error")
)

type runOptions struct {
	expression bool
	print      bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	runCmd := &cobra.Command{
		Use:   "run [flags] FILE...",
		Short: "Run lispet code",
		Long: `Run lispet code supplied via the command line or files.

Every top-level expression of a file is evaluated in order. With -e each
argument is evaluated as a single S-Expression, the way the REPL evaluates a
line. Evaluation stops, and the command exits with status 1, at the first
error value.

Failures are reported on stderr with the source location when it is known.
Use --trace to export a span for each function application to stderr.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, opts, args)
		},
	}

	runCmd.Flags().BoolVarP(&opts.expression, "expression", "e", false,
		"Interpret arguments as lispet expressions")
	runCmd.Flags().BoolVarP(&opts.print, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().String("trace", "",
		`Export function spans to stderr: "otel" or "opencensus"`)
	runCmd.Flags().Bool("trace-lambdas", false,
		"Only trace user defined functions")
	runCmd.Flags().String("color", "auto",
		`Color error output: "auto", "always" or "never"`)
	_ = viper.BindPFlag("trace", runCmd.Flags().Lookup("trace"))
	_ = viper.BindPFlag("color", runCmd.Flags().Lookup("color"))
	_ = viper.BindPFlag("trace-lambdas", runCmd.Flags().Lookup("trace-lambdas"))
	return runCmd
}

func runExec(cmd *cobra.Command, opts *runOptions, args []string) (err error) {
	exited := false
	env, err := newEnv(cmd.ErrOrStderr(), lispet.WithExit(func(code int) {
		exited = true
	}))
	if err != nil {
		return err
	}
	complete, err := startTrace(viper.GetString("trace"), viper.GetBool("trace-lambdas"), env.Runtime, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		cerr := complete()
		if err == nil {
			err = cerr
		}
	}()

	srcs, err := runReadExpressions(opts.expression, args)
	if err != nil {
		return err
	}
	names := make([]string, len(srcs))
	sources := make(map[string][]byte, len(srcs))
	for i := range srcs {
		names[i] = args[i]
		if opts.expression {
			names[i] = fmt.Sprintf("expr%d", i)
		}
		sources[names[i]] = srcs[i]
	}
	renderer, err := newRenderer(sources)
	if err != nil {
		return err
	}
	for i, src := range srcs {
		name := names[i]
		ast, err := env.Runtime.Reader.Parse(name, src)
		if err != nil {
			renderDiagnostic(cmd.ErrOrStderr(), renderer, parseErrorToDiagnostic(err))
			return fmt.Errorf("%s: %w", name, errSyntax)
		}
		root := lispet.Build(ast)
		exprs := root.Cells
		if opts.expression {
			exprs = []*lispet.LVal{root}
		}
		for _, expr := range exprs {
			v := env.Eval(expr)
			if v.Type == lispet.LErr {
				renderDiagnostic(cmd.ErrOrStderr(), renderer, lispErrorToDiagnostic(name, v))
				return fmt.Errorf("%s: %w", name, errEvaluation)
			}
			if opts.print {
				fmt.Fprintln(cmd.OutOrStdout(), v) //nolint:errcheck // best-effort output
			}
			if exited {
				return nil
			}
		}
	}
	return nil
}

func runReadExpressions(expression bool, args []string) ([][]byte, error) {
	exprs := make([][]byte, len(args))
	if expression {
		for i := range args {
			exprs[i] = []byte(args[i])
		}
		return exprs, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			return nil, err
		}
		exprs[i] = b
	}
	return exprs, nil
}
