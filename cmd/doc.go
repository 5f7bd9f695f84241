// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/flyrain/lispet/lispet"
	"github.com/flyrain/lispet/lispet/libhelp"
	"github.com/spf13/cobra"
)

func newDocCmd() *cobra.Command {
	var docSourceFile string
	docCmd := &cobra.Command{
		Use:   "doc [flags] [QUERY]",
		Short: "Show lispet documentation for builtins and symbols",
		Long: `Show built-in documentation for lispet builtins and bound symbols.

Without a query every builtin is listed with a one line summary. Use -f to
load a source file first so that its definitions can be queried.

Examples:
  lispet doc                       List every builtin
  lispet doc join                  Show docs for the join builtin
  lispet doc -f lib.lspt my-func   Load a file, then describe my-func`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if len(args) == 0 {
				return libhelp.RenderBuiltinList(out)
			}
			return docExec(out, docSourceFile, args[0])
		},
	}

	// Here flags for the doc command are defined
	docCmd.Flags().StringVarP(&docSourceFile, "source-file", "f", "",
		"Evaluate a lispet source file before querying documentation.")
	return docCmd
}

func docExec(out *bufio.Writer, sourceFile string, query string) error {
	// environment output is typically discarded but a buffer is maintained in
	// case of an error while loading user source files.
	errbuf := &bytes.Buffer{}
	env, err := newEnv(errbuf)
	if err != nil {
		return err
	}
	if sourceFile != "" {
		f, err := os.Open(sourceFile) //#nosec G304
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck // read-only file
		res := env.Load(sourceFile, f)
		if res.Type == lispet.LErr {
			_, _ = os.Stderr.Write(errbuf.Bytes())
			return fmt.Errorf("%s: %w", sourceFile, lispet.GoError(res))
		}
	}
	return libhelp.RenderVar(out, env, query)
}
