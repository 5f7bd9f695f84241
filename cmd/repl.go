// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/flyrain/lispet/lispet"
	"github.com/flyrain/lispet/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newReplCmd() *cobra.Command {
	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive Lispet REPL",
		Long: `Start an interactive read-eval-print loop.

Each line is evaluated as a single S-Expression, so the outer parentheses may
be left off. Input with unclosed brackets continues on the next line. Line
editing, tab completion of bound symbols and a persistent history file are
supported via readline. Use exit, Ctrl-D or Ctrl-C to leave.

Example REPL session:
  lispet> + 1 2
  3
  lispet> def {sq} (\ {x} {* x x})
  ()
  lispet> sq 5
  25
  lispet> :help head
  builtin (head qexpr)
    ...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := viper.GetString("prompt")
			if prompt == "" {
				prompt = filepath.Base(os.Args[0]) + "> "
			}
			return repl.RunRepl(prompt,
				repl.WithStderr(cmd.ErrOrStderr()),
				repl.WithHistoryFile(viper.GetString("history-file")),
				repl.WithEnvConfig(lispet.WithMaximumStackHeight(viper.GetInt("max-stack-height"))),
			)
		},
	}

	replCmd.Flags().String("prompt", "", "Prompt printed before each input line")
	replCmd.Flags().String("history-file", repl.DefaultHistoryFile(),
		"File used to persist input history (empty disables history)")
	_ = viper.BindPFlag("prompt", replCmd.Flags().Lookup("prompt"))
	_ = viper.BindPFlag("history-file", replCmd.Flags().Lookup("history-file"))
	return replCmd
}
