// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/flyrain/lispet/lispet"
	"github.com/flyrain/lispet/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lispet",
		Short: "Lispet, a small Lisp with Q-Expressions",
		Long: `Lispet is a small Lisp interpreter. Programs are built from numbers,
symbols, S-Expressions (evaluated) and Q-Expressions (quoted lists).

Getting started:
  lispet repl                     Start an interactive REPL
  lispet run file.lspt            Run a source file
  lispet run -e -p '+ 1 2'        Evaluate an expression and print it
  lispet doc                      List the builtins
  lispet doc join                 Show documentation for a builtin

Language overview:
  (+ 1 2)                         Apply a function
  {1 2 3}                         Q-Expressions are not evaluated
  def {x y} 1 2                   Bind symbols globally
  def {add} (\ {a b} {+ a b})     Define a function
  (add 1)                         Partial application returns a function

Configuration is read from $HOME/.lispet.yaml and LISPET_* environment
variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lispet.yaml)")
	rootCmd.PersistentFlags().Int("max-stack-height", lispet.DefaultMaxHeight,
		"Maximum nesting depth of evaluation")
	_ = viper.BindPFlag("max-stack-height", rootCmd.PersistentFlags().Lookup("max-stack-height"))

	rootCmd.AddCommand(newReplCmd(), newRunCmd(), newDocCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	viper.SetDefault("max-stack-height", lispet.DefaultMaxHeight)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		// Search config in home directory with name ".lispet" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".lispet")
	}

	viper.SetEnvPrefix("lispet")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newEnv returns a root environment configured from viper.
func newEnv(stderr io.Writer, config ...lispet.Config) (*lispet.LEnv, error) {
	env := lispet.NewEnv(nil)
	config = append([]lispet.Config{
		lispet.WithReader(parser.NewReader()),
		lispet.WithStderr(stderr),
		lispet.WithMaximumStackHeight(viper.GetInt("max-stack-height")),
	}, config...)
	rc := lispet.InitializeUserEnv(env, config...)
	if err := lispet.GoError(rc); err != nil {
		return nil, fmt.Errorf("initialize-user-env: %w", err)
	}
	return env, nil
}
