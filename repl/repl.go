// Copyright © 2018 The ELPS authors

package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/flyrain/lispet/lispet"
	"github.com/flyrain/lispet/lispet/libhelp"
	"github.com/flyrain/lispet/parser"
)

type config struct {
	stdin       io.ReadCloser
	stderr      io.Writer
	historyFile string
	envConfig   []lispet.Config
}

func newConfig(opts ...Option) *config {
	config := &config{
		historyFile: DefaultHistoryFile(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file input lines are saved to.  An empty path
// disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithEnvConfig applies cfgs to the environment created by RunRepl.
func WithEnvConfig(cfgs ...lispet.Config) Option {
	return func(c *config) {
		c.envConfig = append(c.envConfig, cfgs...)
	}
}

const banner = "Lispet Version %s\nPress Ctrl+c to Exit\n\n"

// RunRepl runs a simple repl in a fresh lispet environment.
func RunRepl(prompt string, opts ...Option) error {
	env := lispet.NewEnv(nil)

	envOpts := []lispet.Config{
		lispet.WithReader(parser.NewReader()),
	}
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		envOpts = append(envOpts, lispet.WithStderr(cfg.stderr))
	}
	envOpts = append(envOpts, cfg.envConfig...)

	rc := lispet.InitializeUserEnv(env, envOpts...)
	if err := lispet.GoError(rc); err != nil {
		return fmt.Errorf("language initialization failure: %w", err)
	}
	return RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl with env as a root environment.  Input lines are
// accumulated, using the cont prompt, until they form complete expressions.
// Each complete input is evaluated as a single S-expression and its value is
// printed.  RunEnv returns when input ends or the exit builtin is applied.
func RunEnv(env *lispet.LEnv, prompt, cont string, opts ...Option) error {
	if env.Parent != nil {
		return errors.New("REPL environment is not a root environment")
	}
	if env.Runtime.Reader == nil {
		return errors.New("REPL environment has no reader")
	}

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	out := env.Runtime.Stderr
	if out == nil {
		out = os.Stderr
	}

	exited := false
	exit := env.Runtime.Exit
	env.Runtime.Exit = func(code int) { exited = true }
	defer func() { env.Runtime.Exit = exit }()

	ensureHistoryFilePermissions(cfg.historyFile)
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	fmt.Fprintf(out, banner, lispet.Version) //nolint:errcheck // best-effort REPL output

	var pending []byte
	for !exited {
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			pending = nil
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			break
		}
		if len(pending) == 0 {
			trimmed := bytes.TrimSpace(line)
			if len(trimmed) == 0 {
				continue
			}
			if bytes.HasPrefix(trimmed, []byte(":help")) {
				renderHelp(out, env, strings.TrimSpace(string(trimmed[len(":help"):])))
				continue
			}
		}
		pending = append(pending, line...)
		pending = append(pending, '\n')

		ast, err := env.Runtime.Reader.Parse("stdin", pending)
		if parser.IsIncomplete(err) {
			rl.SetPrompt(cont)
			continue
		}
		pending = nil
		rl.SetPrompt(prompt)
		if err != nil {
			fmt.Fprintln(out, err) //nolint:errcheck // best-effort error display
			continue
		}
		val := env.Eval(lispet.Build(ast))
		fmt.Fprintln(out, val) //nolint:errcheck // best-effort REPL output
	}
	return nil
}

func renderHelp(w io.Writer, env *lispet.LEnv, sym string) {
	var err error
	if sym == "" {
		err = libhelp.RenderBuiltinList(w)
	} else {
		err = libhelp.RenderVar(w, env, sym)
	}
	if err != nil {
		fmt.Fprintln(w, err) //nolint:errcheck // best-effort error display
	}
}

// DefaultHistoryFile returns $HOME/.lispet_history, or an empty path when
// the home directory is unknown.
func DefaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lispet_history")
}

// ensureHistoryFilePermissions creates path with mode 0600 or restricts an
// existing file to that mode.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
