// Copyright © 2018 The ELPS authors

package lispet

import "io"

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) *LVal

// WithMaximumStackHeight returns a Config that bounds the nesting depth of
// S-expression evaluation to n.  A value of zero or less removes the bound.
func WithMaximumStackHeight(n int) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stack.MaxHeight = n
		return SExpr(nil)
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stderr = w
		return SExpr(nil)
	}
}

// WithReader returns a Config that makes environments use r to parse source
// text.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Reader = r
		return SExpr(nil)
	}
}

// WithExit returns a Config that replaces the function called by the exit
// builtin.
func WithExit(fn func(code int)) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Exit = fn
		return SExpr(nil)
	}
}

// WithProfiler returns a Config that enables p for the environment's runtime.
func WithProfiler(p Profiler) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Profiler = p
		if p.IsEnabled() {
			return SExpr(nil)
		}
		err := p.Enable()
		if err != nil {
			return Errorf(ErrInternal, "%v", err)
		}
		return SExpr(nil)
	}
}
