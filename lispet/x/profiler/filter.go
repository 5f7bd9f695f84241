// Copyright © 2018 The ELPS authors

package profiler

import (
	"github.com/flyrain/lispet/lispet"
)

// SkipFilter returns true for functions that should not produce spans.
type SkipFilter func(fun *lispet.LVal) bool

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithLambdaFilter only traces user defined functions.
func WithLambdaFilter() Option {
	return WithSkipFilter(func(fun *lispet.LVal) bool {
		return fun.Fun.IsBuiltin()
	})
}

// FunLabeler provides an alternative name for a function label in the trace.
// Returning an empty string keeps the default name.
type FunLabeler func(fun *lispet.LVal) string

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// WithFormalsLabeler labels lambda spans with their remaining formals, as in
// "lambda {a b}".
func WithFormalsLabeler() Option {
	return WithFunLabeler(func(fun *lispet.LVal) string {
		if fun.Fun.IsBuiltin() {
			return ""
		}
		return "lambda " + fun.Fun.Formals.String()
	})
}
