// Copyright © 2018 The ELPS authors

// Package profiler provides lispet.Profiler implementations that export
// function applications as tracing spans.
package profiler

import (
	"fmt"

	"github.com/flyrain/lispet/lispet"
)

// profiler is the state shared by the annotators.
type profiler struct {
	runtime    *lispet.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

// Option configures an annotator.
type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

// defaultFunName is the builtin's registered name or "lambda".
func defaultFunName(fun *lispet.LVal) string {
	if fun.Type != lispet.LFun || fun.Fun == nil {
		return ""
	}
	if fun.Fun.IsBuiltin() {
		return fun.Fun.Op.String()
	}
	return "lambda"
}

// funLabel returns the span label for fun along with its default name.
func (p *profiler) funLabel(fun *lispet.LVal) (string, string) {
	name := defaultFunName(fun)
	label := name
	if p.funLabeler != nil {
		label = p.funLabeler(fun)
	}
	if label == "" {
		label = name
	}
	return label, name
}

func (p *profiler) skipTrace(fun *lispet.LVal) bool {
	return !p.enabled || fun.Type != lispet.LFun || p.skipFilter != nil && p.skipFilter(fun)
}
