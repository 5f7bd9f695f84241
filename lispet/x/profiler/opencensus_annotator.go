// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/flyrain/lispet/lispet"
	"github.com/golang-collections/collections/stack"
	"go.opencensus.io/trace"
)

var _ lispet.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       *stack.Stack
}

// NewOpenCensusAnnotator returns a profiler that records each function
// application as an opencensus span nested under the span in parentContext.
func NewOpenCensusAnnotator(runtime *lispet.Runtime, parentContext context.Context, opts ...Option) lispet.Profiler {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
		contexts:       stack.New(),
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(fun *lispet.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	label, name := p.funLabel(fun)
	p.contexts.Push(p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, label)
	return func() {
		p.currentSpan.Annotate([]trace.Attribute{
			trace.StringAttribute("function", name),
			trace.BoolAttribute("builtin", fun.Fun.IsBuiltin()),
			trace.Int64Attribute("height", int64(p.runtime.Stack.Height())),
		}, "call")
		p.currentSpan.End()
		p.currentContext = p.contexts.Pop().(context.Context)
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
