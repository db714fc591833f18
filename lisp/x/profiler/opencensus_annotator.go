// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/golang-collections/collections/stack"
	"github.com/luthersystems/conslisp/lisp"
	"go.opencensus.io/trace"
)

var _ lisp.Profiler = &ocAnnotator{}

// ocAnnotator creates an OpenCensus span for each function call.  The
// contexts of calling functions are kept on a stack and restored as calls
// return.
type ocAnnotator struct {
	profiler
	ctx      context.Context
	span     *trace.Span
	contexts *stack.Stack
}

// NewOpenCensusAnnotator returns a profiler that creates spans as children
// of the span in parent.
func NewOpenCensusAnnotator(rt *lisp.Runtime, parent context.Context, opts ...Option) lisp.Profiler {
	p := &ocAnnotator{
		ctx:      parent,
		contexts: stack.New(),
	}
	p.runtime = rt
	p.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	if p.ctx == nil {
		return errors.New("opencensus annotator requires a parent context")
	}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.span != nil {
		p.span.End()
	}
	return nil
}

func (p *ocAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	label, name := p.funName(fun)
	p.contexts.Push(p.ctx)
	p.ctx, p.span = trace.StartSpan(p.ctx, label)
	attrs := []trace.Attribute{
		trace.StringAttribute("code.function", name),
		trace.BoolAttribute("lisp.builtin", fun.IsBuiltin()),
	}
	if loc := sourceLoc(fun); loc != nil {
		attrs = append(attrs,
			trace.StringAttribute("code.filepath", loc.File),
			trace.Int64Attribute("code.lineno", int64(loc.Line)),
		)
	}
	p.span.AddAttributes(attrs...)
	return p.end
}

func (p *ocAnnotator) end() {
	p.span.End()
	p.ctx = p.contexts.Pop().(context.Context)
	p.span = trace.FromContext(p.ctx)
}
