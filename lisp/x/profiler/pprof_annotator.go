// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/conslisp/lisp"
)

var _ lisp.Profiler = &pprofAnnotator{}

// pprofAnnotator labels the goroutine with the name of the executing lisp
// function so CPU profiles taken with runtime/pprof can be broken down by
// function.  It does not start or stop CPU profiling.
type pprofAnnotator struct {
	profiler
	ctx context.Context
}

// NewPprofAnnotator returns a profiler which sets pprof labels derived from
// parent.  A nil parent is replaced by context.Background().
func NewPprofAnnotator(rt *lisp.Runtime, parent context.Context, opts ...Option) lisp.Profiler {
	p := &pprofAnnotator{ctx: parent}
	p.runtime = rt
	p.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.ctx == nil {
		p.ctx = context.Background()
	}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	parent := p.ctx
	label, _ := p.funName(fun)
	p.ctx = pprof.WithLabels(parent, pprof.Labels("function", label))
	pprof.SetGoroutineLabels(p.ctx)
	return func() {
		p.ctx = parent
		pprof.SetGoroutineLabels(parent)
	}
}
