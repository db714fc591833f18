// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/conslisp/lisp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of spans created by the
// OpenTelemetry annotator unless the context names another tracer.
const TracerName = "conslisp"

type tracerNameKey struct{}

// WithTracerName returns a context which makes the OpenTelemetry annotator
// create spans with the named tracer.
func WithTracerName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, tracerNameKey{}, name)
}

var _ lisp.Profiler = &otelAnnotator{}

// otelAnnotator creates an OpenTelemetry span for each function call.  Spans
// of nested calls are children of the span of the calling function.
type otelAnnotator struct {
	profiler
	ctx  context.Context
	span trace.Span
}

// NewOpenTelemetryAnnotator returns a profiler that creates spans as
// children of the span in parent, using the global tracer provider.
func NewOpenTelemetryAnnotator(rt *lisp.Runtime, parent context.Context, opts ...Option) lisp.Profiler {
	p := &otelAnnotator{ctx: parent}
	p.runtime = rt
	p.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	if p.ctx == nil {
		return errors.New("opentelemetry annotator requires a parent context")
	}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func (p *otelAnnotator) Complete() error {
	if p.span != nil {
		p.span.End()
	}
	return nil
}

func tracer(ctx context.Context) trace.Tracer {
	name, ok := ctx.Value(tracerNameKey{}).(string)
	if !ok {
		name = TracerName
	}
	return otel.GetTracerProvider().Tracer(name)
}

func (p *otelAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	parent := p.ctx
	label, name := p.funName(fun)
	p.ctx, p.span = tracer(parent).Start(parent, label)
	p.span.SetAttributes(codeAttributes(fun, name)...)
	return func() {
		p.span.End()
		p.ctx = parent
		p.span = trace.SpanFromContext(parent)
	}
}

func codeAttributes(fun *lisp.LVal, name string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.CodeFunction(name),
		attribute.Bool("lisp.builtin", fun.IsBuiltin()),
	}
	if loc := sourceLoc(fun); loc != nil {
		attrs = append(attrs,
			semconv.CodeFilepath(loc.File),
			semconv.CodeLineNumber(loc.Line),
			semconv.CodeColumn(loc.Col),
		)
	}
	return attrs
}
