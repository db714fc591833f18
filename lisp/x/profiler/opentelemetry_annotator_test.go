// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOpenTelemetryAnnotator(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, root := provider.Tracer("test").Start(context.Background(), "root")
	env, p := newEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, ctx, profiler.WithFunLabeler(func(fun *lisp.LVal) string {
			if fun.FunData().Name == "add-it" {
				return "addition"
			}
			return ""
		}))
	})
	require.NoError(t, p.Enable())
	runSource(t, env)
	require.NoError(t, p.Complete())
	root.End()

	spans := recorder.Ended()
	byName := make(map[string][]sdktrace.ReadOnlySpan)
	for _, s := range spans {
		byName[s.Name()] = append(byName[s.Name()], s)
	}
	require.Len(t, byName["recurse-it"], 3)
	require.Len(t, byName["addition"], 2)
	assert.Empty(t, byName["add-it"])
	assert.NotEmpty(t, byName["println"])

	// The outermost recurse-it call is a child of the root span and the
	// innermost is a child of its caller.
	rootID := root.SpanContext().SpanID()
	var outer, inner sdktrace.ReadOnlySpan
	for _, s := range byName["recurse-it"] {
		if s.Parent().SpanID() == rootID {
			outer = s
		}
	}
	require.NotNil(t, outer)
	for _, s := range byName["recurse-it"] {
		if s.Parent().SpanID() != rootID && s.Parent().SpanID() != outer.SpanContext().SpanID() {
			inner = s
		}
	}
	require.NotNil(t, inner)

	attrs := make(map[string]string)
	for _, kv := range outer.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "recurse-it", attrs["code.function"])
	assert.Equal(t, "test.lisp", attrs["code.filepath"])
	assert.Equal(t, "3", attrs["code.lineno"])
	assert.Equal(t, "false", attrs["lisp.builtin"])
}

func TestOpenTelemetryAnnotatorRequiresContext(t *testing.T) {
	_, p := newEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, nil)
	})
	assert.Error(t, p.Enable())
}
