// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/x/profiler"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
)

func spanEntries(hook *test.Hook) map[string]*logrus.Entry {
	entries := make(map[string]*logrus.Entry)
	for _, e := range hook.AllEntries() {
		if name, ok := e.Data["span"].(string); ok {
			entries[name] = e
		}
	}
	return entries
}

func TestLogTracerProvider(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	provider := profiler.NewLogTracerProvider(logger)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	env, p := newEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background(), profiler.WithSkipFilter(profiler.SkipBuiltins))
	})
	require.NoError(t, p.Enable())
	runSource(t, env)
	require.NoError(t, p.Complete())
	require.NoError(t, provider.Shutdown(context.Background()))

	entries := spanEntries(hook)
	require.Contains(t, entries, "recurse-it")
	e := entries["recurse-it"]
	assert.Equal(t, logrus.DebugLevel, e.Level)
	assert.Equal(t, "test.lisp", e.Data["code.filepath"])
	assert.NotEmpty(t, e.Data["trace_id"])
	assert.NotContains(t, entries, "println")
}

func TestLogCensusExporter(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	unregister := profiler.RegisterLogCensusExporter(logger)
	defer unregister()

	ctx, root := trace.StartSpan(context.Background(), "root")
	_, child := trace.StartSpan(ctx, "child")
	child.AddAttributes(trace.StringAttribute("code.function", "f"))
	child.End()
	root.End()

	entries := spanEntries(hook)
	require.Contains(t, entries, "child")
	require.Contains(t, entries, "root")
	assert.Equal(t, "f", entries["child"].Data["code.function"])
	assert.Equal(t, root.SpanContext().SpanID.String(), entries["child"].Data["parent_id"])
	assert.NotContains(t, entries["root"].Data, "parent_id")
}
