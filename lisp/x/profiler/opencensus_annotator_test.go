// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"context"
	"sync"
	"testing"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
)

type spanCollector struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

func (c *spanCollector) ExportSpan(s *trace.SpanData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spans = append(c.spans, s)
}

func TestOpenCensusAnnotator(t *testing.T) {
	c := &spanCollector{}
	trace.RegisterExporter(c)
	defer trace.UnregisterExporter(c)

	ctx, root := trace.StartSpan(context.Background(), "root", trace.WithSampler(trace.AlwaysSample()))
	env, p := newEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenCensusAnnotator(rt, ctx, profiler.WithSkipFilter(profiler.SkipBuiltins))
	})
	require.NoError(t, p.Enable())
	runSource(t, env)
	require.NoError(t, p.Complete())

	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[string]int)
	for _, s := range c.spans {
		counts[s.Name]++
		assert.Equal(t, root.SpanContext().TraceID, s.TraceID)
		if s.Name == "add-it" {
			assert.Equal(t, "test.lisp", s.Attributes["code.filepath"])
			assert.Equal(t, int64(2), s.Attributes["code.lineno"])
		}
	}
	assert.Equal(t, 3, counts["recurse-it"])
	assert.Equal(t, 2, counts["add-it"])
	assert.Zero(t, counts["println"])
	assert.Equal(t, 1, counts["root"], "Complete ends the span that was current when enabled")
}
