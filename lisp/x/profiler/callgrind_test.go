// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallgrind(t *testing.T) {
	env, p := newEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewCallgrindProfiler(rt, profiler.WithSkipFilter(profiler.SkipBuiltins))
	})
	path := filepath.Join(t.TempDir(), "callgrind.out")
	require.NoError(t, p.SetFile(path))
	require.NoError(t, p.Enable())
	assert.True(t, p.IsEnabled())
	assert.Same(t, p, env.Runtime.Profiler)
	assert.Error(t, p.SetFile(path), "cannot change the output once enabled")
	runSource(t, env)
	require.NoError(t, p.Complete())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "creator: conslisp "+lisp.Version)
	assert.Contains(t, out, "events: Time_(ns) Memory_(bytes)")
	assert.Contains(t, out, ") add-it\n")
	assert.Contains(t, out, ") recurse-it\n")
	assert.Contains(t, out, ") test.lisp\n")
	assert.Contains(t, out, ") ENTRYPOINT\n")
	assert.NotContains(t, out, "println", "builtins are skipped")
	assert.Contains(t, out, "summary ")
}

func TestCallgrindRequiresFile(t *testing.T) {
	_, p := newEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewCallgrindProfiler(rt)
	})
	assert.EqualError(t, p.Enable(), "no output set in profiler")
	assert.False(t, p.IsEnabled())
}
