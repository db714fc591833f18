// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"bytes"
	"runtime/pprof"
	"testing"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPprofAnnotator(t *testing.T) {
	env, p := newEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewPprofAnnotator(rt, nil)
	})
	var cpu bytes.Buffer
	require.NoError(t, pprof.StartCPUProfile(&cpu))
	defer pprof.StopCPUProfile()

	require.NoError(t, p.Enable())
	assert.Same(t, p, env.Runtime.Profiler)
	assert.Error(t, p.Enable(), "enabling twice fails")
	assert.Error(t, p.SetFile("pprof.out"))
	runSource(t, env)
	require.NoError(t, p.Complete())
}
