// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"bytes"
	"testing"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/lisplib"
	"github.com/luthersystems/conslisp/parser"
	"github.com/stretchr/testify/require"
)

const testSource = `
(define (add-it x y) (+ x y))
(define (recurse-it x)
  (if (< x 4)
      (add-it x 3)
      (recurse-it (- x 1))))
(println (add-it (recurse-it 5) 8))
`

// newEnv returns an environment with the library loaded.  The profiler
// created by newProfiler is enabled after the library is loaded so only
// calls made by testSource are recorded.
func newEnv(t *testing.T, newProfiler func(rt *lisp.Runtime) lisp.Profiler) (*lisp.LEnv, lisp.Profiler) {
	env := lisp.NewEnv(nil)
	rc := lisp.InitializeUserEnv(env,
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(&bytes.Buffer{}),
	)
	require.True(t, rc.IsNil())
	require.False(t, lisplib.LoadLibrary(env).Type == lisp.LError)
	p := newProfiler(env.Runtime)
	return env, p
}

func runSource(t *testing.T, env *lisp.LEnv) {
	v := env.LoadString("test.lisp", testSource)
	require.NotEqual(t, lisp.LError, v.Type, v.String())
}
