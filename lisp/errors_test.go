// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisptest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, config ...lisp.Config) (*lisp.LEnv, *bytes.Buffer) {
	var out bytes.Buffer
	r := &lisptest.Runner{Config: config}
	env, err := r.NewEnv(t, &out)
	require.NoError(t, err)
	return env, &out
}

func TestStackOverflow(t *testing.T) {
	env, _ := newTestEnv(t, lisp.WithMaximumPhysicalStackHeight(200))
	v := env.LoadString("test", `
(define (count n) (if (= n 0) 0 (+ 1 (count (- n 1)))))
(count 100000)`)
	require.Equal(t, lisp.LError, v.Type)
	lerr := lisp.GoError(v).(*lisp.ErrorVal)
	assert.Equal(t, lisp.CondStackOverflow, lerr.Condition())
	var overflow *lisp.PhysicalStackOverflowError
	assert.True(t, errors.As(lerr, &overflow))
	assert.Empty(t, env.Runtime.Stack.Frames, "stack is unwound after the error")

	// The environment stays usable.
	v = env.LoadString("test", "(count 10)")
	assert.Equal(t, "10", v.String())
}

func TestDeepRecursion(t *testing.T) {
	env, _ := newTestEnv(t)
	v := env.LoadString("test", `
(define (count n) (if (= n 0) 0 (+ 1 (count (- n 1)))))
(count 2000)`)
	assert.Equal(t, "2000", v.String())
}

func TestErrorStack(t *testing.T) {
	env, _ := newTestEnv(t)
	v := env.LoadString("test", `(define (inner x) (car x))
(define (outer x) (inner x))
(outer 1)`)
	require.Equal(t, lisp.LError, v.Type)
	lerr := lisp.GoError(v).(*lisp.ErrorVal)
	assert.Equal(t, lisp.CondTypeError, lerr.Condition())
	assert.Equal(t, "car", lerr.FunName())
	assert.Equal(t, "test:1:19: type-error: car: argument is not a pair: 1", lerr.Error())

	var buf bytes.Buffer
	_, err := lerr.WriteTrace(&buf)
	require.NoError(t, err)
	trace := buf.String()
	assert.Contains(t, trace, "height 0: test:3:1: outer")
	assert.Contains(t, trace, "height 1: test:2:19: inner")
	assert.Contains(t, trace, "height 2: test:1:19: car")
}

func TestErrorsAbortOnlyTheCurrentForm(t *testing.T) {
	env, out := newTestEnv(t)
	exprs, err := env.Runtime.Reader.Read("test", strings.NewReader(`
(println "before")
(car 'x)
(println "after")`))
	require.NoError(t, err)
	var errs int
	for _, expr := range exprs {
		if env.Eval(expr).Type == lisp.LError {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
	assert.Equal(t, "before\nafter\n", out.String())
}

func TestLoadSyntaxError(t *testing.T) {
	env, out := newTestEnv(t)
	v := env.LoadString("broken.lisp", `(println "never") (car '(1 2)`)
	require.Equal(t, lisp.LError, v.Type)
	assert.Equal(t, lisp.CondSyntaxError, v.Str)
	assert.Empty(t, out.String(), "no form runs when the source does not parse")
}

func TestLoadFileErrorChain(t *testing.T) {
	env, _ := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "missing.lisp")
	v := env.LoadFile(path)
	require.Equal(t, lisp.LError, v.Type)
	lerr := lisp.GoError(v).(*lisp.ErrorVal)
	assert.Equal(t, lisp.CondIOError, lerr.Condition())
	assert.Contains(t, lerr.Error(), "opening file "+path)
	assert.True(t, os.IsNotExist(errors.Cause(lerr)))
	assert.ErrorIs(t, lerr, os.ErrNotExist)

	wrapped := errors.Wrap(lerr, "loading user file")
	assert.True(t, os.IsNotExist(errors.Cause(wrapped)))
}

func TestLoadFile(t *testing.T) {
	env, out := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "prog.lisp")
	require.NoError(t, os.WriteFile(path, []byte(`(define (sq x) (* x x)) (println (sq 9))`), 0600))
	v := env.LoadFile(path)
	assert.Equal(t, "nil", v.String())
	assert.Equal(t, "81\n", out.String())
}

func TestNoReader(t *testing.T) {
	env := lisp.NewEnv(nil)
	require.True(t, lisp.InitializeUserEnv(env).IsNil())
	v := env.LoadString("test", "1")
	require.Equal(t, lisp.LError, v.Type)
	assert.Contains(t, v.String(), "no reader")
}

func TestIndependentEnvironments(t *testing.T) {
	a, _ := newTestEnv(t)
	b, _ := newTestEnv(t)
	assert.Equal(t, "x", a.LoadString("test", "(define x 1)").String())
	v := b.LoadString("test", "x")
	assert.Equal(t, lisp.CondUnboundSymbol, v.Str)
}
