// Copyright © 2018 The ELPS authors

// Package lisptest runs sequences of lisp expressions against fresh
// interpreters and compares their printed results and output.
package lisptest

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/lisplib"
	"github.com/luthersystems/conslisp/parser"
)

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a lisp.LEnv.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the printed result of evaluating Expr
	Output string // text written to Runtime.Stdout while evaluating Expr
}

// TestSuite is a set of named TestSequences.
type TestSuite []struct {
	Name string
	TestSequence
}

// Runner creates the environments in which test sequences are evaluated.
type Runner struct {
	// Loader initializes the root environment after the primitives are
	// installed.  When Loader is nil lisplib.LoadLibrary is used.
	Loader func(*lisp.LEnv) *lisp.LVal

	// Reader constructs the reader for each environment.  When Reader is
	// nil parser.NewReader is used.
	Reader func() lisp.Reader

	// Config is applied to each environment after the defaults.
	Config []lisp.Config
}

// NoLibrary is a Loader which leaves only the primitives bound.
func NoLibrary(env *lisp.LEnv) *lisp.LVal {
	return lisp.Nil()
}

// NewEnv returns a root environment whose program output goes to stdout and
// whose diagnostics and log messages go to the test log.
func (r *Runner) NewEnv(t testing.TB, stdout io.Writer) (*lisp.LEnv, error) {
	reader := r.Reader
	if reader == nil {
		reader = func() lisp.Reader { return parser.NewReader() }
	}
	logger, w := NewFieldLogger(t)
	t.Cleanup(w.Flush)
	config := []lisp.Config{
		lisp.WithMaximumPhysicalStackHeight(25000),
		lisp.WithReader(reader()),
		lisp.WithStdout(stdout),
		lisp.WithStderr(w),
		lisp.WithLogger(logger),
	}
	env := lisp.NewEnv(nil)
	err := lisp.GoError(lisp.InitializeUserEnv(env, append(config, r.Config...)...))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lisp environment: %v", err)
	}
	loader := r.Loader
	if loader == nil {
		loader = lisplib.LoadLibrary
	}
	err = lisp.GoError(loader(env))
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %v", err)
	}
	return env, nil
}

// RunTestSuite runs each TestSequence in tests on an isolated lisp.LEnv.
func (r *Runner) RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			var out bytes.Buffer
			env, err := r.NewEnv(t, &out)
			if err != nil {
				t.Fatalf("test %d %q: %v", i, test.Name, err)
			}
			for j, expr := range test.TestSequence {
				out.Reset()
				v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
				if err != nil {
					t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
					continue
				}
				if len(v) != 1 {
					t.Errorf("test %d %q: expr %d: expected one expression (got %d)", i, test.Name, j, len(v))
					continue
				}
				result := env.Eval(v[0]).String()
				if result != expr.Result {
					t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
				}
				if out.String() != expr.Output {
					t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, out.String())
				}
			}
		})
	}
}

// RunTestSuite runs tests with the library loaded and the default reader.
func RunTestSuite(t *testing.T, tests TestSuite) {
	(&Runner{}).RunTestSuite(t, tests)
}

// RunBenchmark evaluates the forms in source once per iteration, each time
// in a fresh environment with the library loaded.  Environment setup is not
// timed.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	exprs, err := parser.NewReader().Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	r := &Runner{}
	for i := 0; i < b.N; i++ {
		env, err := r.NewEnv(b, io.Discard)
		if err != nil {
			b.Fatal(err)
		}
		env.Runtime.Logger = lisp.StandardRuntime().Logger
		b.StartTimer()
		for j, expr := range exprs {
			lerr := env.Eval(expr)
			if lerr.Type == lisp.LError {
				b.Fatalf("expr %d: %v", j, lerr)
			}
		}
		b.StopTimer()
	}
}
