// Copyright © 2024 The ELPS authors

package formatter

import (
	"errors"
	"io"
	"testing"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formatTest struct {
	name     string
	input    string
	expected string
	config   *Config
}

func runFormatTests(t *testing.T, tests []formatTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format([]byte(tt.input), tt.config)
			require.NoError(t, err, "Format failed")
			assert.Equal(t, tt.expected, string(got), "formatted output mismatch")

			// Formatting the output again must not change it.
			got2, err := Format(got, tt.config)
			require.NoError(t, err, "Format (idempotency) failed")
			assert.Equal(t, string(got), string(got2), "not idempotent")
		})
	}
}

func TestFormatInline(t *testing.T) {
	runFormatTests(t, []formatTest{
		{"atom", "42", "42\n", nil},
		{"symbol", "  foo  ", "foo\n", nil},
		{"short list", "(+   1\n 2)", "(+ 1 2)\n", nil},
		{"empty list", "()", "nil\n", nil},
		{"quote", "'(a b)", "(quote (a b))\n", nil},
		{"quasiquote", "`(a ,b ,@c)", "(quasiquote (a (unquote b) (unquote-splicing c)))\n", nil},
		{"string", `"a\"b"`, `"a\"b"` + "\n", nil},
		{"numbers", "(1.50 1e3 -2)", "(1.5 1000 -2)\n", nil},
		{"dotted", "(a . b)", "(a . b)\n", nil},
		// The nil terminator of every list counts as an atom.
		{"twelve atoms", "(list 1 2 3 4 5 6 7 8 9 10)", "(list 1 2 3 4 5 6 7 8 9 10)\n", nil},
		{"nested terminators", "(a (b) (c) (d) (e) f g)", "(a (b) (c) (d) (e) f g)\n", nil},
	})
}

func TestFormatBroken(t *testing.T) {
	runFormatTests(t, []formatTest{
		{
			"thirteen atoms",
			"(list 1 2 3 4 5 6 7 8 9 10 11)",
			"(list\n   1\n   2\n   3\n   4\n   5\n   6\n   7\n   8\n   9\n   10\n   11)\n",
			nil,
		},
		{
			"nested terminators break",
			"(a (b) (c) (d) (e) (f) g)",
			"(a\n   (b)\n   (c)\n   (d)\n   (e)\n   (f)\n   g)\n",
			nil,
		},
		{
			"fourteen atoms",
			"(list 1 2 3 4 5 6 7 8 9 10 11 12)",
			"(list\n   1\n   2\n   3\n   4\n   5\n   6\n   7\n   8\n   9\n   10\n   11\n   12)\n",
			nil,
		},
		{
			"define keeps signature",
			"(define (f x) (if (= x 0) 1 (* x (f (- x 1)))))",
			"(define (f x)\n   (if (= x 0)\n      1\n      (* x (f (- x 1)))))\n",
			nil,
		},
		{
			"lambda keeps formals",
			"(lambda (a b) (println a b) (println b a) (+ a b))",
			"(lambda (a b)\n   (println a b)\n   (println b a)\n   (+ a b))\n",
			nil,
		},
		{
			"dotted tail",
			"(a b c d e f g h i j k l . m)",
			"(a\n   b\n   c\n   d\n   e\n   f\n   g\n   h\n   i\n   j\n   k\n   l . m)\n",
			nil,
		},
		{
			"indent size",
			"(define (f x) (if (= x 0) 1 (* x (f (- x 1)))))",
			"(define (f x)\n  (if (= x 0)\n    1\n    (* x (f (- x 1)))))\n",
			&Config{IndentSize: 2, MaxInlineAtoms: 12, HeaderForms: DefaultHeaderForms()},
		},
		{
			"no header forms",
			"(define (f x) (if (= x 0) 1 (* x (f (- x 1)))))",
			"(define\n   (f x)\n   (if\n      (= x 0)\n      1\n      (* x (f (- x 1)))))\n",
			&Config{IndentSize: 3, MaxInlineAtoms: 12},
		},
	})
}

func TestFormatTopLevel(t *testing.T) {
	runFormatTests(t, []formatTest{
		{"empty", "", "", nil},
		{"comments only", "; nothing here\n", "", nil},
		{
			"blank line between forms",
			"(define x 1) ; one\n\n\n\n(println x)",
			"(define x 1)\n\n(println x)\n",
			nil,
		},
	})
}

func TestFormatSyntaxError(t *testing.T) {
	_, err := FormatFile([]byte("(define x\n  (+ 1 2)"), "broken.lisp", nil)
	require.Error(t, err)
	var lerr *lisp.ErrorVal
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, lisp.CondSyntaxError, lerr.Condition())
	assert.Equal(t, "broken.lisp", lerr.Source.File)
}

func TestPrettyFunctions(t *testing.T) {
	env, err := (&lisptest.Runner{}).NewEnv(t, io.Discard)
	require.NoError(t, err)

	fun := env.LoadString("test", "(lambda (x) (+ x 1))")
	require.Equal(t, lisp.LFun, fun.Type)
	assert.Equal(t, "(lambda (x) (+ x 1))", Pretty(fun, nil))

	mac := env.LoadString("test", "(defmacro (m x) x) m")
	require.Equal(t, lisp.LFun, mac.Type)
	assert.Equal(t, "(defmacro (x) x)", Pretty(mac, nil))

	car := env.LoadString("test", "car")
	assert.Equal(t, "#<builtin car>", Pretty(car, nil))
}
