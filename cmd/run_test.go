// Copyright © 2018 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/conslisp/diagnostic"
)

func newTestRunner(t *testing.T, echo bool) (*runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	in, err := newInterp(&stdout, &stderr)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, in.done()) })
	r := &runner{
		env:      in.env,
		stdout:   &stdout,
		stderr:   &stderr,
		echo:     echo,
		renderer: &diagnostic.Renderer{Color: diagnostic.ColorNever},
	}
	return r, &stdout, &stderr
}

func TestRunEcho(t *testing.T) {
	r, stdout, _ := newTestRunner(t, true)
	r.evalSource("test.lisp", strings.NewReader(`
(define (square x) (* x x))
(println "hi")
(square y)
(map square '(1 2 3))
`))
	assert.True(t, r.failed)
	assert.Equal(t, strings.Join([]string{
		"(define (square x) (* x x))",
		"=> square",
		`(println "hi")`,
		"hi",
		"=> nil",
		"(square y)",
		"!! test.lisp:4:9: unbound-symbol: unbound symbol: y",
		"(map square (quote (1 2 3)))",
		"=> (1 4 9)",
	}, "\n")+"\n", stdout.String())
}

func TestRunSyntaxError(t *testing.T) {
	r, stdout, _ := newTestRunner(t, true)
	r.evalSource("bad.lisp", strings.NewReader("(println 1)\n(car"))
	assert.True(t, r.failed)
	assert.Equal(t, "!! bad.lisp:2:1: syntax-error: unmatched (\n", stdout.String())
}

func TestRunDiagnostics(t *testing.T) {
	r, stdout, stderr := newTestRunner(t, false)
	r.evalSource("test.lisp", strings.NewReader("(car 1)\n(println 2)\n"))
	assert.True(t, r.failed)
	assert.Equal(t, "2\n", stdout.String())
	assert.Contains(t, stderr.String(), "--> test.lisp:1:1")
	assert.Contains(t, stderr.String(), " 1 |  (car 1)")
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.lisp")
	require.NoError(t, os.WriteFile(path, []byte("(+ 1 2 3)"), 0o600))

	r, stdout, _ := newTestRunner(t, true)
	require.NoError(t, r.evalFile(path, nil))
	assert.Equal(t, "(+ 1 2 3)\n=> 6\n", stdout.String())
	assert.False(t, r.failed)

	err := r.evalFile(path+".missing", nil)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
	assert.True(t, strings.HasPrefix(err.Error(), "opening file "+path+".missing: "))
}

func TestRunStdin(t *testing.T) {
	r, stdout, _ := newTestRunner(t, true)
	require.NoError(t, r.evalFile("-", strings.NewReader("(cadr (list 1 2))")))
	assert.Equal(t, "(cadr (list 1 2))\n=> 2\n", stdout.String())
}

func TestLibraryFailureChain(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "lib.lisp")
	viper.Set("library", missing)
	defer viper.Set("library", "")

	_, err := newInterp(&bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
	assert.True(t, strings.HasPrefix(err.Error(),
		"opening library file: opening file "+missing+": "), err.Error())
}

func TestLibraryReplacement(t *testing.T) {
	lib := filepath.Join(t.TempDir(), "lib.lisp")
	require.NoError(t, os.WriteFile(lib, []byte("(define answer 42)"), 0o600))
	viper.Set("library", lib)
	defer viper.Set("library", "")

	r, stdout, _ := newTestRunner(t, true)
	r.evalSource("test.lisp", strings.NewReader("answer\n(map car nil)"))
	assert.Equal(t, "answer\n=> 42\n(map car nil)\n!! test.lisp:2:2: unbound-symbol: unbound symbol: map\n", stdout.String())
}

func TestUnknownParser(t *testing.T) {
	viper.Set("parser", "lalr")
	defer viper.Set("parser", "rd")

	_, err := newInterp(&bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "unknown parser: lalr", err.Error())
}

func TestRegexParser(t *testing.T) {
	viper.Set("parser", "regex")
	defer viper.Set("parser", "rd")

	r, stdout, _ := newTestRunner(t, true)
	r.evalSource("test.lisp", strings.NewReader("(length \"abc\")"))
	assert.Equal(t, "(length \"abc\")\n=> 3\n", stdout.String())
}
