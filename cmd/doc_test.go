// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/lisplib"
	"github.com/luthersystems/conslisp/lisp/lisplib/libhelp"
	"github.com/luthersystems/conslisp/parser"
)

func testEnv(t *testing.T) *lisp.LEnv {
	t.Helper()
	env := lisp.NewEnv(nil)
	require.NoError(t, lisp.GoError(lisp.InitializeUserEnv(env,
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(&bytes.Buffer{}))))
	require.NoError(t, lisp.GoError(lisplib.LoadLibrary(env)))
	return env
}

func runDoc(t *testing.T, env *lisp.LEnv, args ...string) (string, error) {
	t.Helper()
	cmd := DocCommand(WithEnv(env))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDocCommandFlags(t *testing.T) {
	cmd := DocCommand()
	assert.Equal(t, "doc [flags] [NAME]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("source-file"))
}

func TestDocCommandName(t *testing.T) {
	out, err := runDoc(t, testEnv(t), "car")
	require.NoError(t, err)
	assert.Equal(t, "builtin (car pair)\n  Returns the first element of a pair. The car of nil is nil.\n", out)
}

func TestDocCommandSpecialForm(t *testing.T) {
	out, err := runDoc(t, testEnv(t), "lambda")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "special-op (lambda "), out)
}

func TestDocCommandIndex(t *testing.T) {
	env := testEnv(t)
	out, err := runDoc(t, env)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, len(libhelp.Entries(env)))
	assert.Contains(t, out, "  quote ")
	assert.Contains(t, out, "  map ")
}

func TestDocCommandUnbound(t *testing.T) {
	_, err := runDoc(t, testEnv(t), "fnord")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fnord")
}

func TestDocCommandWithEnv(t *testing.T) {
	env := testEnv(t)
	require.NoError(t, lisp.GoError(env.LoadString("mine.lisp", "(define (my-helper x) x)")))

	var cfg cmdConfig
	WithEnv(env)(&cfg)
	assert.Same(t, env, cfg.env)

	out, err := runDoc(t, env, "my-helper")
	require.NoError(t, err)
	assert.Equal(t, "function (my-helper x)\n  defined at mine.lisp:1:20\n", out)
}
