// Copyright © 2018 The ELPS authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/conslisp/diagnostic"
	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/parser/token"
)

func runReplWithString(t *testing.T, input string, opts ...Option) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		opts = append([]Option{
			WithStdin(inR),
			WithStdout(outW),
			WithStderr(outW),
			WithHistoryFile(""),
			WithRenderer(&diagnostic.Renderer{Color: diagnostic.ColorNever}),
		}, opts...)
		errc <- RunRepl(DefaultPrompt, opts...)
		inR.Close()  //nolint:errcheck,gosec
		outW.Close() //nolint:errcheck,gosec
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec
	require.NoError(t, <-errc)
	return output.String()
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple addition",
			input:    "(+ 1 1)\n",
			expected: []string{"=> 2\n"},
		},
		{
			name:     "definition result",
			input:    "(define x 3)\nx\n",
			expected: []string{"=> x\n", "=> 3\n"},
		},
		{
			name:     "multi-line form",
			input:    "(define (f x)\n  (* x 2))\n(f 21)\n",
			expected: []string{"=> f\n", "=> 42\n"},
		},
		{
			name:     "println output",
			input:    `(println "hello" 1)` + "\n",
			expected: []string{"hello 1\n", "=> nil\n"},
		},
		{
			name:     "error then recovery",
			input:    "fnord\n(+ 2 2)\n",
			expected: []string{"error: unbound-symbol: unbound symbol: fnord", "--> stdin:1:1", "=> 4\n"},
		},
		{
			name:     "syntax error then recovery",
			input:    ")\n(car '(1 2))\n",
			expected: []string{"syntax-error", "=> 1\n"},
		},
		{
			name:     "error location on later line",
			input:    "(+ 1 2)\n(car 5)\n",
			expected: []string{"--> stdin:2:1", " 2 |  (car 5)"},
		},
		{
			name:     "help",
			input:    "(help 'cdr)\n",
			expected: []string{"builtin (cdr pair)\n  Returns the rest of a pair.", "=> nil\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			for _, want := range tc.expected {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestRunRepl_EnvConfig(t *testing.T) {
	src := "(define (count n) (if (= n 0) 0 (+ 1 (count (- n 1)))))\n(count 100000)\n(count 10)\n"
	got := runReplWithString(t, src, WithEnvConfig(lisp.WithMaximumPhysicalStackHeight(200)))
	assert.Contains(t, got, "stack-overflow")
	assert.Contains(t, got, "=> 10\n")
}

func TestLexLine(t *testing.T) {
	toks := lexLine("(car x) ; note", 7)
	require.Len(t, toks, 4)
	assert.Equal(t, token.PAREN_L, toks[0].Type)
	assert.Equal(t, token.PAREN_R, toks[3].Type)
	for _, tok := range toks {
		assert.Equal(t, 7, tok.Source.Line)
		assert.Equal(t, sourceName, tok.Source.File)
	}
	assert.Empty(t, lexLine("; only a comment", 1))
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), HistoryFileName)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), HistoryFileName)
	require.NoError(t, os.WriteFile(histFile, []byte("some history"), 0644))

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}
