// Copyright © 2018 The ELPS authors

// Package repl implements the interactive read-eval-print loop.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/pkg/errors"

	"github.com/luthersystems/conslisp/diagnostic"
	"github.com/luthersystems/conslisp/formatter"
	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/lisplib"
	"github.com/luthersystems/conslisp/lisp/lisplib/libhelp"
	"github.com/luthersystems/conslisp/parser"
	"github.com/luthersystems/conslisp/parser/lexer"
	"github.com/luthersystems/conslisp/parser/rdparser"
	"github.com/luthersystems/conslisp/parser/token"
)

// DefaultPrompt is shown before each new form.
const DefaultPrompt = "user> "

// HistoryFileName is the name of the history file in the user's home
// directory.
const HistoryFileName = ".conslisp_history"

// sourceName names the input typed at the prompt in error locations.
const sourceName = "stdin"

type config struct {
	stdin    io.ReadCloser
	stdout   io.Writer
	stderr   io.Writer
	history  string
	renderer *diagnostic.Renderer
	env      []lisp.Config
}

func newConfig(opts ...Option) *config {
	c := &config{history: historyPath()}
	for _, opt := range opts {
		opt(c)
	}
	if c.renderer == nil {
		c.renderer = &diagnostic.Renderer{Color: diagnostic.ColorAuto}
	}
	return c
}

// Option configures a REPL.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout sets the destination of results and program output.
func WithStdout(stdout io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithStderr sets the destination of prompts and errors.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the history file.  An empty path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// WithRenderer sets the renderer used for errors.
func WithRenderer(r *diagnostic.Renderer) Option {
	return func(c *config) {
		c.renderer = r
	}
}

// WithEnvConfig adds options applied when RunRepl creates the environment.
func WithEnvConfig(cfgs ...lisp.Config) Option {
	return func(c *config) {
		c.env = append(c.env, cfgs...)
	}
}

// RunRepl runs a repl in a new root environment with the library and the
// help primitive loaded.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	envOpts := []lisp.Config{lisp.WithReader(parser.NewReader())}
	if cfg.stdout != nil {
		envOpts = append(envOpts, lisp.WithStdout(cfg.stdout))
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr))
	}
	envOpts = append(envOpts, cfg.env...)

	env := lisp.NewEnv(nil)
	if err := lisp.GoError(lisp.InitializeUserEnv(env, envOpts...)); err != nil {
		return errors.Wrap(err, "initializing environment")
	}
	if err := lisp.GoError(lisplib.LoadLibrary(env)); err != nil {
		return errors.Wrap(err, "loading library")
	}
	libhelp.LoadHelp(env)
	return RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a repl with env as a root environment until the input is
// exhausted.
func RunEnv(env *lisp.LEnv, prompt, cont string, opts ...Option) error {
	if env.Parent != nil {
		return errors.New("repl environment is not a root environment")
	}
	cfg := newConfig(opts...)
	stdout := env.Runtime.Stdout
	if cfg.stdout != nil {
		stdout = cfg.stdout
	}
	stderr := env.Runtime.Stderr
	if cfg.stderr != nil {
		stderr = cfg.stderr
	}

	ensureHistoryFilePermissions(cfg.history)
	rlCfg := &readline.Config{
		Stdout:            stderr,
		Stderr:            stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return errors.Wrap(err, "starting line editor")
	}
	defer rl.Close() //nolint:errcheck

	in := &input{rl: rl}
	p := rdparser.NewInteractive(nil)
	p.SetPrompts(prompt, cont)
	p.Read = func() []*token.Token {
		rl.SetPrompt(p.Prompt())
		return in.readTokens()
	}

	for {
		expr, err := p.Parse()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			in.render(stderr, cfg.renderer, err)
			continue
		}
		val := env.Eval(expr)
		if val.Type == lisp.LError {
			in.render(stderr, cfg.renderer, lisp.GoError(val))
			continue
		}
		fmt.Fprintf(stdout, "=> %s\n", formatter.Pretty(val, nil)) //nolint:errcheck
	}
}

// input feeds lines from the editor to the lexer.  Line numbers continue
// across the session so error locations refer to the transcript.
type input struct {
	rl    *readline.Instance
	lines []string
}

func (in *input) readTokens() []*token.Token {
	for {
		line, err := in.rl.ReadLine()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return []*token.Token{{Type: token.EOF}}
		}
		in.lines = append(in.lines, line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		tokens := lexLine(line, len(in.lines))
		if len(tokens) > 0 {
			return tokens
		}
	}
}

// lexLine returns the tokens of line, which is line number lineno of the
// session.  Comments produce no tokens.
func lexLine(line string, lineno int) []*token.Token {
	lex := lexer.New(token.NewScanner(sourceName, bytes.NewReader([]byte(line))))
	var tokens []*token.Token
	for {
		toks := lex.ReadToken()
		for _, tok := range toks {
			if tok.Type == token.EOF {
				return tokens
			}
			if tok.Source != nil {
				loc := *tok.Source
				loc.Line = lineno
				tok.Source = &loc
			}
			if tok.Type != token.COMMENT {
				tokens = append(tokens, tok)
			}
			if tok.Type == token.ERROR {
				return tokens
			}
		}
	}
}

func (in *input) render(w io.Writer, r *diagnostic.Renderer, err error) {
	r.AddSource(sourceName, strings.Join(in.lines, "\n"))
	if rerr := r.RenderError(w, err); rerr != nil {
		fmt.Fprintf(w, "!! %v\n", err) //nolint:errcheck
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HistoryFileName)
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the owner.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600)
	if err != nil {
		return
	}
	f.Close() //nolint:errcheck,gosec
	_ = os.Chmod(path, 0600)
}
