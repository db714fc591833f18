// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/lisplib/libhelp"
)

// DocCommand creates the "doc" cobra command.  Embedders can pass WithEnv
// to document the symbols of their own environment.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var sourceFile string

	cmd := &cobra.Command{
		Use:   "doc [flags] [NAME]",
		Short: "Show documentation for special forms, primitives and functions",
		Long: `Show built-in documentation.

With a NAME, prints the signature and documentation of the special form,
primitive, library function, macro or variable bound to NAME.  Without a
NAME, prints an index of every documented symbol.  Use -f to load a source
file first, e.g. to see the signatures of your own functions.

Examples:
  conslisp doc                  List every documented symbol
  conslisp doc lambda           Show docs for a special form
  conslisp doc map              Show docs for a library function
  conslisp doc -f lib.lisp f    Load a file, then show f`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := cfg.env
			if env == nil {
				in, err := newInterp(io.Discard, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer in.done() //nolint:errcheck
				env = in.env
			}
			if sourceFile != "" {
				if err := loadFile(env, sourceFile); err != nil {
					return err
				}
			}
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			return writeDoc(out, env, args, docWidth(cmd.OutOrStdout()))
		},
	}
	cmd.Flags().StringVarP(&sourceFile, "source-file", "f", "",
		"Evaluate a lisp source file before querying documentation.")
	return cmd
}

func writeDoc(w io.Writer, env *lisp.LEnv, args []string, width int) error {
	if len(args) == 0 {
		return libhelp.RenderIndex(w, env)
	}
	e, ok := libhelp.Lookup(env, args[0])
	if !ok {
		return errors.Errorf("no documentation for %s: symbol is not bound", args[0])
	}
	return e.Render(w, width)
}

// docWidth is the terminal width when w is a terminal, and
// libhelp.DefaultWidth otherwise.
func docWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return libhelp.DefaultWidth
	}
	cols, _, err := term.GetSize(int(f.Fd())) //nolint:gosec
	if err != nil || cols <= 0 {
		return libhelp.DefaultWidth
	}
	return cols
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
