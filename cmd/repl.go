// Copyright © 2018 The ELPS authors

package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/luthersystems/conslisp/lisp/lisplib/libhelp"
	"github.com/luthersystems/conslisp/repl"
)

var replNoHistory bool

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive REPL",
	Long: `Start an interactive read-eval-print loop.

The library is loaded first.  A form may span several lines; the prompt
changes to a continuation prompt until the form is complete.  Each result
is printed after "=> ".  Errors are reported with the offending input and
do not end the session.  Line editing, tab completion of bound symbols and
a history file (~/.conslisp_history) are supported.  Use Ctrl-D to exit.

Example REPL session:
  user> (define (square x) (* x x))
  => square
  user> (map square (list 1 2 3))
  => (1 4 9)
  user> (help 'map)
  function (map f xs)
  ...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := newInterp(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		libhelp.LoadHelp(in.env)

		opts := []repl.Option{
			repl.WithStdout(cmd.OutOrStdout()),
			repl.WithStderr(cmd.ErrOrStderr()),
			repl.WithRenderer(newRenderer()),
		}
		if stdin := cmd.InOrStdin(); stdin != os.Stdin {
			opts = append(opts, repl.WithStdin(io.NopCloser(stdin)))
		}
		if replNoHistory {
			opts = append(opts, repl.WithHistoryFile(""))
		}

		prompt := repl.DefaultPrompt
		err = repl.RunEnv(in.env, prompt, strings.Repeat(" ", len(prompt)), opts...)
		if derr := in.done(); err == nil && derr != nil {
			err = errors.Wrap(derr, "completing profile")
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().BoolVar(&replNoHistory, "no-history", false,
		"Do not read or write the history file")
}
