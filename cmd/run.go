// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/luthersystems/conslisp/diagnostic"
	"github.com/luthersystems/conslisp/formatter"
	"github.com/luthersystems/conslisp/lisp"
)

var (
	runExpression bool
	runEcho       bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] [files...]",
	Short: "Run lisp code",
	Long: `Run lisp code supplied via the command line, files or stdin.

The library is loaded first, then each file in order.  A file named "-"
is read from stdin.  With --echo each top-level form is printed followed by
its value ("=> value") or its error ("!! error").  An error aborts only the
form that raised it.

Examples:
  conslisp run prog.lisp
  conslisp run -e '(+ 1 2)' '(println "hi")'
  echo '(car (list 1 2))' | conslisp run -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := newInterp(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		r := &runner{
			env:      in.env,
			stdout:   cmd.OutOrStdout(),
			stderr:   cmd.ErrOrStderr(),
			echo:     runEcho,
			renderer: newRenderer(),
		}
		if runExpression {
			for i, expr := range args {
				r.evalSource(fmt.Sprintf("expr%d", i+1), strings.NewReader(expr))
			}
		} else {
			for _, path := range args {
				if err := r.evalFile(path, cmd.InOrStdin()); err != nil {
					r.report(err)
				}
			}
		}
		if err := in.done(); err != nil {
			return errors.Wrap(err, "completing profile")
		}
		if r.failed {
			return errFailed
		}
		return nil
	},
}

// errFailed is returned by commands which have already reported their
// errors.
var errFailed = errors.New("run failed")

// runner evaluates source streams one top-level form at a time.
type runner struct {
	env      *lisp.LEnv
	stdout   io.Writer
	stderr   io.Writer
	echo     bool
	renderer *diagnostic.Renderer
	failed   bool
}

func (r *runner) evalFile(path string, stdin io.Reader) error {
	if path == "-" {
		r.evalSource("stdin", stdin)
		return nil
	}
	f, err := os.Open(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return errors.Wrapf(err, "opening file %s", path)
	}
	defer f.Close() //nolint:errcheck
	r.evalSource(path, f)
	return nil
}

// evalSource reads every form in src before evaluating any of them.  A
// syntax error is reported in place of the forms.
func (r *runner) evalSource(name string, src io.Reader) {
	text, err := io.ReadAll(src)
	if err != nil {
		r.report(errors.Wrapf(err, "reading %s", name))
		return
	}
	r.renderer.AddSource(name, string(text))
	exprs := r.env.Read(name, strings.NewReader(string(text)))
	if len(exprs) == 1 && exprs[0].Type == lisp.LError {
		r.report(lisp.GoError(exprs[0]))
		return
	}
	for _, expr := range exprs {
		if r.echo {
			fmt.Fprintln(r.stdout, formatter.Pretty(expr, nil))
		}
		v := r.env.EvalAll([]*lisp.LVal{expr})
		if v.Type == lisp.LError {
			r.report(lisp.GoError(v))
			continue
		}
		if r.echo {
			fmt.Fprintln(r.stdout, "=> "+formatter.Pretty(v, nil))
		}
	}
}

func (r *runner) report(err error) {
	r.failed = true
	if r.echo {
		fmt.Fprintln(r.stdout, "!! "+err.Error())
		return
	}
	if debugFlag {
		fmt.Fprintf(r.stderr, "%+v\n", err)
		return
	}
	_ = r.renderer.RenderError(r.stderr, err)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVar(&runEcho, "echo", true,
		"Print each form with its value or error")
}
