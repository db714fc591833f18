// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/conslisp/lisp"
)

var (
	cfgFile   string
	debugFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "conslisp",
	Short: "conslisp: a small Lisp interpreter",
	Long: `conslisp is a small Lisp interpreter built on cons cells.  Programs
are evaluated against a single root environment into which a bundled
library (list, map, filter, let, quasiquote, variadic arithmetic, ...) is
loaded first.

With no subcommand, conslisp starts the REPL when stdin is a terminal and
otherwise evaluates stdin as a program.

Getting started:
  conslisp run file.lisp       Run a lisp source file
  conslisp run -e '(+ 1 2)'    Evaluate an expression
  conslisp repl                Start an interactive REPL
  conslisp doc map             Show documentation for a function
  conslisp fmt file.lisp       Format source code
  conslisp lsp                 Start the language server

Language overview:
  Special forms are quote, if, lambda, define and defmacro.  The empty
  list () is nil and is the only false value; t is the canonical true
  value.  Argument lists may be dotted, (a b . rest), or a bare symbol
  binding every argument.

Settings may also be given in $HOME/.conslisp.yaml or as CONSLISP_*
environment variables, e.g. CONSLISP_MAX_STACK_HEIGHT=1000.`,
	Version:       lisp.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return replCmd.RunE(cmd, nil)
		}
		runEcho = false
		return runCmd.RunE(cmd, []string{"-"})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if err != errFailed {
			reportError(err)
		}
		os.Exit(1)
	}
}

func reportError(err error) {
	if debugFlag {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		return
	}
	if rerr := newRenderer().RenderError(os.Stderr, err); rerr != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.conslisp.yaml)")
	flags.String("library", "", "load this file instead of the bundled library")
	flags.BoolVar(&debugFlag, "debug", false, "log each evaluated form and print error chains in full")
	flags.Bool("debug-library", false, "log each form evaluated while loading the library")
	flags.Int("max-stack-height", lisp.DefaultMaxPhysicalStackHeight,
		"maximum depth of nested function calls (0 for no limit)")
	flags.String("parser", "rd", `reader implementation: "rd" or "regex"`)
	flags.String("color", "auto", `colored diagnostics: "auto", "always", or "never"`)
	flags.String("log-level", "warning", "logging level (debug, info, warning, error)")
	flags.String("profile", "", "write a callgrind profile to this file")
	flags.String("trace", "", `log a trace span for each call: "otel", "opencensus", or "pprof"`)

	for _, name := range []string{
		"library", "debug", "debug-library", "max-stack-height", "parser",
		"color", "log-level", "profile", "trace",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".conslisp")
	}

	viper.SetEnvPrefix("conslisp")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		fmt.Fprintf(os.Stderr, "reading config file: %v\n", err)
		os.Exit(1)
	}
	debugFlag = viper.GetBool("debug")
}
