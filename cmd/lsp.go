// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/luthersystems/conslisp/lsp"
)

// LSPCommand creates the "lsp" cobra command.  Embedders can pass WithEnv
// so that hover and completion cover their own definitions.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the Language Server Protocol server",
		Long: `Start an LSP server for lisp source files.

The server reports syntax errors as diagnostics, formats documents, and
provides hover documentation, completion, go-to-definition and document
symbols for top-level definitions.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  conslisp lsp                  Start with stdio transport
  conslisp lsp --port 7998      Start with TCP on port 7998`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env := cfg.env
			if env == nil {
				in, err := newInterp(io.Discard, io.Discard)
				if err != nil {
					return err
				}
				defer in.done() //nolint:errcheck
				env = in.env
			}
			srv, err := lsp.New(lsp.WithEnv(env))
			if err != nil {
				return err
			}
			if !stdio && port > 0 {
				logger, err := newLogger(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				addr := fmt.Sprintf("localhost:%d", port)
				logger.Infof("LSP server listening on %s", addr)
				return srv.RunTCP(addr)
			}
			return srv.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
