// Copyright © 2024 The ELPS authors

// Package formatter pretty prints lisp values and source files.  Source is
// read with the standard reader and printed back form by form, so comments
// and the original spelling of atoms are not preserved.
package formatter

import (
	"bytes"
	"strings"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/parser"
)

// Format formats lisp source code. If cfg is nil, DefaultConfig() is used.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats lisp source code, using filename for error messages.
// Top-level forms are separated by a blank line.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	exprs, err := parser.NewReader().Read(filename, bytes.NewReader(source))
	if err != nil {
		return nil, err
	}

	forms := make([]string, len(exprs))
	for i, expr := range exprs {
		forms[i] = Pretty(expr, cfg)
	}
	if len(forms) == 0 {
		return []byte{}, nil
	}
	return []byte(strings.Join(forms, "\n\n") + "\n"), nil
}

// Pretty returns the pretty printed representation of v.  Closures and
// macros print as the lambda or defmacro form that would create them.  If
// cfg is nil, DefaultConfig() is used.
func Pretty(v *lisp.LVal, cfg *Config) string {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	pr := newPrinter(cfg)
	pr.writeExpr(v, 0)
	return pr.buf.String()
}
