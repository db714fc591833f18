// Copyright © 2024 The ELPS authors

package lisp

// Error condition names.  These are stable API for programmatic error
// classification in the driver, the REPL and the language server.
const (
	CondError          = "error"
	CondSyntaxError    = "syntax-error"
	CondUnboundSymbol  = "unbound-symbol"
	CondArityError     = "arity-error"
	CondTypeError      = "type-error"
	CondPrimitiveError = "primitive-error"
	CondEvalError      = "eval-error"
	CondIOError        = "io-error"
	CondStackOverflow  = "stack-overflow"
)
