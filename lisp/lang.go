// Copyright © 2018 The ELPS authors

package lisp

// VarArgSymbol marks the final name passed to Formals as a rest parameter.
// It never appears in a parameter spec; the rest parameter is stored as the
// tail of a dotted list, (a b . rest).
const VarArgSymbol = "&rest"

// QuoteSymbol and the other reader symbols name the forms produced by the
// reader's prefix shorthands.
const (
	QuoteSymbol           = "quote"
	QuasiquoteSymbol      = "quasiquote"
	UnquoteSymbol         = "unquote"
	UnquoteSplicingSymbol = "unquote-splicing"
)

// Formals returns a parameter spec built from argSymbols.  When the
// penultimate element is VarArgSymbol the last name becomes the rest
// parameter.  Formals panics if VarArgSymbol appears anywhere else.
func Formals(argSymbols ...string) *LVal {
	rest := Nil()
	for i, name := range argSymbols {
		if name != VarArgSymbol {
			continue
		}
		if i != len(argSymbols)-2 {
			panic("invalid formal arguments: misplaced " + VarArgSymbol)
		}
		rest = Symbol(argSymbols[i+1])
		argSymbols = argSymbols[:i]
		break
	}
	vals := make([]*LVal, len(argSymbols))
	for i, name := range argSymbols {
		vals[i] = Symbol(name)
	}
	return ListTail(vals, rest)
}
