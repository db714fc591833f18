// Copyright © 2024 The ELPS authors

package formatter

import (
	"bytes"
	"strings"

	"github.com/luthersystems/conslisp/lisp"
)

type printer struct {
	buf bytes.Buffer
	cfg *Config
}

func newPrinter(cfg *Config) *printer {
	return &printer{cfg: cfg}
}

// writeExpr dispatches to the appropriate printer for a node type.
func (p *printer) writeExpr(v *lisp.LVal, indent int) {
	switch {
	case v.Type == lisp.LPair:
		if atomCount(v) <= p.cfg.MaxInlineAtoms {
			p.buf.WriteString(v.String())
			return
		}
		p.writeBroken(v, indent)
	case v.Type == lisp.LFun && !v.IsBuiltin():
		head := "lambda"
		if v.IsMacro() {
			head = "defmacro"
		}
		p.writeExpr(lisp.Cons(lisp.Symbol(head), lisp.Cons(v.Formals(), v.Body())), indent)
	default:
		p.buf.WriteString(v.String())
	}
}

// writeBroken writes a list with one element per line, each indented one
// level deeper than the list.  Header forms keep their first argument next
// to the operator.
func (p *printer) writeBroken(v *lisp.LVal, indent int) {
	head := v.Car()
	header := head.Type == lisp.LSymbol && p.cfg.keepsHeader(head.Str)

	p.buf.WriteString("(")
	p.writeExpr(head, indent+1)
	first := true
	for v = v.Cdr(); v.Type == lisp.LPair; v = v.Cdr() {
		if header && first {
			p.buf.WriteString(" ")
		} else {
			p.newline(indent + 1)
		}
		p.writeExpr(v.Car(), indent+1)
		first = false
	}
	if !v.IsNil() {
		p.buf.WriteString(" . ")
		p.buf.WriteString(v.String())
	}
	p.buf.WriteString(")")
}

func (p *printer) newline(indent int) {
	p.buf.WriteString("\n")
	p.buf.WriteString(strings.Repeat(" ", indent*p.cfg.IndentSize))
}

// atomCount returns the number of atoms in v counting the terminator of
// every nested list.
func atomCount(v *lisp.LVal) int {
	if v.Type != lisp.LPair {
		return 1
	}
	n := 0
	for ; v.Type == lisp.LPair; v = v.Cdr() {
		n += atomCount(v.Car())
	}
	return n + 1
}
