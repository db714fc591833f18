// Copyright © 2021 The ELPS authors

// Package libhelp looks up and renders documentation for special forms,
// primitives and the functions and macros bound in an environment.
package libhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/parser/token"
)

// DefaultWidth is the column at which rendered documentation wraps.
const DefaultWidth = 72

// Kinds of documented symbols.
const (
	KindSpecialOp = "special-op"
	KindBuiltin   = "builtin"
	KindFunction  = "function"
	KindMacro     = "macro"
	KindVariable  = "variable"
)

// Entry is the documentation for one symbol.
type Entry struct {
	Kind string
	Name string

	// Signature is the call form (name . formals) for operators and
	// functions, and nil for variables.
	Signature *lisp.LVal

	// Value is the bound value of a variable.
	Value *lisp.LVal

	// Doc is the raw docstring.  Only special forms and primitives carry
	// docstrings.
	Doc string

	// Source is where a function or macro defined in lisp was written.
	Source *token.Location
}

// Lookup returns the documentation for name as seen from env.  Special
// forms are found even when env is nil.
func Lookup(env *lisp.LEnv, name string) (*Entry, bool) {
	for _, op := range lisp.DefaultSpecialOps() {
		if op.Name() == name {
			return &Entry{
				Kind:      KindSpecialOp,
				Name:      name,
				Signature: lisp.Cons(lisp.Symbol(name), op.Formals()),
				Doc:       docstring(op),
			}, true
		}
	}
	if env == nil {
		return nil, false
	}
	v := env.Get(lisp.Symbol(name))
	if v.Type == lisp.LError {
		return nil, false
	}
	e := &Entry{Name: name}
	switch {
	case v.Type != lisp.LFun:
		e.Kind = KindVariable
		e.Value = v
		return e, true
	case v.IsBuiltin():
		e.Kind = KindBuiltin
		e.Doc = v.Docstring()
	case v.IsMacro():
		e.Kind = KindMacro
	default:
		e.Kind = KindFunction
	}
	e.Signature = lisp.Cons(lisp.Symbol(name), v.Formals())
	if !v.IsBuiltin() {
		e.Source = definitionSource(v)
	}
	return e, true
}

// Entries returns documentation for the special forms followed by every
// symbol visible from env, in sorted order.
func Entries(env *lisp.LEnv) []*Entry {
	var entries []*Entry
	for _, op := range lisp.DefaultSpecialOps() {
		e, _ := Lookup(nil, op.Name())
		entries = append(entries, e)
	}
	for _, name := range env.Symbols() {
		if e, ok := Lookup(env, name); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Header returns the first line of the rendered entry, e.g.
// "function (map f xs)".
func (e *Entry) Header() string {
	if e.Signature == nil {
		return fmt.Sprintf("%s %s %v", e.Kind, e.Name, e.Value)
	}
	return fmt.Sprintf("%s %v", e.Kind, e.Signature)
}

// Summary returns the first sentence of the docstring.
func (e *Entry) Summary() string {
	doc := strings.Join(strings.Fields(e.Doc), " ")
	if i := strings.Index(doc, ". "); i >= 0 {
		return doc[:i+1]
	}
	return doc
}

// Render writes the entry to w with the docstring wrapped at width columns
// and indented by two spaces.
func (e *Entry) Render(w io.Writer, width int) error {
	if _, err := fmt.Fprintln(w, e.Header()); err != nil {
		return err
	}
	if doc := CleanDocstring(e.Doc, width); doc != "" {
		if _, err := fmt.Fprintln(w, doc); err != nil {
			return err
		}
	}
	if e.Source != nil && e.Source.Pos >= 0 {
		if _, err := fmt.Fprintf(w, "  defined at %s\n", e.Source); err != nil {
			return err
		}
	}
	return nil
}

// RenderVar writes formatted documentation for name to w.
func RenderVar(w io.Writer, env *lisp.LEnv, name string) error {
	e, ok := Lookup(env, name)
	if !ok {
		return fmt.Errorf("no documentation for %s: symbol is not bound", name)
	}
	return e.Render(w, DefaultWidth)
}

// RenderIndex writes one line per documented symbol to w.
func RenderIndex(w io.Writer, env *lisp.LEnv) error {
	for _, e := range Entries(env) {
		line := fmt.Sprintf("  %-14s %s", e.Name, e.Kind)
		if s := e.Summary(); s != "" {
			line += "  " + s
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// CleanDocstring reflows doc into paragraphs wrapped at width and indented
// by two spaces.  Blank lines separate paragraphs.
func CleanDocstring(doc string, width int) string {
	paras := strings.Split(Reflow(doc, width-2), "\n\n")
	for i := range paras {
		paras[i] = indent.String(paras[i], 2)
	}
	return strings.TrimRight(strings.Join(paras, "\n\n"), " \n")
}

// Reflow joins the lines of each paragraph of doc and wraps them at width.
func Reflow(doc string, width int) string {
	var paras []string
	for _, p := range strings.Split(dedentDoc(doc), "\n\n") {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			paras = append(paras, wordwrap.String(p, width))
		}
	}
	return strings.Join(paras, "\n\n")
}

// dedentDoc normalizes the indentation of a docstring written as a raw
// string literal, whose continuation lines carry the source indentation.
func dedentDoc(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\t", "    "), "\n")
	for i := range lines {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
		} else {
			lines[i] = strings.TrimLeft(lines[i], " ")
		}
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

func docstring(defn lisp.LBuiltinDef) string {
	if doc, ok := defn.(lisp.Docstringer); ok {
		return doc.Docstring()
	}
	return ""
}

// definitionSource returns the location of the parameter list of a function
// or macro defined in lisp.
func definitionSource(fun *lisp.LVal) *token.Location {
	formals := fun.Formals()
	if formals.Source != nil {
		return formals.Source
	}
	if formals.Type == lisp.LPair && formals.Car().Source != nil {
		return formals.Car().Source
	}
	if body := fun.Body(); body.Type == lisp.LPair {
		return body.Car().Source
	}
	return nil
}

// LoadHelp binds the help primitive in env.  (help 'name) writes the
// documentation for name to the runtime's standard output.
func LoadHelp(env *lisp.LEnv) *lisp.LVal {
	env.AddBuiltins(lisp.NewBuiltin("help", lisp.Formals("name"), builtinHelp,
		`Writes the documentation for the symbol name to standard output.
		Returns nil.`))
	return lisp.Nil()
}

func builtinHelp(env *lisp.LEnv, args []*lisp.LVal) *lisp.LVal {
	name := args[0]
	if name.Type != lisp.LSymbol {
		return env.ErrorConditionf(lisp.CondTypeError, "help: argument is not a symbol: %v", name)
	}
	e, ok := Lookup(env, name.Str)
	if !ok {
		return env.ErrorConditionf(lisp.CondUnboundSymbol, "help: no documentation for unbound symbol %s", name.Str)
	}
	if err := e.Render(env.Runtime.Stdout, DefaultWidth); err != nil {
		return env.ErrorCondition(lisp.CondIOError, err)
	}
	return lisp.Nil()
}
