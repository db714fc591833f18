// Copyright © 2018 The ELPS authors

// Package regexparser provides a lisp parser built from parser combinators.
//
//	expr     := <comment> | <term> | '(' <expr>* ')' | <prefix> <expr>
//	prefix   := "'" | '`' | ',@' | ','
//	term     := <string> | <word>
//	string   := '"' /([^"\\]|\\.)*/ '"'
//	word     := /[^\s()'"`,;]+/
//	comment  := /;[^\n]*/
//
// A word is a number when it matches /[+-]?[0-9]+([.][0-9]*)?([eE][+-]?[0-9]+)?/
// (or starts with a decimal point), and a symbol otherwise.  A lone "." inside a
// list separates the final element of a dotted list.
package regexparser

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/parser/lexer"
	"github.com/luthersystems/conslisp/parser/token"
	parsec "github.com/prataprc/goparsec"
)

var (
	numberPattern = regexp.MustCompile(`^([+-]?[0-9]+([.][0-9]*)?|[.][0-9]+)([eE][+-]?[0-9]+)?$`)
	symbolPattern = regexp.MustCompile(`^[\pL._+\-*/=<>!&~%?$^:@][\pL0-9._+\-*/=<>!&~%?$^:@]*$`)
)

const dotSymbol = "."

// NewReader returns a lisp.Reader.
func NewReader() lisp.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseLVal(name, b)
}

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeSExpr
	nodeSExprOUnmatched
	nodePrefix
)

var nodeTypeStrings = []string{
	nodeInvalid:         "INVALID",
	nodeTerm:            "TERM",
	nodeSExpr:           "SEXPR",
	nodeSExprOUnmatched: "SEXPROPENUNMATCHED",
	nodePrefix:          "PREFIX",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

var prefixSymbols = map[string]string{
	"'":  lisp.QuoteSymbol,
	"`":  lisp.QuasiquoteSymbol,
	",":  lisp.UnquoteSymbol,
	",@": lisp.UnquoteSplicingSymbol,
}

// ParseLVal parses LVal values from text and returns them.  The first syntax
// error encountered is returned as a *lisp.ErrorVal with condition
// syntax-error.
func ParseLVal(name string, text []byte) ([]*lisp.LVal, error) {
	b := &builder{file: name, text: text}
	var v []*lisp.LVal
	s := parsec.NewScanner(text)
	parser := b.newParsecParser()
	root, s := parser(s)
	for root != nil {
		lval, err := b.getLVal(root)
		if err != nil {
			return nil, err
		}
		if lval != nil {
			v = append(v, lval)
		}
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		pos := s.GetCursor()
		if text[pos] == ')' {
			return nil, b.errorf(pos, "unexpected )")
		}
		rest, _ := s.Match(`.{1,16}`)
		if len(rest) > 15 {
			rest = append(rest[:15:15], []byte("...")...)
		}
		return nil, b.errorf(pos, "unexpected source text possibly starting: %s", rest)
	}
	return v, nil
}

// builder converts parsec nodes to LVals, attaching source locations
// computed from terminal offsets.
type builder struct {
	file string
	text []byte
}

func (b *builder) newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	prefix := parsec.OrdChoice(nil,
		parsec.Atom("'", "QUOTE"),
		parsec.Atom("`", "QUASIQUOTE"),
		parsec.Atom(",@", "UNQUOTE_SPLICING"), // must precede ","
		parsec.Atom(",", "UNQUOTE"),
	)
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	str := parsec.Token(`"(?:[^"\\]|\\[\s\S])*"`, "STRING")
	strUnterminated := parsec.Token(`"(?:[^"\\]|\\[\s\S])*\\?$`, "STRING_UNTERMINATED")
	word := parsec.Token("[^\\s()'\"`,;]+", "WORD")
	term := parsec.OrdChoice(b.astNode(nodeTerm), // terminal token
		str,
		strUnterminated,
		word,
	)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(b.astNode(nodeSExpr), openP, exprList, closeP)
	sexprOUnmatched := parsec.And(b.astNode(nodeSExprOUnmatched), openP, exprList, parsec.End())
	prefixed := parsec.And(b.astNode(nodePrefix), prefix, &expr)
	expr = parsec.OrdChoice(nil,
		comment,
		term,
		sexpr,
		prefixed,
		// Error matching cases come last because they have the lowest
		// precedence.
		sexprOUnmatched,
	)
	return expr
}

func (b *builder) astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return b.newAST(t, nodes)
	}
}

func (b *builder) newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes, ok := cleanParsecNodeList(nodes)
	if len(nodes) == 0 {
		return lisp.Nil()
	}
	if !ok {
		// There is an error in the first position.
		return nodes[0]
	}
	switch typ {
	case nodeTerm:
		term, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			return nodes[0]
		}
		return b.term(term)
	case nodeSExprOUnmatched:
		open := nodes[0].(*parsec.Terminal)
		return b.errorf(open.Position, "unmatched %s", open.GetValue())
	case nodeSExpr:
		open := nodes[0].(*parsec.Terminal)
		return b.list(open, nodes[1:])
	case nodePrefix:
		mark := nodes[0].(*parsec.Terminal)
		if len(nodes) < 2 {
			return b.errorf(mark.Position, "%s is not followed by an expression", mark.GetValue())
		}
		expr, ok := nodes[1].(*lisp.LVal)
		if !ok {
			return nodes[1]
		}
		if isDot(expr) {
			return b.errorf(mark.Position, "unexpected %s", dotSymbol)
		}
		sym := lisp.Symbol(prefixSymbols[mark.GetValue()])
		sym.Source = b.location(mark.Position)
		form := lisp.List(sym, expr)
		form.Source = sym.Source
		return form
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

func (b *builder) term(term *parsec.Terminal) parsec.ParsecNode {
	loc := b.location(term.Position)
	switch term.GetName() {
	case "STRING":
		s, err := lexer.UnquoteString(term.GetValue())
		if err != nil {
			return b.errorf(term.Position, "invalid string literal: %v", term.GetValue())
		}
		v := lisp.String(s)
		v.Source = loc
		return v
	case "STRING_UNTERMINATED":
		return b.errorf(term.Position, "unterminated string literal")
	case "WORD":
		text := term.GetValue()
		if numberPattern.MatchString(text) {
			x, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return b.errorf(term.Position, "invalid number literal: %v", text)
			}
			v := lisp.Number(x)
			v.Source = loc
			return v
		}
		if !symbolPattern.MatchString(text) {
			return b.errorf(term.Position, "unexpected text starting with %q", text)
		}
		v := lisp.Symbol(text)
		if !v.IsNil() {
			v.Source = loc
		}
		return v
	default:
		return b.errorf(term.Position, "unexpected token %s", term.GetName())
	}
}

// list builds a list from the elements between a pair of parentheses.  The
// final node is the closing parenthesis.
func (b *builder) list(open *parsec.Terminal, nodes []parsec.ParsecNode) parsec.ParsecNode {
	var cells []*lisp.LVal
	for _, c := range nodes {
		if c, ok := c.(*lisp.LVal); ok {
			cells = append(cells, c)
		}
	}
	tail := lisp.Nil()
	for i, c := range cells {
		if !isDot(c) {
			continue
		}
		switch {
		case i == 0:
			return b.errorf(open.Position, "unexpected %s", dotSymbol)
		case i == len(cells)-1:
			return b.errorf(open.Position, "expected an expression after %s", dotSymbol)
		case i != len(cells)-2:
			return b.errorf(open.Position, "expected ) after dotted tail, got %v", cells[i+2])
		}
		tail = cells[i+1]
		cells = cells[:i]
		break
	}
	if len(cells) == 0 {
		return lisp.Nil()
	}
	lval := lisp.ListTail(cells, tail)
	lval.Source = b.location(open.Position)
	return lval
}

func isDot(v *lisp.LVal) bool {
	return v.Type == lisp.LSymbol && v.Str == dotSymbol
}

func (b *builder) getLVal(root parsec.ParsecNode) (*lisp.LVal, error) {
	nodes, ok := cleanParsecNodeList([]parsec.ParsecNode{root})
	if len(nodes) == 0 {
		// we can be here if there is only whitespace or a comment
		return nil, nil
	}
	if !ok {
		return nil, nodes[0].(error)
	}
	lval, ok := nodes[0].(*lisp.LVal)
	if !ok {
		return nil, nil
	}
	if isDot(lval) {
		return nil, b.errorf(b.offset(lval.Source), "unexpected %s", dotSymbol)
	}
	return lval, nil
}

func (b *builder) location(pos int) *token.Location {
	if pos > len(b.text) {
		pos = len(b.text)
	}
	before := b.text[:pos]
	lineStart := bytes.LastIndexByte(before, '\n') + 1
	return &token.Location{
		File: b.file,
		Pos:  pos,
		Line: bytes.Count(before, []byte("\n")) + 1,
		Col:  utf8.RuneCount(before[lineStart:]) + 1,
	}
}

func (b *builder) offset(loc *token.Location) int {
	if loc == nil {
		return 0
	}
	return loc.Pos
}

func (b *builder) errorf(pos int, format string, v ...interface{}) error {
	lerr := lisp.ErrorConditionf(lisp.CondSyntaxError, format, v...)
	lerr.Source = b.location(pos)
	return lisp.GoError(lerr)
}

func cleanParsecNodeList(lis []parsec.ParsecNode) ([]parsec.ParsecNode, bool) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case *parsec.Terminal:
			if node.Name == "COMMENT" {
				continue
			}
			nodes = append(nodes, node)
		case error:
			nodes = []parsec.ParsecNode{node}
			return nodes, false
		case []parsec.ParsecNode:
			clean, ok := cleanParsecNodeList(node)
			if !ok {
				return clean, false
			}
			nodes = append(nodes, clean...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, true
}
