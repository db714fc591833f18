// Copyright © 2018 The ELPS authors

package rdparser

import (
	"io"
	"strconv"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/parser/lexer"
	"github.com/luthersystems/conslisp/parser/token"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// Parser is a lisp parser.
type Parser struct {
	parsing bool
	src     *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse is a generic entry point that is similar to ParseExpression but is
// capable of handling EOF before reading an expression.
func (p *Parser) Parse() (*lisp.LVal, error) {
	p.ignoreComments()
	if p.src.IsEOF() {
		return nil, io.EOF
	}
	expr := p.ParseExpression()
	if expr.Type == lisp.LError {
		return nil, lisp.GoError(expr)
	}
	return expr, nil
}

// ParseProgram parses a series of expressions.  The first syntax error stops
// parsing and is returned.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseExpression parses a single expression.  Unlike Parse, ParseExpression
// requires an expression to be present in the input stream and will report
// unexpected EOF tokens encountered.
func (p *Parser) ParseExpression() *lisp.LVal {
	fn := p.parseExpression()

	// We have a token marking the beginning of an expression.  Flag that we
	// are currently in the middle of an expression while we finish parsing the
	// expression so that an Interactive parser can determine what state we are
	// in (and thus imply what the REPL prompt should be).
	if !p.parsing {
		p.parsing = true
		defer func() { p.parsing = false }()
	}

	return fn(p)
}

func (p *Parser) parseExpression() func(p *Parser) *lisp.LVal {
	p.ignoreComments()
	switch p.PeekType() {
	case token.NUMBER:
		return (*Parser).ParseLiteralNumber
	case token.STRING:
		return (*Parser).ParseLiteralString
	case token.QUOTE:
		return prefixParser(token.QUOTE, lisp.QuoteSymbol)
	case token.QUASIQUOTE:
		return prefixParser(token.QUASIQUOTE, lisp.QuasiquoteSymbol)
	case token.UNQUOTE:
		return prefixParser(token.UNQUOTE, lisp.UnquoteSymbol)
	case token.UNQUOTE_SPLICING:
		return prefixParser(token.UNQUOTE_SPLICING, lisp.UnquoteSplicingSymbol)
	case token.SYMBOL:
		return (*Parser).ParseSymbol
	case token.PAREN_L:
		return (*Parser).ParseConsExpression
	case token.EOF:
		return func(p *Parser) *lisp.LVal {
			p.ReadToken()
			return p.errorf("unexpected end of input")
		}
	case token.ERROR, token.INVALID:
		return func(p *Parser) *lisp.LVal {
			p.ReadToken()
			return p.errorf("%s", p.TokenText())
		}
	default:
		return func(p *Parser) *lisp.LVal {
			p.ReadToken()
			return p.errorf("unexpected %s", p.TokenText())
		}
	}
}

func (p *Parser) ParseLiteralNumber() *lisp.LVal {
	if !p.Accept(token.NUMBER) {
		return p.errorf("invalid number literal: %v", p.PeekType())
	}
	x, err := strconv.ParseFloat(p.TokenText(), 64)
	if err != nil {
		return p.errorf("invalid number literal: %v", p.TokenText())
	}
	return p.Number(x)
}

func (p *Parser) ParseLiteralString() *lisp.LVal {
	if !p.Accept(token.STRING) {
		return p.errorf("invalid string literal: %v", p.PeekType())
	}
	s, err := lexer.UnquoteString(p.TokenText())
	if err != nil {
		return p.errorf("invalid string literal: %v", p.TokenText())
	}
	return p.String(s)
}

// prefixParser returns a parse function for a reader shorthand which wraps
// the following expression, 'x reads as (quote x).
func prefixParser(typ token.Type, name string) func(p *Parser) *lisp.LVal {
	return func(p *Parser) *lisp.LVal {
		if !p.Accept(typ) {
			return p.errorf("unexpected token: %v", p.PeekType())
		}
		loc := p.Location()
		if p.src.IsEOF() {
			return p.errorf("%s is not followed by an expression", p.TokenText())
		}
		expr := p.ParseExpression()
		if expr.Type == lisp.LError {
			return expr
		}
		sym := lisp.Symbol(name)
		sym.Source = loc
		form := lisp.List(sym, expr)
		form.Source = loc
		return form
	}
}

func (p *Parser) ParseSymbol() *lisp.LVal {
	if !p.Accept(token.SYMBOL) {
		return p.errorf("invalid symbol: %v", p.PeekType())
	}
	return p.Symbol(p.TokenText())
}

// ParseConsExpression parses a parenthesized list.  An empty list reads as
// nil.  A dot followed by exactly one expression sets the tail of the list.
func (p *Parser) ParseConsExpression() *lisp.LVal {
	if !p.Accept(token.PAREN_L) {
		return p.errorf("unexpected token: %v", p.PeekType())
	}
	open := p.src.Token
	var cells []*lisp.LVal
	tail := lisp.Nil()
	for {
		p.ignoreComments()
		if p.src.IsEOF() {
			return p.errorAt(open.Source, "unmatched %s", open.Text)
		}
		if p.Accept(token.PAREN_R) {
			break
		}
		if p.Accept(token.DOT) {
			if len(cells) == 0 {
				return p.errorf("unexpected %s", p.TokenText())
			}
			tail = p.parseDottedTail(open)
			if tail.Type == lisp.LError {
				return tail
			}
			break
		}
		x := p.ParseExpression()
		if x.Type == lisp.LError {
			return x
		}
		cells = append(cells, x)
	}
	if len(cells) == 0 {
		return lisp.Nil()
	}
	expr := lisp.ListTail(cells, tail)
	expr.Source = open.Source
	return expr
}

func (p *Parser) parseDottedTail(open *token.Token) *lisp.LVal {
	p.ignoreComments()
	if p.src.IsEOF() {
		return p.errorAt(open.Source, "unmatched %s", open.Text)
	}
	if p.PeekType() == token.PAREN_R {
		p.ReadToken()
		return p.errorf("expected an expression after .")
	}
	tail := p.ParseExpression()
	if tail.Type == lisp.LError {
		return tail
	}
	p.ignoreComments()
	if p.src.IsEOF() {
		return p.errorAt(open.Source, "unmatched %s", open.Text)
	}
	if !p.Accept(token.PAREN_R) {
		p.ReadToken()
		return p.errorf("expected ) after dotted tail, got %s", p.TokenText())
	}
	return tail
}

func (p *Parser) ignoreComments() {
	for p.Accept(token.COMMENT) {
	}
}

func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) PeekLocation() *token.Location {
	return p.src.Peek().Source
}

func (p *Parser) String(s string) *lisp.LVal {
	return p.tokenLVal(lisp.String(s))
}

// Symbol returns the symbol sym.  The symbol nil reads as the nil value,
// which carries no location.
func (p *Parser) Symbol(sym string) *lisp.LVal {
	v := lisp.Symbol(sym)
	if v.IsNil() {
		return v
	}
	return p.tokenLVal(v)
}

func (p *Parser) Number(x float64) *lisp.LVal {
	return p.tokenLVal(lisp.Number(x))
}

func (p *Parser) tokenLVal(v *lisp.LVal) *lisp.LVal {
	v.Source = p.Location()
	return v
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

func (p *Parser) errorf(format string, v ...interface{}) *lisp.LVal {
	return p.errorAt(p.Location(), format, v...)
}

func (p *Parser) errorAt(loc *token.Location, format string, v ...interface{}) *lisp.LVal {
	err := lisp.ErrorConditionf(lisp.CondSyntaxError, format, v...)
	err.Source = loc
	return err
}
