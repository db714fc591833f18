// Copyright © 2018 The ELPS authors

package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/luthersystems/conslisp/parser/token"
)

type LexFn func(*Lexer) []*token.Token

const (
	miscWordRunes   = "0123456789" + miscWordSymbols
	miscWordSymbols = "._+-*/=<>!&~%?$^:@"
)

// Lexer turns a rune stream into tokens.
type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
}

func New(s *token.Scanner) *Lexer {
	lex := &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
	}
	return lex
}

// ReadToken returns the next token(s) in the stream.  It always returns at
// least one token and returns EOF tokens once the input is exhausted.
func (lex *Lexer) ReadToken() []*token.Token {
	return lex.lex(lex)
}

func (lex *Lexer) readToken() []*token.Token {
	lex.scanner.AcceptSeqSpace()
	lex.scanner.Ignore()
	if !lex.scanner.Accept(func(c rune) bool { return true }) {
		if err := lex.scanner.Err(); err != nil {
			return lex.errorf("%v", err)
		}
		return lex.emit(token.EOF, "")
	}
	switch c := lex.scanner.Rune(); c {
	case '(':
		return lex.emitText(token.PAREN_L)
	case ')':
		return lex.emitText(token.PAREN_R)
	case '\'':
		return lex.emitText(token.QUOTE)
	case '`':
		return lex.emitText(token.QUASIQUOTE)
	case ',':
		if lex.scanner.AcceptRune('@') {
			return lex.emitText(token.UNQUOTE_SPLICING)
		}
		return lex.emitText(token.UNQUOTE)
	case ';':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.emitText(token.COMMENT)
	case '"':
		return lex.readString()
	case '.':
		if isDelimiter(lex.peekRune()) {
			return lex.emitText(token.DOT)
		}
		if isDigit(lex.peekRune()) {
			return lex.readFloatFraction()
		}
		return lex.readSymbol()
	case '+', '-':
		if isDigit(lex.peekRune()) {
			lex.scanner.AcceptSeqDigit()
			return lex.readNumber()
		}
		return lex.readSymbol()
	default:
		if isDigit(c) {
			return lex.readNumber()
		}
		if isWordStart(c) {
			return lex.readSymbol()
		}
		return lex.emit(token.INVALID, fmt.Sprintf("unexpected text starting with %q", c))
	}
}

func (lex *Lexer) readString() []*token.Token {
	for {
		if !lex.scanner.Accept(func(c rune) bool { return true }) {
			if err := lex.scanner.Err(); err != nil {
				return lex.errorf("%v", err)
			}
			return lex.errorf("unterminated string literal")
		}
		switch lex.scanner.Rune() {
		case '"':
			return lex.emitText(token.STRING)
		case '\\':
			// The escape itself is validated by the parser.
			if !lex.scanner.Accept(func(c rune) bool { return true }) {
				return lex.errorf("unterminated string literal")
			}
		}
	}
}

func (lex *Lexer) readSymbol() []*token.Token {
	lex.scanner.AcceptSeq(isWord)
	return lex.emitText(token.SYMBOL)
}

func (lex *Lexer) readNumber() []*token.Token {
	lex.scanner.AcceptSeqDigit() // the first digit already scanned
	switch {
	case lex.scanner.AcceptRune('.'):
		return lex.readFloatFraction()
	case lex.scanner.AcceptAny("eE"):
		return lex.readFloatExponent()
	default:
		return lex.finishNumber()
	}
}

func (lex *Lexer) readFloatFraction() []*token.Token {
	lex.scanner.AcceptSeqDigit()
	if lex.scanner.AcceptAny("eE") {
		return lex.readFloatExponent()
	}
	return lex.finishNumber()
}

func (lex *Lexer) readFloatExponent() []*token.Token {
	lex.scanner.AcceptAny("+-") // optional sign
	if lex.scanner.AcceptSeqDigit() == 0 {
		return lex.errorf("invalid number literal starting: %v", lex.scanner.Text())
	}
	return lex.finishNumber()
}

// finishNumber emits a NUMBER unless word characters follow, in which case
// the whole run is a symbol (e.g. 1+).
func (lex *Lexer) finishNumber() []*token.Token {
	if isWord(lex.peekRune()) {
		return lex.readSymbol()
	}
	return lex.emitText(token.NUMBER)
}

func (lex *Lexer) emit(typ token.Type, text string) []*token.Token {
	tok := []*token.Token{{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) []*token.Token {
	return []*token.Token{lex.scanner.EmitToken(typ)}
}

func (lex *Lexer) errorf(format string, v ...interface{}) []*token.Token {
	return lex.emit(token.ERROR, fmt.Sprintf(format, v...))
}

func (lex *Lexer) peekRune() rune {
	r, ok := lex.scanner.Peek()
	if !ok {
		return 0
	}
	return r
}

func isDelimiter(c rune) bool {
	return c == 0 || unicode.IsSpace(c) || strings.ContainsRune("()\";'`,", c)
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordSymbols, c)
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordRunes, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// UnquoteString interprets the text of a STRING token, which may span lines.
// Escape sequences follow Go string literal syntax.
func UnquoteString(text string) (string, error) {
	text = strings.ReplaceAll(text, "\r", `\r`)
	text = strings.ReplaceAll(text, "\n", `\n`)
	return strconv.Unquote(text)
}
