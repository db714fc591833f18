// Copyright © 2018 The ELPS authors

package lexer

import (
	"strings"
	"testing"

	"github.com/luthersystems/conslisp/parser/token"
	"github.com/stretchr/testify/assert"
)

type tok struct {
	typ  token.Type
	text string
}

func lexAll(input string) []tok {
	lex := New(token.NewScanner("test", strings.NewReader(input)))
	var toks []tok
	for {
		ts := lex.ReadToken()
		for _, t := range ts {
			toks = append(toks, tok{t.Type, t.Text})
		}
		last := ts[len(ts)-1].Type
		if last == token.EOF || last == token.ERROR || last == token.INVALID {
			return toks
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []tok
	}{
		{``, []tok{{token.EOF, ""}}},
		{`abc`, []tok{{token.SYMBOL, "abc"}, {token.EOF, ""}}},
		{`(+ 1 2)`, []tok{
			{token.PAREN_L, "("},
			{token.SYMBOL, "+"},
			{token.NUMBER, "1"},
			{token.NUMBER, "2"},
			{token.PAREN_R, ")"},
			{token.EOF, ""},
		}},
		{`'(a . b)`, []tok{
			{token.QUOTE, "'"},
			{token.PAREN_L, "("},
			{token.SYMBOL, "a"},
			{token.DOT, "."},
			{token.SYMBOL, "b"},
			{token.PAREN_R, ")"},
			{token.EOF, ""},
		}},
		{"`(1 ,x ,@y)", []tok{
			{token.QUASIQUOTE, "`"},
			{token.PAREN_L, "("},
			{token.NUMBER, "1"},
			{token.UNQUOTE, ","},
			{token.SYMBOL, "x"},
			{token.UNQUOTE_SPLICING, ",@"},
			{token.SYMBOL, "y"},
			{token.PAREN_R, ")"},
			{token.EOF, ""},
		}},
		{`10 -5 0.1 .5 12e12 12e-12 12.02E+5 - 1+ string-length`, []tok{
			{token.NUMBER, "10"},
			{token.NUMBER, "-5"},
			{token.NUMBER, "0.1"},
			{token.NUMBER, ".5"},
			{token.NUMBER, "12e12"},
			{token.NUMBER, "12e-12"},
			{token.NUMBER, "12.02E+5"},
			{token.SYMBOL, "-"},
			{token.SYMBOL, "1+"},
			{token.SYMBOL, "string-length"},
			{token.EOF, ""},
		}},
		{"\"abc\" \"a\\\"b\" \"\"", []tok{
			{token.STRING, `"abc"`},
			{token.STRING, `"a\"b"`},
			{token.STRING, `""`},
			{token.EOF, ""},
		}},
		{"a ; comment\nb", []tok{
			{token.SYMBOL, "a"},
			{token.COMMENT, "; comment"},
			{token.SYMBOL, "b"},
			{token.EOF, ""},
		}},
		{`"abc`, []tok{{token.ERROR, "unterminated string literal"}}},
		{`#t`, []tok{{token.INVALID, `unexpected text starting with '#'`}}},
	}
	for _, test := range tests {
		assert.Equal(t, test.tokens, lexAll(test.input), "input: %q", test.input)
	}
}

func TestLexerLocation(t *testing.T) {
	lex := New(token.NewScanner("test", strings.NewReader("(a\n  b)")))
	var last *token.Token
	for i := 0; i < 3; i++ {
		last = lex.ReadToken()[0]
	}
	assert.Equal(t, "b", last.Text)
	assert.Equal(t, "test:2:3", last.Source.String())
}

func TestUnquoteString(t *testing.T) {
	s, err := UnquoteString("\"a\tb\nc\\\"d\"")
	assert.NoError(t, err)
	assert.Equal(t, "a\tb\nc\"d", s)

	_, err = UnquoteString(`"\q"`)
	assert.Error(t, err)
}
