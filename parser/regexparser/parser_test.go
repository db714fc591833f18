// Copyright © 2018 The ELPS authors

package regexparser_test

import (
	"strings"
	"testing"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/parser/regexparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func read(t *testing.T, src string) []*lisp.LVal {
	t.Helper()
	exprs, err := regexparser.NewReader().Read("test", strings.NewReader(src))
	require.NoError(t, err)
	return exprs
}

func TestParser(t *testing.T) {
	for i, test := range []struct {
		src    string
		result string
	}{
		{`1`, `1`},
		{`-2.5`, `-2.5`},
		{`.5`, `0.5`},
		{`1e3`, `1000`},
		{`"abc"`, `"abc"`},
		{`"a\"b\nc"`, `"a\"b\nc"`},
		{`abc`, `abc`},
		{`+`, `+`},
		{`-x`, `-x`},
		{`nil`, `nil`},
		{`()`, `nil`},
		{`(a b c)`, `(a b c)`},
		{`(a (b) ())`, `(a (b) nil)`},
		{`(a . b)`, `(a . b)`},
		{`(a b . (c))`, `(a b c)`},
		{`'x`, `(quote x)`},
		{"`(a ,b ,@c)", `(quasiquote (a (unquote b) (unquote-splicing c)))`},
		{`'()`, `(quote nil)`},
	} {
		exprs := read(t, test.src)
		if assert.Len(t, exprs, 1, "test %d: %s", i, test.src) {
			assert.Equal(t, test.result, exprs[0].String(), "test %d: %s", i, test.src)
		}
	}
}

func TestParserNil(t *testing.T) {
	exprs := read(t, "nil ()")
	require.Len(t, exprs, 2)
	for _, v := range exprs {
		assert.Same(t, lisp.Nil(), v)
	}
}

func TestComments(t *testing.T) {
	exprs := read(t, `
; leading comment
(a ; trailing
  b) ; after
; final`)
	require.Len(t, exprs, 1)
	assert.Equal(t, "(a b)", exprs[0].String())

	assert.Empty(t, read(t, "; only a comment"))
	assert.Empty(t, read(t, "  \n\t"))
}

func TestLocations(t *testing.T) {
	exprs := read(t, "(a\n  (b c))\nxyz")
	require.Len(t, exprs, 2)
	assert.Equal(t, "test:1:1", exprs[0].Source.String())
	inner := exprs[0].Cdr().Car()
	assert.Equal(t, "test:2:3", inner.Source.String())
	assert.Equal(t, "test:2:4", inner.Car().Source.String())
	assert.Equal(t, "test:3:1", exprs[1].Source.String())
}

func TestErrors(t *testing.T) {
	for i, test := range []struct {
		src string
		msg string
	}{
		{`(a b`, `test:1:1: syntax-error: unmatched (`},
		{`a)`, `test:1:2: syntax-error: unexpected )`},
		{`"abc`, `test:1:1: syntax-error: unterminated string literal`},
		{`(. a)`, `test:1:1: syntax-error: unexpected .`},
		{`(a .)`, `test:1:1: syntax-error: expected an expression after .`},
		{`(a . b c)`, `test:1:1: syntax-error: expected ) after dotted tail, got c`},
		{`.`, `test:1:1: syntax-error: unexpected .`},
		{`1e`, `test:1:1: syntax-error: unexpected text starting with "1e"`},
	} {
		_, err := regexparser.NewReader().Read("test", strings.NewReader(test.src))
		if assert.Error(t, err, "test %d: %s", i, test.src) {
			assert.Equal(t, test.msg, err.Error(), "test %d: %s", i, test.src)
			var lerr *lisp.ErrorVal
			if assert.ErrorAs(t, err, &lerr) {
				assert.Equal(t, lisp.CondSyntaxError, lerr.Condition())
			}
		}
	}
}
