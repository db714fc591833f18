// Copyright © 2018 The ELPS authors

package parser

import (
	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/parser/rdparser"
	"github.com/luthersystems/conslisp/parser/regexparser"
)

// Option configures the reader returned by NewReader.
type Option func(*readerConfig)

type readerConfig struct {
	combinator bool
}

// WithRegexParser selects the parser-combinator implementation instead of
// the default recursive descent parser.  Both readers accept the same
// language.
func WithRegexParser() Option {
	return func(c *readerConfig) {
		c.combinator = true
	}
}

// NewReader returns a new lisp.Reader
func NewReader(opts ...Option) lisp.Reader {
	var c readerConfig
	for _, opt := range opts {
		opt(&c)
	}
	if c.combinator {
		return regexparser.NewReader()
	}
	return rdparser.NewReader()
}
