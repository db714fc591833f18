// Copyright © 2018 The ELPS authors

package rdparser

import (
	"github.com/luthersystems/conslisp/parser/lexer"
	"github.com/luthersystems/conslisp/parser/token"
)

// TokenStream produces tokens for a parser.  ReadToken never returns an
// empty slice.  Once input is exhausted every call returns a token.EOF
// token, and after an io failure every call returns a token.ERROR token.
type TokenStream interface {
	ReadToken() []*token.Token
}

// TokenGenerator adapts a function to the TokenStream interface.
type TokenGenerator func() []*token.Token

// ReadToken implements TokenStream.
func (fn TokenGenerator) ReadToken() []*token.Token {
	return fn()
}

// TokenSource buffers a TokenStream so the parser can look one token ahead.
// Token holds the most recently consumed token.
type TokenSource struct {
	stream  TokenStream
	Token   *token.Token
	pending []*token.Token
}

// NewTokenStreamSource returns a TokenSource reading from stream.
func NewTokenStreamSource(stream TokenStream) *TokenSource {
	return &TokenSource{stream: stream}
}

// NewTokenSource returns a TokenSource that lexes the text read by scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	return NewTokenStreamSource(lexer.New(scanner))
}

// Peek returns the next token without consuming it.
func (s *TokenSource) Peek() *token.Token {
	if len(s.pending) == 0 {
		s.pending = s.stream.ReadToken()
	}
	return s.pending[0]
}

// AcceptType consumes the next token if its type is one of typ.
func (s *TokenSource) AcceptType(typ ...token.Type) bool {
	next := s.Peek().Type
	for i := range typ {
		if next == typ[i] {
			s.advance()
			return true
		}
	}
	return false
}

// Scan consumes the next token.  At EOF the EOF token becomes s.Token and
// Scan returns false.
func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek()
		return false
	}
	s.advance()
	return true
}

// IsEOF reports whether the next token is token.EOF.
func (s *TokenSource) IsEOF() bool {
	return s.Peek().Type == token.EOF
}

func (s *TokenSource) advance() {
	s.Token = s.Peek()
	s.pending = s.pending[1:]
}
