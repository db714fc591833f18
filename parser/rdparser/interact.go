// Copyright © 2018 The ELPS authors

package rdparser

import (
	"sync"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/parser/token"
)

// Interactive parses one form at a time from a line oriented token source,
// such as a terminal.  Read is called whenever the parser needs more tokens
// and may consult Prompt to decide what to display.
type Interactive struct {
	Read       TokenGenerator
	prompt     string
	promptCont string

	mut     sync.RWMutex
	pending []*token.Token
	p       *Parser
}

// NewInteractive returns an Interactive parser which reads tokens from read.
func NewInteractive(read TokenGenerator) *Interactive {
	ip := &Interactive{Read: read}
	ip.p = NewFromSource(NewTokenStreamSource(TokenGenerator(ip.next)))
	return ip
}

// SetPrompts sets the prompt shown before a new form and the continuation
// prompt shown while a form is incomplete.
func (ip *Interactive) SetPrompts(prompt, cont string) {
	ip.prompt = prompt
	ip.promptCont = cont
}

// Prompt returns the prompt appropriate for the parser's current state.
func (ip *Interactive) Prompt() string {
	if ip.IsParsing() {
		return ip.promptCont
	}
	return ip.prompt
}

// IsParsing reports whether a form has been started but not completed.  It
// is safe to call from Read and on a nil parser.
func (ip *Interactive) IsParsing() bool {
	if ip == nil {
		return false
	}
	ip.mut.RLock()
	defer ip.mut.RUnlock()
	return ip.p.parsing
}

// next is called with ip.mut held.  The lock is released while calling
// ip.Read so that Read can call Prompt.
func (ip *Interactive) next() []*token.Token {
	if len(ip.pending) == 0 {
		ip.mut.Unlock()
		toks := ip.Read()
		ip.mut.Lock()
		if len(toks) == 0 {
			panic("no tokens read")
		}
		ip.pending = toks
	}
	tok := ip.pending[0]
	ip.pending = ip.pending[1:]
	return []*token.Token{tok}
}

// Parse reads one complete form.  After a syntax error the rest of the
// buffered line is discarded so the user can retype it.
func (ip *Interactive) Parse() (*lisp.LVal, error) {
	ip.mut.Lock()
	defer ip.mut.Unlock()
	v, err := ip.p.Parse()
	if err != nil {
		ip.pending = nil
		return nil, err
	}
	return v, nil
}
