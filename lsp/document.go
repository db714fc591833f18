// Copyright © 2024 The ELPS authors

package lsp

import (
	"io"
	"strings"
	"sync"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/lisplib/libhelp"
	"github.com/luthersystems/conslisp/parser/rdparser"
	"github.com/luthersystems/conslisp/parser/token"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu       sync.Mutex
	URI      string
	Version  int32
	Content  string
	ast      []*lisp.LVal
	defs     []*Definition
	parseErr error
}

// Definition is a top-level define or defmacro found in a document.
type Definition struct {
	Name string

	// Kind is one of the libhelp kinds: function, macro or variable.
	Kind string

	// Signature is (name . formals) for functions and macros.
	Signature *lisp.LVal

	// Source is the location of the defined name.
	Source *token.Location
}

// parse parses the document content.  When the content has a syntax error
// the forms preceding the error are kept.
func (d *Document) parse() {
	p := rdparser.New(token.NewScanner(uriToPath(d.URI), strings.NewReader(d.Content)))
	d.ast = nil
	d.parseErr = nil
	for {
		expr, err := p.Parse()
		if err != nil {
			if err != io.EOF {
				d.parseErr = err
			}
			break
		}
		d.ast = append(d.ast, expr)
	}
	d.defs = definitions(d.ast)
}

// definitions returns the names bound by the top-level forms in exprs.
func definitions(exprs []*lisp.LVal) []*Definition {
	var defs []*Definition
	for _, expr := range exprs {
		if expr.Type != lisp.LPair || expr.Car().Type != lisp.LSymbol {
			continue
		}
		target := expr.Cdr().Car()
		switch op := expr.Car().Str; {
		case op == "define" && target.Type == lisp.LSymbol:
			defs = append(defs, &Definition{
				Name:   target.Str,
				Kind:   libhelp.KindVariable,
				Source: target.Source,
			})
		case (op == "define" || op == "defmacro") && target.Type == lisp.LPair && target.Car().Type == lisp.LSymbol:
			kind := libhelp.KindFunction
			if op == "defmacro" {
				kind = libhelp.KindMacro
			}
			defs = append(defs, &Definition{
				Name:      target.Car().Str,
				Kind:      kind,
				Signature: target,
				Source:    target.Car().Source,
			})
		}
	}
	return defs
}

// lookup returns the last definition of name in defs.
func lookup(defs []*Definition, name string) *Definition {
	for i := len(defs) - 1; i >= 0; i-- {
		if defs[i].Name == name {
			return defs[i]
		}
	}
	return nil
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change replaces a document's content (full sync) and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// snapshot returns the document content and definitions.
func (d *Document) snapshot() (string, []*Definition) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Content, d.defs
}
