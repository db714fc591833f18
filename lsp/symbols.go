// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/conslisp/lisp/lisplib/libhelp"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol request.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	_, defs := doc.snapshot()

	symbols := []protocol.DocumentSymbol{}
	for _, def := range defs {
		if def.Source == nil || def.Source.Line == 0 {
			continue
		}
		r := toLSPRange(def.Source, len([]rune(def.Name)))
		sym := protocol.DocumentSymbol{
			Name:           def.Name,
			Kind:           symbolKind(def.Kind),
			Range:          r,
			SelectionRange: r,
		}
		if def.Signature != nil {
			detail := def.Signature.String()
			sym.Detail = &detail
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

func symbolKind(kind string) protocol.SymbolKind {
	switch kind {
	case libhelp.KindFunction:
		return protocol.SymbolKindFunction
	case libhelp.KindMacro:
		return protocol.SymbolKindMethod
	default:
		return protocol.SymbolKindVariable
	}
}
