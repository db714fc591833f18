// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition handles the textDocument/definition request.  Only
// names defined at the top level of the same document are resolved.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, defs := doc.snapshot()
	word := wordAtPosition(content, int(params.Position.Line), int(params.Position.Character))
	def := lookup(defs, word)
	if def == nil || def.Source == nil || def.Source.Pos < 0 {
		return nil, nil
	}
	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: toLSPRange(def.Source, len([]rune(def.Name))),
	}, nil
}
