// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/conslisp/formatter"
)

// textDocumentFormatting handles textDocument/formatting requests.  The
// result is a single edit replacing the whole document, or nil when the
// document is already formatted or does not parse.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, _ := doc.snapshot()
	if content == "" {
		return nil, nil
	}

	cfg := formatter.DefaultConfig()
	switch v := params.Options["tabSize"].(type) {
	case float64:
		if v > 0 {
			cfg.IndentSize = int(v)
		}
	case int:
		if v > 0 {
			cfg.IndentSize = v
		}
	}

	formatted, err := formatter.FormatFile([]byte(content), uriToPath(params.TextDocument.URI), cfg)
	if err != nil {
		// Syntax errors are reported as diagnostics.
		return nil, nil
	}
	if string(formatted) == content {
		return nil, nil
	}
	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: safeUint(strings.Count(content, "\n") + 1), Character: 0},
			},
			NewText: string(formatted),
		},
	}, nil
}
