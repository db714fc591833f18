// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/conslisp/lisp/lisplib/libhelp"
)

// textDocumentCompletion handles the textDocument/completion request.
// Candidates are the document's own definitions followed by the special
// forms and the symbols bound in the server environment.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, defs := doc.snapshot()
	prefix := wordAtPosition(content, int(params.Position.Line), int(params.Position.Character))

	seen := make(map[string]bool)
	var items []protocol.CompletionItem
	add := func(name, kind string, detail string) {
		if seen[name] || !strings.HasPrefix(name, prefix) {
			return
		}
		seen[name] = true
		k := completionKind(kind)
		item := protocol.CompletionItem{Label: name, Kind: &k}
		if detail != "" {
			item.Detail = &detail
		}
		items = append(items, item)
	}

	local := make([]*Definition, len(defs))
	copy(local, defs)
	sort.SliceStable(local, func(i, j int) bool { return local[i].Name < local[j].Name })
	for _, def := range local {
		detail := ""
		if def.Signature != nil {
			detail = def.Signature.String()
		}
		add(def.Name, def.Kind, detail)
	}
	for _, e := range libhelp.Entries(s.env) {
		detail := ""
		if e.Signature != nil {
			detail = e.Signature.String()
		}
		add(e.Name, e.Kind, detail)
	}
	return items, nil
}

func completionKind(kind string) protocol.CompletionItemKind {
	switch kind {
	case libhelp.KindSpecialOp:
		return protocol.CompletionItemKindKeyword
	case libhelp.KindBuiltin, libhelp.KindFunction:
		return protocol.CompletionItemKindFunction
	case libhelp.KindMacro:
		return protocol.CompletionItemKindMethod
	default:
		return protocol.CompletionItemKindVariable
	}
}
