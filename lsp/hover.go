// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/conslisp/lisp/lisplib/libhelp"
)

// hoverWidth is the column at which hover docstrings wrap.
const hoverWidth = 80

// textDocumentHover handles the textDocument/hover request.  Names
// defined in the document take precedence over the environment.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, defs := doc.snapshot()
	word := wordAtPosition(content, int(params.Position.Line), int(params.Position.Character))
	if word == "" {
		return nil, nil
	}

	var text string
	if def := lookup(defs, word); def != nil {
		text = hoverDefinition(def)
	} else if e, ok := libhelp.Lookup(s.env, word); ok {
		text = hoverEntry(e)
	}
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
	}, nil
}

func hoverDefinition(def *Definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", def.Kind, def.Name)
	if def.Signature != nil {
		fmt.Fprintf(&sb, "\n\n```lisp\n%v\n```", def.Signature)
	}
	return sb.String()
}

func hoverEntry(e *libhelp.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", e.Kind, e.Name)
	if e.Signature != nil {
		fmt.Fprintf(&sb, "\n\n```lisp\n%v\n```", e.Signature)
	} else if e.Value != nil {
		fmt.Fprintf(&sb, "\n\n```lisp\n%v\n```", e.Value)
	}
	if doc := libhelp.Reflow(e.Doc, hoverWidth); doc != "" {
		fmt.Fprintf(&sb, "\n\n%s", doc)
	}
	if e.Source != nil && e.Source.Pos >= 0 {
		fmt.Fprintf(&sb, "\n\n*Defined at %s*", e.Source)
	}
	return sb.String()
}
