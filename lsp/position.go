// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"unicode"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/conslisp/parser/token"
)

// toLSPPosition converts a 1-based source location to a 0-based LSP
// position.
func toLSPPosition(loc *token.Location) protocol.Position {
	line := loc.Line
	col := loc.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(col),
	}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115
}

// toLSPRange returns the range of width characters starting at loc.
func toLSPRange(loc *token.Location, width int) protocol.Range {
	start := toLSPPosition(loc)
	return protocol.Range{
		Start: start,
		End: protocol.Position{
			Line:      start.Line,
			Character: start.Character + safeUint(width),
		},
	}
}

// wordAtPosition extracts the symbol at the given 0-based LSP position.
// The cursor can be inside or just after the symbol.
func wordAtPosition(content string, line, col int) string {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	ln := []rune(lines[line])
	if col < 0 || col > len(ln) {
		return ""
	}
	start := col
	for start > 0 && isSymbolRune(ln[start-1]) {
		start--
	}
	end := col
	for end < len(ln) && isSymbolRune(ln[end]) {
		end++
	}
	return string(ln[start:end])
}

// isSymbolRune reports whether c may appear in a symbol.
func isSymbolRune(c rune) bool {
	if unicode.IsSpace(c) {
		return false
	}
	switch c {
	case '(', ')', '\'', '`', ',', '"', ';':
		return false
	}
	return true
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}
