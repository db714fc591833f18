// Copyright © 2018 The ELPS authors

package token

import "fmt"

// Token is a lexical item along with the location where it starts.
type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	if tok.Type == EOF {
		return tok.Type.String()
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Text)
}

type Type uint

// Type constants produced by the lexer.
const (
	INVALID Type = iota
	ERROR
	EOF

	SYMBOL
	NUMBER
	STRING

	COMMENT

	// Reader shorthand
	QUOTE
	QUASIQUOTE
	UNQUOTE
	UNQUOTE_SPLICING

	// Delimiters
	PAREN_L
	PAREN_R
	DOT

	numTokenTypes
)

var typeStrings = [numTokenTypes]string{
	INVALID:          "invalid",
	ERROR:            "error",
	EOF:              "EOF",
	SYMBOL:           "symbol",
	NUMBER:           "number",
	STRING:           "string",
	COMMENT:          ";",
	QUOTE:            "'",
	QUASIQUOTE:       "`",
	UNQUOTE:          ",",
	UNQUOTE_SPLICING: ",@",
	PAREN_L:          "(",
	PAREN_R:          ")",
	DOT:              ".",
}

func (typ Type) String() string {
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Location identifies a position in a named source stream.
type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int    // byte offset
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// LocationError is an error attached to a position in source text.
type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
