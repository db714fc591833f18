// Copyright © 2024 The ELPS authors

// Package diagnostic renders errors as annotated source snippets for the
// command line and the REPL.
package diagnostic

import (
	"github.com/pkg/errors"

	"github.com/luthersystems/conslisp/lisp"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic is a single error or note with optional source annotations and
// trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}

// FromLisp converts an LError value to a Diagnostic.  The innermost call
// frames come first in the notes.
func FromLisp(lerr *lisp.LVal) Diagnostic {
	ev := (*lisp.ErrorVal)(lerr)
	d := Diagnostic{
		Severity: SeverityError,
		Message:  ev.Summary(),
	}
	if lerr.Source != nil && lerr.Source.Pos >= 0 {
		span := Span{
			File: lerr.Source.File,
			Line: lerr.Source.Line,
			Col:  lerr.Source.Col,
		}
		if lerr.Source.Path != "" {
			span.File = lerr.Source.Path
		}
		d.Spans = append(d.Spans, span)
	}
	stack := lerr.CallStack()
	if stack != nil {
		for i := len(stack.Frames) - 1; i >= 0; i-- {
			d.Notes = append(d.Notes, "in "+stack.Frames[i].String())
		}
	}
	return d
}

// FromError converts err to a Diagnostic.  Lisp errors anywhere in the
// chain of err keep their location and call stack.
func FromError(err error) Diagnostic {
	var ev *lisp.ErrorVal
	if errors.As(err, &ev) {
		d := FromLisp((*lisp.LVal)(ev))
		if msg := err.Error(); msg != ev.Error() {
			d.Message = msg
		}
		return d
	}
	return Diagnostic{Severity: SeverityError, Message: err.Error()}
}
