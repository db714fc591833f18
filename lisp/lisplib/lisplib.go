// Copyright © 2018 The ELPS authors

// Package lisplib holds the library of lisp definitions loaded into every
// interpreter before user code.
package lisplib

import (
	_ "embed"

	"github.com/luthersystems/conslisp/lisp"
)

// SourceName is the name reported in source locations for library forms.
const SourceName = "lib.lisp"

//go:embed lib.lisp
var source string

// Source returns the text of the bundled library.
func Source() string {
	return source
}

// LoadLibrary evaluates the bundled library in env, which should be a root
// environment whose runtime has a Reader.  Any error is returned and the
// library may be partially loaded.
func LoadLibrary(env *lisp.LEnv) *lisp.LVal {
	return env.LoadString(SourceName, source)
}
