// Copyright © 2018 The ELPS authors

package rdparser_test

import (
	"strings"
	"testing"

	"github.com/luthersystems/conslisp/lisp/lisplib"
	"github.com/luthersystems/conslisp/parser/rdparser"
)

func BenchmarkParser(b *testing.B) {
	src := lisplib.Source()
	b.SetBytes(int64(len(src)))
	for i := 0; i < b.N; i++ {
		_, err := rdparser.NewReader().Read("lib.lisp", strings.NewReader(src))
		if err != nil {
			b.Fatalf("Parse failure: %v", err)
		}
	}
}
