// Copyright © 2018 The ELPS authors

package regexparser_test

import (
	"strings"
	"testing"

	"github.com/luthersystems/conslisp/lisp/lisplib"
	"github.com/luthersystems/conslisp/parser/regexparser"
)

func BenchmarkParser(b *testing.B) {
	src := lisplib.Source()
	b.SetBytes(int64(len(src)))
	for i := 0; i < b.N; i++ {
		_, err := regexparser.NewReader().Read("lib.lisp", strings.NewReader(src))
		if err != nil {
			b.Fatalf("Parse failure: %v", err)
		}
	}
}
