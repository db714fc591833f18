// Copyright © 2018 The ELPS authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	used := make(map[string]bool)
	for tok := Type(0); tok < numTokenTypes; tok++ {
		str := tok.String()
		if str == "" {
			t.Errorf("token type %x has empty string value", tok)
			continue
		}
		if used[str] {
			t.Errorf("token type string used twice: %v", tok)
		}
		used[str] = true
	}
	assert.Equal(t, "invalid", numTokenTypes.String())
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "<native>", (&Location{File: "<native>", Pos: -1}).String())
	assert.Equal(t, "a.lisp[4]", (&Location{File: "a.lisp", Pos: 4}).String())
	assert.Equal(t, "a.lisp:3", (&Location{File: "a.lisp", Line: 3}).String())
	assert.Equal(t, "a.lisp:3:7", (&Location{File: "a.lisp", Line: 3, Col: 7}).String())
}
