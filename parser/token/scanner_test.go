// Copyright © 2018 The ELPS authors

package token

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerEOF(t *testing.T) {
	s := NewScanner("test", strings.NewReader("xy"))
	require.NoError(t, s.ScanRune())
	require.NoError(t, s.ScanRune())
	assert.True(t, s.EOF())
	assert.Equal(t, io.EOF, s.ScanRune())
	tok := s.EmitToken(SYMBOL)
	assert.Equal(t, "xy", tok.Text)
	assert.Equal(t, "", s.EmitToken(SYMBOL).Text)
}

func TestScannerAcceptSeq(t *testing.T) {
	s := NewScanner("test", strings.NewReader("xxxxy"))
	assert.Equal(t, 4, s.AcceptSeq(func(c rune) bool { return c == 'x' }))
	assert.Equal(t, "xxxx", s.EmitToken(SYMBOL).Text)
	assert.True(t, s.AcceptRune('y'))
	assert.False(t, s.AcceptRune('y'))
}

func TestScannerLocation(t *testing.T) {
	s := NewScanner("test", strings.NewReader("ab\n  cd"))
	s.AcceptSeq(func(c rune) bool { return c != '\n' })
	tok := s.EmitToken(SYMBOL)
	assert.Equal(t, 1, tok.Source.Line)
	assert.Equal(t, 1, tok.Source.Col)
	s.AcceptSeqSpace()
	s.Ignore()
	s.AcceptSeq(func(c rune) bool { return c != '\n' })
	tok = s.EmitToken(SYMBOL)
	assert.Equal(t, "cd", tok.Text)
	assert.Equal(t, 2, tok.Source.Line)
	assert.Equal(t, 3, tok.Source.Col)
	assert.Equal(t, 5, tok.Source.Pos)
	assert.Equal(t, "test:2:3", tok.Source.String())
}

func TestScannerInvalidUTF8(t *testing.T) {
	s := NewScanner("test", strings.NewReader("a\xffb"))
	require.NoError(t, s.ScanRune())
	assert.Error(t, s.ScanRune())
	assert.Error(t, s.Err())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device unplugged")
}

func TestScannerReadError(t *testing.T) {
	s := NewScanner("test", failingReader{})
	assert.True(t, s.EOF())
	assert.EqualError(t, s.Err(), "device unplugged")
}
