// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/luthersystems/conslisp/parser/token"
)

// LType is the type of an LVal
type LType uint

// Possible LValType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LNil is the type of the singleton returned by Nil().  It is both the
	// empty list and the false value.
	LNil
	// LNumber values store a float64 in the LVal.Number field.
	LNumber
	// LString values store a string in the LVal.Str field.
	LString
	// LSymbol values store the symbol name in the LVal.Str field.
	LSymbol
	// LPair values store their first element in LVal.Cells[0] and the rest in
	// LVal.Cells[1].  Lists are chains of pairs terminated by nil.
	LPair
	// LFun values store an *LFunData in the LVal.Native field.
	//
	// A function defined in lisp (lambda, define, defmacro) uses Cells to
	// store the following items:
	//		[0]  the parameter spec
	//		[1]  the list of body expressions
	//
	// A builtin uses Cells to store its formals and a docstring.
	LFun
	// LError values store the error condition name in LVal.Str and the
	// message in LVal.Cells.  The LVal.Native field holds an *errorData
	// with a copy of the call stack and the Go error that caused it, if any.
	LError
	// LMarkMacExpand is returned by a macro call to signal that the
	// contained expression (Cells[0]) must be evaluated again in the
	// calling environment.  Programs never see mark values.
	LMarkMacExpand
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var lvalTypeStrings = []string{
	LInvalid:       "INVALID",
	LNil:           "nil",
	LNumber:        "number",
	LString:        "string",
	LSymbol:        "symbol",
	LPair:          "pair",
	LFun:           "function",
	LError:         "error",
	LMarkMacExpand: "marker-macro-expansion",
}

func (t LType) String() string {
	if t >= LType(len(lvalTypeStrings)) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LFunType distinguishes macros from normal functions.
type LFunType uint8

// LFunType constants.  LFunNone indicates a normal function.
const (
	LFunNone LFunType = iota
	LFunMacro
)

var lfunTypeStrings = []string{
	LFunNone:  "function",
	LFunMacro: "macro",
}

func (ft LFunType) String() string {
	if ft >= LFunType(len(lfunTypeStrings)) {
		return "invalid-function-type"
	}
	return lfunTypeStrings[ft]
}

// LBuiltin is a function implemented in Go.  Arguments have already been
// evaluated and checked against the builtin's formals.
type LBuiltin func(env *LEnv, args []*LVal) *LVal

// LFunData holds the implementation details of an LFun value.
type LFunData struct {
	Builtin LBuiltin
	Env     *LEnv
	FID     string
	Name    string
}

// LVal is a lisp value
type LVal struct {
	// Native is generic storage for data which cannot be represented as an
	// LVal (and thus can't be stored in Cells).
	Native interface{}

	// Source is the value's originating location in source code.  Programs
	// should not modify the contents of Source as the reference may be shared
	// by multiple LVals.
	Source *token.Location

	// Str used by LSymbol, LString and LError values
	Str string

	// Cells used by pairs, functions and errors as storage for lisp objects.
	Cells []*LVal

	// Type is the native type for a value in lisp.
	Type LType

	// Number is used by LNumber values.
	Number float64

	// FunType used to further classify LFun values.
	FunType LFunType
}

var lnil = &LVal{Type: LNil}

// TrueSymbol is the name of the canonical true value.
const TrueSymbol = "t"

// Nil returns the singleton nil value.  The empty list and false are both
// represented by Nil().
func Nil() *LVal {
	return lnil
}

// Number returns an LVal representing the number x.
func Number(x float64) *LVal {
	return &LVal{Type: LNumber, Number: x}
}

// String returns an LVal representing the string s.
func String(s string) *LVal {
	return &LVal{Type: LString, Str: s}
}

// Symbol returns an LVal representing the symbol s.  The symbol nil is not a
// symbol, it is Nil().
func Symbol(s string) *LVal {
	if s == "nil" {
		return Nil()
	}
	return &LVal{Type: LSymbol, Str: s}
}

// Bool returns the symbol t when b is true and nil otherwise.
func Bool(b bool) *LVal {
	if b {
		return Symbol(TrueSymbol)
	}
	return Nil()
}

// Cons returns a new pair (car . cdr).
func Cons(car, cdr *LVal) *LVal {
	return &LVal{Type: LPair, Cells: []*LVal{car, cdr}}
}

// List returns a proper list containing vals.
func List(vals ...*LVal) *LVal {
	return ListTail(vals, Nil())
}

// ListTail returns a list of vals terminated by tail.  A non-nil tail that is
// not a list produces a dotted structure.
func ListTail(vals []*LVal, tail *LVal) *LVal {
	lis := tail
	for i := len(vals) - 1; i >= 0; i-- {
		lis = Cons(vals[i], lis)
	}
	return lis
}

// Fun returns a builtin function named name with the given formals.
func Fun(fid string, name string, formals *LVal, fn LBuiltin) *LVal {
	return &LVal{
		Type:   LFun,
		Native: &LFunData{Builtin: fn, FID: fid, Name: name},
		Cells:  []*LVal{formals, String("")},
	}
}

// Lambda returns a closure over env.  Formals and body are not validated,
// use LEnv.Lambda to construct functions from source.
func Lambda(env *LEnv, fid string, formals, body *LVal) *LVal {
	return &LVal{
		Type:   LFun,
		Native: &LFunData{Env: env, FID: fid},
		Cells:  []*LVal{formals, body},
	}
}

// IsNil returns true if v is the nil value.
func (v *LVal) IsNil() bool {
	return v.Type == LNil
}

// IsTrue returns true for every value except nil.
func (v *LVal) IsTrue() bool {
	return v.Type != LNil
}

// IsMacro returns true if v is a macro.
func (v *LVal) IsMacro() bool {
	return v.Type == LFun && v.FunType == LFunMacro
}

// IsBuiltin returns true if v is implemented in Go.
func (v *LVal) IsBuiltin() bool {
	return v.Type == LFun && v.FunData().Builtin != nil
}

// FunData returns the function data of an LFun value.
func (v *LVal) FunData() *LFunData {
	if v.Type != LFun {
		return nil
	}
	return v.Native.(*LFunData)
}

// FID returns the unique identifier of a function.
func (v *LVal) FID() string {
	return v.FunData().FID
}

// Env returns the lexical environment captured by a function.  Builtins have
// no environment.
func (v *LVal) Env() *LEnv {
	return v.FunData().Env
}

// Formals returns a function's parameter spec.
func (v *LVal) Formals() *LVal {
	return v.Cells[0]
}

// Body returns the list of body expressions of a function defined in lisp.
func (v *LVal) Body() *LVal {
	if v.IsBuiltin() {
		return Nil()
	}
	return v.Cells[1]
}

// Docstring returns the documentation attached to a builtin.
func (v *LVal) Docstring() string {
	if !v.IsBuiltin() {
		return ""
	}
	return v.Cells[1].Str
}

// Car returns the first element of a pair.  The car of nil is nil.
func (v *LVal) Car() *LVal {
	if v.Type != LPair {
		return Nil()
	}
	return v.Cells[0]
}

// Cdr returns the rest of a pair.  The cdr of nil is nil.
func (v *LVal) Cdr() *LVal {
	if v.Type != LPair {
		return Nil()
	}
	return v.Cells[1]
}

// IsList returns true if v is nil or a chain of pairs terminated by nil.
func (v *LVal) IsList() bool {
	for v.Type == LPair {
		v = v.Cells[1]
	}
	return v.IsNil()
}

// Slice returns the elements of a proper list.  The second return value is
// false if v is not a proper list.
func (v *LVal) Slice() ([]*LVal, bool) {
	var s []*LVal
	for v.Type == LPair {
		s = append(s, v.Cells[0])
		v = v.Cells[1]
	}
	return s, v.IsNil()
}

// Len returns the number of pairs in the chain starting at v.
func (v *LVal) Len() int {
	n := 0
	for v.Type == LPair {
		n++
		v = v.Cells[1]
	}
	return n
}

// Equal returns true if a and b are structurally equal.  Functions are
// equal only to themselves.
func Equal(a, b *LVal) bool {
	for {
		if a == b {
			return true
		}
		if a.Type != b.Type {
			return false
		}
		switch a.Type {
		case LNil:
			return true
		case LNumber:
			return a.Number == b.Number
		case LString, LSymbol:
			return a.Str == b.Str
		case LPair:
			if !Equal(a.Cells[0], b.Cells[0]) {
				return false
			}
			a, b = a.Cells[1], b.Cells[1]
		case LError:
			return a.Str == b.Str && errorCellMessage(a.Cells) == errorCellMessage(b.Cells)
		default:
			return false
		}
	}
}

// FormatNumber returns the printed representation of x: the shortest
// decimal form that round trips, without an exponent.
func FormatNumber(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	case math.IsNaN(x):
		return "NaN"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func (v *LVal) String() string {
	var buf bytes.Buffer
	v.writeTo(&buf)
	return buf.String()
}

func (v *LVal) writeTo(buf *bytes.Buffer) {
	switch v.Type {
	case LNil:
		buf.WriteString("nil")
	case LNumber:
		buf.WriteString(FormatNumber(v.Number))
	case LString:
		buf.WriteString(strconv.Quote(v.Str))
	case LSymbol:
		buf.WriteString(v.Str)
	case LPair:
		writeList(buf, v)
	case LFun:
		switch {
		case v.IsBuiltin():
			fmt.Fprintf(buf, "#<builtin %s>", v.FunData().Name)
		case v.IsMacro():
			writeList(buf, Cons(Symbol("defmacro"), Cons(v.Cells[0], v.Cells[1])))
		default:
			writeList(buf, Cons(Symbol("lambda"), Cons(v.Cells[0], v.Cells[1])))
		}
	case LError:
		buf.WriteString((*ErrorVal)(v).Error())
	case LMarkMacExpand:
		buf.WriteString("#<macro-expansion ")
		v.Cells[0].writeTo(buf)
		buf.WriteString(">")
	default:
		fmt.Fprintf(buf, "#<%s>", v.Type)
	}
}

func writeList(buf *bytes.Buffer, v *LVal) {
	buf.WriteString("(")
	v.Cells[0].writeTo(buf)
	for v = v.Cells[1]; v.Type == LPair; v = v.Cells[1] {
		buf.WriteString(" ")
		v.Cells[0].writeTo(buf)
	}
	if !v.IsNil() {
		buf.WriteString(" . ")
		v.writeTo(buf)
	}
	buf.WriteString(")")
}

// Display returns the representation of v used by println: strings are
// written without quotes, everything else as by String.
func Display(v *LVal) string {
	if v.Type == LString {
		return v.Str
	}
	return v.String()
}

func markMacExpand(expr *LVal) *LVal {
	return &LVal{Type: LMarkMacExpand, Cells: []*LVal{expr}}
}

func nativeSource() *token.Location {
	return &token.Location{File: "<native code>", Pos: -1}
}
