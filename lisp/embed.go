// Copyright © 2018 The ELPS authors

package lisp

// GoValue converts v to its natural representation in Go.  Proper lists are
// turned into slices and symbols are converted to strings.  The value Nil()
// is converted to nil.  Functions and dotted pairs are returned as is.
func GoValue(v *LVal) interface{} {
	switch v.Type {
	case LNil:
		return nil
	case LError:
		return GoError(v)
	case LSymbol, LString:
		return v.Str
	case LNumber:
		return v.Number
	case LPair:
		s, ok := GoSlice(v)
		if !ok {
			return v
		}
		return s
	}
	return v
}

// GoSlice returns the elements of the proper list v converted with GoValue.
// If v is not a proper list GoSlice returns a false second argument.
func GoSlice(v *LVal) ([]interface{}, bool) {
	cells, ok := v.Slice()
	if !ok {
		return nil, false
	}
	s := make([]interface{}, len(cells))
	for i := range cells {
		s[i] = GoValue(cells[i])
	}
	return s, true
}

// GoString returns the string that v represents and the value true.  If v does
// not represent a string GoString returns a false second argument
func GoString(v *LVal) (string, bool) {
	if v.Type != LString {
		return "", false
	}
	return v.Str, true
}

// GoFloat64 returns the number that v represents and the value true.  If v
// does not represent a number GoFloat64 returns a false second argument.
func GoFloat64(v *LVal) (float64, bool) {
	if v.Type != LNumber {
		return 0, false
	}
	return v.Number, true
}

// SymbolName returns the name of the symbol that v represents and the value
// true.  If v does not represent a symbol SymbolName returns a false second
// argument
func SymbolName(v *LVal) (string, bool) {
	if v.Type != LSymbol {
		return "", false
	}
	return v.Str, true
}

// Value converts a Go value to an LVal.  Integer and float kinds become
// numbers, strings become strings, bools become t or nil, and slices become
// lists.  Values already of type *LVal are returned unchanged.
func Value(v interface{}) *LVal {
	switch v := v.(type) {
	case nil:
		return Nil()
	case *LVal:
		return v
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case []interface{}:
		vals := make([]*LVal, len(v))
		for i := range v {
			vals[i] = Value(v[i])
		}
		return List(vals...)
	case []string:
		vals := make([]*LVal, len(v))
		for i := range v {
			vals[i] = String(v[i])
		}
		return List(vals...)
	case error:
		return ErrorCondition(CondError, v)
	}
	return Errorf("cannot convert %T to a lisp value", v)
}
