// Copyright © 2018 The ELPS authors

package lisp

import (
	"math"
	"strings"
	"unicode/utf8"
)

// LBuiltinDef is a built-in function
type LBuiltinDef interface {
	Name() string
	Formals() *LVal
	Eval(env *LEnv, args []*LVal) *LVal
}

// Docstringer is implemented by builtins which carry documentation.
type Docstringer interface {
	Docstring() string
}

type langBuiltin struct {
	name    string
	formals *LVal
	fun     LBuiltin
	docs    string
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() *LVal {
	return fun.formals
}

func (fun *langBuiltin) Eval(env *LEnv, args []*LVal) *LVal {
	return fun.fun(env, args)
}

func (fun *langBuiltin) Docstring() string {
	return fun.docs
}

// NewBuiltin returns an LBuiltinDef which can be added to an environment
// with LEnv.AddBuiltins.
func NewBuiltin(name string, formals *LVal, fn LBuiltin, docs string) LBuiltinDef {
	return &langBuiltin{name, formals, fn, docs}
}

var langBuiltins = []*langBuiltin{
	{"+", Formals("a", "b"), builtinAdd,
		`Returns the sum of two numbers. The library redefines + to
		accept any number of arguments.`},
	{"-", Formals("a", "b"), builtinSub,
		`Returns a minus b.`},
	{"*", Formals("a", "b"), builtinMul,
		`Returns the product of two numbers.`},
	{"/", Formals("a", "b"), builtinDiv,
		`Returns a divided by b. Signals a primitive-error when b is
		zero.`},
	{"%", Formals("a", "b"), builtinMod,
		`Returns the floating point remainder of a divided by b, with
		the sign of a. Signals a primitive-error when b is zero.`},
	{"=", Formals("a", "b"), builtinEqual,
		`Returns t if a and b are structurally equal. Lists are equal
		when their elements are equal. Functions are only equal to
		themselves.`},
	{"<", Formals("a", "b"), builtinLT,
		`Returns t if the number a is less than b.`},
	{">", Formals("a", "b"), builtinGT,
		`Returns t if the number a is greater than b.`},
	{"<=", Formals("a", "b"), builtinLEq,
		`Returns t if the number a is less than or equal to b.`},
	{">=", Formals("a", "b"), builtinGEq,
		`Returns t if the number a is greater than or equal to b.`},
	{"cons", Formals("head", "tail"), builtinCons,
		`Returns a new pair (head . tail). When tail is a list the
		result is a list one element longer.`},
	{"car", Formals("pair"), builtinCar,
		`Returns the first element of a pair. The car of nil is nil.`},
	{"cdr", Formals("pair"), builtinCdr,
		`Returns the rest of a pair. The cdr of nil is nil.`},
	{"pair?", Formals("value"), builtinIsPair,
		`Returns t if value is a pair.`},
	{"symbol?", Formals("value"), builtinIsSymbol,
		`Returns t if value is a symbol.`},
	{"string?", Formals("value"), builtinIsString,
		`Returns t if value is a string.`},
	{"number?", Formals("value"), builtinIsNumber,
		`Returns t if value is a number.`},
	{"string-length", Formals("str"), builtinStringLength,
		`Returns the number of characters in str.`},
	{"println", Formals(VarArgSymbol, "values"), builtinPrintln,
		`Writes values to standard output separated by spaces and
		followed by a newline. Strings are written without quotes.
		Returns nil.`},
	{"to-string", Formals("value"), builtinToString,
		`Returns the printed representation of value as a string.
		Strings are returned unchanged.`},
	{"apply", Formals("fun", "args"), builtinApply,
		`Calls fun with the elements of the list args as its arguments.
		When fun is a macro the elements are passed as unevaluated
		forms and the expansion is evaluated.`},
}

// DefaultBuiltins returns the default set of LBuiltinDefs added to LEnv
// objects by InitializeUserEnv.
func DefaultBuiltins() []LBuiltinDef {
	ops := make([]LBuiltinDef, len(langBuiltins))
	for i := range langBuiltins {
		ops[i] = langBuiltins[i]
	}
	return ops
}

func numericArgs(env *LEnv, args []*LVal) (float64, float64, *LVal) {
	for _, arg := range args {
		if arg.Type != LNumber {
			return 0, 0, env.ErrorConditionf(CondTypeError, "argument is not a number: %v", arg)
		}
	}
	return args[0].Number, args[1].Number, nil
}

func builtinAdd(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := numericArgs(env, args)
	if lerr != nil {
		return lerr
	}
	return Number(a + b)
}

func builtinSub(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := numericArgs(env, args)
	if lerr != nil {
		return lerr
	}
	return Number(a - b)
}

func builtinMul(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := numericArgs(env, args)
	if lerr != nil {
		return lerr
	}
	return Number(a * b)
}

func builtinDiv(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := numericArgs(env, args)
	if lerr != nil {
		return lerr
	}
	if b == 0 {
		return env.ErrorConditionf(CondPrimitiveError, "division by zero")
	}
	return Number(a / b)
}

func builtinMod(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := numericArgs(env, args)
	if lerr != nil {
		return lerr
	}
	if b == 0 {
		return env.ErrorConditionf(CondPrimitiveError, "modulus by zero")
	}
	return Number(math.Mod(a, b))
}

func builtinEqual(env *LEnv, args []*LVal) *LVal {
	return Bool(Equal(args[0], args[1]))
}

func builtinLT(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := numericArgs(env, args)
	if lerr != nil {
		return lerr
	}
	return Bool(a < b)
}

func builtinGT(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := numericArgs(env, args)
	if lerr != nil {
		return lerr
	}
	return Bool(a > b)
}

func builtinLEq(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := numericArgs(env, args)
	if lerr != nil {
		return lerr
	}
	return Bool(a <= b)
}

func builtinGEq(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := numericArgs(env, args)
	if lerr != nil {
		return lerr
	}
	return Bool(a >= b)
}

func builtinCons(env *LEnv, args []*LVal) *LVal {
	return Cons(args[0], args[1])
}

func builtinCar(env *LEnv, args []*LVal) *LVal {
	switch args[0].Type {
	case LNil, LPair:
		return args[0].Car()
	default:
		return env.ErrorConditionf(CondTypeError, "car: argument is not a pair: %v", args[0])
	}
}

func builtinCdr(env *LEnv, args []*LVal) *LVal {
	switch args[0].Type {
	case LNil, LPair:
		return args[0].Cdr()
	default:
		return env.ErrorConditionf(CondTypeError, "cdr: argument is not a pair: %v", args[0])
	}
}

func builtinIsPair(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LPair)
}

func builtinIsSymbol(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LSymbol)
}

func builtinIsString(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LString)
}

func builtinIsNumber(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LNumber)
}

func builtinStringLength(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LString {
		return env.ErrorConditionf(CondTypeError, "string-length: argument is not a string: %v", args[0])
	}
	return Number(float64(utf8.RuneCountInString(args[0].Str)))
}

func builtinPrintln(env *LEnv, args []*LVal) *LVal {
	parts := make([]string, len(args))
	for i := range args {
		parts[i] = Display(args[i])
	}
	_, err := env.Runtime.getStdout().Write([]byte(strings.Join(parts, " ") + "\n"))
	if err != nil {
		return env.ErrorCondition(CondIOError, err)
	}
	return Nil()
}

func builtinToString(env *LEnv, args []*LVal) *LVal {
	if args[0].Type == LString {
		return args[0]
	}
	return String(args[0].String())
}

func builtinApply(env *LEnv, args []*LVal) *LVal {
	fun, list := args[0], args[1]
	if fun.Type != LFun {
		return env.ErrorConditionf(CondTypeError, "apply: first argument is not a function: %v", fun)
	}
	cells, ok := list.Slice()
	if !ok {
		return env.ErrorConditionf(CondTypeError, "apply: second argument is not a list: %v", list)
	}
	if fun.IsMacro() {
		r := env.MacroCall(fun, list)
		if r.Type == LMarkMacExpand {
			return env.Eval(r.Cells[0])
		}
		return r
	}
	return env.FunCall(fun, cells)
}
