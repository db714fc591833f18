// Copyright © 2018 The ELPS authors

package lisp

var langSpecialOps = []*langBuiltin{
	{"quote", Formals("expr"), opQuote,
		`Returns its argument unevaluated. This is the operator behind
		the ' prefix syntax.`},
	{"if", Formals("test", "then", "else"), opIf,
		`Evaluates test. When the result is non-nil, evaluates and
		returns then. Otherwise evaluates and returns else. Exactly one
		branch is evaluated.`},
	{"lambda", Formals("formals", "expr", VarArgSymbol, "exprs"), opLambda,
		`Returns an anonymous function closing over the current
		environment. Formals is a list of parameter names, a dotted list
		(a b . rest) whose final symbol receives the remaining arguments,
		or a single symbol which receives all arguments as a list. The
		body expressions are evaluated in order and the last value is
		returned.`},
	{"define", Formals("name", "expr", VarArgSymbol, "exprs"), opDefine,
		`Binds name in the current environment. (define name expr) binds
		the value of expr. (define (name . formals) body...) binds a
		function, as if by lambda. Returns the symbol name.`},
	{"defmacro", Formals("signature", "expr", VarArgSymbol, "exprs"), opDefmacro,
		`Defines a macro. The signature has the form (name . formals).
		The macro body receives its arguments unevaluated and returns a
		form which is evaluated in place of the macro call. Returns the
		symbol name.`},
}

var specialOpIndex map[string]*langBuiltin

func init() {
	specialOpIndex = make(map[string]*langBuiltin, len(langSpecialOps))
	for _, op := range langSpecialOps {
		specialOpIndex[op.name] = op
	}
}

func lookupSpecialOp(name string) LBuiltinDef {
	if op, ok := specialOpIndex[name]; ok {
		return op
	}
	return nil
}

// IsSpecialOp returns true if name is handled by the evaluator rather than
// resolved in the environment.
func IsSpecialOp(name string) bool {
	_, ok := specialOpIndex[name]
	return ok
}

// DefaultSpecialOps returns the special operators understood by the
// evaluator.
func DefaultSpecialOps() []LBuiltinDef {
	ops := make([]LBuiltinDef, len(langSpecialOps))
	for i := range langSpecialOps {
		ops[i] = langSpecialOps[i]
	}
	return ops
}

func opQuote(env *LEnv, args []*LVal) *LVal {
	return args[0]
}

func opIf(env *LEnv, args []*LVal) *LVal {
	test := env.Eval(args[0])
	if test.Type == LError {
		return test
	}
	if test.IsTrue() {
		return env.Eval(args[1])
	}
	return env.Eval(args[2])
}

func opLambda(env *LEnv, args []*LVal) *LVal {
	return env.Lambda(args[0], List(args[1:]...))
}

func opDefine(env *LEnv, args []*LVal) *LVal {
	target := args[0]
	switch target.Type {
	case LSymbol:
		if len(args) != 2 {
			return env.ErrorConditionf(CondArityError, "define: expected 2 arguments, got %d", len(args))
		}
		val := env.Eval(args[1])
		if val.Type == LError {
			return val
		}
		nameFun(val, target.Str)
		env.Put(target, val)
		return target
	case LPair:
		name := target.Cells[0]
		if name.Type != LSymbol {
			return env.ErrorConditionf(CondSyntaxError, "define: function name is not a symbol: %v", name)
		}
		// The function closes over a private frame holding its own binding.
		// Recursive calls resolve through that frame even after name is
		// rebound in env.
		fenv := NewEnv(env)
		fun := fenv.Lambda(target.Cells[1], List(args[1:]...))
		if fun.Type == LError {
			return fun
		}
		nameFun(fun, name.Str)
		fenv.Put(name, fun)
		env.Put(name, fun)
		return name
	default:
		return env.ErrorConditionf(CondSyntaxError, "define: first argument is not a symbol or signature: %v", target)
	}
}

func opDefmacro(env *LEnv, args []*LVal) *LVal {
	sig := args[0]
	if sig.Type != LPair || sig.Cells[0].Type != LSymbol {
		return env.ErrorConditionf(CondSyntaxError, "defmacro: expected a signature (name . formals): %v", sig)
	}
	name := sig.Cells[0]
	fun := env.Lambda(sig.Cells[1], List(args[1:]...))
	if fun.Type == LError {
		return fun
	}
	fun.FunType = LFunMacro
	nameFun(fun, name.Str)
	env.Put(name, fun)
	return name
}

func nameFun(v *LVal, name string) {
	if v.Type == LFun && v.FunData().Name == "" {
		v.FunData().Name = name
	}
}
