// Copyright © 2018 The ELPS authors

package lisp

// MacroCall invokes macro fun with the unevaluated argument list args.  The
// arguments are bound like those of a function, in a child of the macro's
// environment.  The value returned by the macro body is wrapped in a mark
// which tells Eval to evaluate it again in the calling environment.
func (env *LEnv) MacroCall(fun, args *LVal) *LVal {
	if fun.Type != LFun || !fun.IsMacro() {
		return env.ErrorConditionf(CondEvalError, "not a macro: %v", fun)
	}
	forms, ok := args.Slice()
	if !ok {
		return env.ErrorConditionf(CondEvalError, "macro arguments are not a list: %v", args)
	}

	if env.Runtime.Profiler != nil {
		defer env.trace(fun)()
	}

	// Push a frame onto the stack to represent the macro's expansion.
	err := env.Runtime.Stack.PushFID(env.Loc, fun.FID(), fun.FunData().Name)
	if err != nil {
		return env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()

	r := env.call(fun, forms)
	if r.Type == LError {
		return r
	}
	return markMacExpand(r)
}

// MacroExpand1 expands form once if it is a call to a macro bound in env.
// The second return value is false if form is not a macro call.
func (env *LEnv) MacroExpand1(form *LVal) (*LVal, bool) {
	if form.Type != LPair || form.Cells[0].Type != LSymbol || IsSpecialOp(form.Cells[0].Str) {
		return form, false
	}
	fun := env.Get(form.Cells[0])
	if fun.Type != LFun || !fun.IsMacro() {
		return form, false
	}
	r := env.MacroCall(fun, form.Cells[1])
	if r.Type == LMarkMacExpand {
		return r.Cells[0], true
	}
	return r, true
}
