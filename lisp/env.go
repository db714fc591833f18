// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"sort"

	"github.com/luthersystems/conslisp/parser/token"
)

// LEnv is a lisp environment.  Environments form a tree through their Parent
// references; lookup only ever walks outward toward the root.
type LEnv struct {
	Loc     *token.Location
	Scope   map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
	ID      uint
}

// InitializeUserEnv creates the default user environment.  The symbol t is
// bound to itself and every primitive in DefaultBuiltins is bound by name.
// Options in config are applied in order after the primitives are installed.
func InitializeUserEnv(env *LEnv, config ...Config) *LVal {
	env.Put(Symbol(TrueSymbol), Symbol(TrueSymbol))
	env.AddBuiltins(DefaultBuiltins()...)
	for _, fn := range config {
		lerr := fn(env)
		if lerr.Type == LError {
			return lerr
		}
	}
	return Nil()
}

// NewEnvRuntime initializes a new LEnv, like NewEnv, but it explicitly
// specifies the runtime to use.  NewEnvRuntime is only suitable for creating
// root LEnv object, so it does not take a parent argument.  When rt is nil
// StandardRuntime() called to create a new Runtime for the returned LEnv.
// Two root environments must never share a runtime.
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &LEnv{
		ID:      rt.GenEnvID(),
		Loc:     nativeSource(),
		Scope:   make(map[string]*LVal),
		Runtime: rt,
	}
}

// NewEnv returns a new LEnv whose parent is parent.  A nil parent creates a
// root environment with a standard runtime.
func NewEnv(parent *LEnv) *LEnv {
	if parent == nil {
		return NewEnvRuntime(nil)
	}
	return &LEnv{
		ID:      parent.Runtime.GenEnvID(),
		Loc:     parent.Loc,
		Scope:   make(map[string]*LVal),
		Parent:  parent,
		Runtime: parent.Runtime,
	}
}

// Get takes an LSymbol k and returns the LVal it is bound to in env or one
// of its ancestors.  An unbound symbol produces an unbound-symbol error.
func (env *LEnv) Get(k *LVal) *LVal {
	if k.Type != LSymbol {
		return env.ErrorConditionf(CondTypeError, "cannot look up a %v", k.Type)
	}
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[k.Str]; ok {
			return v
		}
	}
	return env.ErrorConditionf(CondUnboundSymbol, "unbound symbol: %v", k.Str)
}

// Put takes an LSymbol k and binds it to v in env's local frame, replacing
// any existing binding in that frame.  Parent frames are never modified.
func (env *LEnv) Put(k, v *LVal) *LVal {
	if k.Type != LSymbol {
		return env.ErrorConditionf(CondTypeError, "cannot bind a %v", k.Type)
	}
	if v == nil {
		panic("nil value")
	}
	env.Scope[k.Str] = v
	return Nil()
}

// Root returns the root of env's tree.
func (env *LEnv) Root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// Symbols returns the sorted names visible from env.
func (env *LEnv) Symbols() []string {
	seen := make(map[string]bool)
	var names []string
	for e := env; e != nil; e = e.Parent {
		for k := range e.Scope {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Lambda returns a new closure over env with the given parameter spec and
// body.  Every binding position in formals must be a symbol.
func (env *LEnv) Lambda(formals *LVal, body *LVal) *LVal {
	if lerr := env.checkFormals(formals); lerr != nil {
		return lerr
	}
	if !body.IsList() {
		return env.ErrorConditionf(CondSyntaxError, "function body is not a list: %v", body)
	}
	return Lambda(env, env.Runtime.GenFID(), formals, body)
}

func (env *LEnv) checkFormals(formals *LVal) *LVal {
	for formals.Type == LPair {
		if formals.Cells[0].Type != LSymbol {
			return env.ErrorConditionf(CondSyntaxError, "parameter is not a symbol: %v", formals.Cells[0])
		}
		formals = formals.Cells[1]
	}
	switch formals.Type {
	case LNil, LSymbol:
		return nil
	default:
		return env.ErrorConditionf(CondSyntaxError, "rest parameter is not a symbol: %v", formals)
	}
}

// AddBuiltins binds the given primitives in env.
func (env *LEnv) AddBuiltins(funs ...LBuiltinDef) {
	for _, f := range funs {
		env.Put(Symbol(f.Name()), env.builtin(f))
	}
}

func (env *LEnv) builtin(f LBuiltinDef) *LVal {
	fun := Fun(env.Runtime.GenFID(), f.Name(), f.Formals(), f.Eval)
	if d, ok := f.(Docstringer); ok {
		fun.Cells[1] = String(d.Docstring())
	}
	return fun
}

// Error returns an LError with condition error whose message is composed of
// msg.  Error may be called either with an error or with any number of
// values.  It is invalid to pass an error argument with any other values and
// doing so will result in a runtime panic.
//
// Unlike the exported function, the Error method returns LVal with a copy
// env.Runtime.Stack.
func (env *LEnv) Error(msg ...interface{}) *LVal {
	return env.ErrorCondition(CondError, msg...)
}

// ErrorCondition returns an LError the given condition type and an error
// message computed by rendering v.
func (env *LEnv) ErrorCondition(condition string, v ...interface{}) *LVal {
	narg := len(v)
	cells := make([]*LVal, 0, len(v))
	var cause error
	for _, v := range v {
		switch v := v.(type) {
		case *LVal:
			cells = append(cells, v)
		case error:
			if narg > 1 {
				panic("invalid error argument")
			}
			cause = v
			cells = append(cells, String(v.Error()))
		case string:
			cells = append(cells, String(v))
		default:
			cells = append(cells, String(fmt.Sprint(v)))
		}
	}
	return &LVal{
		Type:   LError,
		Source: env.Loc,
		Str:    condition,
		Native: &errorData{Stack: env.Runtime.Stack.Copy(), Cause: cause},
		Cells:  cells,
	}
}

// Errorf returns an LError value with a formatted error message.
func (env *LEnv) Errorf(format string, v ...interface{}) *LVal {
	return env.ErrorConditionf(CondError, format, v...)
}

// ErrorConditionf returns an LError value with the given condition type and a
// a formatted error message rendered using fmt.Sprintf.
func (env *LEnv) ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	return &LVal{
		Source: env.Loc,
		Type:   LError,
		Str:    condition,
		Native: &errorData{Stack: env.Runtime.Stack.Copy()},
		Cells:  []*LVal{String(fmt.Sprintf(format, v...))},
	}
}

// ErrorAssociate associates the LError value lerr with env's current call
// stack and source location.  ErrorAssociate panics if lerr is not LError.
func (env *LEnv) ErrorAssociate(lerr *LVal) {
	if lerr.Type != LError {
		panic("not an error: " + lerr.Type.String())
	}
	if lerr.CallStack() == nil {
		lerr.setCallStack(env.Runtime.Stack.Copy())
	}
	// Native code has an invalid position.  The current location is at
	// least as accurate.
	if lerr.Source == nil || lerr.Source.Pos < 0 {
		lerr.Source = env.Loc
	}
}

// Eval evaluates v in the context (scope) of env and returns the resulting
// LVal.  Eval does not modify v.
func (env *LEnv) Eval(v *LVal) *LVal {
eval:
	if v.Source != nil {
		env.Loc = v.Source
	}
	switch v.Type {
	case LSymbol:
		return env.Get(v)
	case LPair:
		res := env.EvalPair(v)
		if res.Type == LMarkMacExpand {
			// A macro was just expanded and returned an unevaluated
			// expression.  We have to evaluate the result before we return.
			v = res.Cells[0]
			goto eval
		}
		if res.Type == LError {
			env.ErrorAssociate(res)
		}
		return res
	case LMarkMacExpand:
		return env.ErrorConditionf(CondEvalError, "macro expansion marker used as expression")
	default:
		return v
	}
}

// EvalPair evaluates the non-empty list s.  Special operators receive their
// arguments unevaluated, macros are expanded, and everything else is a
// function application.
func (env *LEnv) EvalPair(s *LVal) *LVal {
	if s.Type != LPair {
		return env.ErrorConditionf(CondEvalError, "not a list: %v", s)
	}
	if !s.IsList() {
		return env.ErrorConditionf(CondEvalError, "cannot evaluate improper list: %v", s)
	}
	head := s.Cells[0]
	if head.Type == LSymbol {
		if op := lookupSpecialOp(head.Str); op != nil {
			return env.SpecialOpCall(op, s.Cells[1])
		}
	}
	fun := env.Eval(head)
	if fun.Type == LError {
		return fun
	}
	if fun.Type != LFun {
		return env.ErrorConditionf(CondEvalError, "not a function: %v", fun)
	}
	if fun.IsMacro() {
		if s.Source != nil {
			env.Loc = s.Source
		}
		return env.MacroCall(fun, s.Cells[1])
	}
	args, _ := s.Cells[1].Slice()
	vals := make([]*LVal, len(args))
	for i, arg := range args {
		vals[i] = env.Eval(arg)
		if vals[i].Type == LError {
			return vals[i]
		}
	}
	if s.Source != nil {
		env.Loc = s.Source
	}
	return env.FunCall(fun, vals)
}

// SpecialOpCall invokes special operator op with the unevaluated argument
// list args.
func (env *LEnv) SpecialOpCall(op LBuiltinDef, args *LVal) *LVal {
	cells, _ := args.Slice()
	if lerr := env.checkArity(op.Name(), op.Formals(), cells); lerr != nil {
		return lerr
	}
	err := env.Runtime.Stack.PushFID(env.Loc, op.Name(), op.Name())
	if err != nil {
		return env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()
	return op.Eval(env, cells)
}

func (env *LEnv) trace(fun *LVal) func() {
	if env.Runtime.Profiler == nil {
		return func() {}
	}
	return env.Runtime.Profiler.Start(fun)
}

// FunCall invokes regular function fun with the evaluated arguments args.
func (env *LEnv) FunCall(fun *LVal, args []*LVal) *LVal {
	if fun.Type != LFun {
		return env.ErrorConditionf(CondEvalError, "not a function: %v", fun)
	}
	if fun.IsMacro() {
		return env.ErrorConditionf(CondEvalError, "not a regular function: %v", fun.FunData().Name)
	}

	if env.Runtime.Profiler != nil {
		defer env.trace(fun)()
	}

	// Push a frame onto the stack to represent the function's execution.
	err := env.Runtime.Stack.PushFID(env.Loc, fun.FID(), fun.FunData().Name)
	if err != nil {
		return env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()

	r := env.call(fun, args)
	if r == nil {
		_, _ = env.Runtime.Stack.DebugPrint(env.Runtime.getStderr())
		panic("nil LVal returned from function call")
	}
	return r
}

// call invokes LFun fun with the list args.  The caller is responsible for
// the call stack.
func (env *LEnv) call(fun *LVal, args []*LVal) *LVal {
	fn := fun.FunData().Builtin
	if fn != nil {
		if lerr := env.checkArity(fun.FunData().Name, fun.Formals(), args); lerr != nil {
			return lerr
		}
		return fn(env, args)
	}
	fenv, lerr := env.bind(fun, args)
	if lerr != nil {
		return lerr
	}
	return fenv.evalBody(fun.Body())
}

func (env *LEnv) evalBody(body *LVal) *LVal {
	ret := Nil()
	for ; body.Type == LPair; body = body.Cells[1] {
		ret = env.Eval(body.Cells[0])
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// bind returns a new child of fun's captured environment in which the
// formal parameters of fun are bound to args.  Binding walks the parameter
// spec and args in lockstep; a trailing symbol absorbs the remaining
// arguments as a list.
func (env *LEnv) bind(fun *LVal, args []*LVal) (*LEnv, *LVal) {
	fenv := NewEnv(fun.Env())
	formals := fun.Formals()
	i := 0
	for formals.Type == LPair {
		if i >= len(args) {
			return nil, env.ErrorConditionf(CondArityError,
				"too few arguments: expected %v, got %d", fun.Formals(), len(args))
		}
		fenv.Put(formals.Cells[0], args[i])
		formals = formals.Cells[1]
		i++
	}
	if formals.Type == LSymbol {
		fenv.Put(formals, List(args[i:]...))
		return fenv, nil
	}
	if i < len(args) {
		return nil, env.ErrorConditionf(CondArityError,
			"too many arguments: expected %v, got %d", fun.Formals(), len(args))
	}
	return fenv, nil
}

// checkArity validates the number of arguments given to a builtin or
// special operator against its formals.
func (env *LEnv) checkArity(name string, formals *LVal, args []*LVal) *LVal {
	n := 0
	for ; formals.Type == LPair; formals = formals.Cells[1] {
		n++
	}
	switch {
	case formals.IsNil() && len(args) != n:
		return env.ErrorConditionf(CondArityError,
			"%s: expected %d argument(s), got %d", name, n, len(args))
	case len(args) < n:
		return env.ErrorConditionf(CondArityError,
			"%s: expected at least %d argument(s), got %d", name, n, len(args))
	}
	return nil
}
