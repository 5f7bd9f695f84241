// Copyright © 2018 The ELPS authors

package lispet

// Eval evaluates v in the context (scope) of env and returns the resulting
// LVal.  Eval does not modify v.  Numbers, errors, functions and QExprs
// evaluate to themselves.
func (env *LEnv) Eval(v *LVal) *LVal {
	switch v.Type {
	case LSym:
		return env.Get(v)
	case LSExpr:
		return env.EvalSExpr(v)
	default:
		return v
	}
}

// EvalSExpr evaluates s and returns the resulting LVal.
//
// Every cell is evaluated, left to right, before any of them is inspected.
// The first error among the results is returned and the remaining results are
// discarded.  An empty expression evaluates to itself and an expression with
// a single cell evaluates to that cell's value (a nullary builtin, like exit,
// is applied instead).  Otherwise the first value must be a function and it
// is applied to the rest.
func (env *LEnv) EvalSExpr(s *LVal) *LVal {
	if s.Type != LSExpr {
		return Errorf(ErrWrongArgumentType, "not an s-expression: %v", s.Type)
	}
	stack := env.Runtime.Stack
	err := stack.Push()
	if err != nil {
		return Errorf(ErrResourceExhausted, "%v", err)
	}
	defer stack.Pop()

	cells := make([]*LVal, len(s.Cells))
	for i, c := range s.Cells {
		cells[i] = env.Eval(c)
	}
	for _, c := range cells {
		if c.Type == LErr {
			return c
		}
	}
	switch len(cells) {
	case 0:
		return s
	case 1:
		if isNullaryBuiltin(cells[0]) {
			return env.Call(cells[0], SExpr(nil))
		}
		return cells[0]
	}
	fun := cells[0]
	if fun.Type != LFun {
		return Errorf(ErrNotAFunction,
			"S-Expression starts with incorrect type. Got %v, Expected %v.", fun.Type, LFun)
	}
	return env.Call(fun, SExpr(cells[1:]))
}

func isNullaryBuiltin(v *LVal) bool {
	return v.Type == LFun && v.Fun.IsBuiltin() && v.Fun.Op.def().max == 0
}

// Call applies fun to args.  The args are owned by the call and may be bound
// directly into the callee's environment.  A Go panic raised during the
// application is recovered and returned as an ErrInternal value.
func (env *LEnv) Call(fun, args *LVal) (ret *LVal) {
	if fun.Type != LFun {
		return Errorf(ErrNotAFunction, "not a function: %v", fun.Type)
	}
	name := fun.Fun.Name()
	if top := env.Runtime.Stack.Top(); top != nil {
		top.Name = name
	}
	if p := env.Runtime.Profiler; p != nil && p.IsEnabled() {
		defer p.Start(fun)()
	}
	defer func() {
		if r := recover(); r != nil {
			_, _ = env.Runtime.Stack.DebugPrint(env.Runtime.getStderr())
			ret = Errorf(ErrInternal, "recovered panic in '%s': %v", name, r)
		}
	}()

	if fun.Fun.IsBuiltin() {
		return fun.Fun.Op.call(env, args)
	}
	return env.callLambda(fun.Fun, args)
}

// callLambda binds args to the formals of fn in a fresh environment whose
// parent is the lambda's captured environment.  When every formal is bound
// the body is evaluated in that environment.  Otherwise a new lambda over the
// remaining formals is returned, capturing the environment built so far.
func (env *LEnv) callLambda(fn *LFunData, args *LVal) *LVal {
	formals := fn.Formals.Cells
	if len(args.Cells) > len(formals) {
		return Errorf(ErrTooManyArguments,
			"Function passed too many arguments. Got %d, Expected %d.", len(args.Cells), len(formals))
	}
	parent := fn.Env
	if parent == nil {
		parent = env
	}
	callenv := NewEnv(parent)
	for i, arg := range args.Cells {
		sym := formals[i]
		if sym.Type != LSym {
			return errArgType(`\`, 0, sym.Type, LSym)
		}
		callenv.Scope[sym.Str] = arg
	}

	rest := formals[len(args.Cells):]
	if len(rest) > 0 {
		remaining := make([]*LVal, len(rest))
		for i := range rest {
			remaining[i] = rest[i].Copy()
		}
		return Lambda(QExpr(remaining), fn.Body.Copy(), callenv)
	}
	return callenv.Eval(SExpr(fn.Body.copyCells()))
}

// Name returns the name of a builtin or `\` for a lambda.
func (fun *LFunData) Name() string {
	if fun.IsBuiltin() {
		return fun.Op.String()
	}
	return `\`
}
