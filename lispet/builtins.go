// Copyright © 2018 The ELPS authors

package lispet

// BuiltinOp identifies a native operation.  The set of operations is closed;
// LFun values dispatch on it with a switch.
type BuiltinOp uint8

// BuiltinOp constants.  OpNone marks a lambda.
const (
	OpNone BuiltinOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpList
	OpHead
	OpTail
	OpInit
	OpLen
	OpCons
	OpJoin
	OpEval
	OpDef
	OpLambda
	OpExit
	opMax
)

// variadic marks a builtinDef without an upper bound on its arguments.
const variadic = -1

type builtinDef struct {
	name    string
	formals *LVal
	min     int
	max     int
	docs    string
}

var langBuiltins = [opMax]builtinDef{
	OpAdd: {"+", Formals("x", "rest..."), 1, variadic,
		`Returns the sum of its arguments, folding left to right. Integer
		overflow wraps.`},
	OpSub: {"-", Formals("x", "rest..."), 1, variadic,
		`Subtracts each remaining argument from x, left to right. With a
		single argument returns its negation.`},
	OpMul: {"*", Formals("x", "rest..."), 1, variadic,
		`Returns the product of its arguments. Integer overflow wraps.`},
	OpDiv: {"/", Formals("x", "rest..."), 1, variadic,
		`Divides x by each remaining argument, left to right, truncating
		toward zero. Dividing by zero is an error.`},
	OpMod: {"%", Formals("x", "rest..."), 1, variadic,
		`Returns the remainder of dividing x by each remaining argument in
		turn. The result has the sign of the dividend. A zero divisor is an
		error.`},
	OpList: {"list", Formals("items..."), 0, variadic,
		`Returns its arguments as a Q-Expression.`},
	OpHead: {"head", Formals("qexpr"), 1, 1,
		`Returns a Q-Expression holding only the first element of a
		non-empty Q-Expression.`},
	OpTail: {"tail", Formals("qexpr"), 1, 1,
		`Returns a non-empty Q-Expression without its first element.`},
	OpInit: {"init", Formals("qexpr"), 1, 1,
		`Returns a non-empty Q-Expression without its last element.`},
	OpLen: {"len", Formals("qexpr"), 1, 1,
		`Returns the number of elements in a Q-Expression.`},
	OpCons: {"cons", Formals("value", "qexpr"), 2, 2,
		`Returns a Q-Expression with value prepended to qexpr.`},
	OpJoin: {"join", Formals("qexpr", "rest..."), 1, variadic,
		`Concatenates Q-Expressions in argument order.`},
	OpEval: {"eval", Formals("qexpr"), 1, 1,
		`Evaluates a Q-Expression as an S-Expression in the calling
		environment.`},
	OpDef: {"def", Formals("symbols", "values..."), 1, variadic,
		`Binds each symbol in the Q-Expression symbols to the corresponding
		value. Bindings are made in the outermost environment reachable from
		the caller, so they are visible globally. Returns ().`},
	OpLambda: {`\`, Formals("formals", "body"), 2, 2,
		`Constructs a function. formals is a Q-Expression of symbols and body
		is a Q-Expression evaluated once every formal is bound. Supplying
		fewer arguments than formals returns a function over the remaining
		formals.`},
	OpExit: {"exit", Formals(), 0, 0,
		`Terminates the process.`},
}

func (op BuiltinOp) def() *builtinDef {
	if op == OpNone || op >= opMax {
		return &builtinDef{name: "<invalid>", max: variadic}
	}
	return &langBuiltins[op]
}

func (op BuiltinOp) String() string {
	return op.def().name
}

// Docs returns the documentation for op.
func (op BuiltinOp) Docs() string {
	return op.def().docs
}

// Formals returns a QExpr naming the arguments op accepts.
func (op BuiltinOp) Formals() *LVal {
	return op.def().formals.Copy()
}

// Builtins returns every builtin operation in registry order.
func Builtins() []BuiltinOp {
	ops := make([]BuiltinOp, 0, opMax-1)
	for op := OpNone + 1; op < opMax; op++ {
		ops = append(ops, op)
	}
	return ops
}

// LookupBuiltin returns the operation bound to name by the registry.
func LookupBuiltin(name string) (BuiltinOp, bool) {
	for _, op := range Builtins() {
		if op.String() == name {
			return op, true
		}
	}
	return OpNone, false
}

// AddBuiltins binds every builtin into env.
func (env *LEnv) AddBuiltins() {
	for _, op := range Builtins() {
		env.Put(Sym(op.String()), Builtin(op))
	}
}

func (d *builtinDef) checkArity(args *LVal) *LVal {
	n := len(args.Cells)
	switch {
	case d.min == d.max && n != d.min:
		return errArgCount(d.name, n, d.min)
	case n < d.min:
		return errArgCountMin(d.name, n, d.min)
	case d.max != variadic && n > d.max:
		return errArgCount(d.name, n, d.max)
	}
	return nil
}

func (op BuiltinOp) call(env *LEnv, args *LVal) *LVal {
	d := op.def()
	if lerr := d.checkArity(args); lerr != nil {
		return lerr
	}
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return builtinArith(op, args)
	case OpList:
		return builtinList(args)
	case OpHead:
		return builtinHead(args)
	case OpTail:
		return builtinTail(args)
	case OpInit:
		return builtinInit(args)
	case OpLen:
		return builtinLen(args)
	case OpCons:
		return builtinCons(args)
	case OpJoin:
		return builtinJoin(args)
	case OpEval:
		return builtinEval(env, args)
	case OpDef:
		return builtinDefine(env, args)
	case OpLambda:
		return builtinLambda(env, args)
	case OpExit:
		return builtinExit(env)
	default:
		return Errorf(ErrNotAFunction, "unknown builtin: %d", op)
	}
}

func builtinArith(op BuiltinOp, args *LVal) *LVal {
	name := op.String()
	for i, c := range args.Cells {
		if c.Type != LNum {
			return errArgType(name, i, c.Type, LNum)
		}
	}
	x := args.Cells[0].Num
	if op == OpSub && len(args.Cells) == 1 {
		return Num(-x)
	}
	for _, c := range args.Cells[1:] {
		y := c.Num
		switch op {
		case OpAdd:
			x += y
		case OpSub:
			x -= y
		case OpMul:
			x *= y
		case OpDiv:
			if y == 0 {
				return Errorf(ErrDivisionByZero, "Division By Zero.")
			}
			x /= y
		case OpMod:
			if y == 0 {
				return Errorf(ErrDivisionByZero, "Division By Zero.")
			}
			x %= y
		}
	}
	return Num(x)
}

func builtinList(args *LVal) *LVal {
	return QExpr(args.Cells)
}

// nonEmptyQExpr checks that argument i of the builtin is a non-empty QExpr.
func nonEmptyQExpr(op BuiltinOp, args *LVal, i int) *LVal {
	q := args.Cells[i]
	if q.Type != LQExpr {
		return errArgType(op.String(), i, q.Type, LQExpr)
	}
	if len(q.Cells) == 0 {
		return errEmptyList(op.String(), i)
	}
	return nil
}

func builtinHead(args *LVal) *LVal {
	if lerr := nonEmptyQExpr(OpHead, args, 0); lerr != nil {
		return lerr
	}
	return QExpr([]*LVal{args.Cells[0].Cells[0]})
}

func builtinTail(args *LVal) *LVal {
	if lerr := nonEmptyQExpr(OpTail, args, 0); lerr != nil {
		return lerr
	}
	q := args.Cells[0]
	return QExpr(append([]*LVal(nil), q.Cells[1:]...))
}

func builtinInit(args *LVal) *LVal {
	if lerr := nonEmptyQExpr(OpInit, args, 0); lerr != nil {
		return lerr
	}
	q := args.Cells[0]
	return QExpr(append([]*LVal(nil), q.Cells[:len(q.Cells)-1]...))
}

func builtinLen(args *LVal) *LVal {
	q := args.Cells[0]
	if q.Type != LQExpr {
		return errArgType(OpLen.String(), 0, q.Type, LQExpr)
	}
	return Num(int64(len(q.Cells)))
}

func builtinCons(args *LVal) *LVal {
	head, tail := args.Cells[0], args.Cells[1]
	if tail.Type != LQExpr {
		return errArgType(OpCons.String(), 1, tail.Type, LQExpr)
	}
	cells := make([]*LVal, 0, 1+len(tail.Cells))
	cells = append(cells, head)
	cells = append(cells, tail.Cells...)
	return QExpr(cells)
}

func builtinJoin(args *LVal) *LVal {
	n := 0
	for i, q := range args.Cells {
		if q.Type != LQExpr {
			return errArgType(OpJoin.String(), i, q.Type, LQExpr)
		}
		n += len(q.Cells)
	}
	cells := make([]*LVal, 0, n)
	for _, q := range args.Cells {
		cells = append(cells, q.Cells...)
	}
	return QExpr(cells)
}

func builtinEval(env *LEnv, args *LVal) *LVal {
	q := args.Cells[0]
	if q.Type != LQExpr {
		return errArgType(OpEval.String(), 0, q.Type, LQExpr)
	}
	return env.Eval(SExpr(q.Cells))
}

func builtinDefine(env *LEnv, args *LVal) *LVal {
	syms := args.Cells[0]
	if syms.Type != LQExpr {
		return errArgType(OpDef.String(), 0, syms.Type, LQExpr)
	}
	for _, sym := range syms.Cells {
		if sym.Type != LSym {
			return Errorf(ErrWrongArgumentType,
				"Function 'def' cannot define non-symbol. Got %v, Expected %v.", sym.Type, LSym)
		}
	}
	vals := args.Cells[1:]
	if len(syms.Cells) != len(vals) {
		return Errorf(ErrWrongArgumentCount,
			"Function 'def' passed incorrect number of values for symbols. Got %d, Expected %d.",
			len(vals), len(syms.Cells))
	}
	for i, sym := range syms.Cells {
		env.Def(sym, vals[i])
	}
	return SExpr(nil)
}

func builtinLambda(env *LEnv, args *LVal) *LVal {
	formals, body := args.Cells[0], args.Cells[1]
	if formals.Type != LQExpr {
		return errArgType(OpLambda.String(), 0, formals.Type, LQExpr)
	}
	if body.Type != LQExpr {
		return errArgType(OpLambda.String(), 1, body.Type, LQExpr)
	}
	for _, sym := range formals.Cells {
		if sym.Type != LSym {
			return Errorf(ErrWrongArgumentType,
				"Cannot define non-symbol. Got %v, Expected %v.", sym.Type, LSym)
		}
	}
	return Lambda(formals, body, NewEnv(env))
}

func builtinExit(env *LEnv) *LVal {
	exit := env.Runtime.Exit
	if exit != nil {
		exit(0)
	}
	return SExpr(nil)
}
