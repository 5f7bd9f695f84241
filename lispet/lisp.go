// Copyright © 2018 The ELPS authors

package lispet

import (
	"bytes"
	"strconv"
)

// Version is the language version reported by the REPL.
const Version = "0.1.0"

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LNum values store an int64 in the LVal.Num field.  Arithmetic on LNum
	// values wraps on overflow.
	LNum
	// LErr values store an ErrorKind in LVal.Kind and a human readable
	// message in LVal.Str.  Errors are ordinary values and propagate through
	// evaluation like any other result.
	LErr
	// LSym values store the symbol name in the LVal.Str field.
	LSym
	// LFun values store an *LFunData in the LVal.Fun field.  A builtin has a
	// non-zero LFun.Op.  A lambda has LFun.Formals, LFun.Body and a captured
	// LFun.Env.
	LFun
	// LSExpr values are application forms and store their items in
	// LVal.Cells.
	LSExpr
	// LQExpr values are quoted lists.  They share the representation of
	// LSExpr but are never evaluated implicitly.
	LQExpr
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var ltypeStrings = []string{
	LInvalid: "INVALID",
	LNum:     "Number",
	LErr:     "Error",
	LSym:     "Symbol",
	LFun:     "Function",
	LSExpr:   "S-Expression",
	LQExpr:   "Q-Expression",
}

func (t LType) String() string {
	if t >= LType(len(ltypeStrings)) {
		return ltypeStrings[LInvalid]
	}
	return ltypeStrings[t]
}

// LFunData is the payload of an LFun value.
type LFunData struct {
	// Op identifies a builtin.  Lambdas have Op == OpNone.
	Op BuiltinOp

	// Formals is a QExpr of the parameters that remain unbound.
	Formals *LVal

	// Body is the QExpr evaluated, as an SExpr, once every formal is bound.
	Body *LVal

	// Env is the environment captured by the lambda.  It is owned by the
	// function value and copied along with it.
	Env *LEnv
}

// IsBuiltin returns true if fun is a native operation.
func (fun *LFunData) IsBuiltin() bool {
	return fun.Op != OpNone
}

// LVal is a lisp value
type LVal struct {
	// Str used by LSym and LErr values
	Str string

	// Cells holds the items of LSExpr and LQExpr values.  A container owns
	// its cells exclusively; they are never shared with another value.
	Cells []*LVal

	// Fun holds function data for LFun values.
	Fun *LFunData

	// Num is the value of an LNum.
	Num int64

	// Type is the native type for a value in lisp.
	Type LType

	// Kind classifies LErr values.
	Kind ErrorKind
}

// Num returns an LVal representing the number x.
func Num(x int64) *LVal {
	return &LVal{
		Type: LNum,
		Num:  x,
	}
}

// Sym returns an LVal representing the symbol s
func Sym(s string) *LVal {
	return &LVal{
		Type: LSym,
		Str:  s,
	}
}

// SExpr returns an LVal representing an S-expression.  Provided cells are used
// as backing storage for the returned expression and are not copied.
func SExpr(cells []*LVal) *LVal {
	return &LVal{
		Type:  LSExpr,
		Cells: cells,
	}
}

// QExpr returns an LVal representing a Q-expression, a quoted list.  Provided
// cells are used as backing storage for the returned list and are not copied.
func QExpr(cells []*LVal) *LVal {
	return &LVal{
		Type:  LQExpr,
		Cells: cells,
	}
}

// Builtin returns an LVal for the native operation op.
func Builtin(op BuiltinOp) *LVal {
	return &LVal{
		Type: LFun,
		Fun:  &LFunData{Op: op},
	}
}

// Lambda returns a function value over formals and body that captures env.
// Both formals and body must be QExprs and are owned by the returned value.
func Lambda(formals, body *LVal, env *LEnv) *LVal {
	return &LVal{
		Type: LFun,
		Fun: &LFunData{
			Formals: formals,
			Body:    body,
			Env:     env,
		},
	}
}

// Formals returns a QExpr of symbols with the given names.
func Formals(names ...string) *LVal {
	cells := make([]*LVal, len(names))
	for i, name := range names {
		cells[i] = Sym(name)
	}
	return QExpr(cells)
}

// Len returns the number of cells in a container value and -1 for any other
// type.
func (v *LVal) Len() int {
	switch v.Type {
	case LSExpr, LQExpr:
		return len(v.Cells)
	default:
		return -1
	}
}

// IsNil returns true if v is an empty SExpr.
func (v *LVal) IsNil() bool {
	return v.Type == LSExpr && len(v.Cells) == 0
}

// Copy returns a deep copy of v.  No part of the returned value is shared with
// v, including the captured environment of a lambda (its parent reference is
// retained).
func (v *LVal) Copy() *LVal {
	if v == nil {
		return nil
	}
	cp := &LVal{}
	*cp = *v
	switch v.Type {
	case LSExpr, LQExpr:
		cp.Cells = v.copyCells()
	case LFun:
		cp.Fun = v.Fun.copy()
	}
	return cp
}

func (v *LVal) copyCells() []*LVal {
	if v.Cells == nil {
		return nil
	}
	cells := make([]*LVal, len(v.Cells))
	for i := range v.Cells {
		cells[i] = v.Cells[i].Copy()
	}
	return cells
}

func (fun *LFunData) copy() *LFunData {
	cp := &LFunData{}
	*cp = *fun
	if fun.IsBuiltin() {
		return cp
	}
	cp.Formals = fun.Formals.Copy()
	cp.Body = fun.Body.Copy()
	cp.Env = fun.Env.Copy()
	return cp
}

// String renders v the way the REPL prints it.
func (v *LVal) String() string {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

func (v *LVal) write(buf *bytes.Buffer) {
	switch v.Type {
	case LNum:
		buf.WriteString(strconv.FormatInt(v.Num, 10))
	case LErr:
		buf.WriteString("Error: ")
		buf.WriteString(v.Str)
	case LSym:
		buf.WriteString(v.Str)
	case LFun:
		if v.Fun.IsBuiltin() {
			buf.WriteString("<builtin>")
			return
		}
		buf.WriteString(`(\ `)
		v.Fun.Formals.write(buf)
		buf.WriteString(" ")
		v.Fun.Body.write(buf)
		buf.WriteString(")")
	case LSExpr:
		writeCells(buf, v.Cells, '(', ')')
	case LQExpr:
		writeCells(buf, v.Cells, '{', '}')
	default:
		buf.WriteString("<invalid>")
	}
}

func writeCells(buf *bytes.Buffer, cells []*LVal, open, close byte) {
	buf.WriteByte(open)
	for i, c := range cells {
		if i > 0 {
			buf.WriteByte(' ')
		}
		c.write(buf)
	}
	buf.WriteByte(close)
}
