// Copyright © 2018 The ELPS authors

package lispet_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flyrain/lispet/lispet"
	"github.com/flyrain/lispet/lispettest"
	"github.com/flyrain/lispet/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, config ...lispet.Config) *lispet.LEnv {
	t.Helper()
	logger := lispettest.NewLogger(t)
	t.Cleanup(logger.Flush)
	env, err := lispettest.NewEnv(logger, config...)
	require.NoError(t, err)
	return env
}

func evalLine(t *testing.T, env *lispet.LEnv, line string) *lispet.LVal {
	t.Helper()
	v, err := lispettest.EvalLine(env, line)
	require.NoError(t, err)
	return v
}

func TestRenderRoundTrip(t *testing.T) {
	for _, src := range []string{
		"(+ 1 2)",
		"{1 2 (3 {4})}",
		`def {add} (\ {a b} {+ a b})`,
		"-5 () {}",
	} {
		ast, err := parser.NewReader().Parse("test", []byte(src))
		require.NoError(t, err)
		first := lispet.Build(ast).String()

		// rendering the cells of the root again must be stable
		inner := strings.TrimSuffix(strings.TrimPrefix(first, "("), ")")
		ast, err = parser.NewReader().Parse("test", []byte(inner))
		require.NoError(t, err)
		assert.Equal(t, first, lispet.Build(ast).String(), src)
	}
}

func TestEvalDoesNotModifyInput(t *testing.T) {
	env := newTestEnv(t)
	ast, err := env.Runtime.Reader.Parse("test", []byte("(tail {1 2 3}) (init {1 2 3}) (cons 0 {1})"))
	require.NoError(t, err)
	v := lispet.Build(ast)
	before := v.String()
	for _, c := range v.Cells {
		lerr := env.Eval(c)
		assert.NotEqual(t, lispet.LErr, lerr.Type, lerr.String())
	}
	assert.Equal(t, before, v.String())
}

func TestCopyIsDeep(t *testing.T) {
	env := newTestEnv(t)
	v := evalLine(t, env, "{1 {2 3}}")
	cp := v.Copy()
	cp.Cells[1].Cells[0].Num = 99
	cp.Cells = append(cp.Cells, lispet.Num(4))
	assert.Equal(t, "{1 {2 3}}", v.String())
	assert.Equal(t, "{1 {99 3} 4}", cp.String())

	fun := evalLine(t, env, `(\ {a b} {+ a b}) 1`)
	require.Equal(t, lispet.LFun, fun.Type)
	fcp := fun.Copy()
	fcp.Fun.Env.Scope["a"] = lispet.Num(7)
	fcp.Fun.Body.Cells[0] = lispet.Sym("-")
	assert.Equal(t, "1", fun.Fun.Env.Scope["a"].String())
	assert.Equal(t, `(\ {b} {+ a b})`, fun.String())
}

func TestEnvGetReturnsCopy(t *testing.T) {
	env := newTestEnv(t)
	require.True(t, env.Put(lispet.Sym("xs"), lispet.QExpr([]*lispet.LVal{lispet.Num(1)})).IsNil())
	v := env.Get(lispet.Sym("xs"))
	v.Cells[0].Num = 2
	assert.Equal(t, "{1}", env.Get(lispet.Sym("xs")).String())

	child := lispet.NewEnv(env)
	assert.Equal(t, "{1}", child.Get(lispet.Sym("xs")).String())
	child.Put(lispet.Sym("local"), lispet.Num(1))
	lerr := env.Get(lispet.Sym("local"))
	assert.Equal(t, lispet.ErrUnboundSymbol, lerr.Kind)

	child.Def(lispet.Sym("global"), lispet.Num(2))
	assert.Equal(t, "2", env.Get(lispet.Sym("global")).String())
}

func TestSelfEvaluatingIsStable(t *testing.T) {
	env := newTestEnv(t)
	for _, v := range []*lispet.LVal{
		lispet.Num(42),
		lispet.QExpr([]*lispet.LVal{lispet.Num(1), lispet.Sym("x"), lispet.SExpr([]*lispet.LVal{lispet.Sym("+")})}),
	} {
		first := env.Eval(v).String()
		second := env.Eval(v).String()
		assert.Equal(t, v.String(), first)
		assert.Equal(t, first, second)
	}
}

func TestSiblingEnvIsolation(t *testing.T) {
	env := newTestEnv(t)
	a := lispet.NewEnv(env)
	b := lispet.NewEnv(env)
	a.Put(lispet.Sym("x"), lispet.Num(1))
	assert.Equal(t, "1", a.Get(lispet.Sym("x")).String())
	lerr := b.Get(lispet.Sym("x"))
	assert.Equal(t, lispet.LErr, lerr.Type)
	assert.Equal(t, lispet.ErrUnboundSymbol, lerr.Kind)
	assert.Equal(t, "Error: Unbound Symbol 'x'", lerr.String())
}

func TestSymbols(t *testing.T) {
	env := newTestEnv(t)
	evalLine(t, env, "def {zeta} 1")
	syms := env.Symbols()
	assert.Contains(t, syms, "head")
	assert.Contains(t, syms, `\`)
	assert.Contains(t, syms, "zeta")
	assert.IsIncreasing(t, syms)
}

func TestDepthLimit(t *testing.T) {
	env := newTestEnv(t, lispet.WithMaximumStackHeight(100))

	deep := strings.Repeat("(+ 1 ", 200) + "0" + strings.Repeat(")", 200)
	v := evalLine(t, env, deep)
	require.Equal(t, lispet.LErr, v.Type)
	assert.Equal(t, lispet.ErrResourceExhausted, v.Kind)
	assert.Equal(t, 0, env.Runtime.Stack.Height())

	shallow := strings.Repeat("(+ 1 ", 50) + "0" + strings.Repeat(")", 50)
	assert.Equal(t, "50", evalLine(t, env, shallow).String())

	evalLine(t, env, `def {loop} (\ {x} {loop x})`)
	v = evalLine(t, env, "loop 1")
	require.Equal(t, lispet.LErr, v.Type)
	assert.Equal(t, lispet.ErrResourceExhausted, v.Kind)
	assert.Equal(t, 0, env.Runtime.Stack.Height())
}

func TestDefaultDepthLimit(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, lispet.DefaultMaxHeight, env.Runtime.Stack.MaxHeight)
	evalLine(t, env, `def {loop} (\ {x} {loop x})`)
	v := evalLine(t, env, "loop 1")
	assert.Equal(t, lispet.ErrResourceExhausted, v.Kind)
}

func TestExitHook(t *testing.T) {
	var codes []int
	env := newTestEnv(t, lispet.WithExit(func(code int) {
		codes = append(codes, code)
	}))
	assert.True(t, evalLine(t, env, "exit").IsNil())
	assert.Equal(t, []int{0}, codes)
	evalLine(t, env, "+ 1 (exit)")
	assert.Equal(t, []int{0, 0}, codes)
}

func TestPanicRecovery(t *testing.T) {
	var stderr bytes.Buffer
	env, err := lispettest.NewEnv(&stderr)
	require.NoError(t, err)
	broken := lispet.Lambda(nil, nil, nil)
	v := env.Call(broken, lispet.SExpr(nil))
	require.Equal(t, lispet.LErr, v.Type)
	assert.Equal(t, lispet.ErrInternal, v.Kind)
	assert.Contains(t, v.Str, "recovered panic")
	assert.Contains(t, stderr.String(), "Stack Trace")

	// the environment remains usable
	assert.Equal(t, "3", evalLine(t, env, "+ 1 2").String())
}

func TestGoError(t *testing.T) {
	assert.NoError(t, lispet.GoError(lispet.Num(1)))
	assert.NoError(t, lispet.GoError(nil))
	err := lispet.GoError(lispet.Errorf(lispet.ErrDivisionByZero, "Division By Zero."))
	require.Error(t, err)
	assert.Equal(t, "Division By Zero.", err.Error())
	ev, ok := err.(*lispet.ErrorVal)
	require.True(t, ok)
	assert.Equal(t, lispet.ErrDivisionByZero, ev.ErrorKind())
	assert.Equal(t, "division-by-zero", ev.ErrorKind().String())
}

func TestLoadString(t *testing.T) {
	env := newTestEnv(t)
	v := env.LoadString("test", "(def {x} 2)\n(def {sq} (\\ {n} {* n n}))\n(sq (+ x 1))")
	assert.Equal(t, "9", v.String())

	v = env.LoadString("test", "(def {y} 1) (head {}) (def {z} 3)")
	assert.Equal(t, lispet.ErrEmptyListAccess, v.Kind)
	assert.Equal(t, "1", env.Get(lispet.Sym("y")).String())
	assert.Equal(t, lispet.ErrUnboundSymbol, env.Get(lispet.Sym("z")).Kind)

	v = env.LoadString("test", "(+ 1")
	assert.Equal(t, lispet.LErr, v.Type)
	assert.Contains(t, v.Str, "unmatched (")
}

func TestInitializeUserEnv(t *testing.T) {
	root := lispet.NewEnv(nil)
	child := lispet.NewEnv(root)
	lerr := lispet.InitializeUserEnv(child)
	assert.Error(t, lispet.GoError(lerr))

	lerr = lispet.InitializeUserEnv(root, lispet.WithReader(parser.NewReader()))
	require.NoError(t, lispet.GoError(lerr))
	for _, op := range lispet.Builtins() {
		v := root.Get(lispet.Sym(op.String()))
		require.Equal(t, lispet.LFun, v.Type, op.String())
		assert.Equal(t, op, v.Fun.Op)
	}
}

type countingProfiler struct {
	enabled bool
	starts  []string
	ends    int
}

func (p *countingProfiler) IsEnabled() bool { return p.enabled }
func (p *countingProfiler) Enable() error   { p.enabled = true; return nil }
func (p *countingProfiler) Complete() error { return nil }

func (p *countingProfiler) Start(fun *lispet.LVal) func() {
	p.starts = append(p.starts, fun.Fun.Name())
	return func() { p.ends++ }
}

func TestProfilerHook(t *testing.T) {
	p := &countingProfiler{}
	env := newTestEnv(t, lispet.WithProfiler(p))
	require.True(t, p.IsEnabled())
	assert.Equal(t, "7", evalLine(t, env, `(\ {x} {+ x 1}) (* 2 3)`).String())
	assert.Equal(t, []string{`\`, "*", `\`, "+"}, p.starts)
	assert.Equal(t, len(p.starts), p.ends)
}
