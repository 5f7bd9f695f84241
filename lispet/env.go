// Copyright © 2018 The ELPS authors

package lispet

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
)

// Runtime is state shared by every LEnv in one environment tree.  A Runtime
// must only be used by one goroutine at a time.
type Runtime struct {
	Stderr   io.Writer
	Stack    *CallStack
	Reader   Reader
	Profiler Profiler

	// Exit is called by the exit builtin.  It defaults to os.Exit.
	Exit func(code int)
}

// StandardRuntime returns a new Runtime with Stderr set to os.Stderr and a
// CallStack of DefaultMaxHeight.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stderr: os.Stderr,
		Stack:  &CallStack{MaxHeight: DefaultMaxHeight},
		Exit:   os.Exit,
	}
}

func (r *Runtime) getStderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

// LEnv is a lisp environment.
//
// Parent is not owned by the child.  Lookups that miss locally continue in
// Parent, which is the environment a lambda was defined in (or the captured
// environment of the lambda being called).  Because that parent is live,
// closures observe bindings made after their own definition.
type LEnv struct {
	Scope   map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
}

// NewEnvRuntime initializes a root LEnv that uses rt.  When rt is nil
// StandardRuntime() is called to create one.
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &LEnv{
		Scope:   make(map[string]*LVal),
		Runtime: rt,
	}
}

// NewEnv returns a new LEnv.  A nil parent produces a root environment with a
// standard runtime.
func NewEnv(parent *LEnv) *LEnv {
	if parent == nil {
		return NewEnvRuntime(nil)
	}
	return &LEnv{
		Scope:   make(map[string]*LVal),
		Parent:  parent,
		Runtime: parent.Runtime,
	}
}

// InitializeUserEnv installs the builtin registry into env and applies config.
// The env must be a root environment.
func InitializeUserEnv(env *LEnv, config ...Config) *LVal {
	if env.Parent != nil {
		return Errorf(ErrInternal, "user environment is not a root environment")
	}
	env.AddBuiltins()
	for _, fn := range config {
		lerr := fn(env)
		if lerr.Type == LErr {
			return lerr
		}
	}
	return SExpr(nil)
}

// Copy returns a new LEnv holding deep copies of env.Scope.  The copy shares
// env's parent and runtime.
func (env *LEnv) Copy() *LEnv {
	if env == nil {
		return nil
	}
	cp := &LEnv{}
	*cp = *env
	cp.Scope = make(map[string]*LVal, len(env.Scope))
	for k, v := range env.Scope {
		cp.Scope[k] = v.Copy()
	}
	return cp
}

// Get takes an LSym k and returns a copy of the value it is bound to in env or
// one of its ancestors.
func (env *LEnv) Get(k *LVal) *LVal {
	if k.Type != LSym {
		return Errorf(ErrWrongArgumentType, "cannot look up a %v", k.Type)
	}
	for e := env; e != nil; e = e.Parent {
		v, ok := e.Scope[k.Str]
		if ok {
			return v.Copy()
		}
	}
	return Errorf(ErrUnboundSymbol, "Unbound Symbol '%s'", k.Str)
}

// Put binds k to a copy of v in env's local scope, replacing any existing
// local binding.
func (env *LEnv) Put(k, v *LVal) *LVal {
	if k.Type != LSym {
		return Errorf(ErrWrongArgumentType, "cannot bind a %v", k.Type)
	}
	env.Scope[k.Str] = v.Copy()
	return SExpr(nil)
}

// Def binds k to a copy of v in the root of env's parent chain.
func (env *LEnv) Def(k, v *LVal) *LVal {
	return env.root().Put(k, v)
}

func (env *LEnv) root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// Symbols returns the sorted names bound in env and its ancestors.
func (env *LEnv) Symbols() []string {
	seen := make(map[string]bool)
	var names []string
	for e := env; e != nil; e = e.Parent {
		for name := range e.Scope {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// LoadString parses and evaluates every top-level expression in exprs using
// the runtime's Reader.  The value of the last expression is returned.
func (env *LEnv) LoadString(name, exprs string) *LVal {
	return env.Load(name, bytes.NewReader([]byte(exprs)))
}

// Load reads source text from r and evaluates each top-level expression in
// order, stopping at the first error value.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	if env.Runtime.Reader == nil {
		return Errorf(ErrInternal, "no reader configured")
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return Errorf(ErrInternal, "%s: %v", name, err)
	}
	ast, err := env.Runtime.Reader.Parse(name, src)
	if err != nil {
		return Errorf(ErrInternal, "%v", err)
	}
	root := Build(ast)
	ret := SExpr(nil)
	for _, expr := range root.Cells {
		ret = env.Eval(expr)
		if ret.Type == LErr {
			return ret
		}
	}
	return ret
}

// String describes env for debugging.
func (env *LEnv) String() string {
	return fmt.Sprintf("env[%d symbols]", len(env.Scope))
}
