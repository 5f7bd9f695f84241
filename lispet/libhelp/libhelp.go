// Copyright © 2021 The ELPS authors

// Package libhelp renders documentation for the values bound in a lispet
// environment.
package libhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/flyrain/lispet/lispet"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// RenderBuiltinList writes one line per builtin to w with the first sentence
// of its documentation.
func RenderBuiltinList(w io.Writer) error {
	for _, op := range lispet.Builtins() {
		line := fmt.Sprintf("  %-6s", op.String())
		doc := strings.Join(strings.Fields(op.Docs()), " ")
		if i := strings.Index(doc, ". "); i >= 0 {
			doc = doc[:i+1]
		}
		line += "  " + doc
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderBuiltin writes the signature and documentation of op to w.
func RenderBuiltin(w io.Writer, op lispet.BuiltinOp) error {
	return renderSignature(w, "builtin", op.String(), op.Formals(), op.Docs())
}

// RenderVar writes to w documentation for the value bound to sym in env.
// Builtins are documented from the registry even when sym has been rebound.
func RenderVar(w io.Writer, env *lispet.LEnv, sym string) error {
	v := env.Get(lispet.Sym(sym))
	if v.Type == lispet.LErr {
		if op, ok := lispet.LookupBuiltin(sym); ok {
			return RenderBuiltin(w, op)
		}
		return lispet.GoError(v)
	}
	if v.Type != lispet.LFun {
		_, err := fmt.Fprintf(w, "%v %s %v\n", v.Type, sym, v)
		return err
	}
	if v.Fun.IsBuiltin() {
		return RenderBuiltin(w, v.Fun.Op)
	}
	return renderSignature(w, "lambda", sym, v.Fun.Formals, "")
}

func renderSignature(w io.Writer, kind, sym string, formals *lispet.LVal, doc string) error {
	siglist := lispet.SExpr(make([]*lispet.LVal, 1+formals.Len()))
	siglist.Cells[0] = lispet.Sym(sym)
	copy(siglist.Cells[1:], formals.Cells)
	_, err := fmt.Fprintf(w, "%s %v\n", kind, siglist)
	if err != nil {
		return fmt.Errorf("rendering signature: %w", err)
	}
	doc = cleanDocstring(doc)
	if doc != "" {
		_, err = fmt.Fprintln(w, doc)
	}
	return err
}

func cleanDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	doc = indent.String(wordwrap.String(dedentDoc(doc), 72), 2)
	return strings.TrimSuffix(doc, "\n")
}

// dedentDoc removes the indentation that continuation lines of a raw string
// literal inherit from the source code.
func dedentDoc(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, "\n")
}
