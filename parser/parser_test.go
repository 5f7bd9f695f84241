// Copyright © 2018 The ELPS authors

package parser

import (
	"testing"

	"github.com/flyrain/lispet/lispet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func read(t *testing.T, src string) *lispet.LVal {
	t.Helper()
	ast, err := NewReader().Parse("test", []byte(src))
	require.NoError(t, err)
	return lispet.Build(ast)
}

func TestParse(t *testing.T) {
	tests := []struct {
		src    string
		result string
	}{
		{"", "()"},
		{"   \n ", "()"},
		{"5", "(5)"},
		{"-5", "(-5)"},
		{"-", "(-)"},
		{"+ 1 2", "(+ 1 2)"},
		{"(+ 1 2)", "((+ 1 2))"},
		{"{1 2 (3 4)}", "({1 2 (3 4)})"},
		{"()", "(())"},
		{"{}", "({})"},
		{`\ {x} {x}`, `(\ {x} {x})`},
		{"(% 7 2)", "((% 7 2))"},
		{"def {a_b} 1", "(def {a_b} 1)"},
		{"(head\n  {1 2 3})", "((head {1 2 3}))"},
	}
	for i, test := range tests {
		v := read(t, test.src)
		assert.Equal(t, lispet.LSExpr, v.Type, "test %d: %q", i, test.src)
		assert.Equal(t, test.result, v.String(), "test %d: %q", i, test.src)
	}
}

func TestParseTags(t *testing.T) {
	ast, err := NewReader().Parse("test", []byte("(+ 1 {x})"))
	require.NoError(t, err)
	assert.Equal(t, TagRoot, ast.Tag)
	require.Len(t, ast.Children, 3)
	assert.Equal(t, TagRegex, ast.Children[0].Tag)
	assert.Equal(t, TagRegex, ast.Children[2].Tag)

	sexpr := ast.Children[1]
	assert.Equal(t, TagSExpr, sexpr.Tag)
	require.Len(t, sexpr.Children, 5)
	assert.Equal(t, "(", sexpr.Children[0].Contents)
	assert.Equal(t, TagSymbol, sexpr.Children[1].Tag)
	assert.Equal(t, "+", sexpr.Children[1].Contents)
	assert.Equal(t, TagNumber, sexpr.Children[2].Tag)
	assert.Equal(t, "1", sexpr.Children[2].Contents)
	assert.Equal(t, TagQExpr, sexpr.Children[3].Tag)
	assert.Equal(t, ")", sexpr.Children[4].Contents)
}

func TestParseInvalidNumber(t *testing.T) {
	v := read(t, "99999999999999999999")
	require.Len(t, v.Cells, 1)
	assert.Equal(t, lispet.LErr, v.Cells[0].Type)
	assert.Equal(t, lispet.ErrInvalidNumber, v.Cells[0].Kind)
	assert.Equal(t, "Error: invalid number", v.Cells[0].String())
}

func TestParseIncomplete(t *testing.T) {
	for _, src := range []string{"(", "(+ 1", "{1 2", "(def {x} (+ 1", "(a {b (c"} {
		_, err := NewReader().Parse("test", []byte(src))
		if assert.Error(t, err, src) {
			assert.True(t, IsIncomplete(err), "%q: %v", src, err)
		}
	}
}

func TestParseError(t *testing.T) {
	for _, src := range []string{")", "(+ 1 2))", "}", "@", "(+ 1 #)"} {
		_, err := NewReader().Parse("test", []byte(src))
		if assert.Error(t, err, src) {
			assert.False(t, IsIncomplete(err), "%q: %v", src, err)
			assert.Contains(t, err.Error(), "test:")
		}
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := NewReader().Parse("test", []byte("(+ 1 2)\n  )"))
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok, "%T", err)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 3, perr.Col)
	assert.Equal(t, "test:2: unexpected source text possibly starting: )", perr.Error())
}

func TestParseErrorPositionLongTrailer(t *testing.T) {
	_, err := NewReader().Parse("test", []byte("(+ 1 2) ) trailing text that is long"))
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok, "%T", err)
	assert.Equal(t, 1, perr.Line)
	assert.Equal(t, 9, perr.Col)
	assert.Equal(t, "unexpected source text possibly starting: ) trailing text...", perr.Msg)
}

func TestPosition(t *testing.T) {
	src := []byte("ab\ncd\n\nef")
	for _, test := range []struct {
		off, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 4, 1},
		{100, 4, 3},
	} {
		line, col := position(src, test.off)
		assert.Equal(t, test.line, line, "offset %d", test.off)
		assert.Equal(t, test.col, col, "offset %d", test.off)
	}
}
