// Copyright © 2018 The ELPS authors

package lispet

import (
	"strconv"
	"strings"
)

// AstNode is a node of the tree produced by a Reader.  Tag is a
// '|'-separated list of grammar rule names, outermost first, so a number
// leaf is tagged "expr|number|regex".  The root of a parse is tagged ">".
type AstNode struct {
	Tag      string
	Contents string
	Children []*AstNode
}

// Reader parses source text into an AstNode tree.
type Reader interface {
	Parse(name string, src []byte) (*AstNode, error)
}

// HasTag returns true if rule is one of the names in n.Tag.
func (n *AstNode) HasTag(rule string) bool {
	for _, t := range strings.Split(n.Tag, "|") {
		if t == rule {
			return true
		}
	}
	return false
}

// Build converts an AstNode tree into an LVal.  Numbers that do not fit in an
// int64 become ErrInvalidNumber values embedded in the result; they are not
// raised until evaluated.
func Build(n *AstNode) *LVal {
	switch {
	case n.HasTag("number"):
		x, err := strconv.ParseInt(n.Contents, 10, 64)
		if err != nil {
			return Errorf(ErrInvalidNumber, "invalid number")
		}
		return Num(x)
	case n.HasTag("symbol"):
		return Sym(n.Contents)
	case n.Tag == ">" || n.HasTag("sexpr"):
		return SExpr(buildChildren(n))
	case n.HasTag("qexpr"):
		return QExpr(buildChildren(n))
	default:
		return Errorf(ErrInternal, "unexpected syntax node: %q", n.Tag)
	}
}

func buildChildren(n *AstNode) []*LVal {
	cells := make([]*LVal, 0, len(n.Children))
	for _, c := range n.Children {
		if isPunctuation(c) {
			continue
		}
		cells = append(cells, Build(c))
	}
	return cells
}

func isPunctuation(n *AstNode) bool {
	switch n.Contents {
	case "(", ")", "{", "}":
		return true
	}
	return n.Tag == "regex"
}
