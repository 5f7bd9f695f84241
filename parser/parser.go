// Copyright © 2018 The ELPS authors

/*
Package parser provides the lispet reader.

	lispet := /^/ <expr>* /$/
	expr   := <number> | <symbol> | <sexpr> | <qexpr>
	number := /-?[0-9]+/
	symbol := /[a-zA-Z0-9_+\-*\/\\=<>!&%]+/
	sexpr  := '(' <expr>* ')'
	qexpr  := '{' <expr>* '}'

Parse trees are produced as lispet.AstNode values whose tags name the rules
that matched, so lispet.Build can turn them into values.
*/
package parser

import (
	"bytes"
	"fmt"

	"github.com/flyrain/lispet/lispet"
	parsec "github.com/prataprc/goparsec"
)

// NewReader returns a lispet.Reader.
func NewReader() lispet.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

// ParseError is returned by a Reader when source text is not a sequence of
// complete expressions.
type ParseError struct {
	Name string
	Line int
	Col  int
	Msg  string

	incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, e.Msg)
}

// Incomplete returns true if the source ended inside an open expression.
// More input may complete it.
func (e *ParseError) Incomplete() bool {
	return e.incomplete
}

// IsIncomplete returns true if err is a ParseError caused by an unterminated
// expression.
func IsIncomplete(err error) bool {
	perr, ok := err.(*ParseError)
	return ok && perr.Incomplete()
}

// Rule tags attached to lispet.AstNode values.
const (
	TagRoot   = ">"
	TagRegex  = "regex"
	TagChar   = "char"
	TagNumber = "expr|number|regex"
	TagSymbol = "expr|symbol|regex"
	TagSExpr  = "expr|sexpr|>"
	TagQExpr  = "expr|qexpr|>"
)

func (p *parsecReader) Parse(name string, src []byte) (*lispet.AstNode, error) {
	src = bytes.TrimRight(src, " \t\r\n")
	root := &lispet.AstNode{Tag: TagRoot}
	root.Children = append(root.Children, &lispet.AstNode{Tag: TagRegex})

	s := parsec.NewScanner(src)
	parser := newParsecParser()
	node, s := parser(s)
	for node != nil {
		switch node := node.(type) {
		case *lispet.AstNode:
			root.Children = append(root.Children, node)
		case *unterminated:
			line, col := position(src, s.GetCursor())
			return nil, &ParseError{
				Name:       name,
				Line:       line,
				Col:        col,
				Msg:        fmt.Sprintf("unmatched %s", node.open),
				incomplete: true,
			}
		default:
			line, col := position(src, s.GetCursor())
			return nil, &ParseError{
				Name: name,
				Line: line,
				Col:  col,
				Msg:  fmt.Sprintf("unexpected parse node: %T", node),
			}
		}
		node, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		line, col := position(src, s.GetCursor())
		b, _ := s.Match(`.{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		return nil, &ParseError{
			Name: name,
			Line: line,
			Col:  col,
			Msg:  fmt.Sprintf("unexpected source text possibly starting: %s", b),
		}
	}

	root.Children = append(root.Children, &lispet.AstNode{Tag: TagRegex})
	return root, nil
}

// position returns the 1-based line and column of byte offset off in src.
func position(src []byte, off int) (line, col int) {
	if off > len(src) {
		off = len(src)
	}
	line = 1 + bytes.Count(src[:off], []byte("\n"))
	col = off - bytes.LastIndexByte(src[:off], '\n')
	return line, col
}

// unterminated marks an expression cut off by the end of input.
type unterminated struct {
	open string
}

func newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("{", "OPENB")
	closeB := parsec.Atom("}", "CLOSEB")
	number := parsec.Token(`-?[0-9]+`, "NUMBER")
	symbol := parsec.Token(`[a-zA-Z0-9_+\-*/\\=<>!&%]+`, "SYMBOL")
	// number is tried first so that "-5" is not read as a symbol
	term := parsec.OrdChoice(termNode, number, symbol)
	var expr parsec.Parser
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(listNode(TagSExpr), openP, exprList, closeP)
	qexpr := parsec.And(listNode(TagQExpr), openB, exprList, closeB)
	sexprUnmatched := parsec.And(unmatchedNode("("), openP, exprList, parsec.End())
	qexprUnmatched := parsec.And(unmatchedNode("{"), openB, exprList, parsec.End())
	expr = parsec.OrdChoice(exprNode,
		term,
		sexpr,
		qexpr,
		// Unterminated forms have the lowest precedence.
		sexprUnmatched,
		qexprUnmatched,
	)
	return expr
}

func exprNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	return nodes[0]
}

func termNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	term, ok := nodes[0].(*parsec.Terminal)
	if !ok {
		return nodes[0]
	}
	switch term.GetName() {
	case "NUMBER":
		return &lispet.AstNode{Tag: TagNumber, Contents: term.GetValue()}
	default:
		return &lispet.AstNode{Tag: TagSymbol, Contents: term.GetValue()}
	}
}

func listNode(tag string) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		n := &lispet.AstNode{Tag: tag}
		collectChildren(n, nodes)
		return n
	}
}

func unmatchedNode(open string) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return &unterminated{open: open}
	}
}

// collectChildren appends the AstNodes and bracket terminals in nodes to the
// children of n, descending into the lists produced by Kleene.
func collectChildren(n *lispet.AstNode, nodes []parsec.ParsecNode) {
	for _, node := range nodes {
		switch node := node.(type) {
		case *lispet.AstNode:
			n.Children = append(n.Children, node)
		case *parsec.Terminal:
			n.Children = append(n.Children, &lispet.AstNode{Tag: TagChar, Contents: node.GetValue()})
		case []parsec.ParsecNode:
			collectChildren(n, node)
		}
	}
}
