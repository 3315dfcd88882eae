// Package ast is the syntax tree of the script dialect. The set of node
// types is closed: every variant is declared here and Children lists its
// sub-nodes explicitly, in source order.
//
// Trees are built once per compile and never mutated; passes read them and
// express their rewrites as text edits.
package ast

import (
	"scriptkit/internal/source"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Span() source.Span
	aNode()
}

// Stmt is a statement or declaration.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Base carries the byte range shared by all nodes.
type Base struct {
	Range source.Span
}

func (b *Base) Span() source.Span { return b.Range }
func (*Base) aNode()              {}

// Modifier is a contextual keyword in front of a class member or a
// constructor parameter (public, private, protected, readonly, abstract,
// override, declare, static, accessor).
type Modifier struct {
	Kind string
	Span source.Span
}

// HasModifier reports whether mods contains kind.
func HasModifier(mods []Modifier, kind string) bool {
	for _, m := range mods {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

// Program is the root of a parsed script.
type Program struct {
	Base
	Body []Stmt
}
