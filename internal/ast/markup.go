package ast

import (
	"scriptkit/internal/source"
)

type (
	// MarkupElement is <Name attrs>children</Name> or <Name attrs/>.
	MarkupElement struct {
		Base
		Name        *MarkupName
		Attrs       []Node // *MarkupAttr, *MarkupSpreadAttr
		SelfClosing bool
		// OpenEnd is the '>' or '/>' closing the opening tag.
		OpenEnd  source.Span
		Children []Node
		// Close is the whole closing tag; zero when SelfClosing.
		Close source.Span
	}

	// MarkupFragment is <>children</>.
	MarkupFragment struct {
		Base
		Open     source.Span
		Children []Node
		Close    source.Span
	}

	// MarkupName is an element or attribute name: ident, a-b, ns:name or a.b.c.
	MarkupName struct {
		Base
		Raw string
	}

	MarkupAttr struct {
		Base
		Name  *MarkupName
		Value Node // nil, *StringLit, *MarkupExprContainer, *MarkupElement, *MarkupFragment
	}

	MarkupSpreadAttr struct {
		Base
		X Expr
	}

	MarkupText struct {
		Base
		Raw string
	}

	// MarkupExprContainer is {expr}; X is nil when the braces hold nothing
	// but comments. Spread marks the {...children} child form.
	MarkupExprContainer struct {
		Base
		X      Expr
		Spread bool
	}
)

// IsIntrinsic reports whether the element name denotes a host tag rather than
// a component reference.
func (n *MarkupName) IsIntrinsic() bool {
	if n == nil || n.Raw == "" {
		return false
	}
	for i := 0; i < len(n.Raw); i++ {
		switch c := n.Raw[i]; {
		case c == '.':
			return false
		case c == '-' || c == ':':
			return true
		}
	}
	c := n.Raw[0]
	return c >= 'a' && c <= 'z' && n.Raw != "this"
}
