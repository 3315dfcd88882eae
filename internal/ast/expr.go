package ast

import (
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

type (
	// Ident is an identifier; private names keep their leading '#'.
	Ident struct {
		Base
		Name string
	}

	// Lit is a number, regex, boolean or null literal.
	Lit struct {
		Base
		Kind token.Kind
		Raw  string
	}

	StringLit struct {
		Base
		Value string
		Raw   string
	}

	// TemplateLit keeps the raw quasi spans (delimiters included) and the
	// substituted expressions between them.
	TemplateLit struct {
		Base
		Quasis []source.Span
		Exprs  []Expr
	}

	TaggedTemplate struct {
		Base
		Tag      Expr
		TypeArgs *TypeArgs
		Quasi    *TemplateLit
	}

	ThisExpr struct {
		Base
	}

	SuperExpr struct {
		Base
	}

	// ArrayLit holds nil for elisions.
	ArrayLit struct {
		Base
		Elems []Expr
	}

	// ObjectLit holds *Property and *SpreadElement entries.
	ObjectLit struct {
		Base
		Props []Node
	}

	Property struct {
		Base
		Kind      string // init, get, set, method
		Key       Expr
		Computed  bool
		Shorthand bool
		Value     Expr
		Func      *Function
	}

	SpreadElement struct {
		Base
		X Expr
	}

	FuncExpr struct {
		Base
		Func *Function
	}

	ArrowFunc struct {
		Base
		Func *Function
	}

	ClassExpr struct {
		Base
		Class *Class
	}

	UnaryExpr struct {
		Base
		Op string // ! ~ + - typeof void delete
		X  Expr
	}

	UpdateExpr struct {
		Base
		Op     token.Kind
		Prefix bool
		X      Expr
	}

	BinaryExpr struct {
		Base
		Op token.Kind
		X  Expr
		Y  Expr
	}

	AssignExpr struct {
		Base
		Op     token.Kind
		Target Node
		Value  Expr
	}

	CondExpr struct {
		Base
		Test Expr
		Cons Expr
		Alt  Expr
	}

	CallExpr struct {
		Base
		Callee   Expr
		TypeArgs *TypeArgs
		Args     []Expr
		Optional bool
	}

	NewExpr struct {
		Base
		Callee   Expr
		TypeArgs *TypeArgs
		Args     []Expr
	}

	MemberExpr struct {
		Base
		X        Expr
		Prop     Expr
		Computed bool
		Optional bool
	}

	SeqExpr struct {
		Base
		List []Expr
	}

	ParenExpr struct {
		Base
		X Expr
	}

	YieldExpr struct {
		Base
		Arg      Expr
		Delegate bool
	}

	AwaitExpr struct {
		Base
		Keyword source.Span
		Arg     Expr
	}

	// ImportCall is the dynamic import(x) form.
	ImportCall struct {
		Base
		Keyword source.Span
		Arg     Expr
		Options Expr
	}

	// ImportMeta is import.meta.
	ImportMeta struct {
		Base
	}

	// MetaProp is new.target.
	MetaProp struct {
		Base
	}

	// AsExpr is `x as T`, `x as const` or `x satisfies T`; the erased part
	// runs from X's end to the end of the node.
	AsExpr struct {
		Base
		X    Expr
		Kind string
	}

	// NonNullExpr is `x!`.
	NonNullExpr struct {
		Base
		X Expr
	}
)

// Patterns.
type (
	ObjectPattern struct {
		Base
		Props []Node // *PatternProp, *RestElement
	}

	PatternProp struct {
		Base
		Key       Expr
		Computed  bool
		Shorthand bool
		Value     Node
	}

	ArrayPattern struct {
		Base
		Elems []Node // nil for elisions
	}

	AssignPattern struct {
		Base
		Target  Node
		Default Expr
	}

	RestElement struct {
		Base
		Arg Node
	}
)

func (*Ident) exprNode()          {}
func (*Lit) exprNode()            {}
func (*StringLit) exprNode()      {}
func (*TemplateLit) exprNode()    {}
func (*TaggedTemplate) exprNode() {}
func (*ThisExpr) exprNode()       {}
func (*SuperExpr) exprNode()      {}
func (*ArrayLit) exprNode()       {}
func (*ObjectLit) exprNode()      {}
func (*SpreadElement) exprNode()  {}
func (*FuncExpr) exprNode()       {}
func (*ArrowFunc) exprNode()      {}
func (*ClassExpr) exprNode()      {}
func (*UnaryExpr) exprNode()      {}
func (*UpdateExpr) exprNode()     {}
func (*BinaryExpr) exprNode()     {}
func (*AssignExpr) exprNode()     {}
func (*CondExpr) exprNode()       {}
func (*CallExpr) exprNode()       {}
func (*NewExpr) exprNode()        {}
func (*MemberExpr) exprNode()     {}
func (*SeqExpr) exprNode()        {}
func (*ParenExpr) exprNode()      {}
func (*YieldExpr) exprNode()      {}
func (*AwaitExpr) exprNode()      {}
func (*ImportCall) exprNode()     {}
func (*ImportMeta) exprNode()     {}
func (*MetaProp) exprNode()       {}
func (*AsExpr) exprNode()         {}
func (*NonNullExpr) exprNode()    {}
func (*MarkupElement) exprNode()  {}
func (*MarkupFragment) exprNode() {}
