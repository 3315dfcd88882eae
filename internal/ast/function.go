package ast

import (
	"scriptkit/internal/source"
)

// Function is shared by declarations, expressions, arrows, methods and
// accessors. Body is nil for overload signatures and for arrows with an
// expression body (ExprBody).
type Function struct {
	Base
	Name       *Ident
	Async      *source.Span
	Generator  bool
	TypeParams *TypeParams
	Params     []*Param
	// ParamList covers '(' through ')'; zero for a bare arrow parameter.
	ParamList  source.Span
	ReturnType *TypeAnn
	Body       *BlockStmt
	ExprBody   Expr
}

// Param is one formal parameter. Modifiers are only legal on constructor
// parameters, where they declare a parameter property.
type Param struct {
	Base
	Modifiers []Modifier
	Pattern   Node
	Optional  *source.Span
	Type      *TypeAnn
	Default   Expr
	Rest      bool
	// This marks the `this: T` pseudo parameter.
	This bool
}

// Name returns the bound identifier of a simple parameter.
func (p *Param) Name() string {
	if id, ok := p.Pattern.(*Ident); ok {
		return id.Name
	}
	return ""
}

type Class struct {
	Base
	Modifiers     []Modifier // abstract, declare
	Name          *Ident
	TypeParams    *TypeParams
	Super         Expr
	SuperTypeArgs *TypeArgs
	// Implements covers the `implements` keyword through the last type.
	Implements *source.Span
	Members    []Node
}

type (
	// MethodDef is a method, accessor or constructor. Func.Body is nil for
	// abstract members and overload signatures.
	MethodDef struct {
		Base
		Modifiers []Modifier
		Static    bool
		Kind      string // method, get, set, constructor
		Key       Expr
		Computed  bool
		Optional  *source.Span
		Func      *Function
	}

	FieldDef struct {
		Base
		Modifiers []Modifier
		Static    bool
		Key       Expr
		Computed  bool
		Optional  *source.Span
		Definite  *source.Span
		Type      *TypeAnn
		Value     Expr
	}

	StaticBlock struct {
		Base
		Body *BlockStmt
	}

	// IndexSignature is a class member like `[key: string]: any;`.
	IndexSignature struct {
		Base
	}
)
