package ast

import (
	"scriptkit/internal/source"
)

type (
	// VarDecl is var/let/const/using with one or more declarators.
	VarDecl struct {
		Base
		Kind  string
		Decls []*VarDeclarator
		Semi  bool
	}

	VarDeclarator struct {
		Base
		Target   Node
		Definite *source.Span // x!: T
		Type     *TypeAnn
		Init     Expr
	}

	FuncDecl struct {
		Base
		Func *Function
	}

	ClassDecl struct {
		Base
		Class *Class
	}

	ExprStmt struct {
		Base
		X Expr
		// Directive is the literal text of a prologue string ("use strict").
		Directive string
	}

	BlockStmt struct {
		Base
		Body []Stmt
	}

	EmptyStmt struct {
		Base
	}

	IfStmt struct {
		Base
		Test Expr
		Cons Stmt
		Alt  Stmt
	}

	// ForStmt is the counted loop; Init is a *VarDecl, an Expr or nil.
	ForStmt struct {
		Base
		Init   Node
		Test   Expr
		Update Expr
		Body   Stmt
	}

	ForInStmt struct {
		Base
		Left  Node
		Right Expr
		Body  Stmt
	}

	ForOfStmt struct {
		Base
		Await *source.Span
		Left  Node
		Right Expr
		Body  Stmt
	}

	WhileStmt struct {
		Base
		Test Expr
		Body Stmt
	}

	DoWhileStmt struct {
		Base
		Body Stmt
		Test Expr
	}

	ReturnStmt struct {
		Base
		Arg Expr
	}

	ThrowStmt struct {
		Base
		Arg Expr
	}

	BreakStmt struct {
		Base
		Label *Ident
	}

	ContinueStmt struct {
		Base
		Label *Ident
	}

	TryStmt struct {
		Base
		Block     *BlockStmt
		Param     Node
		ParamType *TypeAnn
		Handler   *BlockStmt
		Finalizer *BlockStmt
	}

	SwitchStmt struct {
		Base
		Disc  Expr
		Cases []*SwitchCase
	}

	// SwitchCase has a nil Test for the default clause.
	SwitchCase struct {
		Base
		Test Expr
		Body []Stmt
	}

	LabeledStmt struct {
		Base
		Label *Ident
		Body  Stmt
	}

	WithStmt struct {
		Base
		Object Expr
		Body   Stmt
	}

	DebuggerStmt struct {
		Base
	}
)

func (*VarDecl) stmtNode()      {}
func (*FuncDecl) stmtNode()     {}
func (*ClassDecl) stmtNode()    {}
func (*ExprStmt) stmtNode()     {}
func (*BlockStmt) stmtNode()    {}
func (*EmptyStmt) stmtNode()    {}
func (*IfStmt) stmtNode()       {}
func (*ForStmt) stmtNode()      {}
func (*ForInStmt) stmtNode()    {}
func (*ForOfStmt) stmtNode()    {}
func (*WhileStmt) stmtNode()    {}
func (*DoWhileStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode()   {}
func (*ThrowStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*TryStmt) stmtNode()      {}
func (*SwitchStmt) stmtNode()   {}
func (*LabeledStmt) stmtNode()  {}
func (*WithStmt) stmtNode()     {}
func (*DebuggerStmt) stmtNode() {}

// LoopBody returns the body of a loop statement, or nil if s is not a loop.
func LoopBody(s Stmt) Stmt {
	switch s := s.(type) {
	case *ForStmt:
		return s.Body
	case *ForInStmt:
		return s.Body
	case *ForOfStmt:
		return s.Body
	case *WhileStmt:
		return s.Body
	case *DoWhileStmt:
		return s.Body
	}
	return nil
}
