package ast

import (
	"scriptkit/internal/source"
)

type (
	ImportDecl struct {
		Base
		TypeOnly  bool
		Default   *Ident
		Namespace *Ident
		Specs     []*ImportSpec
		Source    *StringLit
	}

	ImportSpec struct {
		Base
		Imported string
		Local    *Ident
		TypeOnly bool
	}

	// ExportDecl is `export <declaration>`; Keyword covers `export` and the
	// whitespace up to the declaration.
	ExportDecl struct {
		Base
		Keyword source.Span
		Decl    Stmt
	}

	// ExportDefault is `export default <value>`; Value is an Expr, *FuncDecl
	// or *ClassDecl. Prefix covers `export default` and following whitespace.
	ExportDefault struct {
		Base
		Prefix source.Span
		Value  Node
		Semi   bool
	}

	// ExportList is `export { a, b as c } [from "m"];`.
	ExportList struct {
		Base
		TypeOnly bool
		Specs    []*ExportSpec
		Source   *StringLit
	}

	ExportSpec struct {
		Base
		Local    string
		Exported string
		TypeOnly bool
	}

	// ExportAll is `export * [as ns] from "m";`.
	ExportAll struct {
		Base
		Alias  string
		Source *StringLit
	}
)

func (*ImportDecl) stmtNode()    {}
func (*ExportDecl) stmtNode()    {}
func (*ExportDefault) stmtNode() {}
func (*ExportList) stmtNode()    {}
func (*ExportAll) stmtNode()     {}
