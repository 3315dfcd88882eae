package ast

type (
	// TypeAnn covers ': T' (colon included). Type syntax is validated by the
	// parser but never modelled: annotations are only ever erased.
	TypeAnn struct {
		Base
	}

	// TypeParams covers '<T, U extends X = Y>'.
	TypeParams struct {
		Base
	}

	// TypeArgs covers '<A, B>' on calls, new and heritage clauses.
	TypeArgs struct {
		Base
	}

	// TypeDecl is a type-only declaration: interface, type alias, enum,
	// namespace/module block.
	TypeDecl struct {
		Base
		Kind string
		Name *Ident
	}

	// DeclareStmt is `declare <declaration>`, an ambient form with no runtime code.
	DeclareStmt struct {
		Base
		Decl Stmt
	}
)

func (*TypeDecl) stmtNode()    {}
func (*DeclareStmt) stmtNode() {}
