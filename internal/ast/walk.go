package ast

// Children returns the direct sub-nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addFunc := func(f *Function) {
		if f != nil {
			out = append(out, f)
		}
	}
	addType := func(t *TypeAnn) {
		if t != nil {
			out = append(out, t)
		}
	}
	addIdent := func(id *Ident) {
		if id != nil {
			out = append(out, id)
		}
	}
	addBlock := func(b *BlockStmt) {
		if b != nil {
			out = append(out, b)
		}
	}
	addClass := func(c *Class) {
		if c != nil {
			out = append(out, c)
		}
	}
	addArgs := func(a *TypeArgs) {
		if a != nil {
			out = append(out, a)
		}
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Body {
			add(s)
		}
	case *VarDecl:
		for _, d := range n.Decls {
			out = append(out, d)
		}
	case *VarDeclarator:
		add(n.Target)
		addType(n.Type)
		add(n.Init)
	case *FuncDecl:
		addFunc(n.Func)
	case *ClassDecl:
		addClass(n.Class)
	case *ExprStmt:
		add(n.X)
	case *BlockStmt:
		for _, s := range n.Body {
			add(s)
		}
	case *IfStmt:
		add(n.Test)
		add(n.Cons)
		add(n.Alt)
	case *ForStmt:
		add(n.Init)
		add(n.Test)
		add(n.Update)
		add(n.Body)
	case *ForInStmt:
		add(n.Left)
		add(n.Right)
		add(n.Body)
	case *ForOfStmt:
		add(n.Left)
		add(n.Right)
		add(n.Body)
	case *WhileStmt:
		add(n.Test)
		add(n.Body)
	case *DoWhileStmt:
		add(n.Body)
		add(n.Test)
	case *ReturnStmt:
		add(n.Arg)
	case *ThrowStmt:
		add(n.Arg)
	case *BreakStmt:
		addIdent(n.Label)
	case *ContinueStmt:
		addIdent(n.Label)
	case *TryStmt:
		addBlock(n.Block)
		add(n.Param)
		addType(n.ParamType)
		addBlock(n.Handler)
		addBlock(n.Finalizer)
	case *SwitchStmt:
		add(n.Disc)
		for _, c := range n.Cases {
			out = append(out, c)
		}
	case *SwitchCase:
		add(n.Test)
		for _, s := range n.Body {
			add(s)
		}
	case *LabeledStmt:
		addIdent(n.Label)
		add(n.Body)
	case *WithStmt:
		add(n.Object)
		add(n.Body)
	case *ImportDecl:
		// bindings are lowered as a whole; nothing inside carries code
	case *ExportDecl:
		add(n.Decl)
	case *ExportDefault:
		add(n.Value)
	case *DeclareStmt, *TypeDecl, *ExportList, *ExportAll:
		// erased or replaced wholesale
	case *Function:
		addIdent(n.Name)
		if n.TypeParams != nil {
			out = append(out, n.TypeParams)
		}
		for _, p := range n.Params {
			out = append(out, p)
		}
		addType(n.ReturnType)
		addBlock(n.Body)
		add(n.ExprBody)
	case *Param:
		add(n.Pattern)
		addType(n.Type)
		add(n.Default)
	case *Class:
		addIdent(n.Name)
		if n.TypeParams != nil {
			out = append(out, n.TypeParams)
		}
		add(n.Super)
		addArgs(n.SuperTypeArgs)
		for _, m := range n.Members {
			add(m)
		}
	case *MethodDef:
		add(n.Key)
		addFunc(n.Func)
	case *FieldDef:
		add(n.Key)
		addType(n.Type)
		add(n.Value)
	case *StaticBlock:
		addBlock(n.Body)
	case *TaggedTemplate:
		add(n.Tag)
		addArgs(n.TypeArgs)
		if n.Quasi != nil {
			out = append(out, n.Quasi)
		}
	case *TemplateLit:
		for _, e := range n.Exprs {
			add(e)
		}
	case *ArrayLit:
		for _, e := range n.Elems {
			add(e)
		}
	case *ObjectLit:
		for _, p := range n.Props {
			add(p)
		}
	case *Property:
		add(n.Key)
		if n.Func != nil {
			out = append(out, n.Func)
		} else if !n.Shorthand {
			add(n.Value)
		} else if a, ok := n.Value.(*AssignExpr); ok {
			add(a.Value)
		}
	case *SpreadElement:
		add(n.X)
	case *FuncExpr:
		addFunc(n.Func)
	case *ArrowFunc:
		addFunc(n.Func)
	case *ClassExpr:
		addClass(n.Class)
	case *UnaryExpr:
		add(n.X)
	case *UpdateExpr:
		add(n.X)
	case *BinaryExpr:
		add(n.X)
		add(n.Y)
	case *AssignExpr:
		add(n.Target)
		add(n.Value)
	case *CondExpr:
		add(n.Test)
		add(n.Cons)
		add(n.Alt)
	case *CallExpr:
		add(n.Callee)
		addArgs(n.TypeArgs)
		for _, a := range n.Args {
			add(a)
		}
	case *NewExpr:
		add(n.Callee)
		addArgs(n.TypeArgs)
		for _, a := range n.Args {
			add(a)
		}
	case *MemberExpr:
		add(n.X)
		add(n.Prop)
	case *SeqExpr:
		for _, e := range n.List {
			add(e)
		}
	case *ParenExpr:
		add(n.X)
	case *YieldExpr:
		add(n.Arg)
	case *AwaitExpr:
		add(n.Arg)
	case *ImportCall:
		add(n.Arg)
		add(n.Options)
	case *AsExpr:
		add(n.X)
	case *NonNullExpr:
		add(n.X)
	case *ObjectPattern:
		for _, p := range n.Props {
			add(p)
		}
	case *PatternProp:
		if !n.Shorthand {
			add(n.Key)
		}
		add(n.Value)
	case *ArrayPattern:
		for _, e := range n.Elems {
			add(e)
		}
	case *AssignPattern:
		add(n.Target)
		add(n.Default)
	case *RestElement:
		add(n.Arg)
	case *MarkupElement:
		if n.Name != nil {
			out = append(out, n.Name)
		}
		for _, a := range n.Attrs {
			add(a)
		}
		for _, c := range n.Children {
			add(c)
		}
	case *MarkupFragment:
		for _, c := range n.Children {
			add(c)
		}
	case *MarkupAttr:
		if n.Name != nil {
			out = append(out, n.Name)
		}
		add(n.Value)
	case *MarkupSpreadAttr:
		add(n.X)
	case *MarkupExprContainer:
		add(n.X)
	case *Ident, *Lit, *StringLit, *ThisExpr, *SuperExpr, *ImportMeta, *MetaProp,
		*EmptyStmt, *DebuggerStmt, *TypeAnn, *TypeParams, *TypeArgs, *IndexSignature,
		*MarkupName, *MarkupText:
		// leaves
	}
	return out
}

// Inspect traverses the tree rooted at n in depth-first source order. If f
// returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// IsFunctionBoundary reports whether n starts an independent async scope.
func IsFunctionBoundary(n Node) bool {
	switch n.(type) {
	case *Function, *Class:
		return true
	}
	return false
}
