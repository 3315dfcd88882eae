package transform

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/codegen"
	"scriptkit/internal/source"
)

// lowerModules rewrites static import/export forms into calls to the
// loader and exporter, and dynamic import(x) / import.meta into their
// injected counterparts. Only the static forms make the script a module.
func lowerModules(c *Context, e *editor) {
	n := c.Opts.Names
	var visit func(ast.Node) bool
	visit = func(node ast.Node) bool {
		switch x := node.(type) {
		case *ast.ImportDecl:
			c.Info.IsModule = true
			e.replace(x.Range, c.importText(x))
			return false
		case *ast.ExportDecl:
			c.Info.IsModule = true
			e.delete(x.Keyword)
			if names := boundNames(x.Decl); len(names) > 0 {
				props := make([]ast.Node, 0, len(names))
				for _, name := range names {
					props = append(props, codegen.Prop(name, codegen.Ident(name)))
				}
				sep := " "
				if vd, ok := x.Decl.(*ast.VarDecl); ok && !vd.Semi {
					sep = "; "
				}
				e.insert(x.Range.End, sep+c.exportCall(&ast.ObjectLit{Props: props}))
			}
		case *ast.ExportDefault:
			c.Info.IsModule = true
			c.lowerExportDefault(e, x)
		case *ast.ExportList:
			c.Info.IsModule = true
			c.lowerExportList(e, x)
			return false
		case *ast.ExportAll:
			c.Info.IsModule = true
			args := []ast.Expr{x.Source}
			if x.Alias != "" {
				pair := &ast.ArrayLit{Elems: []ast.Expr{codegen.String("*"), codegen.String(x.Alias)}}
				args = append(args, &ast.ArrayLit{Elems: []ast.Expr{pair}})
			}
			e.replace(x.Range, c.exportCall(args...))
			return false
		case *ast.ImportCall:
			if x.Arg == nil {
				return true
			}
			// import(x, opts): opts не передаётся загрузчику, вместо него importMeta.
			e.replace(x.Keyword, n.Import)
			e.replace(source.Span{Start: x.Arg.Span().End, End: x.Range.End - 1}, ", "+n.Meta)
			ast.Inspect(x.Arg, visit)
			return false
		case *ast.ImportMeta:
			e.replace(x.Range, n.Meta)
		}
		return true
	}
	ast.Inspect(c.Prog, visit)
}

func (c *Context) loadCall(spec *ast.StringLit) ast.Expr {
	n := c.Opts.Names
	var load ast.Expr = codegen.Call(codegen.Ident(n.Import), spec, codegen.Ident(n.Meta))
	if !c.Opts.ForceSync {
		load = codegen.Await(load)
	}
	return load
}

func (c *Context) importText(d *ast.ImportDecl) string {
	empty := codegen.Print(codegen.Const(&ast.ObjectPattern{}, &ast.ObjectLit{}))
	if d.TypeOnly {
		return empty
	}
	var props []ast.Node
	if d.Default != nil {
		props = append(props, codegen.Bind("default", d.Default.Name))
	}
	for _, s := range d.Specs {
		if !s.TypeOnly {
			props = append(props, codegen.Bind(s.Imported, s.Local.Name))
		}
	}
	load := c.loadCall(d.Source)
	switch {
	case d.Namespace != nil:
		out := codegen.Print(codegen.Const(codegen.Ident(d.Namespace.Name), load))
		if len(props) > 0 {
			out += " " + codegen.Print(codegen.Const(&ast.ObjectPattern{Props: props}, codegen.Ident(d.Namespace.Name)))
		}
		return out
	case len(props) > 0:
		return codegen.Print(codegen.Const(&ast.ObjectPattern{Props: props}, load))
	case len(d.Specs) > 0:
		// import { type A } from "m"
		return empty
	}
	return codegen.Print(&ast.ExprStmt{X: load})
}

func (c *Context) exportCall(args ...ast.Expr) string {
	return codegen.Print(&ast.ExprStmt{X: codegen.Call(codegen.Ident(c.Opts.Names.Export), args...)})
}

func (c *Context) lowerExportDefault(e *editor, x *ast.ExportDefault) {
	switch v := x.Value.(type) {
	case *ast.FuncDecl:
		if v.Func.Body == nil {
			e.delete(x.Prefix)
			return
		}
		if v.Func.Name != nil {
			c.exportDefaultName(e, x, v.Func.Name.Name)
			return
		}
	case *ast.ClassDecl:
		if v.Class.Name != nil {
			c.exportDefaultName(e, x, v.Class.Name.Name)
			return
		}
	case *ast.TypeDecl:
		if v.Name != nil && v.Name.Name != "" {
			c.exportDefaultName(e, x, v.Name.Name)
		} else {
			e.delete(x.Range)
		}
		return
	}
	e.replace(x.Prefix, c.Opts.Names.Export+"({ default: ")
	closing := " })"
	switch x.Value.(type) {
	case *ast.FuncDecl, *ast.ClassDecl:
		closing = " });"
	}
	e.insertLeft(x.Value.Span().End, closing)
}

// exportDefaultName keeps a named declaration in place and exports it after.
func (c *Context) exportDefaultName(e *editor, x *ast.ExportDefault, name string) {
	e.delete(x.Prefix)
	obj := &ast.ObjectLit{Props: []ast.Node{codegen.Prop("default", codegen.Ident(name))}}
	e.insert(x.Range.End, " "+c.exportCall(obj))
}

func (c *Context) lowerExportList(e *editor, x *ast.ExportList) {
	var specs []*ast.ExportSpec
	if !x.TypeOnly {
		for _, s := range x.Specs {
			if !s.TypeOnly {
				specs = append(specs, s)
			}
		}
	}
	switch {
	case x.TypeOnly:
		e.delete(x.Range)
	case x.Source != nil:
		list := &ast.ArrayLit{}
		for _, s := range specs {
			if s.Local == s.Exported {
				list.Elems = append(list.Elems, codegen.String(s.Local))
				continue
			}
			list.Elems = append(list.Elems, &ast.ArrayLit{Elems: []ast.Expr{codegen.String(s.Local), codegen.String(s.Exported)}})
		}
		e.replace(x.Range, c.exportCall(x.Source, list))
	case len(specs) == 0:
		e.delete(x.Range)
	default:
		obj := &ast.ObjectLit{}
		for _, s := range specs {
			obj.Props = append(obj.Props, codegen.Prop(s.Exported, codegen.Ident(s.Local)))
		}
		e.replace(x.Range, c.exportCall(obj))
	}
}

// boundNames lists the runtime bindings a declaration introduces.
func boundNames(s ast.Stmt) []string {
	var out []string
	switch d := s.(type) {
	case *ast.VarDecl:
		for _, v := range d.Decls {
			patternNames(v.Target, &out)
		}
	case *ast.FuncDecl:
		if d.Func.Body != nil && d.Func.Name != nil {
			out = append(out, d.Func.Name.Name)
		}
	case *ast.ClassDecl:
		if d.Class.Name != nil {
			out = append(out, d.Class.Name.Name)
		}
	case *ast.TypeDecl:
		if d.Name != nil && d.Name.Name != "" {
			out = append(out, d.Name.Name)
		}
	}
	return out
}

func patternNames(n ast.Node, out *[]string) {
	switch p := n.(type) {
	case *ast.Ident:
		if p.Name != "" {
			*out = append(*out, p.Name)
		}
	case *ast.ObjectPattern:
		for _, prop := range p.Props {
			switch prop := prop.(type) {
			case *ast.PatternProp:
				patternNames(prop.Value, out)
			case *ast.RestElement:
				patternNames(prop.Arg, out)
			}
		}
	case *ast.ArrayPattern:
		for _, el := range p.Elems {
			if el != nil {
				patternNames(el, out)
			}
		}
	case *ast.AssignPattern:
		patternNames(p.Target, out)
	case *ast.RestElement:
		patternNames(p.Arg, out)
	}
}
