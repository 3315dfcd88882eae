package codegen

import (
	"scriptkit/internal/ast"
)

// Printer renders AST fragments. Src, when set, supplies the text of nodes
// taken from the parsed input; synthetic nodes carry empty spans.
type Printer struct {
	Src string
	w   Writer
}

// Print renders n and returns the text.
func Print(n ast.Node) string {
	p := &Printer{}
	p.node(n)
	return p.w.String()
}

// PrintWithSource renders n, copying parsed nodes from src.
func PrintWithSource(src string, n ast.Node) string {
	p := &Printer{Src: src}
	p.node(n)
	return p.w.String()
}

func (p *Printer) verbatim(n ast.Node) bool {
	sp := n.Span()
	if p.Src == "" || sp.Empty() || int(sp.End) > len(p.Src) {
		return false
	}
	p.w.WriteString(p.Src[sp.Start:sp.End])
	return true
}

func (p *Printer) node(n ast.Node) {
	switch n := n.(type) {
	case nil:
	case *ast.Ident:
		p.w.WriteString(n.Name)
	case *ast.StringLit:
		if n.Raw != "" {
			p.w.WriteString(n.Raw)
		} else {
			p.w.WriteString(Quote(n.Value))
		}
	case *ast.Lit:
		p.w.WriteString(n.Raw)
	case *ast.ThisExpr:
		p.w.WriteString("this")
	case *ast.ObjectLit:
		p.objectLit(n)
	case *ast.ArrayLit:
		p.w.WriteByte('[')
		for i, e := range n.Elems {
			if i > 0 {
				p.w.WriteString(", ")
			}
			p.node(e)
		}
		p.w.WriteByte(']')
	case *ast.Property:
		p.property(n)
	case *ast.SpreadElement:
		p.w.WriteString("...")
		p.node(n.X)
	case *ast.CallExpr:
		p.node(n.Callee)
		p.args(n.Args)
	case *ast.MemberExpr:
		p.node(n.X)
		if n.Computed {
			p.w.WriteByte('[')
			p.node(n.Prop)
			p.w.WriteByte(']')
		} else {
			p.w.WriteByte('.')
			p.node(n.Prop)
		}
	case *ast.AwaitExpr:
		p.w.WriteString("await ")
		p.node(n.Arg)
	case *ast.AssignExpr:
		p.node(n.Target)
		p.w.WriteString(" " + n.Op.String() + " ")
		p.node(n.Value)
	case *ast.ExprStmt:
		p.node(n.X)
		p.w.WriteByte(';')
	case *ast.VarDecl:
		p.w.WriteString(n.Kind)
		p.w.WriteByte(' ')
		for i, d := range n.Decls {
			if i > 0 {
				p.w.WriteString(", ")
			}
			p.node(d.Target)
			if d.Init != nil {
				p.w.WriteString(" = ")
				p.node(d.Init)
			}
		}
		p.w.WriteByte(';')
	case *ast.ObjectPattern:
		p.objectPattern(n)
	case *ast.PatternProp:
		if n.Shorthand {
			p.node(n.Value)
			return
		}
		p.key(n.Key, n.Computed)
		p.w.WriteString(": ")
		p.node(n.Value)
	case *ast.RestElement:
		p.w.WriteString("...")
		p.node(n.Arg)
	default:
		p.verbatim(n)
	}
}

func (p *Printer) args(args []ast.Expr) {
	p.w.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.node(a)
	}
	p.w.WriteByte(')')
}

func (p *Printer) objectLit(o *ast.ObjectLit) {
	if len(o.Props) == 0 {
		p.w.WriteString("{}")
		return
	}
	p.w.WriteString("{ ")
	for i, prop := range o.Props {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.node(prop)
	}
	p.w.WriteString(" }")
}

func (p *Printer) objectPattern(o *ast.ObjectPattern) {
	if len(o.Props) == 0 {
		p.w.WriteString("{}")
		return
	}
	p.w.WriteString("{ ")
	for i, prop := range o.Props {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.node(prop)
	}
	p.w.WriteString(" }")
}

func (p *Printer) property(pr *ast.Property) {
	if pr.Shorthand {
		p.node(pr.Value)
		return
	}
	p.key(pr.Key, pr.Computed)
	p.w.WriteString(": ")
	p.node(pr.Value)
}

// key пишет ключ свойства; строки, не являющиеся идентификаторами, в кавычках.
func (p *Printer) key(k ast.Expr, computed bool) {
	if computed {
		p.w.WriteByte('[')
		p.node(k)
		p.w.WriteByte(']')
		return
	}
	if s, ok := k.(*ast.StringLit); ok && s.Raw == "" && IsIdentifierName(s.Value) {
		p.w.WriteString(s.Value)
		return
	}
	p.node(k)
}

// Helpers for building synthetic nodes.

func Ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func String(v string) *ast.StringLit { return &ast.StringLit{Value: v} }

func Call(callee ast.Expr, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Callee: callee, Args: args}
}

func Await(x ast.Expr) *ast.AwaitExpr { return &ast.AwaitExpr{Arg: x} }

// Prop builds `key: value`, or the shorthand form when value is an
// identifier with the same name.
func Prop(key string, value ast.Expr) *ast.Property {
	if id, ok := value.(*ast.Ident); ok && id.Name == key {
		return &ast.Property{Kind: "init", Key: Ident(key), Shorthand: true, Value: value}
	}
	return &ast.Property{Kind: "init", Key: String(key), Value: value}
}

// Bind builds a destructuring entry `imported: local` (shorthand when equal).
func Bind(imported, local string) *ast.PatternProp {
	if imported == local {
		return &ast.PatternProp{Key: Ident(local), Shorthand: true, Value: Ident(local)}
	}
	return &ast.PatternProp{Key: String(imported), Value: Ident(local)}
}

// Const builds `const target = init;`.
func Const(target ast.Node, init ast.Expr) *ast.VarDecl {
	return &ast.VarDecl{
		Kind:  "const",
		Decls: []*ast.VarDeclarator{{Target: target, Init: init}},
		Semi:  true,
	}
}

