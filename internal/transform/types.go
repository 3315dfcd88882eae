package transform

import (
	"strings"

	"scriptkit/internal/ast"
	"scriptkit/internal/codegen"
	"scriptkit/internal/source"
)

// eraseTypes removes everything that exists only for the type checker.
// Type-only declarations become `const Name = {};` so that an export of the
// name stays valid. A deleted node is not descended into.
func eraseTypes(c *Context, e *editor) {
	ast.Inspect(c.Prog, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.TypeAnn, *ast.TypeParams, *ast.TypeArgs, *ast.IndexSignature, *ast.DeclareStmt:
			e.delete(n.Span())
			return false
		case *ast.TypeDecl:
			if x.Name == nil || x.Name.Name == "" {
				e.delete(x.Range)
			} else {
				e.replace(x.Range, codegen.Print(codegen.Const(codegen.Ident(x.Name.Name), &ast.ObjectLit{})))
			}
			return false
		case *ast.FuncDecl:
			if x.Func.Body == nil {
				e.delete(x.Range)
				return false
			}
		case *ast.AsExpr:
			e.delete(source.Span{Start: x.X.Span().End, End: x.Range.End})
		case *ast.NonNullExpr:
			e.delete(source.Span{Start: x.X.Span().End, End: x.Range.End})
		case *ast.VarDeclarator:
			deleteMarker(e, x.Definite)
		case *ast.Class:
			eraseModifiers(e, x.Modifiers)
			if x.Implements != nil {
				e.deleteWord(*x.Implements)
			}
		case *ast.MethodDef:
			if x.Func.Body == nil {
				e.delete(x.Range)
				return false
			}
			eraseModifiers(e, x.Modifiers)
			deleteMarker(e, x.Optional)
			if x.Kind == "constructor" {
				c.paramProperties(e, x.Func)
			}
		case *ast.FieldDef:
			if ast.HasModifier(x.Modifiers, "declare") || ast.HasModifier(x.Modifiers, "abstract") {
				e.delete(x.Range)
				return false
			}
			eraseModifiers(e, x.Modifiers)
			deleteMarker(e, x.Optional)
			deleteMarker(e, x.Definite)
		case *ast.Function:
			eraseThisParam(e, x)
		case *ast.Param:
			if x.This {
				return false
			}
			eraseModifiers(e, x.Modifiers)
			deleteMarker(e, x.Optional)
		}
		return true
	})
}

func deleteMarker(e *editor, sp *source.Span) {
	if sp != nil {
		e.delete(*sp)
	}
}

// eraseModifiers drops TS-only modifiers; static and accessor are real.
func eraseModifiers(e *editor, mods []ast.Modifier) {
	for _, m := range mods {
		switch m.Kind {
		case "static", "accessor":
		default:
			e.deleteWord(m.Span)
		}
	}
}

// eraseThisParam removes `this: T` along with the separator after it.
func eraseThisParam(e *editor, fn *ast.Function) {
	for i, p := range fn.Params {
		if !p.This {
			continue
		}
		end := fn.ParamList.End - 1
		if i+1 < len(fn.Params) {
			end = fn.Params[i+1].Range.Start
		}
		e.delete(source.Span{Start: p.Range.Start, End: end})
	}
}

// paramProperties turns `constructor(private x)` into an assignment at
// the top of the body, after a leading super(...) call when there is one.
func (c *Context) paramProperties(e *editor, fn *ast.Function) {
	if fn.Body == nil {
		return
	}
	var assigns []string
	for _, p := range fn.Params {
		if len(p.Modifiers) == 0 || p.Name() == "" {
			continue
		}
		assigns = append(assigns, "this."+p.Name()+" = "+p.Name()+";")
	}
	if len(assigns) == 0 {
		return
	}
	text := strings.Join(assigns, " ")
	at := fn.Body.Range.Start + 1
	for _, st := range fn.Body.Body {
		if isSuperCall(st) {
			at = st.Span().End
			if c.Src[at-1] == ';' {
				text = " " + text
			} else {
				text = "; " + text
			}
			break
		}
	}
	e.insert(at, text)
}

func isSuperCall(st ast.Stmt) bool {
	es, ok := st.(*ast.ExprStmt)
	if !ok {
		return false
	}
	call, ok := es.X.(*ast.CallExpr)
	if !ok {
		return false
	}
	_, ok = call.Callee.(*ast.SuperExpr)
	return ok
}
