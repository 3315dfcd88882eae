package compiler

import (
	"strings"

	"scriptkit/internal/ast"
	"scriptkit/internal/codegen"
)

// Names the factory binds. The $$ prefix keeps them out of the way of user
// identifiers.
const (
	factoryName = "$$factory"
	constsParam = "$$c"
	varsParam   = "$$v"
	globalParam = "$$g"
)

type assembly struct {
	src         string
	declLines   int
	scopedLines int
}

type assembler struct {
	b     strings.Builder
	lines int
}

func (a *assembler) line(s string) {
	a.b.WriteString(s)
	a.b.WriteByte('\n')
	a.lines++
}

func lookup(obj, name string) *ast.MemberExpr {
	return &ast.MemberExpr{X: codegen.Ident(obj), Prop: codegen.String(name), Computed: true}
}

// assemble wraps the transpiled code in the factory. scoped adds the
// with-block for a global override; constants are declared inside it so
// the override can never shadow them.
func assemble[T any](code string, async, scoped bool, o *Options[T]) assembly {
	a := &assembler{}
	a.line("(function " + factoryName + "(" + constsParam + ", " + varsParam + ", " + globalParam + ") {")
	if scoped {
		a.line("with (" + globalParam + ") {")
	}
	for _, name := range sortedKeys(o.Constants) {
		a.line(codegen.Print(codegen.Const(codegen.Ident(name), lookup(constsParam, name))))
	}

	params := make([]string, len(o.Arguments))
	for i, arg := range o.Arguments {
		params[i] = arg[0]
	}
	header := "return function " + o.FunctionName + "(" + strings.Join(params, ", ") + ") {"
	if async {
		header = "return async function " + o.FunctionName + "(" + strings.Join(params, ", ") + ") {"
	}
	a.line(header)

	for _, name := range sortedKeys(o.Variables) {
		if strings.HasPrefix(name, DefaultMarker) {
			continue
		}
		a.line(codegen.Print(&ast.VarDecl{
			Kind:  "let",
			Decls: []*ast.VarDeclarator{{Target: codegen.Ident(name), Init: codegen.Call(lookup(varsParam, name))}},
			Semi:  true,
		}))
	}
	for _, arg := range o.Arguments {
		param := arg[0]
		for _, name := range arg {
			if _, ok := o.Variables[DefaultMarker+name]; ok {
				def := codegen.Print(codegen.Call(lookup(varsParam, DefaultMarker+name)))
				a.line("if (" + param + " === undefined) " + param + " = " + def + ";")
				break
			}
		}
		for _, alias := range arg[1:] {
			a.line("let " + alias + " = " + param + ";")
		}
	}

	declLines := a.lines
	a.b.WriteString(code)
	a.b.WriteString("\n};\n")
	if scoped {
		a.b.WriteString("}\n")
	}
	a.b.WriteString("})")

	out := assembly{src: a.b.String(), declLines: declLines}
	if scoped {
		out.declLines--
		out.scopedLines = 1
	}
	return out
}
