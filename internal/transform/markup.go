package transform

import (
	"strings"

	"scriptkit/internal/ast"
	"scriptkit/internal/codegen"
	"scriptkit/internal/source"
)

// lowerMarkup turns <tag a="1">text{x}</tag> into
// h("tag",{ "a":"1"},`text`,x,). Each element rewrites its own tags,
// attributes and child separators; nested elements are reached by the
// traversal and rewrite themselves.
func lowerMarkup(c *Context, e *editor) {
	n := c.Opts.Names
	ast.Inspect(c.Prog, func(node ast.Node) bool {
		switch x := node.(type) {
		case *ast.MarkupElement:
			c.lowerElement(e, x)
		case *ast.MarkupFragment:
			e.replace(x.Open, n.Factory+"("+n.Fragment+",null,")
			lowerChildren(e, x.Children)
			e.replace(x.Close, ")")
		}
		return true
	})
}

func (c *Context) lowerElement(e *editor, x *ast.MarkupElement) {
	start := x.Range.Start
	e.replace(source.Span{Start: start, End: start + 1}, c.Opts.Names.Factory+"(")
	if x.Name.IsIntrinsic() {
		e.replace(x.Name.Range, codegen.Quote(x.Name.Raw))
	}
	nameEnd := x.Name.Range.End
	if len(x.Attrs) == 0 {
		e.insert(nameEnd, ",null")
	} else {
		e.insert(nameEnd, ",{")
		for i, a := range x.Attrs {
			lowerAttr(e, a)
			sep := ","
			if i == len(x.Attrs)-1 {
				sep = "}"
			}
			e.insert(a.Span().End, sep)
		}
	}
	if x.SelfClosing {
		e.replace(x.OpenEnd, ")")
		return
	}
	e.replace(x.OpenEnd, ",")
	lowerChildren(e, x.Children)
	e.replace(x.Close, ")")
}

func lowerAttr(e *editor, a ast.Node) {
	switch a := a.(type) {
	case *ast.MarkupSpreadAttr:
		sp := a.Range
		e.delete(source.Span{Start: sp.Start, End: sp.Start + 1})
		e.delete(source.Span{Start: sp.End - 1, End: sp.End})
	case *ast.MarkupAttr:
		name := a.Name.Range
		e.replace(name, codegen.Quote(a.Name.Raw))
		switch v := a.Value.(type) {
		case nil:
			e.insert(name.End, ":true")
		case *ast.StringLit:
			e.replace(source.Span{Start: name.End, End: v.Range.Start}, ":")
			// Значение атрибута не знает escape-последовательностей.
			if strings.ContainsAny(v.Value, "\\\n\r\u2028\u2029") {
				e.replace(v.Range, codegen.Quote(v.Value))
			}
		case *ast.MarkupExprContainer:
			sp := v.Range
			e.replace(source.Span{Start: name.End, End: sp.Start + 1}, ":")
			e.delete(source.Span{Start: sp.End - 1, End: sp.End})
		default:
			e.replace(source.Span{Start: name.End, End: v.Span().Start}, ":")
		}
	}
}

func lowerChildren(e *editor, children []ast.Node) {
	for _, ch := range children {
		sp := ch.Span()
		switch ch := ch.(type) {
		case *ast.MarkupText:
			if isLayoutText(ch.Raw) {
				e.delete(sp)
				continue
			}
			e.insert(sp.Start, "`")
			for i := 0; i < len(ch.Raw); i++ {
				switch ch.Raw[i] {
				case '`', '\\', '$':
					e.insert(sp.Start+uint32(i), "\\")
				}
			}
			e.insert(sp.End, "`,")
		case *ast.MarkupExprContainer:
			if ch.X == nil {
				e.replace(sp, `""`)
			} else {
				e.delete(source.Span{Start: sp.Start, End: sp.Start + 1})
				e.delete(source.Span{Start: sp.End - 1, End: sp.End})
			}
			e.insert(sp.End, ",")
		default:
			e.insert(sp.End, ",")
		}
	}
}

// isLayoutText reports text that only formats the markup: whitespace
// spanning a line break.
func isLayoutText(s string) bool {
	return strings.TrimLeft(s, " \t\r\n") == "" && strings.ContainsRune(s, '\n')
}
