package transform

import (
	"scriptkit/internal/ast"
)

// guardLoops makes the loop guard the first statement of every loop body.
// A block body gets the call after its '{', an empty body is replaced by
// the call, any other statement is wrapped in a new block. Wrapping never
// moves a `var` declaration out of its function scope, since blocks only
// scope let/const/class.
func guardLoops(c *Context, e *editor) {
	call := c.Opts.Names.LoopGuard + "();"
	ast.Inspect(c.Prog, func(n ast.Node) bool {
		s, ok := n.(ast.Stmt)
		if !ok {
			return true
		}
		body := ast.LoopBody(s)
		if body == nil {
			return true
		}
		sp := body.Span()
		switch body.(type) {
		case *ast.BlockStmt:
			e.insert(sp.Start+1, call)
		case *ast.EmptyStmt:
			e.replace(sp, call)
		default:
			e.insert(sp.Start, "{"+call+" ")
			e.insertLeft(sp.End, "}")
		}
		return true
	})
}
