package transform

import (
	"scriptkit/internal/ast"
)

// eraseAsync drops async markers and await keywords. Expression structure
// is left alone: `await g()` becomes `g()`.
func eraseAsync(c *Context, e *editor) {
	ast.Inspect(c.Prog, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.Function:
			if x.Async != nil {
				e.deleteWord(*x.Async)
			}
		case *ast.AwaitExpr:
			e.deleteWord(x.Keyword)
		case *ast.ForOfStmt:
			if x.Await != nil {
				e.deleteWord(*x.Await)
			}
		}
		return true
	})
}

// DetectTopLevelAwait reports whether prog suspends outside every function
// and class body. Each function and class has its own async scope.
func DetectTopLevelAwait(prog *ast.Program) bool {
	found := false
	ast.Inspect(prog, func(n ast.Node) bool {
		if found || ast.IsFunctionBoundary(n) {
			return false
		}
		switch x := n.(type) {
		case *ast.AwaitExpr:
			found = true
		case *ast.ForOfStmt:
			found = x.Await != nil
		}
		return !found
	})
	return found
}
