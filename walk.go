package regionflow

import (
	"context"
	"go/ast"
)

// walkStack traverses root in source order keeping the chain of
// enclosing nodes, skipping nested function literals, and checking ctx
// between node visits. The stack passed to visit ends with the current
// node and must not be retained.
func walkStack(ctx context.Context, root ast.Node, visit func(stack []ast.Node, n ast.Node)) error {
	var stack []ast.Node
	var err error
	ast.Inspect(root, func(n ast.Node) bool {
		switch {
		case n == nil:
			stack = stack[:len(stack)-1]
			return true
		case err != nil:
			return false
		}
		if err = ctx.Err(); err != nil {
			return false
		}
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}
		stack = append(stack, n)
		visit(stack, n)
		return true
	})
	return err
}
