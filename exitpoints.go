package regionflow

import (
	"context"
	"go/ast"
	"go/token"

	"github.com/regionflow/regionflow/internal/jump"
)

// exitPoints walks the region collecting statements that transfer
// control past its boundary. A return always exits. A break, continue,
// goto or fallthrough exits when its target construct or statement lies
// outside the region; an unresolvable jump is treated as leaving the
// routine entirely and so also exits. Calls that panic are not exits:
// unwinding is not a control transfer to a reachable point in this
// routine.
func exitPoints(ctx context.Context, r *region) ([]ast.Stmt, error) {
	if r.empty() {
		return nil, nil
	}
	tbl := jump.Build(r.body)
	var pts []ast.Stmt
	err := walkStack(ctx, r.body, func(stack []ast.Node, n ast.Node) {
		if !r.contains(n) {
			return
		}
		switch n := n.(type) {
		case *ast.ReturnStmt:
			pts = append(pts, n)
		case *ast.BranchStmt:
			var target ast.Node
			switch n.Tok {
			case token.BREAK:
				target = jump.BreakTarget(stack)
			case token.CONTINUE:
				target = jump.ContinueTarget(stack)
			case token.GOTO:
				target = tbl.Goto(n)
			case token.FALLTHROUGH:
				target = tbl.Fallthrough(stack)
			}
			if target == nil || !r.contains(target) {
				pts = append(pts, n)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return pts, nil
}
