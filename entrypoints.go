package regionflow

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/regionflow/regionflow/internal/jump"
	"github.com/regionflow/regionflow/internal/term"
)

// entryPoints walks the whole routine collecting out-of-region
// statements that transfer control into the region: resolvable gotos
// and fallthroughs targeting selected code, continues whose loop
// restarts inside it, and loops whose continuation edge wraps back into
// it. Jumps that resolve to nothing are skipped.
func entryPoints(ctx context.Context, info *types.Info, r *region) ([]ast.Stmt, error) {
	if r.empty() {
		return nil, nil
	}
	tbl := jump.Build(r.body)
	var pts []ast.Stmt
	err := walkStack(ctx, r.body, func(stack []ast.Node, n ast.Node) {
		switch n := n.(type) {
		case *ast.BranchStmt:
			if r.contains(n) {
				return
			}
			switch n.Tok {
			case token.GOTO:
				if t := tbl.Goto(n); t != nil && r.contains(t) {
					pts = append(pts, n)
				}
			case token.FALLTHROUGH:
				if t := tbl.Fallthrough(stack); t != nil && r.contains(t) {
					pts = append(pts, n)
				}
			case token.CONTINUE:
				loop := jump.ContinueTarget(stack)
				if loop != nil && !r.contains(loop) && r.entersBody(loop) {
					pts = append(pts, n)
				}
			}
		case *ast.ForStmt:
			if wrapsInto(info, r, n, n.Body) {
				pts = append(pts, n)
			}
		case *ast.RangeStmt:
			if wrapsInto(info, r, n, n.Body) {
				pts = append(pts, n)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return pts, nil
}

// wrapsInto reports whether loop's implicit back edge re-enters the
// region from below: the loop sits outside the region, its body starts
// inside it, and the body's last statement sits outside again and can
// complete normally. When the body never leaves the region the back
// edge is interior flow, not an entry.
func wrapsInto(info *types.Info, r *region, loop ast.Stmt, body *ast.BlockStmt) bool {
	if r.contains(loop) || len(body.List) == 0 {
		return false
	}
	if !r.contains(body.List[0]) {
		return false
	}
	last := body.List[len(body.List)-1]
	return !r.contains(last) && term.CompletesNormally(info, last)
}

// entersBody reports whether the first statement of loop's body lies
// inside the region.
func (r *region) entersBody(loop ast.Stmt) bool {
	var body *ast.BlockStmt
	switch l := loop.(type) {
	case *ast.ForStmt:
		body = l.Body
	case *ast.RangeStmt:
		body = l.Body
	}
	if body == nil || len(body.List) == 0 {
		return false
	}
	return r.contains(body.List[0])
}
