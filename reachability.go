package regionflow

import (
	"context"
	"go/ast"
	"go/types"

	"github.com/regionflow/regionflow/internal/reach"
	"github.com/regionflow/regionflow/internal/term"
)

// boundary holds the two reachability answers for a region.
type boundary struct {
	start bool
	end   bool
}

// boundaryWalk runs the whole-routine reachability analysis and derives
// both boundary answers from it. The start is reachable when the
// statement holding the region's first instruction is. The end is
// reachable unless the region's final statement cannot complete
// normally, judged against the same reachability marks so that dead
// code inside the region does not distort the answer.
func boundaryWalk(ctx context.Context, info *types.Info, r *region) (boundary, error) {
	b := boundary{start: true, end: true}
	if r.empty() {
		return b, nil
	}
	res, err := reach.Routine(ctx, info, r.body)
	if err != nil {
		return boundary{}, err
	}
	if r.anchor != nil {
		b.start = res.Reachable(r.anchor)
	}
	switch {
	case r.expr != nil:
		// An expression region completes unless it is the entire
		// content of a non-completing statement, like a panic call.
		if es, ok := r.anchor.(*ast.ExprStmt); ok && es.X == r.expr {
			b.end = term.CompletesNormallyIn(info, es, res.Reachable)
		}
	case len(r.stmts) > 0:
		// A synthetic block applies the statement-list rule to the
		// run: the last live selected statement decides.
		run := &ast.BlockStmt{List: r.stmts}
		b.end = term.CompletesNormallyIn(info, run, res.Reachable)
	}
	return b, nil
}
