// Package regionflow analyzes the control flow crossing the boundary
// of a source region: a contiguous selection of statements, a single
// statement, or a single expression inside one function body.
//
// An Analysis answers four questions about its region:
//
//   - entry points: statements outside the region that jump into it
//   - exit points: statements inside the region that jump out of it
//   - whether the region's first instruction is reachable
//   - whether the point just past the region is reachable
//
// Build one with New from explicit region endpoints, or with FromSpan
// from a source position range. Construction validates the selection;
// Succeeded reports the outcome. Queries on a failed analysis return
// conservative defaults: empty point sets and reachable boundaries.
//
// Each product is computed lazily on first request and cached. An
// Analysis is safe for concurrent use: racing goroutines may both
// compute a product, the first to publish wins, and every caller sees
// the published copy. Traversal checks the query context between node
// visits; cancellation surfaces as the context's error and leaves the
// cache untouched, so a later query recomputes.
package regionflow

import (
	"context"
	"go/ast"
	"go/types"
	"sync/atomic"
)

// Analysis answers control-flow questions about one region. The zero
// value is a failed analysis; use New or FromSpan.
type Analysis struct {
	info   *types.Info
	region region

	entries atomic.Pointer[[]ast.Stmt]
	exits   atomic.Pointer[[]ast.Stmt]
	bounds  atomic.Pointer[boundary]
}

// New builds an Analysis for the region delimited by first and last
// inside body, the block of one function declaration or literal. The
// endpoints must be sibling statements of one statement list, in source
// order, or one identical statement or expression. Passing nil for both
// selects the empty region, which succeeds trivially. The type info may
// be nil; constant conditions are then not folded.
func New(body *ast.BlockStmt, info *types.Info, first, last ast.Node) *Analysis {
	return &Analysis{info: info, region: newRegion(body, first, last)}
}

// Succeeded reports whether the selection formed an analyzable region.
func (a *Analysis) Succeeded() bool {
	return a.region.valid
}

// RegionNodes returns the validated selection: the statement run, the
// single expression, or nil for empty and failed regions. The slice is
// shared; callers must not modify it.
func (a *Analysis) RegionNodes() []ast.Node {
	switch {
	case !a.region.valid:
		return nil
	case a.region.expr != nil:
		return []ast.Node{a.region.expr}
	case len(a.region.stmts) == 0:
		return nil
	}
	nodes := make([]ast.Node, len(a.region.stmts))
	for i, s := range a.region.stmts {
		nodes[i] = s
	}
	return nodes
}

// EntryPoints returns the statements outside the region that transfer
// control into it, in source order. The only possible error is the
// context's, on cancellation.
func (a *Analysis) EntryPoints(ctx context.Context) ([]ast.Stmt, error) {
	if !a.region.valid {
		return nil, nil
	}
	if p := a.entries.Load(); p != nil {
		return *p, nil
	}
	pts, err := entryPoints(ctx, a.info, &a.region)
	if err != nil {
		return nil, err
	}
	a.entries.CompareAndSwap(nil, &pts)
	return *a.entries.Load(), nil
}

// ExitPoints returns the statements inside the region that transfer
// control out of it, in source order.
func (a *Analysis) ExitPoints(ctx context.Context) ([]ast.Stmt, error) {
	if !a.region.valid {
		return nil, nil
	}
	if p := a.exits.Load(); p != nil {
		return *p, nil
	}
	pts, err := exitPoints(ctx, &a.region)
	if err != nil {
		return nil, err
	}
	a.exits.CompareAndSwap(nil, &pts)
	return *a.exits.Load(), nil
}

// ReturnStatements returns the subset of ExitPoints that are return
// statements, preserving their order.
func (a *Analysis) ReturnStatements(ctx context.Context) ([]ast.Stmt, error) {
	exits, err := a.ExitPoints(ctx)
	if err != nil {
		return nil, err
	}
	var returns []ast.Stmt
	for _, s := range exits {
		if _, ok := s.(*ast.ReturnStmt); ok {
			returns = append(returns, s)
		}
	}
	return returns, nil
}

// StartPointIsReachable reports whether execution can reach the
// region's first instruction. Failed and empty regions report true.
func (a *Analysis) StartPointIsReachable(ctx context.Context) (bool, error) {
	b, err := a.boundary(ctx)
	if err != nil {
		return false, err
	}
	return b.start, nil
}

// EndPointIsReachable reports whether execution can reach the point
// immediately past the region. Failed and empty regions report true.
func (a *Analysis) EndPointIsReachable(ctx context.Context) (bool, error) {
	b, err := a.boundary(ctx)
	if err != nil {
		return false, err
	}
	return b.end, nil
}

func (a *Analysis) boundary(ctx context.Context) (boundary, error) {
	if !a.region.valid {
		return boundary{start: true, end: true}, nil
	}
	if p := a.bounds.Load(); p != nil {
		return *p, nil
	}
	b, err := boundaryWalk(ctx, a.info, &a.region)
	if err != nil {
		return boundary{}, err
	}
	a.bounds.CompareAndSwap(nil, &b)
	return *a.bounds.Load(), nil
}
