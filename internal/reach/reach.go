// Package reach computes statement reachability across one routine
// body.
//
// The walk runs top down in source order. A statement list stays
// reachable until a statement that cannot complete normally, then
// everything after it is dead until a targeted label rescues the flow.
// Constant conditions fold through package term, so the marks agree
// with the completion analysis built on them. Nested function literals
// are separate routines and are left unmarked.
package reach

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/regionflow/regionflow/internal/term"
)

// Result holds the reachability marks for one routine body.
type Result struct {
	marks      map[ast.Stmt]bool
	deadStarts []ast.Stmt
}

// Reachable reports whether s was marked reachable. Statements the walk
// never visited are assumed reachable.
func (r *Result) Reachable(s ast.Stmt) bool {
	v, ok := r.marks[s]
	return !ok || v
}

// DeadStarts returns the first statement of every unreachable stretch,
// in source order. Later statements of the same stretch are marked but
// not listed.
func (r *Result) DeadStarts() []ast.Stmt {
	return r.deadStarts
}

// Routine marks every statement of body as reachable or not. The
// context is checked between statement visits; cancellation abandons
// the walk and returns the context error.
func Routine(ctx context.Context, info *types.Info, body *ast.BlockStmt) (*Result, error) {
	w := &walker{
		ctx:      ctx,
		info:     info,
		res:      &Result{marks: make(map[ast.Stmt]bool)},
		targeted: gotoTargets(body),
	}
	w.list(body.List, true, false)
	if w.err != nil {
		return nil, w.err
	}
	return w.res, nil
}

// gotoTargets collects the label names gotos in the routine jump to.
// Dead gotos count too: over-approximating keeps the marks
// conservative.
func gotoTargets(body *ast.BlockStmt) map[string]bool {
	m := make(map[string]bool)
	ast.Inspect(body, func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}
		if br, ok := n.(*ast.BranchStmt); ok && br.Tok == token.GOTO && br.Label != nil {
			m[br.Label.Name] = true
		}
		return true
	})
	return m
}

type walker struct {
	ctx      context.Context
	info     *types.Info
	res      *Result
	targeted map[string]bool
	err      error
}

// list walks one statement list. fresh marks the list as the start of a
// newly dead zone whose first statement has not been reported yet.
func (w *walker) list(list []ast.Stmt, reachable, fresh bool) {
	for i, s := range list {
		if w.err != nil {
			return
		}
		if !reachable && w.rescued(s) {
			reachable = true
			fresh = false
		}
		if !reachable && (i == 0 && fresh || i > 0 && w.res.marks[list[i-1]]) {
			w.res.deadStarts = append(w.res.deadStarts, s)
		}
		w.stmt(s, reachable, false)
		if reachable && !term.CompletesNormallyIn(w.info, s, w.res.Reachable) {
			reachable = false
		}
	}
}

// rescued reports whether s contains a labeled statement some goto in
// the routine targets, which lets control re-enter otherwise dead code.
func (w *walker) rescued(s ast.Stmt) bool {
	if len(w.targeted) == 0 {
		return false
	}
	found := false
	ast.Inspect(s, func(n ast.Node) bool {
		if found {
			return false
		}
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}
		if ls, ok := n.(*ast.LabeledStmt); ok && w.targeted[ls.Label.Name] {
			found = true
			return false
		}
		return true
	})
	return found
}

func (w *walker) stmt(s ast.Stmt, reachable, fresh bool) {
	if w.err != nil {
		return
	}
	if err := w.ctx.Err(); err != nil {
		w.err = err
		return
	}
	w.res.marks[s] = reachable

	switch s := s.(type) {
	case *ast.BlockStmt:
		w.list(s.List, reachable, fresh)
		return
	case *ast.LabeledStmt:
		w.stmt(s.Stmt, reachable, fresh)
		return
	}

	if fresh && !reachable {
		w.res.deadStarts = append(w.res.deadStarts, s)
	}

	switch s := s.(type) {
	case *ast.IfStmt:
		if s.Init != nil {
			w.stmt(s.Init, reachable, false)
		}
		thenR, elseR := reachable, reachable
		if v, ok := term.ConstBool(w.info, s.Cond); ok {
			if v {
				elseR = false
			} else {
				thenR = false
			}
		}
		w.stmt(s.Body, thenR, reachable && !thenR)
		if s.Else != nil {
			w.stmt(s.Else, elseR, reachable && !elseR)
		}

	case *ast.ForStmt:
		if s.Init != nil {
			w.stmt(s.Init, reachable, false)
		}
		bodyR := reachable
		if v, ok := term.ConstBool(w.info, s.Cond); ok && !v {
			bodyR = false
		}
		w.stmt(s.Body, bodyR, reachable && !bodyR)
		if s.Post != nil {
			w.stmt(s.Post, bodyR, false)
		}

	case *ast.RangeStmt:
		w.stmt(s.Body, reachable, false)

	case *ast.SwitchStmt:
		if s.Init != nil {
			w.stmt(s.Init, reachable, false)
		}
		w.clauses(s.Body, reachable)

	case *ast.TypeSwitchStmt:
		if s.Init != nil {
			w.stmt(s.Init, reachable, false)
		}
		w.stmt(s.Assign, reachable, false)
		w.clauses(s.Body, reachable)

	case *ast.SelectStmt:
		w.clauses(s.Body, reachable)
	}
}

// clauses walks the clause list of a switch, type switch or select.
// Every clause inherits the construct's reachability: which clause runs
// is a value question the analysis does not fold.
func (w *walker) clauses(body *ast.BlockStmt, reachable bool) {
	w.res.marks[body] = reachable
	for _, s := range body.List {
		w.res.marks[s] = reachable
		switch cc := s.(type) {
		case *ast.CaseClause:
			w.list(cc.Body, reachable, false)
		case *ast.CommClause:
			if cc.Comm != nil {
				w.stmt(cc.Comm, reachable, false)
			}
			w.list(cc.Body, reachable, false)
		}
	}
}
