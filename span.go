package regionflow

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
)

// FromSpan builds an Analysis for the source range [start, end] inside
// file. The selection snaps to whole statements: every statement of the
// innermost statement list the range touches becomes part of the
// region, and a range inside a single statement selects that statement.
// A range touching no statement yields the empty region; a range
// outside any function body, or spanning one's brace, yields a failed
// analysis.
func FromSpan(file *ast.File, info *types.Info, start, end token.Pos) *Analysis {
	if end < start {
		start, end = end, start
	}
	path, _ := astutil.PathEnclosingInterval(file, start, end)
	body := enclosingBody(path)
	if body == nil || start < body.Lbrace || body.Rbrace < end {
		return &Analysis{info: info}
	}
	first, last := selectRun(path, start, end)
	return New(body, info, first, last)
}

// enclosingBody returns the body of the innermost function enclosing
// the path's interval, or nil.
func enclosingBody(path []ast.Node) *ast.BlockStmt {
	for _, n := range path {
		switch n := n.(type) {
		case *ast.FuncLit:
			return n.Body
		case *ast.FuncDecl:
			return n.Body
		}
	}
	return nil
}

// selectRun maps a source range to region endpoints. The path is
// innermost first, as returned by PathEnclosingInterval.
func selectRun(path []ast.Node, start, end token.Pos) (first, last ast.Node) {
	if len(path) == 0 {
		return nil, nil
	}
	if list := stmtList(path[0]); list != nil {
		var f, l ast.Stmt
		for _, s := range list {
			if s.End() < start || end < s.Pos() {
				continue
			}
			if f == nil {
				f = s
			}
			l = s
		}
		if f == nil {
			return nil, nil
		}
		return f, l
	}
	// The range sits inside a single statement: snap to the outermost
	// statement below the owning list.
	for i, n := range path {
		s, ok := n.(ast.Stmt)
		if !ok {
			continue
		}
		if i+1 < len(path) && stmtList(path[i+1]) != nil {
			return s, s
		}
	}
	return nil, nil
}
