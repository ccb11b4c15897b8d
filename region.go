package regionflow

import (
	"go/ast"
)

// region is a validated contiguous selection inside one routine body.
// first and last delimit either a run of sibling statements, a single
// statement, or a single expression. Both nil selects the empty region,
// which is valid and analyzes trivially.
type region struct {
	body  *ast.BlockStmt
	first ast.Node
	last  ast.Node

	stmts  []ast.Stmt // selected run; nil for expression and empty regions
	expr   ast.Expr   // non-nil for single-expression regions
	anchor ast.Stmt   // innermost routine statement holding the region start
	valid  bool
}

func newRegion(body *ast.BlockStmt, first, last ast.Node) region {
	r := region{body: body, first: first, last: last}
	switch {
	case body == nil:
		return r
	case first == nil && last == nil:
		r.valid = true
		return r
	case first == nil || last == nil:
		return r
	}
	path := pathWithin(body, first)
	if path == nil || crossesFuncLit(path) {
		return r
	}
	if first == last {
		return r.single(path)
	}
	return r.run(path, last)
}

// single validates a one-node region, which may sit anywhere in the
// routine: any statement, or any expression.
func (r region) single(path []ast.Node) region {
	switch n := r.first.(type) {
	case ast.Stmt:
		r.stmts = []ast.Stmt{n}
		r.anchor = n
		r.valid = true
	case ast.Expr:
		r.expr = n
		r.anchor = enclosingStmt(path)
		r.valid = r.anchor != nil
	}
	return r
}

// run validates a multi-statement region: first and last must be
// members of the same statement list, in source order.
func (r region) run(path []ast.Node, last ast.Node) region {
	firstStmt, ok := r.first.(ast.Stmt)
	if !ok {
		return r
	}
	lastStmt, ok := last.(ast.Stmt)
	if !ok {
		return r
	}
	if len(path) < 2 {
		return r
	}
	list := stmtList(path[len(path)-2])
	i := stmtIndex(list, firstStmt)
	j := stmtIndex(list, lastStmt)
	if i < 0 || j < i {
		return r
	}
	r.stmts = list[i : j+1]
	r.anchor = firstStmt
	r.valid = true
	return r
}

// empty reports whether the region selects nothing.
func (r *region) empty() bool {
	return r.first == nil
}

// contains reports whether n lies within the region span.
func (r *region) contains(n ast.Node) bool {
	if !r.valid || r.first == nil {
		return false
	}
	return r.first.Pos() <= n.Pos() && n.End() <= r.last.End()
}

// pathWithin returns the chain of nodes from root down to target,
// inclusive, or nil when target is not part of root's subtree. Subtrees
// whose span cannot hold the target are pruned.
func pathWithin(root, target ast.Node) []ast.Node {
	if root == nil || target == nil {
		return nil
	}
	var stack, path []ast.Node
	ast.Inspect(root, func(n ast.Node) bool {
		switch {
		case n == nil:
			stack = stack[:len(stack)-1]
			return true
		case path != nil:
			return false
		case n == target:
			path = make([]ast.Node, 0, len(stack)+1)
			path = append(path, stack...)
			path = append(path, n)
			return false
		case n.Pos() > target.Pos() || n.End() < target.End():
			return false
		}
		stack = append(stack, n)
		return true
	})
	return path
}

// crossesFuncLit reports whether path passes through a function literal
// strictly above its final node, which would place the selection in a
// different routine than the body it was validated against.
func crossesFuncLit(path []ast.Node) bool {
	if len(path) < 3 {
		return false
	}
	for _, n := range path[1 : len(path)-1] {
		if _, ok := n.(*ast.FuncLit); ok {
			return true
		}
	}
	return false
}

// enclosingStmt returns the innermost statement on path above its final
// node.
func enclosingStmt(path []ast.Node) ast.Stmt {
	for i := len(path) - 2; i >= 0; i-- {
		if s, ok := path[i].(ast.Stmt); ok {
			return s
		}
	}
	return nil
}

// stmtList returns the statement list owned by n, if n owns one.
func stmtList(n ast.Node) []ast.Stmt {
	switch n := n.(type) {
	case *ast.BlockStmt:
		return n.List
	case *ast.CaseClause:
		return n.Body
	case *ast.CommClause:
		return n.Body
	}
	return nil
}

func stmtIndex(list []ast.Stmt, s ast.Stmt) int {
	for i, t := range list {
		if t == s {
			return i
		}
	}
	return -1
}
