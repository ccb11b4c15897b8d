// Package jump resolves the targets of branch statements within a
// single routine body.
//
// Labels in Go are function scoped, so one Table built from a routine
// body serves every goto and fallthrough in that routine. Break and
// continue are resolved lexically from the chain of enclosing nodes
// instead, because their meaning depends on position, not on a name
// table alone. Function literals nested inside the body belong to other
// routines and are never indexed or resolved into.
package jump

import (
	"go/ast"
	"go/token"
)

// Table holds the jump targets collected from one routine body.
type Table struct {
	labels     map[string]*ast.LabeledStmt
	nextClause map[*ast.CaseClause]*ast.CaseClause
}

// Build collects the labels and switch clause order of body.
func Build(body ast.Node) *Table {
	t := &Table{
		labels:     make(map[string]*ast.LabeledStmt),
		nextClause: make(map[*ast.CaseClause]*ast.CaseClause),
	}
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.LabeledStmt:
			t.labels[n.Label.Name] = n
		case *ast.SwitchStmt:
			// Fallthrough is only legal in expression switches, so
			// clause order is not recorded for type switches.
			var prev *ast.CaseClause
			for _, s := range n.Body.List {
				cc, ok := s.(*ast.CaseClause)
				if !ok {
					continue
				}
				if prev != nil {
					t.nextClause[prev] = cc
				}
				prev = cc
			}
		}
		return true
	})
	return t
}

// Goto returns the labeled statement br jumps to, or nil when the label
// is not declared in the routine.
func (t *Table) Goto(br *ast.BranchStmt) ast.Stmt {
	if br.Label == nil {
		return nil
	}
	if ls, ok := t.labels[br.Label.Name]; ok {
		return ls
	}
	return nil
}

// Fallthrough returns the node a fallthrough statement transfers
// control to: the first statement of the following case clause, or the
// clause itself when its body is empty. The stack must be the chain of
// enclosing nodes ending with the fallthrough statement. Misplaced
// fallthroughs resolve to nil.
func (t *Table) Fallthrough(stack []ast.Node) ast.Node {
	for i := len(stack) - 1; i >= 0; i-- {
		cc, ok := stack[i].(*ast.CaseClause)
		if !ok {
			continue
		}
		next, ok := t.nextClause[cc]
		if !ok {
			return nil
		}
		if len(next.Body) > 0 {
			return next.Body[0]
		}
		return next
	}
	return nil
}

// BreakTarget returns the for, range, switch, type switch or select
// statement a break leaves. The stack must end with the break statement
// itself. Returns nil when no enclosing construct matches, including
// labeled breaks whose label belongs to no enclosing construct.
func BreakTarget(stack []ast.Node) ast.Stmt {
	br, ok := stack[len(stack)-1].(*ast.BranchStmt)
	if !ok || br.Tok != token.BREAK {
		return nil
	}
	return target(stack, br, breakable)
}

// ContinueTarget returns the for or range statement a continue
// restarts, or nil when no enclosing loop matches.
func ContinueTarget(stack []ast.Node) ast.Stmt {
	br, ok := stack[len(stack)-1].(*ast.BranchStmt)
	if !ok || br.Tok != token.CONTINUE {
		return nil
	}
	return target(stack, br, loop)
}

func target(stack []ast.Node, br *ast.BranchStmt, match func(ast.Node) bool) ast.Stmt {
	label := ""
	if br.Label != nil {
		label = br.Label.Name
	}
	for i := len(stack) - 2; i >= 0; i-- {
		if _, ok := stack[i].(*ast.FuncLit); ok {
			return nil
		}
		if !match(stack[i]) {
			continue
		}
		if label == "" || labelOf(stack, i) == label {
			return stack[i].(ast.Stmt)
		}
	}
	return nil
}

func breakable(n ast.Node) bool {
	switch n.(type) {
	case *ast.ForStmt, *ast.RangeStmt, *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt:
		return true
	}
	return false
}

func loop(n ast.Node) bool {
	switch n.(type) {
	case *ast.ForStmt, *ast.RangeStmt:
		return true
	}
	return false
}

// labelOf returns the label attached to stack[i], or the empty string.
func labelOf(stack []ast.Node, i int) string {
	if i == 0 {
		return ""
	}
	if ls, ok := stack[i-1].(*ast.LabeledStmt); ok {
		return ls.Label.Name
	}
	return ""
}
