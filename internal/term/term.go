package term

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
)

// CompletesNormally reports whether execution of s can reach the point
// immediately after it.
func CompletesNormally(info *types.Info, s ast.Stmt) bool {
	return CompletesNormallyIn(info, s, nil)
}

// CompletesNormallyIn is CompletesNormally restricted to live code:
// statements rejected by reachable are treated as absent. A nil
// predicate keeps every statement.
func CompletesNormallyIn(info *types.Info, s ast.Stmt, reachable func(ast.Stmt) bool) bool {
	c := &checker{info: info, reachable: reachable}
	return !c.terminating(s, "")
}

// ConstBool evaluates x as a boolean constant. The second result is
// false when x is not constant or no type information is available.
func ConstBool(info *types.Info, x ast.Expr) (value, ok bool) {
	if info == nil {
		return false, false
	}
	tv, ok := info.Types[x]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.Bool {
		return false, false
	}
	return constant.BoolVal(tv.Value), true
}

type checker struct {
	info      *types.Info
	reachable func(ast.Stmt) bool
}

func (c *checker) live(s ast.Stmt) bool {
	return c.reachable == nil || c.reachable(s)
}

// terminating reports whether s never completes normally. The label is
// the one attached to s, used to attribute labeled breaks.
func (c *checker) terminating(s ast.Stmt, label string) bool {
	switch s := s.(type) {
	case *ast.ReturnStmt, *ast.BranchStmt:
		// return, goto, fallthrough, break and continue all leave.
		return true

	case *ast.ExprStmt:
		return c.isPanic(s.X)

	case *ast.BlockStmt:
		return c.terminatingList(s.List)

	case *ast.LabeledStmt:
		return c.terminating(s.Stmt, s.Label.Name)

	case *ast.IfStmt:
		if v, ok := ConstBool(c.info, s.Cond); ok {
			if v {
				return c.terminating(s.Body, "")
			}
			return s.Else != nil && c.terminating(s.Else, "")
		}
		return s.Else != nil &&
			c.terminating(s.Body, "") &&
			c.terminating(s.Else, "")

	case *ast.SwitchStmt:
		return c.terminatingSwitch(s.Body, label)

	case *ast.TypeSwitchStmt:
		return c.terminatingSwitch(s.Body, label)

	case *ast.SelectStmt:
		// A select with no clauses blocks forever.
		for _, clause := range s.Body.List {
			cc := clause.(*ast.CommClause)
			if !c.terminatingList(cc.Body) || c.hasBreakList(cc.Body, label, true) {
				return false
			}
		}
		return true

	case *ast.ForStmt:
		if c.hasBreak(s.Body, label, true) {
			return false
		}
		if s.Cond == nil {
			return true
		}
		v, ok := ConstBool(c.info, s.Cond)
		return ok && v
	}
	return false
}

// terminatingList applies the rule for statement lists: trailing empty
// and dead statements do not decide completion, the last live one does.
func (c *checker) terminatingList(list []ast.Stmt) bool {
	for i := len(list) - 1; i >= 0; i-- {
		if _, ok := list[i].(*ast.EmptyStmt); ok {
			continue
		}
		if !c.live(list[i]) {
			continue
		}
		return c.terminating(list[i], "")
	}
	return false
}

func (c *checker) terminatingSwitch(body *ast.BlockStmt, label string) bool {
	hasDefault := false
	for _, clause := range body.List {
		cc, ok := clause.(*ast.CaseClause)
		if !ok {
			continue
		}
		if cc.List == nil {
			hasDefault = true
		}
		if !c.terminatingList(cc.Body) || c.hasBreakList(cc.Body, label, true) {
			return false
		}
	}
	return hasDefault
}

// hasBreak reports whether s contains a live break that exits the
// construct under consideration: an unlabeled break when implicit is
// set, or a break naming label.
func (c *checker) hasBreak(s ast.Stmt, label string, implicit bool) bool {
	switch s := s.(type) {
	case *ast.BranchStmt:
		if s.Tok != token.BREAK || !c.live(s) {
			return false
		}
		return s.Label == nil && implicit ||
			s.Label != nil && s.Label.Name == label

	case *ast.BlockStmt:
		return c.hasBreakList(s.List, label, implicit)

	case *ast.LabeledStmt:
		return c.hasBreak(s.Stmt, label, implicit)

	case *ast.IfStmt:
		if v, ok := ConstBool(c.info, s.Cond); ok {
			// Only the live arm can break out.
			if v {
				return c.hasBreak(s.Body, label, implicit)
			}
			return s.Else != nil && c.hasBreak(s.Else, label, implicit)
		}
		return c.hasBreak(s.Body, label, implicit) ||
			s.Else != nil && c.hasBreak(s.Else, label, implicit)

	case *ast.CaseClause:
		return c.hasBreakList(s.Body, label, implicit)

	case *ast.CommClause:
		return c.hasBreakList(s.Body, label, implicit)

	case *ast.SwitchStmt:
		return label != "" && c.hasBreak(s.Body, label, false)

	case *ast.TypeSwitchStmt:
		return label != "" && c.hasBreak(s.Body, label, false)

	case *ast.SelectStmt:
		return label != "" && c.hasBreak(s.Body, label, false)

	case *ast.ForStmt:
		return label != "" && c.hasBreak(s.Body, label, false)

	case *ast.RangeStmt:
		return label != "" && c.hasBreak(s.Body, label, false)
	}
	return false
}

func (c *checker) hasBreakList(list []ast.Stmt, label string, implicit bool) bool {
	for _, s := range list {
		if c.hasBreak(s, label, implicit) {
			return true
		}
	}
	return false
}

// isPanic reports whether x calls the panic builtin.
func (c *checker) isPanic(x ast.Expr) bool {
	call, ok := astutil.Unparen(x).(*ast.CallExpr)
	if !ok {
		return false
	}
	id, ok := call.Fun.(*ast.Ident)
	if !ok || id.Name != "panic" {
		return false
	}
	if c.info == nil {
		return true
	}
	obj, ok := c.info.Uses[id].(*types.Builtin)
	return ok && obj.Name() == "panic"
}
