package report_test

import (
	"context"
	"encoding/json"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regionflow/regionflow"
	"github.com/regionflow/regionflow/internal/report"
)

const fixture = `package p

func f(cond bool) int {
	x := 1
	if cond {
		return x
	}
	x = 2
	return x
}
`

func parseFixture(t *testing.T) (*token.FileSet, *ast.BlockStmt, *types.Info) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "fixture.go", fixture, 0)
	require.NoError(t, err)

	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{}
	_, err = conf.Check("p", fset, []*ast.File{file}, info)
	require.NoError(t, err)

	return fset, file.Decls[0].(*ast.FuncDecl).Body, info
}

func stmtOnLine(t *testing.T, fset *token.FileSet, body *ast.BlockStmt, line int) ast.Stmt {
	t.Helper()
	var found ast.Stmt
	ast.Inspect(body, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if s, ok := n.(ast.Stmt); ok && fset.Position(s.Pos()).Line == line {
			found = s
			return false
		}
		return true
	})
	require.NotNil(t, found, "no statement on line %d", line)
	return found
}

func TestBuildCollectsAllAnswers(t *testing.T) {
	fset, body, info := parseFixture(t)
	first := stmtOnLine(t, fset, body, 4)
	last := stmtOnLine(t, fset, body, 5)
	a := regionflow.New(body, info, first, last)
	require.True(t, a.Succeeded())

	r, err := report.Build(context.Background(), fset, a)
	require.NoError(t, err)

	assert.True(t, r.Succeeded)
	assert.True(t, r.StartReachable)
	assert.True(t, r.EndReachable)
	assert.Empty(t, r.EntryPoints)
	require.Len(t, r.ExitPoints, 1)
	assert.Equal(t, "return", r.ExitPoints[0].Kind)
	assert.Equal(t, 6, r.ExitPoints[0].Loc.Line)
	assert.Equal(t, r.ExitPoints, r.Returns)
	require.Len(t, r.Decls, 1)
	assert.Equal(t, report.Symbol{Name: "x", Kind: "var", Loc: report.Location{Line: 4, Col: 2}}, r.Decls[0])
}

func TestBuildInvalidRegionMarshalsEmptyArrays(t *testing.T) {
	fset, body, info := parseFixture(t)
	inner := stmtOnLine(t, fset, body, 6)
	outer := stmtOnLine(t, fset, body, 8)
	a := regionflow.New(body, info, inner, outer)
	require.False(t, a.Succeeded())

	r, err := report.Build(context.Background(), fset, a)
	require.NoError(t, err)
	assert.False(t, r.Succeeded)
	assert.True(t, r.StartReachable)
	assert.True(t, r.EndReachable)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entry_points":[]`)
	assert.Contains(t, string(data), `"exit_points":[]`)
	assert.Contains(t, string(data), `"returns":[]`)
	assert.Contains(t, string(data), `"decls":[]`)
}

func TestBuildCancelled(t *testing.T) {
	fset, body, info := parseFixture(t)
	first := stmtOnLine(t, fset, body, 4)
	a := regionflow.New(body, info, first, first)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := report.Build(ctx, fset, a)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteText(t *testing.T) {
	fset, body, info := parseFixture(t)
	first := stmtOnLine(t, fset, body, 5)
	a := regionflow.New(body, info, first, first)

	r, err := report.Build(context.Background(), fset, a)
	require.NoError(t, err)
	r.File = "fixture.go"
	r.Span = "5-7"
	r.Func = "f"

	var buf strings.Builder
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "=== region fixture.go 5-7 (func f) ===")
	assert.Contains(t, out, "succeeded:       true")
	assert.Contains(t, out, "exit points (1):")
	assert.Contains(t, out, "return at 6:3")
}
