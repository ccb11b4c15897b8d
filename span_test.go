package regionflow_test

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regionflow/regionflow"
)

func parseFile(t *testing.T, src string) (*token.FileSet, *ast.File, *types.Info) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "fixture.go", src, 0)
	require.NoError(t, err)
	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{}
	_, err = conf.Check("p", fset, []*ast.File{file}, info)
	require.NoError(t, err)
	return fset, file, info
}

func lineStart(t *testing.T, fset *token.FileSet, file *ast.File, line int) token.Pos {
	t.Helper()
	tf := fset.File(file.Pos())
	require.NotNil(t, tf)
	require.LessOrEqual(t, line, tf.LineCount())
	return tf.LineStart(line)
}

func lineEnd(t *testing.T, fset *token.FileSet, file *ast.File, line int) token.Pos {
	t.Helper()
	tf := fset.File(file.Pos())
	require.NotNil(t, tf)
	if line+1 > tf.LineCount() {
		return tf.Pos(tf.Size())
	}
	return tf.LineStart(line+1) - 1
}

const spanFixture = `package p

var a, b, c int

func f() {
	a = 1
	b = 2

	c = 3
}
`

func TestFromSpanWholeLines(t *testing.T) {
	fset, file, info := parseFile(t, spanFixture)
	a := regionflow.FromSpan(file, info,
		lineStart(t, fset, file, 6), lineEnd(t, fset, file, 7))
	require.True(t, a.Succeeded())
	assert.Len(t, a.RegionNodes(), 2)
}

func TestFromSpanReversedRange(t *testing.T) {
	fset, file, info := parseFile(t, spanFixture)
	a := regionflow.FromSpan(file, info,
		lineEnd(t, fset, file, 7), lineStart(t, fset, file, 6))
	require.True(t, a.Succeeded())
	assert.Len(t, a.RegionNodes(), 2)
}

func TestFromSpanWithinStatement(t *testing.T) {
	fset, file, info := parseFile(t, spanFixture)
	start := lineStart(t, fset, file, 6) + 1
	a := regionflow.FromSpan(file, info, start, start+1)
	require.True(t, a.Succeeded())

	nodes := a.RegionNodes()
	require.Len(t, nodes, 1)
	assert.IsType(t, &ast.AssignStmt{}, nodes[0])
}

func TestFromSpanGapBetweenStatements(t *testing.T) {
	fset, file, info := parseFile(t, spanFixture)
	gap := lineStart(t, fset, file, 8)
	a := regionflow.FromSpan(file, info, gap, gap)
	require.True(t, a.Succeeded())
	assert.Nil(t, a.RegionNodes())

	end, err := a.EndPointIsReachable(context.Background())
	require.NoError(t, err)
	assert.True(t, end)
}

func TestFromSpanOutsideFunction(t *testing.T) {
	fset, file, info := parseFile(t, spanFixture)
	a := regionflow.FromSpan(file, info,
		lineStart(t, fset, file, 3), lineEnd(t, fset, file, 3))
	assert.False(t, a.Succeeded())
}

func TestFromSpanOnSignature(t *testing.T) {
	fset, file, info := parseFile(t, spanFixture)
	start := lineStart(t, fset, file, 5)
	a := regionflow.FromSpan(file, info, start, start+4)
	assert.False(t, a.Succeeded())
}

func TestFromSpanInsideFuncLit(t *testing.T) {
	fset, file, info := parseFile(t, `package p

var g func() int

func f() {
	g = func() int {
		return 1
	}
}
`)
	a := regionflow.FromSpan(file, info,
		lineStart(t, fset, file, 7), lineEnd(t, fset, file, 7))
	require.True(t, a.Succeeded())

	// The literal is the enclosing routine, so its return is an exit
	// of this region.
	exits, err := a.ExitPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, exits, 1)
	assert.IsType(t, &ast.ReturnStmt{}, exits[0])
}

func TestFromSpanAcrossCaseClauses(t *testing.T) {
	fset, file, info := parseFile(t, `package p

var x, a, b int

func f() {
	switch x {
	case 1:
		a = 1
	case 2:
		b = 2
	}
}
`)
	a := regionflow.FromSpan(file, info,
		lineStart(t, fset, file, 7), lineEnd(t, fset, file, 10))
	require.True(t, a.Succeeded())

	nodes := a.RegionNodes()
	require.Len(t, nodes, 2)
	assert.IsType(t, &ast.CaseClause{}, nodes[0])
	assert.IsType(t, &ast.CaseClause{}, nodes[1])
}
