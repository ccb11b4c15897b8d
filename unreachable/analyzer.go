// Package unreachable provides a go/analysis based analyzer that
// reports statements no control path can reach.
//
// Unlike the vet pass of the same name, the analysis folds constant
// conditions: a branch under if false and the code after a loop whose
// only breaks are provably dead are both reported. The marks come from
// the same reachability walk the region analysis engine uses, so the
// two tools never disagree about a statement.
package unreachable

import (
	"context"
	"errors"
	"flag"
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/regionflow/regionflow/internal/ignore"
	"github.com/regionflow/regionflow/internal/reach"
)

// Flags for the analyzer.
var (
	checkGenerated bool
	reportUnused   bool
)

func init() {
	Analyzer.Flags.BoolVar(&checkGenerated, "generated", false,
		"also check generated files")
	Analyzer.Flags.BoolVar(&reportUnused, "reportunused", true,
		"report ignore directives that suppress nothing")
}

// Analyzer reports statements that can never execute.
var Analyzer = &analysis.Analyzer{
	Name:     "unreachcheck",
	Doc:      "reports unreachable statements, folding constant conditions",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
	Flags:    flag.FlagSet{},
}

var ErrNoInspector = errors.New("inspector analyzer result not found")

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, ErrNoInspector
	}

	skipFiles := buildSkipFiles(pass)
	ignoreMaps := buildIgnoreMaps(pass, skipFiles)

	nodeFilter := []ast.Node{
		(*ast.FuncDecl)(nil),
		(*ast.FuncLit)(nil),
	}
	var walkErr error
	insp.Preorder(nodeFilter, func(n ast.Node) {
		if walkErr != nil {
			return
		}
		var body *ast.BlockStmt
		switch n := n.(type) {
		case *ast.FuncDecl:
			body = n.Body
		case *ast.FuncLit:
			body = n.Body
		}
		if body == nil {
			return
		}
		filename := pass.Fset.Position(n.Pos()).Filename
		if skipFiles[filename] {
			return
		}
		res, err := reach.Routine(context.Background(), pass.TypesInfo, body)
		if err != nil {
			walkErr = err
			return
		}
		for _, s := range res.DeadStarts() {
			line := pass.Fset.Position(s.Pos()).Line
			if m := ignoreMaps[filename]; m != nil && m.ShouldIgnore(line) {
				continue
			}
			pass.Reportf(s.Pos(), "unreachable code")
		}
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if reportUnused {
		reportUnusedIgnores(pass, ignoreMaps)
	}

	return nil, nil
}

// buildSkipFiles creates the set of filenames to skip. Generated files
// are skipped unless -generated is set.
func buildSkipFiles(pass *analysis.Pass) map[string]bool {
	skipFiles := make(map[string]bool)
	if checkGenerated {
		return skipFiles
	}
	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		if ast.IsGenerated(file) {
			skipFiles[filename] = true
		}
	}
	return skipFiles
}

// buildIgnoreMaps creates ignore maps for each file in the pass.
func buildIgnoreMaps(pass *analysis.Pass, skipFiles map[string]bool) map[string]ignore.Map {
	ignoreMaps := make(map[string]ignore.Map)
	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		if skipFiles[filename] {
			continue
		}
		ignoreMaps[filename] = ignore.Build(pass.Fset, file)
	}
	return ignoreMaps
}

func reportUnusedIgnores(pass *analysis.Pass, ignoreMaps map[string]ignore.Map) {
	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		m, ok := ignoreMaps[filename]
		if !ok {
			continue
		}
		for _, pos := range m.Unused() {
			pass.Reportf(pos, "unused unreachcheck:ignore directive")
		}
	}
}
