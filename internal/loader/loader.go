// Package loader parses and type-checks Go source for the CLI. It
// wraps go/packages for both single-file analysis and whole-package
// sweeps, and resolves the textual span syntax used on the command
// line into token positions.
package loader

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

const mode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// File bundles everything needed to analyze one source file.
type File struct {
	Path string // absolute path
	Fset *token.FileSet
	File *ast.File
	Info *types.Info
	Src  []byte
}

// LoadFile type-checks the package containing path and returns that
// file's syntax and type information. Type errors in the package do
// not fail the load; the analysis degrades to conservative answers
// where information is missing.
func LoadFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	cfg := &packages.Config{Mode: mode, Dir: filepath.Dir(abs)}
	pkgs, err := packages.Load(cfg, "file="+abs)
	if err != nil {
		return nil, fmt.Errorf("loading package: %w", err)
	}
	for _, pkg := range pkgs {
		for _, f := range pkg.Syntax {
			name := pkg.Fset.Position(f.FileStart).Filename
			if sameFile(name, abs) {
				return &File{Path: abs, Fset: pkg.Fset, File: f, Info: pkg.TypesInfo, Src: src}, nil
			}
		}
	}
	return nil, fmt.Errorf("no Go syntax loaded for %s", path)
}

func sameFile(a, b string) bool {
	if a == b {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// Load type-checks the packages named by patterns for the funcs
// sweep. Patterns are resolved relative to dir; an empty dir means
// the working directory.
func Load(dir string, patterns ...string) ([]*packages.Package, error) {
	cfg := &packages.Config{Mode: mode, Dir: dir}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %v", patterns)
	}
	return pkgs, nil
}

// FuncName returns the display name of fn, prefixing the receiver
// type for methods.
func FuncName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}
	return fmt.Sprintf("(%s).%s", recvType(fn.Recv.List[0].Type), fn.Name.Name)
}

func recvType(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.StarExpr:
		return "*" + recvType(e.X)
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		return recvType(e.X)
	case *ast.IndexListExpr:
		return recvType(e.X)
	}
	return "?"
}
