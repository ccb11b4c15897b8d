// Package report shapes the answers of a region analysis for tool
// output. A Result is plain data: JSON-encodable for machine
// consumers, msgpack-encodable for the on-disk cache, and renderable
// as text for terminals.
package report

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"io"
	"strings"

	"github.com/regionflow/regionflow"
	"github.com/regionflow/regionflow/decls"
)

// Location is a 1-based line and column within the analyzed file.
type Location struct {
	Line int `json:"line" msgpack:"line"`
	Col  int `json:"col" msgpack:"col"`
}

// Point is one statement that transfers control across the region
// boundary. Kind is the statement keyword ("return", "goto", "break",
// "continue", "fallthrough") or "for"/"range" for loop back edges.
type Point struct {
	Kind string   `json:"kind" msgpack:"kind"`
	Loc  Location `json:"loc" msgpack:"loc"`
}

// Symbol is one symbol declared inside the region.
type Symbol struct {
	Name string   `json:"name" msgpack:"name"`
	Kind string   `json:"kind" msgpack:"kind"`
	Loc  Location `json:"loc" msgpack:"loc"`
}

// Result is the complete answer set for one region. File, Span and
// Func identify the region for the reader; the caller fills them.
type Result struct {
	File string `json:"file" msgpack:"file"`
	Span string `json:"span" msgpack:"span"`
	Func string `json:"func,omitempty" msgpack:"func"`

	Succeeded      bool    `json:"succeeded" msgpack:"succeeded"`
	EntryPoints    []Point `json:"entry_points" msgpack:"entry_points"`
	ExitPoints     []Point `json:"exit_points" msgpack:"exit_points"`
	Returns        []Point `json:"returns" msgpack:"returns"`
	StartReachable bool    `json:"start_reachable" msgpack:"start_reachable"`
	EndReachable   bool    `json:"end_reachable" msgpack:"end_reachable"`

	Decls []Symbol `json:"decls" msgpack:"decls"`
}

// Build runs every query of a and collects the answers. The point
// slices are always non-nil so JSON consumers see [] rather than null.
func Build(ctx context.Context, fset *token.FileSet, a *regionflow.Analysis) (*Result, error) {
	r := &Result{
		Succeeded:   a.Succeeded(),
		EntryPoints: []Point{},
		ExitPoints:  []Point{},
		Returns:     []Point{},
		Decls:       []Symbol{},
	}

	entries, err := a.EntryPoints(ctx)
	if err != nil {
		return nil, err
	}
	exits, err := a.ExitPoints(ctx)
	if err != nil {
		return nil, err
	}
	returns, err := a.ReturnStatements(ctx)
	if err != nil {
		return nil, err
	}
	if r.StartReachable, err = a.StartPointIsReachable(ctx); err != nil {
		return nil, err
	}
	if r.EndReachable, err = a.EndPointIsReachable(ctx); err != nil {
		return nil, err
	}

	r.EntryPoints = points(fset, entries)
	r.ExitPoints = points(fset, exits)
	r.Returns = points(fset, returns)
	for _, n := range a.RegionNodes() {
		for _, d := range decls.Scan(n) {
			r.Decls = append(r.Decls, Symbol{
				Name: d.Name,
				Kind: string(d.Kind),
				Loc:  location(fset, d.Pos),
			})
		}
	}
	return r, nil
}

func points(fset *token.FileSet, stmts []ast.Stmt) []Point {
	out := make([]Point, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, Point{Kind: stmtKind(s), Loc: location(fset, s.Pos())})
	}
	return out
}

func stmtKind(s ast.Stmt) string {
	switch s := s.(type) {
	case *ast.ReturnStmt:
		return "return"
	case *ast.BranchStmt:
		return s.Tok.String()
	case *ast.ForStmt:
		return "for"
	case *ast.RangeStmt:
		return "range"
	default:
		return "stmt"
	}
}

func location(fset *token.FileSet, pos token.Pos) Location {
	p := fset.Position(pos)
	return Location{Line: p.Line, Col: p.Column}
}

// WriteText renders r in a compact human-readable form.
func (r *Result) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "=== region %s %s", r.File, r.Span)
	if r.Func != "" {
		fmt.Fprintf(&b, " (func %s)", r.Func)
	}
	b.WriteString(" ===\n")
	fmt.Fprintf(&b, "succeeded:       %v\n", r.Succeeded)
	fmt.Fprintf(&b, "start reachable: %v\n", r.StartReachable)
	fmt.Fprintf(&b, "end reachable:   %v\n", r.EndReachable)
	writePoints(&b, "entry points", r.EntryPoints)
	writePoints(&b, "exit points", r.ExitPoints)
	writePoints(&b, "returns", r.Returns)
	fmt.Fprintf(&b, "declares (%d):\n", len(r.Decls))
	for _, s := range r.Decls {
		fmt.Fprintf(&b, "  %s (%s) at %d:%d\n", s.Name, s.Kind, s.Loc.Line, s.Loc.Col)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writePoints(b *strings.Builder, title string, pts []Point) {
	fmt.Fprintf(b, "%s (%d):\n", title, len(pts))
	for _, p := range pts {
		fmt.Fprintf(b, "  %s at %d:%d\n", p.Kind, p.Loc.Line, p.Loc.Col)
	}
}
