// Package ignore handles //unreachcheck:ignore directives that
// suppress diagnostics on the same or the following line.
package ignore

import (
	"go/ast"
	"go/token"
	"slices"
	"strings"
)

const directive = "unreachcheck:ignore"

// Entry tracks one ignore directive and whether it suppressed anything.
type Entry struct {
	pos  token.Pos
	used bool
}

// Map indexes ignore directives by the line they appear on.
type Map map[int]*Entry

// Build scans the file's comments for ignore directives.
func Build(fset *token.FileSet, file *ast.File) Map {
	m := make(Map)
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if isDirective(c.Text) {
				m[fset.Position(c.Pos()).Line] = &Entry{pos: c.Pos()}
			}
		}
	}
	return m
}

// isDirective reports whether text is an ignore directive. Anything
// after the directive word is treated as an explanation.
func isDirective(text string) bool {
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimSpace(text)
	if text == directive {
		return true
	}
	return strings.HasPrefix(text, directive+" ")
}

// ShouldIgnore reports whether a diagnostic on line is suppressed by a
// directive on the same or the preceding line, marking the directive
// used.
func (m Map) ShouldIgnore(line int) bool {
	for _, l := range []int{line, line - 1} {
		if e := m[l]; e != nil {
			e.used = true
			return true
		}
	}
	return false
}

// Unused returns the positions of directives that never suppressed a
// diagnostic, in file order.
func (m Map) Unused() []token.Pos {
	var out []token.Pos
	for _, e := range m {
		if !e.used {
			out = append(out, e.pos)
		}
	}
	slices.Sort(out)
	return out
}
