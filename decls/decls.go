// Package decls enumerates the symbols a piece of syntax declares.
//
// The scan is purely lexical: a short variable declaration that only
// redeclares names from an outer scope still lists them, because no
// type information is consulted. That is the right granularity for
// describing what a region introduces in tool output.
package decls

import (
	"go/ast"
	"go/token"
)

// Kind classifies a declared symbol.
type Kind string

// Declared symbol kinds.
const (
	Var   Kind = "var"
	Const Kind = "const"
	Type  Kind = "type"
	Func  Kind = "func"
	Label Kind = "label"
)

// Decl records one declared symbol.
type Decl struct {
	Name string
	Kind Kind
	Pos  token.Pos
}

// Scan lists the symbols declared within n, in source order. The blank
// identifier declares nothing and is skipped.
func Scan(n ast.Node) []Decl {
	var out []Decl
	walk(n, func(id *ast.Ident, k Kind) {
		if id == nil || id.Name == "_" {
			return
		}
		out = append(out, Decl{Name: id.Name, Kind: k, Pos: id.Pos()})
	})
	return out
}

func walk(n ast.Node, add func(*ast.Ident, Kind)) {
	ast.Inspect(n, func(node ast.Node) bool {
		switch d := node.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					k := Var
					if d.Tok == token.CONST {
						k = Const
					}
					for _, id := range s.Names {
						add(id, k)
					}
				case *ast.TypeSpec:
					add(s.Name, Type)
				}
			}

		case *ast.AssignStmt:
			if d.Tok != token.DEFINE {
				return true
			}
			for _, lhs := range d.Lhs {
				if id, ok := lhs.(*ast.Ident); ok {
					add(id, Var)
				}
			}

		case *ast.RangeStmt:
			if d.Tok != token.DEFINE {
				return true
			}
			if id, ok := d.Key.(*ast.Ident); ok {
				add(id, Var)
			}
			if id, ok := d.Value.(*ast.Ident); ok {
				add(id, Var)
			}

		case *ast.LabeledStmt:
			add(d.Label, Label)

		case *ast.FuncDecl:
			add(d.Name, Func)
			if d.Recv != nil {
				fields(d.Recv, add)
			}
			signature(d.Type, add)
			if d.Body != nil {
				walk(d.Body, add)
			}
			return false

		case *ast.FuncLit:
			signature(d.Type, add)
			walk(d.Body, add)
			return false
		}
		return true
	})
}

// signature lists the parameter and named-result variables a function
// signature declares. Parameter names inside a plain function type
// expression declare nothing, so this is only applied to FuncDecl and
// FuncLit signatures.
func signature(ft *ast.FuncType, add func(*ast.Ident, Kind)) {
	fields(ft.Params, add)
	if ft.Results != nil {
		fields(ft.Results, add)
	}
}

func fields(fl *ast.FieldList, add func(*ast.Ident, Kind)) {
	for _, f := range fl.List {
		for _, id := range f.Names {
			add(id, Var)
		}
	}
}
