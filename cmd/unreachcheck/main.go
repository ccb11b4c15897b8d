// Command unreachcheck is a linter that reports unreachable statements,
// folding constant conditions the way the region analysis engine does.
//
// Usage:
//
//	unreachcheck [-generated] [-reportunused=false] ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/regionflow/regionflow/unreachable"
)

func main() { singlechecker.Main(unreachable.Analyzer) }
