package cli

import (
	"cmp"
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/regionflow/regionflow"
	"github.com/regionflow/regionflow/internal/loader"
	"github.com/regionflow/regionflow/internal/report"
)

var flagJobs int

var funcsCmd = &cobra.Command{
	Use:   "funcs [packages]",
	Short: "Analyze every function body in the given packages",
	Long: `Treats each function body as one region and reports its exit points and
whether control can fall past its end. Packages default to ./... when no
patterns are given.`,
	RunE: runFuncs,
}

func init() {
	funcsCmd.Flags().IntVar(&flagJobs, "jobs", 0, "max concurrent analyses (default from config)")
	rootCmd.AddCommand(funcsCmd)
}

func runFuncs(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	pkgs, err := loader.Load("", patterns...)
	if err != nil {
		return err
	}

	jobs := cfg.Jobs
	if flagJobs > 0 {
		jobs = flagJobs
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)

	var mu sync.Mutex
	var results []*report.Result

	for _, pkg := range pkgs {
		pkg := pkg
		if len(pkg.Errors) > 0 {
			logger.Warn("package loaded with errors", "package", pkg.PkgPath, "errors", len(pkg.Errors))
		}
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || fn.Body == nil {
					continue
				}
				g.Go(func() error {
					res, err := analyzeBody(ctx, pkg.Fset, pkg.TypesInfo, fn)
					if err != nil {
						return err
					}
					mu.Lock()
					results = append(results, res)
					mu.Unlock()
					return nil
				})
			}
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slices.SortFunc(results, func(a, b *report.Result) int {
		if c := strings.Compare(a.File, b.File); c != 0 {
			return c
		}
		return cmp.Compare(spanLine(a.Span), spanLine(b.Span))
	})
	logger.Debug("functions analyzed", "count", len(results))

	if cfg.Format == "json" {
		return renderAll(cmd.OutOrStdout(), results)
	}
	for _, res := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%s %s returns=%d end_reachable=%v\n",
			res.File, res.Span, res.Func, len(res.Returns), res.EndReachable)
	}
	return nil
}

func spanLine(span string) int {
	n, _ := strconv.Atoi(span)
	return n
}

// analyzeBody runs the whole body of fn as a single region.
func analyzeBody(ctx context.Context, fset *token.FileSet, info *types.Info, fn *ast.FuncDecl) (*report.Result, error) {
	var first, last ast.Node
	if list := fn.Body.List; len(list) > 0 {
		first, last = list[0], list[len(list)-1]
	}
	a := regionflow.New(fn.Body, info, first, last)
	res, err := report.Build(ctx, fset, a)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", loader.FuncName(fn), err)
	}
	pos := fset.Position(fn.Pos())
	res.File = pos.Filename
	res.Span = fmt.Sprintf("%d", pos.Line)
	res.Func = loader.FuncName(fn)
	return res, nil
}
