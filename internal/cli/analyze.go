package cli

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/spf13/cobra"

	"github.com/regionflow/regionflow"
	"github.com/regionflow/regionflow/internal/cache"
	"github.com/regionflow/regionflow/internal/loader"
	"github.com/regionflow/regionflow/internal/report"
)

var flagNoCache bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file> <span>",
	Short: "Analyze the control flow of one source region",
	Long: `Analyzes the region of <file> selected by <span> and reports its entry
points, exit points and boundary reachability.

Span forms:
  12          one whole line
  4-9         a run of whole lines
  4:2-9:10    an exact character range
  7:5         a caret position`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "bypass the report cache")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	span, err := loader.ParseSpan(args[1])
	if err != nil {
		return err
	}
	lf, err := loader.LoadFile(args[0])
	if err != nil {
		return err
	}

	var store *cache.Store
	var key string
	if cfg.Cache.Enabled && !flagNoCache {
		store = cache.New(cfg.Cache.Capacity)
		if err := store.Load(cfg.Cache.SnapshotPath()); err != nil {
			logger.Warn("ignoring unreadable report cache", "error", err)
			store = cache.New(cfg.Cache.Capacity)
		}
		key = cache.Fingerprint(lf.Path, span.String(), lf.Src)
		if res, ok := store.Get(key); ok {
			logger.Debug("report served from cache", "key", key[:12])
			return render(cmd.OutOrStdout(), cfg.Format, res)
		}
	}

	start, end, err := lf.Pos(span)
	if err != nil {
		return err
	}
	a := regionflow.FromSpan(lf.File, lf.Info, start, end)
	res, err := report.Build(cmd.Context(), lf.Fset, a)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", args[0], err)
	}
	res.File = args[0]
	res.Span = span.String()
	res.Func = enclosingFunc(lf.File, start, end)

	if store != nil {
		store.Put(key, res)
		if err := store.Save(cfg.Cache.SnapshotPath()); err != nil {
			logger.Warn("report cache not saved", "error", err)
		}
		st := store.Stats()
		logger.Debug("report cache", "hits", st.Hits, "misses", st.Misses, "size", st.Size)
	}
	return render(cmd.OutOrStdout(), cfg.Format, res)
}

// enclosingFunc names the top-level function whose extent covers the
// span, or returns "" when the span lies outside every function.
func enclosingFunc(f *ast.File, start, end token.Pos) string {
	for _, d := range f.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Pos() <= start && end <= fn.End() {
			return loader.FuncName(fn)
		}
	}
	return ""
}
