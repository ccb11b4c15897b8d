// Package cli implements the regionflow command tree.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/regionflow/regionflow/internal/config"
	"github.com/regionflow/regionflow/internal/report"
)

// Flags shared by every subcommand.
var (
	flagConfig   string
	flagFormat   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "regionflow",
	Short: "regionflow - control-flow analysis for regions of Go source",
	Long: `regionflow answers four questions about a contiguous region of a Go
function body: which statements jump into it, which statements jump out
of it, whether control can reach its start, and whether control can fall
past its end.

Commands:
  analyze     Analyze one region of one file
  funcs       Analyze every function body in a set of packages
  init        Create a config file interactively

Use "regionflow [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree under ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default "+config.DefaultFile+")")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "output format: text or json")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
}

// setup loads the configuration, applies flag overrides and builds
// the logger shared by the commands. Diagnostics go to stderr so
// report output stays clean on stdout.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	if flagFormat != "" {
		cfg.Format = flagFormat
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	return cfg, logger, nil
}

func render(w io.Writer, format string, res *report.Result) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return res.WriteText(w)
}

func renderAll(w io.Writer, results []*report.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
