package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/regionflow/regionflow/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a regionflow config file interactively",
	Long: `Walks through the configuration options and writes them to a YAML file,
` + config.DefaultFile + ` by default or the path given with --config.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	capacity := strconv.Itoa(cfg.Cache.Capacity)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Report format").
				Description("How analyze and funcs print their results").
				Options(
					huh.NewOption("Text", "text"),
					huh.NewOption("JSON", "json"),
				).
				Value(&cfg.Format),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&cfg.LogLevel),
			huh.NewConfirm().
				Title("Cache reports between runs?").
				Value(&cfg.Cache.Enabled),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	if cfg.Cache.Enabled {
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Cache directory").
					Placeholder(cfg.Cache.Dir).
					Value(&cfg.Cache.Dir),
				huh.NewInput().
					Title("Cache capacity (entries, 0 for unbounded)").
					Value(&capacity),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if n, err := strconv.Atoi(capacity); err == nil {
			cfg.Cache.Capacity = n
		}
	}

	path := config.DefaultFile
	if flagConfig != "" {
		path = flagConfig
	}
	if _, err := os.Stat(path); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite %s?", path)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
	return nil
}
