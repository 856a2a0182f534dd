package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/sells-group/firmdir/internal/config"
	"github.com/sells-group/firmdir/internal/firms"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "firmdir",
	Short: "Build the State → City → Firm lookup from the firm CSV export",
	Long: `Reads the firm export CSV (State, City, Practice Area, Firm Name, Latitude, Longitude),
groups firms by state and city with deduplicated practice areas and per-city coordinates,
and writes a single JSON lookup document.

Paths come from config.yaml or FIRMDIR_INPUT_PATH / FIRMDIR_OUTPUT_PATH.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConvert(cmd, cfg)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// runConvert performs the conversion described by c and reports the output path.
func runConvert(cmd *cobra.Command, c *config.Config) error {
	var opts []firms.Option
	if c.Sort.Locale != "" {
		opts = append(opts, firms.WithLocale(language.Make(c.Sort.Locale)))
	}

	res, err := firms.Convert(c.Input.Path, c.Output.Path, opts...)
	if err != nil {
		var missing *firms.MissingColumnsError
		if errors.As(err, &missing) {
			zap.L().Error("missing required CSV columns", zap.Strings("columns", missing.Columns))
			return err
		}
		return eris.Wrap(err, "firmdir: convert")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", res.Output)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
