// Command a1site runs the A1 Scrap site server and its maintenance commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/poku-e/a1scrap/internal/config"
	"github.com/poku-e/a1scrap/internal/logging"
	"github.com/poku-e/a1scrap/internal/sheets"
)

var (
	cfgPath string
	verbose bool

	cfg     *config.Config
	logger  *zap.Logger
	cleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "a1site",
	Short: "A1 Scrap site server and form relay",
	Long: `a1site serves the A1 Scrap website: the pickup and franchise forms, the
scrap price calculator, and a relay that appends form submissions to
per-form sheets in a workbook or database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		logger, cleanup, err = logging.New(logging.Options{
			Level:    cfg.Logging.Level,
			Format:   cfg.Logging.Format,
			GELFAddr: cfg.Logging.GELFAddr,
			Service:  "a1site",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cleanup != nil {
			cleanup()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (sheets.Store, error) {
	store, err := sheets.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	return store, nil
}

// storeName describes the configured backend for humans.
func storeName() string {
	if cfg.Storage.Driver == sheets.DriverMemory {
		return "memory (not persisted)"
	}
	return cfg.Storage.Driver + " " + cfg.Storage.Path
}
