package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/meur/heroforge/internal/config"
	"github.com/meur/heroforge/internal/logging"
	"github.com/meur/heroforge/internal/runner"
	"github.com/meur/heroforge/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	heroesDir  string
	heroFile   string
	dryRun     bool
	verbose    bool
	dbPath     string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "heroforge",
	Short: "Maintenance tools for hero data files",
	Long: `heroforge keeps the hero JSON files of the game guide consistent.

It fills in skill and relic image paths, stamps recommended relic levels
from the guide, adds missing rating categories, finds placeholder texts
and syncs ratings with a spreadsheet. Key order and formatting of the
hero files are preserved.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("dir") {
			cfg.HeroesDir = heroesDir
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = dbPath
		}

		logger, err = logging.New(verbose)
		if err != nil {
			return err
		}
		logger.Debug("configuration loaded",
			zap.String("heroes_dir", cfg.HeroesDir),
			zap.String("pattern", cfg.Pattern),
			zap.String("db", cfg.DBPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: "+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().StringVarP(&heroesDir, "dir", "d", "", "Heroes directory")
	rootCmd.PersistentFlags().StringVarP(&heroFile, "file", "f", "", "Process a single hero file instead of the directory")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Run history database (empty disables history)")

	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(relicLevelsCmd)
	rootCmd.AddCommand(odysseyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(runsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens the run history. Both return values are nil when
// history is disabled.
func openStore() (*storage.Store, error) {
	if cfg.DBPath == "" {
		return nil, nil
	}
	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	return store, nil
}

// withRecorder opens the run history and hands it to fn. A history that
// cannot be opened is logged and skipped.
func withRecorder(fn func(rec runner.Recorder) error) error {
	store, err := openStore()
	if err != nil {
		logger.Warn("run history unavailable", zap.Error(err))
	}
	if store == nil {
		return fn(nil)
	}
	defer store.Close()
	return fn(store)
}

// inputError swallows path errors the drivers already reported
func inputError(err error) error {
	if runner.IsInput(err) {
		logger.Debug("input rejected", zap.Error(err))
		return nil
	}
	return err
}
