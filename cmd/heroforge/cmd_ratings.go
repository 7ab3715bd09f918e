package main

import (
	"context"
	"fmt"
	"os"

	"github.com/meur/heroforge/internal/console"
	"github.com/meur/heroforge/internal/grid"
	"github.com/meur/heroforge/internal/models"
	"github.com/meur/heroforge/internal/ratings"
	"github.com/meur/heroforge/internal/runner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ratingsCSV string

// ratingsCmd groups the rating sync commands
var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Sync hero ratings with Google Sheets or a CSV file",
	Long: `Moves hero ratings between the hero files and a spreadsheet.

By default the Google Sheet configured under sheets.spreadsheet_id is
used. The first run opens an OAuth consent flow and caches the token.
Set ratings.csv_path in the config or pass --csv to use a local CSV
file instead.`,
}

var ratingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all hero ratings to the sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRatings(cmd, func(ctx context.Context, d *runner.Ratings, g ratings.Grid, target string) error {
			_, err := d.Export(ctx, g, target)
			return err
		})
	},
}

var ratingsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Apply sheet ratings to the hero files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRatings(cmd, func(ctx context.Context, d *runner.Ratings, g ratings.Grid, target string) error {
			_, err := d.Import(ctx, g, target)
			return err
		})
	},
}

func init() {
	ratingsCmd.PersistentFlags().StringVar(&ratingsCSV, "csv", "", "Use a CSV file instead of Google Sheets")
	ratingsCmd.AddCommand(ratingsExportCmd)
	ratingsCmd.AddCommand(ratingsImportCmd)
}

type ratingsAction func(ctx context.Context, d *runner.Ratings, g ratings.Grid, target string) error

func runRatings(cmd *cobra.Command, action ratingsAction) error {
	out := console.New(cmd.OutOrStdout())

	g, target, err := openGrid(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	syncer := ratings.New(ratings.Options{
		Dir:        cfg.HeroesDir,
		Pattern:    cfg.Pattern,
		NameColumn: cfg.Ratings.NameColumn,
		Keys:       ratingKeys(),
		DryRun:     dryRun,
	}, logger)
	driver := runner.NewRatings(syncer, dryRun, out, logger)

	return withRecorder(func(rec runner.Recorder) error {
		if rec != nil {
			driver.WithRecorder(rec)
		}
		if err := action(cmd.Context(), driver, g, target); err != nil {
			// Already printed by the driver
			logger.Debug("ratings sync failed", zap.Error(err))
		}
		return nil
	})
}

func openGrid(ctx context.Context, cmd *cobra.Command) (ratings.Grid, string, error) {
	csvPath := ratingsCSV
	if csvPath == "" {
		csvPath = cfg.Ratings.CSVPath
	}
	if csvPath != "" {
		return grid.CSV{Path: csvPath}, csvPath, nil
	}
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, "", fmt.Errorf("no spreadsheet configured: set sheets.spreadsheet_id or HEROFORGE_SPREADSHEET_ID, or use ratings.csv_path / --csv")
	}
	sheets, err := grid.NewSheets(ctx, cfg.Sheets, os.Stdin, cmd.OutOrStdout())
	if err != nil {
		return nil, "", err
	}
	sheets.SetColumns(1 + len(ratingKeys()))
	return sheets, sheets.URL(), nil
}

func ratingKeys() []string {
	if len(cfg.Ratings.Keys) > 0 {
		return cfg.Ratings.Keys
	}
	return models.RatingKeys
}
