package main

import (
	"github.com/meur/heroforge/internal/console"
	"github.com/meur/heroforge/internal/runner"
	"github.com/meur/heroforge/internal/scan"
	"github.com/spf13/cobra"
)

var checkOutput string

// checkCmd scans hero texts for placeholders
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Find placeholder and missing skill texts",
	Long: `Scans skill and relic names, descriptions and upgrade texts for
empty values and known placeholder phrases, and reports duplicate skill
names. Never modifies files.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "Also write a plain-text report to this file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := console.New(cmd.OutOrStdout())
	checker := runner.NewChecker(scan.New(cfg.ScannerConfig()), cfg.Pattern, out, logger)

	return withRecorder(func(rec runner.Recorder) error {
		if rec != nil {
			checker.WithRecorder(rec)
		}
		var err error
		if heroFile != "" {
			_, err = checker.CheckPath(cmd.Context(), heroFile)
		} else {
			_, err = checker.CheckDir(cmd.Context(), cfg.HeroesDir, checkOutput)
		}
		return inputError(err)
	})
}
