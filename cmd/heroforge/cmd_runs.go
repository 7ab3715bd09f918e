package main

import (
	"fmt"
	"strings"

	"github.com/meur/heroforge/internal/console"
	"github.com/meur/heroforge/internal/models"
	"github.com/spf13/cobra"
)

var runsLimit int

// runsCmd lists the run history
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs from the history database",
	Args:  cobra.NoArgs,
	RunE:  listRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the file results of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  showRun,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to list")
	runsCmd.AddCommand(runsShowCmd)
}

func listRuns(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("run history is disabled (no db path configured)")
	}
	defer store.Close()

	runs, err := store.GetRuns(runsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	out := console.New(cmd.OutOrStdout())
	if len(runs) == 0 {
		out.Muted("No runs recorded yet")
		return nil
	}
	for _, run := range runs {
		out.Line("%s  %s  %-14s %s%s", run.ID[:8], run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Command, run.Target, dryRunTag(run.DryRun))
		out.Muted("    %s", summaryLine(run.Summary))
	}
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("run history is disabled (no db path configured)")
	}
	defer store.Close()

	run, err := store.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run %s not found", args[0])
	}

	out := console.New(cmd.OutOrStdout())
	out.Banner(fmt.Sprintf("%s %s%s", run.Command, run.Target, dryRunTag(run.DryRun)))
	out.Line("Started: %s", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if run.FinishedAt == nil {
		out.Warn("⚠️  Run did not finish")
	}
	out.Blank()
	for _, f := range run.Files {
		switch f.Status {
		case models.StatusFailed:
			out.Fail("❌ %s: %s", f.File, f.Message)
		case models.StatusUnchanged:
			out.Success("✓  %s", f.File)
		default:
			out.Info("• %s (%s)", f.File, f.Status)
		}
		out.Bullets("   ", f.Changes)
		for _, w := range f.Warnings {
			out.Warn("   ⚠️  %s", w)
		}
	}
	out.Blank()
	out.Line("%s", summaryLine(run.Summary))
	return nil
}

func dryRunTag(dry bool) string {
	if dry {
		return " (dry run)"
	}
	return ""
}

func summaryLine(s models.Summary) string {
	parts := []string{
		fmt.Sprintf("updated %d", s.Updated),
		fmt.Sprintf("unchanged %d", s.Unchanged),
	}
	if s.Defaulted > 0 {
		parts = append(parts, fmt.Sprintf("warnings %d", s.Defaulted))
	}
	if s.Issues > 0 {
		parts = append(parts, fmt.Sprintf("issues %d", s.Issues))
	}
	parts = append(parts, fmt.Sprintf("errors %d", s.Errors), fmt.Sprintf("total %d", s.Total))
	return strings.Join(parts, ", ")
}
