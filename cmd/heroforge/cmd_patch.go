package main

import (
	"github.com/meur/heroforge/internal/console"
	"github.com/meur/heroforge/internal/patch"
	"github.com/meur/heroforge/internal/runner"
	"github.com/spf13/cobra"
)

// imagesCmd fills in skill and relic image paths
var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Add missing image paths to skills and relics",
	Long: `Adds image paths derived from the hero id to every skill and relic
that has no image field yet:

  /skills/<id>_skill_<n>.webp
  /skills/<id>_relic.webp

Existing image fields are never touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPatch(cmd, "images", patch.New(patch.SkillImages{Prefix: cfg.ImagePrefix}))
	},
}

// relicLevelsCmd stamps recommended relic levels
var relicLevelsCmd = &cobra.Command{
	Use:   "relic-levels",
	Short: "Set recommendedRelicLevel from the relic guide",
	Long: `Looks up every hero in the relic level guide and writes
recommendedRelicLevel. Heroes missing from the guide get level 0 and a
warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPatch(cmd, "relic-levels", patch.New(patch.RelicLevel{Table: cfg.RelicTable()}))
	},
}

// odysseyCmd adds the odyssey rating
var odysseyCmd = &cobra.Command{
	Use:   "odyssey",
	Short: "Add the odyssey rating where it is missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPatch(cmd, "odyssey", patch.New(cfg.OdysseyRule()))
	},
}

func runPatch(cmd *cobra.Command, command string, p *patch.Patcher) error {
	out := console.New(cmd.OutOrStdout())
	r := runner.New(p, runner.Options{
		Command: command,
		Pattern: cfg.Pattern,
		DryRun:  dryRun,
	}, out, logger)

	return withRecorder(func(rec runner.Recorder) error {
		if rec != nil {
			r.WithRecorder(rec)
		}
		var err error
		if heroFile != "" {
			_, err = r.RunFile(cmd.Context(), heroFile)
		} else {
			_, err = r.RunDir(cmd.Context(), cfg.HeroesDir)
		}
		return inputError(err)
	})
}
