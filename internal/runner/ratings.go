package runner

import (
	"context"

	"github.com/meur/heroforge/internal/console"
	"github.com/meur/heroforge/internal/models"
	"github.com/meur/heroforge/internal/ratings"
	"go.uber.org/zap"
)

const (
	ExportCommand = "ratings-export"
	ImportCommand = "ratings-import"
)

// Ratings prints and records rating syncs
type Ratings struct {
	syncer   *ratings.Syncer
	dryRun   bool
	out      *console.Printer
	logger   *zap.Logger
	recorder Recorder
}

// NewRatings creates a rating sync driver
func NewRatings(s *ratings.Syncer, dryRun bool, out *console.Printer, logger *zap.Logger) *Ratings {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ratings{syncer: s, dryRun: dryRun, out: out, logger: logger}
}

// WithRecorder enables run history
func (r *Ratings) WithRecorder(rec Recorder) *Ratings {
	r.recorder = rec
	return r
}

// Export writes all hero ratings to grid. target names the grid in output.
func (r *Ratings) Export(ctx context.Context, grid ratings.Grid, target string) (ratings.ExportResult, error) {
	r.out.Banner("EXPORT RATINGS")
	run := startRun(r.recorder, r.logger, ExportCommand, target, r.dryRun)

	res, err := r.syncer.Export(ctx, grid)
	sum := models.Summary{Updated: res.Rows, Errors: len(res.Skipped), Total: res.Rows + len(res.Skipped)}
	for _, path := range res.Skipped {
		r.out.Warn("⚠️  Skipped unreadable file: %s", path)
		recordFile(r.recorder, r.logger, run, models.FileResult{
			File: path, Status: models.StatusFailed, Message: "unreadable", DryRun: r.dryRun,
		})
	}
	finishRun(r.recorder, r.logger, run, sum)
	if err != nil {
		r.out.Fail("❌ %v", err)
		return res, err
	}

	if r.dryRun {
		r.out.Info("🔍 Would export %d heroes to %s", res.Rows, target)
		return res, nil
	}
	r.out.Success("✅ Exported %d heroes to %s", res.Rows, target)
	if res.Styled {
		r.out.Muted("   Header formatted")
	}
	return res, nil
}

// Import applies grid ratings to the hero files
func (r *Ratings) Import(ctx context.Context, grid ratings.Grid, target string) (ratings.ImportResult, error) {
	r.out.Banner("IMPORT RATINGS")
	run := startRun(r.recorder, r.logger, ImportCommand, target, r.dryRun)

	res, err := r.syncer.Import(ctx, grid)
	if err != nil {
		finishRun(r.recorder, r.logger, run, models.Summary{})
		r.out.Fail("❌ %v", err)
		return res, err
	}
	r.out.Line("Found %d heroes in %s", res.SheetRows, target)
	r.out.Blank()

	byHero := make(map[string][]string)
	var order []string
	for _, c := range res.Changes {
		if _, ok := byHero[c.Hero]; !ok {
			order = append(order, c.Hero)
		}
		byHero[c.Hero] = append(byHero[c.Hero], c.String())
	}
	failed := make(map[string]bool, len(res.Failed))
	for _, h := range res.Failed {
		failed[h] = true
	}

	var sum models.Summary
	for _, hero := range order {
		fr := models.FileResult{File: hero, Hero: hero, Status: models.StatusUpdated, Changes: byHero[hero], DryRun: r.dryRun}
		if failed[hero] {
			fr.Status = models.StatusFailed
			fr.Message = "write failed"
			r.out.Fail("❌ %s: could not write file", hero)
		} else if r.dryRun {
			r.out.Info("🔍 %s: Would apply:", hero)
			r.out.Bullets("   ", byHero[hero])
		} else {
			r.out.Success("✅ %s: Applied:", hero)
			r.out.Bullets("   ", byHero[hero])
		}
		sum.Add(fr)
		recordFile(r.recorder, r.logger, run, fr)
	}
	for _, hero := range res.NotFound {
		r.out.Warn("⚠️  %s: no matching hero file", hero)
		fr := models.FileResult{File: hero, Hero: hero, Status: models.StatusFailed, Message: "not found", DryRun: r.dryRun}
		sum.Add(fr)
		recordFile(r.recorder, r.logger, run, fr)
	}
	sum.Unchanged += res.Unchanged
	sum.Total += res.Unchanged
	finishRun(r.recorder, r.logger, run, sum)

	r.out.Blank()
	r.out.Rule()
	r.out.Section("SUMMARY:")
	if r.dryRun {
		r.out.Line("  🔍 Would update: %d heroes (%d values)", res.Updated, len(res.Changes))
	} else {
		r.out.Line("  ✅ Updated: %d heroes (%d values)", res.Updated, len(res.Changes))
	}
	r.out.Line("  ✓  Already up to date: %d heroes", res.Unchanged)
	r.out.Line("  ⚠️  Not found: %d", len(res.NotFound))
	r.out.Line("  ❌ Errors: %d", len(res.Failed))
	r.out.Rule()
	return res, nil
}
