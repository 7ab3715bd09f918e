// Package runner drives patchers and scanners over hero files and prints
// their progress.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meur/heroforge/internal/console"
	"github.com/meur/heroforge/internal/herodoc"
	"github.com/meur/heroforge/internal/models"
	"github.com/meur/heroforge/internal/patch"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNotDirectory = errors.New("not a directory")
	ErrNotFile      = errors.New("not a file")
	ErrNoFiles      = errors.New("no JSON files found")
)

// IsInput reports whether err was caused by a bad target path
func IsInput(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotDirectory) ||
		errors.Is(err, ErrNotFile) || errors.Is(err, ErrNoFiles)
}

// Recorder persists run history. *storage.Store implements it.
type Recorder interface {
	CreateRun(command, target string, dryRun bool) (*models.Run, error)
	AddRunFile(runID string, r models.FileResult) error
	FinishRun(runID string, sum models.Summary) error
}

// Options configures a Runner
type Options struct {
	Command string // Name recorded in run history
	Pattern string
	DryRun  bool
}

// Runner applies a Patcher to hero files
type Runner struct {
	patcher  *patch.Patcher
	opts     Options
	out      *console.Printer
	logger   *zap.Logger
	recorder Recorder
}

// New creates a Runner
func New(p *patch.Patcher, opts Options, out *console.Printer, logger *zap.Logger) *Runner {
	if opts.Pattern == "" {
		opts.Pattern = herodoc.DefaultPattern
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{patcher: p, opts: opts, out: out, logger: logger}
}

// WithRecorder enables run history
func (r *Runner) WithRecorder(rec Recorder) *Runner {
	r.recorder = rec
	return r
}

// ProcessFile patches one file and writes it back unless in dry-run mode
func (r *Runner) ProcessFile(path string) models.FileResult {
	res := models.FileResult{File: filepath.Base(path), DryRun: r.opts.DryRun}

	doc, err := herodoc.ReadFile(path)
	if err != nil {
		var perr *herodoc.ParseError
		if errors.As(err, &perr) {
			res.Message = "Invalid JSON - " + perr.Err.Error()
		} else {
			res.Message = "Error - " + err.Error()
		}
		res.Status = models.StatusFailed
		return res
	}
	res.Hero = doc.DisplayName()

	out, err := r.patcher.Patch(doc)
	if err != nil {
		res.Status = models.StatusFailed
		if errors.Is(err, patch.ErrMissingIdentity) {
			res.Message = "No 'name' or 'id' field found"
		} else {
			res.Message = "Error - " + err.Error()
		}
		return res
	}
	res.Warnings = out.Warnings

	if !out.Changed() {
		res.Status = models.StatusUnchanged
		return res
	}
	res.Changes = out.Changes

	if !r.opts.DryRun {
		if err := herodoc.WriteFile(path, out.Document); err != nil {
			r.logger.Error("failed to write hero file", zap.String("file", path), zap.Error(err))
			res.Status = models.StatusFailed
			res.Message = "Error - " + err.Error()
			return res
		}
	}
	res.Status = models.StatusUpdated
	return res
}

// RunDir processes every matching file of dir in sorted order
func (r *Runner) RunDir(ctx context.Context, dir string) (models.Summary, error) {
	var sum models.Summary

	if err := checkDir(dir); err != nil {
		r.out.Fail("❌ Error: %v", err)
		return sum, err
	}
	files, err := herodoc.Glob(dir, r.opts.Pattern)
	if err != nil {
		return sum, err
	}
	if len(files) == 0 {
		err := fmt.Errorf("%w in %s", ErrNoFiles, dir)
		r.out.Fail("❌ %v", err)
		return sum, err
	}

	r.banner(fmt.Sprintf("Found %d JSON files in: %s", len(files), dir))
	run := r.startRun(dir)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			r.finishRun(run, sum)
			return sum, err
		}
		res := r.ProcessFile(path)
		r.printResult(res)
		sum.Add(res)
		r.recordFile(run, res)
	}

	r.finishRun(run, sum)
	r.printSummary(sum)
	return sum, nil
}

// RunFile processes a single file
func (r *Runner) RunFile(ctx context.Context, path string) (models.FileResult, error) {
	if err := checkFile(path); err != nil {
		r.out.Fail("❌ Error: %v", err)
		return models.FileResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.FileResult{}, err
	}

	r.banner("Processing: " + path)
	run := r.startRun(path)

	res := r.ProcessFile(path)
	r.printResult(res)

	var sum models.Summary
	sum.Add(res)
	r.recordFile(run, res)
	r.finishRun(run, sum)
	return res, nil
}

func (r *Runner) banner(detail string) {
	if r.opts.DryRun {
		r.out.Banner("DRY RUN MODE - No files will be modified")
	} else {
		r.out.Banner("UPDATING FILES")
	}
	r.out.Line("%s", detail)
	r.out.Blank()
}

func (r *Runner) printResult(res models.FileResult) {
	switch res.Status {
	case models.StatusFailed:
		r.out.Fail("❌ %s: %s", res.File, res.Message)
	case models.StatusUnchanged:
		r.out.Success("✓  %s (%s): Already up to date", res.File, res.Hero)
	case models.StatusUpdated:
		if res.DryRun {
			r.out.Info("🔍 %s (%s): Would apply:", res.File, res.Hero)
		} else {
			r.out.Success("✅ %s (%s): Applied:", res.File, res.Hero)
		}
		r.out.Bullets("   ", res.Changes)
	}
	for _, w := range res.Warnings {
		r.out.Warn("   ⚠️  %s: %s", res.Hero, w)
	}
}

func (r *Runner) printSummary(sum models.Summary) {
	r.out.Blank()
	r.out.Rule()
	r.out.Section("SUMMARY:")
	if r.opts.DryRun {
		r.out.Line("  🔍 Would update: %d files", sum.Updated)
	} else {
		r.out.Line("  ✅ Updated: %d files", sum.Updated)
	}
	r.out.Line("  ✓  Already up to date: %d files", sum.Unchanged)
	if sum.Defaulted > 0 {
		r.out.Line("  ⚠️  With warnings: %d files", sum.Defaulted)
	}
	r.out.Line("  ❌ Errors: %d files", sum.Errors)
	r.out.Line("  📊 Total: %d files", sum.Total)
	r.out.Rule()
	if r.opts.DryRun && sum.Updated > 0 {
		r.out.Blank()
		r.out.Muted("💡 Run without --dry-run to apply these changes")
	}
}

// Recording failures are logged and never abort a run.

func (r *Runner) startRun(target string) *models.Run {
	return startRun(r.recorder, r.logger, r.opts.Command, target, r.opts.DryRun)
}

func (r *Runner) recordFile(run *models.Run, res models.FileResult) {
	recordFile(r.recorder, r.logger, run, res)
}

func (r *Runner) finishRun(run *models.Run, sum models.Summary) {
	finishRun(r.recorder, r.logger, run, sum)
}

func startRun(rec Recorder, logger *zap.Logger, command, target string, dryRun bool) *models.Run {
	if rec == nil {
		return nil
	}
	run, err := rec.CreateRun(command, target, dryRun)
	if err != nil {
		logger.Warn("failed to record run", zap.String("command", command), zap.Error(err))
		return nil
	}
	return run
}

func recordFile(rec Recorder, logger *zap.Logger, run *models.Run, res models.FileResult) {
	if rec == nil || run == nil {
		return
	}
	if err := rec.AddRunFile(run.ID, res); err != nil {
		logger.Warn("failed to record file result", zap.String("file", res.File), zap.Error(err))
	}
}

func finishRun(rec Recorder, logger *zap.Logger, run *models.Run, sum models.Summary) {
	if rec == nil || run == nil {
		return
	}
	if err := rec.FinishRun(run.ID, sum); err != nil {
		logger.Warn("failed to finish run", zap.String("run", run.ID), zap.Error(err))
	}
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("directory %s: %w", dir, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}
	return nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotFile)
	}
	return nil
}
