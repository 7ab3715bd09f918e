package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meur/heroforge/internal/console"
	"github.com/meur/heroforge/internal/herodoc"
	"github.com/meur/heroforge/internal/models"
	"github.com/meur/heroforge/internal/scan"
	"go.uber.org/zap"
)

// CheckCommand is the run history name of check runs
const CheckCommand = "check"

// Checker scans hero files for placeholder texts
type Checker struct {
	scanner  *scan.Scanner
	pattern  string
	out      *console.Printer
	logger   *zap.Logger
	recorder Recorder
}

// NewChecker creates a Checker
func NewChecker(s *scan.Scanner, pattern string, out *console.Printer, logger *zap.Logger) *Checker {
	if pattern == "" {
		pattern = herodoc.DefaultPattern
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{scanner: s, pattern: pattern, out: out, logger: logger}
}

// WithRecorder enables run history
func (c *Checker) WithRecorder(rec Recorder) *Checker {
	c.recorder = rec
	return c
}

// CheckFile scans a single file
func (c *Checker) CheckFile(path string) models.IssueReport {
	data, err := os.ReadFile(path)
	if err != nil {
		file := filepath.Base(path)
		return models.IssueReport{Name: file, File: file, Error: err.Error()}
	}
	return c.scanner.ScanBytes(filepath.Base(path), data)
}

// CheckPath validates and scans a single file, then prints its findings
func (c *Checker) CheckPath(ctx context.Context, path string) (models.IssueReport, error) {
	if err := checkFile(path); err != nil {
		c.out.Fail("❌ Error: %v", err)
		return models.IssueReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.IssueReport{}, err
	}

	run := startRun(c.recorder, c.logger, CheckCommand, path, false)
	report := c.CheckFile(path)
	res := fileResult(report)
	var sum models.Summary
	sum.Add(res)
	recordFile(c.recorder, c.logger, run, res)
	finishRun(c.recorder, c.logger, run, sum)

	if !report.HasIssues() {
		c.out.Success("✅ %s (%s): complete", report.Name, report.File)
		return report, nil
	}
	c.out.Section(fmt.Sprintf("📄 %s (%s)", report.Name, report.File))
	for _, line := range scan.Lines(report) {
		c.out.Line("   %s", line)
	}
	return report, nil
}

// CheckDir scans every matching file of dir, prints the findings and
// writes a plain-text report to reportPath when it is not empty.
func (c *Checker) CheckDir(ctx context.Context, dir, reportPath string) ([]models.IssueReport, error) {
	if err := checkDir(dir); err != nil {
		c.out.Fail("❌ Error: %v", err)
		return nil, err
	}
	files, err := herodoc.Glob(dir, c.pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		err := fmt.Errorf("%w in %s", ErrNoFiles, dir)
		c.out.Fail("❌ %v", err)
		return nil, err
	}

	c.out.Banner("HERO SKILL TEXT CHECKER")
	c.out.Line("Checking %d hero files in: %s", len(files), dir)

	run := startRun(c.recorder, c.logger, CheckCommand, dir, false)
	var sum models.Summary
	reports := make([]models.IssueReport, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			finishRun(c.recorder, c.logger, run, sum)
			return reports, err
		}
		report := c.CheckFile(path)
		reports = append(reports, report)

		res := fileResult(report)
		sum.Add(res)
		recordFile(c.recorder, c.logger, run, res)
	}
	finishRun(c.recorder, c.logger, run, sum)

	c.print(reports)

	if reportPath != "" {
		if err := writeReport(reportPath, reports); err != nil {
			c.out.Fail("❌ Could not write report: %v", err)
			return reports, err
		}
		c.out.Blank()
		c.out.Info("📄 Report saved to: %s", reportPath)
	}
	return reports, nil
}

func (c *Checker) print(reports []models.IssueReport) {
	withIssues, complete := scan.Split(reports)

	if len(withIssues) > 0 {
		c.out.Blank()
		c.out.Warn("⚠️  HEROES WITH PLACEHOLDER TEXTS: %d", len(withIssues))
		c.out.Rule()
		for _, r := range withIssues {
			c.out.Blank()
			c.out.Section(fmt.Sprintf("📄 %s (%s)", r.Name, r.File))
			for _, line := range scan.Lines(r) {
				c.out.Line("   %s", line)
			}
		}
	}

	if len(complete) > 0 {
		c.out.Blank()
		c.out.Success("✅ HEROES WITH COMPLETE TEXTS: %d", len(complete))
		c.out.Rule()
		for _, r := range complete {
			c.out.Line("   ✓ %s", r.Name)
		}
	}

	total := len(reports)
	c.out.Blank()
	c.out.Rule()
	c.out.Section("SUMMARY:")
	c.out.Line("  Total heroes: %d", total)
	c.out.Line("  Need work: %d", len(withIssues))
	c.out.Line("  Complete: %d", len(complete))
	c.out.Line("  Progress: %.1f%%", Progress(len(complete), total))
	c.out.Rule()
}

// Progress is the share of complete heroes in percent
func Progress(complete, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(complete) / float64(total) * 100
}

func fileResult(r models.IssueReport) models.FileResult {
	res := models.FileResult{File: r.File, Hero: r.Name, Status: models.StatusUnchanged}
	switch {
	case r.Error != "":
		res.Status = models.StatusFailed
		res.Message = r.Error
	case r.HasIssues():
		res.Status = models.StatusIssues
		res.Changes = scan.Lines(r)
	}
	return res
}

func writeReport(path string, reports []models.IssueReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := scan.WriteReport(f, reports); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
