// Package ratings synchronizes hero ratings with a spreadsheet-like grid.
package ratings

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/meur/heroforge/internal/herodoc"
	"github.com/meur/heroforge/internal/models"
	"go.uber.org/zap"
)

// Missing is the cell value for an absent rating
const Missing = "–"

// DefaultNameColumn is the header of the hero name column
const DefaultNameColumn = "Heldenname"

// Grid is a two-dimensional row store. Row 0 holds column headers.
type Grid interface {
	Read(ctx context.Context) ([][]string, error)
	// Replace clears the whole target range, then writes rows
	Replace(ctx context.Context, rows [][]string) error
}

// Styler is implemented by grids that can format their header row
type Styler interface {
	StyleHeader(ctx context.Context, columns, rows int) error
}

// Options configures a Syncer
type Options struct {
	Dir        string
	Pattern    string
	NameColumn string
	Keys       []string
	DryRun     bool
}

// Syncer moves ratings between a hero directory and a grid
type Syncer struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Syncer with defaults for unset options
func New(opts Options, logger *zap.Logger) *Syncer {
	if opts.NameColumn == "" {
		opts.NameColumn = DefaultNameColumn
	}
	if len(opts.Keys) == 0 {
		opts.Keys = models.RatingKeys
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{opts: opts, logger: logger}
}

// Columns returns the header row written on export
func (s *Syncer) Columns() []string {
	return append([]string{s.opts.NameColumn}, s.opts.Keys...)
}

// ExportResult describes one export
type ExportResult struct {
	Rows    int
	Skipped []string // Files that could not be parsed
	Styled  bool
}

// Rows builds one row per hero, sorted case-insensitively by name
func (s *Syncer) Rows() ([][]string, []string, error) {
	entries, err := herodoc.LoadDir(s.opts.Dir, s.opts.Pattern)
	if err != nil {
		return nil, nil, err
	}
	var rows [][]string
	var skipped []string
	for _, e := range entries {
		if e.Err != nil {
			s.logger.Warn("skipping unreadable hero file", zap.String("file", e.Path), zap.Error(e.Err))
			skipped = append(skipped, e.Path)
			continue
		}
		row := []string{e.Name()}
		for _, key := range s.opts.Keys {
			v, ok := e.Doc.Rating(key)
			if !ok {
				v = Missing
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i][0]) < strings.ToLower(rows[j][0])
	})
	return rows, skipped, nil
}

// Export always rewrites the full grid, then styles the header when the
// grid supports it.
func (s *Syncer) Export(ctx context.Context, grid Grid) (ExportResult, error) {
	rows, skipped, err := s.Rows()
	if err != nil {
		return ExportResult{}, err
	}
	res := ExportResult{Rows: len(rows), Skipped: skipped}
	if len(rows) == 0 {
		return res, fmt.Errorf("no hero files found in %s", s.opts.Dir)
	}
	if s.opts.DryRun {
		return res, nil
	}

	values := append([][]string{s.Columns()}, rows...)
	if err := grid.Replace(ctx, values); err != nil {
		return res, fmt.Errorf("write grid: %w", err)
	}
	if styler, ok := grid.(Styler); ok {
		if err := styler.StyleHeader(ctx, len(s.Columns()), len(rows)); err != nil {
			s.logger.Warn("header styling failed", zap.Error(err))
		} else {
			res.Styled = true
		}
	}
	return res, nil
}

// Change is one rating value that differs between grid and file
type Change struct {
	Hero string
	Key  string
	Old  string
	New  string
}

func (c Change) String() string {
	return fmt.Sprintf("%s: %s %s → %s", c.Hero, c.Key, c.Old, c.New)
}

// ImportResult describes one import
type ImportResult struct {
	SheetRows int
	Changes   []Change
	Updated   int // Files written, or that would be in dry-run mode
	Unchanged int // Matched rows without differences
	NotFound  []string
	Failed    []string
}

// Import applies grid ratings to matching hero files. Only differing
// values are written and files without changes are left untouched.
func (s *Syncer) Import(ctx context.Context, grid Grid) (ImportResult, error) {
	values, err := grid.Read(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read grid: %w", err)
	}
	if len(values) < 2 {
		return ImportResult{}, fmt.Errorf("grid has no data rows")
	}

	header := values[0]
	columns := make(map[string]int)
	for _, key := range s.opts.Keys {
		for i, h := range header {
			if strings.TrimSpace(h) == key {
				columns[key] = i
				break
			}
		}
	}

	entries, err := herodoc.LoadDir(s.opts.Dir, s.opts.Pattern)
	if err != nil {
		return ImportResult{}, err
	}
	byName := make(map[string]herodoc.Entry, len(entries))
	for _, e := range entries {
		if e.Err != nil {
			continue
		}
		byName[strings.ToLower(e.Name())] = e
	}

	res := ImportResult{SheetRows: len(values) - 1}
	// Rows naming the same hero edit one working copy, written once
	docs := make(map[string]*herodoc.Document)
	var dirty []string
	heroes := make(map[string]string)
	for _, row := range values[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		hero := row[0]
		entry, ok := byName[strings.ToLower(hero)]
		if !ok {
			res.NotFound = append(res.NotFound, hero)
			continue
		}

		doc, ok := docs[entry.Path]
		if !ok {
			doc = entry.Doc.Clone()
			docs[entry.Path] = doc
		}
		changed := false
		for _, key := range s.opts.Keys {
			idx, ok := columns[key]
			if !ok {
				continue
			}
			next := Missing
			if idx < len(row) {
				next = row[idx]
			}
			prev, ok := doc.Rating(key)
			if !ok {
				prev = Missing
			}
			if next == prev {
				continue
			}
			if err := doc.Set("ratings."+key, next); err != nil {
				return res, err
			}
			res.Changes = append(res.Changes, Change{Hero: hero, Key: key, Old: prev, New: next})
			changed = true
		}

		if !changed {
			res.Unchanged++
			continue
		}
		if _, seen := heroes[entry.Path]; !seen {
			heroes[entry.Path] = hero
			dirty = append(dirty, entry.Path)
		}
	}

	for _, path := range dirty {
		if !s.opts.DryRun {
			if err := herodoc.WriteFile(path, docs[path]); err != nil {
				s.logger.Error("failed to write hero file", zap.String("file", path), zap.Error(err))
				res.Failed = append(res.Failed, heroes[path])
				continue
			}
		}
		res.Updated++
	}
	return res, nil
}
