// Package grid provides row stores for rating sync: a CSV file and a
// Google Sheets range.
package grid

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// CSV is a grid stored in a local CSV file
type CSV struct {
	Path string
}

// Read returns all records. A missing file reads as an empty grid.
func (c CSV) Read(ctx context.Context) ([][]string, error) {
	f, err := os.Open(c.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.Path, err)
	}
	return rows, nil
}

// Replace truncates the file and writes rows
func (c CSV) Replace(ctx context.Context, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", c.Path, err)
	}
	return f.Close()
}
