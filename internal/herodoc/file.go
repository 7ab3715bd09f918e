package herodoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/meur/heroforge/internal/models"
)

// DefaultPattern matches hero files directly inside the heroes directory
const DefaultPattern = "*.json"

// ReadFile loads and parses one hero file
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.File = filepath.Base(path)
		}
		return nil, err
	}
	return doc, nil
}

// WriteFile replaces path with the encoded document. The new content is
// written to a temporary sibling and renamed over the original.
func WriteFile(path string, doc *Document) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(doc.Encode()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Glob lists regular files in dir matching a doublestar pattern, sorted
func Glob(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	return paths, nil
}

// Stem returns the file name without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Entry is one file of a loaded hero directory
type Entry struct {
	Path string
	Doc  *Document // nil when Err is set
	Err  error
}

// Name returns the display name, falling back to the file stem
func (e Entry) Name() string {
	if e.Doc != nil {
		if name := e.Doc.Name(); name != "" {
			return name
		}
	}
	return Stem(e.Path)
}

// LoadDir reads every hero file of dir. Per-file read or parse failures
// are kept on the entry, only enumeration errors are returned.
func LoadDir(dir, pattern string) ([]Entry, error) {
	paths, err := Glob(dir, pattern)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		doc, err := ReadFile(p)
		entries = append(entries, Entry{Path: p, Doc: doc, Err: err})
	}
	return entries, nil
}

// Summary builds the listing view of a parsed entry
func (e Entry) Summary() models.HeroSummary {
	s := models.HeroSummary{
		ID:      e.Doc.ID(),
		Name:    e.Name(),
		File:    filepath.Base(e.Path),
		Ratings: make(map[string]string),
	}
	s.SkillCount = e.Doc.SkillCount()
	s.HasRelic = e.Doc.Relic() != nil
	for _, r := range e.Doc.Ratings() {
		s.Ratings[r.Key] = r.Value
	}
	if level, ok := e.Doc.RecommendedRelicLevel(); ok {
		s.RecommendedRelicLevel = &level
	}
	return s
}
