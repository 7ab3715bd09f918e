package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/meur/heroforge/internal/herodoc"
	"github.com/meur/heroforge/internal/models"
	"github.com/meur/heroforge/internal/scan"
)

// handleGetIssues scans every hero. ?all=true includes complete heroes.
func (s *Server) handleGetIssues(w http.ResponseWriter, r *http.Request) {
	paths, err := herodoc.Glob(s.opts.HeroesDir, s.opts.Pattern)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read heroes")
		return
	}

	reports := make([]models.IssueReport, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			file := filepath.Base(p)
			reports = append(reports, models.IssueReport{Name: file, File: file, Error: err.Error()})
			continue
		}
		reports = append(reports, s.scanner.ScanBytes(filepath.Base(p), data))
	}

	withIssues, complete := scan.Split(reports)
	if r.URL.Query().Get("all") != "true" {
		reports = withIssues
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reports":  reports,
		"total":    len(withIssues) + len(complete),
		"complete": len(complete),
	})
}

// handleGetHeroIssues scans a single hero
func (s *Server) handleGetHeroIssues(w http.ResponseWriter, r *http.Request) {
	entry, err := s.findHero(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read heroes")
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "Hero not found")
		return
	}

	file := filepath.Base(entry.Path)
	if entry.Err != nil {
		respondJSON(w, http.StatusOK, models.IssueReport{Name: file, File: file, Error: entry.Err.Error()})
		return
	}
	report := s.scanner.Scan(entry.Doc)
	report.File = file
	respondJSON(w, http.StatusOK, report)
}
