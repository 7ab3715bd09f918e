package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/meur/heroforge/internal/herodoc"
	"github.com/meur/heroforge/internal/models"
	"go.uber.org/zap"
)

// loadHeroes reads the heroes directory. Unparsable files are logged and
// left out.
func (s *Server) loadHeroes() ([]herodoc.Entry, error) {
	entries, err := herodoc.LoadDir(s.opts.HeroesDir, s.opts.Pattern)
	if err != nil {
		return nil, err
	}
	valid := entries[:0]
	for _, e := range entries {
		if e.Err != nil {
			s.logger.Warn("skipping hero file", zap.String("file", e.Path), zap.Error(e.Err))
			continue
		}
		valid = append(valid, e)
	}
	return valid, nil
}

// findHero matches id against the hero id, display name or file stem,
// case-insensitively
func (s *Server) findHero(id string) (*herodoc.Entry, error) {
	entries, err := herodoc.LoadDir(s.opts.HeroesDir, s.opts.Pattern)
	if err != nil {
		return nil, err
	}
	id = strings.ToLower(id)
	for i, e := range entries {
		if strings.ToLower(herodoc.Stem(e.Path)) == id {
			return &entries[i], nil
		}
		if e.Doc != nil && (e.Doc.Key() == id || strings.ToLower(e.Doc.Name()) == id) {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// handleGetHeroes lists all heroes
func (s *Server) handleGetHeroes(w http.ResponseWriter, r *http.Request) {
	entries, err := s.loadHeroes()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read heroes")
		return
	}

	heroes := make([]models.HeroSummary, 0, len(entries))
	for _, e := range entries {
		heroes = append(heroes, e.Summary())
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"heroes":      heroes,
		"total_count": len(heroes),
	})
}

// handleGetHero returns the hero document as stored
func (s *Server) handleGetHero(w http.ResponseWriter, r *http.Request) {
	entry, err := s.findHero(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read heroes")
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "Hero not found")
		return
	}
	if entry.Err != nil {
		respondError(w, http.StatusUnprocessableEntity, entry.Err.Error())
		return
	}

	respondRaw(w, http.StatusOK, entry.Doc.Bytes())
}
