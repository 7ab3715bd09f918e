package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meur/heroforge/internal/models"
	"github.com/meur/heroforge/internal/relic"
)

// handleGetRelicLevels returns the guide, highest level first
func (s *Server) handleGetRelicLevels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.relics.Entries())
}

// handleGetRelicLevel looks up one hero. Misses report the default level.
func (s *Server) handleGetRelicLevel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	level, found := s.relics.Lookup(name)
	if !found {
		level = relic.DefaultLevel
	}
	respondJSON(w, http.StatusOK, models.RelicLevel{Name: name, Level: level, Found: found})
}
