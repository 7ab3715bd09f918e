package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/meur/heroforge/internal/models"
	"github.com/meur/heroforge/internal/relic"
	"github.com/meur/heroforge/internal/scan"
	"go.uber.org/zap"
)

// RunStore is the read side of the run history
type RunStore interface {
	GetRuns(limit int) ([]models.Run, error)
	GetRun(id string) (*models.Run, error)
}

// Options configures the API server
type Options struct {
	HeroesDir      string
	Pattern        string
	AllowedOrigins []string
}

// Server holds the HTTP server dependencies
type Server struct {
	opts    Options
	scanner *scan.Scanner
	relics  *relic.Table
	store   RunStore // nil disables the run endpoints
	logger  *zap.Logger
	router  chi.Router
}

// New creates a new API server. It only reads hero files.
func New(opts Options, scanner *scan.Scanner, relics *relic.Table, store RunStore, logger *zap.Logger) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:*"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		opts:    opts,
		scanner: scanner,
		relics:  relics,
		store:   store,
		logger:  logger,
		router:  chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the chi router for mounting extra handlers
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Heroes
		r.Get("/heroes", s.handleGetHeroes)
		r.Get("/heroes/{id}", s.handleGetHero)
		r.Get("/heroes/{id}/issues", s.handleGetHeroIssues)

		// Placeholder scan
		r.Get("/issues", s.handleGetIssues)

		// Relic guide
		r.Get("/relic-levels", s.handleGetRelicLevels)
		r.Get("/relic-levels/{name}", s.handleGetRelicLevel)

		// Run history
		r.Get("/runs", s.handleGetRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
