package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/meur/heroforge/internal/api"
	"github.com/meur/heroforge/internal/config"
	"github.com/meur/heroforge/internal/logging"
	"github.com/meur/heroforge/internal/scan"
	"github.com/meur/heroforge/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Parse flags
	configPath := flag.String("config", getEnv("HEROFORGE_CONFIG", ""), "Config file path")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(*verbose)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Run history is optional
	var runs api.RunStore
	if cfg.DBPath != "" {
		store, err := storage.New(cfg.DBPath)
		if err != nil {
			logger.Fatal("failed to initialize storage", zap.Error(err))
		}
		defer store.Close()
		runs = store
	}

	// Create router
	srv := api.New(api.Options{
		HeroesDir:      cfg.HeroesDir,
		Pattern:        cfg.Pattern,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, scan.New(cfg.ScannerConfig()), cfg.RelicTable(), runs, logger)

	// Serve a built frontend when configured
	if cfg.Server.StaticDir != "" {
		FileServer(srv.Router(), "/", http.Dir(cfg.Server.StaticDir))
	}

	log.Printf("🚀 HeroForge API starting on http://localhost:%s", cfg.Server.Port)
	log.Printf("📂 Heroes: %s", cfg.HeroesDir)
	if cfg.DBPath != "" {
		log.Printf("📦 Database: %s", cfg.DBPath)
	}

	if err := http.ListenAndServe(":"+cfg.Server.Port, srv); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}
