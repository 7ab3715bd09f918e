package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/heroforge/internal/models"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			command TEXT NOT NULL,
			target TEXT NOT NULL,
			dry_run INTEGER DEFAULT 0,
			updated INTEGER DEFAULT 0,
			unchanged INTEGER DEFAULT 0,
			defaulted INTEGER DEFAULT 0,
			issues INTEGER DEFAULT 0,
			errors INTEGER DEFAULT 0,
			total INTEGER DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
		`CREATE TABLE IF NOT EXISTS run_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			file TEXT NOT NULL,
			hero TEXT,
			status TEXT NOT NULL,
			message TEXT,
			changes TEXT,
			warnings TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// --- Runs ---

// CreateRun starts a new run record
func (s *Store) CreateRun(command, target string, dryRun bool) (*models.Run, error) {
	run := &models.Run{
		ID:        uuid.New().String(),
		Command:   command,
		Target:    target,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(`
		INSERT INTO runs (id, command, target, dry_run, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Command, run.Target, run.DryRun, run.StartedAt)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// AddRunFile records the outcome of one file
func (s *Store) AddRunFile(runID string, r models.FileResult) error {
	changes, _ := json.Marshal(r.Changes)
	warnings, _ := json.Marshal(r.Warnings)
	_, err := s.db.Exec(`
		INSERT INTO run_files (run_id, file, hero, status, message, changes, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, r.File, r.Hero, string(r.Status), r.Message, changes, warnings)
	return err
}

// FinishRun stores the summary and end time of a run
func (s *Store) FinishRun(runID string, sum models.Summary) error {
	_, err := s.db.Exec(`
		UPDATE runs SET updated = ?, unchanged = ?, defaulted = ?, issues = ?, errors = ?, total = ?, finished_at = ?
		WHERE id = ?
	`, sum.Updated, sum.Unchanged, sum.Defaulted, sum.Issues, sum.Errors, sum.Total, time.Now().UTC(), runID)
	return err
}

// GetRuns returns the most recent runs without their files
func (s *Store) GetRuns(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, command, target, dry_run, updated, unchanged, defaulted, issues, errors, total, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns a run with its file results, or nil when unknown
func (s *Store) GetRun(id string) (*models.Run, error) {
	run, err := scanRun(s.db.QueryRow(`
		SELECT id, command, target, dry_run, updated, unchanged, defaulted, issues, errors, total, started_at, finished_at
		FROM runs WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT file, hero, status, message, changes, warnings
		FROM run_files WHERE run_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var f models.FileResult
		var hero, message, changes, warnings sql.NullString
		var status string
		if err := rows.Scan(&f.File, &hero, &status, &message, &changes, &warnings); err != nil {
			return nil, err
		}
		f.Hero = hero.String
		f.Status = models.FileStatus(status)
		f.Message = message.String
		f.DryRun = run.DryRun
		json.Unmarshal([]byte(changes.String), &f.Changes)
		json.Unmarshal([]byte(warnings.String), &f.Warnings)
		run.Files = append(run.Files, f)
	}
	return run, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var run models.Run
	var finished sql.NullTime
	err := row.Scan(&run.ID, &run.Command, &run.Target, &run.DryRun,
		&run.Summary.Updated, &run.Summary.Unchanged, &run.Summary.Defaulted,
		&run.Summary.Issues, &run.Summary.Errors, &run.Summary.Total, &run.StartedAt, &finished)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
