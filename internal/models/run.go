package models

import (
	"time"
)

// FileStatus is the outcome class of one processed file
type FileStatus string

const (
	StatusUpdated   FileStatus = "updated"
	StatusUnchanged FileStatus = "unchanged"
	StatusFailed    FileStatus = "failed"
	StatusIssues    FileStatus = "issues" // Scanned, placeholder texts found
)

// FileResult is the outcome of running a driver on one file
type FileResult struct {
	File     string     `json:"file"`
	Hero     string     `json:"hero,omitempty"`
	Status   FileStatus `json:"status"`
	Changes  []string   `json:"changes,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
	Message  string     `json:"message,omitempty"` // Failure text
	DryRun   bool       `json:"dry_run"`
}

// Summary aggregates the file results of one run
type Summary struct {
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Defaulted int `json:"defaulted"` // Results carrying a warning
	Issues    int `json:"issues"`
	Errors    int `json:"errors"`
	Total     int `json:"total"`
}

// Add counts one file result
func (s *Summary) Add(r FileResult) {
	s.Total++
	switch r.Status {
	case StatusUpdated:
		s.Updated++
	case StatusUnchanged:
		s.Unchanged++
	case StatusIssues:
		s.Issues++
	case StatusFailed:
		s.Errors++
	}
	if len(r.Warnings) > 0 {
		s.Defaulted++
	}
}

// Run represents one recorded driver invocation
type Run struct {
	ID         string       `json:"id"`
	Command    string       `json:"command"`
	Target     string       `json:"target"`
	DryRun     bool         `json:"dry_run"`
	Summary    Summary      `json:"summary"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"` // nil = still running or crashed
	Files      []FileResult `json:"files,omitempty"`
}
