// Package scan finds placeholder and default texts in hero documents.
package scan

import (
	"fmt"
	"strings"

	"github.com/meur/heroforge/internal/herodoc"
	"github.com/meur/heroforge/internal/models"
)

// DefaultPatterns are generic fillers plus default texts known to be left
// unedited in hero files.
var DefaultPatterns = []string{
	"lorem ipsum",
	"placeholder",
	"todo",
	"tbd",
	"coming soon",
	"description here",
	"add description",
	"skill description",
	"skill name",
	"...",
	"n/a",
	"null",
	"test",
	"restores hp to allies over time",
	"healing increased by 20%",
	"adds shield on heal",
	"removes one debuff",
	"grants a shield when allies fall low",
	"shield strength increased",
	"cooldown reduced",
	"triggers automatically once per battle",
	"hero's relic",
	"casting soothing rain triggers an additional spirit therapy",
	"life barrier",
	"soothing rain",
}

// ReasonEmpty is the reason for empty or whitespace-only text
const ReasonEmpty = "Empty/missing"

// Config controls what the scanner flags
type Config struct {
	Patterns        []string `yaml:"patterns"`
	CheckDuplicates bool     `yaml:"check_duplicates"`
	MinLength       int      `yaml:"min_length"` // 0 disables the length check
}

// DefaultConfig returns the stock pattern table with duplicate checks on
func DefaultConfig() Config {
	patterns := make([]string, len(DefaultPatterns))
	copy(patterns, DefaultPatterns)
	return Config{Patterns: patterns, CheckDuplicates: true}
}

// Scanner evaluates documents against a fixed configuration
type Scanner struct {
	patterns        []string
	checkDuplicates bool
	minLength       int
}

// New creates a Scanner. Patterns are matched case-insensitively.
func New(cfg Config) *Scanner {
	s := &Scanner{checkDuplicates: cfg.CheckDuplicates, minLength: cfg.MinLength}
	for _, p := range cfg.Patterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			s.patterns = append(s.patterns, p)
		}
	}
	return s
}

// Check tests one text value. The empty check wins over patterns, and
// patterns over the length check.
func (s *Scanner) Check(text string) (reason string, flagged bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ReasonEmpty, true
	}
	lower := strings.ToLower(trimmed)
	for _, p := range s.patterns {
		if strings.Contains(lower, p) {
			return fmt.Sprintf("Contains '%s'", p), true
		}
	}
	if n := len([]rune(trimmed)); n < s.minLength {
		return fmt.Sprintf("Too short (%d chars)", n), true
	}
	return "", false
}

// Scan reports the issues of one parsed document. It never modifies doc.
func (s *Scanner) Scan(doc *herodoc.Document) models.IssueReport {
	report := models.IssueReport{Name: doc.DisplayName()}
	if report.Name == "" {
		report.Name = "Unknown"
	}

	skills := doc.Skills()
	if s.checkDuplicates {
		report.Duplicates = duplicates(skills)
	}

	for i, skill := range skills {
		issues := s.fields(skill.Name, skill.Description, skill.Upgrades)
		if len(issues) == 0 {
			continue
		}
		name := skill.Name
		if name == "" {
			name = fmt.Sprintf("Skill %d", i+1)
		}
		report.Skills = append(report.Skills, models.SkillIssues{Number: i + 1, Name: name, Issues: issues})
	}

	if rel := doc.Relic(); rel != nil {
		if issues := s.fields(rel.Name, rel.Description, rel.Upgrades); len(issues) > 0 {
			name := rel.Name
			if name == "" {
				name = "Relic"
			}
			report.Relic = &models.RelicIssues{Name: name, Issues: issues}
		}
	}
	return report
}

// ScanBytes parses and scans one file. A parse error is reported on the
// result instead of being returned.
func (s *Scanner) ScanBytes(file string, data []byte) models.IssueReport {
	doc, err := herodoc.Parse(data)
	if err != nil {
		return models.IssueReport{Name: file, File: file, Error: err.Error()}
	}
	report := s.Scan(doc)
	report.File = file
	return report
}

func (s *Scanner) fields(name, description string, upgrades []models.Upgrade) []models.FieldIssue {
	var issues []models.FieldIssue
	if reason, ok := s.Check(name); ok {
		issues = append(issues, models.FieldIssue{Field: "Name", Reason: reason})
	}
	if reason, ok := s.Check(description); ok {
		issues = append(issues, models.FieldIssue{Field: "Description", Reason: reason})
	}
	for _, u := range upgrades {
		if reason, ok := s.Check(u.Text); ok {
			issues = append(issues, models.FieldIssue{Field: "Upgrade " + u.Level, Reason: reason})
		}
	}
	return issues
}

// duplicates returns each repeat of a skill name after its first use
func duplicates(skills []models.Skill) []string {
	var dups []string
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		name := strings.ToLower(strings.TrimSpace(skill.Name))
		if name == "" {
			continue
		}
		if seen[name] {
			dups = append(dups, name)
		}
		seen[name] = true
	}
	return dups
}
