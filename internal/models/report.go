package models

// FieldIssue is a single flagged text field
type FieldIssue struct {
	Field  string `json:"field"`  // "Name", "Description" or "Upgrade <level>"
	Reason string `json:"reason"` // "Empty/missing", "Contains '<pattern>'", "Too short (n chars)"
}

// SkillIssues groups the flagged fields of one skill
type SkillIssues struct {
	Number int          `json:"number"` // 1-based position in skills
	Name   string       `json:"name"`
	Issues []FieldIssue `json:"issues"`
}

// RelicIssues groups the flagged fields of the relic
type RelicIssues struct {
	Name   string       `json:"name"`
	Issues []FieldIssue `json:"issues"`
}

// IssueReport is the placeholder scan result for one hero document
type IssueReport struct {
	Name       string        `json:"name"`
	File       string        `json:"file"`
	Duplicates []string      `json:"duplicates,omitempty"` // Lower-cased repeated skill names
	Skills     []SkillIssues `json:"skills,omitempty"`
	Relic      *RelicIssues  `json:"relic,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// HasIssues reports whether the document needs work
func (r IssueReport) HasIssues() bool {
	return r.Error != "" || len(r.Duplicates) > 0 || len(r.Skills) > 0 ||
		(r.Relic != nil && len(r.Relic.Issues) > 0)
}
