package scan

import (
	"bytes"
	"testing"

	"github.com/meur/heroforge/internal/herodoc"
	"github.com/meur/heroforge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	s := New(Config{Patterns: []string{"TODO", "lorem ipsum"}, MinLength: 5})

	tests := []struct {
		name    string
		text    string
		flagged bool
		reason  string
	}{
		{"empty", "", true, ReasonEmpty},
		{"whitespace", "  \t", true, ReasonEmpty},
		{"pattern case-insensitive", "Needs work, todo later", true, "Contains 'todo'"},
		{"first pattern wins", "todo lorem ipsum", true, "Contains 'todo'"},
		{"too short", "abc", true, "Too short (3 chars)"},
		{"clean", "Deals heavy damage", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, flagged := s.Check(tt.text)
			assert.Equal(t, tt.flagged, flagged)
			assert.Equal(t, tt.reason, reason)
		})
	}

	t.Run("length check disabled by default", func(t *testing.T) {
		_, flagged := New(DefaultConfig()).Check("Hit")
		assert.False(t, flagged)
	})
}

func TestScanPlaceholderDescription(t *testing.T) {
	doc := herodoc.MustParse(`{"id":"zeus","name":"Zeus","skills":[{"name":"Thunder","description":"TODO"}]}`)
	report := New(DefaultConfig()).Scan(doc)

	require.Len(t, report.Skills, 1)
	assert.Equal(t, 1, report.Skills[0].Number)
	assert.Equal(t, "Description", report.Skills[0].Issues[0].Field)
	assert.Contains(t, report.Skills[0].Issues[0].Reason, "todo")
	assert.True(t, report.HasIssues())
}

func TestScanDuplicates(t *testing.T) {
	doc := herodoc.MustParse(`{"name":"Isis","skills":[
		{"name":"Life Barrier","description":"Shields allies"},
		{"name":"Spirit Ward","description":"Wards allies"},
		{"name":" life barrier ","description":"Shields again"}
	]}`)

	report := New(DefaultConfig()).Scan(doc)
	assert.Equal(t, []string{"life barrier"}, report.Duplicates)

	noDup := New(Config{Patterns: DefaultPatterns}).Scan(doc)
	assert.Empty(t, noDup.Duplicates)
}

func TestScanUpgradesAndRelic(t *testing.T) {
	doc := herodoc.MustParse(`{"name":"Hela","skills":[
		{"name":"Reap","description":"Strikes the soul","upgrades":{"level2":"Damage up","level3":"","level4":"Coming soon"}}
	],"relic":{"name":"","description":"Hero's relic","upgrades":{"level2":"Cooldown reduced"}}}`)

	report := New(DefaultConfig()).Scan(doc)
	require.Len(t, report.Skills, 1)
	assert.Equal(t, []models.FieldIssue{
		{Field: "Upgrade level3", Reason: ReasonEmpty},
		{Field: "Upgrade level4", Reason: "Contains 'coming soon'"},
	}, report.Skills[0].Issues)

	require.NotNil(t, report.Relic)
	assert.Equal(t, "Relic", report.Relic.Name)
	assert.Equal(t, []models.FieldIssue{
		{Field: "Name", Reason: ReasonEmpty},
		{Field: "Description", Reason: "Contains 'hero's relic'"},
		{Field: "Upgrade level2", Reason: "Contains 'cooldown reduced'"},
	}, report.Relic.Issues)
}

func TestScanCleanDocument(t *testing.T) {
	doc := herodoc.MustParse(`{"name":"Nuwa","skills":[{"name":"Mend","description":"Repairs the sky"}],"relic":{"name":"Stone","description":"Five colours"}}`)
	report := New(DefaultConfig()).Scan(doc)
	assert.False(t, report.HasIssues())
	assert.Equal(t, "Nuwa", report.Name)
}

func TestScanDeterministicAndReadOnly(t *testing.T) {
	src := `{"name":"A","skills":[{"name":"x","description":"tbd"},{"name":"x"}],"relic":{"name":"n/a"}}`
	doc := herodoc.MustParse(src)
	s := New(DefaultConfig())

	first := s.Scan(doc)
	second := s.Scan(doc)
	assert.Equal(t, first, second)
	assert.Equal(t, src, string(doc.Bytes()))
}

func TestScanBytesParseError(t *testing.T) {
	report := New(DefaultConfig()).ScanBytes("broken.json", []byte(`{"name":`))
	assert.True(t, report.HasIssues())
	assert.Equal(t, "broken.json", report.File)
	assert.Contains(t, report.Error, "invalid JSON")
}

func TestWriteReport(t *testing.T) {
	s := New(DefaultConfig())
	reports := []models.IssueReport{
		s.ScanBytes("a.json", []byte(`{"name":"A","skills":[{"name":"Ok","description":"todo"}]}`)),
		s.ScanBytes("b.json", []byte(`{"name":"B","skills":[{"name":"Fine","description":"Strong hit"}]}`)),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, reports))
	out := buf.String()
	assert.Contains(t, out, "Heroes with placeholder texts: 1")
	assert.Contains(t, out, "A (a.json)")
	assert.Contains(t, out, "  - Description: Contains 'todo'")
	assert.Contains(t, out, "  ✓ B")
}
