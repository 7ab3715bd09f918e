package scan

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/meur/heroforge/internal/models"
)

// Split separates reports needing work from complete ones, keeping order
func Split(reports []models.IssueReport) (withIssues, complete []models.IssueReport) {
	for _, r := range reports {
		if r.HasIssues() {
			withIssues = append(withIssues, r)
		} else {
			complete = append(complete, r)
		}
	}
	return withIssues, complete
}

// WriteReport writes the plain-text report file
func WriteReport(w io.Writer, reports []models.IssueReport) error {
	withIssues, complete := Split(reports)
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Hero Skill Text Report")
	fmt.Fprintln(bw, strings.Repeat("=", 80))
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Heroes with placeholder texts: %d\n", len(withIssues))
	fmt.Fprintf(bw, "Heroes with complete texts: %d\n\n", len(complete))

	if len(withIssues) > 0 {
		fmt.Fprintln(bw, "NEEDS WORK:")
		fmt.Fprintln(bw, strings.Repeat("-", 80))
		fmt.Fprintln(bw)
		for _, r := range withIssues {
			fmt.Fprintf(bw, "%s (%s)\n", r.Name, r.File)
			for _, line := range Lines(r) {
				fmt.Fprintf(bw, "  %s\n", line)
			}
			fmt.Fprintln(bw)
		}
	}

	if len(complete) > 0 {
		fmt.Fprintln(bw, "\nCOMPLETE:")
		fmt.Fprintln(bw, strings.Repeat("-", 80))
		fmt.Fprintln(bw)
		for _, r := range complete {
			fmt.Fprintf(bw, "  ✓ %s\n", r.Name)
		}
	}
	return bw.Flush()
}

// Lines renders the findings of one report, indented by nesting level
func Lines(r models.IssueReport) []string {
	if r.Error != "" {
		return []string{"Error: " + r.Error}
	}
	var lines []string
	for _, d := range r.Duplicates {
		lines = append(lines, fmt.Sprintf("Duplicate skill name: '%s'", d))
	}
	for _, s := range r.Skills {
		lines = append(lines, fmt.Sprintf("Skill %d: %s", s.Number, s.Name))
		for _, issue := range s.Issues {
			lines = append(lines, fmt.Sprintf("  - %s: %s", issue.Field, issue.Reason))
		}
	}
	if r.Relic != nil {
		lines = append(lines, "Relic: "+r.Relic.Name)
		for _, issue := range r.Relic.Issues {
			lines = append(lines, fmt.Sprintf("  - %s: %s", issue.Field, issue.Reason))
		}
	}
	return lines
}
