// Package observability provides verbose CLI summaries and the Prometheus
// metrics exported by the HTTP server.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-fit/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to limit runes, ending in "..." when cut
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// writeList writes a heading and up to limit bulleted items, noting the rest
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintJobContext outputs a human-readable summary of an extracted posting
func (p *Printer) PrintJobContext(jobCtx *types.JobContext) {
	if jobCtx == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:       %s\n", jobCtx.JobTitle))
	sb.WriteString(fmt.Sprintf("Department: %s\n", jobCtx.Department))
	sb.WriteString(fmt.Sprintf("Level:      %s", jobCtx.ExperienceLevel))
	if jobCtx.YearsRequired.HasExplicitRange() {
		sb.WriteString(fmt.Sprintf(" (%d", jobCtx.YearsRequired.Min))
		if jobCtx.YearsRequired.Max != nil {
			sb.WriteString(fmt.Sprintf("-%d", *jobCtx.YearsRequired.Max))
		} else {
			sb.WriteString("+")
		}
		sb.WriteString(" years)")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Company:    %s, %s\n\n", jobCtx.CompanySize, jobCtx.WorkStyle))

	writeList(&sb, "Required", jobCtx.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred", jobCtx.PreferredSkills, 3)
	writeList(&sb, "Keywords", jobCtx.MustHaveKeywords, 3)

	p.printBox("JOB CONTEXT", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintAnalysis outputs the match score with strong and missing skills
func (p *Printer) PrintAnalysis(result *types.JobAnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match score: %d/100\n\n", result.OverallMatchScore))
	writeList(&sb, "Strong matches", result.StrongMatches, maxItemsToShow)
	writeList(&sb, "Missing", result.MissingSkills, maxItemsToShow)
	writeList(&sb, "Suggestions", result.Suggestions, 3)

	p.printBox("MATCH ANALYSIS", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintSuggestions outputs tailoring suggestions in priority order
func (p *Printer) PrintSuggestions(suggestions []types.TailoringSuggestion) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d suggestions:\n\n", len(suggestions)))
	for i, s := range suggestions {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", s.Priority, s.Title))
		sb.WriteString(fmt.Sprintf("  %s (%s)\n", s.Section, s.Type))
		if i < len(suggestions)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TAILORING SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalytics outputs the overall score and per-section scores
func (p *Printer) PrintAnalytics(analytics *types.ResumeAnalytics) {
	if analytics == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall: %d/100 (top %d%% of %d)\n\n",
		analytics.OverallScore,
		100-analytics.CompetitorComparison.Percentile,
		analytics.CompetitorComparison.ComparedTo))

	for _, s := range analytics.Sections {
		sb.WriteString(fmt.Sprintf("%-22s %3d\n", s.Section, s.Score))
	}
	sb.WriteString("\n")

	titles := make([]string, 0, len(analytics.ImprovementRoadmap))
	for _, item := range analytics.ImprovementRoadmap {
		titles = append(titles, item.Title)
	}
	writeList(&sb, "Next steps", titles, 3)

	p.printBox("RESUME ANALYTICS", strings.TrimSuffix(sb.String(), "\n\n"))
}
