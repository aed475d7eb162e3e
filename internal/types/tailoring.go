// Package types provides type definitions for structured data used throughout the resume-fit system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SuggestionType is the kind of edit a tailoring suggestion proposes
type SuggestionType string

// Suggestion types
const (
	SuggestionAdd       SuggestionType = "add"
	SuggestionModify    SuggestionType = "modify"
	SuggestionRemove    SuggestionType = "remove"
	SuggestionReorder   SuggestionType = "reorder"
	SuggestionEmphasize SuggestionType = "emphasize"
)

// Section is a résumé section targeted by a suggestion
type Section string

// Résumé sections
const (
	SectionSummary        Section = "summary"
	SectionSkills         Section = "skills"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

// Priority orders suggestions: critical first, low last
type Priority string

// Priorities
const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns the sort position of p (critical=0 ... low=3).
// Unknown priorities sort after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// TailoringSuggestion is one concrete, serializable résumé edit recommendation
type TailoringSuggestion struct {
	ID          string         `json:"id"`
	Type        SuggestionType `json:"type"`
	Section     Section        `json:"section"`
	Priority    Priority       `json:"priority"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Before      string         `json:"before,omitempty"`
	After       string         `json:"after,omitempty"`
}

// TailoringResult bundles an analysis with its suggestions and the
// (optionally auto-tailored) profile
type TailoringResult struct {
	Analysis        *JobAnalysisResult    `json:"analysis"`
	TailoredProfile *CandidateProfile     `json:"tailored_profile"`
	Suggestions     []TailoringSuggestion `json:"suggestions"`
	KeywordGaps     []string              `json:"keyword_gaps"`
	StrengthAreas   []string              `json:"strength_areas"`
}
