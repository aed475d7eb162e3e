// Package types provides type definitions for structured data used throughout the resume-fit system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Importance is the requirement class of a job skill
type Importance string

// Importance classes
const (
	ImportanceRequired  Importance = "required"
	ImportancePreferred Importance = "preferred"
)

// SkillCategory classifies a job skill by the vocabulary it came from
type SkillCategory string

// Skill categories
const (
	CategoryTechnical SkillCategory = "technical"
	CategorySoft      SkillCategory = "soft"
	CategoryDomain    SkillCategory = "domain"
)

// SkillMatch records whether the candidate covers one job skill.
// MatchScore is 1.0 for a covered required skill, 0.7 for a covered
// preferred skill and 0.0 otherwise; it is an internal weighting value.
type SkillMatch struct {
	Skill      string        `json:"skill"`
	UserHasIt  bool          `json:"user_has_it"`
	Importance Importance    `json:"importance"`
	Category   SkillCategory `json:"category"`
	MatchScore float64       `json:"match_score"`
}

// JobAnalysisResult is the outcome of matching one profile against one job
type JobAnalysisResult struct {
	Context           *JobContext  `json:"context"`
	SkillMatches      []SkillMatch `json:"skill_matches"`
	OverallMatchScore int          `json:"overall_match_score"`
	MissingSkills     []string     `json:"missing_skills"`
	StrongMatches     []string     `json:"strong_matches"`
	Suggestions       []string     `json:"suggestions"`
}

// MissingRequired returns the required skill matches the candidate lacks, in order
func (r *JobAnalysisResult) MissingRequired() []SkillMatch {
	out := make([]SkillMatch, 0)
	for _, m := range r.SkillMatches {
		if m.Importance == ImportanceRequired && !m.UserHasIt {
			out = append(out, m)
		}
	}
	return out
}
