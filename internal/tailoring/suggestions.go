// Package tailoring turns a match analysis into prioritized résumé edit
// suggestions and an optional auto-tailored copy of the profile.
package tailoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-fit/internal/matching"
	"github.com/jonathan/resume-fit/internal/types"
)

// suggestionNamespace scopes the name-based suggestion IDs
var suggestionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/jonathan/resume-fit/suggestions"))

const (
	maxEmphasizedSkills  = 5
	maxSummaryKeywords   = 5
	maxReorderSkills     = 5
	maxSoftSkills        = 3
	maxAlignedDuties     = 2
	maxProjectSkills     = 3
	maxKeywordGaps       = 10
	maxStrengthAreas     = 5
	noSummaryPlaceholder = "(No summary)"
	certificationKeyword = "certification"
	keySeparator         = "\x1f"
)

// GenerateTailoringSuggestions emits up to eight suggestion kinds, each only
// when its trigger holds, and returns them stably sorted by priority
// (critical, high, medium, low). The profile and result are not modified.
func GenerateTailoringSuggestions(profile *types.CandidateProfile, result *types.JobAnalysisResult) ([]types.TailoringSuggestion, error) {
	if err := checkArgs(profile, result); err != nil {
		return nil, err
	}
	jobCtx := result.Context
	suggestions := make([]types.TailoringSuggestion, 0, 8)

	if missing := skillNames(result.MissingRequired()); len(missing) > 0 {
		joined := strings.Join(missing, ", ")
		suggestions = append(suggestions, newSuggestion(types.SuggestionAdd, types.SectionSkills, types.PriorityCritical,
			fmt.Sprintf("Add %d Required Skills", len(missing)),
			fmt.Sprintf("The job requires: %s. Consider adding these if you have experience with them.", joined),
			"", joined))
	}

	if len(result.StrongMatches) > 0 {
		suggestions = append(suggestions, newSuggestion(types.SuggestionEmphasize, types.SectionExperience, types.PriorityHigh,
			"Emphasize Relevant Experience",
			"Highlight your experience with: "+joinFirst(result.StrongMatches, maxEmphasizedSkills),
			"", "Lead with these skills in your experience descriptions"))
	}

	if len(jobCtx.MustHaveKeywords) > 0 {
		before := profile.Summary
		if strings.TrimSpace(before) == "" {
			before = noSummaryPlaceholder
		}
		suggestions = append(suggestions, newSuggestion(types.SuggestionModify, types.SectionSummary, types.PriorityHigh,
			"Optimize Professional Summary",
			"Include these keywords naturally: "+joinFirst(jobCtx.MustHaveKeywords, maxSummaryKeywords),
			before, "Add keywords to summary for ATS optimization"))
	}

	if len(jobCtx.RequiredSkills) > 0 {
		suggestions = append(suggestions, newSuggestion(types.SuggestionReorder, types.SectionSkills, types.PriorityMedium,
			"Reorder Skills by Job Priority",
			"List required skills first: "+joinFirst(jobCtx.RequiredSkills, maxReorderSkills),
			"", "Prioritize job-relevant skills at the top"))
	}

	if soft := matching.MissingSoftSkills(profile, jobCtx); len(soft) > 0 {
		joined := joinFirst(soft, maxSoftSkills)
		suggestions = append(suggestions, newSuggestion(types.SuggestionAdd, types.SectionSkills, types.PriorityMedium,
			"Add Soft Skills",
			"Consider adding: "+joined,
			"", joined))
	}

	if len(jobCtx.Responsibilities) > 0 {
		suggestions = append(suggestions, newSuggestion(types.SuggestionModify, types.SectionExperience, types.PriorityHigh,
			"Align Experience with Job Responsibilities",
			"Match your experience descriptions to: "+strings.Join(firstN(jobCtx.Responsibilities, maxAlignedDuties), "; "),
			"", "Use similar language and focus areas"))
	}

	if len(profile.Projects) > 0 {
		suggestions = append(suggestions, newSuggestion(types.SuggestionEmphasize, types.SectionProjects, types.PriorityMedium,
			"Emphasize Relevant Projects",
			"Highlight projects using: "+joinFirst(result.StrongMatches, maxProjectSkills),
			"", "Feature most relevant projects prominently"))
	}

	if mentionsCertification(jobCtx.Qualifications) {
		suggestions = append(suggestions, newSuggestion(types.SuggestionAdd, types.SectionCertifications, types.PriorityLow,
			"Consider Relevant Certifications",
			"Job mentions certifications as a qualification",
			"", "Add any relevant certifications you have"))
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority.Rank() < suggestions[j].Priority.Rank()
	})
	return suggestions, nil
}

// newSuggestion builds a suggestion whose ID is a UUIDv5 of its content, so
// identical inputs always produce identical IDs
func newSuggestion(kind types.SuggestionType, section types.Section, priority types.Priority, title, description, before, after string) types.TailoringSuggestion {
	key := strings.Join([]string{string(kind), string(section), title, description, before, after}, keySeparator)
	return types.TailoringSuggestion{
		ID:          uuid.NewSHA1(suggestionNamespace, []byte(key)).String(),
		Type:        kind,
		Section:     section,
		Priority:    priority,
		Title:       title,
		Description: description,
		Before:      before,
		After:       after,
	}
}

func checkArgs(profile *types.CandidateProfile, result *types.JobAnalysisResult) error {
	if profile == nil {
		return &matching.InvalidArgumentError{Field: "profile", Message: "must not be nil"}
	}
	if result == nil {
		return &matching.InvalidArgumentError{Field: "result", Message: "must not be nil"}
	}
	if result.Context == nil {
		return &matching.InvalidArgumentError{Field: "result.context", Message: "must not be nil"}
	}
	return nil
}

func mentionsCertification(qualifications []string) bool {
	for _, q := range qualifications {
		if strings.Contains(strings.ToLower(q), certificationKeyword) {
			return true
		}
	}
	return false
}

func skillNames(matches []types.SkillMatch) []string {
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Skill
	}
	return names
}

func joinFirst(list []string, n int) string {
	return strings.Join(firstN(list, n), ", ")
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
