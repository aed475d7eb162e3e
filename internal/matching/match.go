// Package matching scores a candidate profile against an extracted job context.
package matching

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/resume-fit/internal/types"
)

const (
	requiredMatchScore  = 1.0
	preferredMatchScore = 0.7

	maxMissingSkills = 15
	maxSuggestions   = 8
)

// HasSkill reports whether any candidate skill covers jobSkill. Matching is
// case-insensitive substring containment in either direction, so "React"
// covers "React Native" and "PostgreSQL" covers "SQL". Blank candidate
// skills never match.
func HasSkill(candidateSkills []string, jobSkill string) bool {
	job := strings.ToLower(strings.TrimSpace(jobSkill))
	if job == "" {
		return false
	}
	for _, s := range candidateSkills {
		candidate := strings.ToLower(strings.TrimSpace(s))
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, job) || strings.Contains(job, candidate) {
			return true
		}
	}
	return false
}

// MatchProfileToJob compares profile against jobCtx using the current time for
// open-ended experience entries. The only error is an InvalidArgumentError for
// nil inputs.
func MatchProfileToJob(profile *types.CandidateProfile, jobCtx *types.JobContext) (*types.JobAnalysisResult, error) {
	return MatchProfileToJobAt(profile, jobCtx, time.Now())
}

// MatchProfileToJobAt is MatchProfileToJob with an explicit reference time
func MatchProfileToJobAt(profile *types.CandidateProfile, jobCtx *types.JobContext, now time.Time) (*types.JobAnalysisResult, error) {
	if err := checkArgs(profile, jobCtx); err != nil {
		return nil, err
	}

	matches := skillMatches(profile, jobCtx)
	missing := missingSkills(profile, jobCtx)

	return &types.JobAnalysisResult{
		Context:           jobCtx,
		SkillMatches:      matches,
		OverallMatchScore: overallScore(profile, jobCtx, matches, now),
		MissingSkills:     missing,
		StrongMatches:     strongMatches(profile, jobCtx),
		Suggestions:       matchSuggestions(profile, jobCtx, matches),
	}, nil
}

func checkArgs(profile *types.CandidateProfile, jobCtx *types.JobContext) error {
	if profile == nil {
		return &InvalidArgumentError{Field: "profile", Message: "must not be nil"}
	}
	if jobCtx == nil {
		return &InvalidArgumentError{Field: "context", Message: "must not be nil"}
	}
	return nil
}

func category(jobCtx *types.JobContext, skill string) types.SkillCategory {
	switch {
	case jobCtx.IsTechnical(skill):
		return types.CategoryTechnical
	case jobCtx.IsSoft(skill):
		return types.CategorySoft
	default:
		return types.CategoryDomain
	}
}

// skillMatches lists every required skill, then every preferred skill not
// already required
func skillMatches(profile *types.CandidateProfile, jobCtx *types.JobContext) []types.SkillMatch {
	matches := make([]types.SkillMatch, 0, len(jobCtx.RequiredSkills)+len(jobCtx.PreferredSkills))

	for _, skill := range jobCtx.RequiredSkills {
		has := HasSkill(profile.Skills, skill)
		score := 0.0
		if has {
			score = requiredMatchScore
		}
		matches = append(matches, types.SkillMatch{
			Skill:      skill,
			UserHasIt:  has,
			Importance: types.ImportanceRequired,
			Category:   category(jobCtx, skill),
			MatchScore: score,
		})
	}

	for _, skill := range jobCtx.PreferredSkills {
		if jobCtx.IsRequired(skill) {
			continue
		}
		has := HasSkill(profile.Skills, skill)
		score := 0.0
		if has {
			score = preferredMatchScore
		}
		matches = append(matches, types.SkillMatch{
			Skill:      skill,
			UserHasIt:  has,
			Importance: types.ImportancePreferred,
			Category:   category(jobCtx, skill),
			MatchScore: score,
		})
	}

	return matches
}

func overallScore(profile *types.CandidateProfile, jobCtx *types.JobContext, matches []types.SkillMatch, now time.Time) int {
	skillScore := neutralSkillScore
	required, matchedRequired := 0, 0
	for _, m := range matches {
		if m.Importance != types.ImportanceRequired {
			continue
		}
		required++
		if m.UserHasIt {
			matchedRequired++
		}
	}
	if required > 0 {
		skillScore = float64(matchedRequired) / float64(required)
	}

	w := EffectiveWeights(jobCtx)
	total := skillScore*w.Skill +
		experienceScore(profile, jobCtx.YearsRequired, now)*w.Experience +
		educationScore(profile)*w.Education +
		keywordScore(profile, jobCtx.MustHaveKeywords)*w.Keyword

	return clampScore(total)
}

// missingSkills lists required skills the candidate lacks, then lacking
// preferred skills, without duplicates and capped at 15
func missingSkills(profile *types.CandidateProfile, jobCtx *types.JobContext) []string {
	missing := make([]string, 0)
	seen := make(map[string]bool)

	for _, group := range [][]string{jobCtx.RequiredSkills, jobCtx.PreferredSkills} {
		for _, skill := range group {
			if len(missing) == maxMissingSkills {
				return missing
			}
			if seen[skill] || HasSkill(profile.Skills, skill) {
				continue
			}
			seen[skill] = true
			missing = append(missing, skill)
		}
	}
	return missing
}

// strongMatches lists the required skills the candidate has, in context order
func strongMatches(profile *types.CandidateProfile, jobCtx *types.JobContext) []string {
	strong := make([]string, 0)
	for _, skill := range jobCtx.RequiredSkills {
		if HasSkill(profile.Skills, skill) {
			strong = append(strong, skill)
		}
	}
	return strong
}

// MissingSoftSkills returns the context's soft skills that no profile skill covers
func MissingSoftSkills(profile *types.CandidateProfile, jobCtx *types.JobContext) []string {
	missing := make([]string, 0)
	for _, skill := range jobCtx.SoftSkills {
		if !HasSkill(profile.Skills, skill) {
			missing = append(missing, skill)
		}
	}
	return missing
}

func matchSuggestions(profile *types.CandidateProfile, jobCtx *types.JobContext, matches []types.SkillMatch) []string {
	suggestions := make([]string, 0, 4)

	missingRequired := make([]string, 0)
	for _, m := range matches {
		if m.Importance == types.ImportanceRequired && !m.UserHasIt {
			missingRequired = append(missingRequired, m.Skill)
		}
	}
	if len(missingRequired) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Add %d required skills: %s",
			len(missingRequired), strings.Join(firstN(missingRequired, 3), ", ")))
	}

	if jobCtx.YearsRequired.Min > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Highlight %d+ years of relevant experience", jobCtx.YearsRequired.Min))
	}

	if len(jobCtx.MustHaveKeywords) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Include keywords: %s",
			strings.Join(firstN(jobCtx.MustHaveKeywords, 5), ", ")))
	}

	if soft := MissingSoftSkills(profile, jobCtx); len(soft) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Emphasize soft skills: %s",
			strings.Join(firstN(soft, 3), ", ")))
	}

	return firstN(suggestions, maxSuggestions)
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
