package tailoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-fit/internal/extraction"
	"github.com/jonathan/resume-fit/internal/matching"
	"github.com/jonathan/resume-fit/internal/types"
)

const (
	maxAutoAddedSkills  = 5
	maxClauseKeywords   = 3
	maxSummarySkills    = 5
	defaultSummaryTitle = "Professional"
)

// ApplyAutoTailoring returns a tailored copy of profile:
//
//  1. up to five of the result's missing skills are appended when not already listed
//  2. skills naming a required job skill are stably moved to the front
//  3. a non-empty summary gains " Experienced with k1, k2, k3." unless it
//     already contains that keyword list
//
// The input profile is never modified.
func ApplyAutoTailoring(profile *types.CandidateProfile, result *types.JobAnalysisResult) (*types.CandidateProfile, error) {
	if err := checkArgs(profile, result); err != nil {
		return nil, err
	}
	tailored := profile.Clone()
	if tailored.Skills == nil {
		tailored.Skills = make([]string, 0)
	}

	for _, skill := range firstN(result.MissingSkills, maxAutoAddedSkills) {
		if !containsString(tailored.Skills, skill) {
			tailored.Skills = append(tailored.Skills, skill)
		}
	}

	required := lowerAll(result.Context.RequiredSkills)
	sort.SliceStable(tailored.Skills, func(i, j int) bool {
		return namesRequired(tailored.Skills[i], required) && !namesRequired(tailored.Skills[j], required)
	})

	keywords := result.Context.MustHaveKeywords
	if strings.TrimSpace(tailored.Summary) != "" && len(keywords) > 0 {
		joined := joinFirst(keywords, maxClauseKeywords)
		if !strings.Contains(strings.ToLower(tailored.Summary), strings.ToLower(joined)) {
			tailored.Summary = fmt.Sprintf("%s Experienced with %s.", tailored.Summary, joined)
		}
	}

	return tailored, nil
}

// namesRequired reports whether skill contains any of the lowercase required skills
func namesRequired(skill string, required []string) bool {
	lower := strings.ToLower(skill)
	for _, r := range required {
		if r != "" && strings.Contains(lower, r) {
			return true
		}
	}
	return false
}

// TailorResumeToJob extracts the posting, matches the profile against it and
// generates suggestions in one call. With autoApply the returned profile is
// the auto-tailored copy; otherwise it is an unchanged copy.
func TailorResumeToJob(profile *types.CandidateProfile, jobText, jobTitle string, autoApply bool) (*types.TailoringResult, error) {
	jobCtx := extraction.ExtractJobContext(jobText, jobTitle)
	analysis, err := matching.MatchProfileToJob(profile, jobCtx)
	if err != nil {
		return nil, err
	}
	return Tailor(profile, analysis, autoApply)
}

// Tailor builds a TailoringResult from an existing analysis
func Tailor(profile *types.CandidateProfile, analysis *types.JobAnalysisResult, autoApply bool) (*types.TailoringResult, error) {
	suggestions, err := GenerateTailoringSuggestions(profile, analysis)
	if err != nil {
		return nil, err
	}

	tailored := profile.Clone()
	if autoApply {
		tailored, err = ApplyAutoTailoring(profile, analysis)
		if err != nil {
			return nil, err
		}
	}

	return &types.TailoringResult{
		Analysis:        analysis,
		TailoredProfile: tailored,
		Suggestions:     suggestions,
		KeywordGaps:     append([]string{}, firstN(analysis.MissingSkills, maxKeywordGaps)...),
		StrengthAreas:   append([]string{}, firstN(analysis.StrongMatches, maxStrengthAreas)...),
	}, nil
}

// GenerateOptimizedSummary renders a templated summary:
// "<latest title> with expertise in <top skills>. <top keywords>. <summary>".
// Empty parts are left out.
func GenerateOptimizedSummary(profile *types.CandidateProfile, jobCtx *types.JobContext) (string, error) {
	if profile == nil {
		return "", &matching.InvalidArgumentError{Field: "profile", Message: "must not be nil"}
	}
	if jobCtx == nil {
		return "", &matching.InvalidArgumentError{Field: "context", Message: "must not be nil"}
	}

	title := defaultSummaryTitle
	if len(profile.Experience) > 0 && strings.TrimSpace(profile.Experience[0].Title) != "" {
		title = strings.TrimSpace(profile.Experience[0].Title)
	}

	parts := make([]string, 0, 3)
	if skills := joinFirst(profile.Skills, maxSummarySkills); skills != "" {
		parts = append(parts, fmt.Sprintf("%s with expertise in %s.", title, skills))
	} else {
		parts = append(parts, title+".")
	}
	if keywords := joinFirst(jobCtx.MustHaveKeywords, maxClauseKeywords); keywords != "" {
		parts = append(parts, keywords+".")
	}
	if summary := strings.TrimSpace(profile.Summary); summary != "" {
		parts = append(parts, summary)
	}
	return strings.Join(parts, " "), nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func lowerAll(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = strings.ToLower(s)
	}
	return out
}
