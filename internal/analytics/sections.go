package analytics

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/resume-fit/internal/matching"
	"github.com/jonathan/resume-fit/internal/types"
)

// Section names as reported in SectionAnalytics.Section
const (
	SectionSummary        = "Professional Summary"
	SectionSkills         = "Skills"
	SectionExperience     = "Work Experience"
	SectionEducation      = "Education"
	SectionProjects       = "Projects"
	SectionCertifications = "Certifications"
)

const (
	summaryMinWords = 30
	summaryMaxWords = 150

	skillsMinCount    = 8
	skillsMaxCount    = 25
	skillsTargetCount = 15
	skillsMatchFloor  = 0.5

	experienceMinDescription  = 50
	experienceFullDescription = 100
	experienceTargetCount     = 3

	projectsTargetCount = 3
	certsTargetCount    = 2
)

var (
	digitPattern  = regexp.MustCompile(`\d`)
	metricPattern = regexp.MustCompile(`(?i)\d+%|\d+\+|increased|reduced|improved`)
)

func newSection(name string, completeness, quality, ats float64, issues, recommendations []string) types.SectionAnalytics {
	return types.SectionAnalytics{
		Section:         name,
		Score:           int(math.Round((completeness + quality + ats) / 3)),
		Completeness:    completeness,
		Quality:         quality,
		ATSOptimization: ats,
		Issues:          issues,
		Recommendations: recommendations,
	}
}

// ratio returns min(100, n/target*100)
func ratio(n, target int) float64 {
	return math.Min(100, float64(n)/float64(target)*100)
}

func analyzeSummary(profile *types.CandidateProfile) types.SectionAnalytics {
	summary := strings.TrimSpace(profile.Summary)
	words := len(strings.Fields(summary))
	issues := make([]string, 0)
	recs := make([]string, 0)

	switch {
	case summary == "":
		issues = append(issues, "No professional summary")
		recs = append(recs, "Add a 2-3 sentence professional summary")
	case words < summaryMinWords:
		issues = append(issues, "Summary too short")
		recs = append(recs, "Expand summary to 50-100 words")
	case words > summaryMaxWords:
		issues = append(issues, "Summary too long")
		recs = append(recs, "Condense summary to 50-100 words")
	}

	hasNumbers := digitPattern.MatchString(summary)
	if !hasNumbers {
		issues = append(issues, "No quantifiable achievements")
		recs = append(recs, `Include metrics (e.g., "increased by 40%")`)
	}

	var completeness, quality, ats float64
	if summary != "" {
		completeness = 70
		if words >= summaryMinWords && words <= summaryMaxWords {
			completeness = 100
		}
		ats = 75
	}
	quality = 60
	if hasNumbers {
		quality = 80
	}

	return newSection(SectionSummary, completeness, quality, ats, issues, recs)
}

func analyzeSkills(profile *types.CandidateProfile, jobCtx *types.JobContext) types.SectionAnalytics {
	n := len(profile.Skills)
	issues := make([]string, 0)
	recs := make([]string, 0)

	switch {
	case n == 0:
		issues = append(issues, "No skills listed")
		recs = append(recs, "Add at least 10 relevant skills")
	case n < skillsMinCount:
		issues = append(issues, "Too few skills")
		recs = append(recs, fmt.Sprintf("Add %d more relevant skills", skillsMinCount-n))
	case n > skillsMaxCount:
		issues = append(issues, "Too many skills (quality over quantity)")
		recs = append(recs, "Focus on top 15-20 most relevant skills")
	}

	if jobCtx != nil && len(jobCtx.RequiredSkills) > 0 {
		matched := 0
		for _, req := range jobCtx.RequiredSkills {
			if matching.HasSkill(profile.Skills, req) {
				matched++
			}
		}
		rate := float64(matched) / float64(len(jobCtx.RequiredSkills))
		if rate < skillsMatchFloor {
			issues = append(issues, fmt.Sprintf("Only %d%% of required skills present", int(math.Round(rate*100))))
			recs = append(recs, "Add missing required skills from job posting")
		}
	}

	quality := 70.0
	if n >= skillsMinCount && n <= skillsMaxCount {
		quality = 90
	}
	ats := 80.0
	if jobCtx != nil {
		ats = 75
	}

	return newSection(SectionSkills, ratio(n, skillsTargetCount), quality, ats, issues, recs)
}

func analyzeExperience(profile *types.CandidateProfile) types.SectionAnalytics {
	entries := profile.Experience
	issues := make([]string, 0)
	recs := make([]string, 0)

	if len(entries) == 0 {
		issues = append(issues, "No work experience listed")
		recs = append(recs, "Add at least one work experience")
	}

	total := 0.0
	for i, exp := range entries {
		description := strings.TrimSpace(exp.Description)
		if len(description) < experienceMinDescription {
			issues = append(issues, fmt.Sprintf("Experience #%d has minimal description", i+1))
			recs = append(recs, fmt.Sprintf("Add detailed bullet points for %s", exp.Title))
		}
		if !metricPattern.MatchString(description) {
			issues = append(issues, fmt.Sprintf("Experience #%d lacks quantifiable achievements", i+1))
			recs = append(recs, fmt.Sprintf("Add metrics to %s accomplishments", exp.Title))
		}
		if len(description) >= experienceFullDescription {
			total++
		} else {
			total += 0.5
		}
	}

	var completeness, quality float64
	if len(entries) > 0 {
		completeness = ratio(len(entries), experienceTargetCount)
		quality = total / float64(len(entries)) * 100
	}

	return newSection(SectionExperience, completeness, quality, 80, issues, recs)
}

func analyzeEducation(profile *types.CandidateProfile) types.SectionAnalytics {
	issues := make([]string, 0)
	recs := make([]string, 0)

	if len(profile.Education) == 0 {
		issues = append(issues, "No education listed")
		recs = append(recs, "Add educational background")
	}

	hasDegree := false
	for _, edu := range profile.Education {
		degree := strings.ToLower(edu.Degree)
		if strings.Contains(degree, "bachelor") || strings.Contains(degree, "master") {
			hasDegree = true
			break
		}
	}
	if !hasDegree && len(profile.Education) > 0 {
		recs = append(recs, "Consider adding degree information if applicable")
	}

	completeness := 0.0
	if len(profile.Education) > 0 {
		completeness = 100
	}
	quality := 70.0
	if hasDegree {
		quality = 90
	}

	return newSection(SectionEducation, completeness, quality, 85, issues, recs)
}

func analyzeProjects(profile *types.CandidateProfile) types.SectionAnalytics {
	n := len(profile.Projects)
	recs := make([]string, 0)

	switch {
	case n == 0:
		recs = append(recs, "Add 2-3 portfolio projects to showcase skills")
	case n < 2:
		recs = append(recs, "Add 1-2 more projects")
	}

	quality := 0.0
	if n > 0 {
		quality = 85
	}

	return newSection(SectionProjects, ratio(n, projectsTargetCount), quality, 75, make([]string, 0), recs)
}

func analyzeCertifications(profile *types.CandidateProfile) types.SectionAnalytics {
	n := len(profile.Certifications)
	recs := make([]string, 0)

	if n == 0 {
		recs = append(recs, "Consider adding relevant certifications")
	}

	quality := 0.0
	if n > 0 {
		quality = 90
	}

	return newSection(SectionCertifications, ratio(n, certsTargetCount), quality, 80, make([]string, 0), recs)
}
