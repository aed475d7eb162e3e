// Package analytics scores each résumé section and rolls the results into an
// overall score with strengths, weaknesses, opportunities and a roadmap.
//
// The competitor comparison, industry benchmark and career predictions are
// indicative estimates derived from fixed heuristics. They are not
// statistically grounded forecasts.
package analytics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonathan/resume-fit/internal/matching"
	"github.com/jonathan/resume-fit/internal/types"
)

// sectionWeights are integer percents summing to 100
var sectionWeights = map[string]int{
	SectionSummary:        15,
	SectionSkills:         25,
	SectionExperience:     35,
	SectionEducation:      15,
	SectionProjects:       7,
	SectionCertifications: 3,
}

const (
	defaultSectionWeight = 10

	strengthThreshold = 80
	weaknessThreshold = 60

	maxStrengths    = 5
	maxAreas        = 3
	maxRoadmapItems = 5

	comprehensiveSkillCount = 15
	minProjects             = 2

	percentileFactor  = 0.9
	maxPercentile     = 95
	comparedTo        = 1000
	benchmarkIndustry = "Technology"
	benchmarkAverage  = 68
	strongResumeScore = 75
	salaryFactor      = 0.3
)

// AnalyzeResumeSections scores profile section by section. jobCtx is optional;
// when present the skills section checks required-skill coverage and a
// tailoring opportunity is reported. The only error is an InvalidArgumentError
// for a nil profile.
func AnalyzeResumeSections(profile *types.CandidateProfile, jobCtx *types.JobContext) (*types.ResumeAnalytics, error) {
	return AnalyzeResumeSectionsAt(profile, jobCtx, time.Now())
}

// AnalyzeResumeSectionsAt is AnalyzeResumeSections with an explicit reference
// time for open-ended experience entries
func AnalyzeResumeSectionsAt(profile *types.CandidateProfile, jobCtx *types.JobContext, now time.Time) (*types.ResumeAnalytics, error) {
	if profile == nil {
		return nil, &matching.InvalidArgumentError{Field: "profile", Message: "must not be nil"}
	}

	sections := []types.SectionAnalytics{
		analyzeSummary(profile),
		analyzeSkills(profile, jobCtx),
		analyzeExperience(profile),
		analyzeEducation(profile),
		analyzeProjects(profile),
		analyzeCertifications(profile),
	}

	overall := OverallScore(sections)
	weaknesses := identifyWeaknesses(sections)
	opportunities := identifyOpportunities(profile, jobCtx)

	return &types.ResumeAnalytics{
		OverallScore:         overall,
		Sections:             sections,
		Strengths:            identifyStrengths(profile, sections),
		Weaknesses:           weaknesses,
		Opportunities:        opportunities,
		CompetitorComparison: compareToCompetitors(profile, sections, overall, now),
		IndustryBenchmark:    benchmark(overall),
		ImprovementRoadmap:   roadmap(weaknesses, opportunities),
		Predictions:          predictions(overall),
	}, nil
}

// OverallScore is the weighted rollup of section scores, clamped to [0,100].
// Sections with an unknown name weigh 10%.
func OverallScore(sections []types.SectionAnalytics) int {
	total := 0
	for _, s := range sections {
		w, ok := sectionWeights[s.Section]
		if !ok {
			w = defaultSectionWeight
		}
		total += s.Score * w
	}
	score := int(math.Round(float64(total) / 100))
	return max(0, min(100, score))
}

func identifyStrengths(profile *types.CandidateProfile, sections []types.SectionAnalytics) []types.AnalyticsInsight {
	strengths := make([]types.AnalyticsInsight, 0)
	for _, s := range sections {
		if s.Score < strengthThreshold {
			continue
		}
		strengths = append(strengths, types.AnalyticsInsight{
			Title:       "Strong " + s.Section,
			Description: fmt.Sprintf("Your %s is well-optimized with a score of %d/100", strings.ToLower(s.Section), s.Score),
			Impact:      types.LevelHigh,
		})
	}

	if n := len(profile.Skills); n >= comprehensiveSkillCount {
		strengths = append(strengths, types.AnalyticsInsight{
			Title:       "Comprehensive Skill Set",
			Description: fmt.Sprintf("You have %d skills listed, showing breadth of expertise", n),
			Impact:      types.LevelMedium,
		})
	}

	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	return strengths
}

// identifyWeaknesses emits one insight per section scoring below 60 with at
// least one recorded issue
func identifyWeaknesses(sections []types.SectionAnalytics) []types.AnalyticsInsight {
	weaknesses := make([]types.AnalyticsInsight, 0)
	for _, s := range sections {
		if s.Score >= weaknessThreshold || len(s.Issues) == 0 {
			continue
		}
		insight := types.AnalyticsInsight{
			Title:                "Improve " + s.Section,
			Description:          s.Issues[0],
			Impact:               types.LevelHigh,
			Actionable:           true,
			EstimatedImprovement: 15,
		}
		if len(s.Recommendations) > 0 {
			insight.QuickFix = s.Recommendations[0]
		}
		weaknesses = append(weaknesses, insight)
	}
	return weaknesses
}

func identifyOpportunities(profile *types.CandidateProfile, jobCtx *types.JobContext) []types.AnalyticsInsight {
	opportunities := make([]types.AnalyticsInsight, 0, 2)

	if jobCtx != nil {
		opportunities = append(opportunities, types.AnalyticsInsight{
			Title:                "Tailor Resume to Job",
			Description:          "Auto-tailoring can optimize your resume for this specific job posting",
			Impact:               types.LevelHigh,
			Actionable:           true,
			QuickFix:             "Apply the tailoring suggestions for this job",
			EstimatedImprovement: 20,
		})
	}

	if len(profile.Projects) < minProjects {
		opportunities = append(opportunities, types.AnalyticsInsight{
			Title:                "Add Portfolio Projects",
			Description:          "Showcase your skills with 2-3 portfolio projects",
			Impact:               types.LevelMedium,
			Actionable:           true,
			QuickFix:             "Add projects from your GitHub or past work",
			EstimatedImprovement: 10,
		})
	}

	return opportunities
}

func compareToCompetitors(profile *types.CandidateProfile, sections []types.SectionAnalytics, overall int, now time.Time) types.CompetitorAnalysis {
	stronger := make([]string, 0, maxAreas)
	weaker := make([]string, 0, maxAreas)
	for _, s := range sections {
		if s.Score >= strengthThreshold && len(stronger) < maxAreas {
			stronger = append(stronger, s.Section)
		}
		if s.Score < weaknessThreshold && len(weaker) < maxAreas {
			weaker = append(weaker, s.Section)
		}
	}

	years := int(math.Round(matching.YearsOfExperience(profile, now)))

	return types.CompetitorAnalysis{
		Percentile:    min(maxPercentile, int(math.Round(float64(overall)*percentileFactor))),
		ComparedTo:    comparedTo,
		StrongerAreas: stronger,
		WeakerAreas:   weaker,
		CompetitiveEdge: []string{
			fmt.Sprintf("%d technical skills", len(profile.Skills)),
			fmt.Sprintf("%d work experiences", len(profile.Experience)),
			fmt.Sprintf("%d years experience", years),
		},
	}
}

func benchmark(overall int) types.IndustryBenchmark {
	return types.IndustryBenchmark{
		Industry:     benchmarkIndustry,
		AverageScore: benchmarkAverage,
		YourScore:    overall,
		TopPerformers: types.TopPerformers{
			SkillsCount:         18,
			ExperienceYears:     5,
			CertificationsCount: 2,
		},
		IndustryTrends: []string{
			"AI/ML skills in high demand",
			"Cloud certifications valuable",
			"Remote work experience preferred",
		},
	}
}

// roadmap turns actionable weaknesses, then actionable opportunities, into at
// most five numbered steps
func roadmap(weaknesses, opportunities []types.AnalyticsInsight) []types.ImprovementItem {
	items := make([]types.ImprovementItem, 0, maxRoadmapItems)
	for _, group := range [][]types.AnalyticsInsight{weaknesses, opportunities} {
		for _, insight := range group {
			if !insight.Actionable {
				continue
			}
			if len(items) == maxRoadmapItems {
				return items
			}

			effort, duration := types.LevelLow, "30 minutes"
			if insight.Impact == types.LevelHigh {
				effort, duration = types.LevelMedium, "1-2 hours"
			}
			first := insight.QuickFix
			if first == "" {
				first = "Review and update section"
			}

			items = append(items, types.ImprovementItem{
				Priority:       len(items) + 1,
				Title:          insight.Title,
				CurrentState:   "Needs improvement",
				TargetState:    "Optimized",
				Effort:         effort,
				Impact:         insight.Impact,
				TimeToComplete: duration,
				Steps:          []string{first, "Test ATS compatibility", "Get feedback"},
			})
		}
	}
	return items
}

func predictions(overall int) []types.CareerPrediction {
	interview := "8-12% response rate"
	if overall >= strongResumeScore {
		interview = "15-20% response rate"
	}

	return []types.CareerPrediction{
		{
			Metric:     "Interview Rate",
			Prediction: interview,
			Confidence: 0.75,
			Factors:    []string{"Resume quality", "Skills match", "Experience level"},
			Timeline:   "Next 3 months",
		},
		{
			Metric:     "Salary Growth",
			Prediction: fmt.Sprintf("%d%% increase potential", int(math.Round(float64(overall)*salaryFactor))),
			Confidence: 0.65,
			Factors:    []string{"Market demand", "Skills alignment", "Experience"},
			Timeline:   "Next role",
		},
	}
}
