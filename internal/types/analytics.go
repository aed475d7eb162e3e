// Package types provides type definitions for structured data used throughout the resume-fit system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Level is a coarse low/medium/high rating used for impact and effort
type Level string

// Levels
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// SectionAnalytics holds the score triple and findings for one résumé section
type SectionAnalytics struct {
	Section         string   `json:"section"`
	Score           int      `json:"score"`
	Completeness    float64  `json:"completeness"`
	Quality         float64  `json:"quality"`
	ATSOptimization float64  `json:"ats_optimization"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// AnalyticsInsight is a strength, weakness or opportunity
type AnalyticsInsight struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	Impact               Level  `json:"impact"`
	Actionable           bool   `json:"actionable"`
	QuickFix             string `json:"quick_fix,omitempty"`
	EstimatedImprovement int    `json:"estimated_improvement"`
}

// CompetitorAnalysis places the résumé against a notional applicant pool
type CompetitorAnalysis struct {
	Percentile      int      `json:"percentile"`
	ComparedTo      int      `json:"compared_to"`
	StrongerAreas   []string `json:"stronger_areas"`
	WeakerAreas     []string `json:"weaker_areas"`
	CompetitiveEdge []string `json:"competitive_edge"`
}

// TopPerformers describes the benchmark profile of strong applicants
type TopPerformers struct {
	SkillsCount         int `json:"skills_count"`
	ExperienceYears     int `json:"experience_years"`
	CertificationsCount int `json:"certifications_count"`
}

// IndustryBenchmark is an indicative estimate, not a statistical result
type IndustryBenchmark struct {
	Industry       string        `json:"industry"`
	AverageScore   int           `json:"average_score"`
	YourScore      int           `json:"your_score"`
	TopPerformers  TopPerformers `json:"top_performers"`
	IndustryTrends []string      `json:"industry_trends"`
}

// ImprovementItem is one step of the improvement roadmap
type ImprovementItem struct {
	Priority       int      `json:"priority"`
	Title          string   `json:"title"`
	CurrentState   string   `json:"current_state"`
	TargetState    string   `json:"target_state"`
	Effort         Level    `json:"effort"`
	Impact         Level    `json:"impact"`
	TimeToComplete string   `json:"time_to_complete"`
	Steps          []string `json:"steps"`
}

// CareerPrediction is an indicative estimate; Confidence is in [0,1]
type CareerPrediction struct {
	Metric     string   `json:"metric"`
	Prediction string   `json:"prediction"`
	Confidence float64  `json:"confidence"`
	Factors    []string `json:"factors"`
	Timeline   string   `json:"timeline"`
}

// ResumeAnalytics is the résumé-level rollup of all section analytics
type ResumeAnalytics struct {
	OverallScore         int                `json:"overall_score"`
	Sections             []SectionAnalytics `json:"sections"`
	Strengths            []AnalyticsInsight `json:"strengths"`
	Weaknesses           []AnalyticsInsight `json:"weaknesses"`
	Opportunities        []AnalyticsInsight `json:"opportunities"`
	CompetitorComparison CompetitorAnalysis `json:"competitor_comparison"`
	IndustryBenchmark    IndustryBenchmark  `json:"industry_benchmark"`
	ImprovementRoadmap   []ImprovementItem  `json:"improvement_roadmap"`
	Predictions          []CareerPrediction `json:"predictions"`
}

// Application is a tracked job application
type Application struct {
	Status      string `json:"status"`
	AppliedAt   string `json:"applied_at"`
	RespondedAt string `json:"responded_at,omitempty"`
}

// PerformanceMetrics summarises tracked application outcomes (percentages are 0-100)
type PerformanceMetrics struct {
	ViewsPerJob       int      `json:"views_per_job"`
	ResponseRate      int      `json:"response_rate"`
	InterviewRate     int      `json:"interview_rate"`
	OfferRate         int      `json:"offer_rate"`
	AvgTimeToResponse int      `json:"avg_time_to_response"`
	Recommendations   []string `json:"recommendations"`
}
