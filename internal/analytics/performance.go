package analytics

import (
	"math"
	"strings"
	"time"

	"github.com/jonathan/resume-fit/internal/matching"
	"github.com/jonathan/resume-fit/internal/types"
)

// Application statuses counted by TrackApplicationPerformance
const (
	StatusInterview = "interview"
	StatusOffer     = "offer"
)

const (
	viewsFactor                = 0.3
	defaultDaysToResponse      = 7
	lowResponseRatePercent     = 10
	lowInterviewRatePercent    = 5
	lowResponseRecommendation  = "Your response rate is low. Consider improving resume quality."
	lowInterviewRecommendation = "Low interview rate. Tailor resumes more specifically to each job."
)

// TrackApplicationPerformance summarises application outcomes. Rates are
// rounded percentages of all applications. AvgTimeToResponse is the mean whole
// days between applying and a response over applications where both dates
// parse, and 7 when none do.
func TrackApplicationPerformance(apps []types.Application) types.PerformanceMetrics {
	total := len(apps)
	responded, interviews, offers := 0, 0, 0
	var responseDays []float64

	for _, app := range apps {
		if strings.TrimSpace(app.RespondedAt) != "" {
			responded++
			if days, ok := daysBetween(app.AppliedAt, app.RespondedAt); ok {
				responseDays = append(responseDays, days)
			}
		}
		switch strings.ToLower(strings.TrimSpace(app.Status)) {
		case StatusInterview:
			interviews++
		case StatusOffer:
			offers++
		}
	}

	percent := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total) * 100
	}
	responseRate := percent(responded)
	interviewRate := percent(interviews)

	recs := make([]string, 0, 2)
	if responseRate < lowResponseRatePercent {
		recs = append(recs, lowResponseRecommendation)
	}
	if interviewRate < lowInterviewRatePercent {
		recs = append(recs, lowInterviewRecommendation)
	}

	avgDays := defaultDaysToResponse
	if len(responseDays) > 0 {
		sum := 0.0
		for _, d := range responseDays {
			sum += d
		}
		avgDays = int(math.Round(sum / float64(len(responseDays))))
	}

	return types.PerformanceMetrics{
		ViewsPerJob:       int(math.Round(float64(total) * viewsFactor)),
		ResponseRate:      int(math.Round(responseRate)),
		InterviewRate:     int(math.Round(interviewRate)),
		OfferRate:         int(math.Round(percent(offers))),
		AvgTimeToResponse: avgDays,
		Recommendations:   recs,
	}
}

func daysBetween(from, to string) (float64, bool) {
	start, ok := parseTimestamp(from)
	if !ok {
		return 0, false
	}
	end, ok := parseTimestamp(to)
	if !ok || end.Before(start) {
		return 0, false
	}
	return end.Sub(start).Hours() / 24, true
}

// parseTimestamp accepts RFC 3339 timestamps and the profile date layouts
func parseTimestamp(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
		return t, true
	}
	return matching.ParseDate(s)
}
