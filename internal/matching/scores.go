package matching

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/jonathan/resume-fit/internal/types"
)

const (
	neutralSkillScore      = 0.5
	neutralExperienceScore = 0.5
	neutralEducationScore  = 0.5
	neutralKeywordScore    = 0.7

	hoursPerYear = 24 * 365
)

var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// ParseDate parses YYYY-MM-DD, YYYY-MM or YYYY
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// YearsOfExperience sums the spans of all experience entries in 365-day
// years. Current entries and entries without an end date run until now.
// Entries with an unparseable start date or negative span contribute nothing.
func YearsOfExperience(profile *types.CandidateProfile, now time.Time) float64 {
	if profile == nil {
		return 0
	}
	total := 0.0
	for _, exp := range profile.Experience {
		start, ok := ParseDate(exp.StartDate)
		if !ok {
			continue
		}
		end := now
		if !exp.IsCurrent {
			if parsed, ok := ParseDate(exp.EndDate); ok {
				end = parsed
			}
		}
		span := end.Sub(start).Hours() / hoursPerYear
		if span > 0 {
			total += span
		}
	}
	return total
}

// experienceScore compares total years against the job's range.
//
//	within [min,max]  1.0
//	under min         max(0.3, years/min)
//	over max          max(0.7, 1-((years-max)/max)*0.3)
//
// Without experience entries and without a stated range the score is neutral.
func experienceScore(profile *types.CandidateProfile, req types.YearsRange, now time.Time) float64 {
	if len(profile.Experience) == 0 && !req.HasExplicitRange() {
		return neutralExperienceScore
	}

	years := YearsOfExperience(profile, now)
	minYears := float64(req.Min)

	if req.Max != nil && *req.Max > 0 {
		maxYears := float64(*req.Max)
		switch {
		case years >= minYears && years <= maxYears:
			return 1.0
		case years < minYears:
			return math.Max(0.3, years/minYears)
		default:
			return math.Max(0.7, 1-((years-maxYears)/maxYears)*0.3)
		}
	}

	if years >= minYears {
		return 1.0
	}
	return math.Max(0.3, years/minYears)
}

// educationScore grades the highest degree mentioned: PhD or doctorate 1.0,
// master 0.9, bachelor 0.8, anything else 0.6, no entries 0.5
func educationScore(profile *types.CandidateProfile) float64 {
	if len(profile.Education) == 0 {
		return neutralEducationScore
	}

	var hasBachelor, hasMaster, hasPhD bool
	for _, edu := range profile.Education {
		degree := strings.ToLower(edu.Degree)
		hasBachelor = hasBachelor || strings.Contains(degree, "bachelor")
		hasMaster = hasMaster || strings.Contains(degree, "master")
		hasPhD = hasPhD || strings.Contains(degree, "phd") || strings.Contains(degree, "doctorate")
	}

	switch {
	case hasPhD:
		return 1.0
	case hasMaster:
		return 0.9
	case hasBachelor:
		return 0.8
	default:
		return 0.6
	}
}

// keywordScore is the fraction of must-have keywords that occur anywhere in
// the lowercased JSON form of the profile
func keywordScore(profile *types.CandidateProfile, keywords []string) float64 {
	if len(keywords) == 0 {
		return neutralKeywordScore
	}

	text := strings.ToLower(serializeProfile(profile))
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

func serializeProfile(profile *types.CandidateProfile) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(profile); err != nil {
		return ""
	}
	return buf.String()
}

// Weights are the four overall-score weights
type Weights struct {
	Skill      float64
	Experience float64
	Education  float64
	Keyword    float64
}

// EffectiveWeights returns the context's weights, or equal quarter weights
// when any is negative or not finite, when all of them are zero, or when
// their sum overflows. Weights that merely drift from a sum of 1.0 are used
// as they are.
func EffectiveWeights(jobCtx *types.JobContext) Weights {
	w := Weights{
		Skill:      jobCtx.SkillMatchWeight,
		Experience: jobCtx.ExperienceWeight,
		Education:  jobCtx.EducationWeight,
		Keyword:    jobCtx.KeywordWeight,
	}

	sum := 0.0
	for _, v := range []float64{w.Skill, w.Experience, w.Education, w.Keyword} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return equalWeights()
		}
		sum += v
	}
	if sum == 0 || math.IsInf(sum, 0) {
		return equalWeights()
	}
	return w
}

func equalWeights() Weights {
	return Weights{Skill: 0.25, Experience: 0.25, Education: 0.25, Keyword: 0.25}
}

// clampScore rounds a weighted sum to an integer percentage in [0,100]. NaN
// scores 0; values past either end clamp before conversion.
func clampScore(total float64) int {
	pct := math.Round(total * 100)
	switch {
	case math.IsNaN(pct) || pct <= 0:
		return 0
	case pct >= 100:
		return 100
	}
	return int(pct)
}
