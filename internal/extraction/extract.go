// Package extraction turns raw job-posting text into a structured JobContext
// using fixed vocabularies and line-oriented heuristics. It performs no I/O.
package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-fit/internal/types"
)

const (
	maxMustHaveKeywords = 15
	maxImportantPhrases = 10
	maxSectionItems     = 10

	defaultJobTitle   = "Position"
	defaultDepartment = "General"

	keywordWeight = 0.2
)

var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+\s*years?`),
	regexp.MustCompile(`(?i)(\d+)\s*-\s*(\d+)\s*years?`),
	regexp.MustCompile(`(?i)minimum\s*(\d+)\s*years?`),
	regexp.MustCompile(`(?i)at least\s*(\d+)\s*years?`),
}

var (
	capsTokenPattern   = regexp.MustCompile(`\b[A-Z]{2,}\b`)
	mustClausePattern  = regexp.MustCompile(`(?i)(?:must|required|essential|mandatory)[\s:]+([a-z\s,]+?)(?:\.|;|$)`)
	mustClauseSplitter = regexp.MustCompile(`(?i),|\band\b`)
	skillsHeading      = regexp.MustCompile(`skills?:`)
)

var phrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)experience (?:with|in) ([^,.;]+)`),
	regexp.MustCompile(`(?i)strong (?:knowledge|understanding) of ([^,.;]+)`),
	regexp.MustCompile(`(?i)proven track record (?:in|of) ([^,.;]+)`),
	regexp.MustCompile(`(?i)ability to ([^,.;]+)`),
}

// ExtractJobContext builds a JobContext from raw posting text. It never fails:
// empty or degenerate text yields empty lists, a mid-level band, unknown
// company size and work style, and the baseline weights. A non-empty jobTitle
// overrides title inference.
func ExtractJobContext(jobText, jobTitle string) *types.JobContext {
	lowerText := strings.ToLower(jobText)

	technical := technicalMatcher.Find(jobText)
	soft := softMatcher.Find(jobText)

	all := make([]string, 0, len(technical)+len(soft))
	all = append(all, technical...)
	all = append(all, soft...)
	required, preferred := CategorizeSkills(jobText, all)

	title := strings.TrimSpace(jobTitle)
	if title == "" {
		title = InferJobTitle(jobText)
	}

	return &types.JobContext{
		RequiredSkills:   required,
		PreferredSkills:  preferred,
		TechnicalSkills:  technical,
		SoftSkills:       soft,
		ExperienceLevel:  firstBand(lowerText, experienceBands, types.LevelMid),
		YearsRequired:    ExtractYearsRange(lowerText),
		CompanySize:      firstBand(lowerText, companySizeBands, types.CompanyUnknown),
		CompanyCulture:   cultureMatcher.Find(jobText),
		WorkStyle:        firstBand(lowerText, workStyleBands, types.WorkUnknown),
		MustHaveKeywords: ExtractMustHaveKeywords(jobText),
		ImportantPhrases: ExtractImportantPhrases(jobText),
		IndustryTerms:    industryMatcher.Find(jobText),
		JobTitle:         title,
		Department:       InferDepartment(lowerText),
		Responsibilities: responsibilitiesSection.collect(jobText),
		Qualifications:   qualificationsSection.collect(jobText),
		SkillMatchWeight: skillWeight(lowerText),
		ExperienceWeight: experienceWeight(lowerText),
		EducationWeight:  educationWeight(lowerText),
		KeywordWeight:    keywordWeight,
	}
}

// ExtractYearsRange returns the first years-of-experience requirement found.
// Patterns are tried in order: "N+ years", "N-M years", "minimum N years",
// "at least N years". Without a match the range is {0, nil}.
func ExtractYearsRange(text string) types.YearsRange {
	for _, re := range yearsPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		minYears, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if len(m) > 2 && m[2] != "" {
			maxYears, err := strconv.Atoi(m[2])
			if err == nil {
				return types.YearsRange{Min: minYears, Max: &maxYears}
			}
		}
		return types.YearsRange{Min: minYears}
	}
	return types.YearsRange{}
}

// ExtractMustHaveKeywords collects ALL-CAPS tokens and the items of
// "must/required/essential/mandatory: X, Y and Z" clauses, deduplicated in
// discovery order and capped at 15.
func ExtractMustHaveKeywords(text string) []string {
	keywords := make([]string, 0)
	seen := make(map[string]bool)
	add := func(kw string) {
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	for _, token := range capsTokenPattern.FindAllString(text, -1) {
		if len(token) >= 2 && len(token) <= 20 {
			add(token)
		}
	}

	for _, m := range mustClausePattern.FindAllStringSubmatch(text, -1) {
		for _, item := range mustClauseSplitter.Split(m[1], -1) {
			add(strings.TrimSpace(item))
		}
	}

	if len(keywords) > maxMustHaveKeywords {
		keywords = keywords[:maxMustHaveKeywords]
	}
	return keywords
}

// ExtractImportantPhrases returns the captured objects of a few emphasis
// patterns ("experience with X", "strong knowledge of X", "proven track
// record of X", "ability to X") whose length is strictly between 5 and 100.
// Patterns are applied in that order; the result is capped at 10.
func ExtractImportantPhrases(text string) []string {
	phrases := make([]string, 0)
	for _, re := range phrasePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			phrase := strings.TrimSpace(m[1])
			if len(phrase) > 5 && len(phrase) < 100 {
				phrases = append(phrases, phrase)
			}
		}
	}
	if len(phrases) > maxImportantPhrases {
		phrases = phrases[:maxImportantPhrases]
	}
	return phrases
}

// InferJobTitle picks the first of the first five lines whose trimmed length is
// between 6 and 99 characters and that does not mention "about" or "company".
func InferJobTitle(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if len(trimmed) > 5 && len(trimmed) < 100 && !strings.Contains(lower, "about") && !strings.Contains(lower, "company") {
			return trimmed
		}
	}
	return defaultJobTitle
}

// InferDepartment returns the first known department mentioned in lowerText
func InferDepartment(lowerText string) string {
	for _, dept := range departments {
		if strings.Contains(lowerText, strings.ToLower(dept)) {
			return dept
		}
	}
	return defaultDepartment
}

func skillWeight(lowerText string) float64 {
	if strings.Contains(lowerText, "technical skills") || strings.Contains(lowerText, "must have") || skillsHeading.MatchString(lowerText) {
		return 0.4
	}
	return 0.3
}

func experienceWeight(lowerText string) float64 {
	if strings.Contains(lowerText, "years of experience") || strings.Contains(lowerText, "proven track record") {
		return 0.35
	}
	return 0.25
}

func educationWeight(lowerText string) float64 {
	if strings.Contains(lowerText, "degree required") || strings.Contains(lowerText, "bachelor") || strings.Contains(lowerText, "master") {
		return 0.25
	}
	return 0.15
}
