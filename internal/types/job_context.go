// Package types provides type definitions for structured data used throughout the resume-fit system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExperienceLevel is the seniority band a job posting asks for
type ExperienceLevel string

// Experience bands in ascending seniority
const (
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelLead      ExperienceLevel = "lead"
	LevelExecutive ExperienceLevel = "executive"
)

// Valid reports whether l is one of the known experience bands
func (l ExperienceLevel) Valid() bool {
	switch l {
	case LevelEntry, LevelMid, LevelSenior, LevelLead, LevelExecutive:
		return true
	}
	return false
}

// CompanySize is the coarse size class inferred from a posting
type CompanySize string

// Company size classes
const (
	CompanyStartup    CompanySize = "startup"
	CompanyScaleup    CompanySize = "scaleup"
	CompanyEnterprise CompanySize = "enterprise"
	CompanyUnknown    CompanySize = "unknown"
)

// WorkStyle is the work arrangement inferred from a posting
type WorkStyle string

// Work style classes
const (
	WorkRemote   WorkStyle = "remote"
	WorkHybrid   WorkStyle = "hybrid"
	WorkOnsite   WorkStyle = "onsite"
	WorkFlexible WorkStyle = "flexible"
	WorkUnknown  WorkStyle = "unknown"
)

// YearsRange is the experience-years requirement. Max is nil when open-ended.
type YearsRange struct {
	Min int  `json:"min"`
	Max *int `json:"max"`
}

// HasExplicitRange reports whether the posting stated any years requirement
func (r YearsRange) HasExplicitRange() bool {
	return r.Min > 0 || r.Max != nil
}

// JobContext represents a structured job posting extracted from raw text.
// It is derived data and is never mutated after extraction.
type JobContext struct {
	// Skills
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`

	// Experience
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	YearsRequired   YearsRange      `json:"years_required"`

	// Company
	CompanySize    CompanySize `json:"company_size"`
	CompanyCulture []string    `json:"company_culture"`
	WorkStyle      WorkStyle   `json:"work_style"`

	// Keywords and phrases
	MustHaveKeywords []string `json:"must_have_keywords"`
	ImportantPhrases []string `json:"important_phrases"`
	IndustryTerms    []string `json:"industry_terms"`

	// Job details
	JobTitle         string   `json:"job_title"`
	Department       string   `json:"department"`
	Responsibilities []string `json:"responsibilities"`
	Qualifications   []string `json:"qualifications"`

	// Scoring weights
	SkillMatchWeight float64 `json:"skill_match_weight"`
	ExperienceWeight float64 `json:"experience_weight"`
	EducationWeight  float64 `json:"education_weight"`
	KeywordWeight    float64 `json:"keyword_weight"`
}

// IsTechnical reports whether skill was found in the technical vocabulary
func (c *JobContext) IsTechnical(skill string) bool {
	return containsExact(c.TechnicalSkills, skill)
}

// IsSoft reports whether skill was found in the soft-skill vocabulary
func (c *JobContext) IsSoft(skill string) bool {
	return containsExact(c.SoftSkills, skill)
}

// IsRequired reports whether skill is one of the required skills
func (c *JobContext) IsRequired(skill string) bool {
	return containsExact(c.RequiredSkills, skill)
}

func containsExact(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
