// Package types provides type definitions for structured data used throughout the resume-fit system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// CandidateProfile represents a candidate's structured résumé.
// Matching and scoring treat it as read-only; tailoring works on a Clone.
type CandidateProfile struct {
	ID             string          `json:"id,omitempty"`
	Personal       Personal        `json:"personal"`
	Summary        string          `json:"summary,omitempty"`
	Skills         []string        `json:"skills" validate:"dive,required"`
	Experience     []Experience    `json:"experience" validate:"dive"`
	Education      []Education     `json:"education" validate:"dive"`
	Projects       []Project       `json:"projects,omitempty" validate:"omitempty,dive"`
	Certifications []Certification `json:"certifications,omitempty" validate:"omitempty,dive"`
}

// Personal holds identity and contact fields
type Personal struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Experience is a single work history entry. Dates are YYYY-MM or YYYY-MM-DD.
type Experience struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date,omitempty"`
	IsCurrent   bool     `json:"is_current,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

// Education is a single education entry
type Education struct {
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	School       string `json:"school"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}

// Project is a portfolio project
type Project struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	URL         string   `json:"url,omitempty" validate:"omitempty,url"`
}

// Certification is a license or certificate
type Certification struct {
	Name         string `json:"name" validate:"required"`
	Organization string `json:"organization,omitempty"`
	IssueDate    string `json:"issue_date,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`
}

// Validate checks field formats at the input boundary. Missing lists are
// allowed; blank skill names and unnamed projects or certifications are not.
func (p *CandidateProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// Clone returns a deep copy of the profile
func (p *CandidateProfile) Clone() *CandidateProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Skills = cloneStrings(p.Skills)

	if p.Experience != nil {
		out.Experience = make([]Experience, len(p.Experience))
		for i, exp := range p.Experience {
			exp.Skills = cloneStrings(exp.Skills)
			out.Experience[i] = exp
		}
	}
	if p.Education != nil {
		out.Education = append([]Education(nil), p.Education...)
	}
	if p.Projects != nil {
		out.Projects = make([]Project, len(p.Projects))
		for i, proj := range p.Projects {
			proj.Skills = cloneStrings(proj.Skills)
			out.Projects[i] = proj
		}
	}
	if p.Certifications != nil {
		out.Certifications = append([]Certification(nil), p.Certifications...)
	}
	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
