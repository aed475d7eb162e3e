package extraction

import (
	"regexp"
	"strings"
)

// SectionState is the posting section active while scanning line by line
type SectionState int

// Section states
const (
	StateNeutral SectionState = iota
	StateRequired
	StatePreferred
)

func (s SectionState) String() string {
	switch s {
	case StateRequired:
		return "required"
	case StatePreferred:
		return "preferred"
	default:
		return "neutral"
	}
}

var bareHeadingPattern = regexp.MustCompile(`^[a-z\s]+:$`)

// SectionScanner tracks which requirement section a posting line falls in.
// Transitions are evaluated on each lowercased line before the line's skills
// are classified, so a heading line classifies skills listed on it.
type SectionScanner struct {
	state SectionState
}

// State returns the current section
func (s *SectionScanner) State() SectionState {
	return s.state
}

// Advance applies the transition triggered by line and returns the new state.
//
//   - "required", "must have" or "minimum qualifications" enters required
//   - "preferred", "nice to have" or "bonus" enters preferred
//   - any other bare "Heading:" line resets to neutral
func (s *SectionScanner) Advance(line string) SectionState {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "required") || strings.Contains(lower, "must have") || strings.Contains(lower, "minimum qualifications"):
		s.state = StateRequired
	case strings.Contains(lower, "preferred") || strings.Contains(lower, "nice to have") || strings.Contains(lower, "bonus"):
		s.state = StatePreferred
	case bareHeadingPattern.MatchString(lower):
		s.state = StateNeutral
	}
	return s.state
}

// Classify returns the importance a skill mentioned on line receives under the
// current state. Outside an explicit section a skill is required only when the
// line itself carries an emphasis word; otherwise it is preferred.
func (s *SectionScanner) Classify(line string) SectionState {
	switch s.state {
	case StateRequired, StatePreferred:
		return s.state
	}
	lower := strings.ToLower(line)
	if strings.Contains(lower, "required") || strings.Contains(lower, "must") || strings.Contains(lower, "essential") {
		return StateRequired
	}
	return StatePreferred
}

// CategorizeSkills splits detected skills into required and preferred lists by
// scanning text line by line. A skill is attributed to a line when its
// lowercase name is a substring of the lowercase line. Both lists keep
// discovery order and never share a skill: a required hit removes the skill
// from preferred, and a preferred hit on a required skill is ignored.
func CategorizeSkills(text string, skills []string) (required, preferred []string) {
	required = make([]string, 0)
	preferred = make([]string, 0)
	if len(skills) == 0 {
		return required, preferred
	}

	inRequired := make(map[string]bool)
	inPreferred := make(map[string]bool)
	lowered := make([]string, len(skills))
	for i, skill := range skills {
		lowered[i] = strings.ToLower(skill)
	}

	scanner := &SectionScanner{}
	for _, line := range strings.Split(text, "\n") {
		scanner.Advance(line)
		lowerLine := strings.ToLower(line)
		for i, skill := range skills {
			if !strings.Contains(lowerLine, lowered[i]) {
				continue
			}
			switch scanner.Classify(line) {
			case StateRequired:
				if inRequired[skill] {
					continue
				}
				inRequired[skill] = true
				required = append(required, skill)
				if inPreferred[skill] {
					delete(inPreferred, skill)
					preferred = removeString(preferred, skill)
				}
			default:
				if inRequired[skill] || inPreferred[skill] {
					continue
				}
				inPreferred[skill] = true
				preferred = append(preferred, skill)
			}
		}
	}
	return required, preferred
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, item := range list {
		if item != s {
			out = append(out, item)
		}
	}
	return out
}
