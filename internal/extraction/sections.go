package extraction

import (
	"regexp"
	"strings"
)

var bulletPrefix = regexp.MustCompile(`^(?:[•\-*]|\d+\.)\s*`)

// bulletSection collects bullet lines between an opening heading and a
// closing heading
type bulletSection struct {
	openers []string
	closer  *regexp.Regexp
}

var responsibilitiesSection = bulletSection{
	openers: []string{"responsibilities", "what you'll do", "your role"},
	closer:  regexp.MustCompile(`^(requirements|qualifications|what we|about you):`),
}

var qualificationsSection = bulletSection{
	openers: []string{"qualifications", "requirements", "what we're looking for"},
	closer:  regexp.MustCompile(`^(responsibilities|benefits|about us|what you'll do):`),
}

// collect returns the bullet items inside the section with the bullet marker
// stripped. Items of 10 characters or fewer are dropped; at most 10 are kept.
func (s bulletSection) collect(text string) []string {
	items := make([]string, 0)
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if s.opens(lower) {
			inSection = true
			continue
		}
		if s.closer.MatchString(lower) {
			inSection = false
			continue
		}
		if !inSection || !isBullet(trimmed) {
			continue
		}

		item := strings.TrimSpace(bulletPrefix.ReplaceAllString(trimmed, ""))
		if len(item) > 10 {
			items = append(items, item)
			if len(items) == maxSectionItems {
				break
			}
		}
	}
	return items
}

func (s bulletSection) opens(lower string) bool {
	for _, opener := range s.openers {
		if strings.Contains(lower, opener) {
			return true
		}
	}
	return false
}

func isBullet(line string) bool {
	if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
		return true
	}
	return numberedBullet.MatchString(line)
}

var numberedBullet = regexp.MustCompile(`^\d+\.`)
