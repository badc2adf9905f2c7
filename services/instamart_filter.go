package services

import (
	"fmt"
	"regexp"
	"strings"
)

// Keywords that mark a Swiggy email as Instamart/grocery rather than a
// restaurant order. Any match drops the email entirely.
var instamartKeywords = []string{
	`instamart`,
	`insta\s*mart`,
	`grocery`,
	`groceries`,
	`essentials\s*delivery`,
	`daily\s*essentials`,
	`household\s*items`,
	`supermarket`,
}

type InstamartFilter struct {
	exclusionPattern *regexp.Regexp
}

func NewInstamartFilter() *InstamartFilter {
	return &InstamartFilter{
		exclusionPattern: regexp.MustCompile(`(?i)` + strings.Join(instamartKeywords, "|")),
	}
}

func (f *InstamartFilter) ShouldExclude(subject, body string) bool {
	return f.exclusionPattern.MatchString(subject) || f.exclusionPattern.MatchString(body)
}

// ExclusionReason reports which keyword matched, for sync logs.
func (f *InstamartFilter) ExclusionReason(subject, body string) string {
	if m := f.exclusionPattern.FindString(subject); m != "" {
		return fmt.Sprintf("subject contains: %s", m)
	}
	if m := f.exclusionPattern.FindString(body); m != "" {
		return fmt.Sprintf("body contains: %s", m)
	}
	return ""
}
