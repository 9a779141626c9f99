package woocommerce

import (
	"regexp"
	"strings"
)

var (
	slugStrip   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugHyphens = regexp.MustCompile(`[\s-]+`)
)

// Slugify lowercases a name and strips everything but letters, digits,
// spaces and hyphens; runs of spaces/hyphens collapse to a single hyphen.
// Punctuation inside words is removed, not hyphenated ("Tom's Tee" ->
// "toms-tee").
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
