package service

import (
	"regexp"
	"strings"
)

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:latex|tex|markdown|md)?\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// cleanSolutionText quita BOM y fences ```latex ... ``` que envuelven toda la respuesta.
func cleanSolutionText(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "\uFEFF")
	if !strings.HasPrefix(strings.TrimSpace(s), "```") {
		return strings.TrimSpace(s)
	}
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
