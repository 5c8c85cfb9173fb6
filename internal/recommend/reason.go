package recommend

import (
	"fmt"
	"strings"
)

const (
	maxReasonTerms = 3
	fallbackReason = "Strong fit for the portfolio audience."
)

// Reason explains why a project was picked for the given tokens. It never returns
// an empty string.
func Reason(p Project, tokens []string) string {
	var matches []string
	for _, t := range tokens {
		if matchesProject(t, p) {
			matches = append(matches, t)
		}
	}

	var parts []string
	if len(matches) > 0 {
		parts = append(parts, fmt.Sprintf("Matches: %s", strings.Join(firstN(matches, maxReasonTerms), ", ")))
	}
	if p.HasLiveDemo() {
		parts = append(parts, "Includes a live demo")
	}
	if len(matches) == 0 && len(p.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("Tech: %s", strings.Join(firstN(p.lowerTags(), maxReasonTerms), ", ")))
	}
	if len(parts) == 0 {
		parts = append(parts, fallbackReason)
	}

	return strings.Join(parts, ". ")
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
