package recommend

import (
	"slices"
	"strings"
)

// Score weights
const (
	liveDemoBonus    = 0.75
	titleWeight      = 4.0
	descWeight       = 2.0
	stackWeight      = 3.0
	categoryBonus    = 2.0
	deployedBonus    = 3.0
	deployedCategory = "deployed"
)

// category pairs a category name with the query words that hint at it.
type category struct {
	name  string
	hints []string
}

// categoryHints is ordered so scoring is deterministic.
var categoryHints = []category{
	{name: "ai", hints: []string{"openai", "ai", "ml", "gpt", "nlp"}},
	{name: "mobile", hints: []string{"mobile", "expo", "react native", "android", "ios"}},
	{name: "backend", hints: []string{"backend", "api", "server", "prisma", "firebase"}},
	{name: "frontend", hints: []string{"frontend", "ui", "react", "next", "tailwind"}},
	{name: "data", hints: []string{"data", "analytics", "cnn"}},
	{name: "java", hints: []string{"java"}},
	{name: deployedCategory, hints: []string{"live", "demo", "deployed", "production"}},
}

// Score rates how well a project matches the filtered query tokens. Higher is more
// relevant; the result is never negative.
func Score(tokens []string, p Project) float64 {
	title := strings.ToLower(p.Title)
	description := strings.ToLower(p.Description)
	stack := p.lowerTags()

	score := 0.0
	if p.HasLiveDemo() {
		score = liveDemoBonus
	}

	for _, token := range tokens {
		if strings.Contains(title, token) {
			score += titleWeight
		}
		if strings.Contains(description, token) {
			score += descWeight
		}
		if anyContains(stack, token) {
			score += stackWeight
		}
	}

	// The category name itself, not the hint word, must appear in the project text.
	for _, c := range categoryHints {
		if !slices.ContainsFunc(tokens, func(t string) bool { return slices.Contains(c.hints, t) }) {
			continue
		}
		if strings.Contains(title, c.name) || strings.Contains(description, c.name) || anyContains(stack, c.name) {
			if c.name == deployedCategory {
				score += deployedBonus
			} else {
				score += categoryBonus
			}
		}
	}

	return score
}

// matchesProject reports whether a token hits the title, description or any tag.
func matchesProject(token string, p Project) bool {
	return anyContains(p.lowerTags(), token) ||
		strings.Contains(strings.ToLower(p.Title), token) ||
		strings.Contains(strings.ToLower(p.Description), token)
}

func anyContains(values []string, sub string) bool {
	for _, v := range values {
		if strings.Contains(v, sub) {
			return true
		}
	}
	return false
}
