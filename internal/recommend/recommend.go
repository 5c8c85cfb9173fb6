package recommend

import (
	"fmt"
	"strings"
)

const noMatchSummary = "I couldn't match that query. Here are a few strong projects you can review:"

// Item is a recommended project with a short justification.
type Item struct {
	Project Project `json:"project"`
	Reason  string  `json:"reason"`
}

// Result is the outcome of a local recommendation call.
type Result struct {
	Summary string `json:"summary"`
	Items   []Item `json:"items"`
	// Persona is the audience detected from the query, not the UI persona.
	Persona string `json:"persona"`
	// Ranked is false when the default picks were used.
	Ranked bool `json:"ranked"`
}

// Recommend ranks projects against query and explains each pick. It never fails:
// an empty or stop-word-only query yields the default picks and an empty catalog
// yields an empty item list.
func Recommend(query string, projects []Project, limit int, persona Persona) Result {
	tokens := Tokenize(query)

	top := Rank(projects, tokens, limit)
	selected := top
	if len(selected) == 0 {
		selected = DefaultPicks(projects)
	}

	items := make([]Item, 0, len(selected))
	for _, p := range selected {
		items = append(items, Item{Project: p, Reason: Reason(p, tokens)})
	}

	var summary string
	switch {
	case len(tokens) == 0 && len(selected) > 0:
		summary = fmt.Sprintf("%s to start with:", persona.lead())
	case len(top) > 0:
		summary = fmt.Sprintf("%s based on \"%s\":", persona.lead(), query)
	default:
		summary = noMatchSummary
	}

	return Result{
		Summary: summary,
		Items:   items,
		Persona: DetectPersona(tokens),
		Ranked:  len(top) > 0,
	}
}

// Render formats the result as chat text with bold project titles.
func (r Result) Render() string {
	var b strings.Builder
	b.WriteString(r.Summary)
	for _, item := range r.Items {
		b.WriteString("\n\n**")
		b.WriteString(item.Project.Title)
		b.WriteString("**\n")
		if item.Project.Description != "" {
			b.WriteString(item.Project.Description)
			b.WriteString("\n")
		}
		b.WriteString(item.Reason)
		if item.Project.LiveURL != "" {
			b.WriteString("\nDemo: ")
			b.WriteString(item.Project.LiveURL)
		}
		if item.Project.GithubURL != "" {
			b.WriteString("\nCode: ")
			b.WriteString(item.Project.GithubURL)
		}
	}
	return b.String()
}
