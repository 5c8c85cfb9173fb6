// Package chat decides how the portfolio chat widget answers a message: with
// contact details, with project recommendations, or with a conversational reply
// from an external model.
package chat

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a single message.
type Intent string

const (
	IntentContact  Intent = "contact"
	IntentProjects Intent = "projects"
	IntentGeneral  Intent = "general"
)

var contactTerms = []string{"elroy", "contact", "reach", "get in touch", "email", "hire", "call"}

var projectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(show|see|view|list|browse)\b.*\bprojects?\b`),
	regexp.MustCompile(`\byour (work|projects?)\b`),
	regexp.MustCompile(`\bportfolio\b`),
	regexp.MustCompile(`\bdemos?\b`),
	regexp.MustCompile(`\bgithub\b`),
	regexp.MustCompile(`\brepos?\b|\brepositor(y|ies)\b`),
	regexp.MustCompile(`\bshow all\b`),
}

// QuickPrompts are the canned prompt chips offered by the chat widget. Sending one
// verbatim always lists projects.
var QuickPrompts = []string{
	"Show AI projects",
	"Live demos",
	"Mobile apps",
	"Backend and APIs",
	"Show all projects",
}

// Classify runs the intent checks in order: contact, explicit project listing,
// then general conversation.
func Classify(message string) Intent {
	text := strings.ToLower(message)

	for _, term := range contactTerms {
		if strings.Contains(text, term) {
			return IntentContact
		}
	}

	if isQuickPrompt(text) {
		return IntentProjects
	}
	for _, re := range projectPatterns {
		if re.MatchString(text) {
			return IntentProjects
		}
	}

	return IntentGeneral
}

func isQuickPrompt(text string) bool {
	text = strings.TrimSpace(text)
	for _, p := range QuickPrompts {
		if text == strings.ToLower(p) {
			return true
		}
	}
	return false
}
