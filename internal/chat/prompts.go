package chat

import (
	"fmt"
	"strings"

	"github.com/mbabazielroy/portfolio/internal/recommend"
)

const maxPromptTitles = 15

var personaInstructions = map[recommend.Persona]string{
	recommend.PersonaAssistant: "You are a helpful, conversational assistant for a developer portfolio. Have natural, human-like conversations, ask follow-ups, and never list projects unless the user explicitly asks to see projects.",
	recommend.PersonaRecruiter: "You are a professional recruiter. Speak naturally, focus on hiring needs, roles, locations, skills, culture fit, and resume highlights. Do not list projects unless explicitly asked.",
	recommend.PersonaEngineer:  "You are a senior software engineer. Talk through architecture, tradeoffs, code, and planning. Ask clarifying technical questions. Do not list projects unless explicitly asked.",
	recommend.PersonaFounder:   "You are a startup founder. Discuss product strategy, vision, MVP, GTM, and growth. Ask discovery questions. Do not list projects unless explicitly asked.",
}

// fallbackReplies are used when the external model cannot answer. Each one asks
// a follow-up instead of making something up.
var fallbackReplies = map[recommend.Persona]string{
	recommend.PersonaAssistant: "Thanks for the message! I can walk you through Elroy's background, skills, or projects. What would you like to focus on?",
	recommend.PersonaRecruiter: "Happy to help with your search. What role, location, and core skills are you hiring for?",
	recommend.PersonaEngineer:  "Good question. Which part interests you most: the architecture, the stack choices, or how a specific feature was built?",
	recommend.PersonaFounder:   "Let's dig in. What product are you building, and what stage is it at right now?",
}

// SystemPrompt builds the persona-specific instruction sent ahead of the transcript.
func SystemPrompt(persona recommend.Persona, projects []recommend.Project) string {
	instruction, ok := personaInstructions[persona]
	if !ok {
		instruction = personaInstructions[recommend.PersonaAssistant]
	}

	titles := make([]string, 0, min(len(projects), maxPromptTitles))
	for _, p := range projects {
		if len(titles) == maxPromptTitles {
			break
		}
		titles = append(titles, p.Title)
	}

	return strings.Join([]string{
		instruction,
		"Priority: converse naturally, show understanding, ask relevant follow-ups.",
		"Only provide project lists if the user explicitly requests projects/portfolio/repo. Otherwise, stay conversational.",
		fmt.Sprintf("Available project titles (for reference only when asked): %s.", strings.Join(titles, ", ")),
	}, " ")
}

// FallbackReply returns the scripted reply for persona.
func FallbackReply(persona recommend.Persona) string {
	if reply, ok := fallbackReplies[persona]; ok {
		return reply
	}
	return fallbackReplies[recommend.PersonaAssistant]
}

// ContactCard holds the details given out for contact requests.
type ContactCard struct {
	Name     string
	Email    string
	Phone    string
	LinkedIn string
	GitHub   string
	Location string
}

// Reply renders the fixed contact reply.
func (c ContactCard) Reply() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You can reach %s directly:", c.Name)
	if c.Email != "" {
		fmt.Fprintf(&b, "\n**Email:** %s", c.Email)
	}
	if c.Phone != "" {
		fmt.Fprintf(&b, "\n**Phone:** %s", c.Phone)
	}
	if c.LinkedIn != "" {
		fmt.Fprintf(&b, "\n**LinkedIn:** %s", c.LinkedIn)
	}
	if c.GitHub != "" {
		fmt.Fprintf(&b, "\n**GitHub:** %s", c.GitHub)
	}
	b.WriteString("\nOr leave a message through the contact form and you'll hear back soon.")
	return b.String()
}
