package recommend

import "slices"

// Persona is the conversational framing picked in the UI. It changes phrasing only.
type Persona string

const (
	PersonaAssistant Persona = "assistant"
	PersonaRecruiter Persona = "recruiter"
	PersonaEngineer  Persona = "engineer"
	PersonaFounder   Persona = "founder"
)

// Personas lists every supported persona in display order.
var Personas = []Persona{PersonaAssistant, PersonaRecruiter, PersonaEngineer, PersonaFounder}

// ParsePersona maps free text to a Persona, defaulting to assistant.
func ParsePersona(s string) Persona {
	p := Persona(s)
	if slices.Contains(Personas, p) {
		return p
	}
	return PersonaAssistant
}

// Valid reports whether p is one of the supported personas.
func (p Persona) Valid() bool {
	return slices.Contains(Personas, p)
}

var personaLeads = map[Persona]string{
	PersonaAssistant: "Here are projects I recommend",
	PersonaRecruiter: "As a recruiter, here are projects worth highlighting",
	PersonaEngineer:  "As an engineer, here are technically relevant projects",
	PersonaFounder:   "From a founder lens, here are projects to review",
}

func (p Persona) lead() string {
	if lead, ok := personaLeads[p]; ok {
		return lead
	}
	return personaLeads[PersonaAssistant]
}

// Audience labels attached to a result by DetectPersona.
const (
	AudienceRecruiter = "recruiter or hiring manager"
	AudienceFounder   = "founder or client"
	AudienceStudent   = "student"
	AudienceVisitor   = "visitor"
)

var audienceTriggers = []struct {
	label string
	words []string
}{
	{AudienceRecruiter, []string{"recruiter", "hiring", "employer", "talent", "manager"}},
	{AudienceFounder, []string{"founder", "client", "business", "product", "startup"}},
	{AudienceStudent, []string{"student", "class", "school", "course"}},
}

// DetectPersona guesses who is asking from the filtered tokens. The first matching
// audience wins; scoring is not affected.
func DetectPersona(tokens []string) string {
	for _, a := range audienceTriggers {
		for _, w := range a.words {
			if slices.Contains(tokens, w) {
				return a.label
			}
		}
	}
	return AudienceVisitor
}
