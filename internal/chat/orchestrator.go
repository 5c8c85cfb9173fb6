package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbabazielroy/portfolio/internal/llm"
	"github.com/mbabazielroy/portfolio/internal/logging"
	"github.com/mbabazielroy/portfolio/internal/recommend"
)

// ErrorReply is shown when building recommendations fails unexpectedly.
const ErrorReply = "Sorry, I encountered an error. Please try again."

// Reply sources.
const (
	SourceContact  = "contact"
	SourceLocal    = "local"
	SourceLLM      = "llm"
	SourceFallback = "fallback"
	SourceError    = "error"
)

// Request is one incoming chat message.
type Request struct {
	Message string
	// Transcript holds the prior turns, oldest first, without Message itself.
	Transcript []llm.Message
	Persona    recommend.Persona
	// ForceProjects skips classification and lists projects.
	ForceProjects bool
}

// Reply is the answer to a single message.
type Reply struct {
	Text            string            `json:"text"`
	Intent          Intent            `json:"intent"`
	Source          string            `json:"source"`
	Recommendations *recommend.Result `json:"recommendations,omitempty"`
	// Retry is set when the UI should offer to resend the message.
	Retry bool `json:"retry,omitempty"`
}

// Hooks observe orchestrator decisions; any of them may be nil.
type Hooks struct {
	OnIntent func(Intent)
	OnLLM    func(outcome string)
}

// Orchestrator answers chat messages. It holds no per-conversation state.
type Orchestrator struct {
	catalog    []recommend.Project
	completer  llm.Completer
	contact    ContactCard
	maxResults int
	hooks      Hooks
	recommend  func(string, []recommend.Project, int, recommend.Persona) recommend.Result
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCompleter sets the external model used for general conversation.
func WithCompleter(c llm.Completer) Option {
	return func(o *Orchestrator) { o.completer = c }
}

// WithMaxResults caps the number of ranked recommendations.
func WithMaxResults(n int) Option {
	return func(o *Orchestrator) { o.maxResults = n }
}

// WithHooks installs decision observers.
func WithHooks(h Hooks) Option {
	return func(o *Orchestrator) { o.hooks = h }
}

// NewOrchestrator creates an orchestrator over catalog.
func NewOrchestrator(catalog []recommend.Project, contact ContactCard, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog:    catalog,
		contact:    contact,
		maxResults: recommend.DefaultMax,
		recommend:  recommend.Recommend,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Handle classifies the message and answers it. External failures are absorbed
// into a scripted reply; Handle never returns an error.
func (o *Orchestrator) Handle(ctx context.Context, req Request) Reply {
	persona := req.Persona
	if !persona.Valid() {
		persona = recommend.PersonaAssistant
	}

	intent := IntentProjects
	if !req.ForceProjects {
		intent = Classify(req.Message)
	}
	if o.hooks.OnIntent != nil {
		o.hooks.OnIntent(intent)
	}

	switch intent {
	case IntentContact:
		return Reply{Text: o.contact.Reply(), Intent: IntentContact, Source: SourceContact}
	case IntentProjects:
		return o.listProjects(req.Message, persona)
	default:
		return o.converse(ctx, req, persona)
	}
}

func (o *Orchestrator) listProjects(message string, persona recommend.Persona) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Str("panic", fmt.Sprint(r)).Str("query", message).Msg("recommendation failed")
			reply = Reply{Text: ErrorReply, Intent: IntentProjects, Source: SourceError, Retry: true}
		}
	}()

	res := o.recommend(message, o.catalog, o.maxResults, persona)
	return Reply{
		Text:            res.Summary,
		Intent:          IntentProjects,
		Source:          SourceLocal,
		Recommendations: &res,
	}
}

func (o *Orchestrator) converse(ctx context.Context, req Request, persona recommend.Persona) Reply {
	fallback := Reply{Text: FallbackReply(persona), Intent: IntentGeneral, Source: SourceFallback}
	if o.completer == nil {
		o.observeLLM("unconfigured")
		return fallback
	}

	messages := make([]llm.Message, 0, len(req.Transcript)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt(persona, o.catalog)})
	for _, m := range req.Transcript {
		// Callers cannot inject their own system instructions.
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			continue
		}
		messages = append(messages, m)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	text, err := o.completer.Complete(ctx, messages)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyContent
	}
	if err != nil {
		logging.Warn().Err(err).Str("persona", string(persona)).Msg("chat completion failed, using scripted reply")
		o.observeLLM("failure")
		return fallback
	}

	o.observeLLM("success")
	return Reply{Text: text, Intent: IntentGeneral, Source: SourceLLM}
}

func (o *Orchestrator) observeLLM(outcome string) {
	if o.hooks.OnLLM != nil {
		o.hooks.OnLLM(outcome)
	}
}
