// Package llm talks to an external chat completion provider.
//
// The default provider is any HTTP endpoint accepting {model, messages, stream}
// (OpenAI-compatible APIs, Ollama's /api/chat, or this site's own /api/llm proxy).
// A Gemini provider is available through the genai SDK.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Roles used in chat transcripts.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// Completer returns the assistant's reply to a transcript.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Provider names accepted in configuration.
const (
	ProviderHTTP   = "http"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// ErrEmptyContent is returned when a response carries no reply text.
var ErrEmptyContent = errors.New("llm: empty response content")

// ErrNotConfigured is returned by NewCompleter when no provider is set up.
var ErrNotConfigured = errors.New("llm: no provider configured")

// StatusError reports a non-2xx response from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("llm: provider responded with status %d", e.Code)
	}
	return fmt.Sprintf("llm: provider responded with status %d: %s", e.Code, e.Body)
}
