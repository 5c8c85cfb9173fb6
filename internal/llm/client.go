package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxErrorBody = 512

// Config selects and configures a provider.
type Config struct {
	Provider string
	URL      string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// HTTPClient posts chat transcripts to a JSON completion endpoint.
type HTTPClient struct {
	url    string
	model  string
	apiKey string
	client *http.Client
}

// NewHTTPClient creates a client for url. A nil httpClient gets a default with
// the given timeout.
func NewHTTPClient(url, model, apiKey string, timeout time.Duration, httpClient *http.Client) (*HTTPClient, error) {
	if url == "" {
		return nil, fmt.Errorf("completion URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		url:    url,
		model:  model,
		apiKey: apiKey,
		client: httpClient,
	}, nil
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// Complete sends the transcript and returns the reply text.
func (c *HTTPClient) Complete(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal(completionRequest{Model: c.model, Messages: messages, Stream: false})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return "", &StatusError{Code: resp.StatusCode, Body: snippet}
	}

	return ExtractContent(body)
}

// Model returns the model name sent with each request.
func (c *HTTPClient) Model() string {
	return c.model
}

// NewCompleter builds the provider selected by cfg. It returns ErrNotConfigured
// when the provider is "none" or required settings are missing.
func NewCompleter(ctx context.Context, cfg Config) (Completer, error) {
	switch cfg.Provider {
	case ProviderNone, "":
		return nil, ErrNotConfigured
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, ErrNotConfigured
		}
		return NewGeminiClient(ctx, cfg.Model, cfg.APIKey)
	case ProviderHTTP:
		if cfg.URL == "" {
			return nil, ErrNotConfigured
		}
		return NewHTTPClient(cfg.URL, cfg.Model, cfg.APIKey, cfg.Timeout, nil)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
