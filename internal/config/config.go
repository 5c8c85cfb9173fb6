// Package config loads server settings from defaults, an optional YAML file, and
// environment variables.
package config

import (
	"time"

	"github.com/mbabazielroy/portfolio/internal/llm"
)

// Config holds every runtime setting. Keys match the lowercased environment
// variable names (PORT -> port, SMTP_HOST -> smtp_host).
type Config struct {
	Port         string `koanf:"port" validate:"required,numeric"`
	GinMode      string `koanf:"gin_mode" validate:"omitempty,oneof=debug release test"`
	DatabasePath string `koanf:"database_path" validate:"required"`
	FrontendURL  string `koanf:"frontend_url"`

	// Contact form email delivery
	SMTPHost string `koanf:"smtp_host"`
	SMTPPort string `koanf:"smtp_port" validate:"omitempty,numeric"`
	SMTPUser string `koanf:"smtp_user"`
	SMTPPass string `koanf:"smtp_pass"`
	ToEmail  string `koanf:"to_email" validate:"omitempty,email"`

	// Admin dashboard
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`
	SessionSecret string `koanf:"session_secret"`
	SessionHours  int    `koanf:"session_hours" validate:"min=1,max=720"`

	// External chat model
	LLMProvider     string        `koanf:"llm_provider" validate:"omitempty,oneof=http gemini none"`
	LLMURL          string        `koanf:"llm_url" validate:"omitempty,url"`
	LLMModel        string        `koanf:"llm_model"`
	LLMAPIKey       string        `koanf:"llm_api_key"`
	OpenAIAPIKey    string        `koanf:"openai_api_key"`
	GeminiAPIKey    string        `koanf:"gemini_api_key"`
	LLMTimeout      time.Duration `koanf:"llm_timeout"`
	BreakerFailures uint32        `koanf:"breaker_failures" validate:"min=1"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`

	RateLimitPerMinute   int `koanf:"rate_limit_per_minute" validate:"min=0"`
	VisitorRetentionDays int `koanf:"visitor_retention_days" validate:"min=1"`
	MaxRecommendations   int `koanf:"max_recommendations" validate:"min=1,max=20"`

	LogLevel  string `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=json console"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Port:                 "8080",
		GinMode:              "release",
		DatabasePath:         "portfolio.db",
		SMTPHost:             "smtp.gmail.com",
		SMTPPort:             "587",
		AdminUsername:        "admin",
		SessionHours:         24,
		LLMProvider:          llm.ProviderHTTP,
		LLMURL:               "https://api.openai.com/v1/chat/completions",
		LLMModel:             "gpt-3.5-turbo",
		LLMTimeout:           30 * time.Second,
		BreakerFailures:      3,
		BreakerCooldown:      30 * time.Second,
		RateLimitPerMinute:   30,
		VisitorRetentionDays: 365,
		MaxRecommendations:   5,
		LogLevel:             "info",
		LogFormat:            "json",
	}
}

// LLM returns the provider settings, resolving the API key for the chosen
// provider. The HTTP provider is disabled when it has no key and points at a
// hosted API that requires one.
func (c Config) LLM() llm.Config {
	cfg := llm.Config{
		Provider: c.LLMProvider,
		URL:      c.LLMURL,
		Model:    c.LLMModel,
		APIKey:   c.LLMAPIKey,
		Timeout:  c.LLMTimeout,
	}

	switch c.LLMProvider {
	case llm.ProviderGemini:
		if cfg.APIKey == "" {
			cfg.APIKey = c.GeminiAPIKey
		}
		// The default model name belongs to the HTTP provider.
		if cfg.Model == Default().LLMModel {
			cfg.Model = ""
		}
	case llm.ProviderHTTP:
		if cfg.APIKey == "" {
			cfg.APIKey = c.OpenAIAPIKey
		}
		if cfg.APIKey == "" && c.LLMURL == Default().LLMURL {
			cfg.Provider = llm.ProviderNone
		}
	}
	return cfg
}

// SMTPConfigured reports whether contact emails can be sent.
func (c Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPass != ""
}
