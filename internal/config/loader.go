package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// FileEnv names the variable pointing at an optional YAML config file.
const FileEnv = "PORTFOLIO_CONFIG"

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("invalid configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds a Config by layering, from low to high precedence:
//  1. Default()
//  2. the YAML file named by PORTFOLIO_CONFIG, if set
//  3. environment variables (PORT, SMTP_HOST, LLM_URL, ...)
func Load() (*Config, error) {
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(envProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envProvider exposes known keys only, so unrelated variables such as PATH never
// reach the config map.
func envProvider() koanf.Provider {
	known := knownKeys()
	return env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := known[key]; !ok {
			return ""
		}
		return key
	})
}

func knownKeys() map[string]struct{} {
	keys := make(map[string]struct{})
	k := koanf.New(".")
	_ = k.Load(structs.Provider(Default(), "koanf"), nil)
	for _, key := range k.Keys() {
		keys[key] = struct{}{}
	}
	return keys
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.LLMProvider == "http" && c.LLMURL == "" {
		return fmt.Errorf("%w: llm_url is required for the http provider", ErrInvalid)
	}
	return nil
}
