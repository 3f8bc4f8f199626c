package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"go.uber.org/multierr"
)

var (
	ErrMissingAPIKey    = errors.New("OPEN_AI_API_KEY is required")
	ErrInvalidTimeout   = errors.New("request timeout must be positive")
	ErrInvalidMaxTokens = errors.New("max tokens must be between 1 and 4294967295")
	ErrInvalidNumber    = errors.New("invalid integer value")
)

type Config struct {
	OpenAI OpenAIConfig
	Models ModelsConfig
	Log    LogConfig
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type ModelsConfig struct {
	Completions string
	Edits       string
	MaxTokens   int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	timeoutSec, timeoutErr := getEnvIntOrDefault("OPENAI_TIMEOUT_SEC", 30)
	maxTokens, maxTokensErr := getEnvIntOrDefault("COMPLETIONS_MAX_TOKENS", 3)
	if err := multierr.Combine(timeoutErr, maxTokensErr); err != nil {
		return nil, err
	}

	cfg := &Config{
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPEN_AI_API_KEY"),
			BaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		Models: ModelsConfig{
			Completions: getEnvOrDefault("COMPLETIONS_MODEL", "text-davinci-003"),
			Edits:       getEnvOrDefault("EDITS_MODEL", "text-davinci-edit-001"),
			MaxTokens:   maxTokens,
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.OpenAI.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Models.MaxTokens <= 0 || c.Models.MaxTokens > math.MaxUint32 {
		return ErrInvalidMaxTokens
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, key, value)
	}
	return intVal, nil
}
