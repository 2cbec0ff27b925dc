package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	ErrMissingCredential = errors.New("summarizer API key is required")
	ErrUnknownProvider   = errors.New("unknown summarizer provider")
)

type Config struct {
	Provider        string        `env:"SUMMARIZER_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"`
	Model           string        `env:"MODEL"`
	MaxOutputTokens int64         `env:"MAX_OUTPUT_TOKENS"   envDefault:"200"`
	InputPath       string        `env:"INPUT_PATH"          envDefault:"reviews.csv"`
	OutputPath      string        `env:"OUTPUT_PATH"         envDefault:"classified_reviews.csv"`
	ReviewColumn    string        `env:"REVIEW_COLUMN"       envDefault:"review"`
	CallInterval    time.Duration `env:"CALL_INTERVAL"       envDefault:"200ms"`
	CacheDBPath     string        `env:"CACHE_DB_PATH"`
	Schedule        string        `env:"SCHEDULE"`
	TelegramToken   string        `env:"TELEGRAM_TOKEN"`
	TelegramChatID  int64         `env:"TELEGRAM_CHAT_ID"`
	LogLevel        slog.Level    `env:"LOG_LEVEL"           envDefault:"info"`
}

func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses configuration from the given environment. A nil map
// means the process environment.
func LoadFrom(environment map[string]string) (Config, error) {
	var cfg Config

	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.OpenAIAPIKey = strings.TrimSpace(cfg.OpenAIAPIKey)
	cfg.AnthropicAPIKey = strings.TrimSpace(cfg.AnthropicAPIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.InputPath = strings.TrimSpace(cfg.InputPath)
	cfg.OutputPath = strings.TrimSpace(cfg.OutputPath)
	cfg.Schedule = strings.TrimSpace(cfg.Schedule)

	return cfg, nil
}

// Validate checks the settings that must be present before any review is
// read.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}

	if c.APIKey() == "" {
		return fmt.Errorf("%w (provider = %s, envVar = %s)", ErrMissingCredential, c.Provider, c.APIKeyEnvVar())
	}

	if c.InputPath == "" || c.OutputPath == "" {
		return errors.New("input and output paths are required")
	}

	if c.CallInterval < 0 {
		return errors.New("call interval must not be negative")
	}

	return nil
}

func (c Config) APIKey() string {
	if c.Provider == ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

func (c Config) APIKeyEnvVar() string {
	if c.Provider == ProviderAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

func (c Config) TelegramEnabled() bool {
	return strings.TrimSpace(c.TelegramToken) != "" && c.TelegramChatID != 0
}
