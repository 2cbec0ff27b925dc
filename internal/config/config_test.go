package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyCat08/LLMAgentsForPM/internal/config"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"OPENAI_API_KEY": " sk-test "})
	require.NoError(t, err)

	assert.Equal(t, config.ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.Equal(t, int64(200), cfg.MaxOutputTokens)
	assert.Equal(t, "reviews.csv", cfg.InputPath)
	assert.Equal(t, "classified_reviews.csv", cfg.OutputPath)
	assert.Equal(t, "review", cfg.ReviewColumn)
	assert.Equal(t, 200*time.Millisecond, cfg.CallInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.TelegramEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"SUMMARIZER_PROVIDER": "Anthropic",
		"ANTHROPIC_API_KEY":   "key",
		"MODEL":               "claude-x",
		"CALL_INTERVAL":       "1s",
		"INPUT_PATH":          "in.xlsx",
		"TELEGRAM_TOKEN":      "123:ABC",
		"TELEGRAM_CHAT_ID":    "-100",
		"LOG_LEVEL":           "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, config.ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "key", cfg.APIKey())
	assert.Equal(t, "claude-x", cfg.Model)
	assert.Equal(t, time.Second, cfg.CallInterval)
	assert.Equal(t, "in.xlsx", cfg.InputPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.TelegramEnabled())
	require.NoError(t, cfg.Validate())
}

func TestValidateMissingCredential(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"OPENAI_API_KEY": "   "})
	require.NoError(t, err)

	require.ErrorIs(t, cfg.Validate(), config.ErrMissingCredential)

	cfg, err = config.LoadFrom(map[string]string{
		"SUMMARIZER_PROVIDER": "anthropic",
		"OPENAI_API_KEY":      "wrong-provider",
	})
	require.NoError(t, err)

	err = cfg.Validate()
	require.ErrorIs(t, err, config.ErrMissingCredential)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"SUMMARIZER_PROVIDER": "cohere",
		"OPENAI_API_KEY":      "key",
	})
	require.NoError(t, err)

	require.ErrorIs(t, cfg.Validate(), config.ErrUnknownProvider)
}

func TestLoadFromInvalidDuration(t *testing.T) {
	_, err := config.LoadFrom(map[string]string{"CALL_INTERVAL": "soon"})
	require.Error(t, err)
}
