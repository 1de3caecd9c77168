package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdsports555/WaifuChatBotv2/internal/config"
)

func TestLoadConfig_DefaultHostIsLocalhost(t *testing.T) {
	_ = os.Unsetenv("WAIFU_WEB_HOST")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Web.Host,
		"Default host must be 127.0.0.1 for security")
}

func TestLoadConfig_CanOverrideHost(t *testing.T) {
	t.Setenv("WAIFU_WEB_HOST", "0.0.0.0")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Web.Host)
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"WAIFU_STORAGE_ENGINE", "WAIFU_HISTORY_CAP", "WAIFU_LLM_COOLDOWN",
		"WAIFU_GEMINI_MODEL", "WAIFU_TELEGRAM_TOKEN", "WAIFU_TELEGRAM_ENABLED",
	} {
		_ = os.Unsetenv(key)
	}

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.StorageEngine)
	assert.Equal(t, 100, cfg.Storage.HistoryCap)
	assert.Equal(t, 6*time.Second, cfg.LLM.Cooldown)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.GeminiModel)
	assert.False(t, cfg.Telegram.Enabled,
		"Telegram must be disabled by default without a token")
}

func TestLoadConfig_TokenEnablesTelegram(t *testing.T) {
	t.Setenv("WAIFU_TELEGRAM_TOKEN", "123:abc")
	_ = os.Unsetenv("WAIFU_TELEGRAM_ENABLED")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Telegram.Enabled)
}

func TestLoadConfig_TelegramEnabledWithoutToken(t *testing.T) {
	t.Setenv("WAIFU_TELEGRAM_ENABLED", "true")
	_ = os.Unsetenv("WAIFU_TELEGRAM_TOKEN")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("WAIFU_STORAGE_ENGINE", "postgres")
	_ = os.Unsetenv("WAIFU_POSTGRES_DSN")

	_, err := config.LoadConfig()
	assert.Error(t, err)

	t.Setenv("WAIFU_POSTGRES_DSN", "postgres://localhost/waifu?sslmode=disable")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.StorageEngine)
}

func TestLoadConfig_RejectsUnknownEngine(t *testing.T) {
	t.Setenv("WAIFU_STORAGE_ENGINE", "cassandra")
	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("WAIFU_HISTORY_CAP", "lots")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Storage.HistoryCap)
}

func TestLoadConfig_DurationOverride(t *testing.T) {
	t.Setenv("WAIFU_LLM_COOLDOWN", "2s")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.LLM.Cooldown)
}

func TestHasProviders(t *testing.T) {
	for _, key := range []string{
		"WAIFU_GEMINI_API_KEY", "WAIFU_OPENAI_API_KEY",
		"WAIFU_ANTHROPIC_API_KEY", "WAIFU_OLLAMA_URL",
	} {
		_ = os.Unsetenv(key)
	}

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.HasProviders())

	t.Setenv("WAIFU_OLLAMA_URL", "http://localhost:11434")
	cfg, err = config.LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.HasProviders())
}
