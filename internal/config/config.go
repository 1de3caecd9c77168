// Package config provides configuration management for the bot.
// It loads settings from environment variables with the WAIFU_ prefix
// and provides sensible defaults for all configuration options.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration settings for the application.
type Config struct {
	Telegram TelegramConfig
	Web      WebConfig
	Storage  StorageConfig
	LLM      LLMConfig
	Persona  PersonaConfig
	Logging  LoggingConfig
}

// TelegramConfig contains Telegram transport configuration.
type TelegramConfig struct {
	Enabled bool   // Enable the Telegram transport (default: true when a token is set)
	Token   string // Bot API token
	Debug   bool   // Log raw Bot API traffic (default: false)
}

// WebConfig contains the HTTP chat server configuration.
type WebConfig struct {
	Enabled bool   // Enable the web chat server (default: false)
	Port    int    // Server port (default: 8480)
	Host    string // Server host (default: 127.0.0.1)
	RateRPS int    // Per-server request rate limit (default: 10)
}

// StorageConfig contains database and storage configuration.
type StorageConfig struct {
	StorageEngine string // Storage engine type: memory, sqlite, postgres (default: sqlite)
	DataPath      string // Path to data directory for sqlite (default: ./data)
	PostgresDSN   string // Postgres connection string, required when StorageEngine is postgres
	HistoryCap    int    // Retained messages per user (default: 100)
}

// LLMConfig contains LLM provider configuration.
//
// A provider family participates in the fallback chain only when its
// credentials (or URL, for Ollama) are set.
type LLMConfig struct {
	GeminiAPIKey    string // Gemini API key
	GeminiModel     string // Primary Gemini model (default: gemini-2.0-flash)
	GeminiAltModel  string // Alternate Gemini model used after a rate limit (default: gemini-2.0-pro)
	OpenAIAPIKey    string // OpenAI API key
	OpenAIModel     string // OpenAI model name (default: gpt-4o-mini)
	AnthropicAPIKey string // Anthropic API key
	AnthropicModel  string // Anthropic model name (default: claude-3-5-sonnet-20241022)
	OllamaURL       string // Ollama API URL, empty disables the family
	OllamaModel     string // Ollama model name (default: qwen2.5:7b)

	RequestTimeout time.Duration // Per-request timeout (default: 30s)
	Cooldown       time.Duration // Minimum interval between requests to one family (default: 6s)
	MaxTokens      int           // Completion token cap (default: 1024)
}

// PersonaConfig points at an optional character override file.
type PersonaConfig struct {
	File string // YAML persona override path, empty uses the built-in default
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level  string // debug, info, warn, error (default: info)
	Format string // text or json (default: text)
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the WAIFU_ prefix.
func LoadConfig() (*Config, error) {
	cfg := buildBaseConfig()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.StorageEngine {
	case "memory", "sqlite":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("config: WAIFU_POSTGRES_DSN is required when storage engine is postgres")
		}
	default:
		return fmt.Errorf("config: unknown storage engine %q", c.Storage.StorageEngine)
	}
	if c.Storage.HistoryCap <= 0 {
		return fmt.Errorf("config: history cap must be positive, got %d", c.Storage.HistoryCap)
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		return fmt.Errorf("config: WAIFU_TELEGRAM_TOKEN is required when the Telegram transport is enabled")
	}
	return nil
}

// HasProviders reports whether at least one LLM provider family is configured.
// Without any, the pipeline still works but serves only emergency replies.
func (c *Config) HasProviders() bool {
	l := c.LLM
	return l.GeminiAPIKey != "" || l.OpenAIAPIKey != "" || l.AnthropicAPIKey != "" || l.OllamaURL != ""
}

// buildBaseConfig constructs a Config with values from environment variables
// and defaults.
func buildBaseConfig() *Config {
	token := getEnv("WAIFU_TELEGRAM_TOKEN", "")
	return &Config{
		Telegram: TelegramConfig{
			Enabled: getEnvBool("WAIFU_TELEGRAM_ENABLED", token != ""),
			Token:   token,
			Debug:   getEnvBool("WAIFU_TELEGRAM_DEBUG", false),
		},
		Web: WebConfig{
			Enabled: getEnvBool("WAIFU_WEB_ENABLED", false),
			Port:    getEnvInt("WAIFU_WEB_PORT", 8480),
			Host:    getEnv("WAIFU_WEB_HOST", "127.0.0.1"),
			RateRPS: getEnvInt("WAIFU_WEB_RATE_RPS", 10),
		},
		Storage: StorageConfig{
			StorageEngine: getEnv("WAIFU_STORAGE_ENGINE", "sqlite"),
			DataPath:      getEnv("WAIFU_DATA_PATH", "./data"),
			PostgresDSN:   getEnv("WAIFU_POSTGRES_DSN", ""),
			HistoryCap:    getEnvInt("WAIFU_HISTORY_CAP", 100),
		},
		LLM: LLMConfig{
			GeminiAPIKey:    getEnv("WAIFU_GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("WAIFU_GEMINI_MODEL", "gemini-2.0-flash"),
			GeminiAltModel:  getEnv("WAIFU_GEMINI_ALT_MODEL", "gemini-2.0-pro"),
			OpenAIAPIKey:    getEnv("WAIFU_OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("WAIFU_OPENAI_MODEL", "gpt-4o-mini"),
			AnthropicAPIKey: getEnv("WAIFU_ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("WAIFU_ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
			OllamaURL:       getEnv("WAIFU_OLLAMA_URL", ""),
			OllamaModel:     getEnv("WAIFU_OLLAMA_MODEL", "qwen2.5:7b"),
			RequestTimeout:  getEnvDuration("WAIFU_LLM_TIMEOUT", 30*time.Second),
			Cooldown:        getEnvDuration("WAIFU_LLM_COOLDOWN", 6*time.Second),
			MaxTokens:       getEnvInt("WAIFU_LLM_MAX_TOKENS", 1024),
		},
		Persona: PersonaConfig{
			File: getEnv("WAIFU_PERSONA_FILE", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("WAIFU_LOG_LEVEL", "info"),
			Format: getEnv("WAIFU_LOG_FORMAT", "text"),
		},
	}
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
// If the environment variable exists but cannot be parsed as an integer,
// it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value.
// It recognizes "true", "1", "yes" as true and "false", "0", "no" as false.
// If the environment variable exists but cannot be parsed as a boolean,
// it returns the default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "Yes", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "No", "NO":
			return false
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns a
// default value. Values use Go duration syntax, e.g. "45s" or "2m".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
