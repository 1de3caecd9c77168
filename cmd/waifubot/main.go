package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jdsports555/WaifuChatBotv2/internal/channel"
	"github.com/jdsports555/WaifuChatBotv2/internal/config"
	"github.com/jdsports555/WaifuChatBotv2/internal/llm"
	"github.com/jdsports555/WaifuChatBotv2/internal/persona"
	"github.com/jdsports555/WaifuChatBotv2/internal/pipeline"
	"github.com/jdsports555/WaifuChatBotv2/internal/storage"
	"github.com/jdsports555/WaifuChatBotv2/internal/storage/memory"
	"github.com/jdsports555/WaifuChatBotv2/internal/storage/postgres"
	"github.com/jdsports555/WaifuChatBotv2/internal/storage/sqlite"
	"github.com/jdsports555/WaifuChatBotv2/internal/web"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	setupLogging(cfg)

	// Character definition
	char := persona.Default()
	if cfg.Persona.File != "" {
		char, err = persona.Load(cfg.Persona.File)
		if err != nil {
			log.Fatalf("Failed to load persona: %v", err)
		}
		slog.Info("persona loaded", "file", cfg.Persona.File, "name", char.Name)
	}

	// Initialize storage
	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Provider tiers: only families with credentials participate
	selector := buildSelector(cfg)
	if selector.Empty() {
		slog.Warn("no LLM provider configured, serving emergency replies only")
	}

	pipe := pipeline.New(store, char, selector)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig.String())
		cancel()
	}()

	// Transports
	errCh := make(chan error, 2)

	if cfg.Web.Enabled {
		addr, err := web.Start(ctx, cfg, pipe)
		if err != nil {
			log.Fatalf("Failed to start web server: %v", err)
		}
		slog.Info("web chat listening", "addr", addr)
	}

	if cfg.Telegram.Enabled {
		bot, err := channel.NewBot(cfg.Telegram.Token, cfg.Telegram.Debug, pipe)
		if err != nil {
			log.Fatalf("Failed to start telegram bot: %v", err)
		}
		go func() {
			errCh <- bot.Run(ctx)
		}()
	}

	if !cfg.Telegram.Enabled && !cfg.Web.Enabled {
		log.Fatal("No transport enabled; set WAIFU_TELEGRAM_TOKEN or WAIFU_WEB_ENABLED=true")
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			slog.Error("transport stopped", "error", err)
		}
		cancel()
	}
	slog.Info("goodbye")
}

// buildStore constructs the configured FactStore backend.
func buildStore(cfg *config.Config) (storage.FactStore, error) {
	switch cfg.Storage.StorageEngine {
	case "memory":
		return memory.NewStore(cfg.Storage.HistoryCap), nil
	case "postgres":
		return postgres.NewStore(cfg.Storage.PostgresDSN, cfg.Storage.HistoryCap)
	default:
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
			return nil, err
		}
		return sqlite.NewStore(cfg.Storage.DataPath+"/waifubot.db", cfg.Storage.HistoryCap)
	}
}

// buildSelector registers one client per provider family that has
// credentials (or, for Ollama, a URL) configured.
func buildSelector(cfg *config.Config) *pipeline.Selector {
	selector := pipeline.NewSelector(cfg.LLM.Cooldown)

	if cfg.LLM.GeminiAPIKey != "" {
		selector.Register(llm.NewGeminiClient(llm.GeminiConfig{
			APIKey:    cfg.LLM.GeminiAPIKey,
			Model:     cfg.LLM.GeminiModel,
			AltModel:  cfg.LLM.GeminiAltModel,
			Timeout:   cfg.LLM.RequestTimeout,
			MaxTokens: cfg.LLM.MaxTokens,
		}))
	}
	if cfg.LLM.OpenAIAPIKey != "" {
		selector.Register(llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:    cfg.LLM.OpenAIAPIKey,
			Model:     cfg.LLM.OpenAIModel,
			Timeout:   cfg.LLM.RequestTimeout,
			MaxTokens: cfg.LLM.MaxTokens,
		}))
	}
	if cfg.LLM.AnthropicAPIKey != "" {
		selector.Register(llm.NewAnthropicClient(llm.AnthropicConfig{
			APIKey:    cfg.LLM.AnthropicAPIKey,
			Model:     cfg.LLM.AnthropicModel,
			Timeout:   cfg.LLM.RequestTimeout,
			MaxTokens: cfg.LLM.MaxTokens,
		}))
	}
	if cfg.LLM.OllamaURL != "" {
		selector.Register(llm.NewOllamaClient(llm.OllamaConfig{
			BaseURL:   cfg.LLM.OllamaURL,
			Model:     cfg.LLM.OllamaModel,
			MaxTokens: cfg.LLM.MaxTokens,
		}))
	}
	return selector
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Logging.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
