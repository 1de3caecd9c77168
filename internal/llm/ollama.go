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

// OllamaConfig holds configuration for the Ollama client.
type OllamaConfig struct {
	BaseURL   string        // e.g. http://localhost:11434
	Model     string        // default: qwen2.5:7b
	Timeout   time.Duration // default: 60s, local models are slow
	MaxTokens int           // default: 1024
}

// OllamaClient implements Client against a local Ollama instance. It is the
// last real tier in the fallback chain and needs no credentials.
type OllamaClient struct {
	cfg            OllamaConfig
	client         *http.Client
	circuitBreaker *CircuitBreaker
}

// NewOllamaClient creates a new Ollama client with the given configuration.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "qwen2.5:7b"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	return &OllamaClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		circuitBreaker: NewCircuitBreaker("ollama"),
	}
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Complete sends a single-turn completion to Ollama and returns the response text.
func (c *OllamaClient) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	return c.circuitBreaker.Execute(ctx, func() (string, error) {
		return c.complete(ctx, prompt, opts)
	})
}

func (c *OllamaClient) complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	maxTokens := c.cfg.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	reqBody := ollamaGenerateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: opts.Temperature,
			NumPredict:  maxTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", newProviderError("ollama", KindTimeout, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", newProviderError("ollama", KindBadStatus, resp.StatusCode,
			fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body)))
	}

	var respData ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", newProviderError("ollama", KindMalformed, 0,
			fmt.Errorf("failed to decode response: %w", err))
	}

	text := strings.TrimSpace(respData.Response)
	if text == "" {
		return "", newProviderError("ollama", KindEmpty, 0,
			fmt.Errorf("ollama returned empty response"))
	}
	return text, nil
}

// Name identifies the provider family.
func (c *OllamaClient) Name() string { return "ollama" }

// Compile-time assertion.
var _ Client = (*OllamaClient)(nil)
