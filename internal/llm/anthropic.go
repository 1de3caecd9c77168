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

// AnthropicConfig holds configuration for the Anthropic client.
type AnthropicConfig struct {
	APIKey    string
	Model     string        // default: claude-3-5-sonnet-20241022
	BaseURL   string        // default: https://api.anthropic.com
	Timeout   time.Duration // default: 30s
	MaxTokens int           // default: 1024
}

// AnthropicClient implements Client using the Anthropic Messages API.
type AnthropicClient struct {
	cfg            AnthropicConfig
	client         *http.Client
	circuitBreaker *CircuitBreaker
}

// NewAnthropicClient creates a new Anthropic client with the given configuration.
func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-sonnet-20241022"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	return &AnthropicClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		circuitBreaker: NewCircuitBreaker("anthropic"),
	}
}

type anthropicMessagesRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicMessagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends a single-turn completion to Anthropic and returns the response text.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	return c.circuitBreaker.Execute(ctx, func() (string, error) {
		return c.complete(ctx, prompt, opts)
	})
}

func (c *AnthropicClient) complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	maxTokens := c.cfg.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	reqBody := anthropicMessagesRequest{
		Model:       c.cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/v1/messages", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", newProviderError("anthropic", KindTimeout, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", newProviderError("anthropic", KindRateLimited, resp.StatusCode,
			fmt.Errorf("model %s rate limited", c.cfg.Model))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", newProviderError("anthropic", KindBadStatus, resp.StatusCode,
			fmt.Errorf("anthropic returned status %d: %s", resp.StatusCode, string(body)))
	}

	var respData anthropicMessagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", newProviderError("anthropic", KindMalformed, 0,
			fmt.Errorf("failed to decode response: %w", err))
	}

	if len(respData.Content) == 0 {
		return "", newProviderError("anthropic", KindEmpty, 0,
			fmt.Errorf("anthropic returned empty content"))
	}

	text := strings.TrimSpace(respData.Content[0].Text)
	if text == "" {
		return "", newProviderError("anthropic", KindEmpty, 0,
			fmt.Errorf("anthropic returned empty text"))
	}
	return text, nil
}

// Name identifies the provider family.
func (c *AnthropicClient) Name() string { return "anthropic" }

// Compile-time assertion.
var _ Client = (*AnthropicClient)(nil)
