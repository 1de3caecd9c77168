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

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey    string
	Model     string        // default: gpt-4o-mini
	BaseURL   string        // default: https://api.openai.com
	Timeout   time.Duration // default: 30s
	MaxTokens int           // default: 1024
}

// OpenAIClient implements Client using the Chat Completions API.
type OpenAIClient struct {
	cfg            OpenAIConfig
	client         *http.Client
	circuitBreaker *CircuitBreaker
}

// NewOpenAIClient creates a new OpenAI client with the given configuration.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	return &OpenAIClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		circuitBreaker: NewCircuitBreaker("openai"),
	}
}

type openaiChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single-turn completion to OpenAI and returns the response text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	return c.circuitBreaker.Execute(ctx, func() (string, error) {
		return c.complete(ctx, prompt, opts)
	})
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	maxTokens := c.cfg.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	reqBody := openaiChatRequest{
		Model: c.cfg.Model,
		Messages: []openaiMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", newProviderError("openai", KindTimeout, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", newProviderError("openai", KindRateLimited, resp.StatusCode,
			fmt.Errorf("model %s rate limited", c.cfg.Model))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", newProviderError("openai", KindBadStatus, resp.StatusCode,
			fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(body)))
	}

	var respData openaiChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", newProviderError("openai", KindMalformed, 0,
			fmt.Errorf("failed to decode response: %w", err))
	}

	if len(respData.Choices) == 0 {
		return "", newProviderError("openai", KindEmpty, 0,
			fmt.Errorf("openai returned no choices"))
	}

	text := strings.TrimSpace(respData.Choices[0].Message.Content)
	if text == "" {
		return "", newProviderError("openai", KindEmpty, 0,
			fmt.Errorf("openai returned empty content"))
	}
	return text, nil
}

// Name identifies the provider family.
func (c *OpenAIClient) Name() string { return "openai" }

// Compile-time assertion.
var _ Client = (*OpenAIClient)(nil)
