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

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey    string
	Model     string        // default: gemini-2.0-flash
	AltModel  string        // default: gemini-2.0-pro, used when AltModel is requested
	BaseURL   string        // default: https://generativelanguage.googleapis.com
	Timeout   time.Duration // default: 30s
	MaxTokens int           // default: 1024
}

// GeminiClient implements Client using the Gemini generateContent API.
type GeminiClient struct {
	cfg            GeminiConfig
	client         *http.Client
	circuitBreaker *CircuitBreaker
}

// NewGeminiClient creates a new Gemini client with the given configuration.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.AltModel == "" {
		cfg.AltModel = "gemini-2.0-pro"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	return &GeminiClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		circuitBreaker: NewCircuitBreaker("gemini"),
	}
}

type geminiGenerateRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete sends a single-turn completion to Gemini and returns the response
// text. With opts.AltModel set, the request goes to the alternate model.
func (c *GeminiClient) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	return c.circuitBreaker.Execute(ctx, func() (string, error) {
		return c.complete(ctx, prompt, opts)
	})
}

func (c *GeminiClient) complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	model := c.cfg.Model
	if opts.AltModel {
		model = c.cfg.AltModel
	}
	maxTokens := c.cfg.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	reqBody := geminiGenerateRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", newProviderError("gemini", KindTimeout, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", newProviderError("gemini", KindRateLimited, resp.StatusCode,
			fmt.Errorf("model %s rate limited", model))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", newProviderError("gemini", KindBadStatus, resp.StatusCode,
			fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body)))
	}

	var respData geminiGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", newProviderError("gemini", KindMalformed, 0,
			fmt.Errorf("failed to decode response: %w", err))
	}

	if len(respData.Candidates) == 0 || len(respData.Candidates[0].Content.Parts) == 0 {
		return "", newProviderError("gemini", KindEmpty, 0,
			fmt.Errorf("gemini returned no candidates"))
	}

	text := strings.TrimSpace(respData.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", newProviderError("gemini", KindEmpty, 0,
			fmt.Errorf("gemini returned empty text"))
	}
	return text, nil
}

// Name identifies the provider family.
func (c *GeminiClient) Name() string { return "gemini" }

// Compile-time assertion.
var _ Client = (*GeminiClient)(nil)
