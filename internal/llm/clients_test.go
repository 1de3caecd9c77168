package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiCompleteSuccess(t *testing.T) {
	var gotPath string
	var gotReq geminiGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "  a reply  "}}}},
			},
		})
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	got, err := c.Complete(context.Background(), "hello", CompletionOptions{Temperature: 0.8, MaxTokens: 256})
	require.NoError(t, err)

	assert.Equal(t, "a reply", got, "response text must be trimmed")
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, 0.8, gotReq.GenerationConfig.Temperature)
	assert.Equal(t, 256, gotReq.GenerationConfig.MaxOutputTokens)
}

func TestGeminiAltModelRouting(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok then"}}}},
			},
		})
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "hello", CompletionOptions{AltModel: true})
	require.NoError(t, err)
	assert.Equal(t, "/v1beta/models/gemini-2.0-pro:generateContent", gotPath)
}

func TestGeminiRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "hello", CompletionOptions{})
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "gemini", pe.Provider)
	assert.Equal(t, http.StatusTooManyRequests, pe.Status)
}

func TestGeminiEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "hello", CompletionOptions{})

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindEmpty, pe.Kind)
}

func TestOpenAICompleteSuccess(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "an answer"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	got, err := c.Complete(context.Background(), "hello", CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, "an answer", got)
	assert.Equal(t, "Bearer sk-test", gotAuth)
}

func TestOpenAIBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "hello", CompletionOptions{})

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindBadStatus, pe.Kind)
	assert.Equal(t, http.StatusInternalServerError, pe.Status)
}

func TestAnthropicCompleteSuccess(t *testing.T) {
	var gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("anthropic-version")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"text": "a claude reply"}},
		})
	}))
	defer srv.Close()

	c := NewAnthropicClient(AnthropicConfig{APIKey: "k", BaseURL: srv.URL})
	got, err := c.Complete(context.Background(), "hello", CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, "a claude reply", got)
	assert.Equal(t, "2023-06-01", gotVersion)
}

func TestOllamaCompleteSuccess(t *testing.T) {
	var gotReq ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "local reply"})
	}))
	defer srv.Close()

	c := NewOllamaClient(OllamaConfig{BaseURL: srv.URL, Model: "qwen2.5:7b"})
	got, err := c.Complete(context.Background(), "hello", CompletionOptions{Temperature: 0.95})
	require.NoError(t, err)
	assert.Equal(t, "local reply", got)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, 0.95, gotReq.Options.Temperature)
}

func TestOllamaMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewOllamaClient(OllamaConfig{BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "hello", CompletionOptions{})

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindMalformed, pe.Kind)
}
