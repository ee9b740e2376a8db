package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClaudeProvider_Complete(t *testing.T) {
	var got claudeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != claudeAPIVersion {
			t.Errorf("anthropic-version = %q", r.Header.Get("anthropic-version"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"model": "claude-test",
			"content": [{"type": "text", "text": "{\"overview\":"}, {"type": "text", "text": "\"ok\"}"}],
			"usage": {"input_tokens": 10, "output_tokens": 20}
		}`)) //nolint:errcheck
	}))
	defer server.Close()

	p := NewClaudeProvider("test-key", "claude-test")
	p.client = newTestClient(server.URL)

	req := NewRequest("How am I doing?")
	req.System = "You are a coach."
	resp, err := p.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != `{"overview":"ok"}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 30 {
		t.Errorf("total tokens = %d, want 30", resp.Usage.TotalTokens)
	}
	if got.Model != "claude-test" || got.System != "You are a coach." || len(got.Messages) != 1 {
		t.Errorf("request = %+v", got)
	}
	if got.MaxTokens != req.MaxTokens {
		t.Errorf("max_tokens = %d, want %d", got.MaxTokens, req.MaxTokens)
	}
}

func TestClaudeProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`)) //nolint:errcheck
	}))
	defer server.Close()

	p := NewClaudeProvider("bad", "")
	p.client = newTestClient(server.URL)

	_, err := p.Complete(context.Background(), NewRequest("hi"))
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.StatusCode != http.StatusUnauthorized || pe.Provider != "claude" {
		t.Errorf("error = %+v", pe)
	}
	if !IsAuthError(err) {
		t.Error("IsAuthError should be true for 401")
	}
}

func TestClaudeProvider_EmptyPrompt(t *testing.T) {
	p := NewClaudeProvider("k", "")
	if _, err := p.Complete(context.Background(), &Request{}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}
