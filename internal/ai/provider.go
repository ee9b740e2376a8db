// Package ai talks to hosted language models. Only single-shot completions
// are needed: insight prompts go out and JSON comes back.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// Provider is the interface that all AI providers must implement.
type Provider interface {
	// Name returns the provider name (e.g., "claude", "groq").
	Name() string

	// Complete sends a prompt and returns the complete response.
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// Request represents an AI completion request.
type Request struct {
	// Prompt is the user's input text.
	Prompt string

	// System is an optional system message to set context.
	System string

	// Model is an optional model override (if empty, uses provider default).
	Model string

	MaxTokens   int
	Temperature float64
}

// NewRequest creates a request with the defaults insight prompts use.
func NewRequest(prompt string) *Request {
	return &Request{
		Prompt:      prompt,
		MaxTokens:   2048,
		Temperature: 0.4,
	}
}

// Validate rejects requests that no provider would accept.
func (r *Request) Validate() error {
	if r == nil || r.Prompt == "" {
		return errors.New("prompt must not be empty")
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max tokens must be positive, got %d", r.MaxTokens)
	}
	return nil
}

// Response represents an AI completion response.
type Response struct {
	Content string
	// Model is the model that actually answered.
	Model string
	Usage Usage
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ProviderError is returned for any failure talking to a provider.
type ProviderError struct {
	Provider   string
	Message    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Provider + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is a provider rejecting the API key.
func IsAuthError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && (pe.StatusCode == 401 || pe.StatusCode == 403)
}
