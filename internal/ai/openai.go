package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Endpoints for the OpenAI-compatible chat completions providers.
const (
	openAIAPIURL     = "https://api.openai.com/v1/chat/completions"
	groqAPIURL       = "https://api.groq.com/openai/v1/chat/completions"
	openRouterAPIURL = "https://openrouter.ai/api/v1/chat/completions"
)

// OpenAICompatProvider implements Provider for any chat completions API that
// speaks the OpenAI wire format. Only the endpoint and name differ.
type OpenAICompatProvider struct {
	name         string
	url          string
	apiKey       string
	defaultModel string
	headers      map[string]string
	client       *http.Client
}

func init() {
	compat := []struct {
		name, url, model string
		headers          map[string]string
	}{
		{"openai", openAIAPIURL, "gpt-4o-mini", nil},
		{"groq", groqAPIURL, "llama-3.3-70b-versatile", nil},
		{"openrouter", openRouterAPIURL, "openrouter/auto", map[string]string{
			"HTTP-Referer": "https://github.com/rnwolfe/lifeos",
			"X-Title":      "lifeos",
		}},
	}
	for _, p := range compat {
		p := p
		Register(p.name, p.model, func(apiKey, model string) (Provider, error) {
			if model == "" {
				model = p.model
			}
			return &OpenAICompatProvider{
				name:         p.name,
				url:          p.url,
				apiKey:       apiKey,
				defaultModel: model,
				headers:      p.headers,
				client:       &http.Client{Timeout: requestTimeout},
			}, nil
		})
	}
}

func (o *OpenAICompatProvider) Name() string { return o.name }

func (o *OpenAICompatProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, &ProviderError{Provider: o.name, Message: "invalid request", Err: err}
	}

	model := req.Model
	if model == "" {
		model = o.defaultModel
	}
	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, &ProviderError{Provider: o.name, Message: "encoding request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: o.name, Message: "creating request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	for k, v := range o.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: o.name, Message: "sending request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		msg := fmt.Sprintf("API error (status %d)", resp.StatusCode)
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error.Message != "" {
			msg = fmt.Sprintf("%s (status %d)", errResp.Error.Message, resp.StatusCode)
		}
		return nil, &ProviderError{Provider: o.name, Message: msg, StatusCode: resp.StatusCode}
	}

	var apiResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &ProviderError{Provider: o.name, Message: "decoding response", Err: err}
	}
	if len(apiResp.Choices) == 0 {
		return nil, &ProviderError{Provider: o.name, Message: "response contained no choices"}
	}

	return &Response{
		Content: apiResp.Choices[0].Message.Content,
		Model:   apiResp.Model,
		Usage: Usage{
			PromptTokens:     apiResp.Usage.PromptTokens,
			CompletionTokens: apiResp.Usage.CompletionTokens,
			TotalTokens:      apiResp.Usage.TotalTokens,
		},
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
