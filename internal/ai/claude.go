package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rnwolfe/lifeos/internal/config"
)

const (
	claudeAPIURL     = "https://api.anthropic.com/v1/messages"
	claudeAPIVersion = "2023-06-01"
	defaultMaxTokens = 2048
	requestTimeout   = 90 * time.Second
)

// ClaudeProvider implements Provider for Anthropic's messages API.
type ClaudeProvider struct {
	apiKey       string
	defaultModel string
	client       *http.Client
}

func init() {
	Register("claude", config.DefaultModel, func(apiKey, model string) (Provider, error) {
		return NewClaudeProvider(apiKey, model), nil
	})
}

// NewClaudeProvider creates a Claude provider. An empty model selects
// config.DefaultModel.
func NewClaudeProvider(apiKey, model string) *ClaudeProvider {
	if model == "" {
		model = config.DefaultModel
	}
	return &ClaudeProvider{
		apiKey:       apiKey,
		defaultModel: model,
		client:       &http.Client{Timeout: requestTimeout},
	}
}

func (c *ClaudeProvider) Name() string { return "claude" }

func (c *ClaudeProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, &ProviderError{Provider: c.Name(), Message: "invalid request", Err: err}
	}
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Message: "encoding request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Message: "creating request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", claudeAPIVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Message: "sending request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}

	var apiResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &ProviderError{Provider: c.Name(), Message: "decoding response", Err: err}
	}

	var content string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	in, out := apiResp.Usage.InputTokens, apiResp.Usage.OutputTokens
	return &Response{
		Content: content,
		Model:   apiResp.Model,
		Usage:   Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out},
	}, nil
}

func (c *ClaudeProvider) buildRequest(req *Request) claudeRequest {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	return claudeRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Temperature: req.Temperature,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
	}
}

func (c *ClaudeProvider) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	msg := fmt.Sprintf("API error (status %d)", resp.StatusCode)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		msg = fmt.Sprintf("%s (status %d)", errResp.Error.Message, resp.StatusCode)
	}
	return &ProviderError{Provider: c.Name(), Message: msg, StatusCode: resp.StatusCode}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

type claudeResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
