package engine

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

var _ RemoteGenerator = (*ClaudeClient)(nil)

// ClaudeClient implements RemoteGenerator using the Anthropic Messages API.
type ClaudeClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// ClaudeOption configures the Claude client.
type ClaudeOption func(*ClaudeClient)

// WithClaudeModel sets the model name.
func WithClaudeModel(model string) ClaudeOption {
	return func(c *ClaudeClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithClaudeBaseURL overrides the API endpoint (default: https://api.anthropic.com/v1).
func WithClaudeBaseURL(url string) ClaudeOption {
	return func(c *ClaudeClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// NewClaudeClient creates a new Anthropic Claude model client.
func NewClaudeClient(opts ...ClaudeOption) *ClaudeClient {
	c := &ClaudeClient{
		baseURL: "https://api.anthropic.com/v1",
		model:   "claude-sonnet-4-20250514",
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends one Messages API request with the given key.
func (c *ClaudeClient) Generate(ctx context.Context, cred Credential, p Prompt) (string, error) {
	body, err := json.Marshal(claudeRequest{
		Model:       c.model,
		MaxTokens:   2048,
		Temperature: 0.9,
		System:      p.SystemInstruction,
		Messages: []claudeMessage{
			{Role: "user", Content: p.Text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	text, err := c.doRequest(ctx, cred, body)
	if err != nil {
		return "", fmt.Errorf("claude: %w", err)
	}
	return text, nil
}

func (c *ClaudeClient) doRequest(ctx context.Context, cred Credential, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", cred.Value())
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &apiError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(respBody, &claudeResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if claudeResp.Error != nil {
		return "", fmt.Errorf("api error: %s", claudeResp.Error.Message)
	}

	for _, block := range claudeResp.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}
