package engine

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

var _ RemoteGenerator = (*GeminiClient)(nil)

// GeminiClient implements RemoteGenerator using the Google Gen AI SDK. One
// SDK client is kept per credential.
type GeminiClient struct {
	model      string
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	clients map[string]*genai.Client
}

// GeminiOption configures the Gemini client.
type GeminiOption func(*GeminiClient)

// WithGeminiModel sets the model name.
func WithGeminiModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithGeminiBaseURL points the SDK at another endpoint.
func WithGeminiBaseURL(url string) GeminiOption {
	return func(c *GeminiClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithGeminiHTTPClient replaces the HTTP client handed to the SDK.
func WithGeminiHTTPClient(hc *http.Client) GeminiOption {
	return func(c *GeminiClient) { c.httpClient = hc }
}

// NewGeminiClient creates a new Google Gemini model client.
func NewGeminiClient(opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		model: "gemini-2.0-flash",
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		clients: make(map[string]*genai.Client),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *GeminiClient) client(ctx context.Context, cred Credential) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.clients[cred.Value()]; ok {
		return cl, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:     cred.Value(),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	cl, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.clients[cred.Value()] = cl
	return cl, nil
}

// Generate sends one generateContent request with the given key.
func (c *GeminiClient) Generate(ctx context.Context, cred Credential, p Prompt) (string, error) {
	cl, err := c.client(ctx, cred)
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}

	var config *genai.GenerateContentConfig
	if p.SystemInstruction != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(p.SystemInstruction, genai.RoleUser),
		}
	}

	resp, err := cl.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(p.Text, genai.RoleUser)}, config)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: %w", errEmptyResponse)
	}
	return text, nil
}
