package engine

import (
	"context"
	"fmt"
)

// Prompt is a provider-agnostic request to the remote model.
type Prompt struct {
	Text              string
	SystemInstruction string
}

// RemoteGenerator abstracts one call to a generative model with one
// credential. Implementations must not retry; failover across credentials
// belongs to Generator.
type RemoteGenerator interface {
	Generate(ctx context.Context, cred Credential, p Prompt) (string, error)
}

// Provider names accepted by NewRemote.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderStub   = "stub"
)

// NewRemote returns the RemoteGenerator for a provider. model and baseURL
// may be empty to keep the client defaults.
func NewRemote(provider, model, baseURL string) (RemoteGenerator, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiClient(WithGeminiModel(model), WithGeminiBaseURL(baseURL)), nil
	case ProviderOpenAI:
		return NewOpenAIClient(WithModel(model), WithBaseURL(baseURL)), nil
	case ProviderClaude:
		return NewClaudeClient(WithClaudeModel(model), WithClaudeBaseURL(baseURL)), nil
	case ProviderStub:
		return StubGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
