package llmprovider

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatibleInvoker drives any OpenAI-compatible chat-completions
// endpoint — used directly for OpenAI, and pointed at alternate base URLs
// for xAI and Gemini's OpenAI-compatible surface, mirroring the
// internal/llm.Client wrapping of *openai.Client.
type OpenAICompatibleInvoker struct {
	Client     *openai.Client
	Model      string
	Provider   string // "openai" | "xai" | "gemini"
	APIKeySet  bool
}

// NewOpenAICompatibleInvoker builds an invoker against baseURL (empty means
// the public OpenAI API). APIKeySet records whether a usable key was
// supplied, so Invoke can fail fast with the config-kind error the adapter
// pipeline treats as non-fatal.
func NewOpenAICompatibleInvoker(provider, apiKey, baseURL, model string) *OpenAICompatibleInvoker {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompatibleInvoker{
		Client:    openai.NewClientWithConfig(cfg),
		Model:     model,
		Provider:  provider,
		APIKeySet: apiKey != "",
	}
}

func (o *OpenAICompatibleInvoker) ProviderID() string {
	return fmt.Sprintf("%s:%s", o.Provider, o.Model)
}

func (o *OpenAICompatibleInvoker) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !o.APIKeySet {
		return "", ErrNoAPIKey
	}
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.1,
		MaxTokens:   2000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("llmprovider: %s invocation failed: %w", o.Provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llmprovider: %s returned no choices", o.Provider)
	}
	return resp.Choices[0].Message.Content, nil
}
