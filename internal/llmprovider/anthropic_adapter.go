package llmprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AnthropicInvoker speaks the Messages API directly, since no Go SDK for
// Anthropic exists in the available reference code (see DESIGN.md for the
// DESIGN.md standard-library-only justifications). Transport shape mirrors
// a hand-rolled HTTP client construction pattern used elsewhere in
// the codebase (a dedicated *http.Client per concern, single timeout).
type AnthropicInvoker struct {
	HTTPClient *http.Client
	APIKey     string
	Model      string
	BaseURL    string // defaults to https://api.anthropic.com/v1/messages
}

const defaultAnthropicBaseURL = "https://api.anthropic.com/v1/messages"
const anthropicAPIVersion = "2023-06-01"

// NewAnthropicInvoker returns an invoker with a provider-appropriate timeout.
func NewAnthropicInvoker(apiKey, model string) *AnthropicInvoker {
	return &AnthropicInvoker{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    defaultAnthropicBaseURL,
	}
}

func (a *AnthropicInvoker) ProviderID() string {
	return "anthropic:" + a.Model
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *AnthropicInvoker) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if a.APIKey == "" {
		return "", ErrNoAPIKey
	}

	reqBody, err := json.Marshal(anthropicRequest{
		Model:       a.Model,
		System:      systemPrompt,
		MaxTokens:   2000,
		Temperature: 0.1,
		Messages:    []anthropicMessage{{Role: "user", Content: userPrompt}},
	})
	if err != nil {
		return "", fmt.Errorf("llmprovider: anthropic request encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("llmprovider: anthropic request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	hc := a.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("llmprovider: anthropic invocation failed: %w", err)
	}
	defer resp.Body.Close()

	var body anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("llmprovider: anthropic response decode: %w", err)
	}
	if body.Error != nil {
		return "", fmt.Errorf("llmprovider: anthropic error: %s", body.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("llmprovider: anthropic status %d", resp.StatusCode)
	}
	if len(body.Content) == 0 {
		return "", fmt.Errorf("llmprovider: anthropic returned no content blocks")
	}
	return body.Content[0].Text, nil
}
