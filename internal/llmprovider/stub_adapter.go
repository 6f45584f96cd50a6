package llmprovider

import (
	"context"

	"github.com/google/uuid"
	"github.com/truceio/adjudicator/internal/claim"
)

// StubAdapter is the null adapter from the design notes: it never invokes a
// real provider and always returns a deterministic stub payload. Used in
// tests and by ResolveAdapter for model names with no known provider prefix.
// A known provider with no API key still gets its concrete adapter, whose
// Invoke fails with ErrNoAPIKey and falls back to GenerateStubPayload.
type StubAdapter struct {
	Model        string
	Provider     string
	ProviderBase float64
}

func (s *StubAdapter) ProviderID() string { return s.Provider + ":" + s.Model }

func (s *StubAdapter) Evaluate(_ context.Context, prompt claim.NormalizedPrompt, evidenceLookup map[string]uuid.UUID) claim.PanelModelVerdict {
	return GenerateStubPayload(s.ProviderID(), s.Model, prompt, evidenceLookup, s.ProviderBase)
}

// Factory functions for the four named providers, used by the panel
// orchestrator to resolve a model string to a concrete Adapter by prefix,
// mirroring original_source/panel/run_panel.py's _resolve_adapter.

// NewOpenAIAdapter builds the OpenAI-compatible adapter.
func NewOpenAIAdapter(apiKey, baseURL, model string) Adapter {
	return NewAdapter(NewOpenAICompatibleInvoker("openai", apiKey, baseURL, model), model, BaseOpenAI)
}

// NewXAIAdapter builds the xAI adapter (OpenAI-compatible wire shape).
func NewXAIAdapter(apiKey, baseURL, model string) Adapter {
	return NewAdapter(NewOpenAICompatibleInvoker("xai", apiKey, baseURL, model), model, BaseXAI)
}

// NewGeminiAdapter builds the Gemini adapter against its OpenAI-compatible endpoint.
func NewGeminiAdapter(apiKey, baseURL, model string) Adapter {
	return NewAdapter(NewOpenAICompatibleInvoker("gemini", apiKey, baseURL, model), model, BaseGemini)
}

// NewAnthropicAdapter builds the bespoke Anthropic Messages-API adapter.
func NewAnthropicAdapter(apiKey, model string) Adapter {
	return NewAdapter(NewAnthropicInvoker(apiKey, model), model, BaseAnthropic)
}
