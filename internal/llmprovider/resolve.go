package llmprovider

import "strings"

// Keys bundles the provider API keys and optional base-URL overrides read
// from configuration/environment.
type Keys struct {
	OpenAIKey     string
	OpenAIBaseURL string
	XAIKey        string
	XAIBaseURL    string
	GeminiKey     string
	GeminiBaseURL string
	AnthropicKey  string
}

// ResolveAdapter dispatches a model name to a concrete Adapter by prefix,
// mirroring original_source/panel/run_panel.py's _resolve_adapter. Unknown
// prefixes fall back to a StubAdapter so the panel never errors on an
// unrecognized model string.
func ResolveAdapter(model string, keys Keys) Adapter {
	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "gpt-") || strings.HasPrefix(lower, "o1") || strings.HasPrefix(lower, "o3"):
		return NewOpenAIAdapter(keys.OpenAIKey, keys.OpenAIBaseURL, model)
	case strings.HasPrefix(lower, "grok"):
		return NewXAIAdapter(keys.XAIKey, keys.XAIBaseURL, model)
	case strings.HasPrefix(lower, "gemini"):
		return NewGeminiAdapter(keys.GeminiKey, keys.GeminiBaseURL, model)
	case strings.HasPrefix(lower, "claude"):
		return NewAnthropicAdapter(keys.AnthropicKey, model)
	default:
		return &StubAdapter{Model: model, Provider: "stub", ProviderBase: 0.5}
	}
}
