package llmprovider

import (
	"context"
	"testing"

	"github.com/truceio/adjudicator/internal/claim"
)

func TestStubAdapterProviderID(t *testing.T) {
	s := &StubAdapter{Model: "gpt-4o", Provider: "openai"}
	if got, want := s.ProviderID(), "openai:gpt-4o"; got != want {
		t.Fatalf("ProviderID() = %q, want %q", got, want)
	}
}

func TestStubAdapterEvaluateNeverFails(t *testing.T) {
	s := &StubAdapter{Model: "gpt-4o", Provider: "openai", ProviderBase: BaseOpenAI}
	prompt := claim.NormalizedPrompt{
		Claim: claim.PromptClaim{Text: "Violent crime in Canada is rising sharply this year."},
	}
	v := s.Evaluate(context.Background(), prompt, nil)
	if v.Failed {
		t.Fatal("stub adapter must never produce a failed verdict")
	}
	if v.ProviderID != "openai:gpt-4o" {
		t.Fatalf("ProviderID = %q", v.ProviderID)
	}
}

func TestProviderFactoriesProduceExpectedProviderIDs(t *testing.T) {
	cases := []struct {
		name  string
		adapter Adapter
		want  string
	}{
		{"openai", NewOpenAIAdapter("key", "", "gpt-4o"), "openai:gpt-4o"},
		{"xai", NewXAIAdapter("key", "", "grok-3"), "xai:grok-3"},
		{"gemini", NewGeminiAdapter("key", "", "gemini-1.5-pro"), "gemini:gemini-1.5-pro"},
		{"anthropic", NewAnthropicAdapter("key", "claude-3-5-sonnet"), "anthropic:claude-3-5-sonnet"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.adapter.ProviderID(); got != tc.want {
				t.Fatalf("ProviderID() = %q, want %q", got, tc.want)
			}
		})
	}
}
