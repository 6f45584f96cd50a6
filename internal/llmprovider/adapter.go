// Package llmprovider is the Provider Adapter Layer (C5): a uniform
// interface over OpenAI-compatible, Gemini, Anthropic, and stub backends,
// with response parsing, JSON repair, and structured fallback.
//
// Grounded on the internal/llm.Client interface shape (minimal
// method surface wrapping a chat-completion call) and
// original_source/panel/run_panel.py's BaseProviderAdapter variants.
package llmprovider

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/truceio/adjudicator/internal/citation"
	"github.com/truceio/adjudicator/internal/claim"
)

// SystemPrompt is sent with every provider call: JSON-only output, exact
// field shape, word-count bounds, a confidence-asymmetry rule, and the
// inline citation requirement.
const SystemPrompt = `You are one member of an independent adjudication panel. ` +
	`Respond with JSON only: no markdown code fences, no comments, no prose outside the JSON object. ` +
	`Emit exactly these top-level fields: provider_id (string), ` +
	`approval_argument {argument, evidence_ids, confidence}, ` +
	`refusal_argument {argument, evidence_ids, confidence}. ` +
	`Each argument must be 100-400 words. If one side's confidence exceeds 0.7, the other must be below 0.3; ` +
	`if the evidence is genuinely ambiguous, both confidences should be near 0.5. ` +
	`Cite every piece of evidence you use at least once across the two arguments, using an inline (uuid) ` +
	`marker immediately after the sentence that relies on it.`

const placeholderText = "This model's response could not be parsed and no verdict was produced."

// Invoker is the minimal capability an adapter needs from its transport:
// send the normalized prompt and system prompt, get back raw provider text.
// This is the "invoke(prompt) -> bytes/text" surface from the design notes.
type Invoker interface {
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	ProviderID() string
}

// Adapter is the polymorphic interface every provider variant implements.
type Adapter interface {
	// Evaluate runs the full pipeline: invoke, parse/repair, extract &
	// validate, citation extraction, failure classification.
	Evaluate(ctx context.Context, prompt claim.NormalizedPrompt, evidenceLookup map[string]uuid.UUID) claim.PanelModelVerdict
	ProviderID() string
}

// genericAdapter implements Adapter's pipeline once, in terms of an Invoker,
// so OpenAI/xAI/Gemini/Anthropic variants only need to supply transport.
type genericAdapter struct {
	invoker      Invoker
	model        string
	providerBase float64 // provider-specific base tendency used by the stub fallback
}

// NewAdapter wraps an Invoker (transport) into a full Adapter.
func NewAdapter(invoker Invoker, model string, providerBase float64) Adapter {
	return &genericAdapter{invoker: invoker, model: model, providerBase: providerBase}
}

func (a *genericAdapter) ProviderID() string { return a.invoker.ProviderID() }

func (a *genericAdapter) Evaluate(ctx context.Context, prompt claim.NormalizedPrompt, evidenceLookup map[string]uuid.UUID) claim.PanelModelVerdict {
	userPrompt := mustMarshalPrompt(prompt)

	const reservedOutputTokens = 2000
	promptTokens := estimateTokens(SystemPrompt) + estimateTokens(userPrompt)
	if !fitsContext(a.model, reservedOutputTokens, promptTokens) {
		log.Warn().Str("model", a.model).Int("estimated_prompt_tokens", promptTokens).
			Msg("normalized prompt may exceed model context window")
	}

	raw, err := a.invoker.Invoke(ctx, SystemPrompt, userPrompt)
	if err != nil {
		if shouldFailOnError(err) {
			return failedVerdict(a.ProviderID(), a.model, err)
		}
		return GenerateStubPayload(a.ProviderID(), a.model, prompt, evidenceLookup, a.providerBase)
	}

	payload, err := EnsurePayloadDict(raw)
	if err != nil {
		if shouldFailOnError(err) {
			return failedVerdict(a.ProviderID(), a.model, err)
		}
		return GenerateStubPayload(a.ProviderID(), a.model, prompt, evidenceLookup, a.providerBase)
	}

	return buildVerdict(a.ProviderID(), a.model, payload, evidenceLookup, raw)
}

// fatalPatterns are error substrings that indicate the response is beyond
// repair and the verdict must be recorded as failed.
var fatalPatterns = []string{
	"could not parse provider payload",
	"expecting value:",
	"unterminated string",
}

func shouldFailOnError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, p := range fatalPatterns {
		if strings.Contains(msg, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func failedVerdict(providerID, model string, err error) claim.PanelModelVerdict {
	return claim.PanelModelVerdict{
		ProviderID: providerID,
		Model:      model,
		Approval:   claim.ArgumentWithEvidence{Argument: placeholderText, Confidence: 0},
		Refusal:    claim.ArgumentWithEvidence{Argument: placeholderText, Confidence: 0},
		Failed:     true,
		Error:      err.Error(),
	}
}

// ErrNoAPIKey is the Config-kind error adapters construct when a provider
// key is missing; it is always non-fatal (synthesize a stub).
var ErrNoAPIKey = errors.New("llmprovider: api key not configured")

// buildVerdict extracts approval/refusal from a parsed payload, applies
// validation (clamp/truncate/pad), maps evidence_ids through the lookup,
// and runs citation extraction on both arguments.
func buildVerdict(providerID, model string, payload ParsedPayload, evidenceLookup map[string]uuid.UUID, raw string) claim.PanelModelVerdict {
	approval := buildArgument(payload.Approval, evidenceLookup)
	refusal := buildArgument(payload.Refusal, evidenceLookup)

	return claim.PanelModelVerdict{
		ProviderID: providerID,
		Model:      model,
		Approval:   approval,
		Refusal:    refusal,
		RawPayload: raw,
		Failed:     false,
	}
}

func buildArgument(p ParsedArgument, lookup map[string]uuid.UUID) claim.ArgumentWithEvidence {
	text := validateAndTruncate(p.Argument)
	confidence := clamp01(p.Confidence)

	ids := make([]uuid.UUID, 0, len(p.EvidenceIDs))
	seen := make(map[uuid.UUID]struct{})
	for _, s := range p.EvidenceIDs {
		id, ok := lookup[s]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	links, cleaned := citation.Extract(text, lookup)
	return claim.ArgumentWithEvidence{
		Argument:    cleaned,
		EvidenceIDs: ids,
		Citations:   links,
		Confidence:  confidence,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
