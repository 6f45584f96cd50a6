package llmprovider

import "testing"

func TestEnsurePayloadDictCleanJSON(t *testing.T) {
	raw := `{"provider_id":"openai:gpt-4o","approval_argument":{"argument":"a","evidence_ids":["x"],"confidence":0.6},"refusal_argument":{"argument":"b","evidence_ids":[],"confidence":0.4}}`
	p, err := EnsurePayloadDict(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ProviderID != "openai:gpt-4o" {
		t.Fatalf("ProviderID = %q", p.ProviderID)
	}
	if p.Approval.Confidence != 0.6 {
		t.Fatalf("Approval.Confidence = %v", p.Approval.Confidence)
	}
}

func TestEnsurePayloadDictStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"provider_id\":\"x\",\"approval_argument\":{\"argument\":\"a\",\"evidence_ids\":[],\"confidence\":0.5},\"refusal_argument\":{\"argument\":\"b\",\"evidence_ids\":[],\"confidence\":0.5}}\n```"
	p, err := EnsurePayloadDict(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ProviderID != "x" {
		t.Fatalf("ProviderID = %q", p.ProviderID)
	}
}

func TestEnsurePayloadDictTrailingComma(t *testing.T) {
	raw := `{"provider_id":"x","approval_argument":{"argument":"a","evidence_ids":[],"confidence":0.5,},"refusal_argument":{"argument":"b","evidence_ids":[],"confidence":0.5,},}`
	p, err := EnsurePayloadDict(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Approval.Argument != "a" {
		t.Fatalf("Approval.Argument = %q", p.Approval.Argument)
	}
}

func TestEnsurePayloadDictEmbeddedInProse(t *testing.T) {
	raw := `Sure, here is my answer: {"provider_id":"x","approval_argument":{"argument":"a","evidence_ids":[],"confidence":0.5},"refusal_argument":{"argument":"b","evidence_ids":[],"confidence":0.5}} Hope that helps!`
	p, err := EnsurePayloadDict(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ProviderID != "x" {
		t.Fatalf("ProviderID = %q", p.ProviderID)
	}
}

func TestEnsurePayloadDictUnrecoverable(t *testing.T) {
	if _, err := EnsurePayloadDict("not json at all, no braces here"); err == nil {
		t.Fatal("expected error for text with no JSON object")
	}
}

func TestValidateAndTruncatePadsShortArgument(t *testing.T) {
	got := validateAndTruncate("too short")
	if len(got) < minArgumentLen {
		t.Fatalf("padded argument still short: %d chars", len(got))
	}
}

func TestValidateAndTruncateCutsLongArgument(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "This is a sentence that repeats many times. "
	}
	got := validateAndTruncate(long)
	if len(got) > maxArgumentLen {
		t.Fatalf("truncated argument still too long: %d chars", len(got))
	}
}
