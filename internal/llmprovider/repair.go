package llmprovider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParsedArgument is one side (approval/refusal) of a provider's raw payload,
// before evidence-id mapping and citation extraction.
type ParsedArgument struct {
	Argument    string   `json:"argument"`
	EvidenceIDs []string `json:"evidence_ids"`
	Confidence  float64  `json:"confidence"`
}

// ParsedPayload is the provider's decoded response shape.
type ParsedPayload struct {
	ProviderID string         `json:"provider_id"`
	Approval   ParsedArgument `json:"approval_argument"`
	Refusal    ParsedArgument `json:"refusal_argument"`
}

var codeFencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// EnsurePayloadDict strips fences, tries a direct
// parse, fall back to the repairer on the full text, then extract the
// outermost `{...}` block and repair that.
func EnsurePayloadDict(raw string) (ParsedPayload, error) {
	text := stripCodeFences(raw)

	if payload, err := tryParse(text); err == nil {
		return payload, nil
	}

	repaired := repairJSON(text)
	if payload, err := tryParse(repaired); err == nil {
		return payload, nil
	}

	block, ok := extractJSONBlock(text)
	if !ok {
		return ParsedPayload{}, fmt.Errorf("llmprovider: could not parse provider payload: no JSON object found")
	}
	repairedBlock := repairJSON(block)
	payload, err := tryParse(repairedBlock)
	if err != nil {
		return ParsedPayload{}, fmt.Errorf("llmprovider: could not parse provider payload: %w", err)
	}
	return payload, nil
}

func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := codeFencePattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

func tryParse(text string) (ParsedPayload, error) {
	var p ParsedPayload
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&p); err != nil {
		return ParsedPayload{}, err
	}
	return p, nil
}

// extractJSONBlock finds the outermost balanced `{...}` substring, tolerant
// of braces inside string literals.
func extractJSONBlock(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

var (
	lineCommentPattern  = regexp.MustCompile(`//[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	multiCommaPattern    = regexp.MustCompile(`,\s*,+`)
	adjacentStringsPattern = regexp.MustCompile(`"\s*\n?\s*"`)
	adjacentObjectsPattern = regexp.MustCompile(`}\s*{`)
	adjacentArraysPattern  = regexp.MustCompile(`]\s*\[`)
	literalThenKeyPattern  = regexp.MustCompile(`(true|false|null|[0-9.]+)\s*\n?\s*"`)
)

// repairJSON applies the tolerant-repair rules, in order.
func repairJSON(text string) string {
	s := text
	s = lineCommentPattern.ReplaceAllString(s, "")
	s = blockCommentPattern.ReplaceAllString(s, "")
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	s = multiCommaPattern.ReplaceAllString(s, ",")
	s = adjacentStringsPattern.ReplaceAllString(s, `", "`)
	s = adjacentObjectsPattern.ReplaceAllString(s, "},{")
	s = adjacentArraysPattern.ReplaceAllString(s, "],[")
	s = literalThenKeyPattern.ReplaceAllString(s, `$1, "`)
	return strings.TrimSpace(s)
}

const (
	minArgumentLen = 50
	maxArgumentLen = 2000
)

var sentenceEnd = regexp.MustCompile(`[.!?]`)

// validateAndTruncate applies the smart-truncate and pad rules.
func validateAndTruncate(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > maxArgumentLen {
		text = smartTruncate(text, maxArgumentLen)
	}
	if len(text) < minArgumentLen {
		text = padArgument(text)
	}
	return text
}

// smartTruncate cuts at a sentence boundary if one falls at or after 70% of
// the limit; otherwise at a word boundary; otherwise a hard cut with "...".
func smartTruncate(text string, limit int) string {
	window := text[:limit]
	cutoff := int(float64(limit) * 0.7)

	locs := sentenceEnd.FindAllStringIndex(window, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		end := locs[i][1]
		if end >= cutoff {
			return strings.TrimSpace(text[:end])
		}
	}

	if idx := strings.LastIndexByte(window, ' '); idx >= cutoff {
		return strings.TrimSpace(text[:idx])
	}

	return strings.TrimSpace(window[:limit-3]) + "..."
}

// fillerSentences are appended deterministically (in order, repeating if
// necessary) until the argument reaches the minimum length.
var fillerSentences = []string{
	" Additional context from the gathered evidence supports this assessment.",
	" No further corroborating detail was available at evaluation time.",
}

func padArgument(text string) string {
	i := 0
	for len(text) < minArgumentLen {
		text += fillerSentences[i%len(fillerSentences)]
		i++
	}
	return text
}

// mustMarshalPrompt serializes the normalized prompt to the JSON string sent
// as the user message; this is an internal helper, expected never to fail
// since NormalizedPrompt fields are all directly json-marshalable.
func mustMarshalPrompt(prompt interface{}) string {
	b, err := json.Marshal(prompt)
	if err != nil {
		return "{}"
	}
	return string(b)
}
