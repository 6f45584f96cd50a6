package llmprovider

import (
	"math"
	"regexp"
	"strings"
)

// Token/context-budget estimation, adapted from an
// internal/budget package: a rough chars-per-token heuristic plus a table
// of known model context windows, used here to warn (never to fail a
// panel) when a normalized prompt is likely to overflow a model's window.

// estimateTokens converts a character count into an estimated token count
// (~4 chars/token), ceiling-rounded to stay conservative.
func estimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return int(math.Ceil(float64(len(s)) / 4.0))
}

// modelContextTokens returns an estimated maximum context window for model,
// falling back to suffix heuristics and a conservative default.
func modelContextTokens(model string) int {
	name := strings.ToLower(strings.TrimSpace(model))
	if name == "" {
		return 8192
	}
	if v, ok := knownModelContext[name]; ok {
		return v
	}
	switch {
	case suffixRe.MatchString(name) && strings.HasSuffix(name, "1m"):
		return 1_000_000
	case strings.Contains(name, "200k"):
		return 200_000
	case strings.Contains(name, "128k"):
		return 128_000
	case strings.Contains(name, "-mini"):
		return 128_000
	default:
		return 8192
	}
}

// headroomTokens is the larger of 5% of the model's context or a 512-token
// floor, reserved against tokenizer/framing overhead.
func headroomTokens(model string) int {
	max := modelContextTokens(model)
	dyn := int(math.Ceil(float64(max) * 0.05))
	if dyn < 512 {
		return 512
	}
	return dyn
}

// fitsContext reports whether promptTokens plus reservedForOutput and
// headroom fit inside model's context window.
func fitsContext(model string, reservedForOutput, promptTokens int) bool {
	max := modelContextTokens(model)
	used := reservedForOutput + headroomTokens(model) + promptTokens
	return used <= max
}

var knownModelContext = map[string]int{
	"gpt-4o":               128_000,
	"gpt-4o-mini":          128_000,
	"gpt-4-turbo":          128_000,
	"gpt-3.5-turbo":        16_384,
	"o1":                   200_000,
	"o3":                   200_000,
	"claude-sonnet-4-20250514": 200_000,
	"claude-3-5-sonnet":    200_000,
	"claude-3-opus":        200_000,
	"grok-3":               128_000,
	"grok-2":               128_000,
	"gemini-2.0-flash-exp": 1_000_000,
	"gemini-1.5-pro":       2_000_000,
}

var suffixRe = regexp.MustCompile(`(?i)(\d+)(k|m)$`)
