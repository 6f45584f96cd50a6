package panel

import (
	"math"
	"regexp"
	"strings"
)

// directionalPatterns strip directional modifiers from claim text so
// complementary claims ("X is rising" / "X is falling") share one research
// pool, per the direction-neutralization rule.
var directionalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(is|was|has been)\s+(rising|increasing|up)\b`),
	regexp.MustCompile(`(?i)\b(is|was)\s+(declining|falling|down)\b`),
	regexp.MustCompile(`(?i)\b(rising|increasing|declining|falling)\b`),
}

// NeutralizeDirection removes directional modifiers from text. If the
// result shrinks below max(10, 0.5*len(text)), the original text is
// returned unchanged, since an over-aggressive strip would leave too little
// signal for research queries.
func NeutralizeDirection(text string) string {
	out := text
	for _, p := range directionalPatterns {
		out = p.ReplaceAllString(out, "")
	}
	out = collapseSpaces(out)

	minLen := int(math.Max(10, 0.5*float64(len(text))))
	if len(out) < minLen {
		return text
	}
	return out
}

func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
