// Package citation implements the Citation Extractor (C10): scanning
// argument text for inline evidence-ID markers, emitting character-range
// CitationLinks, and producing a cleaned display text with markers removed.
//
// Grounded on original_source/panel/run_panel.py's _map_citations and the
// exact sentence-boundary backtracking rule.
package citation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/truceio/adjudicator/internal/claim"
)

// uuidPattern matches a v4-shaped UUID string (loosely: any RFC 4122 layout,
// since provider output does not reliably set the version nibble).
const uuidPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

var markerPattern = regexp.MustCompile(`\((?:evidence_id:\s*)?(` + uuidPattern + `)\)`)

// Extract scans text for `(uuid)` and `(evidence_id: uuid)` markers, maps
// each to a real evidence.UUID via lookup (unknown strings dropped), and
// returns the CitationLinks plus a cleaned display text with markers
// stripped and whitespace collapsed.
func Extract(text string, lookup map[string]uuid.UUID) ([]claim.CitationLink, string) {
	cleaned := collapseWhitespace(markerPattern.ReplaceAllString(text, ""))

	matches := markerPattern.FindAllStringSubmatchIndex(text, -1)
	links := make([]claim.CitationLink, 0, len(matches))

	cursor := 0
	for _, m := range matches {
		markerStart := m[0]
		idStart, idEnd := m[2], m[3]
		idStr := text[idStart:idEnd]
		id, ok := lookup[strings.ToLower(idStr)]
		if !ok {
			id, ok = lookup[idStr]
		}
		if !ok {
			continue
		}
		sentenceStart := findSentenceStart(text, markerStart)
		sentence := collapseWhitespace(markerPattern.ReplaceAllString(text[sentenceStart:markerStart], ""))
		if sentence == "" {
			continue
		}

		idx := strings.Index(cleaned[cursor:], sentence)
		if idx < 0 {
			idx = strings.Index(cleaned, sentence)
			if idx < 0 {
				continue
			}
		} else {
			idx += cursor
		}
		start, end := idx, idx+len(sentence)
		cursor = end

		links = append(links, claim.CitationLink{
			Start:      start,
			End:        end,
			EvidenceID: id,
			Text:       sentence,
		})
	}

	return links, cleaned
}

// findSentenceStart scans backward from pos for the most recent sentence
// boundary: a '.', '!', or '?' followed by whitespace, guarding against
// decimals/abbreviations by requiring the character preceding the
// terminator not be a digit.
func findSentenceStart(text string, pos int) int {
	for i := pos - 1; i > 0; i-- {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && i+1 < len(text) && isSpace(text[i+1]) {
			if i > 0 && isDigit(text[i-1]) {
				continue
			}
			start := i + 2
			for start < len(text) && isSpace(text[start]) {
				start++
			}
			if start <= pos {
				return start
			}
		}
	}
	return 0
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// BuildLookup restricts a set of Evidence IDs to the string-keyed lookup map
// adapters need, per the "evidence lookup" contract.
func BuildLookup(ids []uuid.UUID) map[string]uuid.UUID {
	out := make(map[string]uuid.UUID, len(ids))
	for _, id := range ids {
		out[id.String()] = id
	}
	return out
}
