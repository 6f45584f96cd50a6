package citation

import (
	"testing"

	"github.com/google/uuid"
)

func TestExtractMapsMarkerToSentence(t *testing.T) {
	id := uuid.New()
	lookup := map[string]uuid.UUID{id.String(): id}
	text := "Crime rose 12% last year. Reported burglaries doubled (" + id.String() + "). Other context follows."

	links, cleaned := Extract(text, lookup)
	if len(links) != 1 {
		t.Fatalf("len(links) = %d, want 1", len(links))
	}
	if links[0].EvidenceID != id {
		t.Fatalf("EvidenceID = %v, want %v", links[0].EvidenceID, id)
	}
	if links[0].Text != "Reported burglaries doubled" {
		t.Fatalf("Text = %q", links[0].Text)
	}
	if containsMarker(cleaned, id.String()) {
		t.Fatalf("cleaned text still contains marker: %q", cleaned)
	}
}

func TestExtractTwoCitationsAlignWithCleaned(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	lookup := map[string]uuid.UUID{id1.String(): id1, id2.String(): id2}
	text := "Crime rose 12% last year (" + id1.String() + "). Burglaries doubled since then (" + id2.String() + "). Final remark."

	links, cleaned := Extract(text, lookup)
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(links))
	}
	for i, l := range links {
		if l.End > len(cleaned) || l.Start < 0 || l.Start > l.End {
			t.Fatalf("link %d has out-of-range offsets [%d,%d) into cleaned %q", i, l.Start, l.End, cleaned)
		}
		if got := cleaned[l.Start:l.End]; got != l.Text {
			t.Fatalf("link %d: cleaned[%d:%d] = %q, want %q", i, l.Start, l.End, got, l.Text)
		}
	}
	if links[0].EvidenceID != id1 || links[1].EvidenceID != id2 {
		t.Fatal("citation order should follow marker order in the source text")
	}
	if links[1].Start < links[0].End {
		t.Fatal("second citation should not precede the end of the first in cleaned-text coordinates")
	}
}

func TestExtractDropsUnknownIDs(t *testing.T) {
	unknown := uuid.New()
	text := "A claim about something (" + unknown.String() + ")."
	links, _ := Extract(text, map[string]uuid.UUID{})
	if len(links) != 0 {
		t.Fatalf("len(links) = %d, want 0 for unmapped id", len(links))
	}
}

func TestExtractEvidenceIDPrefixForm(t *testing.T) {
	id := uuid.New()
	lookup := map[string]uuid.UUID{id.String(): id}
	text := "Some fact here (evidence_id: " + id.String() + ")."
	links, _ := Extract(text, lookup)
	if len(links) != 1 {
		t.Fatalf("len(links) = %d, want 1", len(links))
	}
}

func TestBuildLookupRoundTrips(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	lookup := BuildLookup([]uuid.UUID{id1, id2})
	if lookup[id1.String()] != id1 || lookup[id2.String()] != id2 {
		t.Fatal("BuildLookup did not round-trip both ids")
	}
}

func containsMarker(s, needle string) bool {
	for i := 0; i+len(needle) <= len(s); i++ {
		if s[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
