// Package claim holds the core data model for the adjudication engine:
// Claim and everything it owns (Evidence, PanelResult history), plus the
// smaller value types that flow between components.
package claim

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PanelVerdict is the discrete outcome derived from an aggregated PanelSummary.
type PanelVerdict string

const (
	VerdictTrue    PanelVerdict = "TRUE"
	VerdictFalse   PanelVerdict = "FALSE"
	VerdictMixed   PanelVerdict = "MIXED"
	VerdictUnknown PanelVerdict = "UNKNOWN"
)

// DerivedVerdict is the majority-vote verdict attached to a VerificationRecord,
// distinct from PanelVerdict because it is computed from prior ModelAssessments
// rather than from a single fresh PanelSummary.
type DerivedVerdict string

const (
	DerivedSupports  DerivedVerdict = "SUPPORTS"
	DerivedRefutes   DerivedVerdict = "REFUTES"
	DerivedMixed     DerivedVerdict = "MIXED"
	DerivedUncertain DerivedVerdict = "UNCERTAIN"
)

const (
	minTextLen  = 10
	maxTextLen  = 500
	minTopicLen = 3
	maxTopicLen = 100

	maxPanelHistory = 5
)

var (
	// ErrClaimNotFound is returned by a claim store when an identifier is unknown.
	ErrClaimNotFound = errors.New("claim: not found")
	// ErrInvalidTimeWindow is returned when a requested time window has start > end.
	ErrInvalidTimeWindow = errors.New("claim: time window start is after end")
)

// TimeWindow bounds evidence by optional publication timestamps. Either end
// may be nil, meaning unbounded on that side.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
}

// Validate rejects an inverted window (start strictly after end).
func (w TimeWindow) Validate() error {
	if w.Start != nil && w.End != nil && w.Start.After(*w.End) {
		return ErrInvalidTimeWindow
	}
	return nil
}

// Contains reports whether t passes the window filter: a nil t always passes;
// a non-nil t must fall within [Start, End] on whichever bounds are set.
func (w TimeWindow) Contains(t *time.Time) bool {
	if t == nil {
		return true
	}
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// CitationLink maps a character range of an argument's display text back to
// the Evidence it cites. Start/End are byte offsets into the cleaned text.
type CitationLink struct {
	Start      int
	End        int
	EvidenceID uuid.UUID
	Text       string
}

// ArgumentWithEvidence is one side (approval or refusal) of a model's verdict.
type ArgumentWithEvidence struct {
	Argument    string
	EvidenceIDs []uuid.UUID
	Citations   []CitationLink
	Confidence  float64
}

// Evidence is a single web source gathered in support of a Claim.
type Evidence struct {
	ID              uuid.UUID
	URL             string
	NormalizedURL   string
	ContentHash     string
	Publisher       string
	Domain          string
	Title           string
	Snippet         string
	PublishedAt     *time.Time
	RetrievedAt     time.Time
	Provenance      string
}

// PanelModelVerdict is one provider/model's contribution to a PanelResult.
type PanelModelVerdict struct {
	ProviderID string // "provider:model"
	Model      string
	Approval   ArgumentWithEvidence
	Refusal    ArgumentWithEvidence
	RawPayload string
	Failed     bool
	Error      string
}

// PanelSummary is the aggregated outcome across all non-failed PanelModelVerdicts.
type PanelSummary struct {
	SupportConfidence float64
	RefuteConfidence  float64
	ModelCount        int
	Verdict           PanelVerdict
}

// PanelResult is the output of one panel evaluation run.
type PanelResult struct {
	Prompt      NormalizedPrompt
	Verdicts    []PanelModelVerdict
	Summary     PanelSummary
	GeneratedAt time.Time
}

// NormalizedPrompt is the wire payload sent to every provider adapter,
// following the truce.panel.v1 schema.
type NormalizedPrompt struct {
	Schema        string              `json:"schema"`
	Claim         PromptClaim         `json:"claim"`
	TimeWindow    PromptTimeWindow    `json:"time_window"`
	Evidence      []PromptEvidence    `json:"evidence"`
	EvidenceCount int                 `json:"evidence_count"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

type PromptClaim struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Topic    string    `json:"topic"`
	Entities []string  `json:"entities"`
}

type PromptTimeWindow struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type PromptEvidence struct {
	ID          uuid.UUID  `json:"id"`
	Publisher   string     `json:"publisher"`
	Snippet     string     `json:"snippet"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at"`
}

// HumanReview is a human reviewer's verdict attached to a Claim alongside the
// model panel's own conclusions. Not consumed by the aggregator; carried only
// so an external collaborator can surface it.
type HumanReview struct {
	ID            uuid.UUID
	Author        string
	Verdict       string
	Notes         string
	SignatureVC   string
	CreatedAt     time.Time
}

// VerificationRecord is the immutable, cacheable result of one verify call.
type VerificationRecord struct {
	ID           uuid.UUID
	ClaimSlug    string
	Verdict      DerivedVerdict
	Providers    []string
	EvidenceIDs  []uuid.UUID
	SourcesHash  string
	TimeWindow   TimeWindow
	CreatedAt    time.Time
}

// Claim is the root aggregate: identity, text, and everything it owns.
type Claim struct {
	ID         uuid.UUID
	Text       string
	Topic      string
	Entities   []string
	Evidence   []Evidence
	Assessments []PanelModelVerdict
	History    []PanelResult
	HumanReviews []HumanReview
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New constructs a Claim with a fresh identity after validating text/topic bounds.
func New(text, topic string, entities []string) (*Claim, error) {
	c := &Claim{
		ID:        uuid.New(),
		Text:      text,
		Topic:     topic,
		Entities:  entities,
		CreatedAt: time.Now().UTC(),
	}
	c.UpdatedAt = c.CreatedAt
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate enforces the field bounds for a claim's text and topic:
// text 10-500 chars, topic 3-100 chars.
func (c *Claim) Validate() error {
	if n := len(c.Text); n < minTextLen || n > maxTextLen {
		return fmt.Errorf("claim: text length %d outside [%d,%d]", n, minTextLen, maxTextLen)
	}
	if n := len(c.Topic); n < minTopicLen || n > maxTopicLen {
		return fmt.Errorf("claim: topic length %d outside [%d,%d]", n, minTopicLen, maxTopicLen)
	}
	return nil
}

// HasEvidence reports whether an Evidence with the same normalized URL or
// content hash is already present, per the evidence deduplication invariant.
func (c *Claim) HasEvidence(e Evidence) bool {
	for _, existing := range c.Evidence {
		if existing.NormalizedURL != "" && existing.NormalizedURL == e.NormalizedURL {
			return true
		}
		if existing.ContentHash != "" && existing.ContentHash == e.ContentHash {
			return true
		}
	}
	return false
}

// AppendEvidence appends new Evidence items, skipping any that duplicate an
// existing item by normalized URL or content hash. Returns the number
// actually appended.
func (c *Claim) AppendEvidence(items ...Evidence) int {
	added := 0
	for _, e := range items {
		if c.HasEvidence(e) {
			continue
		}
		c.Evidence = append(c.Evidence, e)
		added++
	}
	if added > 0 {
		c.UpdatedAt = time.Now().UTC()
	}
	return added
}

// AppendPanelResult records a new panel run, trimming history to the most
// recent maxPanelHistory entries (oldest dropped first).
func (c *Claim) AppendPanelResult(r PanelResult) {
	c.History = append(c.History, r)
	if len(c.History) > maxPanelHistory {
		c.History = c.History[len(c.History)-maxPanelHistory:]
	}
	c.Assessments = append(c.Assessments, r.Verdicts...)
	c.UpdatedAt = time.Now().UTC()
}

// LatestAssessments returns the PanelModelVerdicts from the most recent
// PanelResult, or nil if none has run yet.
func (c *Claim) LatestAssessments() []PanelModelVerdict {
	if len(c.History) == 0 {
		return nil
	}
	return c.History[len(c.History)-1].Verdicts
}
