// Package engine wires the adjudication pipeline together: config,
// providers, the session bus, the explorer/panel layers, and the
// verification cache. Grounded on internal/app/app.go, which
// plays the same top-level-wiring role for the research pipeline.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/truceio/adjudicator/internal/claim"
	"github.com/truceio/adjudicator/internal/config"
	"github.com/truceio/adjudicator/internal/evsearch"
	"github.com/truceio/adjudicator/internal/explorer"
	"github.com/truceio/adjudicator/internal/llmprovider"
	"github.com/truceio/adjudicator/internal/panel"
	"github.com/truceio/adjudicator/internal/session"
	"github.com/truceio/adjudicator/internal/vcache"
)

// Engine is the long-lived service: one per process, per the "global
// in-process state → an explicit service struct" design note.
type Engine struct {
	cfg config.Config

	toolset     *evsearch.Toolset
	explorer    *explorer.Agent
	orchestrator *panel.Orchestrator
	sessions    *session.Registry
	cache       *vcache.Cache

	mu     sync.RWMutex
	claims map[uuid.UUID]*claim.Claim
}

// New constructs an Engine from cfg. A nil metrics registerer is accepted;
// session.NewRegistry tolerates it the same way an App tolerates
// a missing cache directory.
func New(cfg config.Config, provider evsearch.Provider, reg prometheus.Registerer) *Engine {
	toolset := evsearch.NewToolset(provider, evsearch.NewFetcher(), nil)
	registry := session.NewRegistry(reg)

	keys := llmprovider.Keys{
		OpenAIKey:     cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		XAIKey:        cfg.XAIAPIKey,
		XAIBaseURL:    cfg.XAIBaseURL,
		GeminiKey:     cfg.GeminiAPIKey,
		GeminiBaseURL: cfg.GeminiBaseURL,
		AnthropicKey:  cfg.AnthropicAPIKey,
	}

	logStartup(cfg)

	return &Engine{
		cfg:          cfg,
		toolset:      toolset,
		explorer:     explorer.New(toolset),
		orchestrator: panel.New(toolset, keys, registry),
		sessions:     registry,
		cache:        vcache.New(cfg.CacheCapacity),
		claims:       make(map[uuid.UUID]*claim.Claim),
	}
}

// PutClaim registers c for later lookup by VerifyByID.
func (e *Engine) PutClaim(c *claim.Claim) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.claims[c.ID] = c
}

// GetClaim returns the claim registered under id, or ErrClaimNotFound.
func (e *Engine) GetClaim(id uuid.UUID) (*claim.Claim, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.claims[id]
	if !ok {
		return nil, claim.ErrClaimNotFound
	}
	return c, nil
}

// Sessions exposes the progress bus for subscribers/cancellation callers.
func (e *Engine) Sessions() *session.Registry { return e.sessions }

// VerifyOptions configures one Verify call, mirroring the inbound
// verification request shape.
type VerifyOptions struct {
	Models     []string
	TimeWindow claim.TimeWindow
	SessionID  string
	Force      bool
}

// VerifyByID looks up a registered claim and delegates to Verify, returning
// ErrClaimNotFound when id is unknown (the 404 case).
func (e *Engine) VerifyByID(ctx context.Context, id uuid.UUID, opts VerifyOptions) (claim.VerificationRecord, bool, error) {
	c, err := e.GetClaim(id)
	if err != nil {
		return claim.VerificationRecord{}, false, err
	}
	return e.Verify(ctx, c, opts)
}

// Verify implements the verification cache's read/write protocol: compute the cache key from
// the claim's current evidence, consult the cache unless force is set,
// always attempt a fresh evidence gather (C2 Explorer), and — only when
// that gather actually enlarges the evidence set — recompute the key and
// produce a fresh record. Otherwise the cached record (if any) is returned.
func (e *Engine) Verify(ctx context.Context, c *claim.Claim, opts VerifyOptions) (claim.VerificationRecord, bool, error) {
	if err := opts.TimeWindow.Validate(); err != nil {
		return claim.VerificationRecord{}, false, err
	}
	models := opts.Models
	if len(models) == 0 {
		models = e.cfg.PanelModels
	}
	if opts.SessionID != "" {
		e.sessions.Open(opts.SessionID)
	}

	existingKey := vcache.BuildCacheKey(c.Text, opts.TimeWindow, models, c.Evidence)
	var cachedRec claim.VerificationRecord
	haveCached := false
	if !opts.Force {
		cachedRec, haveCached = e.cache.Get(existingKey)
	}

	if e.sessions.CheckCancelled(opts.SessionID) {
		return claim.VerificationRecord{}, false, context.Canceled
	}
	e.sessions.Emit(opts.SessionID, "gathering_sources", "exploring for fresh evidence", nil)

	gathered := e.explorer.GatherSources(ctx, c.Text, &opts.TimeWindow)
	added := c.AppendEvidence(hydratedToEvidence(gathered, "explorer")...)
	if added > 0 {
		e.sessions.Emit(opts.SessionID, "evidence_found", "new evidence discovered", map[string]any{"added": added})
	}

	newKey := vcache.BuildCacheKey(c.Text, opts.TimeWindow, models, c.Evidence)
	if added == 0 && haveCached {
		// No new evidence: the key is unchanged from existingKey, so the
		// record found above still applies.
		return cachedRec, true, nil
	}

	if e.sessions.CheckCancelled(opts.SessionID) {
		return claim.VerificationRecord{}, false, context.Canceled
	}

	result, err := e.orchestrator.RunPanelEvaluation(ctx, c, panel.Options{
		Models:     models,
		TimeWindow: opts.TimeWindow,
		SessionID:  opts.SessionID,
		Agentic:    true,
	})
	if err != nil {
		e.sessions.Emit(opts.SessionID, "error", err.Error(), nil)
		return claim.VerificationRecord{}, false, err
	}
	c.AppendPanelResult(result)

	windowed := filterByWindow(c.Evidence, opts.TimeWindow)
	rec := claim.VerificationRecord{
		ID:          uuid.New(),
		ClaimSlug:   slugify(c.Topic, c.ID),
		Verdict:     vcache.DeriveVerdict(c.LatestAssessments()),
		Providers:   append([]string(nil), models...),
		EvidenceIDs: evidenceIDsOf(windowed),
		SourcesHash: vcache.ComputeSourcesHash(windowed),
		TimeWindow:  opts.TimeWindow,
		CreatedAt:   result.GeneratedAt,
	}
	e.cache.Put(newKey, rec)

	e.sessions.Emit(opts.SessionID, "complete", "verification complete", map[string]any{"cached": false})
	return rec, false, nil
}

// Cancel cancels an in-flight session, returning false if unknown (the 404
// case for DELETE /claims/progress/{session_id}).
func (e *Engine) Cancel(sessionID string) bool {
	return e.sessions.Cancel(sessionID)
}

func hydratedToEvidence(sources []explorer.Source, provenance string) []claim.Evidence {
	out := make([]claim.Evidence, 0, len(sources))
	for _, s := range sources {
		out = append(out, claim.Evidence{
			ID:            uuid.New(),
			URL:           s.URL,
			NormalizedURL: s.NormalizedURL,
			ContentHash:   s.ContentHash,
			Publisher:     s.Publisher,
			Domain:        s.Domain,
			Title:         s.Title,
			Snippet:       s.Snippet,
			PublishedAt:   s.PublishedAt,
			RetrievedAt:   s.RetrievedAt,
			Provenance:    provenance,
		})
	}
	return out
}

// filterByWindow returns the subset of evidence whose PublishedAt falls
// inside window, per the time-window filter on verification records.
func filterByWindow(evidence []claim.Evidence, window claim.TimeWindow) []claim.Evidence {
	out := make([]claim.Evidence, 0, len(evidence))
	for _, e := range evidence {
		if window.Contains(e.PublishedAt) {
			out = append(out, e)
		}
	}
	return out
}

func evidenceIDsOf(evidence []claim.Evidence) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(evidence))
	for _, e := range evidence {
		out = append(out, e.ID)
	}
	return out
}

func slugify(topic string, id uuid.UUID) string {
	topic = strings.TrimSpace(strings.ToLower(topic))
	topic = strings.Join(strings.Fields(topic), "-")
	if topic == "" {
		return id.String()
	}
	return fmt.Sprintf("%s-%s", topic, id.String()[:8])
}

// init-time sanity: logged once per process, mirroring the
// preflight-but-don't-fail-hard posture in App.New.
func logStartup(cfg config.Config) {
	log.Info().
		Int("panel_models", len(cfg.PanelModels)).
		Bool("dry_run", cfg.DryRun).
		Dur("panel_timeout", cfg.PanelTimeout).
		Msg("engine configured")
}
