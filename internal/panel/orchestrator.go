// Package panel is the Panel Orchestrator (C6): it builds the normalized
// prompt, runs the agentic research phase in parallel, then evaluates
// provider adapters in sequence.
//
// Grounded on original_source/panel/run_panel.py's run_panel_evaluation and
// the internal/app/app.go phased-pipeline style (named phases,
// per-phase logging, continue-on-error).
package panel

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/truceio/adjudicator/internal/citation"
	"github.com/truceio/adjudicator/internal/claim"
	"github.com/truceio/adjudicator/internal/evidencepool"
	"github.com/truceio/adjudicator/internal/evsearch"
	"github.com/truceio/adjudicator/internal/llmprovider"
	"github.com/truceio/adjudicator/internal/researcher"
	"github.com/truceio/adjudicator/internal/verdict"
	"golang.org/x/sync/errgroup"
)

// Progress is the subset of the session bus the orchestrator needs. Kept as
// a narrow interface so panel does not import the session package's
// concrete Registry type, beyond what the configuration layer requires.
type Progress interface {
	Emit(sessionID, stage, message string, details map[string]any)
	CheckCancelled(sessionID string) bool
}

type discardProgress struct{}

func (discardProgress) Emit(string, string, string, map[string]any) {}
func (discardProgress) CheckCancelled(string) bool                  { return false }

// Orchestrator wires researchers, adapters, and the progress bus together.
type Orchestrator struct {
	Toolset        *evsearch.Toolset
	AdapterKeys    llmprovider.Keys
	Progress       Progress
	ResolveAdapter func(model string, keys llmprovider.Keys) llmprovider.Adapter
}

// New returns an Orchestrator with the package-level adapter resolver wired
// in by default. A nil progress discards events.
func New(toolset *evsearch.Toolset, keys llmprovider.Keys, progress Progress) *Orchestrator {
	if progress == nil {
		progress = discardProgress{}
	}
	return &Orchestrator{
		Toolset:        toolset,
		AdapterKeys:    keys,
		Progress:       progress,
		ResolveAdapter: llmprovider.ResolveAdapter,
	}
}

// Options configures one RunPanelEvaluation call.
type Options struct {
	Models     []string
	TimeWindow claim.TimeWindow
	SessionID  string
	Agentic    bool
}

// RunPanelEvaluation implements the two-mode pipeline: agentic research vs. direct evaluation.
func (o *Orchestrator) RunPanelEvaluation(ctx context.Context, c *claim.Claim, opts Options) (claim.PanelResult, error) {
	var prompt claim.NormalizedPrompt
	if opts.Agentic {
		pooled := o.runAgenticResearch(ctx, c, opts)

		// Phase 2: build the prompt from an enriched claim scoped to just the
		// pool's fresh evidence, before that evidence is merged into c.
		enriched := *c
		enriched.Evidence = pooled
		prompt = BuildNormalizedPrompt(&enriched, opts.TimeWindow)

		o.Progress.Emit(opts.SessionID, "processing_evidence", "merging researcher evidence", map[string]any{"pool_size": len(pooled)})
		c.AppendEvidence(pooled...)
	} else {
		prompt = BuildNormalizedPrompt(c, opts.TimeWindow)
	}

	lookup := citation.BuildLookup(evidenceIDs(prompt))

	verdicts := o.evaluateSequentially(ctx, prompt, lookup, opts)

	summary := verdict.AggregatePanel(verdicts)
	return claim.PanelResult{
		Prompt:      prompt,
		Verdicts:    verdicts,
		Summary:     summary,
		GeneratedAt: prompt.GeneratedAt,
	}, nil
}

// runAgenticResearch executes Phase 1: parallel researchers against a
// direction-neutralized claim, fed into a shared pool. Returns the pool's
// contents; merging them into the persisted claim is the caller's job
// (Phase 4), kept separate so Phase 2's prompt can be built from the pool
// alone.
func (o *Orchestrator) runAgenticResearch(ctx context.Context, c *claim.Claim, opts Options) []claim.Evidence {
	if o.Progress.CheckCancelled(opts.SessionID) {
		return nil
	}
	o.Progress.Emit(opts.SessionID, "searching", "starting agentic research phase", nil)

	neutralized := *c
	neutralized.Text = NeutralizeDirection(c.Text)

	pool := evidencepool.New()

	g, gctx := errgroup.WithContext(ctx)
	for _, model := range opts.Models {
		model := model
		g.Go(func() error {
			if o.Progress.CheckCancelled(opts.SessionID) {
				return nil
			}
			r := researcher.New(model, o.Toolset)
			evidence := r.ConductResearch(gctx, &neutralized, &opts.TimeWindow)
			pool.AddEvidence(evidence, model)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("session_id", opts.SessionID).Msg("agentic research phase returned an error")
	}

	return pool.Contents()
}

// evaluateSequentially runs Phase 3: each adapter is invoked in turn so
// provider rate limits are amortized and per-model progress events stream
// in a deterministic order.
func (o *Orchestrator) evaluateSequentially(ctx context.Context, prompt claim.NormalizedPrompt, lookup map[string]uuid.UUID, opts Options) []claim.PanelModelVerdict {
	verdicts := make([]claim.PanelModelVerdict, 0, len(opts.Models))
	for _, model := range opts.Models {
		if o.Progress.CheckCancelled(opts.SessionID) {
			break
		}
		o.Progress.Emit(opts.SessionID, "evaluating", "evaluating model", map[string]any{"model": model})

		adapter := o.ResolveAdapter(model, o.AdapterKeys)
		v := adapter.Evaluate(ctx, prompt, lookup)
		verdicts = append(verdicts, v)

		if v.Failed {
			o.Progress.Emit(opts.SessionID, "evaluation_error", "model evaluation failed", map[string]any{"model": model, "error": v.Error})
		} else {
			o.Progress.Emit(opts.SessionID, "evaluation_complete", "model evaluation complete", map[string]any{"model": model})
		}
	}
	return verdicts
}

func evidenceIDs(prompt claim.NormalizedPrompt) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(prompt.Evidence))
	for _, e := range prompt.Evidence {
		ids = append(ids, e.ID)
	}
	return ids
}
