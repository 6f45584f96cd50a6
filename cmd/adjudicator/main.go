package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/truceio/adjudicator/internal/claim"
	"github.com/truceio/adjudicator/internal/config"
	"github.com/truceio/adjudicator/internal/engine"
	"github.com/truceio/adjudicator/internal/evsearch"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		claimText   string
		topic       string
		entities    string
		configPath  string
		modelsFlag  string
		staticPath  string
		timeStart   string
		timeEnd     string
		force       bool
		dryRun      bool
		verbose     bool
		sessionID   string
		openaiKey   string
		xaiKey      string
		geminiKey   string
		anthropicKey string
		braveKey    string
	)

	flag.StringVar(&claimText, "claim", "", "Claim text to verify (10-500 chars)")
	flag.StringVar(&topic, "topic", "general", "Claim topic (3-100 chars)")
	flag.StringVar(&entities, "entities", "", "Comma-separated entity tags")
	flag.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	flag.StringVar(&modelsFlag, "models", "", "Comma-separated panel model override")
	flag.StringVar(&staticPath, "search.file", "", "Path to a static offline search fixture (dry-run)")
	flag.StringVar(&timeStart, "time.start", "", "RFC3339 time window start")
	flag.StringVar(&timeEnd, "time.end", "", "RFC3339 time window end")
	flag.BoolVar(&force, "force", false, "Bypass the verification cache")
	flag.BoolVar(&dryRun, "dry-run", false, "Use the static search provider only; never call real search APIs")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.StringVar(&sessionID, "session", "", "Progress session id (generated if empty)")
	flag.StringVar(&openaiKey, "openai.key", "", "OpenAI API key override")
	flag.StringVar(&xaiKey, "xai.key", "", "xAI API key override")
	flag.StringVar(&geminiKey, "gemini.key", "", "Gemini API key override")
	flag.StringVar(&anthropicKey, "anthropic.key", "", "Anthropic API key override")
	flag.StringVar(&braveKey, "brave.key", "", "Brave Search API key override")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := config.Default()
	if configPath != "" {
		fc, err := config.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("failed to load config file")
			os.Exit(2)
		}
		// ApplyFileConfig only fills zero-valued fields, so drop the built-in
		// defaults the file supplies before overlaying it.
		if len(fc.Panel.Models) > 0 {
			cfg.PanelModels = nil
		}
		if fc.Cache.Capacity > 0 {
			cfg.CacheCapacity = 0
		}
		config.ApplyFileConfig(&cfg, fc)
	}
	config.ApplyEnvToConfig(&cfg)
	config.ApplyEnvOverrides(&cfg)

	if modelsFlag != "" {
		cfg.PanelModels = splitCSV(modelsFlag)
	}
	if staticPath != "" {
		cfg.StaticSearchPath = staticPath
	}
	if openaiKey != "" {
		cfg.OpenAIAPIKey = openaiKey
	}
	if xaiKey != "" {
		cfg.XAIAPIKey = xaiKey
	}
	if geminiKey != "" {
		cfg.GeminiAPIKey = geminiKey
	}
	if anthropicKey != "" {
		cfg.AnthropicAPIKey = anthropicKey
	}
	if braveKey != "" {
		cfg.BraveAPIKey = braveKey
	}
	cfg.DryRun = cfg.DryRun || dryRun
	cfg.Verbose = cfg.Verbose || verbose

	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}

	window, err := parseWindow(timeStart, timeEnd)
	if err != nil {
		log.Error().Err(err).Msg("invalid time window")
		os.Exit(2)
	}

	if err := run(cfg, verifyRequest{
		claimText: claimText,
		topic:     topic,
		entities:  splitCSV(entities),
		window:    window,
		force:     force,
		sessionID: sessionID,
	}); err != nil {
		log.Error().Err(err).Msg("verify failed")
		switch err {
		case claim.ErrInvalidTimeWindow, claim.ErrClaimNotFound:
			os.Exit(2)
		default:
			os.Exit(1)
		}
	}
}

type verifyRequest struct {
	claimText string
	topic     string
	entities  []string
	window    claim.TimeWindow
	force     bool
	sessionID string
}

func run(cfg config.Config, req verifyRequest) error {
	ctx := context.Background()

	provider, err := searchProvider(cfg)
	if err != nil {
		return fmt.Errorf("init search provider: %w", err)
	}

	eng := engine.New(cfg, provider, nil)

	c, err := claim.New(req.claimText, req.topic, req.entities)
	if err != nil {
		return fmt.Errorf("invalid claim: %w", err)
	}
	eng.PutClaim(c)

	rec, cached, err := eng.Verify(ctx, c, engine.VerifyOptions{
		Models:     cfg.PanelModels,
		TimeWindow: req.window,
		SessionID:  req.sessionID,
		Force:      req.force,
	})
	if err != nil {
		return err
	}

	out := map[string]any{
		"verification_id": rec.ID,
		"cached":           cached,
		"verdict":          rec.Verdict,
		"created_at":       rec.CreatedAt,
		"providers":        rec.Providers,
		"evidence_ids":     rec.EvidenceIDs,
		"claim_slug":       rec.ClaimSlug,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// searchProvider returns the file-backed Static provider in dry-run mode (or
// whenever a fixture path is configured), otherwise Brave grounding.
func searchProvider(cfg config.Config) (evsearch.Provider, error) {
	if cfg.DryRun || cfg.StaticSearchPath != "" {
		if cfg.StaticSearchPath == "" {
			return nil, fmt.Errorf("dry-run requires -search.file")
		}
		return &evsearch.Static{Path: cfg.StaticSearchPath}, nil
	}
	return &evsearch.BraveGrounding{
		APIKey:    cfg.BraveAPIKey,
		DomainMap: evsearch.DefaultDomainMap(),
	}, nil
}

func parseWindow(start, end string) (claim.TimeWindow, error) {
	var w claim.TimeWindow
	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return w, fmt.Errorf("parse time.start: %w", err)
		}
		w.Start = &t
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return w, fmt.Errorf("parse time.end: %w", err)
		}
		w.End = &t
	}
	return w, w.Validate()
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
