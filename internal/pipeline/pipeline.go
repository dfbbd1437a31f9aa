// Package pipeline wires ingestion, optional drafting, grounding, caching,
// and rendering into the end-to-end flow behind the CLI commands. One
// GroundContract call takes a contract's input files and produces a grounded
// analysis report.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clausebind/clausebind/internal/bind"
	"github.com/clausebind/clausebind/internal/cache"
	"github.com/clausebind/clausebind/internal/ingest"
	"github.com/clausebind/clausebind/internal/lexicon"
	"github.com/clausebind/clausebind/internal/llm"
	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/trace"
)

// Pipeline orchestrates the complete grounding flow for one or more
// contracts.
type Pipeline struct {
	lex      *lexicon.Lexicon
	provider llm.Provider // optional draft collaborator (nil if disabled)
	renderer *Renderer
	store    cache.Cache // nil when caching is disabled
	limiter  RateLimiter // nil means unthrottled drafting
	config   *model.Config
}

// RateLimiter throttles drafting calls per provider. Satisfied by
// *worker.Limiter.
type RateLimiter interface {
	Wait(ctx context.Context, provider string) error
}

// SetRateLimiter installs a drafting rate limiter. Grounding itself is
// never throttled.
func (p *Pipeline) SetRateLimiter(rl RateLimiter) {
	p.limiter = rl
}

// New creates a pipeline from configuration.
func New(cfg *model.Config) (*Pipeline, error) {
	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		// Drafting is optional; grounding pre-drafted reports still works.
		provider = nil
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = filepath.Join(home, ".clausebind", "cache")
		}
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		lex:      lex,
		provider: provider,
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		store:    store,
		config:   cfg,
	}, nil
}

// GroundJob names the input files for one contract.
type GroundJob struct {
	Name         string
	ReportPath   string // draft analysis; empty means draft via the LLM provider
	ClausesPath  string
	ContentPath  string
	PlaybookPath string
	ForceRefresh bool // bypass the cache read, still writes the fresh result
}

// GroundResult is the outcome of grounding one contract.
type GroundResult struct {
	Name     string
	Report   *model.AnalysisReport
	CacheHit bool
}

// GroundContract grounds one contract end to end: load inputs, check the
// cache, draft if no report was supplied, run the binder, store the result.
func (p *Pipeline) GroundContract(ctx context.Context, job GroundJob) (*GroundResult, error) {
	raw, err := readInputs(job)
	if err != nil {
		return nil, err
	}

	key := cache.Key(raw.report, raw.clauses, raw.content, raw.playbook, p.configFingerprint())
	if p.store != nil && !job.ForceRefresh {
		if data, found := p.store.Get(key); found {
			var report model.AnalysisReport
			if err := json.Unmarshal(data, &report); err == nil {
				return &GroundResult{Name: job.Name, Report: &report, CacheHit: true}, nil
			}
			// Corrupt entry, fall through and recompute.
			_ = p.store.Delete(key)
		}
	}

	in, err := p.loadInputs(ctx, job)
	if err != nil {
		return nil, err
	}

	report, err := p.Ground(in)
	if err != nil {
		return nil, fmt.Errorf("ground %s: %w", job.Name, err)
	}

	if p.store != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = p.store.Set(key, data, 0)
		}
	}

	return &GroundResult{Name: job.Name, Report: report}, nil
}

// Ground runs one binder pass. When evidence debugging is on, the binding
// decisions are attached to metadata.evidenceDebug; the rest of the report
// is unaffected.
func (p *Pipeline) Ground(in bind.Input) (*model.AnalysisReport, error) {
	var collector *trace.Collector
	var sink trace.Sink
	if p.config.Debug.Evidence {
		collector = trace.NewCollector()
		sink = collector
	}

	binder := bind.New(p.lex, p.config.Thresholds, sink)
	report, err := binder.Ground(in)
	if err != nil {
		return nil, err
	}

	if collector != nil {
		report.Metadata["evidenceDebug"] = collector.Records()
	}
	return report, nil
}

// rawInputs carries the unparsed input bytes used for cache keying.
type rawInputs struct {
	report   []byte
	clauses  []byte
	content  []byte
	playbook []byte
}

func readInputs(job GroundJob) (*rawInputs, error) {
	var raw rawInputs
	var err error
	if raw.report, err = readOptional(job.ReportPath); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if raw.clauses, err = readOptional(job.ClausesPath); err != nil {
		return nil, fmt.Errorf("read clauses: %w", err)
	}
	if raw.content, err = readOptional(job.ContentPath); err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if raw.playbook, err = readOptional(job.PlaybookPath); err != nil {
		return nil, fmt.Errorf("read playbook: %w", err)
	}
	return &raw, nil
}

func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}

// loadInputs parses the input files into a binder input, drafting the report
// through the LLM provider when none was supplied.
func (p *Pipeline) loadInputs(ctx context.Context, job GroundJob) (bind.Input, error) {
	var in bind.Input
	var err error

	if job.ClausesPath != "" {
		if in.Clauses, err = ingest.LoadClauses(job.ClausesPath); err != nil {
			return in, err
		}
	}
	if job.ContentPath != "" {
		if in.Content, err = ingest.LoadContent(job.ContentPath); err != nil {
			return in, err
		}
	}
	if job.PlaybookPath != "" {
		if in.Playbook, err = ingest.LoadPlaybook(job.PlaybookPath); err != nil {
			return in, err
		}
	}

	if job.ReportPath != "" {
		if in.Report, err = ingest.LoadReport(job.ReportPath); err != nil {
			return in, err
		}
		return in, nil
	}

	if p.provider == nil {
		return in, fmt.Errorf("contract %s: no draft report and no LLM provider configured", job.Name)
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
			return in, fmt.Errorf("rate limit: %w", err)
		}
	}
	in.Report, err = p.provider.Analyze(ctx, llm.AnalyzeRequest{
		ContractName: job.Name,
		Content:      in.Content,
		Clauses:      in.Clauses,
		Playbook:     in.Playbook,
	})
	if err != nil {
		return in, fmt.Errorf("draft %s via %s: %w", job.Name, p.provider.Name(), err)
	}
	return in, nil
}

// configFingerprint serializes the settings that change grounding output, so
// tuning edits invalidate cached reports.
func (p *Pipeline) configFingerprint() []byte {
	fp := struct {
		Thresholds  model.Thresholds `json:"thresholds"`
		LexiconPath string           `json:"lexiconPath"`
	}{p.config.Thresholds, p.config.LexiconPath}
	data, _ := json.Marshal(fp)
	return data
}

// RenderResult renders a grounding result to the requested outputs and
// prints a one-line summary.
func (p *Pipeline) RenderResult(res *GroundResult, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(res.Report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(res.Report, res.Name, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if verbose {
		printGroundingSummary(res.Report)
	}
	p.renderer.RenderSummary(res.Report, res.Name, res.CacheHit)
	return nil
}

// printGroundingSummary prints the pass counters. Fresh reports carry the
// typed summary; cache hits carry the JSON roundtrip of it.
func printGroundingSummary(report *model.AnalysisReport) {
	raw, ok := report.Metadata["groundingSummary"]
	if !ok {
		return
	}
	switch sum := raw.(type) {
	case model.GroundingSummary:
		fmt.Fprintf(os.Stderr, "  bound %d, rebound %d, cleared %d, dropped %d, synthesized %d, edits dropped %d, excerpts rewritten %d\n",
			sum.IssuesBound, sum.IssuesRebound, sum.IssuesCleared, sum.IssuesDropped,
			sum.IssuesSynthesized, sum.EditsDropped, sum.ExcerptsRewritten)
	case map[string]any:
		data, err := json.Marshal(sum)
		if err != nil {
			return
		}
		fmt.Fprintf(os.Stderr, "  %s\n", data)
	}
}
