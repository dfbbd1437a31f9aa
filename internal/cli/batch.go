package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/clausebind/clausebind/internal/pipeline"
	"github.com/clausebind/clausebind/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	llmEnabled   bool
	forceRefresh bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Ground multiple contracts from a manifest in parallel",
	Long: `Batch grounds many contracts concurrently:
- Read contract jobs from a YAML manifest
- Ground contracts in parallel with configurable worker count
- Skip contracts whose inputs are unchanged (cache)
- Write a JSON report and Markdown review sheet per contract

Example:
  clausebind batch contracts.yaml
  clausebind batch contracts.yaml --concurrency 10 --output-dir ./reviews
  clausebind batch contracts.yaml --llm --provider ollama --model llama3.1:8b`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./clausebind-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Behavior flags
	batchCmd.Flags().StringVar(&lexiconPath, "lexicon", "", "custom structural lexicon (YAML)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the re-run cache entirely")
	batchCmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "recompute every contract, ignoring cached results")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags, for manifests with contracts that have no draft report
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM drafting for contracts without a draft report")
	batchCmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (provider default when empty)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	// Effective config: defaults, overlaid by the config file, then flags
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if lexiconPath != "" {
		cfg.LexiconPath = lexiconPath
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}
	workers := cfg.Concurrency.Workers

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Clausebind Batch Grounding\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Manifest:     %s\n", manifest)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if llmEnabled {
		provider := llmProvider
		if !cmd.Flags().Changed("provider") && cfg.LLM.Provider != "" {
			provider = cfg.LLM.Provider
		}
		modelName := llmModel
		if modelName == "" {
			modelName = cfg.LLM.Model
		}
		if err := configureLLM(cfg, provider, modelName); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline
	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	if llmEnabled && cfg.LLM.RatePerMinute > 0 {
		p.SetRateLimiter(worker.NewLimiter(cfg.LLM.RatePerMinute, 1))
	}

	// Read jobs
	fmt.Fprintf(os.Stderr, "⚙️  Reading manifest...\n")
	jobs, err := worker.ReadManifest(manifest)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	if forceRefresh {
		for i := range jobs {
			jobs[i].ForceRefresh = true
		}
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d contracts\n", len(jobs))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Grounding with %d workers...\n", workers)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(p, workers)
	results := processor.Process(ctx, jobs)

	// Process results
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Name, result.Error)
			continue
		}

		successCount++

		slug := sanitizeFilename(result.Name)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := p.RenderResult(result.Result, jsonPath, mdPath, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Name, err)
			continue
		}
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d contracts\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename makes a contract name safe to use as a file name.
func sanitizeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			out = append(out, r)
		case r == ' ':
			out = append(out, '-')
		default:
			out = append(out, '_')
		}
	}
	s = string(out)
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "contract"
	}
	return s
}
