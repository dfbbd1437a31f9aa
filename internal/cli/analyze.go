package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	llmProvider string
	llmModel    string
	llmTimeout  time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Draft an analysis with an LLM, then ground it",
	Long: `Analyze asks an LLM to draft a contract analysis and immediately runs
the grounding pass over the draft. The model's output never reaches the
final report directly: every binding, excerpt, and criterion verdict is
re-derived from the contract text.

Example:
  clausebind analyze --clauses clauses.json --content contract.txt --provider openai
  clausebind analyze --clauses clauses.json --content contract.txt --playbook nda.yaml --provider ollama --model llama3.1:8b`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVar(&clausesPath, "clauses", "", "extracted clauses (JSON, required)")
	analyzeCmd.Flags().StringVar(&contentPath, "content", "", "raw contract text or HTML (required)")
	analyzeCmd.Flags().StringVar(&playbookPath, "playbook", "", "playbook with required clauses (YAML or JSON)")
	analyzeCmd.Flags().StringVar(&contractName, "name", "", "contract name (default: content file name)")
	_ = analyzeCmd.MarkFlagRequired("clauses")
	_ = analyzeCmd.MarkFlagRequired("content")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "grounded.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown review sheet (optional)")

	// LLM flags
	analyzeCmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (provider default when empty)")
	analyzeCmd.Flags().DurationVar(&llmTimeout, "timeout", 5*time.Minute, "overall timeout including the LLM call")

	// Behavior flags
	analyzeCmd.Flags().StringVar(&lexiconPath, "lexicon", "", "custom structural lexicon (YAML)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the re-run cache")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&debugEvidence, "debug-evidence", false, "attach binding decisions to metadata.evidenceDebug")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), llmTimeout)
	defer cancel()

	name := contractName
	if name == "" {
		name = stem(contentPath)
	}

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
	cfg.Debug.Evidence = cfg.Debug.Evidence || debugEvidence || os.Getenv("CLAUSEBIND_DEBUG_EVIDENCE") != ""

	// The config file may name the provider and model; explicit flags win.
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

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", name)
		fmt.Fprintf(os.Stderr, "LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	result, err := p.GroundContract(ctx, pipeline.GroundJob{
		Name:         name,
		ClausesPath:  clausesPath,
		ContentPath:  contentPath,
		PlaybookPath: playbookPath,
	})
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if err := p.RenderResult(result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// configureLLM fills in the LLM section from flags and environment.
func configureLLM(cfg *model.Config, provider, modelName string) error {
	cfg.LLM.Provider = provider
	cfg.LLM.Model = modelName

	switch provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}
