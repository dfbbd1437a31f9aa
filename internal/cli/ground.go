package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clausebind/clausebind/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	reportPath    string
	clausesPath   string
	contentPath   string
	playbookPath  string
	contractName  string
	outJSON       string
	outMD         string
	lexiconPath   string
	timeout       time.Duration
	noCache       bool
	noFooter      bool
	debugEvidence bool
)

// groundCmd represents the ground command
var groundCmd = &cobra.Command{
	Use:   "ground",
	Short: "Ground a draft analysis report against the contract",
	Long: `Ground runs one verification pass over a draft analysis:
- Bind every flagged issue to a real clause, or withdraw it
- Check every quoted excerpt verbatim against the contract
- Re-evaluate playbook criteria from clause evidence
- Flag required clauses that are missing as issues
- Drop redundant edits and duplicate findings

Example:
  clausebind ground --report draft.json --clauses clauses.json --content contract.txt
  clausebind ground --report draft.json --clauses clauses.json --content contract.html --playbook nda.yaml --md review.md`,
	Args: cobra.NoArgs,
	RunE: runGround,
}

func init() {
	rootCmd.AddCommand(groundCmd)

	// Input flags
	groundCmd.Flags().StringVar(&reportPath, "report", "", "draft analysis report (JSON, required)")
	groundCmd.Flags().StringVar(&clausesPath, "clauses", "", "extracted clauses (JSON)")
	groundCmd.Flags().StringVar(&contentPath, "content", "", "raw contract text or HTML")
	groundCmd.Flags().StringVar(&playbookPath, "playbook", "", "playbook with required clauses (YAML or JSON)")
	groundCmd.Flags().StringVar(&contractName, "name", "", "contract name (default: report file name)")
	_ = groundCmd.MarkFlagRequired("report")

	// Output flags
	groundCmd.Flags().StringVar(&outJSON, "json", "grounded.json", "output JSON path")
	groundCmd.Flags().StringVar(&outMD, "md", "", "output Markdown review sheet (optional)")

	// Behavior flags
	groundCmd.Flags().StringVar(&lexiconPath, "lexicon", "", "custom structural lexicon (YAML)")
	groundCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	groundCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the re-run cache")
	groundCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	groundCmd.Flags().BoolVar(&debugEvidence, "debug-evidence", false, "attach binding decisions to metadata.evidenceDebug")
}

func runGround(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	name := contractName
	if name == "" {
		name = stem(reportPath)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Grounding: %s\n", name)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

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
	cfg.Debug.Evidence = cfg.Debug.Evidence || debugEvidence || os.Getenv("CLAUSEBIND_DEBUG_EVIDENCE") != ""

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	result, err := p.GroundContract(ctx, pipeline.GroundJob{
		Name:         name,
		ReportPath:   reportPath,
		ClausesPath:  clausesPath,
		ContentPath:  contentPath,
		PlaybookPath: playbookPath,
	})
	if err != nil {
		return fmt.Errorf("ground failed: %w", err)
	}

	if err := p.RenderResult(result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
