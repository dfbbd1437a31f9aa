// Package llm produces draft analysis reports from contract text. The
// draft is an untrusted input: whatever a provider returns always passes
// through the grounding engine before reaching a caller, so a provider that
// hallucinates clause references or excerpts degrades gracefully instead of
// corrupting output.
package llm

import (
	"context"

	"github.com/clausebind/clausebind/internal/model"
)

// Provider is one draft-analysis backend.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Analyze produces a draft analysis report for a contract.
	Analyze(ctx context.Context, req AnalyzeRequest) (*model.AnalysisReport, error)

	// IsAvailable checks whether the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// AnalyzeRequest is the input for draft analysis.
type AnalyzeRequest struct {
	// ContractName labels the contract in the prompt.
	ContractName string

	// Content is the raw contract text.
	Content string

	// Clauses are the extracted provisions the draft may reference. The
	// prompt instructs the model to cite only these ids.
	Clauses []model.Clause

	// Playbook, when set, tells the model which requirements to check.
	Playbook *model.Playbook

	// Model overrides the configured model name.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}
