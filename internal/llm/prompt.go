package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clausebind/clausebind/internal/model"
)

// systemPrompt frames every draft-analysis call. The verbatim-quotation rule
// matters most: excerpts that are not literal substrings of the contract are
// stripped by the grounding pass, so asking for them up front saves work.
const systemPrompt = `You are a contract review assistant. You analyze contracts ` +
	`and report issues, satisfied requirements, and proposed edits as JSON. ` +
	`Every excerpt you quote MUST be copied verbatim from the contract text; ` +
	`never paraphrase inside an excerpt. If no supporting text exists, write ` +
	`exactly "Not present in contract".`

// BuildPrompt constructs the draft-analysis prompt.
func BuildPrompt(req AnalyzeRequest) string {
	var sb strings.Builder

	name := req.ContractName
	if name == "" {
		name = "the contract"
	}
	fmt.Fprintf(&sb, "Review %s and respond with a single JSON object of this shape:\n\n", name)
	sb.WriteString(`{
  "contractSummary": "...",
  "issuesToAddress": [{"id": "...", "title": "...", "severity": "critical|high|medium|low|info", "category": "...", "recommendation": "...", "rationale": "...", "clauseReference": {"clauseId": "...", "heading": "...", "excerpt": "..."}}],
  "criteriaMet": [{"title": "...", "met": true, "evidence": "...", "clauseId": "..."}],
  "proposedEdits": [{"id": "...", "clauseId": "...", "intent": "insert|replace", "proposedText": "...", "rationale": "..."}]
}

`)

	if len(req.Clauses) > 0 {
		sb.WriteString("Reference clauses ONLY by these ids:\n")
		for _, c := range req.Clauses {
			fmt.Fprintf(&sb, "- %s: %s\n", c.Key(), c.Title)
		}
		sb.WriteString("\n")
	}

	if req.Playbook != nil {
		sb.WriteString("Check these playbook requirements:\n")
		for _, cc := range req.Playbook.CriticalClauses {
			fmt.Fprintf(&sb, "- %s", cc.Title)
			if len(cc.MustInclude) > 0 {
				fmt.Fprintf(&sb, " (must include: %s)", strings.Join(cc.MustInclude, "; "))
			}
			sb.WriteString("\n")
		}
		for _, anchor := range req.Playbook.ClauseAnchors {
			fmt.Fprintf(&sb, "- %s\n", anchor)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Contract text:\n\n")
	sb.WriteString(req.Content)
	return sb.String()
}

// ParseReport extracts the JSON report from a model response, tolerating
// markdown code fences and leading prose.
func ParseReport(raw string) (*model.AnalysisReport, error) {
	trimmed := strings.TrimSpace(raw)
	if start := strings.Index(trimmed, "{"); start > 0 {
		trimmed = trimmed[start:]
	}
	if end := strings.LastIndex(trimmed, "}"); end >= 0 {
		trimmed = trimmed[:end+1]
	}
	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(trimmed), &report); err != nil {
		return nil, fmt.Errorf("parse draft report: %w", err)
	}
	return &report, nil
}
