package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/clausebind/clausebind/internal/evidence"
	"github.com/clausebind/clausebind/internal/model"
)

// Renderer writes grounded reports as JSON and as a Markdown review sheet.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.AnalysisReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable review sheet.
func (r *Renderer) RenderMarkdown(report *model.AnalysisReport, name, path string) error {
	data := r.Markdown(report, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// Markdown builds the review sheet text.
func (r *Renderer) Markdown(report *model.AnalysisReport, name string) string {
	var sb strings.Builder

	title := name
	if title == "" {
		title = "Contract"
	}
	fmt.Fprintf(&sb, "# Contract Review: %s\n\n", title)

	if report.ContractSummary != "" {
		sb.WriteString("## Summary\n\n")
		sb.WriteString(report.ContractSummary)
		sb.WriteString("\n\n")
	}

	fmt.Fprintf(&sb, "## Issues (%d)\n\n", len(report.IssuesToAddress))
	for _, iss := range report.IssuesToAddress {
		sev := iss.Severity
		if sev == "" {
			sev = model.SeverityMedium
		}
		fmt.Fprintf(&sb, "### [%s] %s\n\n", strings.ToUpper(string(sev)), iss.Title)
		if ref := iss.ClauseReference; ref != nil {
			if ref.Heading != "" {
				fmt.Fprintf(&sb, "**Clause:** %s", ref.Heading)
				if ref.ClauseID != "" {
					fmt.Fprintf(&sb, " (`%s`)", ref.ClauseID)
				}
				sb.WriteString("\n\n")
			}
			if ref.Excerpt != "" && !evidence.IsMissingMarker(ref.Excerpt) {
				fmt.Fprintf(&sb, "> %s\n\n", ref.Excerpt)
			}
		}
		if iss.Recommendation != "" {
			fmt.Fprintf(&sb, "**Recommendation:** %s\n\n", iss.Recommendation)
		}
		if iss.Rationale != "" {
			fmt.Fprintf(&sb, "%s\n\n", iss.Rationale)
		}
	}

	if len(report.CriteriaMet) > 0 {
		met := 0
		for _, c := range report.CriteriaMet {
			if c.Met {
				met++
			}
		}
		fmt.Fprintf(&sb, "## Playbook Criteria (%d/%d met)\n\n", met, len(report.CriteriaMet))
		for _, c := range report.CriteriaMet {
			mark := " "
			if c.Met {
				mark = "x"
			}
			fmt.Fprintf(&sb, "- [%s] %s", mark, c.Title)
			if c.ClauseID != "" {
				fmt.Fprintf(&sb, " (`%s`)", c.ClauseID)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(report.ProposedEdits) > 0 {
		fmt.Fprintf(&sb, "## Proposed Edits (%d)\n\n", len(report.ProposedEdits))
		for _, edit := range report.ProposedEdits {
			intent := edit.Intent
			if intent == "" {
				intent = model.EditIntentInsert
			}
			fmt.Fprintf(&sb, "- **%s**", intent)
			if edit.ClauseID != "" {
				fmt.Fprintf(&sb, " (`%s`)", edit.ClauseID)
			}
			fmt.Fprintf(&sb, ": %s\n", edit.ProposedText)
		}
		sb.WriteString("\n")
	}

	if len(report.PlaybookInsights) > 0 || len(report.DeviationInsights) > 0 {
		sb.WriteString("## Insights\n\n")
		for _, ins := range append(append([]model.Insight{}, report.PlaybookInsights...), report.DeviationInsights...) {
			if ins.Topic != "" {
				fmt.Fprintf(&sb, "- **%s:** %s\n", ins.Topic, ins.Summary)
			} else {
				fmt.Fprintf(&sb, "- %s\n", ins.Summary)
			}
		}
		sb.WriteString("\n")
	}

	if r.includeFooter {
		sb.WriteString("---\n\n")
		sb.WriteString("Every excerpt above is verbatim contract text; claims without supporting language were withdrawn or removed.\n")
	}

	return sb.String()
}

// RenderSummary prints a one-line result summary to stdout.
func (r *Renderer) RenderSummary(report *model.AnalysisReport, name string, cacheHit bool) {
	met, total := 0, len(report.CriteriaMet)
	for _, c := range report.CriteriaMet {
		if c.Met {
			met++
		}
	}
	suffix := ""
	if cacheHit {
		suffix = " (cached)"
	}
	fmt.Printf("%s: %d issues, %d/%d criteria met%s\n", name, len(report.IssuesToAddress), met, total, suffix)
}
