package llm

import (
	"strings"
	"testing"

	"github.com/clausebind/clausebind/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(AnalyzeRequest{
		ContractName: "acme-nda",
		Content:      "The parties agree as follows.",
		Clauses: []model.Clause{
			{ID: "c1", Title: "Confidentiality"},
			{ClauseID: "c2", Title: "Term"},
		},
		Playbook: &model.Playbook{
			CriticalClauses: []model.CriticalClause{
				{Title: "Return of materials", MustInclude: []string{"destruction of copies"}},
			},
			ClauseAnchors: []string{"Governing law"},
		},
	})

	for _, want := range []string{
		"acme-nda",
		"- c1: Confidentiality",
		"- c2: Term",
		"Return of materials",
		"destruction of copies",
		"Governing law",
		"The parties agree as follows.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestParseReport(t *testing.T) {
	raw := "Here is the analysis:\n```json\n" +
		`{"contractSummary": "NDA", "issuesToAddress": [{"id": "i1", "title": "No term"}], "criteriaMet": []}` +
		"\n```"
	report, err := ParseReport(raw)
	if err != nil {
		t.Fatal(err)
	}
	if report.ContractSummary != "NDA" || len(report.IssuesToAddress) != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestParseReport_Invalid(t *testing.T) {
	if _, err := ParseReport("the model refused to answer"); err == nil {
		t.Fatal("expected parse error")
	}
}
