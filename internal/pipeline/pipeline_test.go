package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clausebind/clausebind/internal/evidence"
	"github.com/clausebind/clausebind/internal/model"
)

const testClauseText = "Each party shall hold the other party's Confidential Information in strict confidence " +
	"and shall not disclose it to any third party. These confidentiality obligations survive termination."

func writeFixtures(t *testing.T) (dir string, job GroundJob) {
	t.Helper()
	dir = t.TempDir()

	clauses := `[{"id": "c1", "title": "1. Confidentiality", "originalText": ` + mustJSON(t, testClauseText) + `}]`
	content := "1. Confidentiality " + testClauseText

	report := map[string]any{
		"contractSummary": "Mutual NDA between two parties.",
		"issuesToAddress": []map[string]any{
			{
				"id":       "i1",
				"title":    "Confidentiality obligations are one-way",
				"severity": "high",
				"clauseReference": map[string]any{
					"clauseId": "c1",
					"excerpt":  "shall not disclose it to any third party",
				},
			},
		},
		"criteriaMet": []any{},
	}
	reportData, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}

	job = GroundJob{
		Name:        "acme-nda",
		ReportPath:  filepath.Join(dir, "report.json"),
		ClausesPath: filepath.Join(dir, "clauses.json"),
		ContentPath: filepath.Join(dir, "content.txt"),
	}
	for path, data := range map[string]string{
		job.ReportPath:  string(reportData),
		job.ClausesPath: clauses,
		job.ContentPath: content,
	} {
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir, job
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	return cfg
}

func TestPipeline_GroundContract(t *testing.T) {
	_, job := writeFixtures(t)
	p, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	res, err := p.GroundContract(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("first run should not be a cache hit")
	}
	if len(res.Report.IssuesToAddress) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(res.Report.IssuesToAddress))
	}
	iss := res.Report.IssuesToAddress[0]
	if iss.ClauseReference.ClauseID != "c1" {
		t.Errorf("expected issue bound to c1, got %q", iss.ClauseReference.ClauseID)
	}
	if evidence.IsMissingMarker(iss.ClauseReference.Excerpt) {
		t.Errorf("expected verbatim excerpt to survive, got %q", iss.ClauseReference.Excerpt)
	}
	if len(res.Report.ClauseExtractions) != 1 {
		t.Errorf("expected clause extractions in output, got %d", len(res.Report.ClauseExtractions))
	}
}

func TestPipeline_CacheHit(t *testing.T) {
	_, job := writeFixtures(t)
	p, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first, err := p.GroundContract(ctx, job)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.GroundContract(ctx, job)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if second.Report.IssuesToAddress[0].ClauseReference.ClauseID != first.Report.IssuesToAddress[0].ClauseReference.ClauseID {
		t.Error("cached report differs from fresh report")
	}

	job.ForceRefresh = true
	third, err := p.GroundContract(ctx, job)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("force refresh should bypass the cache read")
	}
}

func TestPipeline_CacheKeyedOnInputs(t *testing.T) {
	_, job := writeFixtures(t)
	p, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := p.GroundContract(ctx, job); err != nil {
		t.Fatal(err)
	}

	// Any change to an input file must miss the cache.
	data, err := os.ReadFile(job.ContentPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(job.ContentPath, append(data, " Amended."...), 0644); err != nil {
		t.Fatal(err)
	}
	res, err := p.GroundContract(ctx, job)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("edited content should not hit the cache")
	}
}

func TestPipeline_NoReportNoProvider(t *testing.T) {
	_, job := writeFixtures(t)
	job.ReportPath = ""
	cfg := testConfig(t)
	cfg.Cache.Enabled = false

	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.GroundContract(context.Background(), job); err == nil {
		t.Fatal("expected error when no draft exists and drafting is disabled")
	}
}

func TestPipeline_BrokenProviderDegradesToError(t *testing.T) {
	// An LLM provider that fails to construct (openai without an api key)
	// must leave the pipeline with no provider at all, so a draft-less job
	// fails with a clean error instead of dereferencing a dead provider.
	_, job := writeFixtures(t)
	job.ReportPath = ""
	cfg := testConfig(t)
	cfg.Cache.Enabled = false
	cfg.LLM.Provider = "openai"
	cfg.LLM.APIKey = ""

	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.GroundContract(context.Background(), job)
	if err == nil {
		t.Fatal("expected error when the provider failed to initialize")
	}
	if !strings.Contains(err.Error(), "no LLM provider") {
		t.Errorf("expected missing-provider error, got %v", err)
	}
}

func TestPipeline_EvidenceDebug(t *testing.T) {
	_, job := writeFixtures(t)
	cfg := testConfig(t)
	cfg.Cache.Enabled = false
	cfg.Debug.Evidence = true

	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.GroundContract(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Report.Metadata["evidenceDebug"]; !ok {
		t.Error("expected evidenceDebug records in metadata")
	}
}

func TestRenderer_Markdown(t *testing.T) {
	r := NewRenderer(true)
	report := &model.AnalysisReport{
		ContractSummary: "Mutual NDA.",
		IssuesToAddress: []model.Issue{
			{
				Title:    "No term duration",
				Severity: model.SeverityHigh,
				ClauseReference: &model.ClauseReference{
					ClauseID: "term",
					Heading:  "6. Term",
					Excerpt:  "remains in force until terminated",
				},
				Recommendation: "Add a fixed term.",
			},
			{
				Title:           "Missing required clause: Audit rights",
				Severity:        model.SeverityMedium,
				ClauseReference: &model.ClauseReference{Excerpt: evidence.MissingMarker},
			},
		},
		CriteriaMet: []model.Criterion{
			{Title: "Confidentiality obligations", Met: true, ClauseID: "c1"},
			{Title: "Return of materials", Met: false},
		},
		ProposedEdits: []model.ProposedEdit{
			{ClauseID: "term", Intent: model.EditIntentReplace, ProposedText: "This Agreement expires after two years."},
		},
	}

	md := r.Markdown(report, "acme-nda")
	for _, want := range []string{
		"# Contract Review: acme-nda",
		"Mutual NDA.",
		"[HIGH] No term duration",
		"> remains in force until terminated",
		"Add a fixed term.",
		"(1/2 met)",
		"- [x] Confidentiality obligations (`c1`)",
		"- [ ] Return of materials",
		"This Agreement expires after two years.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Marker excerpts are internal state, not contract quotes.
	if strings.Contains(md, "> "+evidence.MissingMarker) {
		t.Error("missing-evidence marker rendered as a quotation")
	}
}

func TestRenderer_RenderJSON(t *testing.T) {
	r := NewRenderer(false)
	path := filepath.Join(t.TempDir(), "out.json")
	report := &model.AnalysisReport{ContractSummary: "NDA"}

	if err := r.RenderJSON(report, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back model.AnalysisReport
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.ContractSummary != "NDA" {
		t.Errorf("roundtrip lost summary: %+v", back)
	}
}
