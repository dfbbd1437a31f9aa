package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/pipeline"
)

// mockGrounder implements Grounder
type mockGrounder struct {
	ShouldError bool
}

func (m *mockGrounder) GroundContract(ctx context.Context, job pipeline.GroundJob) (*pipeline.GroundResult, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("ground error")
	}
	return &pipeline.GroundResult{
		Name:   job.Name,
		Report: &model.AnalysisReport{ContractSummary: "summary for " + job.Name},
	}, nil
}

func TestBatchProcessor_Process(t *testing.T) {
	processor := NewBatchProcessor(&mockGrounder{}, 2)

	jobs := []pipeline.GroundJob{
		{Name: "acme-nda"},
		{Name: "globex-msa"},
		{Name: "initech-dpa"},
	}

	results := processor.Process(context.Background(), jobs)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Result == nil || res.Result.Report == nil {
				t.Error("expected report for successful grounding")
			}
		} else {
			t.Errorf("unexpected error for %s: %v", res.Name, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_Process_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockGrounder{ShouldError: true}, 2)

	results := processor.Process(context.Background(), []pipeline.GroundJob{{Name: "acme-nda"}})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
	if results[0].Name != "acme-nda" {
		t.Errorf("failed job should keep its name, got %q", results[0].Name)
	}
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockGrounder{}, 2)

	results := processor.Process(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadManifest(t *testing.T) {
	path := writeManifest(t, `
defaults:
  playbook: playbooks/nda.yaml
contracts:
  - name: acme-nda
    report: drafts/acme.json
    clauses: clauses/acme.json
    content: contracts/acme.txt
  - name: globex-msa
    report: /abs/globex.json
    playbook: playbooks/msa.yaml
    force_refresh: true
`)

	jobs, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	dir := filepath.Dir(path)
	acme := jobs[0]
	if acme.Name != "acme-nda" {
		t.Errorf("unexpected name %q", acme.Name)
	}
	if acme.ReportPath != filepath.Join(dir, "drafts/acme.json") {
		t.Errorf("relative path not resolved against manifest dir: %q", acme.ReportPath)
	}
	if acme.PlaybookPath != filepath.Join(dir, "playbooks/nda.yaml") {
		t.Errorf("default playbook not applied: %q", acme.PlaybookPath)
	}
	if acme.ForceRefresh {
		t.Error("force_refresh should default to false")
	}

	globex := jobs[1]
	if globex.ReportPath != "/abs/globex.json" {
		t.Errorf("absolute path must not be rewritten: %q", globex.ReportPath)
	}
	if globex.PlaybookPath != filepath.Join(dir, "playbooks/msa.yaml") {
		t.Errorf("entry playbook should override default: %q", globex.PlaybookPath)
	}
	if !globex.ForceRefresh {
		t.Error("expected force_refresh true")
	}
}

func TestReadManifest_DuplicateNames(t *testing.T) {
	path := writeManifest(t, `
contracts:
  - name: acme-nda
    report: first.json
  - name: acme-nda
    report: second.json
`)

	jobs, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after deduplication, got %d", len(jobs))
	}
	if filepath.Base(jobs[0].ReportPath) != "first.json" {
		t.Errorf("first entry should win, got %q", jobs[0].ReportPath)
	}
}

func TestReadManifest_MissingName(t *testing.T) {
	path := writeManifest(t, `
contracts:
  - report: drafts/unnamed.json
`)

	if _, err := ReadManifest(path); err == nil {
		t.Error("expected error for unnamed contract")
	}
}

func TestReadManifest_NonExistent(t *testing.T) {
	if _, err := ReadManifest("no_such_manifest.yaml"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessManifest(t *testing.T) {
	path := writeManifest(t, `
contracts:
  - name: acme-nda
  - name: globex-msa
`)

	processor := NewBatchProcessor(&mockGrounder{}, 2)
	results, err := processor.ProcessManifest(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessManifest failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessManifest_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockGrounder{}, 2)
	if _, err := processor.ProcessManifest(context.Background(), "no_such_file.yaml"); err == nil {
		t.Error("expected error for non-existent manifest, got nil")
	}
}

func TestGroundingResult_GetError(t *testing.T) {
	r1 := &GroundingResult{Name: "acme-nda", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("grounding failed")
	r2 := &GroundingResult{Name: "acme-nda", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
