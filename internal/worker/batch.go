package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/clausebind/clausebind/internal/pipeline"
)

// Grounder grounds one contract. Satisfied by *pipeline.Pipeline.
type Grounder interface {
	GroundContract(ctx context.Context, job pipeline.GroundJob) (*pipeline.GroundResult, error)
}

// GroundingJob wraps one contract job for the pool.
type GroundingJob struct {
	Job      pipeline.GroundJob
	Grounder Grounder
}

// Execute grounds the contract.
func (j *GroundingJob) Execute(ctx context.Context) Result {
	result, err := j.Grounder.GroundContract(ctx, j.Job)
	if err != nil {
		return &GroundingResult{Name: j.Job.Name, Error: err}
	}
	return &GroundingResult{Name: j.Job.Name, Result: result}
}

// GroundingResult is the outcome of grounding one contract in a batch.
type GroundingResult struct {
	Name   string
	Result *pipeline.GroundResult
	Error  error
}

// GetError returns the job's error, if any.
func (r *GroundingResult) GetError() error {
	return r.Error
}

// BatchProcessor grounds many contracts concurrently.
type BatchProcessor struct {
	grounder    Grounder
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(grounder Grounder, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		grounder:    grounder,
		concurrency: concurrency,
	}
}

// Process grounds the given contracts concurrently.
func (b *BatchProcessor) Process(ctx context.Context, jobs []pipeline.GroundJob) []*GroundingResult {
	if len(jobs) == 0 {
		return []*GroundingResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, job := range jobs {
		pool.Submit(&GroundingJob{
			Job:      job,
			Grounder: b.grounder,
		})
	}

	results := pool.Wait()

	groundingResults := make([]*GroundingResult, len(results))
	for i, result := range results {
		groundingResults[i] = result.(*GroundingResult)
	}

	return groundingResults
}

// ProcessManifest reads a manifest file and grounds every contract in it.
func (b *BatchProcessor) ProcessManifest(ctx context.Context, path string) ([]*GroundingResult, error) {
	jobs, err := ReadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.Process(ctx, jobs), nil
}

// manifest is the YAML batch description. Relative paths are resolved
// against the manifest's directory; per-contract fields override the
// defaults.
type manifest struct {
	Defaults  manifestEntry   `yaml:"defaults"`
	Contracts []manifestEntry `yaml:"contracts"`
}

type manifestEntry struct {
	Name         string `yaml:"name"`
	Report       string `yaml:"report"`
	Clauses      string `yaml:"clauses"`
	Content      string `yaml:"content"`
	Playbook     string `yaml:"playbook"`
	ForceRefresh bool   `yaml:"force_refresh"`
}

// ReadManifest parses a batch manifest into contract jobs. Duplicate names
// keep the first entry.
func ReadManifest(path string) ([]pipeline.GroundJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	var jobs []pipeline.GroundJob
	seen := make(map[string]bool)

	for i, entry := range m.Contracts {
		if entry.Name == "" {
			return nil, fmt.Errorf("manifest %s: contract %d has no name", path, i)
		}
		if seen[entry.Name] {
			continue
		}
		seen[entry.Name] = true

		jobs = append(jobs, pipeline.GroundJob{
			Name:         entry.Name,
			ReportPath:   resolve(dir, pick(entry.Report, m.Defaults.Report)),
			ClausesPath:  resolve(dir, pick(entry.Clauses, m.Defaults.Clauses)),
			ContentPath:  resolve(dir, pick(entry.Content, m.Defaults.Content)),
			PlaybookPath: resolve(dir, pick(entry.Playbook, m.Defaults.Playbook)),
			ForceRefresh: entry.ForceRefresh || m.Defaults.ForceRefresh,
		})
	}

	return jobs, nil
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
