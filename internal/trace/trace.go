// Package trace collects per-claim grounding diagnostics. The pipeline
// emits a record for every binding decision it takes; sinks either discard
// them (production default) or collect them for the debug report section.
package trace

import (
	"sync"

	"github.com/clausebind/clausebind/internal/model"
)

// Record kinds.
const (
	KindIssueBound      = "issue-bound"
	KindIssueRebound    = "issue-rebound"
	KindIssueCleared    = "issue-cleared"
	KindIssueDropped    = "issue-dropped"
	KindIssueAdded      = "issue-added"
	KindCriterionMet    = "criterion-met"
	KindCriterionUnmet  = "criterion-unmet"
	KindExcerptRewrite  = "excerpt-rewrite"
	KindExcerptSuppress = "excerpt-suppress"
	KindEditDropped     = "edit-dropped"
	KindDeduped         = "issue-deduped"
)

// Record is one grounding decision with enough context to explain it.
type Record struct {
	Kind       string            `json:"kind"`
	ClaimID    string            `json:"claimId,omitempty"`
	ClauseKey  string            `json:"clauseKey,omitempty"`
	Method     model.MatchMethod `json:"method,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Candidates []model.Candidate `json:"candidates,omitempty"`
	Note       string            `json:"note,omitempty"`
}

// Sink receives grounding records. Implementations must be safe for
// concurrent use.
type Sink interface {
	Emit(Record)
}

// NopSink discards every record.
type NopSink struct{}

func (NopSink) Emit(Record) {}

// Collector accumulates records in order of emission.
type Collector struct {
	mu      sync.Mutex
	records []Record
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Emit(r Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
}

// Records returns a copy of everything emitted so far.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}
