package bind

import (
	"strings"

	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/text"
	"github.com/clausebind/clausebind/internal/trace"
)

// dedupeIssues collapses near-duplicate issues bound to the same clause,
// keeping the highest-severity representative. Unbound issues are never
// collapsed: two distinct missing-clause findings are not duplicates just
// because neither has a clause.
func (b *Binder) dedupeIssues(issues []model.Issue, sum *model.GroundingSummary) []model.Issue {
	if len(issues) < 2 {
		return issues
	}
	drop := make([]bool, len(issues))
	for i := 0; i < len(issues); i++ {
		if drop[i] {
			continue
		}
		keyI := issueClauseKey(&issues[i])
		if keyI == "" {
			continue
		}
		for j := i + 1; j < len(issues); j++ {
			if drop[j] || issueClauseKey(&issues[j]) != keyI {
				continue
			}
			if text.Jaccard(dedupeText(&issues[i]), dedupeText(&issues[j])) < b.th.DedupeSimilarity {
				continue
			}
			// Later wins only on strictly higher severity, so order is
			// stable across passes.
			loser := j
			if issues[j].Severity.Rank() > issues[i].Severity.Rank() {
				loser = i
			}
			drop[loser] = true
			b.sink.Emit(trace.Record{
				Kind:      trace.KindDeduped,
				ClaimID:   issues[loser].ID,
				ClauseKey: keyI,
			})
			sum.IssuesDropped++
			if loser == i {
				break
			}
		}
	}
	kept := make([]model.Issue, 0, len(issues))
	for i := range issues {
		if !drop[i] {
			kept = append(kept, issues[i])
		}
	}
	return kept
}

func issueClauseKey(iss *model.Issue) string {
	if iss.ClauseReference == nil {
		return ""
	}
	return iss.ClauseReference.ClauseID
}

// dedupeText is the text two issues are compared on: the recommendation
// when present, else the title.
func dedupeText(iss *model.Issue) string {
	if strings.TrimSpace(iss.Recommendation) != "" {
		return iss.Recommendation
	}
	return iss.Title
}
