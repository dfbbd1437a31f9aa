package match

import (
	"strings"

	"github.com/clausebind/clausebind/internal/evidence"
	"github.com/clausebind/clausebind/internal/model"
)

// Query is one clause-resolution request. Any of the fields may be empty;
// the resolver works with whatever signals it gets.
type Query struct {
	Reference    *model.ClauseReference
	FallbackText string
}

// Resolver turns clause references and free text into clause matches.
type Resolver struct {
	th model.Thresholds
}

// NewResolver creates a resolver with the given thresholds.
func NewResolver(th model.Thresholds) *Resolver {
	return &Resolver{th: th}
}

// Resolve finds the clause a query points at.
//
// An explicit clauseId that resolves wins outright (confidence 1.0, method
// "id") and is the only path that bypasses the heuristics. Otherwise clauses
// are ranked by heading similarity against the heading hint and by text
// similarity against the excerpt plus fallback text; the heading winner is
// trusted over the text winner when strong, since headings are a much harder
// signal to match by accident. A score below the applicable minimum yields
// method "none": no match is always representable and preferred over a
// confident wrong one.
func (r *Resolver) Resolve(q Query, clauses []model.Clause) model.MatchResult {
	ref := q.Reference
	if ref == nil {
		ref = &model.ClauseReference{}
	}

	if clause := model.FindClause(clauses, ref.ClauseID); clause != nil {
		return model.MatchResult{
			Match:      clause,
			Confidence: 1.0,
			Method:     model.MatchByID,
			Candidates: []model.Candidate{{
				Clause: clause,
				Key:    clause.Key(),
				Title:  clause.Title,
				Score:  1.0,
				Source: "id",
			}},
		}
	}

	queryText := buildQueryText(ref.Excerpt, q.FallbackText)
	headingRanked := rankByHeading(ref.Heading, clauses)
	textRanked := rankByText(queryText, clauses)
	candidates := mergeCandidates(headingRanked, textRanked, r.th.CandidateLimit)

	var headBest, textBest *candidate
	if len(headingRanked) > 0 {
		headBest = &headingRanked[0]
	}
	if len(textRanked) > 0 {
		textBest = &textRanked[0]
	}

	chosen := r.choose(headBest, textBest, ref.Heading != "")
	if chosen == nil {
		return model.MatchResult{Method: model.MatchNone, Candidates: candidates}
	}

	minimum := r.th.TextMatchMin
	if chosen.source == "heading" {
		minimum = r.th.HeadingMatchMin
	}
	if chosen.score < minimum {
		return model.MatchResult{Method: model.MatchNone, Candidates: candidates}
	}

	return model.MatchResult{
		Match:      chosen.clause,
		Confidence: chosen.score,
		Method:     chosen.method,
		Candidates: candidates,
	}
}

// choose arbitrates between the heading-ranked and text-ranked winners.
func (r *Resolver) choose(head, txt *candidate, explicitHeading bool) *candidate {
	if head == nil {
		return txt
	}
	if head.score >= r.th.HeadingMatchMin {
		switch {
		case txt == nil:
			return head
		case txt.score < r.th.TextMatchMin:
			return head
		case head.score >= txt.score+r.th.HeadingPreferenceMargin:
			return head
		case explicitHeading && head.score >= r.th.HeadingHintStrong && head.score >= txt.score-r.th.HeadingHintSlack:
			return head
		}
	}
	if txt != nil {
		return txt
	}
	return head
}

// buildQueryText assembles the free-text query from the excerpt and fallback
// text, skipping excerpts that are only missing-evidence markers.
func buildQueryText(excerpt, fallback string) string {
	parts := make([]string, 0, 2)
	if excerpt != "" && !evidence.IsMissingMarker(excerpt) {
		parts = append(parts, excerpt)
	}
	if fallback != "" {
		parts = append(parts, fallback)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
