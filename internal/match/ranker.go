// Package match ranks clause candidates and resolves clause references.
package match

import (
	"sort"

	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/text"
)

// candidate is an internal scored clause with its winning method attached.
type candidate struct {
	clause *model.Clause
	score  float64
	source string // "heading" or "text"
	method model.MatchMethod
}

// rankByHeading scores every clause heading against the query heading,
// strongest first. Clauses without headings are skipped.
func rankByHeading(heading string, clauses []model.Clause) []candidate {
	if heading == "" {
		return nil
	}
	var out []candidate
	for i := range clauses {
		title := clauses[i].Title
		if title == "" {
			continue
		}
		s := text.Similarity(heading, title)
		if s.Value <= 0 {
			continue
		}
		out = append(out, candidate{
			clause: &clauses[i],
			score:  s.Value,
			source: "heading",
			method: model.MatchByHeading,
		})
	}
	sortCandidates(out)
	return out
}

// rankByText scores the query text against every clause body (heading
// included, since extractors sometimes fold the heading into the text).
func rankByText(query string, clauses []model.Clause) []candidate {
	if query == "" {
		return nil
	}
	var out []candidate
	for i := range clauses {
		body := clauses[i].Text()
		if clauses[i].Title != "" {
			body = clauses[i].Title + " " + body
		}
		if body == "" {
			continue
		}
		s := text.Containment(query, body)
		if s.Value <= 0 {
			continue
		}
		method := model.MatchByText
		if s.Method == "ngram" {
			method = model.MatchByNGram
		}
		out = append(out, candidate{
			clause: &clauses[i],
			score:  s.Value,
			source: "text",
			method: method,
		})
	}
	sortCandidates(out)
	return out
}

// sortCandidates orders by score descending, breaking ties by clause key so
// ranking is deterministic for fixed inputs.
func sortCandidates(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].score != cs[j].score {
			return cs[i].score > cs[j].score
		}
		return cs[i].clause.Key() < cs[j].clause.Key()
	})
}

// mergeCandidates combines heading- and text-ranked lists, keeping the best
// score per clause, and returns the top n for diagnostics.
func mergeCandidates(heading, txt []candidate, n int) []model.Candidate {
	best := make(map[string]candidate)
	order := make([]string, 0, len(heading)+len(txt))
	for _, c := range append(append([]candidate{}, heading...), txt...) {
		key := c.clause.Key()
		if prev, ok := best[key]; !ok {
			best[key] = c
			order = append(order, key)
		} else if c.score > prev.score {
			best[key] = c
		}
	}

	merged := make([]candidate, 0, len(best))
	for _, key := range order {
		merged = append(merged, best[key])
	}
	sortCandidates(merged)

	if n > 0 && len(merged) > n {
		merged = merged[:n]
	}
	out := make([]model.Candidate, len(merged))
	for i, c := range merged {
		out[i] = model.Candidate{
			Clause: c.clause,
			Key:    c.clause.Key(),
			Title:  c.clause.Title,
			Score:  c.score,
			Source: c.source,
		}
	}
	return out
}
