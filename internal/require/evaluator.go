// Package require decides whether playbook requirements are satisfied by
// the extracted clauses. Satisfaction is structural-token gated and
// threshold based; a handful of hand-tuned legal guards veto matches that
// look right lexically but are wrong in substance.
package require

import (
	"strings"

	"github.com/clausebind/clausebind/internal/lexicon"
	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/text"
)

// headingPriorityTerms mark requirements whose clause usually announces
// itself in a heading; for those the heading-ranked candidate is trusted
// over raw body overlap.
var headingPriorityTerms = map[string]struct{}{
	"definition":    {},
	"definitions":   {},
	"remedies":      {},
	"jurisdiction":  {},
	"termination":   {},
	"survival":      {},
	"miscellaneous": {},
}

// Match is the outcome of evaluating one requirement.
type Match struct {
	Clause   *model.Clause
	Coverage float64
	Hits     int
	Met      bool
	Method   string // "clause", "heading", "verbatim", or "none"
}

// Evaluator scores requirement coverage against clauses and raw content.
type Evaluator struct {
	lex *lexicon.Lexicon
	th  model.Thresholds
}

// NewEvaluator creates a requirement evaluator.
func NewEvaluator(lex *lexicon.Lexicon, th model.Thresholds) *Evaluator {
	return &Evaluator{lex: lex, th: th}
}

// FindRequirementMatch decides whether a requirement phrase is satisfied by
// any clause (or, as a last resort, verbatim by the raw content).
//
// When the requirement contains structural tokens, only those participate
// in matching; filler tokens would otherwise dilute coverage. Thresholds
// scale with requirement length: short requirements must be covered more
// completely, long ones must land at least two absolute hits.
func (e *Evaluator) FindRequirementMatch(requirement string, clauses []model.Clause, content string) Match {
	tokens := text.Tokenize(requirement)
	if len(tokens) == 0 {
		return Match{Method: "none"}
	}

	matchTokens := e.lex.StructuralTokens(tokens)
	if len(matchTokens) == 0 {
		matchTokens = tokens
	}

	minCoverage := e.th.RequirementCoverageLong
	if len(matchTokens) <= e.th.RequirementShortTokens {
		minCoverage = e.th.RequirementCoverageShort
	}
	minHits := 1
	if len(matchTokens) >= e.th.RequirementShortTokens+1 {
		minHits = e.th.RequirementMinHitsLong
	}

	best := Match{Method: "none"}
	for i := range clauses {
		clause := &clauses[i]
		clauseText := clause.Text()
		if clauseText == "" {
			continue
		}
		if !passesGuards(tokens, clauseText) {
			continue
		}

		doc := text.TokenSet(clause.Title + " " + clauseText)
		hits := e.lex.GateHits(matchTokens, doc)
		coverage := float64(hits) / float64(len(matchTokens))
		if coverage > best.Coverage || (coverage == best.Coverage && hits > best.Hits) {
			best = Match{Clause: clause, Coverage: coverage, Hits: hits, Method: "clause"}
		}
	}

	// A strong heading match outranks body overlap for requirements that
	// conventionally live under their own heading.
	if e.prefersHeading(tokens) {
		if heading := e.bestHeadingMatch(requirement, tokens, clauses); heading != nil {
			doc := text.TokenSet(heading.Title + " " + heading.Text())
			hits := e.lex.GateHits(matchTokens, doc)
			coverage := float64(hits) / float64(len(matchTokens))
			if coverage >= best.Coverage {
				best = Match{Clause: heading, Coverage: coverage, Hits: hits, Method: "heading"}
			}
		}
	}

	if best.Clause != nil && best.Coverage >= minCoverage && best.Hits >= minHits {
		best.Met = true
		return best
	}

	// Last resort: the requirement phrase appears verbatim in the raw
	// content and no guard objects.
	if content != "" {
		normReq := text.Normalize(requirement)
		if normReq != "" && strings.Contains(text.Normalize(content), normReq) && passesGuards(tokens, content) {
			return Match{Met: true, Coverage: 1.0, Hits: len(matchTokens), Method: "verbatim"}
		}
	}

	best.Met = false
	return best
}

func (e *Evaluator) prefersHeading(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := headingPriorityTerms[t]; ok {
			return true
		}
	}
	return false
}

func (e *Evaluator) bestHeadingMatch(requirement string, reqTokens []string, clauses []model.Clause) *model.Clause {
	var best *model.Clause
	bestScore := 0.0
	for i := range clauses {
		title := clauses[i].Title
		if title == "" {
			continue
		}
		if !passesGuards(reqTokens, clauses[i].Text()) {
			continue
		}
		score := text.Similarity(requirement, title).Value
		if score > bestScore {
			bestScore = score
			best = &clauses[i]
		}
	}
	if bestScore < e.th.HeadingMatchMin {
		return nil
	}
	return best
}
