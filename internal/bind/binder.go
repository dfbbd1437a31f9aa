// Package bind is the top-level grounding orchestrator. One pass over a
// draft analysis report resolves every clause binding, repairs or withdraws
// excerpts, recomputes criterion satisfaction, back-fills missing required
// clauses as issues, and drops redundant or placeholder claims. The pass is
// a pure transformation: inputs are never mutated, and a second pass over
// the output is a fixed point.
package bind

import (
	"errors"
	"strings"

	"github.com/clausebind/clausebind/internal/evidence"
	"github.com/clausebind/clausebind/internal/lexicon"
	"github.com/clausebind/clausebind/internal/match"
	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/require"
	"github.com/clausebind/clausebind/internal/text"
	"github.com/clausebind/clausebind/internal/trace"
)

// unsupportedNote is appended to an issue's rationale when its binding is
// withdrawn. Appended at most once so repeated passes do not accumulate it.
const unsupportedNote = "Supporting language for this issue was not found in the contract."

// backfillCategory marks issues synthesized from unmet playbook criteria.
// Such issues assert an absence and are never re-bound to a clause.
const backfillCategory = "playbook"

// Binder wires the matching pipeline together for one report pass.
type Binder struct {
	lex      *lexicon.Lexicon
	th       model.Thresholds
	resolver *match.Resolver
	builder  *evidence.Builder
	eval     *require.Evaluator
	registry *Registry
	sink     trace.Sink
}

// New creates a binder. A nil sink disables diagnostics.
func New(lex *lexicon.Lexicon, th model.Thresholds, sink trace.Sink) *Binder {
	if sink == nil {
		sink = trace.NopSink{}
	}
	return &Binder{
		lex:      lex,
		th:       th,
		resolver: match.NewResolver(th),
		builder:  evidence.NewBuilder(lex, th),
		eval:     require.NewEvaluator(lex, th),
		registry: NewRegistry(),
		sink:     sink,
	}
}

// Input is everything one grounding pass reads. Report is required; the
// rest may be empty, in which case nothing can be grounded and every claim
// is cleared.
type Input struct {
	Report   *model.AnalysisReport
	Clauses  []model.Clause
	Content  string
	Playbook *model.Playbook
}

// Ground runs one full grounding pass and returns a corrected copy of the
// report. The input report, clauses, and playbook are never mutated.
func (b *Binder) Ground(in Input) (*model.AnalysisReport, error) {
	if in.Report == nil {
		return nil, errors.New("ground: nil report")
	}
	rep := cloneReport(in.Report)
	var sum model.GroundingSummary

	origins := b.mergePlaybook(rep, in.Playbook)
	used := make(map[string][]string)
	for i := range rep.CriteriaMet {
		b.evaluateCriterion(&rep.CriteriaMet[i], in.Clauses, in.Content, used, &sum)
	}

	bindings := make([]issueBinding, len(rep.IssuesToAddress))
	for i := range rep.IssuesToAddress {
		bindings[i] = b.bindIssue(&rep.IssuesToAddress[i], in.Clauses, &sum)
	}
	b.suppressDuplicateExcerpts(rep.IssuesToAddress, bindings, &sum)
	rep.IssuesToAddress = b.filterIssues(rep.IssuesToAddress, rep.CriteriaMet, &sum)
	b.backfillCriteria(rep, origins, &sum)
	rep.ProposedEdits = b.groundEdits(rep.ProposedEdits, in.Clauses, &sum)
	rep.IssuesToAddress = b.dedupeIssues(rep.IssuesToAddress, &sum)

	validateInsights(rep.PlaybookInsights, in.Clauses)
	validateInsights(rep.DeviationInsights, in.Clauses)
	rep.ClauseExtractions = in.Clauses
	if rep.Metadata == nil {
		rep.Metadata = make(map[string]any)
	}
	rep.Metadata["groundingSummary"] = sum
	return rep, nil
}

// issueBinding records where an issue ended up, for the duplicate-excerpt
// sweep that runs after all issues are processed.
type issueBinding struct {
	clauseKey  string
	confidence float64
}

// bindIssue resolves one issue's clause binding in place and repairs its
// excerpt against the bound clause.
func (b *Binder) bindIssue(iss *model.Issue, clauses []model.Clause, sum *model.GroundingSummary) issueBinding {
	if iss.Severity == "" {
		iss.Severity = model.SeverityMedium
	}
	if iss.ClauseReference == nil {
		iss.ClauseReference = &model.ClauseReference{}
	}
	ref := iss.ClauseReference

	// Back-filled issues assert that a clause is absent; re-binding one
	// would contradict the criterion that produced it.
	if iss.Category == backfillCategory && strings.HasPrefix(iss.ID, "criterion-") {
		ref.ClauseID = ""
		ref.Excerpt = evidence.MissingMarker
		return issueBinding{}
	}

	anchor := issueAnchor(iss)
	tokens := text.Tokenize(anchor)
	check := b.registry.Classify(anchor)

	res := b.resolver.Resolve(match.Query{Reference: ref, FallbackText: anchor}, clauses)
	clause := res.Match
	confidence := res.Confidence
	method := res.Method

	if clause != nil && !b.supportsClaim(tokens, check, clause) {
		prior := clause.Key()
		clause, confidence, method = b.rebind(ref.Heading, anchor, tokens, check, clauses)
		if clause != nil {
			sum.IssuesRebound++
			b.sink.Emit(trace.Record{
				Kind:       trace.KindIssueRebound,
				ClaimID:    iss.ID,
				ClauseKey:  clause.Key(),
				Method:     method,
				Confidence: confidence,
				Note:       "moved off " + prior,
			})
		}
	}

	if clause == nil {
		b.clearIssue(iss, sum)
		return issueBinding{}
	}

	ref.ClauseID = clause.Key()
	if clause.Title != "" {
		ref.Heading = clause.Title
	}
	b.repairExcerpt(iss, clause, sum)
	sum.IssuesBound++
	b.sink.Emit(trace.Record{
		Kind:       trace.KindIssueBound,
		ClaimID:    iss.ID,
		ClauseKey:  clause.Key(),
		Method:     method,
		Confidence: confidence,
		Candidates: res.Candidates,
	})
	return issueBinding{clauseKey: clause.Key(), confidence: confidence}
}

// supportsClaim applies the structural-token gate and the topic support
// check to a candidate clause.
func (b *Binder) supportsClaim(claimTokens []string, check *SupportCheck, clause *model.Clause) bool {
	doc := text.TokenSet(clause.Title + " " + clause.Text())
	if !b.lex.PassesGate(claimTokens, doc, b.th) {
		return false
	}
	return check == nil || check.Supports(clause)
}

// rebind looks for the best clause that does pass the gate and support
// check, first through the resolver without the discredited clause id, then
// by scanning all clauses on containment.
func (b *Binder) rebind(heading, anchor string, tokens []string, check *SupportCheck, clauses []model.Clause) (*model.Clause, float64, model.MatchMethod) {
	res := b.resolver.Resolve(match.Query{
		Reference:    &model.ClauseReference{Heading: heading},
		FallbackText: anchor,
	}, clauses)
	if res.Match != nil && b.supportsClaim(tokens, check, res.Match) {
		return res.Match, res.Confidence, res.Method
	}

	var best *model.Clause
	bestScore := 0.0
	for i := range clauses {
		c := &clauses[i]
		if !b.supportsClaim(tokens, check, c) {
			continue
		}
		score := text.Containment(anchor, c.Title+" "+c.Text()).Value
		if score < b.th.TextMatchMin {
			continue
		}
		if score > bestScore || (score == bestScore && best != nil && c.Key() < best.Key()) {
			best, bestScore = c, score
		}
	}
	if best == nil {
		return nil, 0, model.MatchNone
	}
	return best, bestScore, model.MatchByText
}

// clearIssue withdraws an issue's binding: no clause, canonical missing
// marker, and a one-time rationale note.
func (b *Binder) clearIssue(iss *model.Issue, sum *model.GroundingSummary) {
	ref := iss.ClauseReference
	ref.ClauseID = ""
	ref.Excerpt = evidence.MissingMarker
	if iss.Rationale == "" {
		iss.Rationale = unsupportedNote
	} else if !strings.Contains(iss.Rationale, unsupportedNote) {
		iss.Rationale = strings.TrimSpace(iss.Rationale) + " " + unsupportedNote
	}
	sum.IssuesCleared++
	b.sink.Emit(trace.Record{
		Kind:    trace.KindIssueCleared,
		ClaimID: iss.ID,
		Reason:  "no supporting clause",
	})
}

// repairExcerpt keeps a verified excerpt, and otherwise rebuilds one from
// the bound clause. The suppression marker is sticky: a withdrawn excerpt
// stays withdrawn on later passes.
func (b *Binder) repairExcerpt(iss *model.Issue, clause *model.Clause, sum *model.GroundingSummary) {
	ref := iss.ClauseReference
	if strings.EqualFold(strings.TrimSpace(ref.Excerpt), evidence.NotFoundMarker) {
		return
	}
	if ref.Excerpt != "" && !evidence.IsMissingMarker(ref.Excerpt) {
		if res := evidence.CheckMatchAgainstClause(ref.Excerpt, clause, b.th); res.Matched {
			return
		}
	}
	built := b.builder.Build(clause.Text(), iss.Title+" "+iss.Recommendation)
	if built == "" {
		built = evidence.MissingMarker
	}
	if built != ref.Excerpt {
		ref.Excerpt = built
		sum.ExcerptsRewritten++
		b.sink.Emit(trace.Record{
			Kind:      trace.KindExcerptRewrite,
			ClaimID:   iss.ID,
			ClauseKey: clause.Key(),
		})
	}
}

// suppressDuplicateExcerpts withdraws low-confidence copies of an excerpt
// that appears on issues bound to different clauses. One strong match's
// quotation must not lend false credibility to an unrelated claim.
func (b *Binder) suppressDuplicateExcerpts(issues []model.Issue, bindings []issueBinding, sum *model.GroundingSummary) {
	groups := make(map[string][]int)
	for i := range issues {
		ref := issues[i].ClauseReference
		if ref == nil || bindings[i].clauseKey == "" {
			continue
		}
		if ref.Excerpt == "" || evidence.IsMissingMarker(ref.Excerpt) {
			continue
		}
		norm := text.Normalize(ref.Excerpt)
		groups[norm] = append(groups[norm], i)
	}
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		distinct := make(map[string]struct{})
		for _, i := range members {
			distinct[bindings[i].clauseKey] = struct{}{}
		}
		if len(distinct) < 2 {
			continue
		}
		for _, i := range members {
			if bindings[i].confidence >= b.th.DuplicateExcerptConfidence {
				continue
			}
			issues[i].ClauseReference.Excerpt = evidence.NotFoundMarker
			b.sink.Emit(trace.Record{
				Kind:       trace.KindExcerptSuppress,
				ClaimID:    issues[i].ID,
				ClauseKey:  bindings[i].clauseKey,
				Confidence: bindings[i].confidence,
			})
		}
	}
}

// filterIssues drops unbound issues that restate an already-met criterion
// and speculative draft-update issues shadowed by a stronger issue.
func (b *Binder) filterIssues(issues []model.Issue, criteria []model.Criterion, sum *model.GroundingSummary) []model.Issue {
	kept := make([]model.Issue, 0, len(issues))
	for i := range issues {
		iss := issues[i]
		if b.metCriterionCovers(&iss, criteria) {
			sum.IssuesDropped++
			b.sink.Emit(trace.Record{Kind: trace.KindIssueDropped, ClaimID: iss.ID, Reason: "criterion already met"})
			continue
		}
		if b.speculativeDuplicate(i, issues) {
			sum.IssuesDropped++
			b.sink.Emit(trace.Record{Kind: trace.KindIssueDropped, ClaimID: iss.ID, Reason: "speculative duplicate"})
			continue
		}
		kept = append(kept, iss)
	}
	return kept
}

// metCriterionCovers reports whether an unbound issue restates a criterion
// the contract already satisfies. Bound issues are left alone: an issue
// inside a satisfied clause area can still be real.
func (b *Binder) metCriterionCovers(iss *model.Issue, criteria []model.Criterion) bool {
	if iss.ClauseReference != nil && iss.ClauseReference.ClauseID != "" {
		return false
	}
	target := iss.Title + " " + iss.Recommendation
	for i := range criteria {
		if !criteria[i].Met {
			continue
		}
		if text.Containment(criteria[i].Title, target).Value >= b.th.CriterionIssueSimilarity {
			return true
		}
	}
	return false
}

// speculativeDuplicate reports whether the issue at index idx is a hedged
// draft-update suggestion shadowed by an at-least-as-severe issue on the
// same ground.
func (b *Binder) speculativeDuplicate(idx int, all []model.Issue) bool {
	iss := &all[idx]
	norm := text.Normalize(iss.Title + " " + iss.Recommendation)
	if !strings.Contains(norm, "draft update") && !strings.Contains(norm, "update the draft") {
		return false
	}
	for i := range all {
		if i == idx {
			continue
		}
		other := &all[i]
		if other.Severity.Rank() < iss.Severity.Rank() {
			continue
		}
		if text.Containment(iss.Title, other.Title+" "+other.Recommendation).Value >= b.th.CriterionIssueSimilarity {
			return true
		}
	}
	return false
}

// backfillCriteria synthesizes an issue for every unmet, non-optional
// criterion no existing issue covers, so required clauses are never
// silently dropped from the review.
func (b *Binder) backfillCriteria(rep *model.AnalysisReport, origins map[string]string, sum *model.GroundingSummary) {
	for i := range rep.CriteriaMet {
		cr := &rep.CriteriaMet[i]
		if cr.Met || cr.Optional || strings.TrimSpace(cr.Title) == "" {
			continue
		}
		if b.issueCovers(rep.IssuesToAddress, cr.Title) {
			continue
		}
		severity := model.SeverityMedium
		if origins[text.Normalize(cr.Title)] == originCritical {
			severity = model.SeverityHigh
		}
		issue := model.Issue{
			ID:             "criterion-" + slugify(cr.Title),
			Title:          "Missing required clause: " + cr.Title,
			Severity:       severity,
			Category:       backfillCategory,
			Recommendation: "Add a clause covering " + strings.ToLower(cr.Title) + ".",
			Rationale:      "The playbook requires this clause and no supporting language was found in the contract.",
			ClauseReference: &model.ClauseReference{
				Excerpt: evidence.MissingMarker,
			},
		}
		rep.IssuesToAddress = append(rep.IssuesToAddress, issue)
		sum.IssuesSynthesized++
		b.sink.Emit(trace.Record{Kind: trace.KindIssueAdded, ClaimID: issue.ID, Note: cr.Title})
	}
}

// issueCovers reports whether any existing issue already covers the
// criterion's topic.
func (b *Binder) issueCovers(issues []model.Issue, criterionTitle string) bool {
	for i := range issues {
		target := issues[i].Title + " " + issues[i].Recommendation
		if text.Containment(criterionTitle, target).Value >= b.th.CriterionIssueSimilarity {
			return true
		}
	}
	return false
}

// groundEdits drops placeholder and redundant proposed edits and repairs
// clause ids on the rest.
func (b *Binder) groundEdits(edits []model.ProposedEdit, clauses []model.Clause, sum *model.GroundingSummary) []model.ProposedEdit {
	if len(edits) == 0 {
		return edits
	}
	kept := make([]model.ProposedEdit, 0, len(edits))
	for _, e := range edits {
		if isPlaceholderText(e.ProposedText) {
			sum.EditsDropped++
			b.sink.Emit(trace.Record{Kind: trace.KindEditDropped, ClaimID: e.ID, Reason: "placeholder text"})
			continue
		}
		clause := model.FindClause(clauses, e.ClauseID)
		if clause == nil && strings.TrimSpace(e.AnchorText+e.ProposedText) != "" {
			res := b.resolver.Resolve(match.Query{
				FallbackText: strings.TrimSpace(e.AnchorText + " " + e.ProposedText),
			}, clauses)
			clause = res.Match
		}
		if clause != nil {
			if text.Containment(e.ProposedText, clause.Title+" "+clause.Text()).Value > b.th.EditRedundancy {
				sum.EditsDropped++
				b.sink.Emit(trace.Record{Kind: trace.KindEditDropped, ClaimID: e.ID, ClauseKey: clause.Key(), Reason: "covered by existing clause"})
				continue
			}
			e.ClauseID = clause.Key()
		} else {
			e.ClauseID = ""
		}
		kept = append(kept, e)
	}
	return kept
}

// isPlaceholderText detects templated drafting text that was never filled
// in: bracketed slots, TBD/TODO markers, and the like.
func isPlaceholderText(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	if strings.Contains(s, "[") && strings.Contains(s, "]") {
		return true
	}
	norm := " " + text.Normalize(s) + " "
	for _, marker := range []string{" tbd ", " todo ", " to be determined ", " to be drafted ", " placeholder "} {
		if strings.Contains(norm, marker) {
			return true
		}
	}
	return false
}

// validateInsights clears clause pins that do not resolve to a known clause.
func validateInsights(insights []model.Insight, clauses []model.Clause) {
	for i := range insights {
		if insights[i].ClauseID != "" && model.FindClause(clauses, insights[i].ClauseID) == nil {
			insights[i].ClauseID = ""
		}
	}
}

// issueAnchor assembles the text that represents what an issue is about.
// The existing excerpt is deliberately excluded: it is the thing under
// repair and may be fabricated.
func issueAnchor(iss *model.Issue) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{iss.Title, iss.Category, iss.Recommendation} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// slugify turns a title into a stable issue id fragment.
func slugify(s string) string {
	return strings.ReplaceAll(text.Normalize(s), " ", "-")
}

// cloneReport copies the report deeply enough that grounding never mutates
// the caller's value. Metadata maps are copied one level deep; their values
// ride along untouched.
func cloneReport(in *model.AnalysisReport) *model.AnalysisReport {
	out := *in
	out.GeneralInformation = cloneMap(in.GeneralInformation)
	out.Metadata = cloneMap(in.Metadata)
	out.ContractSummary = in.ContractSummary

	out.IssuesToAddress = make([]model.Issue, len(in.IssuesToAddress))
	for i, iss := range in.IssuesToAddress {
		if iss.ClauseReference != nil {
			ref := *iss.ClauseReference
			iss.ClauseReference = &ref
		}
		iss.Tags = append([]string(nil), iss.Tags...)
		out.IssuesToAddress[i] = iss
	}

	out.CriteriaMet = make([]model.Criterion, len(in.CriteriaMet))
	for i, cr := range in.CriteriaMet {
		cr.MustInclude = append([]string(nil), cr.MustInclude...)
		out.CriteriaMet[i] = cr
	}

	out.ProposedEdits = append([]model.ProposedEdit(nil), in.ProposedEdits...)
	out.PlaybookInsights = append([]model.Insight(nil), in.PlaybookInsights...)
	out.DeviationInsights = append([]model.Insight(nil), in.DeviationInsights...)
	out.ClauseExtractions = append([]model.Clause(nil), in.ClauseExtractions...)
	return &out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
