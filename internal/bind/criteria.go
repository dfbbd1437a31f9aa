package bind

import (
	"strings"

	"github.com/clausebind/clausebind/internal/evidence"
	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/require"
	"github.com/clausebind/clausebind/internal/text"
	"github.com/clausebind/clausebind/internal/trace"
)

// Criterion origins, used to grade the severity of back-filled issues.
const (
	originCritical = "critical"
	originAnchor   = "anchor"
)

// mergePlaybook folds the playbook into the draft's criteria list: every
// critical clause and clause anchor gets a criterion, and mustInclude and
// optional flags always come from the playbook, never the draft. Returns
// the origin of each playbook-sourced criterion by normalized title.
func (b *Binder) mergePlaybook(rep *model.AnalysisReport, pb *model.Playbook) map[string]string {
	origins := make(map[string]string)
	if pb == nil {
		return origins
	}
	find := func(title string) *model.Criterion {
		norm := text.Normalize(title)
		for i := range rep.CriteriaMet {
			if text.Normalize(rep.CriteriaMet[i].Title) == norm {
				return &rep.CriteriaMet[i]
			}
		}
		return nil
	}
	for _, cc := range pb.CriticalClauses {
		if strings.TrimSpace(cc.Title) == "" {
			continue
		}
		origins[text.Normalize(cc.Title)] = originCritical
		if cr := find(cc.Title); cr != nil {
			cr.MustInclude = append([]string(nil), cc.MustInclude...)
			cr.Optional = cc.Optional
		} else {
			rep.CriteriaMet = append(rep.CriteriaMet, model.Criterion{
				Title:       cc.Title,
				MustInclude: append([]string(nil), cc.MustInclude...),
				Optional:    cc.Optional,
			})
		}
	}
	for _, anchor := range pb.ClauseAnchors {
		if strings.TrimSpace(anchor) == "" {
			continue
		}
		norm := text.Normalize(anchor)
		if _, dup := origins[norm]; dup {
			continue
		}
		origins[norm] = originAnchor
		if find(anchor) == nil {
			rep.CriteriaMet = append(rep.CriteriaMet, model.Criterion{Title: anchor})
		}
	}
	return origins
}

// evaluateCriterion recomputes one criterion from scratch. The draft's met
// flag and evidence are never trusted; both are derived here. The used map
// tracks excerpts already issued per clause so several criteria satisfied by
// one long clause quote different sentences of it.
func (b *Binder) evaluateCriterion(cr *model.Criterion, clauses []model.Clause, content string, used map[string][]string, sum *model.GroundingSummary) {
	req := strings.TrimSpace(cr.Title)
	if req == "" {
		req = strings.TrimSpace(cr.Description)
	}
	if req == "" {
		b.markUnmet(cr, sum, "empty requirement")
		return
	}

	m := b.eval.FindRequirementMatch(req, clauses, content)

	if m.Met && m.Clause != nil {
		tokens := text.Tokenize(req)
		check := b.registry.Classify(req + " " + cr.Description)
		if !b.supportsClaim(tokens, check, m.Clause) {
			m = b.rebindCriterion(req, tokens, check, clauses)
		}
	}

	// Explicit mustInclude phrases each have to clear the requirement
	// evaluator on their own, unless the criterion is optional.
	if m.Met && !cr.Optional {
		for _, phrase := range cr.MustInclude {
			if strings.TrimSpace(phrase) == "" {
				continue
			}
			if pm := b.eval.FindRequirementMatch(phrase, clauses, content); !pm.Met {
				b.markUnmet(cr, sum, "mustInclude not satisfied: "+phrase)
				return
			}
		}
	}

	if !m.Met {
		b.markUnmet(cr, sum, "no qualifying clause")
		return
	}

	cr.Met = true
	if m.Clause != nil {
		key := m.Clause.Key()
		cr.ClauseID = key
		cr.Evidence = b.builder.BuildUnique(m.Clause.Text(), req, used[key])
		if cr.Evidence == "" {
			cr.Evidence = evidence.MissingMarker
		} else {
			used[key] = append(used[key], cr.Evidence)
		}
	} else {
		// Verbatim hit in the raw content with no clause to pin.
		cr.ClauseID = ""
		cr.Evidence = b.builder.Build(content, req)
	}
	sum.CriteriaMet++
	b.sink.Emit(trace.Record{
		Kind:      trace.KindCriterionMet,
		ClaimID:   cr.ID,
		ClauseKey: cr.ClauseID,
		Note:      cr.Title,
	})
}

func (b *Binder) markUnmet(cr *model.Criterion, sum *model.GroundingSummary, reason string) {
	cr.Met = false
	cr.ClauseID = ""
	cr.Evidence = evidence.MissingMarker
	sum.CriteriaUnmet++
	b.sink.Emit(trace.Record{
		Kind:    trace.KindCriterionUnmet,
		ClaimID: cr.ID,
		Reason:  reason,
		Note:    cr.Title,
	})
}

// rebindCriterion re-runs requirement matching restricted to clauses that
// pass the gate and support check. The verbatim-content fallback is not
// offered here: a criterion that needed rebinding has already shown its
// first match was unsound.
func (b *Binder) rebindCriterion(req string, tokens []string, check *SupportCheck, clauses []model.Clause) require.Match {
	eligible := make([]model.Clause, 0, len(clauses))
	for i := range clauses {
		if b.supportsClaim(tokens, check, &clauses[i]) {
			eligible = append(eligible, clauses[i])
		}
	}
	if len(eligible) == 0 {
		return require.Match{Method: "none"}
	}
	return b.eval.FindRequirementMatch(req, eligible, "")
}
