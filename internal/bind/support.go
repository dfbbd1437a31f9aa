package bind

import (
	"strings"

	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/text"
)

// A SupportCheck decides whether a clause's text can substantiate claims on
// one legal topic. Checks are looked up by classifying the claim's own text
// against each check's trigger vocabulary; claims that match no topic are
// not support-checked at all.
type SupportCheck struct {
	Topic    string
	triggers []string
	supports func(doc clauseDoc) bool
}

// Supports reports whether the clause carries the topic-specific legal
// signals this check requires.
func (c *SupportCheck) Supports(clause *model.Clause) bool {
	if clause == nil {
		return false
	}
	full := clause.Title + " " + clause.Text()
	return c.supports(clauseDoc{
		norm:   text.Normalize(full),
		tokens: text.TokenSet(full),
	})
}

// clauseDoc is a clause's text in the two forms support predicates need:
// a normalized string for phrase tests and a token set for word tests.
type clauseDoc struct {
	norm   string
	tokens map[string]struct{}
}

func (d clauseDoc) any(tokens ...string) bool {
	for _, t := range tokens {
		if _, ok := d.tokens[t]; ok {
			return true
		}
	}
	return false
}

func (d clauseDoc) phrase(p string) bool {
	return strings.Contains(d.norm, p)
}

// Registry maps claim topics to support checks. Registration order is the
// tie-break when a claim triggers several topics equally.
type Registry struct {
	checks []*SupportCheck
}

// NewRegistry returns a registry loaded with the built-in topic checks.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, c := range defaultChecks() {
		r.Register(c)
	}
	return r
}

// Register adds a support check. Later registrations lose ties to earlier
// ones during classification.
func (r *Registry) Register(c *SupportCheck) {
	r.checks = append(r.checks, c)
}

// Classify picks the support check whose trigger vocabulary best matches the
// claim text. Returns nil when no trigger fires; such claims are bound on
// similarity alone.
func (r *Registry) Classify(claimText string) *SupportCheck {
	tokens := text.TokenSet(claimText)
	if len(tokens) == 0 {
		return nil
	}
	var best *SupportCheck
	bestHits := 0
	for _, c := range r.checks {
		hits := 0
		for _, trig := range c.triggers {
			if _, ok := tokens[trig]; ok {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = c, hits
		}
	}
	return best
}

func defaultChecks() []*SupportCheck {
	return []*SupportCheck{
		{
			Topic:    "compelled-disclosure",
			triggers: []string{"compelled", "subpoena", "compulsory"},
			supports: func(d clauseDoc) bool {
				return d.any("law", "court", "subpoena", "regulator", "regulatory",
					"governmental", "authority", "judicial", "order", "tribunal")
			},
		},
		{
			Topic:    "remedies",
			triggers: []string{"remedies", "remedy", "injunctive", "injunction", "equitable", "relief"},
			supports: func(d clauseDoc) bool {
				return d.any("remedy", "remedies", "injunctive", "injunction", "relief",
					"equitable", "damages", "enjoin", "irreparable")
			},
		},
		{
			Topic:    "return-destruction",
			triggers: []string{"return", "destruction", "destroy", "redeliver", "deletion"},
			supports: func(d clauseDoc) bool {
				return d.any("return", "returned", "destroy", "destroyed", "destruction",
					"delete", "deleted", "deletion", "erase", "redeliver")
			},
		},
		{
			Topic:    "governing-law",
			triggers: []string{"governing", "jurisdiction", "venue", "forum", "arbitration"},
			supports: func(d clauseDoc) bool {
				return d.any("governed", "governing", "jurisdiction", "venue", "forum",
					"arbitration", "construed", "courts") ||
					d.phrase("laws of")
			},
		},
		{
			Topic:    "ip-license",
			triggers: []string{"license", "ip", "intellectual", "ownership", "patent", "copyright", "trademark"},
			supports: func(d clauseDoc) bool {
				return d.any("license", "licence", "licensed", "ownership", "owns", "owner",
					"title", "proprietary", "patent", "copyright", "trademark") ||
					d.phrase("intellectual property")
			},
		},
		{
			Topic:    "marking-notice",
			triggers: []string{"marking", "marked", "legend", "stamped", "labeled", "designation"},
			supports: func(d clauseDoc) bool {
				return d.any("marked", "marking", "mark", "legend", "legended", "stamped",
					"labeled", "labelled", "designated", "designation", "conspicuously")
			},
		},
		{
			Topic:    "term-survival",
			triggers: []string{"survival", "survive", "term", "expiration", "expiry", "duration"},
			supports: func(d clauseDoc) bool {
				return d.any("term", "survive", "survives", "survival", "expiration",
					"expire", "expires", "expiry", "period", "duration", "indefinitely",
					"terminate", "terminated", "termination", "years", "months")
			},
		},
		{
			Topic:    "definition",
			triggers: []string{"definition", "definitions", "defined", "means"},
			supports: func(d clauseDoc) bool {
				return d.any("means", "definition", "definitions", "defined", "meaning")
			},
		},
		{
			Topic:    "use-limitation",
			triggers: []string{"use", "purpose", "solely"},
			supports: func(d clauseDoc) bool {
				return d.any("use", "used", "purpose", "purposes", "solely", "limited",
					"restrict", "restricted", "restriction")
			},
		},
	}
}
