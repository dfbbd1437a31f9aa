// Package lexicon holds the structural-token vocabulary used to gate clause
// matches. Structural tokens are the legally load-bearing words of a claim;
// a candidate clause that shares only filler vocabulary with a query is not
// a match, no matter how high the raw token overlap.
//
// The lexicon is an injected value, not package state: callers construct one
// via Default or LoadFile and pass it down, so per-jurisdiction vocabularies
// can be swapped in without code changes.
package lexicon

import (
	"sort"

	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/text"
)

// Lexicon is an immutable structural-token set plus a bidirectional synonym
// table. Safe for concurrent readers.
type Lexicon struct {
	structural map[string]struct{}
	variants   map[string][]string
}

// New builds a lexicon from a structural token list and a synonym table
// mapping canonical tokens to their morphological/semantic variants. Every
// synonym becomes structural and the lookup is made bidirectional.
func New(structural []string, synonyms map[string][]string) *Lexicon {
	lex := &Lexicon{
		structural: make(map[string]struct{}, len(structural)),
		variants:   make(map[string][]string),
	}
	for _, tok := range structural {
		if norm := text.Normalize(tok); norm != "" {
			lex.structural[norm] = struct{}{}
		}
	}

	groups := make(map[string]map[string]struct{})
	ensure := func(canon string) map[string]struct{} {
		if g, ok := groups[canon]; ok {
			return g
		}
		g := map[string]struct{}{canon: {}}
		groups[canon] = g
		return g
	}
	for canon, vars := range synonyms {
		canonNorm := text.Normalize(canon)
		if canonNorm == "" {
			continue
		}
		lex.structural[canonNorm] = struct{}{}
		group := ensure(canonNorm)
		for _, v := range vars {
			if vNorm := text.Normalize(v); vNorm != "" {
				group[vNorm] = struct{}{}
				lex.structural[vNorm] = struct{}{}
			}
		}
	}

	// Every member of a group maps to the full group, so variant lookups
	// work in either direction.
	for _, group := range groups {
		members := make([]string, 0, len(group))
		for m := range group {
			members = append(members, m)
		}
		sort.Strings(members)
		for _, m := range members {
			lex.variants[m] = mergeVariants(lex.variants[m], members)
		}
	}

	return lex
}

func mergeVariants(existing, add []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(add))
	merged := make([]string, 0, len(existing)+len(add))
	for _, s := range existing {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			merged = append(merged, s)
		}
	}
	for _, s := range add {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			merged = append(merged, s)
		}
	}
	sort.Strings(merged)
	return merged
}

// IsStructural reports whether a normalized token carries legal weight.
func (l *Lexicon) IsStructural(token string) bool {
	_, ok := l.structural[token]
	return ok
}

// Variants returns the synonym set for a token, always including the token
// itself. Pure lookup; the returned slice must not be mutated.
func (l *Lexicon) Variants(token string) []string {
	if vars, ok := l.variants[token]; ok {
		return vars
	}
	return []string{token}
}

// StructuralTokens filters a token sequence down to its structural members,
// deduplicated, preserving first-seen order.
func (l *Lexicon) StructuralTokens(tokens []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if !l.IsStructural(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// GateHits counts how many of the query's structural tokens appear in the
// document token set through any synonym variant.
func (l *Lexicon) GateHits(queryStructural []string, doc map[string]struct{}) int {
	hits := 0
	for _, tok := range queryStructural {
		for _, v := range l.Variants(tok) {
			if _, ok := doc[v]; ok {
				hits++
				break
			}
		}
	}
	return hits
}

// RequiredGateHits returns the minimum structural-variant hits a clause must
// show before it can bind a structurally loaded query: one hit when the
// query carries at most one structural token, two otherwise.
func RequiredGateHits(structuralCount int, th model.Thresholds) int {
	if structuralCount <= 1 {
		return th.StructuralGateSingle
	}
	return th.StructuralGateMulti
}

// PassesGate applies the structural-token gate for a query against a
// document token set. Queries without structural tokens are not gated.
func (l *Lexicon) PassesGate(queryTokens []string, doc map[string]struct{}, th model.Thresholds) bool {
	structural := l.StructuralTokens(queryTokens)
	if len(structural) == 0 {
		return true
	}
	required := RequiredGateHits(len(structural), th)
	if required > len(structural) {
		required = len(structural)
	}
	return l.GateHits(structural, doc) >= required
}
