package require

import (
	"strings"

	"github.com/clausebind/clausebind/internal/text"
)

// A guard vetoes clause matches that satisfy the token arithmetic but fail
// a legal sanity check. Guards fire off the requirement's tokens and test
// the candidate clause text.
type guard struct {
	name    string
	applies func(reqTokens map[string]struct{}) bool
	allows  func(normClause string) bool
}

var guards = []guard{
	{
		// A compelled-disclosure requirement is only satisfiable by text
		// that actually involves a legal process or authority; ordinary
		// permitted-disclosure language does not count.
		name: "compelled-disclosure",
		applies: func(req map[string]struct{}) bool {
			return hasAny(req, "compelled", "subpoena") ||
				(hasAny(req, "legally", "law", "court") && hasAny(req, "disclosure", "disclose"))
		},
		allows: func(clause string) bool {
			return containsAny(clause, "law", "court", "subpoena", "regulator", "regulatory",
				"governmental", "authority", "judicial", "order")
		},
	},
	{
		// A termination-rights requirement cannot be satisfied by a clause
		// that flatly forbids termination, unless an explicit permission
		// appears alongside the prohibition.
		name: "termination-rights",
		applies: func(req map[string]struct{}) bool {
			return hasAny(req, "termination", "terminate")
		},
		allows: func(clause string) bool {
			if !strings.Contains(clause, "cannot be terminated") &&
				!strings.Contains(clause, "may not be terminated") &&
				!strings.Contains(clause, "shall not be terminated") {
				return true
			}
			return strings.Contains(clause, "may terminate") ||
				strings.Contains(clause, "right to terminate") ||
				strings.Contains(clause, "entitled to terminate")
		},
	},
	{
		// Return/destruction requirements need the clause to talk about
		// materials actually changing hands or being destroyed, not merely
		// to mention the words in passing (e.g. "return on investment").
		name: "return-destruction",
		applies: func(req map[string]struct{}) bool {
			return hasAny(req, "return", "destruction", "destroy") && hasAny(req, "materials", "information", "documents", "copies", "data")
		},
		allows: func(clause string) bool {
			return containsAny(clause, "return", "destroy", "destruction", "delete", "deletion", "redeliver") &&
				containsAny(clause, "material", "information", "document", "copies", "copy", "data", "records")
		},
	},
}

// passesGuards runs every applicable guard against the clause text.
func passesGuards(reqTokens []string, clauseText string) bool {
	req := make(map[string]struct{}, len(reqTokens))
	for _, t := range reqTokens {
		req[t] = struct{}{}
	}
	normClause := text.Normalize(clauseText)
	for _, g := range guards {
		if g.applies(req) && !g.allows(normClause) {
			return false
		}
	}
	return true
}

func hasAny(set map[string]struct{}, keys ...string) bool {
	for _, k := range keys {
		if _, ok := set[k]; ok {
			return true
		}
	}
	return false
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if containsToken(s, w) {
			return true
		}
	}
	return false
}

// containsToken matches a whole space-delimited token in normalized text,
// so "order" does not fire on "border".
func containsToken(s, token string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], token)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(token)
		leftOK := start == 0 || s[start-1] == ' '
		rightOK := end == len(s) || s[end] == ' '
		if leftOK && rightOK {
			return true
		}
		idx = end
	}
}
