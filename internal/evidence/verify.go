// Package evidence builds and verifies the verbatim excerpts that ground
// every claim. An excerpt either exists in the source text or is replaced by
// an explicit missing-evidence marker; fabricated quotations are never let
// through.
package evidence

import (
	"strings"

	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/text"
)

// MissingMarker is the canonical value written when no supporting text
// exists in the contract.
const MissingMarker = "Not present in contract"

// NotFoundMarker is written when an excerpt was shared across unrelated
// claims and had to be withdrawn rather than re-grounded.
const NotFoundMarker = "Evidence not found"

// missingMarkers are the recognized non-claiming placeholder values, in
// normalized form. A marker asserts nothing, so it always verifies.
var missingMarkers = map[string]struct{}{
	"not present in contract":  {},
	"evidence not found":       {},
	"no evidence found":        {},
	"not found in contract":    {},
	"no supporting clause":     {},
	"not present":              {},
	"not applicable":           {},
}

// IsMissingMarker reports whether the string is a recognized
// missing-evidence placeholder.
func IsMissingMarker(s string) bool {
	_, ok := missingMarkers[text.Normalize(s)]
	return ok
}

// Reason tags the outcome of an evidence check. Callers branch on reasons,
// not just the boolean.
type Reason string

const (
	ReasonExact         Reason = "exact"
	ReasonPrefix        Reason = "prefix"
	ReasonNGram         Reason = "ngram"
	ReasonMissingMarker Reason = "missing-marker"
	ReasonEmptyContent  Reason = "empty-content"
	ReasonEmptyExcerpt  Reason = "empty-excerpt"
	ReasonNoMatch       Reason = "no-match"
)

// CheckResult reports whether an excerpt is genuinely present in a source
// text and how that was established.
type CheckResult struct {
	Matched bool    `json:"matched"`
	Reason  Reason  `json:"reason"`
	Ratio   float64 `json:"ratio,omitempty"`
}

// CheckMatch verifies an excerpt against the full source text. Succeeds on
// verbatim containment of the normalized excerpt, containment of its leading
// normalized prefix (only when that prefix is long enough to be meaningful),
// or a 4-gram overlap ratio at or above the document threshold.
func CheckMatch(excerpt, source string, th model.Thresholds) CheckResult {
	return check(excerpt, source, th, th.EvidenceNGramMin)
}

// CheckMatchAgainstClause applies the same logic scoped to one clause's
// text, with the stricter clause-level n-gram threshold.
func CheckMatchAgainstClause(excerpt string, clause *model.Clause, th model.Thresholds) CheckResult {
	if clause == nil {
		return CheckResult{Matched: false, Reason: ReasonEmptyContent}
	}
	return check(excerpt, clause.Text(), th, th.ClauseNGramMin)
}

func check(excerpt, source string, th model.Thresholds, ngramMin float64) CheckResult {
	if IsMissingMarker(excerpt) {
		return CheckResult{Matched: true, Reason: ReasonMissingMarker}
	}

	// The excerpt is checked before the source, so an empty excerpt against
	// an empty source reports empty-excerpt.
	normExcerpt := text.Normalize(excerpt)
	if normExcerpt == "" {
		return CheckResult{Matched: false, Reason: ReasonEmptyExcerpt}
	}

	normSource := text.Normalize(source)
	if normSource == "" {
		return CheckResult{Matched: false, Reason: ReasonEmptyContent}
	}

	if strings.Contains(normSource, normExcerpt) {
		return CheckResult{Matched: true, Reason: ReasonExact, Ratio: 1.0}
	}

	if prefix := normPrefix(normExcerpt, th.EvidencePrefixChars); len(prefix) > th.EvidencePrefixMinChars {
		if strings.Contains(normSource, prefix) {
			return CheckResult{Matched: true, Reason: ReasonPrefix}
		}
	}

	if ratio := text.NGramContainment(excerpt, source); ratio >= ngramMin {
		return CheckResult{Matched: true, Reason: ReasonNGram, Ratio: ratio}
	}

	return CheckResult{Matched: false, Reason: ReasonNoMatch}
}

// normPrefix slices the leading n characters of an already normalized
// string without splitting a word in half.
func normPrefix(normalized string, n int) string {
	if len(normalized) <= n {
		return normalized
	}
	cut := normalized[:n]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
