package evidence

import (
	"sort"
	"strings"
	"unicode"

	"github.com/clausebind/clausebind/internal/lexicon"
	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/text"
)

// anchorLead places the anchor term roughly 40% into the excerpt window, so
// the quotation carries context on both sides of the matched term.
const anchorLead = 0.4

// Builder extracts bounded, anchor-centered quotations from clause text.
type Builder struct {
	lex *lexicon.Lexicon
	th  model.Thresholds
}

// NewBuilder creates an excerpt builder.
func NewBuilder(lex *lexicon.Lexicon, th model.Thresholds) *Builder {
	return &Builder{lex: lex, th: th}
}

// Build returns a verbatim excerpt of at most the configured length from
// clauseText, centered near the first occurrence of the most relevant
// anchor term. Short clauses are returned whole. Never returns text that is
// not literally present in clauseText.
func (b *Builder) Build(clauseText, anchor string) string {
	source := strings.TrimSpace(clauseText)
	if source == "" {
		return ""
	}
	runes := []rune(source)
	budget := b.th.ExcerptMaxChars
	if len(runes) <= budget {
		return source
	}

	folded := foldRunes(runes)
	for _, term := range b.prioritizedTerms(anchor) {
		if idx := indexRunes(folded, []rune(term), 0); idx >= 0 {
			return b.window(runes, idx)
		}
	}

	// Nothing anchored; fall back to the leading slice.
	return b.window(runes, 0)
}

// BuildUnique behaves like Build but avoids excerpts whose normalized
// overlap with any already-used excerpt exceeds the configured maximum. It
// walks successive occurrences of each anchor term, then slides across the
// clause, and only as a last resort returns a possibly-duplicate excerpt.
func (b *Builder) BuildUnique(clauseText, anchor string, exclude []string) string {
	source := strings.TrimSpace(clauseText)
	if source == "" {
		return ""
	}
	if len(exclude) == 0 {
		return b.Build(clauseText, anchor)
	}
	runes := []rune(source)
	budget := b.th.ExcerptMaxChars
	if len(runes) <= budget {
		return source
	}

	folded := foldRunes(runes)
	var first string

	for _, term := range b.prioritizedTerms(anchor) {
		termRunes := []rune(term)
		for from := 0; ; {
			idx := indexRunes(folded, termRunes, from)
			if idx < 0 {
				break
			}
			candidate := b.window(runes, idx)
			if first == "" {
				first = candidate
			}
			if b.distinct(candidate, exclude) {
				return candidate
			}
			from = idx + len(termRunes)
		}
	}

	// Sliding scan across the whole clause.
	step := budget / 2
	if step < 1 {
		step = 1
	}
	for start := 0; start < len(runes); start += step {
		candidate := b.window(runes, start)
		if first == "" {
			first = candidate
		}
		if b.distinct(candidate, exclude) {
			return candidate
		}
	}

	// Give up on uniqueness rather than fabricate.
	if first != "" {
		return first
	}
	return b.Build(clauseText, anchor)
}

// distinct reports whether a candidate excerpt is sufficiently different
// from every excluded excerpt.
func (b *Builder) distinct(candidate string, exclude []string) bool {
	for _, used := range exclude {
		if used == "" || IsMissingMarker(used) {
			continue
		}
		if text.OverlapRatio(candidate, used) > b.th.ExcerptOverlapMax {
			return false
		}
	}
	return true
}

// prioritizedTerms orders anchor tokens for searching: structural tokens
// first, each expanded through its synonym variants, then the remaining
// tokens longest first.
func (b *Builder) prioritizedTerms(anchor string) []string {
	tokens := text.Tokenize(anchor)
	if len(tokens) == 0 {
		return nil
	}

	var terms []string
	seen := make(map[string]struct{})
	add := func(t string) {
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}

	var rest []string
	for _, tok := range tokens {
		if b.lex.IsStructural(tok) {
			for _, v := range b.lex.Variants(tok) {
				add(v)
			}
		} else {
			rest = append(rest, tok)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool { return len(rest[i]) > len(rest[j]) })
	for _, tok := range rest {
		add(tok)
	}
	return terms
}

// window slices a budget-sized excerpt so the anchor index sits about 40%
// in, snapped outward to word boundaries.
func (b *Builder) window(runes []rune, anchorIdx int) string {
	budget := b.th.ExcerptMaxChars
	start := anchorIdx - int(float64(budget)*anchorLead)
	if start < 0 {
		start = 0
	}
	if start > len(runes)-budget {
		start = len(runes) - budget
	}
	if start < 0 {
		start = 0
	}
	end := start + budget
	if end > len(runes) {
		end = len(runes)
	}

	// Snap to word boundaries so the quotation never starts or ends
	// mid-word.
	for start > 0 && start < len(runes) && !unicode.IsSpace(runes[start-1]) {
		start++
	}
	for end > start && end < len(runes) && !unicode.IsSpace(runes[end]) {
		end--
	}
	if end <= start {
		start = anchorIdx
		end = start + budget
		if end > len(runes) {
			end = len(runes)
		}
	}
	return strings.TrimSpace(string(runes[start:end]))
}

// foldRunes lower-cases rune by rune, preserving rune count so search
// indexes line up with the original text.
func foldRunes(runes []rune) []rune {
	folded := make([]rune, len(runes))
	for i, r := range runes {
		folded[i] = unicode.ToLower(r)
	}
	return folded
}

// indexRunes finds the first occurrence of term in hay at or after from,
// returning a rune index or -1.
func indexRunes(hay, term []rune, from int) int {
	if len(term) == 0 || from < 0 {
		return -1
	}
	for i := from; i+len(term) <= len(hay); i++ {
		match := true
		for j := range term {
			if hay[i+j] != term[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
