package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips diacritics after NFKD decomposition, so "Résumé"
// and "Resume" normalize identically.
var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// quoteReplacer flattens typographic punctuation that PDF extraction tends
// to introduce before the character-class pass sees it.
var quoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-",
	"§", " section ",
	" ", " ",
)

// Normalize lower-cases text into a canonical comparison form: Unicode NFKD
// fold, diacritic strip, curly-quote and section-sign normalization, and
// collapse of every non-letter/digit run into a single space. Total over any
// input; empty in, empty out.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = quoteReplacer.Replace(s)
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		} else {
			space = true
		}
	}
	return b.String()
}

// stopwords are dropped during tokenization. Deliberately small: legal text
// leans on words ("shall", "not") that general-purpose stop lists discard.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "such": {}, "that": {}, "the": {}, "their": {}, "them": {},
	"this": {}, "to": {}, "with": {}, "will": {}, "was": {}, "were": {},
	"which": {}, "other": {}, "hereby": {}, "hereof": {}, "herein": {},
	"thereof": {}, "thereto": {},
}

// shortTokens are meaningful tokens kept even when a length or stopword rule
// would otherwise discard them.
var shortTokens = map[string]struct{}{
	"ip": {}, "eu": {}, "us": {}, "uk": {}, "nda": {}, "dpa": {}, "gdpr": {},
}

// Tokenize normalizes text and splits it into a stop-word-filtered token
// sequence. Tokens survive when whitelisted, numeric, or at least two
// characters long and not a stop word.
func Tokenize(s string) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return nil
	}
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := shortTokens[f]; ok {
			tokens = append(tokens, f)
			continue
		}
		if isNumeric(f) {
			tokens = append(tokens, f)
			continue
		}
		if len(f) < 2 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TokenSet tokenizes and collects into a set for membership tests.
func TokenSet(s string) map[string]struct{} {
	tokens := Tokenize(s)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
