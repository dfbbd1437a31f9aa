package text

// ngramSize is the character n-gram width used by all fuzzy comparisons.
const ngramSize = 4

// Score is a similarity value tagged with the signal that produced it, so
// callers can report which method won a comparison.
type Score struct {
	Value  float64
	Method string // "token" or "ngram"
}

// Jaccard computes token-set Jaccard similarity between two strings.
func Jaccard(a, b string) float64 {
	return jaccardSets(TokenSet(a), TokenSet(b))
}

func jaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Coverage computes the fraction of query tokens found in the document
// token set. Asymmetric on purpose: a short query fully contained in a long
// clause should score high.
func Coverage(query []string, doc map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for _, t := range query {
		if _, ok := doc[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

// NGrams returns the set of character n-grams of the normalized string.
// Strings shorter than the gram width contribute themselves as a single
// gram so tiny inputs still compare.
func NGrams(s string) map[string]struct{} {
	normalized := Normalize(s)
	set := make(map[string]struct{})
	runes := []rune(normalized)
	if len(runes) == 0 {
		return set
	}
	if len(runes) < ngramSize {
		set[string(runes)] = struct{}{}
		return set
	}
	for i := 0; i+ngramSize <= len(runes); i++ {
		set[string(runes[i:i+ngramSize])] = struct{}{}
	}
	return set
}

// NGramJaccard computes character 4-gram Jaccard similarity. Used as a
// fallback for short or heavily paraphrased text where token overlap fails.
func NGramJaccard(a, b string) float64 {
	return jaccardSets(NGrams(a), NGrams(b))
}

// NGramContainment computes the fraction of the needle's 4-grams present in
// the haystack. This is the overlap ratio the evidence verifier thresholds.
func NGramContainment(needle, hay string) float64 {
	needleGrams := NGrams(needle)
	if len(needleGrams) == 0 {
		return 0
	}
	hayGrams := NGrams(hay)
	hits := 0
	for g := range needleGrams {
		if _, ok := hayGrams[g]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(needleGrams))
}

// Similarity is the combined symmetric text similarity: the stronger of
// token Jaccard and 4-gram Jaccard, tagged with the winning method.
func Similarity(a, b string) Score {
	token := Jaccard(a, b)
	ngram := NGramJaccard(a, b)
	if ngram > token {
		return Score{Value: ngram, Method: "ngram"}
	}
	return Score{Value: token, Method: "token"}
}

// Containment is the combined asymmetric similarity of a query against a
// longer document: the stronger of token coverage and 4-gram containment.
func Containment(query, doc string) Score {
	token := Coverage(Tokenize(query), TokenSet(doc))
	ngram := NGramContainment(query, doc)
	if ngram > token {
		return Score{Value: ngram, Method: "ngram"}
	}
	return Score{Value: token, Method: "token"}
}

// OverlapRatio measures how much of the shorter string is shared with the
// longer one, via a longest-common-subsequence character match over the
// normalized forms. Used to keep per-criterion excerpts distinct.
func OverlapRatio(a, b string) float64 {
	na := []rune(Normalize(a))
	nb := []rune(Normalize(b))
	if len(na) == 0 || len(nb) == 0 {
		return 0
	}
	shorter := len(na)
	if len(nb) < shorter {
		shorter = len(nb)
	}
	return float64(lcsLength(na, nb)) / float64(shorter)
}

// lcsLength computes longest-common-subsequence length with a rolling row.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
