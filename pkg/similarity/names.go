// Package similarity provides text similarity utilities.
package similarity

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultThreshold is the bigram similarity above which two task names are
// reported as likely duplicates.
const DefaultThreshold = 0.5

// Bigrams returns the set of character bigrams of a name, case-folded and
// padded with a space on each side so that short names still produce terms.
func Bigrams(name string) map[string]bool {
	runes := []rune(" " + strings.Map(fold, strings.TrimSpace(name)) + " ")
	terms := make(map[string]bool, len(runes))
	if len(runes) <= 2 {
		return terms
	}
	for i := 0; i+1 < len(runes); i++ {
		terms[string(runes[i:i+2])] = true
	}
	return terms
}

func fold(r rune) rune {
	switch {
	case r == '-' || r == '_' || unicode.IsSpace(r):
		return ' '
	default:
		return unicode.ToLower(r)
	}
}

// JaccardSimilarity calculates the Jaccard similarity between two term sets.
// Returns a value between 0 (no overlap) and 1 (identical).
func JaccardSimilarity(set1, set2 map[string]bool) float64 {
	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for term := range set1 {
		if set2[term] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// NameSimilarity compares two task names by their bigrams.
func NameSimilarity(a, b string) float64 {
	return JaccardSimilarity(Bigrams(a), Bigrams(b))
}

// SimilarNames returns the candidates whose similarity to name is at least
// threshold, most similar first. An exact match of name itself is skipped.
func SimilarNames(name string, candidates []string, threshold float64) []string {
	terms := Bigrams(name)
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}
	var matches []scored
	for _, c := range candidates {
		if c == name {
			continue
		}
		if score := JaccardSimilarity(terms, Bigrams(c)); score >= threshold {
			matches = append(matches, scored{name: c, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.name
	}
	return result
}
