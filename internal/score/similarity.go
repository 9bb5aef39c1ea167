package score

import (
	"github.com/matsen/refcheck/internal/reference"
)

// TitleSimilarity computes token-overlap (Jaccard) similarity between
// two titles in [0,1], after normalization.
func TitleSimilarity(a, b string) float64 {
	ta, tb := reference.Tokens(a), reference.Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(ta))
	for _, tok := range ta {
		setA[tok] = struct{}{}
	}
	setB := make(map[string]struct{}, len(tb))
	for _, tok := range tb {
		setB[tok] = struct{}{}
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// TokenContainment returns the fraction of needle's tokens present in
// haystack, in [0,1].
func TokenContainment(needle, haystack string) float64 {
	tn := reference.Tokens(needle)
	if len(tn) == 0 {
		return 0
	}
	set := make(map[string]struct{})
	for _, tok := range reference.Tokens(haystack) {
		set[tok] = struct{}{}
	}
	found := 0
	for _, tok := range tn {
		if _, ok := set[tok]; ok {
			found++
		}
	}
	return float64(found) / float64(len(tn))
}

// AuthorOverlap returns the fraction of parsed author surnames found
// in the candidate's author list, comparison case- and
// diacritic-insensitive.
func AuthorOverlap(parsed, candidate []string) float64 {
	if len(parsed) == 0 {
		return 0
	}

	candSet := make(map[string]struct{}, len(candidate))
	for _, a := range candidate {
		if n := reference.NormalizeSurname(a); n != "" {
			candSet[n] = struct{}{}
		}
	}

	found := 0
	for _, a := range parsed {
		if _, ok := candSet[reference.NormalizeSurname(a)]; ok {
			found++
		}
	}
	return float64(found) / float64(len(parsed))
}

// YearAgreement scores year match: exact 1, off-by-one 0.5, else 0.
// An unknown year on either side scores 0.
func YearAgreement(parsed, candidate int) float64 {
	if parsed == 0 || candidate == 0 {
		return 0
	}
	diff := parsed - candidate
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return 1
	case 1:
		return 0.5
	default:
		return 0
	}
}
