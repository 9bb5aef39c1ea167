package citation

import (
	"github.com/matsen/refcheck/internal/reference"
)

// KeyMatch links one distinct citation key to the reference-list
// entries that share its (first-author, year) identity.
type KeyMatch struct {
	Key Key `json:"key"`
	// RefIndices are the reference-list positions matching the key.
	// Empty means the citation is an orphan.
	RefIndices []int `json:"ref_indices,omitempty"`
	// Ambiguous is set when more than one reference shares the key
	// with nothing left to disambiguate. No arbitrary pick is made.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// CrossResult is the cross-matching output for one document.
type CrossResult struct {
	Matches []KeyMatch `json:"matches"` // One per distinct key, first-appearance order
	// Orphans are keys with no matching reference entry, a strong
	// fabrication signal independent of any lookup verdict.
	Orphans []Key `json:"orphans,omitempty"`
	// Unused are reference-list indices never cited in the body.
	Unused []int `json:"unused,omitempty"`
}

type indexKey struct {
	surname string
	year    int
}

// CrossMatch links citation keys to reference entries by normalized
// (first-author surname, year) identity.
func CrossMatch(refs []reference.Parsed, citations []InText) CrossResult {
	index := make(map[indexKey][]int, len(refs))
	for i, ref := range refs {
		first := reference.NormalizeSurname(ref.FirstAuthor())
		if first == "" {
			continue
		}
		k := indexKey{surname: first, year: ref.Year}
		index[k] = append(index[k], i)
	}

	var result CrossResult
	seen := make(map[indexKey]bool)
	cited := make(map[int]bool)

	for _, c := range citations {
		for _, key := range c.Keys {
			ik := indexKey{surname: reference.NormalizeSurname(key.Surname), year: key.Year}
			if seen[ik] {
				continue
			}
			seen[ik] = true

			indices := index[ik]
			match := KeyMatch{
				Key:        key,
				RefIndices: indices,
				Ambiguous:  len(indices) > 1,
			}
			result.Matches = append(result.Matches, match)

			if len(indices) == 0 {
				result.Orphans = append(result.Orphans, key)
			}
			for _, idx := range indices {
				cited[idx] = true
			}
		}
	}

	for i, ref := range refs {
		// An entry with no extractable author can never be keyed by a
		// citation, so it cannot be reported as unused.
		if !cited[i] && ref.FirstAuthor() != "" {
			result.Unused = append(result.Unused, i)
		}
	}

	return result
}
