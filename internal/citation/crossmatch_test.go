package citation

import (
	"reflect"
	"testing"

	"github.com/matsen/refcheck/internal/refparse"
	"github.com/matsen/refcheck/internal/reference"
)

func parsedRef(index int, surname string, year int) reference.Parsed {
	return reference.Parsed{
		Raw:     reference.RawEntry{Index: index},
		Authors: []string{surname},
		Year:    year,
	}
}

func cite(surname string, year int) InText {
	return InText{Keys: []Key{{Surname: surname, Year: year}}}
}

func TestCrossMatch_SingleMatch(t *testing.T) {
	refs := []reference.Parsed{parsedRef(0, "Smith", 2019)}
	result := CrossMatch(refs, []InText{cite("Smith", 2019)})

	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Matches))
	}
	m := result.Matches[0]
	if m.Ambiguous {
		t.Error("unexpected ambiguous flag")
	}
	if !reflect.DeepEqual(m.RefIndices, []int{0}) {
		t.Errorf("RefIndices = %v, want [0]", m.RefIndices)
	}
	if len(result.Orphans) != 0 || len(result.Unused) != 0 {
		t.Errorf("orphans=%v unused=%v, want none", result.Orphans, result.Unused)
	}
}

func TestCrossMatch_Orphan(t *testing.T) {
	refs := []reference.Parsed{parsedRef(0, "Jones", 2017)}
	result := CrossMatch(refs, []InText{cite("Smith", 2019)})

	if len(result.Orphans) != 1 {
		t.Fatalf("expected 1 orphan, got %d", len(result.Orphans))
	}
	if result.Orphans[0].Surname != "Smith" {
		t.Errorf("orphan = %+v", result.Orphans[0])
	}
	// Jones is never cited.
	if !reflect.DeepEqual(result.Unused, []int{0}) {
		t.Errorf("Unused = %v, want [0]", result.Unused)
	}
}

func TestCrossMatch_Unused(t *testing.T) {
	refs := []reference.Parsed{
		parsedRef(0, "Smith", 2019),
		parsedRef(1, "Jones", 2017),
	}
	result := CrossMatch(refs, []InText{cite("Smith", 2019)})

	if !reflect.DeepEqual(result.Unused, []int{1}) {
		t.Errorf("Unused = %v, want [1]", result.Unused)
	}
}

func TestCrossMatch_Ambiguous(t *testing.T) {
	// Two references share (smith, 2019); no arbitrary pick.
	refs := []reference.Parsed{
		parsedRef(0, "Smith", 2019),
		parsedRef(1, "Smith", 2019),
	}
	result := CrossMatch(refs, []InText{cite("Smith", 2019)})

	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Matches))
	}
	m := result.Matches[0]
	if !m.Ambiguous {
		t.Error("expected ambiguous flag")
	}
	if !reflect.DeepEqual(m.RefIndices, []int{0, 1}) {
		t.Errorf("RefIndices = %v, want both candidates", m.RefIndices)
	}
}

func TestCrossMatch_CaseAndDiacriticInsensitive(t *testing.T) {
	refs := []reference.Parsed{parsedRef(0, "García", 2020)}
	result := CrossMatch(refs, []InText{cite("garcia", 2020)})

	if len(result.Orphans) != 0 {
		t.Errorf("expected diacritic-insensitive match, got orphans %v", result.Orphans)
	}
}

func TestCrossMatch_DistinctKeysOnly(t *testing.T) {
	// The same key cited three times produces one KeyMatch.
	refs := []reference.Parsed{parsedRef(0, "Smith", 2019)}
	cites := []InText{cite("Smith", 2019), cite("Smith", 2019), cite("Smith", 2019)}
	result := CrossMatch(refs, cites)

	if len(result.Matches) != 1 {
		t.Errorf("expected 1 distinct match, got %d", len(result.Matches))
	}
}

func TestCrossMatch_FirstAppearanceOrder(t *testing.T) {
	refs := []reference.Parsed{
		parsedRef(0, "Adams", 2001),
		parsedRef(1, "Baker", 2002),
	}
	cites := []InText{cite("Baker", 2002), cite("Adams", 2001)}
	result := CrossMatch(refs, cites)

	if result.Matches[0].Key.Surname != "Baker" || result.Matches[1].Key.Surname != "Adams" {
		t.Errorf("matches out of first-appearance order: %v", result.Matches)
	}
}

func TestCrossMatch_YearSuffixNormalized(t *testing.T) {
	// "(Smith, 2019a)" in the body and "(2019b)" in the list key to
	// the same (smith, 2019) pair once the suffix letters are dropped.
	refs := []reference.Parsed{refparse.Parse(reference.RawEntry{
		Text:  "Smith, J. (2019b). Deep learning basics. Journal of AI, 12(3), 45-67.",
		Index: 0,
	})}
	cites := Extract([]string{"The approach was refined (Smith, 2019a)."})
	result := CrossMatch(refs, cites)

	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d (orphans %v)", len(result.Matches), result.Orphans)
	}
	if len(result.Orphans) != 0 || len(result.Unused) != 0 {
		t.Errorf("orphans=%v unused=%v, want none", result.Orphans, result.Unused)
	}
}

func TestCrossMatch_UnparsedRefNotUnused(t *testing.T) {
	// A reference with no parsed author cannot be keyed; it must not
	// be reported as unused.
	refs := []reference.Parsed{{Raw: reference.RawEntry{Index: 0}}}
	result := CrossMatch(refs, nil)

	if len(result.Unused) != 0 {
		t.Errorf("Unused = %v, want none for unkeyable reference", result.Unused)
	}
}
