package citation

import (
	"reflect"
	"testing"
)

func TestExtract_Parenthetical(t *testing.T) {
	cites := Extract([]string{"Memory declines with stress (Smith, 2019)."})

	if len(cites) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(cites))
	}
	want := []Key{{Surname: "Smith", Year: 2019}}
	if !reflect.DeepEqual(cites[0].Keys, want) {
		t.Errorf("Keys = %v, want %v", cites[0].Keys, want)
	}
	if cites[0].Paragraph != 0 {
		t.Errorf("Paragraph = %d, want 0", cites[0].Paragraph)
	}
}

func TestExtract_TwoAuthors(t *testing.T) {
	cites := Extract([]string{"This was shown earlier (Smith & Jones, 2020)."})

	if len(cites) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(cites))
	}
	key := cites[0].Keys[0]
	if key.Surname != "Smith" || key.Year != 2020 {
		t.Errorf("key = %+v, want Smith/2020", key)
	}
}

func TestExtract_EtAl(t *testing.T) {
	cites := Extract([]string{"Replicated since (Smith et al., 2018)."})

	key := cites[0].Keys[0]
	if !key.EtAl {
		t.Error("expected EtAl flag")
	}
	if key.Surname != "Smith" {
		t.Errorf("Surname = %q, want Smith", key.Surname)
	}
}

func TestExtract_MultipleCitationsOneParenthetical(t *testing.T) {
	cites := Extract([]string{"Well studied (Smith, 2019; Jones, 2017; Lee et al., 2021)."})

	if len(cites) != 1 {
		t.Fatalf("expected 1 citation group, got %d", len(cites))
	}
	keys := cites[0].Keys
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d: %v", len(keys), keys)
	}
	if keys[0].Surname != "Smith" || keys[1].Surname != "Jones" || keys[2].Surname != "Lee" {
		t.Errorf("surnames = %v", keys)
	}
	if !keys[2].EtAl {
		t.Error("expected et al. flag on third key")
	}
}

func TestExtract_Narrative(t *testing.T) {
	cites := Extract([]string{"Smith (2019) argued the opposite."})

	if len(cites) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(cites))
	}
	key := cites[0].Keys[0]
	if key.Surname != "Smith" || key.Year != 2019 {
		t.Errorf("key = %+v", key)
	}
}

func TestExtract_Prefixes(t *testing.T) {
	cites := Extract([]string{"Attention shapes recall (e.g., Smith, 2019)."})

	if len(cites) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(cites))
	}
	if cites[0].Keys[0].Surname != "Smith" {
		t.Errorf("Surname = %q", cites[0].Keys[0].Surname)
	}
}

func TestExtract_YearSuffix(t *testing.T) {
	cites := Extract([]string{"As noted (Smith, 2015a)."})

	if cites[0].Keys[0].Year != 2015 {
		t.Errorf("Year = %d, want 2015 (suffix stripped)", cites[0].Keys[0].Year)
	}
}

func TestExtract_IgnoresNonCitations(t *testing.T) {
	cites := Extract([]string{
		"The sample (n = 42) was small.",
		"Scores improved (see Figure 3).",
		"No citations in this paragraph at all.",
	})

	if len(cites) != 0 {
		t.Errorf("expected no citations, got %v", cites)
	}
}

func TestExtract_ParagraphOrder(t *testing.T) {
	cites := Extract([]string{
		"First claim (Adams, 2001).",
		"Second claim (Baker, 2002).",
	})

	if len(cites) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(cites))
	}
	if cites[0].Paragraph != 0 || cites[1].Paragraph != 1 {
		t.Errorf("paragraph indices = %d, %d", cites[0].Paragraph, cites[1].Paragraph)
	}
}
