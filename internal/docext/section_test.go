package docext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCleanFooter(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "page footer at end",
			in:   "Smith, J. (2019). Deep learning basics. Page 12 of 12 - AI Writing Submission Submission ID trn:oid:::1:3427731680",
			want: "Smith, J. (2019). Deep learning basics.",
		},
		{
			name: "bare page footer",
			in:   "Journal of AI, 12(3), 45-67. Page 5 of 12",
			want: "Journal of AI, 12(3), 45-67.",
		},
		{
			name: "submission id alone",
			in:   "Submission ID trn:oid:::1:3427731680",
			want: "",
		},
		{
			name: "ai writing marker",
			in:   "AI Writing Submission",
			want: "",
		},
		{
			name: "no footer untouched",
			in:   "Smith, J. (2019). Deep learning basics.",
			want: "Smith, J. (2019). Deep learning basics.",
		},
		{
			name: "footer glued to filename",
			in:   "paper.pdfPage 3 of 9",
			want: "paper.pdf",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanFooter(tc.in); got != tc.want {
				t.Errorf("CleanFooter(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestReferencesSection(t *testing.T) {
	lines := []string{
		"Introduction",
		"Prior work shows the approach scales (Smith, 2019).",
		"References",
		"Smith, J. (2019). Deep learning basics. Journal of AI, 12(3), 45-67.",
		"Jones, R., & Lee, K. (2020). Shadow pricing networks.",
		"   Economics Letters, 4(2), 1-9.",
		"Page 9 of 9 - Submission ID trn:oid:::1:99",
		"Appendix A",
		"Supplementary tables follow.",
	}

	got := ReferencesSection(lines)
	want := []string{
		"Smith, J. (2019). Deep learning basics. Journal of AI, 12(3), 45-67.",
		"Jones, R., & Lee, K. (2020). Shadow pricing networks.",
		"Economics Letters, 4(2), 1-9.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReferencesSection mismatch (-want +got):\n%s", diff)
	}
}

func TestReferencesSection_WorksCitedHeading(t *testing.T) {
	lines := []string{"Body text.", "Works Cited", "Doe, Jane. The Long Road. Penguin, 2001."}
	got := ReferencesSection(lines)
	if len(got) != 1 || got[0] != "Doe, Jane. The Long Road. Penguin, 2001." {
		t.Errorf("got %v", got)
	}
}

func TestReferencesSection_NoHeading(t *testing.T) {
	if got := ReferencesSection([]string{"Just body text.", "More body."}); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestBodyParagraphs(t *testing.T) {
	lines := []string{
		"A Study of Things",
		"Student Name",
		"Abstract",
		"This paper studies things (Smith, 2019).",
		"Page 1 of 9 - AI Writing Submission",
		"References",
		"Smith, J. (2019). Deep learning basics.",
	}

	got := BodyParagraphs(lines)
	want := []string{"Abstract", "This paper studies things (Smith, 2019)."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BodyParagraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestBodyParagraphs_NoReferencesHeading(t *testing.T) {
	lines := []string{"Introduction", "All body, no list."}
	got := BodyParagraphs(lines)
	if len(got) != 2 {
		t.Errorf("got %v, want both lines kept", got)
	}
}

func TestSplitEntries_HangingIndent(t *testing.T) {
	lines := []string{
		"Smith, J. (2019). Deep learning basics. Journal of AI,",
		"12(3), 45-67. https://doi.org/10.1000/abc",
		"Jones, R., & Lee, K. (2020). Shadow pricing networks.",
		"Economics Letters, 4(2), 1-9.",
	}

	got := SplitEntries(lines)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(got), got)
	}
	if !strings.HasPrefix(got[0], "Smith, J. (2019)") || !strings.Contains(got[0], "10.1000/abc") {
		t.Errorf("entry 0 = %q", got[0])
	}
	if !strings.HasPrefix(got[1], "Jones, R.") || !strings.Contains(got[1], "Economics Letters") {
		t.Errorf("entry 1 = %q", got[1])
	}
}

func TestSplitEntries_MergedLine(t *testing.T) {
	// Text layers sometimes run a URL-terminated entry straight into
	// the next author on the same line.
	lines := []string{
		"Smith, J. (2019). Deep learning basics. https://www.ncbi.nlm.nih.gov/pmc/articles/PMC7450866/ Jones, R. (2020). Shadow pricing networks.",
	}

	got := SplitEntries(lines)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(got), got)
	}
	if !strings.HasSuffix(got[0], "PMC7450866/") {
		t.Errorf("entry 0 = %q", got[0])
	}
	if !strings.HasPrefix(got[1], "Jones, R. (2020)") {
		t.Errorf("entry 1 = %q", got[1])
	}
}

func TestSplitEntries_NoSplitWithoutTrailingYear(t *testing.T) {
	// An author-shaped fragment after a URL is not a new entry unless
	// a year follows it.
	lines := []string{
		"Smith, J. (2019). Deep learning basics with data from https://example.org/archive/ Jones, R. memorial collection.",
	}

	got := SplitEntries(lines)
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1: %v", len(got), got)
	}
}

func TestSplitEntries_DropsNoise(t *testing.T) {
	got := SplitEntries([]string{"Smith, 2019.", "12", ""})
	if len(got) != 0 {
		t.Errorf("got %v, want short fragments dropped", got)
	}
}

func TestFromLines(t *testing.T) {
	lines := []string{
		"Introduction",
		"The result holds (Smith, 2019).",
		"References",
		"Smith, J. (2019). Deep learning basics. Journal of AI, 12(3), 45-67.",
	}

	content := FromLines(lines)
	if len(content.References) != 1 {
		t.Fatalf("got %d references, want 1", len(content.References))
	}
	if content.References[0].Index != 0 {
		t.Errorf("Index = %d, want 0", content.References[0].Index)
	}
	if len(content.Paragraphs) != 2 {
		t.Errorf("Paragraphs = %v", content.Paragraphs)
	}
}

func TestTextExtractor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.txt")
	doc := "Introduction\nThe result holds (Smith, 2019).\nReferences\nSmith, J. (2019). Deep learning basics. Journal of AI, 12(3), 45-67.\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	content, err := Text{}.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(content.References) != 1 {
		t.Errorf("got %d references, want 1", len(content.References))
	}
}

func TestForFile(t *testing.T) {
	if _, err := ForFile("paper.docx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	e, err := ForFile("paper.PDF")
	if err != nil {
		t.Fatalf("ForFile: %v", err)
	}
	if _, ok := e.(*PDF); !ok {
		t.Errorf("ForFile(pdf) = %T", e)
	}
	e, err = ForFile("paper.txt")
	if err != nil {
		t.Fatalf("ForFile: %v", err)
	}
	if _, ok := e.(Text); !ok {
		t.Errorf("ForFile(txt) = %T", e)
	}
}
