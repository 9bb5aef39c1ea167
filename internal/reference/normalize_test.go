package reference

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Deep Learning Basics", "deep learning basics"},
		{"punctuation stripped", "Learning: a meta-analysis (2nd ed.)", "learning a meta analysis 2nd ed"},
		{"diacritics", "Müller and García", "muller and garcia"},
		{"whitespace collapsed", "  a \t b \n c  ", "a b c"},
		{"curly quotes", "“Smart” titles’ cost", "smart titles cost"},
		{"empty", "", ""},
		{"only punctuation", "...!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Deep learning: basics!")
	want := []string{"deep", "learning", "basics"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}

	if got := Tokens("—"); got != nil {
		t.Errorf("Tokens on punctuation-only input = %v, want nil", got)
	}
}

func TestFirstAuthor(t *testing.T) {
	p := &Parsed{Authors: []string{"Smith", "Jones"}}
	if got := p.FirstAuthor(); got != "Smith" {
		t.Errorf("FirstAuthor = %q, want Smith", got)
	}

	empty := &Parsed{}
	if got := empty.FirstAuthor(); got != "" {
		t.Errorf("FirstAuthor on empty = %q, want empty", got)
	}
}
