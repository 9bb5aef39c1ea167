// Package citation extracts in-text citations from body text and
// cross-matches them against the reference list.
package citation

import (
	"regexp"
	"strconv"
	"strings"
)

// Key identifies a cited source: first-author surname plus year, with
// a flag for truncated author lists ("et al.").
type Key struct {
	Surname string `json:"surname"` // As written; normalize for matching
	Year    int    `json:"year"`
	EtAl    bool   `json:"et_al,omitempty"`
}

// InText is one in-text citation occurrence. A single parenthetical
// may expand to multiple keys when sources are cited together.
type InText struct {
	Raw       string `json:"raw"`
	Paragraph int    `json:"paragraph"`
	Keys      []Key  `json:"keys"`
}

const authorPat = `[A-Z][A-Za-z\-']+`

var (
	parenPattern = regexp.MustCompile(`\(([^()]+)\)`)
	prefixPattern = regexp.MustCompile(`(?i)^(?:e\.g\.,|cf\.|see also|see e\.g\.,|see for example,?|see):?\s*`)
	// One citation inside a parenthetical: "Surname, 2019",
	// "Surname & Surname, 2019", "Surname et al., 2019".
	citePattern = regexp.MustCompile(`(` + authorPat +
		`(?:\s+et\s+al\.|\s+(?:&|and)\s+(?:colleagues|co-workers)|\s+(?:&|and)\s+` + authorPat + `)?),?\s+((?:19|20)\d{2})[a-z]?\b`)
	// Narrative form: "Surname (2019)", "Surname et al. (2019)".
	narrativePattern = regexp.MustCompile(`(` + authorPat +
		`(?:\s+et\s+al\.|\s+(?:&|and)\s+(?:colleagues|co-workers)|\s+(?:&|and)\s+` + authorPat + `)?)\s+\(((?:19|20)\d{2})[a-z]?\)`)
	etAlMarker = regexp.MustCompile(`(?i)\bet\s+al\.?|\b(?:&|and)\s+(?:colleagues|co-workers)`)
)

// Extract walks the body paragraphs once and yields every in-text
// citation in appearance order. Pure extraction; no matching here.
func Extract(paragraphs []string) []InText {
	var out []InText
	for i, para := range paragraphs {
		out = append(out, extractParagraph(para, i)...)
	}
	return out
}

func extractParagraph(text string, index int) []InText {
	var out []InText

	for _, m := range parenPattern.FindAllStringSubmatch(text, -1) {
		inner := prefixPattern.ReplaceAllString(m[1], "")
		keys := parseKeys(inner)
		if len(keys) == 0 {
			continue
		}
		out = append(out, InText{Raw: m[0], Paragraph: index, Keys: keys})
	}

	// Narrative form puts only the year in parentheses, so it cannot
	// collide with the parenthetical matches above.
	for _, m := range narrativePattern.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[2])
		out = append(out, InText{
			Raw:       strings.TrimSpace(m[0]),
			Paragraph: index,
			Keys:      []Key{makeKey(m[1], year)},
		})
	}

	return out
}

// parseKeys expands a parenthetical body into citation keys, one per
// semicolon-separated source.
func parseKeys(inner string) []Key {
	var keys []Key
	for _, part := range strings.Split(inner, ";") {
		m := citePattern.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[2])
		keys = append(keys, makeKey(m[1], year))
	}
	return keys
}

// makeKey reduces an author phrase to a first-surname key.
func makeKey(authorPhrase string, year int) Key {
	etAl := etAlMarker.MatchString(authorPhrase)
	phrase := etAlMarker.ReplaceAllString(authorPhrase, "")
	phrase = regexp.MustCompile(`(?i)\s+(?:&|and)\s+`).ReplaceAllString(phrase, " ")
	first := strings.Fields(strings.TrimSpace(phrase))
	surname := ""
	if len(first) > 0 {
		surname = strings.Trim(first[0], ".,")
	}
	return Key{Surname: surname, Year: year, EtAl: etAl}
}
