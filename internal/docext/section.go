package docext

import (
	"regexp"
	"strings"
)

var (
	headingPattern = regexp.MustCompile(`(?i)^(references?|works\s+cited)\s*$`)
	trailerPattern = regexp.MustCompile(`(?i)^(appendix|appendices|figure\s*\d|table\s*\d)`)

	// Plagiarism-scanner exports stamp footers into the text layer,
	// often mid-line. All variants are stripped before splitting.
	footerPagePattern     = regexp.MustCompile(`(?i)\s*Page\s+\d+\s+of\s+\d+.*$`)
	footerIDPattern       = regexp.MustCompile(`(?i)\s*Submission\s+ID\s+\S+.*$`)
	footerAIPattern       = regexp.MustCompile(`(?i)\s*AI\s+Writing\s+Submission.*$`)
	submissionLinePattern = regexp.MustCompile(`(?i)Submission\s+ID`)

	// New-entry detection for hanging-indent reference lists.
	parenYearEarly = regexp.MustCompile(`\(\d{4}[a-z]?\)`)
	bareYearEarly  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	earlyPunct     = regexp.MustCompile(`[,.]`)

	// A URL-terminated entry running into the next author on the same
	// line: "...PMC7450866/ Author, I. N. (2020)...".
	midLineAuthor = regexp.MustCompile(`/\s+([A-Z][a-zA-Z\-']+,\s+[A-Z]\.(?:\s+[A-Z]\.)?)`)
)

// Entries shorter than this are extraction noise, not references.
const minEntryLen = 20

// CleanFooter strips scanner-injected footer text from one line.
// Returns the empty string when nothing else is on the line.
func CleanFooter(line string) string {
	line = footerPagePattern.ReplaceAllString(line, "")
	line = footerIDPattern.ReplaceAllString(line, "")
	line = footerAIPattern.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// ReferencesSection returns the cleaned lines between the
// "References" (or "Works Cited") heading and the first trailing
// section (appendix, figures, tables). Nil when no heading exists.
func ReferencesSection(lines []string) []string {
	start := -1
	for i, line := range lines {
		if headingPattern.MatchString(strings.TrimSpace(line)) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var out []string
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if trailerPattern.MatchString(strings.ToLower(trimmed)) {
			break
		}
		if trimmed == "" {
			continue
		}
		if cleaned := CleanFooter(trimmed); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// BodyParagraphs returns the paper body preceding the reference
// section, skipping front matter up to an abstract or introduction
// heading when one appears early. Scanner footers are dropped.
func BodyParagraphs(lines []string) []string {
	end := len(lines)
	for i, line := range lines {
		if headingPattern.MatchString(strings.TrimSpace(line)) {
			end = i
			break
		}
	}

	start := 0
	limit := 20
	if end < limit {
		limit = end
	}
	for i := 0; i < limit; i++ {
		head := strings.ToLower(strings.TrimSpace(lines[i]))
		if head == "abstract" || head == "introduction" {
			start = i
			break
		}
	}

	var out []string
	for _, line := range lines[start:end] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || submissionLinePattern.MatchString(trimmed) {
			continue
		}
		if cleaned := CleanFooter(trimmed); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// SplitEntries folds hanging-indent reference lines into individual
// entries. A line opens a new entry when it starts with a capital and
// carries a year near the front; anything else continues the current
// entry. Two entries merged onto one line by the text layer are split
// at the URL/author boundary.
func SplitEntries(lines []string) []string {
	var entries []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.Join(current, " ")
		if len(text) > minEntryLen {
			entries = append(entries, text)
		}
		current = nil
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if before, after, ok := splitMidLine(line); ok {
			current = append(current, before)
			flush()
			current = []string{after}
			continue
		}

		if len(current) > 0 && startsEntry(line) {
			flush()
		}
		current = append(current, line)
	}
	flush()
	return entries
}

// splitMidLine detects a second reference starting after a URL on the
// same line. The leading part must be substantial and the trailing
// part must carry a parenthesized year to count.
func splitMidLine(line string) (before, after string, ok bool) {
	loc := midLineAuthor.FindStringSubmatchIndex(line)
	if loc == nil {
		return "", "", false
	}
	split := loc[2]
	before = strings.TrimSpace(line[:split])
	after = strings.TrimSpace(line[split:])
	if len(before) <= 40 {
		return "", "", false
	}
	head := after
	if len(head) > 100 {
		head = head[:100]
	}
	if !parenYearEarly.MatchString(head) {
		return "", "", false
	}
	return before, after, true
}

func startsEntry(line string) bool {
	if line[0] < 'A' || line[0] > 'Z' {
		return false
	}
	head := line
	if len(head) > 150 {
		head = head[:150]
	}
	if parenYearEarly.MatchString(head) {
		return true
	}
	short := head
	if len(short) > 50 {
		short = short[:50]
	}
	return bareYearEarly.MatchString(head) && earlyPunct.MatchString(short)
}
