package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/refcheck/internal/score"
	"github.com/matsen/refcheck/internal/verify"
)

// Title truncation length for human summaries.
const summaryTitleMaxLen = 70

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// statusGlyph marks each verdict in human output.
func statusGlyph(s score.Status) string {
	switch s {
	case score.StatusVerified:
		return "ok"
	case score.StatusPartialMatch:
		return "?"
	case score.StatusSkipped:
		return "-"
	default:
		return "!"
	}
}

// printReportHuman renders one document's report for a terminal.
func printReportHuman(report *verify.Report) {
	fmt.Printf("%s\n", report.Document)
	for i, r := range report.Results {
		ref := report.References[i]
		label := ref.Title
		if label == "" {
			label = ref.Raw.Text
		}
		fmt.Printf("  [%2s] #%d %-14s %.2f  %s\n",
			statusGlyph(r.Status), r.RefIndex+1, r.Status, r.Score,
			truncateString(label, summaryTitleMaxLen))
		if r.Notes != "" {
			fmt.Printf("       %s\n", r.Notes)
		}
		if len(r.Unavailable) > 0 {
			fmt.Printf("       unreachable: %s\n", strings.Join(r.Unavailable, ", "))
		}
	}

	for _, a := range report.Anomalies {
		fmt.Printf("  [ !] %s\n", a)
	}

	if c := report.Citations; c != nil {
		for _, key := range c.Orphans {
			fmt.Printf("  [ !] cited but not in reference list: (%s, %d)\n", key.Surname, key.Year)
		}
		for _, idx := range c.Unused {
			fmt.Printf("  [ ?] listed but never cited: #%d\n", idx+1)
		}
	}

	s := report.Summary
	fmt.Printf("  %d references: %d verified, %d partial, %d no match, %d DOI mismatch, %d manual, %d skipped\n\n",
		s.Total, s.Verified, s.PartialMatch, s.NoMatch, s.DoiMismatch,
		s.BookManual+s.WebsiteManual, s.Skipped)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
