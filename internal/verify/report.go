package verify

import (
	"github.com/matsen/refcheck/internal/citation"
	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/score"
)

// Report is the complete verification output for one document.
// Results run parallel to References; nothing is reordered after
// assembly.
type Report struct {
	Document   string                `json:"document"`
	References []reference.Parsed    `json:"references"`
	Results    []score.Result        `json:"results"`
	Citations  *citation.CrossResult `json:"citations,omitempty"`
	// Anomalies records document-level conditions that limited the
	// run, such as a missing reference section.
	Anomalies []string `json:"anomalies,omitempty"`
	Summary   Summary  `json:"summary"`
}

// Summary aggregates per-reference verdicts and cross-match findings.
type Summary struct {
	Total         int `json:"total"`
	Verified      int `json:"verified"`
	PartialMatch  int `json:"partial_match"`
	NoMatch       int `json:"no_match"`
	DoiMismatch   int `json:"doi_mismatch"`
	BookManual    int `json:"book_manual"`
	WebsiteManual int `json:"website_manual"`
	Skipped       int `json:"skipped"`
	// OrphanCitations counts citation keys with no reference entry.
	OrphanCitations int `json:"orphan_citations"`
	// UnusedReferences counts entries never cited in the body.
	UnusedReferences int `json:"unused_references"`
}

// NeedsAttention reports whether any reference or citation finding
// warrants human review.
func (s Summary) NeedsAttention() bool {
	return s.NoMatch > 0 || s.DoiMismatch > 0 || s.BookManual > 0 ||
		s.WebsiteManual > 0 || s.OrphanCitations > 0
}

func summarize(results []score.Result, citations *citation.CrossResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case score.StatusVerified:
			s.Verified++
		case score.StatusPartialMatch:
			s.PartialMatch++
		case score.StatusNoMatch:
			s.NoMatch++
		case score.StatusDoiMismatch:
			s.DoiMismatch++
		case score.StatusBookManual:
			s.BookManual++
		case score.StatusWebsiteManual:
			s.WebsiteManual++
		case score.StatusSkipped:
			s.Skipped++
		}
	}
	if citations != nil {
		s.OrphanCitations = len(citations.Orphans)
		s.UnusedReferences = len(citations.Unused)
	}
	return s
}
