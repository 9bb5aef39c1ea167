// Package score compares a parsed reference against candidate records
// and produces a confidence-scored verdict.
package score

import (
	"fmt"

	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/reference"
)

// Status classifies one reference's verification outcome. It is a
// pure function of score, DOI agreement, source type, and the skip
// flags; it is never set independently.
type Status string

const (
	StatusVerified      Status = "verified"
	StatusPartialMatch  Status = "partial_match"
	StatusNoMatch       Status = "no_match"
	StatusDoiMismatch   Status = "doi_mismatch"
	StatusBookManual    Status = "book_manual"
	StatusWebsiteManual Status = "website_manual"
	StatusSkipped       Status = "skipped"
)

// DOI-agreement tolerances: a resolvable DOI confirms the entry only
// when the normalized titles overlap at least this much, or when
// nearly every candidate-title token appears in the raw entry text
// (fallback for entries whose title failed to segment).
const (
	doiTitleAgreement = 0.7
	doiRawContainment = 0.9
)

// Result is the verdict for one parsed reference.
type Result struct {
	RefIndex int                  `json:"ref_index"`
	Best     *reference.Candidate `json:"best,omitempty"`
	Score    float64              `json:"score"`
	Status   Status               `json:"status"`
	Provider string               `json:"provider,omitempty"`
	Notes    string               `json:"notes,omitempty"`
	// Unavailable lists providers that could not be reached while
	// matching this reference.
	Unavailable []string `json:"unavailable,omitempty"`
}

// Engine scores candidates against parsed references.
type Engine struct {
	weights    config.Weights
	verified   float64
	partial    float64
	bookLookup bool // False when book providers are disabled
	skipWebs   bool // Websites reported as skipped instead of manual
}

// NewEngine builds an engine from configuration. Invalid threshold
// ordering fails with a configuration error; it is never clamped.
func NewEngine(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		weights:    cfg.Weights,
		verified:   cfg.VerifiedThreshold,
		partial:    cfg.PartialThreshold,
		bookLookup: !cfg.SkipBookVerification,
		skipWebs:   cfg.SkipWebsiteVerification,
	}, nil
}

// Match compares one parsed reference against the concatenated
// candidates from all applicable adapters and emits the verdict.
// The reference is never mutated.
func (e *Engine) Match(ref *reference.Parsed, candidates []reference.Candidate) Result {
	result := Result{RefIndex: ref.Raw.Index}

	// Manual-review categories are never auto-verified.
	switch ref.Type {
	case reference.SourceWebsite:
		if e.skipWebs {
			result.Status = StatusSkipped
			result.Notes = "website skipped per settings"
			return result
		}
		result.Status = StatusWebsiteManual
		result.Notes = "website source, verify manually"
		return result
	case reference.SourceBook:
		if !e.bookLookup {
			result.Status = StatusBookManual
			result.Notes = "book lookup disabled, verify manually"
			return result
		}
	}

	// A resolvable but contradictory DOI is stronger negative
	// evidence than any similarity score.
	if ref.DOI != "" {
		if r, decided := e.matchByDOI(ref, candidates); decided {
			return r
		}
	}

	best, bestScore := e.pickBest(ref, candidates)
	result.Score = bestScore
	if best != nil {
		c := *best
		result.Best = &c
		result.Provider = best.Provider
	}
	result.Status = e.classify(ref, bestScore)
	return result
}

// matchByDOI resolves the verdict when a candidate shares the
// reference DOI. Returns decided=false when no candidate carries it.
func (e *Engine) matchByDOI(ref *reference.Parsed, candidates []reference.Candidate) (Result, bool) {
	refDOI := reference.Normalize(ref.DOI)
	for i := range candidates {
		cand := &candidates[i]
		if cand.DOI == "" || reference.Normalize(cand.DOI) != refDOI {
			continue
		}

		titleSim := TitleSimilarity(ref.Title, cand.Title)
		result := Result{
			RefIndex: ref.Raw.Index,
			Provider: cand.Provider,
		}
		c := *cand
		result.Best = &c

		agrees := titleSim >= doiTitleAgreement
		if !agrees && ref.Title == "" {
			agrees = TokenContainment(cand.Title, ref.Raw.Text) >= doiRawContainment
		}
		if !agrees {
			result.Status = StatusDoiMismatch
			result.Score = titleSim
			result.Notes = fmt.Sprintf("DOI resolves to different title: %q", cand.Title)
			return result, true
		}

		result.Status = StatusVerified
		result.Score = e.aggregate(ref, cand)
		result.Notes = "DOI verified"
		return result, true
	}
	return Result{}, false
}

// pickBest returns the highest-scoring candidate and its score.
func (e *Engine) pickBest(ref *reference.Parsed, candidates []reference.Candidate) (*reference.Candidate, float64) {
	var best *reference.Candidate
	bestScore := 0.0
	for i := range candidates {
		s := e.aggregate(ref, &candidates[i])
		if best == nil || s > bestScore {
			best = &candidates[i]
			bestScore = s
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestScore
}

// aggregate computes the weighted similarity score in [0,1]. Weights
// for fields the parsed reference lacks are folded into the title
// weight so unknown fields do not drag the score down.
func (e *Engine) aggregate(ref *reference.Parsed, cand *reference.Candidate) float64 {
	wTitle, wAuthors, wYear := e.weights.Title, e.weights.Authors, e.weights.Year
	if len(ref.Authors) == 0 {
		wTitle += wAuthors
		wAuthors = 0
	}
	if ref.Year == 0 {
		wTitle += wYear
		wYear = 0
	}
	total := wTitle + wAuthors + wYear
	if total == 0 {
		return 0
	}

	score := wTitle * TitleSimilarity(ref.Title, cand.Title)
	if wAuthors > 0 {
		score += wAuthors * AuthorOverlap(ref.Authors, cand.Authors)
	}
	if wYear > 0 {
		score += wYear * YearAgreement(ref.Year, cand.Year)
	}
	return score / total
}

// classify maps a score to a status, honoring source-type overrides.
func (e *Engine) classify(ref *reference.Parsed, score float64) Status {
	switch {
	case score >= e.verified:
		return StatusVerified
	case score >= e.partial:
		return StatusPartialMatch
	}
	// An unfound book is a manual-review case, not a fabrication
	// verdict: book database coverage is known to be weak.
	if ref.Type == reference.SourceBook {
		return StatusBookManual
	}
	return StatusNoMatch
}
