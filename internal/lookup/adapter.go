// Package lookup queries external bibliographic databases for records
// matching a parsed reference. Each provider sits behind the Adapter
// interface; the matching engine never depends on a concrete provider.
package lookup

import (
	"context"

	"github.com/matsen/refcheck/internal/reference"
)

// Adapter is the uniform search capability over one external
// bibliographic database.
//
// Search returns provider hits in the provider's own relevance order.
// A provider outage degrades coverage, never aborts the batch: after
// exhausting retries an adapter returns (nil, err) with err wrapping
// ErrUnavailable, and the caller records the outage per reference.
type Adapter interface {
	Name() string
	Search(ctx context.Context, ref *reference.Parsed) ([]reference.Candidate, error)
}

// BookOriented reports whether the adapter targets book sources.
// Book adapters are skippable entirely via configuration; when
// skipped, book references bypass lookup and are marked for manual
// review unconditionally.
func BookOriented(a Adapter) bool {
	switch a.Name() {
	case ProviderOpenLibrary, ProviderGoogleBooks:
		return true
	}
	return false
}

// Provider names as reported in candidates and reports.
const (
	ProviderCrossRef    = "crossref"
	ProviderPubMed      = "pubmed"
	ProviderOpenLibrary = "openlibrary"
	ProviderGoogleBooks = "googlebooks"
)
