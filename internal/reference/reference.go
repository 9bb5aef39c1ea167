// Package reference defines the core domain types for bibliographic
// reference verification.
package reference

// SourceType classifies where a reference entry points.
type SourceType string

const (
	SourceJournal SourceType = "journal"
	SourceBook    SourceType = "book"
	SourceWebsite SourceType = "website"
	SourceUnknown SourceType = "unknown"
)

// RawEntry is one item from a paper's reference list, as extracted.
// Immutable once extracted.
type RawEntry struct {
	Text  string `json:"text"`
	Index int    `json:"index"` // Ordinal position in the reference list (0-based)
}

// Parsed holds the structured fields derived from a RawEntry.
// Every RawEntry produces exactly one Parsed, even when segmentation
// fails; in that case the fields stay empty and Anomaly records why.
type Parsed struct {
	Raw RawEntry `json:"raw"`

	// Authors holds surnames in appearance order. EtAl is set when the
	// entry truncates its author list rather than naming everyone.
	Authors []string `json:"authors,omitempty"`
	EtAl    bool     `json:"et_al,omitempty"`

	Year      int        `json:"year,omitempty"` // 0 when unknown
	Title     string     `json:"title,omitempty"`
	Container string     `json:"container,omitempty"` // Journal or book series
	DOI       string     `json:"doi,omitempty"`
	URL       string     `json:"url,omitempty"`
	Type      SourceType `json:"type"`

	// Anomaly is a short note set when the string could not be fully
	// segmented. Non-fatal; the entry still surfaces in the report.
	Anomaly string `json:"anomaly,omitempty"`
}

// FirstAuthor returns the first author surname, or "" if none parsed.
func (p *Parsed) FirstAuthor() string {
	if len(p.Authors) == 0 {
		return ""
	}
	return p.Authors[0]
}

// Candidate is one hit returned by a lookup source. Ephemeral; it is
// not persisted beyond the matching pass for its reference.
type Candidate struct {
	Provider  string   `json:"provider"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Year      int      `json:"year,omitempty"`
	DOI       string   `json:"doi,omitempty"`
	Container string   `json:"container,omitempty"`
	Rank      int      `json:"rank"` // Provider's own relevance rank (0 = best)
}
