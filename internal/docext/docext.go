// Package docext pulls verification input out of document files: the
// reference-list entries and the body paragraphs citations live in.
package docext

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matsen/refcheck/internal/reference"
)

// Content is the extracted material for one document.
type Content struct {
	// References are the individual reference-list entries in list
	// order, already split and cleaned.
	References []reference.RawEntry
	// Paragraphs is the paper body preceding the reference list.
	Paragraphs []string
}

// Extractor turns a document file into verification input.
type Extractor interface {
	Extract(path string) (Content, error)
}

// ForFile picks an extractor by file extension.
func ForFile(path string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDF(), nil
	case ".txt", ".text":
		return Text{}, nil
	default:
		return nil, fmt.Errorf("unsupported document type: %s", path)
	}
}

// FromLines assembles Content out of raw document lines: locate the
// reference section, split it into entries, and keep the preceding
// body for citation extraction.
func FromLines(lines []string) Content {
	entries := SplitEntries(ReferencesSection(lines))
	refs := make([]reference.RawEntry, len(entries))
	for i, text := range entries {
		refs[i] = reference.RawEntry{Text: text, Index: i}
	}
	return Content{
		References: refs,
		Paragraphs: BodyParagraphs(lines),
	}
}
