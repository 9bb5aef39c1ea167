package docext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts verification input from PDF files via the text layer.
// Pages whose text cannot be decoded are skipped rather than failing
// the document.
type PDF struct {
	maxPages int
}

// NewPDF returns a PDF extractor reading every page.
func NewPDF() *PDF {
	return &PDF{}
}

// WithMaxPages caps how many pages are read. Zero means all pages.
func (e *PDF) WithMaxPages(n int) *PDF {
	e.maxPages = n
	return e
}

// Extract reads the PDF text layer and assembles the reference
// entries and body paragraphs.
func (e *PDF) Extract(path string) (Content, error) {
	lines, err := e.readLines(path)
	if err != nil {
		return Content{}, fmt.Errorf("extract %s: %w", path, err)
	}
	return FromLines(lines), nil
}

func (e *PDF) readLines(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages := r.NumPage()
	if e.maxPages > 0 && e.maxPages < pages {
		pages = e.maxPages
	}

	var lines []string
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		lines = append(lines, strings.Split(text, "\n")...)
	}
	return lines, nil
}
