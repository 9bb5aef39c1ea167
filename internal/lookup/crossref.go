package lookup

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/matsen/refcheck/internal/reference"
)

// CrossRefBaseURL is the CrossRef works API endpoint.
const CrossRefBaseURL = "https://api.crossref.org/works"

// CrossRef is a journal-oriented, DOI-capable lookup adapter.
type CrossRef struct {
	client  *Client
	baseURL string
	mailto  string // Polite-pool contact address
}

// NewCrossRef creates a CrossRef adapter on the shared client.
func NewCrossRef(client *Client, mailto string) *CrossRef {
	return &CrossRef{client: client, baseURL: CrossRefBaseURL, mailto: mailto}
}

// WithBaseURL overrides the endpoint (for testing).
func (c *CrossRef) WithBaseURL(u string) *CrossRef {
	c.baseURL = u
	return c
}

func (c *CrossRef) Name() string { return ProviderCrossRef }

type crossRefWork struct {
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	DOI            string   `json:"DOI"`
	Author         []struct {
		Family string `json:"family"`
		Given  string `json:"given"`
	} `json:"author"`
	Issued struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
}

// Search looks the reference up by DOI when one was parsed, falling
// back to a title/author query otherwise.
func (c *CrossRef) Search(ctx context.Context, ref *reference.Parsed) ([]reference.Candidate, error) {
	if ref.DOI != "" {
		return c.byDOI(ctx, ref.DOI)
	}
	if ref.Title == "" {
		return nil, nil
	}
	return c.byTitle(ctx, ref)
}

func (c *CrossRef) byDOI(ctx context.Context, doi string) ([]reference.Candidate, error) {
	var resp struct {
		Message crossRefWork `json:"message"`
	}
	u := c.baseURL + "/" + url.PathEscape(doi)
	params := url.Values{}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}
	if err := c.client.GetJSON(ctx, ProviderCrossRef, u, params, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			return nil, nil // DOI not registered; not an outage
		}
		return nil, err
	}
	return []reference.Candidate{c.toCandidate(resp.Message, 0)}, nil
}

func (c *CrossRef) byTitle(ctx context.Context, ref *reference.Parsed) ([]reference.Candidate, error) {
	params := url.Values{}
	params.Set("query.title", reference.Normalize(ref.Title))
	params.Set("rows", "5")
	if first := ref.FirstAuthor(); first != "" {
		params.Set("query.author", first)
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	var resp struct {
		Message struct {
			Items []crossRefWork `json:"items"`
		} `json:"message"`
	}
	if err := c.client.GetJSON(ctx, ProviderCrossRef, c.baseURL, params, &resp); err != nil {
		return nil, err
	}

	candidates := make([]reference.Candidate, 0, len(resp.Message.Items))
	for i, item := range resp.Message.Items {
		candidates = append(candidates, c.toCandidate(item, i))
	}
	return candidates, nil
}

func (c *CrossRef) toCandidate(w crossRefWork, rank int) reference.Candidate {
	cand := reference.Candidate{
		Provider: ProviderCrossRef,
		DOI:      strings.ToLower(w.DOI),
		Rank:     rank,
	}
	if len(w.Title) > 0 {
		cand.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		cand.Container = w.ContainerTitle[0]
	}
	for _, a := range w.Author {
		if a.Family != "" {
			cand.Authors = append(cand.Authors, a.Family)
		}
	}
	if len(w.Issued.DateParts) > 0 && len(w.Issued.DateParts[0]) > 0 {
		cand.Year = w.Issued.DateParts[0][0]
	}
	return cand
}
