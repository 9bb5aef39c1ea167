package lookup

import (
	"context"
	"net/url"

	"github.com/matsen/refcheck/internal/reference"
)

// OpenLibraryBaseURL is the Open Library search endpoint.
const OpenLibraryBaseURL = "https://openlibrary.org/search.json"

// OpenLibrary is a book-oriented lookup adapter.
type OpenLibrary struct {
	client  *Client
	baseURL string
}

// NewOpenLibrary creates an Open Library adapter on the shared client.
func NewOpenLibrary(client *Client) *OpenLibrary {
	return &OpenLibrary{client: client, baseURL: OpenLibraryBaseURL}
}

// WithBaseURL overrides the endpoint (for testing).
func (o *OpenLibrary) WithBaseURL(u string) *OpenLibrary {
	o.baseURL = u
	return o
}

func (o *OpenLibrary) Name() string { return ProviderOpenLibrary }

// Search finds book records matching the reference title/author.
func (o *OpenLibrary) Search(ctx context.Context, ref *reference.Parsed) ([]reference.Candidate, error) {
	if ref.Title == "" {
		return nil, nil
	}

	q := "title:" + reference.Normalize(ref.Title)
	if first := ref.FirstAuthor(); first != "" {
		q += " author:" + first
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", "5")

	var resp struct {
		Docs []struct {
			Title            string   `json:"title"`
			AuthorName       []string `json:"author_name"`
			FirstPublishYear int      `json:"first_publish_year"`
		} `json:"docs"`
	}
	if err := o.client.GetJSON(ctx, ProviderOpenLibrary, o.baseURL, params, &resp); err != nil {
		return nil, err
	}

	candidates := make([]reference.Candidate, 0, len(resp.Docs))
	for i, doc := range resp.Docs {
		candidates = append(candidates, reference.Candidate{
			Provider: ProviderOpenLibrary,
			Title:    doc.Title,
			Authors:  doc.AuthorName,
			Year:     doc.FirstPublishYear,
			Rank:     i,
		})
	}
	return candidates, nil
}
