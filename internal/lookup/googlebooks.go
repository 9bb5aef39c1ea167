package lookup

import (
	"context"
	"net/url"
	"strconv"

	"github.com/matsen/refcheck/internal/reference"
)

// GoogleBooksBaseURL is the Google Books volumes endpoint.
const GoogleBooksBaseURL = "https://www.googleapis.com/books/v1/volumes"

// GoogleBooks is a book-oriented lookup adapter.
type GoogleBooks struct {
	client  *Client
	baseURL string
}

// NewGoogleBooks creates a Google Books adapter on the shared client.
func NewGoogleBooks(client *Client) *GoogleBooks {
	return &GoogleBooks{client: client, baseURL: GoogleBooksBaseURL}
}

// WithBaseURL overrides the endpoint (for testing).
func (g *GoogleBooks) WithBaseURL(u string) *GoogleBooks {
	g.baseURL = u
	return g
}

func (g *GoogleBooks) Name() string { return ProviderGoogleBooks }

// Search finds book records matching the reference title/author.
func (g *GoogleBooks) Search(ctx context.Context, ref *reference.Parsed) ([]reference.Candidate, error) {
	if ref.Title == "" {
		return nil, nil
	}

	q := "intitle:" + reference.Normalize(ref.Title)
	if first := ref.FirstAuthor(); first != "" {
		q += "+inauthor:" + first
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", "5")

	var resp struct {
		Items []struct {
			VolumeInfo struct {
				Title         string   `json:"title"`
				Authors       []string `json:"authors"`
				PublishedDate string   `json:"publishedDate"`
				Publisher     string   `json:"publisher"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := g.client.GetJSON(ctx, ProviderGoogleBooks, g.baseURL, params, &resp); err != nil {
		return nil, err
	}

	candidates := make([]reference.Candidate, 0, len(resp.Items))
	for i, item := range resp.Items {
		info := item.VolumeInfo
		cand := reference.Candidate{
			Provider:  ProviderGoogleBooks,
			Title:     info.Title,
			Authors:   info.Authors,
			Container: info.Publisher,
			Rank:      i,
		}
		if len(info.PublishedDate) >= 4 {
			if y, err := strconv.Atoi(info.PublishedDate[:4]); err == nil {
				cand.Year = y
			}
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}
