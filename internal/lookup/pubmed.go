package lookup

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/matsen/refcheck/internal/reference"
)

// PubMed E-utilities endpoints.
const (
	PubMedSearchURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	PubMedSummaryURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
)

// PubMed is a biomedical-journal lookup adapter. A search is a
// two-step flow: esearch resolves the query to PMIDs, esummary
// fetches the records.
type PubMed struct {
	client     *Client
	searchURL  string
	summaryURL string
	apiKey     string
}

// NewPubMed creates a PubMed adapter on the shared client.
func NewPubMed(client *Client, apiKey string) *PubMed {
	return &PubMed{
		client:     client,
		searchURL:  PubMedSearchURL,
		summaryURL: PubMedSummaryURL,
		apiKey:     apiKey,
	}
}

// WithBaseURLs overrides the endpoints (for testing).
func (p *PubMed) WithBaseURLs(search, summary string) *PubMed {
	p.searchURL = search
	p.summaryURL = summary
	return p
}

func (p *PubMed) Name() string { return ProviderPubMed }

// Search finds journal records matching the reference title/author.
func (p *PubMed) Search(ctx context.Context, ref *reference.Parsed) ([]reference.Candidate, error) {
	if ref.Title == "" {
		return nil, nil
	}

	term := reference.Normalize(ref.Title) + "[Title]"
	if first := ref.FirstAuthor(); first != "" {
		term += " AND " + first + "[Author]"
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmax", "5")
	params.Set("retmode", "json")
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}

	var searchResp struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := p.client.GetJSON(ctx, ProviderPubMed, p.searchURL, params, &searchResp); err != nil {
		return nil, err
	}

	ids := searchResp.ESearchResult.IDList
	if len(ids) == 0 {
		return nil, nil
	}
	return p.summaries(ctx, ids)
}

func (p *PubMed) summaries(ctx context.Context, ids []string) ([]reference.Candidate, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "json")
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}

	// esummary keys articles by PMID inside "result", alongside a
	// "uids" member listing them; decode loosely.
	var resp struct {
		Result map[string]any `json:"result"`
	}
	if err := p.client.GetJSON(ctx, ProviderPubMed, p.summaryURL, params, &resp); err != nil {
		return nil, err
	}

	var candidates []reference.Candidate
	for rank, id := range ids {
		raw, ok := resp.Result[id].(map[string]any)
		if !ok {
			continue
		}
		cand := reference.Candidate{
			Provider: ProviderPubMed,
			Rank:     rank,
		}
		if t, ok := raw["title"].(string); ok {
			cand.Title = strings.TrimRight(t, ".")
		}
		if src, ok := raw["fulljournalname"].(string); ok {
			cand.Container = src
		}
		if pd, ok := raw["pubdate"].(string); ok && len(pd) >= 4 {
			if y, err := strconv.Atoi(pd[:4]); err == nil {
				cand.Year = y
			}
		}
		if authors, ok := raw["authors"].([]any); ok {
			for _, a := range authors {
				if am, ok := a.(map[string]any); ok {
					if name, ok := am["name"].(string); ok {
						// esummary names are "Smith J"; keep the surname.
						if fields := strings.Fields(name); len(fields) > 0 {
							cand.Authors = append(cand.Authors, fields[0])
						}
					}
				}
			}
		}
		if eloc, ok := raw["elocationid"].(string); ok {
			if idx := strings.Index(strings.ToLower(eloc), "doi: "); idx >= 0 {
				cand.DOI = strings.ToLower(strings.TrimSpace(eloc[idx+5:]))
			}
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}
