// Package websearch provides the web search fallback used when the local
// index cannot supply relevant documents after query rewriting is exhausted.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ragscope/ragscope/index"
)

// Searcher turns a query into documents suitable for generation context.
type Searcher interface {
	Search(ctx context.Context, query string) ([]index.Document, error)
}

// BraveSearch implements Searcher against the Brave Search API.
type BraveSearch struct {
	apiKey  string
	baseURL string
	count   int
	client  *http.Client
}

var _ Searcher = (*BraveSearch)(nil)

type BraveOption func(*BraveSearch)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) BraveOption {
	return func(b *BraveSearch) {
		b.baseURL = baseURL
	}
}

// WithCount sets the number of results to request (1-20).
func WithCount(count int) BraveOption {
	return func(b *BraveSearch) {
		if count < 1 {
			count = 1
		}
		if count > 20 {
			count = 20
		}
		b.count = count
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) BraveOption {
	return func(b *BraveSearch) {
		b.client = client
	}
}

// NewBraveSearch creates a Brave search client.
func NewBraveSearch(apiKey string, opts ...BraveOption) (*BraveSearch, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("websearch: brave api key not set")
	}
	b := &BraveSearch{
		apiKey:  apiKey,
		baseURL: "https://api.search.brave.com/res/v1/web/search",
		count:   5,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs the query and converts hits into documents. Titles and URLs
// land in metadata so results stay traceable in the dashboard.
func (b *BraveSearch) Search(ctx context.Context, query string) ([]index.Document, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(b.count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("websearch: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("websearch: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("websearch: brave api returned status %d", resp.StatusCode)
	}

	var body braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("websearch: decode response: %w", err)
	}

	docs := make([]index.Document, 0, len(body.Web.Results))
	for i, r := range body.Web.Results {
		docs = append(docs, index.Document{
			ID:      fmt.Sprintf("web-%d", i+1),
			Content: r.Description,
			Metadata: map[string]string{
				"title":  r.Title,
				"source": r.URL,
			},
		})
	}
	return docs, nil
}
