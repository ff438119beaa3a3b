package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// htmlPolicy keeps structural tags for goquery to walk and strips scripts,
// styles and event handlers.
var htmlPolicy = bluemonday.UGCPolicy()

// IngestURL fetches a web page, extracts its readable text and indexes the
// chunks. Returns the number of chunks indexed.
func (p *Pipeline) IngestURL(ctx context.Context, pageURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, fmt.Errorf("ingest: create request for %s: %w", pageURL, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ingest: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ingest: fetch %s: status %d", pageURL, resp.StatusCode)
	}

	sanitized := htmlPolicy.SanitizeReader(resp.Body)
	doc, err := goquery.NewDocumentFromReader(sanitized)
	if err != nil {
		return 0, fmt.Errorf("ingest: parse %s: %w", pageURL, err)
	}

	var sb strings.Builder
	doc.Find("h1, h2, h3, p, li, blockquote").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	})

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		// Pages without any recognized block elements still may carry text.
		text = strings.TrimSpace(doc.Text())
	}
	if text == "" {
		return 0, nil
	}

	return p.IngestText(ctx, pageURL, text)
}

// IngestURLs ingests a list of pages, continuing past per-page failures.
// Returns the total number of chunks indexed.
func (p *Pipeline) IngestURLs(ctx context.Context, urls []string) (int, error) {
	total := 0
	var failures []string
	for _, u := range urls {
		n, err := p.IngestURL(ctx, u)
		if err != nil {
			p.logger.Warn("skipping %s: %v", u, err)
			failures = append(failures, u)
			continue
		}
		total += n
	}
	if total == 0 && len(failures) > 0 {
		return 0, fmt.Errorf("ingest: all %d pages failed", len(failures))
	}
	return total, nil
}
