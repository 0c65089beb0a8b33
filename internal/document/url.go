package document

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// ProcessURL fetches a web page and extracts its visible text. Transport
// failures and non-2xx responses come back as a *FetchError; a page without
// a <title> gets the title "No title".
func (p *Processor) ProcessURL(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	content, title, err := htmlText(resp.Body)
	if err != nil {
		return nil, &ExtractionError{Path: rawURL, Format: "html", Err: err}
	}
	if title == "" {
		title = "No title"
	}

	log.Debug().Str("url", rawURL).Int("status", resp.StatusCode).Msg("fetched url")

	return &Document{
		URL:         rawURL,
		Title:       title,
		Content:     collapseWhitespace(content),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// collapseWhitespace trims every line, breaks it on double spaces and joins
// the non-empty pieces with single spaces, flattening rendered page text
// into one line.
func collapseWhitespace(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				parts = append(parts, phrase)
			}
		}
	}
	return strings.Join(parts, " ")
}
