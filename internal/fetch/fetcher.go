// Package fetch retrieves careers pages and reduces them to readable text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"coldreach/internal/model"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 5 * 1024 * 1024

// Elements that never carry job-posting content.
const skipSelector = "script, style, noscript, nav, header, footer, aside, iframe"

// Fetcher implements model.PageFetcher over plain HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// New creates a Fetcher. The client's timeout bounds the whole request.
func New(client *http.Client, userAgent string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
	}
}

// FetchText downloads rawURL and returns its visible text, whitespace
// collapsed. Network failures, non-200 statuses and non-text content types
// all surface as *model.FetchError.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &model.FetchError{URL: rawURL, Err: fmt.Errorf("invalid URL: %w", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &model.FetchError{URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", &model.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &model.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &model.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/") &&
		!strings.Contains(contentType, "xhtml") {
		return "", &model.FetchError{
			URL: rawURL,
			Err: fmt.Errorf("unsupported content type %q", contentType),
		}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &model.FetchError{URL: rawURL, Err: fmt.Errorf("parse page: %w", err)}
	}
	doc.Find(skipSelector).Remove()

	text := strings.Join(strings.Fields(doc.Text()), " ")
	if text == "" {
		return "", &model.FetchError{URL: rawURL, Err: fmt.Errorf("no text content found")}
	}

	f.logger.Debug("fetched page", "url", rawURL, "bytes", len(text))
	return text, nil
}
