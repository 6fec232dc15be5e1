package scrape

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/weavelabs/ragcore/internal/core/domain"
	"github.com/weavelabs/ragcore/internal/core/ports/driven"
)

// Browser-like user agent. Many sites serve 403 to default Go clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 10 << 20 // 10 MiB

// Ensure Fetcher implements PageFetcher
var _ driven.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves web pages over HTTP and extracts their readable
// text. HTML pages are reduced to paragraph text; plain text passes
// through untouched.
type Fetcher struct {
	client *http.Client
}

// FetcherConfig configures the page fetcher
type FetcherConfig struct {
	// Timeout for the whole fetch (default 10s)
	Timeout time.Duration
}

// NewFetcher creates a page fetcher
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Fetch retrieves url and returns its extracted text. Transport errors,
// non-2xx responses and unsupported content types all wrap
// ErrFetchFailed so the pipeline records one failure class.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*driven.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s returned status %d", domain.ErrFetchFailed, url, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Missing or malformed header; most such responses are HTML
		mediaType = "text/html"
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)

	var text string
	switch {
	case mediaType == "text/html", mediaType == "application/xhtml+xml":
		text, err = extractHTML(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
		}
	case strings.HasPrefix(mediaType, "text/"):
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
		}
		text = string(raw)
	default:
		return nil, fmt.Errorf("%w: unsupported content type %q at %s", domain.ErrFetchFailed, mediaType, url)
	}

	return &driven.Page{
		URL:         url,
		ContentType: mediaType,
		Text:        text,
	}, nil
}

// extractHTML reduces an HTML document to its paragraph text. Documents
// without <p> elements fall back to the whole body text so sparse pages
// still yield content.
func extractHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %v", err)
	}

	doc.Find("script, style, noscript").Remove()

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})

	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n"), nil
	}

	return strings.TrimSpace(doc.Find("body").Text()), nil
}
