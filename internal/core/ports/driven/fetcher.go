package driven

import (
	"context"
)

// Page is the readable content extracted from a fetched URL
type Page struct {
	// URL is the fetched URL
	URL string

	// ContentType is the response media type
	ContentType string

	// Text is the extracted plain text; may be empty, which the
	// ingestion pipeline rejects as domain.ErrEmptyContent
	Text string
}

// PageFetcher retrieves a URL over the network and strips markup and
// boilerplate down to plain text.
type PageFetcher interface {
	// Fetch downloads and extracts a page.
	// Connection errors, non-200 responses and unsupported content
	// types are reported as domain.ErrFetchFailed.
	Fetch(ctx context.Context, url string) (*Page, error)
}
