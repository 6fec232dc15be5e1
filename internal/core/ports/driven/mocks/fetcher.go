package mocks

import (
	"context"
	"fmt"

	"github.com/weavelabs/ragcore/internal/core/domain"
	"github.com/weavelabs/ragcore/internal/core/ports/driven"
)

// MockPageFetcher serves canned page text by URL
type MockPageFetcher struct {
	pages  map[string]string
	errors map[string]error
}

// NewMockPageFetcher creates a new MockPageFetcher
func NewMockPageFetcher() *MockPageFetcher {
	return &MockPageFetcher{
		pages:  make(map[string]string),
		errors: make(map[string]error),
	}
}

func (m *MockPageFetcher) Fetch(ctx context.Context, url string) (*driven.Page, error) {
	if err, ok := m.errors[url]; ok {
		return nil, err
	}
	text, ok := m.pages[url]
	if !ok {
		return nil, fmt.Errorf("GET %s: status 404: %w", url, domain.ErrFetchFailed)
	}
	return &driven.Page{
		URL:         url,
		ContentType: "text/html",
		Text:        text,
	}, nil
}

// Helper methods for testing

// SetPage registers text to be returned for url
func (m *MockPageFetcher) SetPage(url, text string) {
	m.pages[url] = text
}

// SetError registers an error to be returned for url
func (m *MockPageFetcher) SetError(url string, err error) {
	m.errors[url] = err
}
