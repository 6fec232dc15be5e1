package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/weavelabs/ragcore/internal/core/domain"
)

func TestFetcher_HTMLParagraphs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("expected browser-like user agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Doc</title>
			<script>var tracking = true;</script></head>
			<body>
			<nav>Home | About</nav>
			<p>First paragraph.</p>
			<p>Second paragraph.</p>
			<p>   </p>
			</body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{})
	page, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Text != "First paragraph.\nSecond paragraph." {
		t.Errorf("unexpected extracted text: %q", page.Text)
	}
	if page.URL != server.URL {
		t.Errorf("expected url recorded, got %s", page.URL)
	}
	if page.ContentType != "text/html" {
		t.Errorf("expected text/html, got %s", page.ContentType)
	}
	if strings.Contains(page.Text, "tracking") {
		t.Error("script content leaked into extracted text")
	}
}

func TestFetcher_HTMLWithoutParagraphs_FallsBackToBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div>Content without paragraph markup.</div></body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{})
	page, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Text != "Content without paragraph markup." {
		t.Errorf("unexpected fallback text: %q", page.Text)
	}
}

func TestFetcher_PlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Raw text document.\nSecond line."))
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{})
	page, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Text != "Raw text document.\nSecond line." {
		t.Errorf("expected plain text passthrough, got %q", page.Text)
	}
}

func TestFetcher_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{})
	_, err := f.Fetch(context.Background(), server.URL+"/missing")
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestFetcher_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{})
	_, err := f.Fetch(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestFetcher_UnsupportedContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{})
	_, err := f.Fetch(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "unsupported content type") {
		t.Errorf("expected content type in error, got %v", err)
	}
}

func TestFetcher_UnreachableHost(t *testing.T) {
	f := NewFetcher(FetcherConfig{})
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1")
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestFetcher_MissingContentType_TreatedAsHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil // suppress auto-detection
		_, _ = w.Write([]byte(`<html><body><p>Headerless page.</p></body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{})
	page, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Text != "Headerless page." {
		t.Errorf("unexpected text: %q", page.Text)
	}
}
