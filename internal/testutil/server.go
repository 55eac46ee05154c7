package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aaronsmenu/menu-web/internal/catalog"
	"github.com/aaronsmenu/menu-web/internal/feed"
	"github.com/aaronsmenu/menu-web/internal/httpserver"
	"github.com/aaronsmenu/menu-web/internal/menu"
)

// Feed is a fake spreadsheet publisher serving one CSV body per variant slug.
type Feed struct {
	*httptest.Server

	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
	hits   map[string]int
}

// NewFeed starts a fake publisher. Paths are /<slug>.csv.
func NewFeed(t testing.TB) *Feed {
	t.Helper()
	f := &Feed{bodies: map[string]string{}, status: map[string]int{}, hits: map[string]int{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Set publishes body for slug.
func (f *Feed) Set(slug, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[slug] = body
	delete(f.status, slug)
}

// Fail makes slug answer with status.
func (f *Feed) Fail(slug string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[slug] = status
}

// Hits returns how many times slug was fetched.
func (f *Feed) Hits(slug string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[slug]
}

// URLFor returns the feed URL of slug.
func (f *Feed) URLFor(slug string) string {
	return f.Server.URL + "/" + slug + ".csv"
}

func (f *Feed) serve(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".csv")
	f.mu.Lock()
	f.hits[slug]++
	status, failing := f.status[slug]
	body, ok := f.bodies[slug]
	f.mu.Unlock()

	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	_, _ = w.Write([]byte(body))
}

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithLoader overrides the pipeline used by the server.
func WithLoader(loader httpserver.MenuLoader) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Loader = loader
	}
}

// WithAllowedOrigins sets the CORS origins of the JSON API.
func WithAllowedOrigins(origins ...string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.AllowedOrigins = origins
	}
}

// NewServer constructs an httptest server running the menu HTTP stack with
// every variant pointed at feed.
func NewServer(t testing.TB, f *Feed, opts ...ServerOption) *httptest.Server {
	t.Helper()

	variants, err := catalog.LoadVariants()
	if err != nil {
		t.Fatalf("load variants: %v", err)
	}
	urls := map[string]string{}
	for _, slug := range variants.Slugs() {
		urls[slug] = f.URLFor(slug)
	}
	variants, err = variants.WithFeedURLs(urls)
	if err != nil {
		t.Fatalf("override feed urls: %v", err)
	}

	cfg := httpserver.Config{
		Address:  ":0",
		Variants: variants,
		Loader:   menu.NewLoader(feed.New(feed.WithHTTPClient(f.Client()))),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
