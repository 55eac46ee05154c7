package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestFetchReturnsBody(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("\xef\xbb\xbfid,name\n1,Tandoori Chicken\n"))
	})

	f := New(WithHTTPClient(ts.Client()), WithLogger(zap.NewNop()))
	got, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got != "id,name\n1,Tandoori Chicken\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestFetchEmptyBodyIsEmptyFeed(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	got, err := New(WithHTTPClient(ts.Client())).Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty body, got %q", got)
	}
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		maxBytes int64
		want     error
		status   int
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "no such sheet", http.StatusNotFound)
			},
			want:   ErrStatus,
			status: http.StatusNotFound,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want:   ErrStatus,
			status: http.StatusBadGateway,
		},
		{
			name: "sign-in page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_, _ = w.Write([]byte("<!doctype html><title>Sign in</title>"))
			},
			want:   ErrMalformedBody,
			status: http.StatusOK,
		},
		{
			name: "too large",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(strings.Repeat("a", 64)))
			},
			maxBytes: 16,
			want:     ErrMalformedBody,
			status:   http.StatusOK,
		},
		{
			name: "not utf-8",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/csv")
				_, _ = w.Write([]byte{'i', 'd', '\n', 0xff, 0xfe})
			},
			want:   ErrMalformedBody,
			status: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, tc.handler)
			opts := []Option{WithHTTPClient(ts.Client())}
			if tc.maxBytes > 0 {
				opts = append(opts, WithMaxBytes(tc.maxBytes))
			}

			_, err := New(opts...).Fetch(context.Background(), ts.URL)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FetchError, got %T", err)
			}
			if fe.StatusCode != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, fe.StatusCode)
			}
			if fe.URL != ts.URL {
				t.Fatalf("expected url %s, got %s", ts.URL, fe.URL)
			}
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(WithTimeout(time.Second)).Fetch(context.Background(), url)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFetchRequiresURL(t *testing.T) {
	_, err := New().Fetch(context.Background(), "  ")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFetchHonoursContext(t *testing.T) {
	release := make(chan struct{})
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(WithHTTPClient(ts.Client())).Fetch(ctx, ts.URL)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFetchRecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("id\n1\n"))
	})

	f := New(WithHTTPClient(ts.Client()), WithMeter(provider.Meter("test")))
	if _, err := f.Fetch(context.Background(), ts.URL+"/ok"); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if _, err := f.Fetch(context.Background(), ts.URL+"/missing"); err == nil {
		t.Fatal("expected error for missing feed")
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}

	var latencyCount uint64
	var failures int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "menu.feed.fetch.latency":
				hist, ok := m.Data.(metricdata.Histogram[float64])
				if !ok {
					t.Fatalf("unexpected latency data %T", m.Data)
				}
				for _, dp := range hist.DataPoints {
					latencyCount += dp.Count
				}
			case "menu.feed.fetch.failures":
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("unexpected failures data %T", m.Data)
				}
				for _, dp := range sum.DataPoints {
					if v, ok := dp.Attributes.Value("outcome"); !ok || v.AsString() != "status" {
						t.Fatalf("unexpected failure outcome %v", dp.Attributes)
					}
					failures += dp.Value
				}
			}
		}
	}
	if latencyCount != 2 {
		t.Fatalf("expected 2 latency observations, got %d", latencyCount)
	}
	if failures != 1 {
		t.Fatalf("expected 1 failure, got %d", failures)
	}
}
