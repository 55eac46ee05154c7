// Package feed downloads published spreadsheet exports.
package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultTimeout  = 8 * time.Second
	defaultMaxBytes = 4 << 20
	instrumentation = "github.com/aaronsmenu/menu-web/internal/feed"
)

// Fetcher performs a single GET per call; it never retries.
type Fetcher struct {
	http     *http.Client
	maxBytes int64
	logger   *zap.Logger
	tracer   trace.Tracer

	latency         metric.Float64Histogram
	latencyEnabled  bool
	failures        metric.Int64Counter
	failuresEnabled bool
}

type fetcherConfig struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	logger   *zap.Logger
	meter    metric.Meter
	tracer   trace.Tracer
}

// Option customises Fetcher construction.
type Option func(*fetcherConfig)

// WithHTTPClient injects the client used for requests (primarily for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *fetcherConfig) {
		cfg.client = client
	}
}

// WithTimeout bounds each fetch. Ignored when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(cfg *fetcherConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithMaxBytes caps the accepted body size.
func WithMaxBytes(n int64) Option {
	return func(cfg *fetcherConfig) {
		if n > 0 {
			cfg.maxBytes = n
		}
	}
}

// WithLogger sets the logger used for diagnostic output.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *fetcherConfig) {
		cfg.logger = logger
	}
}

// WithMeter injects a custom OpenTelemetry meter.
func WithMeter(m metric.Meter) Option {
	return func(cfg *fetcherConfig) {
		cfg.meter = m
	}
}

// WithTracer injects a custom OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(cfg *fetcherConfig) {
		cfg.tracer = t
	}
}

// New builds a Fetcher.
func New(opts ...Option) *Fetcher {
	cfg := fetcherConfig{
		timeout:  defaultTimeout,
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: cfg.timeout}
	}
	if cfg.meter == nil {
		cfg.meter = otel.GetMeterProvider().Meter(instrumentation)
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(instrumentation)
	}

	latency, latencyErr := cfg.meter.Float64Histogram(
		"menu.feed.fetch.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency in milliseconds for menu feed fetches"),
	)
	if latencyErr != nil {
		cfg.logger.Warn("feed: unable to register latency metric", zap.Error(latencyErr))
	}
	failures, failuresErr := cfg.meter.Int64Counter(
		"menu.feed.fetch.failures",
		metric.WithDescription("Count of failed menu feed fetches"),
	)
	if failuresErr != nil {
		cfg.logger.Warn("feed: unable to register failure metric", zap.Error(failuresErr))
	}

	return &Fetcher{
		http:            cfg.client,
		maxBytes:        cfg.maxBytes,
		logger:          cfg.logger,
		tracer:          cfg.tracer,
		latency:         latency,
		latencyEnabled:  latencyErr == nil,
		failures:        failures,
		failuresEnabled: failuresErr == nil,
	}
}

// Fetch downloads url and returns its body as text. An empty body is a valid,
// empty feed. Every failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (text string, err error) {
	ctx, span := f.tracer.Start(ctx, "feed.Fetch", trace.WithSpanKind(trace.SpanKindClient))
	start := time.Now()
	defer func() {
		f.record(ctx, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if strings.TrimSpace(url) == "" {
		return "", &FetchError{URL: url, Err: fmt.Errorf("%w: no feed url configured", ErrUnavailable)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %s", ErrStatus, drain(resp.Body))}
	}
	if isHTML(resp.Header.Get("Content-Type")) {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: got an html page", ErrMalformedBody)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: read body: %v", ErrMalformedBody, err)}
	}
	if int64(len(body)) > f.maxBytes {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedBody, f.maxBytes)}
	}
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(body) {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: body is not utf-8", ErrMalformedBody)}
	}

	span.SetAttributes(attribute.Int("feed.bytes", len(body)))
	f.logger.Debug("feed fetched", zap.Int("bytes", len(body)), zap.Duration("latency", time.Since(start)))
	return string(body), nil
}

func (f *Fetcher) record(ctx context.Context, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var fe *FetchError
		if errors.As(err, &fe) {
			outcome = fe.Kind()
		}
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	if f.latencyEnabled {
		f.latency.Record(ctx, float64(d)/float64(time.Millisecond), attrs)
	}
	if err != nil && f.failuresEnabled {
		f.failures.Add(ctx, 1, attrs)
	}
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func drain(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	msg := strings.TrimSpace(string(b))
	if msg == "" || !utf8.ValidString(msg) {
		return "empty response"
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
