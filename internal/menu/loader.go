package menu

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Fetcher retrieves the raw feed text from url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Source identifies one language feed.
type Source struct {
	URL      string
	Language string
}

// Loader runs fetch, parse and normalize for one source.
type Loader struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger used for load diagnostics.
func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader builds a Loader around fetcher.
func NewLoader(fetcher Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{fetcher: fetcher, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches src once and returns its items.
//
// Failures degrade rather than abort: when the fetch fails the collection is
// empty, and when some rows are malformed the readable rows are kept. In both
// cases the error is returned so the caller can log it. If ctx is done by the
// time the feed arrives the result is discarded and ctx.Err() is returned.
func (l *Loader) Load(ctx context.Context, src Source) (Collection, error) {
	col := Collection{Language: src.Language, Items: []Item{}}
	logger := l.logger.With(zap.String("language", src.Language))

	if l.fetcher == nil {
		return col, errors.New("menu: loader has no fetcher")
	}
	text, err := l.fetcher.Fetch(ctx, src.URL)
	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Debug("menu load abandoned", zap.Error(ctxErr))
		return col, ctxErr
	}
	if err != nil {
		logger.Warn("menu feed unavailable", zap.Error(err))
		return col, err
	}

	records, parseErr := Parse(text)
	col.Records = len(records)
	var pe *ParseError
	if errors.As(parseErr, &pe) {
		col.Skipped = pe.Skipped()
		logger.Warn("menu feed has malformed rows", zap.Int("skipped", col.Skipped), zap.Error(parseErr))
	}

	col.Items = NormalizeAll(records, src.Language)
	logger.Debug("menu loaded",
		zap.Int("records", col.Records),
		zap.Int("items", len(col.Items)),
		zap.Int("other_language", col.Records-len(col.Items)),
	)
	return col, parseErr
}
