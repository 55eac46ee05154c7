package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const loaderFeed = "id,name,category,price,type,description,language\n" +
	"1,Tandoori Chicken,Chicken,250,non-veg,,Gujarati\n" +
	"2,Chicken Sukka,Chicken,260,non-veg,,Marathi\n" +
	"3,Bad\"Row,Chicken,1,veg,,Gujarati\n" +
	"4,Veg Momos,Momos,120,veg,,Gujarati\n"

func staticFetcher(text string, err error) FetcherFunc {
	return func(ctx context.Context, url string) (string, error) {
		return text, err
	}
}

func TestLoaderLoadsTargetLanguage(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	l := NewLoader(staticFetcher(loaderFeed, nil), WithLoaderLogger(zap.New(core)))

	col, err := l.Load(context.Background(), Source{URL: "https://example.com/feed.csv", Language: "Gujarati"})
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "malformed rows are reported")
	assert.Equal(t, "Gujarati", col.Language)
	assert.Equal(t, 3, col.Records)
	assert.Equal(t, 1, col.Skipped)
	require.Equal(t, 2, col.Len())
	assert.Equal(t, "1", col.Items[0].ID)
	assert.Equal(t, "4", col.Items[1].ID)

	assert.Equal(t, 1, logs.FilterMessage("menu feed has malformed rows").Len())
	loaded := logs.FilterMessage("menu loaded").All()
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(2), loaded[0].ContextMap()["items"])
}

func TestLoaderDegradesToEmptyOnFetchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	l := NewLoader(staticFetcher("", boom))

	col, err := l.Load(context.Background(), Source{Language: "Marathi"})
	require.ErrorIs(t, err, boom)
	assert.NotNil(t, col.Items)
	assert.Equal(t, 0, col.Len())
	assert.Equal(t, "Marathi", col.Language)
}

func TestLoaderEmptyFeed(t *testing.T) {
	t.Parallel()

	col, err := NewLoader(staticFetcher("", nil)).Load(context.Background(), Source{Language: "Gujarati"})
	require.NoError(t, err)
	assert.NotNil(t, col.Items)
	assert.Equal(t, 0, col.Len())
}

func TestLoaderDiscardsResultAfterCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	fetcher := FetcherFunc(func(context.Context, string) (string, error) {
		cancel()
		return loaderFeed, nil
	})

	col, err := NewLoader(fetcher).Load(ctx, Source{Language: "Gujarati"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, col.Len())
}

func TestLoaderWithoutFetcher(t *testing.T) {
	t.Parallel()

	_, err := NewLoader(nil).Load(context.Background(), Source{Language: "Gujarati"})
	require.Error(t, err)
}
