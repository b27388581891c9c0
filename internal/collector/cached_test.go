package collector

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FibSentinel/internal/logger"
	"FibSentinel/internal/model"
	"FibSentinel/internal/store"
)

type countingFetcher struct {
	MockFetcher
	calls int
}

func (c *countingFetcher) FetchDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	c.calls++
	return c.MockFetcher.FetchDailyCandles(ctx, symbol, days)
}

func newCachedFixture(t *testing.T) (*CachingFetcher, *countingFetcher, *time.Time) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	next := &countingFetcher{MockFetcher: MockFetcher{Price: 100, Candles: []model.Candle{bar(1, 101), bar(2, 102)}}}
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	c := NewCachingFetcher(next, s, 6*time.Hour, logger.Nop())
	c.Now = func() time.Time { return now }
	return c, next, &now
}

func TestCachingFetcher_ServesFreshBatch(t *testing.T) {
	c, next, _ := newCachedFixture(t)
	ctx := context.Background()

	first, err := c.FetchDailyCandles(ctx, "TCS.NS", 365)
	require.NoError(t, err)
	second, err := c.FetchDailyCandles(ctx, "TCS.NS", 365)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
}

func TestCachingFetcher_RefetchesWhenStale(t *testing.T) {
	c, next, now := newCachedFixture(t)
	ctx := context.Background()

	_, err := c.FetchDailyCandles(ctx, "TCS.NS", 365)
	require.NoError(t, err)
	*now = now.Add(7 * time.Hour)
	_, err = c.FetchDailyCandles(ctx, "TCS.NS", 365)
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestCachingFetcher_WindowChangeMisses(t *testing.T) {
	c, next, _ := newCachedFixture(t)
	ctx := context.Background()

	_, err := c.FetchDailyCandles(ctx, "TCS.NS", 365)
	require.NoError(t, err)
	_, err = c.FetchDailyCandles(ctx, "TCS.NS", 90)
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestCachingFetcher_PricePassesThrough(t *testing.T) {
	c := NewCachingFetcher(&MockFetcher{Price: 55}, store.NewNoopStore(), time.Hour, logger.Nop())
	price, err := c.FetchCurrentPrice(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.Equal(t, 55.0, price)
}

func TestChain(t *testing.T) {
	base := &MockFetcher{Price: 10}

	plain := Chain(base, 2, nil, time.Hour, logger.Nop())
	assert.IsType(t, &RetryFetcher{}, plain)

	cached := Chain(base, 2, store.NewNoopStore(), time.Hour, logger.Nop())
	require.IsType(t, &CachingFetcher{}, cached)
	assert.Equal(t, "mock", cached.Name())
}
