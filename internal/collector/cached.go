package collector

import (
	"context"
	"errors"
	"time"

	"FibSentinel/internal/logger"
	"FibSentinel/internal/model"
	"FibSentinel/internal/store"
)

// CachingFetcher serves daily candles from a store while they are younger
// than TTL. Live prices always go to the provider.
type CachingFetcher struct {
	Next  Fetcher
	Store store.CandleStore
	TTL   time.Duration
	Now   func() time.Time
	log   *logger.Logger
}

func NewCachingFetcher(next Fetcher, s store.CandleStore, ttl time.Duration, log *logger.Logger) *CachingFetcher {
	return &CachingFetcher{Next: next, Store: s, TTL: ttl, Now: time.Now, log: log}
}

func (c *CachingFetcher) Name() string { return c.Next.Name() }

func (c *CachingFetcher) FetchDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	batch, err := c.Store.Load(ctx, symbol)
	switch {
	case err == nil && c.fresh(batch, days):
		c.log.Debugf("candle cache hit for %s (batch %s)", symbol, batch.ID)
		return append([]model.Candle(nil), batch.Candles...), nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		c.log.Warnf("candle cache load for %s failed: %v", symbol, err)
	}

	candles, err := c.Next.FetchDailyCandles(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	saved := &store.CandleBatch{
		Symbol:    symbol,
		Provider:  c.Next.Name(),
		Days:      days,
		FetchedAt: c.Now().UTC(),
		Candles:   candles,
	}
	if err := c.Store.Save(ctx, saved); err != nil {
		c.log.Warnf("candle cache save for %s failed: %v", symbol, err)
	}
	return candles, nil
}

func (c *CachingFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	return c.Next.FetchCurrentPrice(ctx, symbol)
}

func (c *CachingFetcher) fresh(b *store.CandleBatch, days int) bool {
	return len(b.Candles) > 0 &&
		b.Provider == c.Next.Name() &&
		b.Days == days &&
		b.Age(c.Now()) < c.TTL
}
