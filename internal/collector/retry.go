package collector

import (
	"context"
	"errors"
	"time"

	"github.com/jpillora/backoff"

	"FibSentinel/internal/logger"
	"FibSentinel/internal/metrics"
	"FibSentinel/internal/model"
)

// RetryFetcher retries transient provider failures with exponential backoff.
// ErrNoData, ErrNoPrice and client errors other than 429 are final and
// returned immediately.
type RetryFetcher struct {
	Next     Fetcher
	Attempts int
	Min      time.Duration
	Max      time.Duration
	log      *logger.Logger
}

func NewRetryFetcher(next Fetcher, attempts int, log *logger.Logger) *RetryFetcher {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryFetcher{
		Next:     next,
		Attempts: attempts,
		Min:      500 * time.Millisecond,
		Max:      10 * time.Second,
		log:      log,
	}
}

func (r *RetryFetcher) Name() string { return r.Next.Name() }

func (r *RetryFetcher) FetchDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	var candles []model.Candle
	err := r.do(ctx, "candles", symbol, func() error {
		var err error
		candles, err = r.Next.FetchDailyCandles(ctx, symbol, days)
		return err
	})
	return candles, err
}

func (r *RetryFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	var price float64
	err := r.do(ctx, "price", symbol, func() error {
		var err error
		price, err = r.Next.FetchCurrentPrice(ctx, symbol)
		return err
	})
	return price, err
}

func (r *RetryFetcher) do(ctx context.Context, kind, symbol string, call func() error) error {
	b := &backoff.Backoff{Min: r.Min, Max: r.Max, Factor: 2, Jitter: true}

	var err error
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		err = call()
		metrics.RecordFetch(r.Next.Name(), kind, err)
		if err == nil || errors.Is(err, ErrNoData) || errors.Is(err, ErrNoPrice) || errors.Is(err, errPermanent) {
			return err
		}
		if attempt == r.Attempts {
			break
		}

		wait := b.Duration()
		r.log.Warnf("%s %s fetch for %s failed (attempt %d/%d), retrying in %v: %v",
			r.Next.Name(), kind, symbol, attempt, r.Attempts, wait, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}
