package collector

import (
	"time"

	"FibSentinel/internal/logger"
	"FibSentinel/internal/store"
)

// Chain wraps a provider fetcher with retries and, when s is non-nil, the candle cache.
func Chain(base Fetcher, retries int, s store.CandleStore, ttl time.Duration, log *logger.Logger) Fetcher {
	var f Fetcher = NewRetryFetcher(base, retries, log)
	if s != nil {
		f = NewCachingFetcher(f, s, ttl, log)
	}
	return f
}
