package store

import (
	"context"
	"errors"
	"time"

	"FibSentinel/internal/model"
)

// ErrNotFound is returned when no cached batch exists for a symbol.
var ErrNotFound = errors.New("no cached candles")

// CandleBatch is one provider response of daily candles, cached verbatim.
type CandleBatch struct {
	ID        string
	Symbol    string
	Provider  string
	Days      int
	FetchedAt time.Time
	Candles   []model.Candle
}

// Age reports how old the batch is relative to now.
func (b *CandleBatch) Age(now time.Time) time.Duration {
	return now.Sub(b.FetchedAt)
}

// CandleStore caches fetched candle history. It never holds computed indicators.
type CandleStore interface {
	Load(ctx context.Context, symbol string) (*CandleBatch, error)
	Save(ctx context.Context, batch *CandleBatch) error
	Close() error
}
