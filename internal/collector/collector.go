package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"FibSentinel/internal/logger"
	"FibSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price    float64
	Candles  []model.Candle
	Err      error
	PriceErr error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCandles(_ context.Context, _ string, days int) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Candles != nil {
		return m.Candles, nil
	}
	return generateMockCandles(m.Price, days), nil
}

func (m *MockFetcher) FetchCurrentPrice(_ context.Context, _ string) (float64, error) {
	if m.PriceErr != nil {
		return 0, m.PriceErr
	}
	if m.Price <= 0 {
		return 0, ErrNoPrice
	}
	return m.Price, nil
}

// generateMockCandles produces a gentle sine wave around basePrice so that
// swings and structures exist.
func generateMockCandles(basePrice float64, count int) []model.Candle {
	if basePrice <= 0 {
		basePrice = 100
	}
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -count)
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/8) + float64(i-count/2)*0.0005)
		candles[i] = model.Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
			Index:  i,
		}
	}
	return candles
}

// Sanitize applies the ingestion policy: rows with a non-finite or
// non-positive price are dropped, the rest are sorted ascending, duplicate
// timestamps keep their first row, and Index is reassigned.
func Sanitize(candles []model.Candle) []model.Candle {
	out := make([]model.Candle, 0, len(candles))
	for _, c := range candles {
		if validPrice(c.Open) && validPrice(c.High) && validPrice(c.Low) && validPrice(c.Close) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := out[:0]
	for i, c := range out {
		if i > 0 && c.Time.Equal(deduped[len(deduped)-1].Time) {
			continue
		}
		deduped = append(deduped, c)
	}
	for i := range deduped {
		deduped[i].Index = i
	}
	return deduped
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Collector fetches the inputs of one analysis run.
type Collector struct {
	Fetcher Fetcher
	Days    int
	log     *logger.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, days int, log *logger.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Days: days, log: log}
}

// Collect fetches candles and the live price concurrently. A candle failure
// aborts the run; a price failure leaves CurrentPrice nil.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	g, gctx := errgroup.WithContext(ctx)

	var candles []model.Candle
	g.Go(func() error {
		var err error
		candles, err = c.Fetcher.FetchDailyCandles(gctx, symbol, c.Days)
		if err != nil {
			return fmt.Errorf("fetch daily candles: %w", err)
		}
		return nil
	})

	var price *float64
	g.Go(func() error {
		p, err := c.Fetcher.FetchCurrentPrice(gctx, symbol)
		if err != nil {
			c.log.Warnf("live price for %s unavailable: %v", symbol, err)
			return nil
		}
		price = &p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect %s: %w: %w", symbol, ErrNoData, err)
	}

	candles = Sanitize(candles)
	if len(candles) == 0 {
		return nil, fmt.Errorf("collect %s: %w", symbol, ErrNoData)
	}

	return &model.PriceSeries{
		Symbol:       symbol,
		Candles:      candles,
		CurrentPrice: price,
		FetchedAt:    time.Now().UTC(),
	}, nil
}
