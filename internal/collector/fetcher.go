package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"FibSentinel/internal/model"
)

var (
	// ErrNoData means the provider returned no usable candles.
	ErrNoData = errors.New("no candle data")
	// ErrNoPrice means the live quote is missing or zero.
	ErrNoPrice = errors.New("no live price")

	// errPermanent marks provider rejections that a retry cannot fix.
	errPermanent = errors.New("permanent provider error")
)

// statusError describes a non-200 provider response. Client errors other
// than 429 are permanent.
func statusError(provider string, code int, body []byte) error {
	if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return fmt.Errorf("%s: status %d, body: %s: %w", provider, code, string(body), errPermanent)
	}
	return fmt.Errorf("%s: status %d, body: %s", provider, code, string(body))
}

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error)
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// NewFetcher builds the provider-specific fetcher named by provider.
func NewFetcher(provider, baseURL, apiKey, proxyURL string) (Fetcher, error) {
	switch provider {
	case "yahoo":
		f := NewYahooFetcher(proxyURL)
		if baseURL != "" {
			f.BaseURL = baseURL
		}
		return f, nil
	case "fmp":
		return NewFMPFetcher(baseURL, apiKey, proxyURL), nil
	case "mock":
		return &MockFetcher{Price: 100}, nil
	}
	return nil, fmt.Errorf("unknown data provider %q", provider)
}
