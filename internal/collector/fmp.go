package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"FibSentinel/internal/model"
)

// FMPFetcher implements Fetcher using the financialmodelingprep REST API.
type FMPFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Now     func() time.Time
}

// NewFMPFetcher creates a new fetcher with optional proxy support.
func NewFMPFetcher(baseURL, apiKey, proxyURL string) *FMPFetcher {
	return &FMPFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
		Now:     time.Now,
	}
}

func (f *FMPFetcher) Name() string { return "fmp" }

type fmpBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type fmpQuote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func (f *FMPFetcher) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	query.Set("apikey", f.APIKey)
	endpoint := fmt.Sprintf("%s%s?%s", f.BaseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fmp fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return statusError("fmp", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("fmp decode: %w", err)
	}
	return nil
}

// FetchDailyCandles returns candles from `days` calendar days ago until today.
// The API lists newest first, so the result is reversed.
func (f *FMPFetcher) FetchDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	now := f.Now()
	q := url.Values{}
	q.Set("from", now.AddDate(0, 0, -days).Format("2006-01-02"))
	q.Set("to", now.Format("2006-01-02"))

	var bars []fmpBar
	if err := f.getJSON(ctx, "/api/v3/historical-chart/1day/"+url.PathEscape(symbol), q, &bars); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fmp %s: %w", symbol, ErrNoData)
	}

	candles := make([]model.Candle, 0, len(bars))
	for i := len(bars) - 1; i >= 0; i-- {
		b := bars[i]
		t, err := parseFMPDate(b.Date)
		if err != nil {
			continue
		}
		candles = append(candles, model.Candle{
			Time:   t,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return candles, nil
}

func (f *FMPFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	var quotes []fmpQuote
	if err := f.getJSON(ctx, "/api/v3/quote/"+url.PathEscape(symbol), url.Values{}, &quotes); err != nil {
		return 0, err
	}
	if len(quotes) == 0 || quotes[0].Price <= 0 {
		return 0, fmt.Errorf("fmp %s: %w", symbol, ErrNoPrice)
	}
	return quotes[0].Price, nil
}

// parseFMPDate keeps only the calendar day; FMP sends "2006-01-02 15:04:05".
func parseFMPDate(s string) (time.Time, error) {
	if len(s) > 10 {
		s = s[:10]
	}
	return time.Parse("2006-01-02", s)
}
