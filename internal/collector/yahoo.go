package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"FibSentinel/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: defaultYahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		Now:     time.Now,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) get(ctx context.Context, symbol string, query url.Values) ([]byte, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(symbol), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("yahoo", resp.StatusCode, body)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("yahoo: invalid json")
	}
	if desc := gjson.GetBytes(body, "chart.error.description"); desc.Exists() && desc.Type != gjson.Null {
		return nil, fmt.Errorf("yahoo api error: %s", desc.String())
	}
	return body, nil
}

// FetchDailyCandles returns daily candles covering the last `days` calendar days.
// Bars with a null field (holidays, halted sessions) are dropped.
func (f *YahooFetcher) FetchDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	now := f.Now()
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprint(now.AddDate(0, 0, -days).Unix()))
	q.Set("period2", fmt.Sprint(now.Unix()))

	body, err := f.get(ctx, symbol, q)
	if err != nil {
		return nil, err
	}
	candles := parseYahooChart(body)
	if len(candles) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	return candles, nil
}

// FetchCurrentPrice reads regularMarketPrice from the chart metadata.
func (f *YahooFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "1d")

	body, err := f.get(ctx, symbol, q)
	if err != nil {
		return 0, err
	}
	price := gjson.GetBytes(body, "chart.result.0.meta.regularMarketPrice").Float()
	if price <= 0 {
		return 0, fmt.Errorf("yahoo %s: %w", symbol, ErrNoPrice)
	}
	return price, nil
}

func parseYahooChart(body []byte) []model.Candle {
	result := gjson.GetBytes(body, "chart.result.0")
	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	candles := make([]model.Candle, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(opens) || i >= len(highs) || i >= len(lows) || i >= len(closes) {
			break
		}
		if isNull(opens[i]) || isNull(highs[i]) || isNull(lows[i]) || isNull(closes[i]) {
			continue
		}
		var vol float64
		if i < len(volumes) {
			vol = volumes[i].Float()
		}
		candles = append(candles, model.Candle{
			Time:   time.Unix(ts.Int(), 0).UTC(),
			Open:   opens[i].Float(),
			High:   highs[i].Float(),
			Low:    lows[i].Float(),
			Close:  closes[i].Float(),
			Volume: vol,
		})
	}
	return candles
}

func isNull(r gjson.Result) bool {
	return r.Type == gjson.Null
}
