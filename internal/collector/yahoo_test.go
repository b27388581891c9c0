package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yahooChartJSON = `{"chart":{"result":[{
  "meta":{"symbol":"TCS.NS","regularMarketPrice":3890.5},
  "timestamp":[1717200000,1717286400,1717372800],
  "indicators":{"quote":[{
    "open":[100.0,null,102.0],
    "high":[105.0,null,106.0],
    "low":[99.0,null,101.0],
    "close":[104.0,null,105.5],
    "volume":[1000,null,1200]
  }]}
}],"error":null}}`

func newYahooServer(t *testing.T, status int, body string) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/TCS.NS", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	f.Now = func() time.Time { return time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestYahooFetcher_DropsNullBars(t *testing.T) {
	f := newYahooServer(t, http.StatusOK, yahooChartJSON)

	candles, err := f.FetchDailyCandles(context.Background(), "TCS.NS", 30)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, 104.0, candles[0].Close)
	assert.Equal(t, 105.5, candles[1].Close)
	assert.Equal(t, time.Unix(1717372800, 0).UTC(), candles[1].Time)
	assert.Equal(t, 1200.0, candles[1].Volume)
}

func TestYahooFetcher_CurrentPrice(t *testing.T) {
	f := newYahooServer(t, http.StatusOK, yahooChartJSON)

	price, err := f.FetchCurrentPrice(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.Equal(t, 3890.5, price)
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		noData  bool
		noPrice bool
	}{
		{"http status", http.StatusTooManyRequests, "slow down", false, false},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, false, false},
		{"empty result", http.StatusOK, `{"chart":{"result":[{"meta":{},"timestamp":[]}],"error":null}}`, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newYahooServer(t, tt.status, tt.body)

			_, err := f.FetchDailyCandles(context.Background(), "TCS.NS", 30)
			require.Error(t, err)
			assert.Equal(t, tt.noData, errorsIs(err, ErrNoData))

			_, err = f.FetchCurrentPrice(context.Background(), "TCS.NS")
			require.Error(t, err)
			assert.Equal(t, tt.noPrice, errorsIs(err, ErrNoPrice))
		})
	}
}
