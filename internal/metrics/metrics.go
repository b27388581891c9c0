package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibsentinel_analysis_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"symbol", "status"}, // status: success|error
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fibsentinel_analysis_duration_seconds",
			Help:    "Time from fetch start to finished report",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	FetchCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibsentinel_fetch_calls_total",
			Help: "Provider calls by kind (candles|price)",
		},
		[]string{"provider", "kind", "status"},
	)

	TradeReports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibsentinel_trade_reports_total",
			Help: "Trade reports produced by type",
		},
		[]string{"type"}, // buy|sell|neutral
	)
)

var registerOnce sync.Once

// Init registers all metrics with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(AnalysisRuns)
		prometheus.MustRegister(AnalysisDuration)
		prometheus.MustRegister(FetchCalls)
		prometheus.MustRegister(TradeReports)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAnalysis records one finished analysis run.
func RecordAnalysis(symbol string, duration time.Duration, tradeType string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AnalysisRuns.WithLabelValues(symbol, status).Inc()
	AnalysisDuration.Observe(duration.Seconds())
	if err == nil && tradeType != "" {
		TradeReports.WithLabelValues(tradeType).Inc()
	}
}

// RecordFetch records a single provider call.
func RecordFetch(provider, kind string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	FetchCalls.WithLabelValues(provider, kind, status).Inc()
}
