package strategy

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FibSentinel/internal/calculator"
	"FibSentinel/internal/model"
)

func ptr(v float64) *float64 { return &v }

func candlesFromCloses(closes []float64) []model.Candle {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Candle, len(closes))
	for i, c := range closes {
		out[i] = model.Candle{Time: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Index: i}
	}
	return out
}

// rally bottoms at bar 8 (low 59), peaks at bar 20 (high 121) and closes at 102.
func rally() []model.Candle {
	closes := make([]float64, 30)
	for i := range closes {
		switch {
		case i <= 8:
			closes[i] = 100 - 5*float64(i)
		case i <= 20:
			closes[i] = 60 + 5*float64(i-8)
		default:
			closes[i] = 120 - 2*float64(i-20)
		}
	}
	return candlesFromCloses(closes)
}

func TestAnalyze_FlatSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 10
	}
	candles := candlesFromCloses(closes)
	for i := range candles {
		candles[i].High, candles[i].Low = 10, 10
	}

	a := Analyze(candles, ptr(10), DefaultOptions())

	assert.Empty(t, a.Swings.Highs)
	assert.Empty(t, a.Swings.Lows)
	assert.Empty(t, a.SMA.Signals)
	assert.Len(t, a.SMA.Points, 21)
	require.NotNil(t, a.OverallRetracement)
	assert.Equal(t, 10.0, a.OverallRetracement.HighestHigh)
	assert.Equal(t, 10.0, a.OverallRetracement.LowestLow)
	assert.Nil(t, a.Structure)
	assert.Empty(t, a.PreviousStructures)
	assert.Equal(t, model.TradeNeutral, a.TradeReport.Type)
	assert.Nil(t, a.TradeReport.StopLoss)
	assert.Equal(t, []model.Issue{model.IssueNoStructure, model.IssueMissingInputs}, a.Issues)
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil, nil, Options{})

	assert.Nil(t, a.LastClose)
	assert.Nil(t, a.Structure)
	assert.Nil(t, a.OverallRetracement)
	assert.Nil(t, a.RSI)
	assert.Empty(t, a.SMA.Points)
	assert.Equal(t, calculator.DefaultSMAPeriod, a.SMA.Period)
	assert.Equal(t, model.TradeNeutral, a.TradeReport.Type)
	assert.Equal(t, []model.Issue{model.IssueInsufficientHistory, model.IssueMissingInputs}, a.Issues)
}

func TestAnalyze_Rally(t *testing.T) {
	a := Analyze(rally(), ptr(102.5), DefaultOptions())

	require.NotNil(t, a.Structure)
	assert.Equal(t, model.TrendBullish, a.Structure.Type)
	assert.InDelta(t, 90.0, a.Structure.Fib05, 1e-9)
	require.NotNil(t, a.RangePosition)
	assert.InDelta(t, (102.0-59.0)/62.0, *a.RangePosition, 1e-9)
	assert.Empty(t, a.Issues)

	r := a.TradeReport
	assert.Equal(t, model.TradeBuy, r.Type)
	require.NotNil(t, r.StopLoss)
	assert.InDelta(t, 59.0, *r.StopLoss, 1e-9)
	require.Len(t, r.Targets, 2)
	assert.InDelta(t, 121.0-62*0.236, r.Targets[0].Value, 1e-9)
	assert.Equal(t, "Overall Fib 0.236", r.Targets[0].Label)
	assert.InDelta(t, 121.0, r.Targets[1].Value, 1e-9)
	assert.Equal(t, "Overall Fib 0.000", r.Targets[1].Label)
	assert.Contains(t, r.Narrative, "Current Price: ₹102.50")
}

func TestAnalyze_MissingLivePrice(t *testing.T) {
	a := Analyze(rally(), nil, DefaultOptions())
	require.NotNil(t, a.Structure)
	assert.Equal(t, model.TradeNeutral, a.TradeReport.Type)
	assert.Contains(t, a.Issues, model.IssueMissingInputs)
}

func TestAnalyze_Deterministic(t *testing.T) {
	candles := rally()
	first, err := json.Marshal(Analyze(candles, ptr(101), DefaultOptions()))
	require.NoError(t, err)
	second, err := json.Marshal(Analyze(candles, ptr(101), DefaultOptions()))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	candles := rally()
	before := append([]model.Candle(nil), candles...)
	Analyze(candles, ptr(100), DefaultOptions())
	assert.Equal(t, before, candles)
}
