package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FibSentinel/internal/model"
)

func TestCalculateSMA(t *testing.T) {
	avg, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 1e-9)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestCalculateSMASeries_ShortSeries(t *testing.T) {
	candles := seriesFromCloses([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	points, err := CalculateSMASeries(candles, DefaultSMAPeriod)
	require.ErrorIs(t, err, ErrInsufficientHistory)
	assert.Empty(t, points)
	assert.Empty(t, DetectSMASignals(candles, points, DefaultSMAPeriod))
}

func TestCalculateSMASeries_AlignedToWindowEnd(t *testing.T) {
	candles := seriesFromCloses([]float64{2, 4, 6, 8, 10})
	points, err := CalculateSMASeries(candles, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)

	want := []float64{4, 6, 8}
	for i, p := range points {
		assert.InDelta(t, want[i], p.Value, 1e-9)
		assert.Equal(t, candles[i+2].Time, p.Time)
	}
}

func TestDetectSMASignals_BuyCross(t *testing.T) {
	// sma(3): 10, 9.667, 10.333 -> bar 4 closes back above its average.
	candles := seriesFromCloses([]float64{10, 10, 10, 9, 12})
	points, err := CalculateSMASeries(candles, 3)
	require.NoError(t, err)

	signals := DetectSMASignals(candles, points, 3)
	require.Len(t, signals, 1)
	assert.Equal(t, model.SignalBuy, signals[0].Type)
	assert.Equal(t, candles[4].Time, signals[0].Time)
	assert.InDelta(t, 12.0, signals[0].Price, 1e-9)
}

func TestDetectSMASignals_SellCross(t *testing.T) {
	candles := seriesFromCloses([]float64{10, 10, 10, 11, 8})
	points, err := CalculateSMASeries(candles, 3)
	require.NoError(t, err)

	signals := DetectSMASignals(candles, points, 3)
	require.Len(t, signals, 1)
	assert.Equal(t, model.SignalSell, signals[0].Type)
	assert.InDelta(t, 8.0, signals[0].Price, 1e-9)
}

func TestDetectSMASignals_EqualitySuppresses(t *testing.T) {
	candles := flat(30, 10)
	points, err := CalculateSMASeries(candles, DefaultSMAPeriod)
	require.NoError(t, err)
	assert.Len(t, points, 21)
	assert.Empty(t, DetectSMASignals(candles, points, DefaultSMAPeriod))
}

func TestDetectSMASignals_MonotonicRiseNeverSells(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 50 + float64(i) + 0.4*float64(i%3)
	}
	for i := 1; i < len(closes); i++ {
		require.Greater(t, closes[i], closes[i-1])
	}
	candles := seriesFromCloses(closes)
	points, err := CalculateSMASeries(candles, DefaultSMAPeriod)
	require.NoError(t, err)

	for _, s := range DetectSMASignals(candles, points, DefaultSMAPeriod) {
		assert.NotEqual(t, model.SignalSell, s.Type, "sell at %s", s.Time)
	}
}
