package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOverallRetracement(t *testing.T) {
	candles := vShape()
	or, err := CalculateOverallRetracement(candles)
	require.NoError(t, err)

	assert.InDelta(t, 121.0, or.HighestHigh, 1e-9)
	assert.Equal(t, candles[20].Time, or.HighestHighTime)
	assert.InDelta(t, 59.0, or.LowestLow, 1e-9)
	assert.Equal(t, candles[8].Time, or.LowestLowTime)
	assert.InDelta(t, 90.0, or.Fib05, 1e-9)
	assert.InDelta(t, 121.0-62*0.236, or.Levels["0.236"], 1e-9)
	assert.InDelta(t, 121.0-62*0.786, or.Levels["0.786"], 1e-9)
}

func TestCalculateOverallRetracement_FirstExtremeWins(t *testing.T) {
	candles := flat(30, 10)
	or, err := CalculateOverallRetracement(candles)
	require.NoError(t, err)
	assert.Equal(t, 10.0, or.HighestHigh)
	assert.Equal(t, 10.0, or.LowestLow)
	assert.Equal(t, candles[0].Time, or.HighestHighTime)
	assert.Equal(t, candles[0].Time, or.LowestLowTime)
	for _, v := range or.Levels {
		assert.Equal(t, 10.0, v)
	}
}

func TestCalculateOverallRetracement_Empty(t *testing.T) {
	or, err := CalculateOverallRetracement(nil)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
	assert.Nil(t, or)
}

func TestCalculateRangePosition(t *testing.T) {
	tests := []struct {
		current, high, low float64
		want               float64
	}{
		{150, 200, 100, 0.5},
		{250, 200, 100, 1},
		{50, 200, 100, 0},
		{10, 10, 10, 0.5},
	}
	for _, tt := range tests {
		got, err := CalculateRangePosition(tt.current, tt.high, tt.low)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9)
	}

	_, err := CalculateRangePosition(1, 1, 2)
	assert.Error(t, err)
}

func TestCalculateRSI(t *testing.T) {
	_, err := CalculateRSI(flat(10, 5), DefaultRSIPeriod)
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, err := CalculateRSI(seriesFromCloses(closes), DefaultRSIPeriod)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, rsi, 1e-6)
}
