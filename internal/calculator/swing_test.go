package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FibSentinel/internal/model"
)

func TestFindSwingPoints_Peak(t *testing.T) {
	candles := seriesFromCloses([]float64{1, 2, 3, 4, 5, 6, 5, 4, 3, 2, 1})
	set := FindSwingPoints(candles, 5)

	require.Len(t, set.Highs, 1)
	assert.Equal(t, 5, set.Highs[0].Index)
	assert.InDelta(t, 7.0, set.Highs[0].Price, 1e-9)
	require.NotNil(t, set.LatestHigh)
	assert.Equal(t, set.Highs[0], *set.LatestHigh)
	assert.Empty(t, set.Lows)
	assert.Nil(t, set.LatestLow)
}

func TestFindSwingPoints_TiesDisqualify(t *testing.T) {
	candles := seriesFromCloses([]float64{1, 2, 3, 4, 5, 6, 6, 4, 3, 2, 1, 0})
	set := FindSwingPoints(candles, 5)
	assert.Empty(t, set.Highs)
}

func TestFindSwingPoints_EdgesNeverQualify(t *testing.T) {
	// The global high and low sit inside the first and last lookback bars.
	candles := seriesFromCloses([]float64{9, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 1})
	set := FindSwingPoints(candles, 5)
	assert.Empty(t, set.Highs)
	assert.Empty(t, set.Lows)
}

func TestFindSwingPoints_FlatSeries(t *testing.T) {
	set := FindSwingPoints(flat(30, 10), DefaultSwingLookback)
	assert.Empty(t, set.Highs)
	assert.Empty(t, set.Lows)
}

func TestFindSwingPoints_LargerLookbackFindsFewer(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		x := float64(i)
		closes[i] = 100 + 10*math.Sin(x/7) + 4*math.Sin(x/2.3) + 1.5*math.Cos(x*1.7)
	}
	candles := seriesFromCloses(closes)

	prev := math.MaxInt
	for lb := 1; lb <= 8; lb++ {
		set := FindSwingPoints(candles, lb)
		n := len(set.Highs) + len(set.Lows)
		assert.LessOrEqual(t, n, prev, "lookback %d", lb)
		prev = n
	}
}

func TestFindSwingPoints_VShape(t *testing.T) {
	set := FindSwingPoints(vShape(), StructureLookback)
	require.Len(t, set.Lows, 1)
	require.Len(t, set.Highs, 1)
	assert.Equal(t, 8, set.LatestLow.Index)
	assert.Equal(t, 20, set.LatestHigh.Index)
	assert.Equal(t, model.SwingPoint{Price: 59, Time: day0.AddDate(0, 0, 8), Index: 8}, *set.LatestLow)
}
