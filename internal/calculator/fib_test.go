package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FibSentinel/internal/model"
)

func TestFibLevelsFor_Endpoints(t *testing.T) {
	up := FibLevelsFor(200, 100, AnchorBottom)
	assert.InDelta(t, 100.0, up["0.000"], 1e-9)
	assert.InDelta(t, 200.0, up["1.000"], 1e-9)
	assert.InDelta(t, 150.0, up["0.500"], 1e-9)
	assert.InDelta(t, 161.8, up["0.618"], 1e-9)

	down := FibLevelsFor(200, 100, AnchorTop)
	assert.InDelta(t, 200.0, down["0.000"], 1e-9)
	assert.InDelta(t, 100.0, down["1.000"], 1e-9)
	assert.InDelta(t, 138.2, down["0.618"], 1e-9)
}

func TestFibLevelsFor_Keys(t *testing.T) {
	levels := FibLevelsFor(10, 5, AnchorBottom)
	assert.Len(t, levels, 7)
	for _, k := range []string{"0.000", "0.236", "0.382", "0.500", "0.618", "0.786", "1.000"} {
		assert.Contains(t, levels, k)
	}
}

func TestFibLevelsFor_Monotonic(t *testing.T) {
	up := FibLevelsFor(87.5, 42.25, AnchorBottom)
	down := FibLevelsFor(87.5, 42.25, AnchorTop)
	for i := 1; i < len(model.FibRatios); i++ {
		prev, cur := model.FibRatios[i-1], model.FibRatios[i]
		assert.Greater(t, up.At(cur), up.At(prev))
		assert.Less(t, down.At(cur), down.At(prev))
	}
}

func TestFibLevelsFor_RangeIsAbsolute(t *testing.T) {
	// Arguments passed the wrong way round still span the same distance.
	levels := FibLevelsFor(100, 200, AnchorBottom)
	assert.InDelta(t, 200.0, levels["0.000"], 1e-9)
	assert.InDelta(t, 300.0, levels["1.000"], 1e-9)
}
