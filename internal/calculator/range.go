package calculator

import (
	"errors"
	"fmt"
	"math"

	"FibSentinel/internal/model"
)

// CalculateOverallRetracement scans the whole series for its highest high and
// lowest low and measures the retracement down from the high.
func CalculateOverallRetracement(candles []model.Candle) (*model.OverallRetracement, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("overall retracement: %w", ErrInsufficientHistory)
	}

	out := &model.OverallRetracement{HighestHigh: math.Inf(-1), LowestLow: math.Inf(1)}
	for _, c := range candles {
		if c.High > out.HighestHigh {
			out.HighestHigh = c.High
			out.HighestHighTime = c.Time
		}
		if c.Low < out.LowestLow {
			out.LowestLow = c.Low
			out.LowestLowTime = c.Time
		}
	}

	out.Levels = FibLevelsFor(out.HighestHigh, out.LowestLow, AnchorTop)
	out.Fib05 = out.Levels.At(0.5)
	return out, nil
}

// CalculateRangePosition returns where price sits within [low, high] (0.0~1.0).
func CalculateRangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
