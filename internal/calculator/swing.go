package calculator

import "FibSentinel/internal/model"

// DefaultSwingLookback is the number of bars on each side a swing must dominate.
const DefaultSwingLookback = 5

// FindSwingPoints scans for swing highs and lows. A candle qualifies only if
// it strictly beats every candle within lookback bars on both sides, so the
// first and last lookback candles can never be swings.
func FindSwingPoints(candles []model.Candle, lookback int) model.SwingSet {
	if lookback < 1 {
		lookback = 1
	}
	set := model.SwingSet{Highs: []model.SwingPoint{}, Lows: []model.SwingPoint{}}

	for i := lookback; i < len(candles)-lookback; i++ {
		if isSwingHigh(candles, i, lookback) {
			set.Highs = append(set.Highs, model.SwingPoint{Price: candles[i].High, Time: candles[i].Time, Index: i})
		}
		if isSwingLow(candles, i, lookback) {
			set.Lows = append(set.Lows, model.SwingPoint{Price: candles[i].Low, Time: candles[i].Time, Index: i})
		}
	}

	if n := len(set.Highs); n > 0 {
		h := set.Highs[n-1]
		set.LatestHigh = &h
	}
	if n := len(set.Lows); n > 0 {
		l := set.Lows[n-1]
		set.LatestLow = &l
	}
	return set
}

func isSwingHigh(candles []model.Candle, i, lookback int) bool {
	h := candles[i].High
	for j := 1; j <= lookback; j++ {
		if candles[i-j].High >= h || candles[i+j].High >= h {
			return false
		}
	}
	return true
}

func isSwingLow(candles []model.Candle, i, lookback int) bool {
	l := candles[i].Low
	for j := 1; j <= lookback; j++ {
		if candles[i-j].Low <= l || candles[i+j].Low <= l {
			return false
		}
	}
	return true
}
