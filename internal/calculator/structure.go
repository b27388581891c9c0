package calculator

import (
	"fmt"

	"FibSentinel/internal/model"
)

const (
	// StructureLookback is the swing window used for market structure.
	StructureLookback = 5
	// DefaultPreviousCount bounds the historical structure walk.
	DefaultPreviousCount = 10
)

// CalculateMarketStructure builds the structure defined by the latest swing
// high and swing low in candles.
func CalculateMarketStructure(candles []model.Candle) (*model.MarketStructure, error) {
	if len(candles) < 2*StructureLookback+1 {
		return nil, fmt.Errorf("market structure over %d candles: %w", len(candles), ErrInsufficientHistory)
	}

	swings := FindSwingPoints(candles, StructureLookback)
	high, low := swings.LatestHigh, swings.LatestLow
	if high == nil || low == nil {
		return nil, ErrNoStructure
	}

	trend := model.TrendBearish
	if high.Time.After(low.Time) {
		trend = model.TrendBullish
	}
	top, bottom := high.Price, low.Price

	// Keep the range positive for the level formula.
	if top < bottom {
		top, bottom = bottom, top
		trend = flip(trend)
	}

	levels := FibLevelsFor(top, bottom, anchorFor(trend))
	fib05 := levels.At(0.5)

	last := candles[len(candles)-1]
	breakout := model.BreakoutBelow
	if last.Close > fib05 {
		breakout = model.BreakoutAbove
	}

	return &model.MarketStructure{
		Type:       trend,
		Top:        top,
		Bottom:     bottom,
		Fib05:      fib05,
		Breakout:   breakout,
		Levels:     levels,
		StartIndex: min(high.Index, low.Index),
		EndIndex:   len(candles) - 1,
		Time:       last.Time,
	}, nil
}

// FindPreviousMarketStructures walks history backwards. Each step recomputes
// the structure on the candles strictly before the previous structure's
// start, so the chain never overlaps. The current structure counts toward
// count but is not returned; results are most recent first.
func FindPreviousMarketStructures(candles []model.Candle, count int) []model.MarketStructure {
	out := []model.MarketStructure{}
	if count <= 0 {
		return out
	}

	current, err := CalculateMarketStructure(candles)
	if err != nil {
		return out
	}

	chain := []model.MarketStructure{*current}
	window := candles
	for len(chain) < count {
		start := current.StartIndex
		if start <= 2*StructureLookback {
			break
		}
		window = window[:start]

		prev, err := CalculateMarketStructure(window)
		if err != nil {
			break
		}
		chain = append(chain, *prev)
		current = prev
	}

	return append(out, chain[1:]...)
}

func flip(t model.Trend) model.Trend {
	if t == model.TrendBullish {
		return model.TrendBearish
	}
	return model.TrendBullish
}
