package model

import (
	"strconv"
	"time"
)

// SignalType is the direction of an SMA crossover.
type SignalType string

const (
	SignalBuy  SignalType = "Buy"
	SignalSell SignalType = "Sell"
)

// AveragePoint is one SMA value aligned to the last candle of its window.
type AveragePoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Signal is a price/SMA crossover event.
type Signal struct {
	Time  time.Time  `json:"time"`
	Type  SignalType `json:"type"`
	Price float64    `json:"price"`
}

// SMAResult groups the moving average series and its crossovers.
type SMAResult struct {
	Period  int            `json:"period"`
	Points  []AveragePoint `json:"points"`
	Signals []Signal       `json:"signals"`
}

// SwingPoint is a local extremum.
type SwingPoint struct {
	Price float64   `json:"price"`
	Time  time.Time `json:"time"`
	Index int       `json:"index"`
}

// SwingSet is the output of swing detection.
type SwingSet struct {
	Highs      []SwingPoint `json:"highs"`
	Lows       []SwingPoint `json:"lows"`
	LatestHigh *SwingPoint  `json:"latestHigh"`
	LatestLow  *SwingPoint  `json:"latestLow"`
}

// FibRatios are the canonical retracement ratios, in ascending order.
var FibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

// FibKey formats a ratio as the fixed 3-decimal level key.
func FibKey(ratio float64) string {
	return strconv.FormatFloat(ratio, 'f', 3, 64)
}

// FibLevels maps a level key ("0.000" .. "1.000") to a price.
type FibLevels map[string]float64

// At returns the price for a ratio.
func (l FibLevels) At(ratio float64) float64 {
	return l[FibKey(ratio)]
}

// Trend is the direction of a market structure.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
)

// Breakout describes where the last close sits relative to the 0.5 level.
type Breakout string

const (
	BreakoutAbove Breakout = "above 0.5"
	BreakoutBelow Breakout = "below 0.5"
)

// MarketStructure is the move defined by the latest swing high and low.
type MarketStructure struct {
	Type       Trend     `json:"type"`
	Top        float64   `json:"top"`
	Bottom     float64   `json:"bottom"`
	Fib05      float64   `json:"fib0_5"`
	Breakout   Breakout  `json:"breakout"`
	Levels     FibLevels `json:"levels"`
	StartIndex int       `json:"startIndex"`
	EndIndex   int       `json:"endIndex"`
	Time       time.Time `json:"time"`
}

// OverallRetracement is the Fibonacci retracement of the whole series range.
type OverallRetracement struct {
	HighestHigh     float64   `json:"highestHigh"`
	HighestHighTime time.Time `json:"highestHighTime"`
	LowestLow       float64   `json:"lowestLow"`
	LowestLowTime   time.Time `json:"lowestLowTime"`
	Fib05           float64   `json:"fib0_5"`
	Levels          FibLevels `json:"levels"`
}

// Issue flags a recoverable condition met during analysis.
type Issue string

const (
	IssueInsufficientHistory Issue = "INSUFFICIENT_HISTORY"
	IssueNoStructure         Issue = "NO_STRUCTURE"
	IssueMissingInputs       Issue = "MISSING_INPUTS"
)

// Analysis carries every artifact computed for one instrument snapshot.
type Analysis struct {
	CurrentPrice       *float64            `json:"currentPrice"`
	LastClose          *float64            `json:"lastClose"`
	SMA                SMAResult           `json:"sma"`
	Swings             SwingSet            `json:"swings"`
	Structure          *MarketStructure    `json:"structure"`
	PreviousStructures []MarketStructure   `json:"previousStructures"`
	OverallRetracement *OverallRetracement `json:"overallRetracement"`
	RangePosition      *float64            `json:"rangePosition"`
	RSI                *float64            `json:"rsi"`
	TradeReport        TradeReport         `json:"tradeReport"`
	Issues             []Issue             `json:"issues"`
}

// LatestSignal returns the most recent SMA crossover, if any.
func (a *Analysis) LatestSignal() *Signal {
	if a == nil || len(a.SMA.Signals) == 0 {
		return nil
	}
	s := a.SMA.Signals[len(a.SMA.Signals)-1]
	return &s
}
