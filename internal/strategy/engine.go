package strategy

import (
	"FibSentinel/internal/calculator"
	"FibSentinel/internal/model"
)

// Options tunes the analysis windows. Zero fields fall back to defaults.
type Options struct {
	SMAPeriod     int
	SwingLookback int
	PreviousCount int
	RSIPeriod     int
	Currency      string
}

// DefaultOptions returns the daily-chart settings.
func DefaultOptions() Options {
	return Options{
		SMAPeriod:     calculator.DefaultSMAPeriod,
		SwingLookback: calculator.DefaultSwingLookback,
		PreviousCount: calculator.DefaultPreviousCount,
		RSIPeriod:     calculator.DefaultRSIPeriod,
		Currency:      "₹",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SMAPeriod <= 0 {
		o.SMAPeriod = d.SMAPeriod
	}
	if o.SwingLookback <= 0 {
		o.SwingLookback = d.SwingLookback
	}
	if o.PreviousCount <= 0 {
		o.PreviousCount = d.PreviousCount
	}
	if o.RSIPeriod <= 0 {
		o.RSIPeriod = d.RSIPeriod
	}
	if o.Currency == "" {
		o.Currency = d.Currency
	}
	return o
}

// Analyze computes every artifact for one snapshot of candles and live price.
// It is pure: the same inputs always produce the same Analysis. Conditions
// that prevent an artifact from being built are reported in Issues and the
// artifact is left nil or empty.
func Analyze(candles []model.Candle, currentPrice *float64, opts Options) *model.Analysis {
	opts = opts.withDefaults()
	a := &model.Analysis{
		CurrentPrice:       currentPrice,
		PreviousStructures: []model.MarketStructure{},
		Issues:             []model.Issue{},
	}
	if n := len(candles); n > 0 {
		c := candles[n-1].Close
		a.LastClose = &c
	}

	points, err := calculator.CalculateSMASeries(candles, opts.SMAPeriod)
	note(a, err)
	a.SMA = model.SMAResult{
		Period:  opts.SMAPeriod,
		Points:  points,
		Signals: calculator.DetectSMASignals(candles, points, opts.SMAPeriod),
	}

	a.Swings = calculator.FindSwingPoints(candles, opts.SwingLookback)

	a.Structure, err = calculator.CalculateMarketStructure(candles)
	note(a, err)
	a.PreviousStructures = calculator.FindPreviousMarketStructures(candles, opts.PreviousCount)

	a.OverallRetracement, err = calculator.CalculateOverallRetracement(candles)
	note(a, err)
	if a.OverallRetracement != nil && a.LastClose != nil {
		if pos, err := calculator.CalculateRangePosition(*a.LastClose, a.OverallRetracement.HighestHigh, a.OverallRetracement.LowestLow); err == nil {
			a.RangePosition = &pos
		}
	}

	if rsi, err := calculator.CalculateRSI(candles, opts.RSIPeriod); err == nil {
		a.RSI = &rsi
	}

	a.TradeReport, err = Recommend(RecommendInput{
		LastClose:    a.LastClose,
		CurrentPrice: currentPrice,
		Structure:    a.Structure,
		Overall:      a.OverallRetracement,
		Currency:     opts.Currency,
	})
	note(a, err)

	return a
}
