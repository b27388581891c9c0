package model

import "time"

// Candle represents a single daily OHLC bar. Index is the candle's position
// in the series it belongs to.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	Index  int       `json:"index"`
}

// PriceSeries holds raw price data for one instrument snapshot.
type PriceSeries struct {
	Symbol       string
	Candles      []Candle
	CurrentPrice *float64 // nil when the live quote is unavailable
	FetchedAt    time.Time
}

// LastClose returns the close of the most recent candle.
func (s *PriceSeries) LastClose() (float64, bool) {
	if s == nil || len(s.Candles) == 0 {
		return 0, false
	}
	return s.Candles[len(s.Candles)-1].Close, true
}
