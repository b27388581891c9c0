package calculator

import (
	"time"

	"FibSentinel/internal/model"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// seriesFromCloses builds daily candles with a one-point wick on each side.
func seriesFromCloses(closes []float64) []model.Candle {
	out := make([]model.Candle, len(closes))
	for i, c := range closes {
		out[i] = model.Candle{
			Time:  day0.AddDate(0, 0, i),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
			Index: i,
		}
	}
	return out
}

// vShape falls to a low at bar 8, rallies to a high at bar 20 and fades to bar 29.
func vShape() []model.Candle {
	closes := make([]float64, 30)
	for i := range closes {
		switch {
		case i <= 8:
			closes[i] = 100 - 5*float64(i)
		case i <= 20:
			closes[i] = 60 + 5*float64(i-8)
		default:
			closes[i] = 120 - 2*float64(i-20)
		}
	}
	return seriesFromCloses(closes)
}

// zigzag is a triangle wave: troughs every 20 bars starting at 0, peaks at 10, 30, ...
func zigzag(n int) []model.Candle {
	closes := make([]float64, n)
	for i := range closes {
		f := i % 20
		v := f
		if f > 10 {
			v = 20 - f
		}
		closes[i] = 100 + 3*float64(v)
	}
	return seriesFromCloses(closes)
}

func flat(n int, price float64) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		out[i] = model.Candle{Time: day0.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price, Index: i}
	}
	return out
}
