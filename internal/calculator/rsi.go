package calculator

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"

	"FibSentinel/internal/model"
)

// DefaultRSIPeriod is the Wilder RSI window reported alongside the analysis.
const DefaultRSIPeriod = 14

// CalculateRSI computes the Wilder-smoothed RSI of the closes and returns the latest value.
// Requires at least period+1 candles.
func CalculateRSI(candles []model.Candle, period int) (float64, error) {
	if period <= 1 {
		return 0, errors.New("period must be greater than 1")
	}
	if len(candles) < period+1 {
		return 0, fmt.Errorf("rsi(%d) over %d candles: %w", period, len(candles), ErrInsufficientHistory)
	}
	values := talib.Rsi(extractCloses(candles), period)
	return values[len(values)-1], nil
}
