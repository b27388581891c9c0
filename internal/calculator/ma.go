package calculator

import (
	"errors"
	"fmt"

	"FibSentinel/internal/model"
)

// DefaultSMAPeriod is the trailing window used for the daily moving average.
const DefaultSMAPeriod = 10

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("sma(%d) over %d prices: %w", period, len(prices), ErrInsufficientHistory)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateSMASeries returns one average point per full window of closes,
// stamped with the time of the window's last candle. A series shorter than
// period yields an empty result and ErrInsufficientHistory.
func CalculateSMASeries(candles []model.Candle, period int) ([]model.AveragePoint, error) {
	if period <= 0 {
		return []model.AveragePoint{}, errors.New("period must be positive")
	}
	if len(candles) < period {
		return []model.AveragePoint{}, fmt.Errorf("sma(%d) over %d candles: %w", period, len(candles), ErrInsufficientHistory)
	}
	closes := extractCloses(candles)
	points := make([]model.AveragePoint, 0, len(candles)-period+1)
	for i := period - 1; i < len(candles); i++ {
		avg, err := CalculateSMA(closes[i-period+1:i+1], period)
		if err != nil {
			return []model.AveragePoint{}, err
		}
		points = append(points, model.AveragePoint{Time: candles[i].Time, Value: avg})
	}
	return points, nil
}

// DetectSMASignals reports strict crossovers of close over its moving average.
// Average point i belongs to candle i+period-1; a touch on either bar is not a cross.
func DetectSMASignals(candles []model.Candle, sma []model.AveragePoint, period int) []model.Signal {
	signals := []model.Signal{}
	for i := 1; i < len(sma); i++ {
		priceIndex := i + period - 1
		prevPriceIndex := priceIndex - 1
		if prevPriceIndex < 0 || priceIndex >= len(candles) {
			continue
		}
		prev, cur := candles[prevPriceIndex].Close, candles[priceIndex].Close

		switch {
		case prev < sma[i-1].Value && cur > sma[i].Value:
			signals = append(signals, model.Signal{Time: candles[priceIndex].Time, Type: model.SignalBuy, Price: cur})
		case prev > sma[i-1].Value && cur < sma[i].Value:
			signals = append(signals, model.Signal{Time: candles[priceIndex].Time, Type: model.SignalSell, Price: cur})
		}
	}
	return signals
}

func extractCloses(candles []model.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
