package strategy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"FibSentinel/internal/model"
)

// BreakoutTolerance is the fraction of the structure midpoint price must clear
// before a breakout or breakdown counts.
const BreakoutTolerance = 0.01

// ErrMissingInputs is returned when a recommendation lacks an upstream artifact.
var ErrMissingInputs = errors.New("insufficient data for recommendation")

const insufficientNarrative = "Insufficient data for a definitive analysis based on requested criteria."

// RecommendInput bundles the artifacts the synthesizer depends on.
type RecommendInput struct {
	LastClose    *float64
	CurrentPrice *float64
	Structure    *model.MarketStructure
	Overall      *model.OverallRetracement
	Currency     string
}

// Recommend turns the latest structure midpoint into a directional call.
// Stops come from the structure; targets are the overall retracement levels
// beyond the last close, nearest first. A missing input yields a neutral
// report together with ErrMissingInputs.
func Recommend(in RecommendInput) (model.TradeReport, error) {
	if in.LastClose == nil || in.CurrentPrice == nil || in.Structure == nil || in.Overall == nil {
		return model.TradeReport{
			Type:      model.TradeNeutral,
			Narrative: insufficientNarrative,
			Targets:   []model.Target{},
		}, ErrMissingInputs
	}

	last := *in.LastClose
	mid := in.Structure.Fib05
	band := mid * BreakoutTolerance
	cur := in.Currency

	r := model.TradeReport{Targets: []model.Target{}}
	var headline string

	switch {
	case last > mid && last-mid > band:
		r.Type = model.TradeBuy
		r.Trend = "Strong Bullish"
		r.Trigger = fmt.Sprintf("Buy Trigger Level: %s%.2f", cur, mid)
		stop := in.Structure.Bottom
		r.StopLoss = &stop
		r.StopLossReason = fmt.Sprintf("Place stop loss at %s%.2f. If price drops below this level after entry, the bullish market structure may be invalidated.", cur, stop)
		r.Targets = targetsBeyond(in.Overall.Levels, last, true)
		headline = "A strong buy signal has been triggered. The price has moved above key resistance."

	case last < mid && mid-last > band:
		r.Type = model.TradeSell
		r.Trend = "Strong Bearish"
		r.Trigger = fmt.Sprintf("Sell Trigger Level: %s%.2f", cur, mid)
		stop := in.Structure.Top
		r.StopLoss = &stop
		r.StopLossReason = fmt.Sprintf("Place stop loss at %s%.2f. If price rises above this level after entry, the bearish market structure may be invalidated.", cur, stop)
		r.Targets = targetsBeyond(in.Overall.Levels, last, false)
		headline = "A strong sell signal has been triggered. The price has dropped below key support."

	default:
		r.Type = model.TradeNeutral
		r.Trend = "Neutral / Consolidating"
		r.Trigger = fmt.Sprintf("Key Level: %s%.2f (Market Structure Midpoint)", cur, mid)
		headline = fmt.Sprintf("The stock is consolidating around a key level. Wait for a clear breakout above or breakdown below %s%.2f before making a move.", cur, mid)
	}

	r.Narrative = narrate(r, *in.CurrentPrice, headline, cur)
	return r, nil
}

// targetsBeyond picks the levels strictly above (or below) price, nearest first.
func targetsBeyond(levels model.FibLevels, price float64, above bool) []model.Target {
	out := []model.Target{}
	for _, ratio := range model.FibRatios {
		key := model.FibKey(ratio)
		v, ok := levels[key]
		if !ok {
			continue
		}
		if (above && v > price) || (!above && v < price) {
			out = append(out, model.Target{Value: v, Label: "Overall Fib " + key})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if above {
			return out[i].Value < out[j].Value
		}
		return out[i].Value > out[j].Value
	})
	return out
}

func narrate(r model.TradeReport, price float64, headline, cur string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Trend: %s\n", r.Trend))
	b.WriteString(fmt.Sprintf("Current Price: %s%.2f\n", cur, price))
	b.WriteString(r.Trigger + "\n")
	if r.StopLoss != nil {
		b.WriteString(fmt.Sprintf("Stop Loss: %s%.2f\n", cur, *r.StopLoss))
	}
	b.WriteString("\n" + headline)
	if len(r.Targets) > 0 {
		b.WriteString("\n\nTargets:")
		for i, t := range r.Targets {
			b.WriteString(fmt.Sprintf("\nT%d: %s%.2f", i+1, cur, t.Value))
		}
	}
	return b.String()
}
