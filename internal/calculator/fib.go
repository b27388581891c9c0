package calculator

import (
	"math"

	"FibSentinel/internal/model"
)

// FibAnchor selects which end of the range the 0.000 level sits on.
type FibAnchor int

const (
	// AnchorBottom measures levels upward from the bottom.
	AnchorBottom FibAnchor = iota
	// AnchorTop measures levels downward from the top.
	AnchorTop
)

// FibLevelsFor maps a range to the canonical retracement levels.
func FibLevelsFor(top, bottom float64, anchor FibAnchor) model.FibLevels {
	rng := math.Abs(top - bottom)
	levels := make(model.FibLevels, len(model.FibRatios))
	for _, r := range model.FibRatios {
		var v float64
		if anchor == AnchorBottom {
			v = bottom + rng*r
		} else {
			v = top - rng*r
		}
		levels[model.FibKey(r)] = v
	}
	return levels
}

// anchorFor returns the anchor used for a structure's trend.
func anchorFor(t model.Trend) FibAnchor {
	if t == model.TrendBullish {
		return AnchorBottom
	}
	return AnchorTop
}
