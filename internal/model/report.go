package model

// TradeType is the direction of a recommendation.
type TradeType string

const (
	TradeBuy     TradeType = "buy"
	TradeSell    TradeType = "sell"
	TradeNeutral TradeType = "neutral"
)

// Target is a profit objective taken from the overall retracement.
type Target struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// TradeReport is the output of the recommendation synthesizer.
type TradeReport struct {
	Type           TradeType `json:"type"`
	Trend          string    `json:"trend"`
	Trigger        string    `json:"trigger"`
	Narrative      string    `json:"narrative"`
	StopLoss       *float64  `json:"stopLoss"`
	StopLossReason string    `json:"stopLossReason,omitempty"`
	Targets        []Target  `json:"targets"`
}
