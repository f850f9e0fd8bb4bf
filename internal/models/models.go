// Package models provides domain models for the derivatives analytics engine.
package models

import (
	"time"
)

// OptionKind represents the exercise kind of an option contract.
type OptionKind string

const (
	Call OptionKind = "CALL"
	Put  OptionKind = "PUT"
)

// StrategyKind represents the strategy classification of a position.
type StrategyKind string

const (
	StrategyCreditSpread StrategyKind = "CREDIT_SPREAD"
	StrategyDebitSpread  StrategyKind = "DEBIT_SPREAD"
	StrategySingleLeg    StrategyKind = "SINGLE_LEG"
	StrategyOther        StrategyKind = "OTHER"
)

// Leg represents a single option contract within a position.
// Quantity is signed: positive for long, negative for short.
type Leg struct {
	Underlying   float64    `json:"underlying"`
	Strike       float64    `json:"strike"`
	TimeToExpiry float64    `json:"time_to_expiry"` // years
	Rate         float64    `json:"rate"`
	Volatility   float64    `json:"volatility"`
	Kind         OptionKind `json:"kind"`
	Quantity     float64    `json:"quantity"`
}

// Position represents an open multi-leg option position.
// Positions are constructed once at the snapshot boundary and treated as
// immutable by the engine.
type Position struct {
	ID         string       `json:"id"`
	Symbol     string       `json:"symbol"`
	Sector     string       `json:"sector"`
	Strategy   StrategyKind `json:"strategy"`
	Legs       []Leg        `json:"legs"`
	MaxLoss    float64      `json:"max_loss"`
	BreakEven  float64      `json:"break_even"`
	EntryValue float64      `json:"entry_value"` // invested value in account currency
	EnteredAt  time.Time    `json:"entered_at"`
}

// Greeks holds the sensitivity set for a contract, position, or portfolio.
// Theta is per day, vega per 1 vol-point, rho per 1% rate move.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// AddWeighted accumulates another Greek set scaled by a signed quantity.
func (g *Greeks) AddWeighted(other Greeks, quantity float64) {
	g.Delta += other.Delta * quantity
	g.Gamma += other.Gamma * quantity
	g.Theta += other.Theta * quantity
	g.Vega += other.Vega * quantity
	g.Rho += other.Rho * quantity
}

// MetricsOutcome names the path that produced a PositionMetrics value, so
// neutral defaults are distinguishable from genuinely computed results.
type MetricsOutcome string

const (
	MetricsComputed MetricsOutcome = "computed"
	MetricsNoLegs   MetricsOutcome = "no_legs"
	MetricsFallback MetricsOutcome = "fallback"
)

// PositionMetrics holds the per-position analytics summary.
type PositionMetrics struct {
	TheoreticalValue  float64        `json:"theoretical_value"`
	ProbabilityProfit float64        `json:"probability_profit"`
	ExpectedValue     float64        `json:"expected_value"`
	Greeks            Greeks         `json:"greeks"`
	Outcome           MetricsOutcome `json:"outcome"`
}

// NeutralPositionMetrics returns the documented neutral default for a
// position that could not be evaluated.
func NeutralPositionMetrics(outcome MetricsOutcome) PositionMetrics {
	return PositionMetrics{
		TheoreticalValue:  0,
		ProbabilityProfit: 0.5,
		ExpectedValue:     0,
		Greeks:            Greeks{},
		Outcome:           outcome,
	}
}

// PortfolioMetrics holds portfolio-level risk metrics for one evaluation.
type PortfolioMetrics struct {
	TotalValue          float64              `json:"total_value"`
	BuyingPower         float64              `json:"buying_power"`
	MarginUsage         float64              `json:"margin_usage"`
	MaxDrawdown         float64              `json:"max_drawdown"`
	Greeks              Greeks               `json:"greeks"`
	SectorConcentration map[string]float64   `json:"sector_concentration"`
	StrategyMix         map[StrategyKind]int `json:"strategy_mix"`
	RiskScore           float64              `json:"risk_score"`
}

// AccountData holds the account-level inputs to portfolio risk scoring.
type AccountData struct {
	TotalValue  float64 `json:"total_value"`
	BuyingPower float64 `json:"buying_power"`
	MarginUsed  float64 `json:"margin_used"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// MarketTrend classifies the prevailing market direction.
type MarketTrend string

const (
	TrendBullish MarketTrend = "bullish"
	TrendBearish MarketTrend = "bearish"
	TrendNeutral MarketTrend = "neutral"
)

// MarketCondition is the minimal market snapshot consumed by the
// empty-portfolio branch of risk scoring.
type MarketCondition struct {
	VIX   float64     `json:"vix"`
	Trend MarketTrend `json:"trend"`
}

// Classify reduces VIX level and reported trend to a single classification.
// Bullish trend is discounted when volatility is elevated.
func (m MarketCondition) Classify() MarketTrend {
	switch {
	case m.Trend == TrendBullish && m.VIX < 25:
		return TrendBullish
	case m.Trend == TrendBearish || m.VIX > 30:
		return TrendBearish
	default:
		return TrendNeutral
	}
}
