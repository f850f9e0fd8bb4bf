package engine

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

const (
	// DefaultSimulations is the terminal-price sample size per estimate.
	DefaultSimulations = 5000

	// DefaultSeed keeps repeated estimates with identical inputs
	// bit-for-bit identical. Reproducibility is part of the contract,
	// not a tuning knob.
	DefaultSeed = 42

	// NeutralPOP is returned when a position gives the estimator nothing
	// to reason about.
	NeutralPOP = 0.5
)

// Estimator computes probability-of-profit estimates by simulating terminal
// underlying prices under geometric Brownian motion. Each call builds its own
// random source from the configured seed, so concurrent estimates never share
// RNG state.
type Estimator struct {
	Simulations int
	Seed        int64

	// DefaultRate substitutes for legs that carry no rate of their own.
	// Zero selects DefaultRiskFreeRate.
	DefaultRate float64

	logger zerolog.Logger
}

// NewEstimator creates an estimator. A non-positive simulation count selects
// the default; the seed is used exactly as given, so the full seed domain
// stays addressable (callers wanting the stock seed pass DefaultSeed).
func NewEstimator(simulations int, seed int64, logger zerolog.Logger) *Estimator {
	if simulations <= 0 {
		simulations = DefaultSimulations
	}
	return &Estimator{
		Simulations: simulations,
		Seed:        seed,
		logger:      logger,
	}
}

func (e *Estimator) defaultRate() float64 {
	if e.DefaultRate > 0 {
		return e.DefaultRate
	}
	return DefaultRiskFreeRate
}

// TerminalPrices simulates S_T = S * exp((r - sigma^2/2)T + sigma*sqrt(T)*Z)
// for the configured number of draws.
func (e *Estimator) TerminalPrices(spot, expiry, vol, rate float64) []float64 {
	t := math.Max(expiry, clampEpsilon)
	sigma := math.Max(vol, clampEpsilon)

	rng := rand.New(rand.NewSource(e.Seed))
	drift := (rate - 0.5*sigma*sigma) * t
	diffusion := sigma * math.Sqrt(t)

	prices := make([]float64, e.Simulations)
	for i := range prices {
		prices[i] = spot * math.Exp(drift+diffusion*rng.NormFloat64())
	}
	return prices
}

// ProbAbove estimates P(S_T > level).
func (e *Estimator) ProbAbove(spot, level, expiry, vol, rate float64) float64 {
	return probAbove(e.TerminalPrices(spot, expiry, vol, rate), level)
}

func probAbove(prices []float64, level float64) float64 {
	if len(prices) == 0 {
		return NeutralPOP
	}
	count := 0
	for _, p := range prices {
		if p > level {
			count++
		}
	}
	return float64(count) / float64(len(prices))
}

// PositionPOP estimates the probability of profit for a position.
//
// Credit spreads profit when the terminal price stays between the short and
// long strikes. Single-leg and debit positions profit when the terminal
// price clears the break-even in the position's direction. A position the
// estimator cannot reason about degrades to NeutralPOP with a log entry.
func (e *Estimator) PositionPOP(pos models.Position) float64 {
	if len(pos.Legs) == 0 {
		e.logger.Warn().Str("position", pos.ID).Msg("Position has no legs, returning neutral POP")
		return NeutralPOP
	}

	first := pos.Legs[0]
	rate := first.Rate
	if rate == 0 {
		rate = e.defaultRate()
	}

	switch pos.Strategy {
	case models.StrategyCreditSpread:
		if len(pos.Legs) < 2 {
			e.logger.Warn().Str("position", pos.ID).Msg("Credit spread requires at least two strikes, returning neutral POP")
			return NeutralPOP
		}
		// Leg order convention: short strike first, long strike second.
		shortStrike := pos.Legs[0].Strike
		longStrike := pos.Legs[1].Strike

		// Both strikes are evaluated against the same sample so the
		// between-strikes probability is internally consistent.
		prices := e.TerminalPrices(first.Underlying, first.TimeToExpiry, first.Volatility, rate)
		pAboveShort := probAbove(prices, shortStrike)
		pAboveLong := probAbove(prices, longStrike)

		pop := 1.0 - (pAboveShort + (1 - pAboveLong))
		return clamp01(pop)

	default:
		pop := e.ProbAbove(first.Underlying, pos.BreakEven, first.TimeToExpiry, first.Volatility, rate)
		if bearish(pos) {
			pop = 1 - pop
		}
		return clamp01(pop)
	}
}

// bearish reports whether a single-leg or debit position profits from the
// underlying falling: its first long leg is a put.
func bearish(pos models.Position) bool {
	for _, leg := range pos.Legs {
		if leg.Quantity > 0 {
			return leg.Kind == models.Put
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
