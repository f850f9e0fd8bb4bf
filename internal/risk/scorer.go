// Package risk provides portfolio-level risk scoring, automated threshold
// alerts, and combined risk assessments.
package risk

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/seanpizarro/antigravity-trading-system/internal/engine"
	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

// Thresholds holds the risk limits driving the composite score and the
// automated alert triggers. The values are heuristic policy constants, not
// derived from a stated model, so they stay configurable.
type Thresholds struct {
	BuyingPowerUsage      float64
	MarginUsage           float64
	MaxDrawdown           float64
	SectorConcentration   float64
	PositionConcentration float64
	PortfolioDelta        float64
	PortfolioGamma        float64
	PortfolioVega         float64
	MaxOpenPositions      int

	// Concentration-only assessment bucketing.
	ConcentrationConcernPct float64
	CriticalTier            float64
	HighTier                float64
	ModerateTier            float64
}

// DefaultThresholds returns the reference risk limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BuyingPowerUsage:      0.70,
		MarginUsage:           0.50,
		MaxDrawdown:           0.10,
		SectorConcentration:   0.30,
		PositionConcentration: 0.20,
		PortfolioDelta:        100,
		PortfolioGamma:        50,
		PortfolioVega:         200,
		MaxOpenPositions:      5,

		ConcentrationConcernPct: 40,
		CriticalTier:            8,
		HighTier:                5,
		ModerateTier:            3,
	}
}

// Scorer aggregates position metrics and account data into portfolio risk
// metrics, and checks them against thresholds. Each evaluation is stateless:
// the scorer keeps no history and applies no hysteresis.
type Scorer struct {
	thresholds Thresholds
	calc       *engine.Calculator
	logger     zerolog.Logger
}

// NewScorer creates a scorer.
func NewScorer(thresholds Thresholds, calc *engine.Calculator, logger zerolog.Logger) *Scorer {
	return &Scorer{
		thresholds: thresholds,
		calc:       calc,
		logger:     logger,
	}
}

// Thresholds returns the configured risk limits.
func (s *Scorer) Thresholds() Thresholds {
	return s.thresholds
}

// PortfolioMetrics reduces account data and open positions into one metrics
// record: aggregated Greeks, concentration maps, margin usage, and the
// composite risk score.
func (s *Scorer) PortfolioMetrics(account models.AccountData, positions []models.Position) models.PortfolioMetrics {
	metrics := models.PortfolioMetrics{
		TotalValue:          account.TotalValue,
		BuyingPower:         account.BuyingPower,
		MaxDrawdown:         account.MaxDrawdown,
		SectorConcentration: make(map[string]float64),
		StrategyMix:         make(map[models.StrategyKind]int),
	}

	if account.TotalValue > 0 {
		metrics.MarginUsage = account.MarginUsed / account.TotalValue
	}

	// Position metrics and invested values, summed in input order.
	positionMetrics := s.calc.BatchMetrics(positions)

	sectorValues := make(map[string]float64)
	var totalInvested float64
	for i := range positions {
		metrics.Greeks.AddWeighted(positionMetrics[i].Greeks, 1)

		invested := positions[i].InvestedValue()
		totalInvested += invested

		sector := positions[i].Sector
		if sector == "" {
			sector = "unknown"
		}
		sectorValues[sector] += invested

		strategy := positions[i].Strategy
		if strategy == "" {
			strategy = models.StrategyOther
		}
		metrics.StrategyMix[strategy]++
	}

	if totalInvested > 0 {
		for sector, value := range sectorValues {
			metrics.SectorConcentration[sector] = value / totalInvested
		}
	}

	metrics.RiskScore = s.riskScore(metrics, len(positions))
	return metrics
}

// riskScore computes the composite score in [0, 1]: the mean of each
// applicable threshold ratio clipped to [0, 1]. Ratios whose threshold is
// zero are excluded rather than risking a division error; with no applicable
// ratios the score is 0.
func (s *Scorer) riskScore(metrics models.PortfolioMetrics, positionCount int) float64 {
	var ratios []float64

	if s.thresholds.PortfolioDelta > 0 {
		ratios = append(ratios, clip01(math.Abs(metrics.Greeks.Delta)/s.thresholds.PortfolioDelta))
	}
	if s.thresholds.PortfolioGamma > 0 {
		ratios = append(ratios, clip01(math.Abs(metrics.Greeks.Gamma)/s.thresholds.PortfolioGamma))
	}
	if s.thresholds.PortfolioVega > 0 {
		ratios = append(ratios, clip01(math.Abs(metrics.Greeks.Vega)/s.thresholds.PortfolioVega))
	}
	if s.thresholds.SectorConcentration > 0 {
		ratios = append(ratios, clip01(maxConcentration(metrics.SectorConcentration)/s.thresholds.SectorConcentration))
	}
	if s.thresholds.MarginUsage > 0 {
		ratios = append(ratios, clip01(metrics.MarginUsage/s.thresholds.MarginUsage))
	}
	if s.thresholds.MaxOpenPositions > 0 {
		ratios = append(ratios, clip01(float64(positionCount)/float64(s.thresholds.MaxOpenPositions)))
	}

	if len(ratios) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratios {
		sum += r
	}
	return sum / float64(len(ratios))
}

func maxConcentration(concentration map[string]float64) float64 {
	var max float64
	for _, v := range concentration {
		if v > max {
			max = v
		}
	}
	return max
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
