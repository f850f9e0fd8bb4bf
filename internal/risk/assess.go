package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

// AssessConcentration is the fast qualitative assessment: it looks only at
// how invested value bunches up by strategy, so it never needs pricing or
// market data beyond the trend classification used for empty portfolios.
func (s *Scorer) AssessConcentration(market models.MarketCondition, positions []models.Position) models.RiskAssessment {
	if len(positions) == 0 {
		return s.assessEmpty(market)
	}

	var totalInvested float64
	byStrategy := make(map[models.StrategyKind]float64)
	for i := range positions {
		invested := positions[i].InvestedValue()
		totalInvested += invested

		strategy := positions[i].Strategy
		if strategy == "" {
			strategy = models.StrategyOther
		}
		byStrategy[strategy] += invested
	}

	// Iterate strategies in a fixed order so concern lists are stable.
	strategies := make([]models.StrategyKind, 0, len(byStrategy))
	for strategy := range byStrategy {
		strategies = append(strategies, strategy)
	}
	sort.Slice(strategies, func(i, j int) bool { return strategies[i] < strategies[j] })

	var maxPct float64
	var concerns []string
	for _, strategy := range strategies {
		var pct float64
		if totalInvested > 0 {
			pct = byStrategy[strategy] / totalInvested * 100
		}
		maxPct = math.Max(maxPct, pct)

		if pct > s.thresholds.ConcentrationConcernPct {
			concern := fmt.Sprintf("High concentration in %s: %.1f%%", strategy, pct)
			s.logger.Warn().Str("strategy", string(strategy)).Float64("pct", pct).Msg("concentration concern")
			concerns = append(concerns, concern)
		}
	}

	score := math.Min(10, maxPct/10)

	switch {
	case score >= s.thresholds.CriticalTier:
		return models.RiskAssessment{
			AlertLevel:      int(s.thresholds.CriticalTier),
			Message:         "Critical concentration risk",
			Concerns:        concerns,
			Recommendations: []string{"Reduce position concentration", "Diversify across strategies"},
		}
	case score >= s.thresholds.HighTier:
		return models.RiskAssessment{
			AlertLevel:      int(s.thresholds.HighTier),
			Message:         "High concentration risk",
			Concerns:        concerns,
			Recommendations: []string{"Consider diversifying positions"},
		}
	case score >= s.thresholds.ModerateTier:
		return models.RiskAssessment{
			AlertLevel:      int(s.thresholds.ModerateTier),
			Message:         "Moderate concentration risk",
			Concerns:        concerns,
			Recommendations: []string{"Monitor position concentration"},
		}
	default:
		return models.RiskAssessment{
			AlertLevel:      0,
			Message:         "Low risk portfolio",
			Concerns:        []string{},
			Recommendations: []string{},
		}
	}
}

// assessEmpty classifies an empty portfolio by market condition: a bullish
// tape is flagged as a missed opportunity rather than zero risk.
func (s *Scorer) assessEmpty(market models.MarketCondition) models.RiskAssessment {
	if market.Classify() == models.TrendBullish {
		return models.RiskAssessment{
			AlertLevel: 1,
			Message:    "Bullish market with no positions - consider strategic entries",
			Concerns:   []string{"No open positions", "Missing potential income opportunities"},
			Recommendations: []string{
				"Consider opening positions in bullish market",
				"Start with small defined-risk trades",
			},
		}
	}
	return models.RiskAssessment{
		AlertLevel:      0,
		Message:         "Portfolio is empty - ready for new opportunities",
		Concerns:        []string{},
		Recommendations: []string{},
	}
}
