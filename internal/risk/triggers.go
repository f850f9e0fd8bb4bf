package risk

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

// CheckTriggers compares portfolio metrics against the configured thresholds
// and returns one alert per breached limit. The returned slice is empty when
// everything is inside limits; ordering is fixed so repeated evaluations of
// the same portfolio produce the same alert sequence.
func (s *Scorer) CheckTriggers(metrics models.PortfolioMetrics, positions []models.Position) []models.RiskAlert {
	now := time.Now().UTC()
	var alerts []models.RiskAlert

	if metrics.TotalValue > 0 && s.thresholds.BuyingPowerUsage > 0 {
		usage := 1 - metrics.BuyingPower/metrics.TotalValue
		if usage > s.thresholds.BuyingPowerUsage {
			alerts = append(alerts, models.RiskAlert{
				Severity:    models.SeverityWarning,
				Message:     fmt.Sprintf("Buying power usage at %.1f%% exceeds %.0f%% limit", usage*100, s.thresholds.BuyingPowerUsage*100),
				TriggeredBy: "buying_power_usage",
				Timestamp:   now,
				Actions:     []string{"Reduce position sizes", "Avoid opening new positions"},
				Confidence:  0.9,
			})
		}
	}

	if s.thresholds.MarginUsage > 0 && metrics.MarginUsage > s.thresholds.MarginUsage {
		alerts = append(alerts, models.RiskAlert{
			Severity:    models.SeverityCritical,
			Message:     fmt.Sprintf("Margin usage at %.1f%% exceeds %.0f%% limit", metrics.MarginUsage*100, s.thresholds.MarginUsage*100),
			TriggeredBy: "margin_usage",
			Timestamp:   now,
			Actions:     []string{"Close positions to free margin", "Deposit additional funds"},
			Confidence:  0.95,
		})
	}

	if s.thresholds.MaxDrawdown > 0 && metrics.MaxDrawdown > s.thresholds.MaxDrawdown {
		alerts = append(alerts, models.RiskAlert{
			Severity:    models.SeverityWarning,
			Message:     fmt.Sprintf("Drawdown at %.1f%% exceeds %.0f%% limit", metrics.MaxDrawdown*100, s.thresholds.MaxDrawdown*100),
			TriggeredBy: "max_drawdown",
			Timestamp:   now,
			Actions:     []string{"Review losing positions", "Tighten stop levels"},
			Confidence:  0.9,
		})
	}

	if s.thresholds.SectorConcentration > 0 {
		sectors := make([]string, 0, len(metrics.SectorConcentration))
		for sector := range metrics.SectorConcentration {
			sectors = append(sectors, sector)
		}
		sort.Strings(sectors)
		for _, sector := range sectors {
			share := metrics.SectorConcentration[sector]
			if share > s.thresholds.SectorConcentration {
				alerts = append(alerts, models.RiskAlert{
					Severity:    models.SeverityWarning,
					Message:     fmt.Sprintf("Sector %s at %.1f%% of portfolio exceeds %.0f%% limit", sector, share*100, s.thresholds.SectorConcentration*100),
					TriggeredBy: "sector_concentration",
					Timestamp:   now,
					Actions:     []string{"Diversify into other sectors", "Trim largest sector exposure"},
					Confidence:  0.8,
				})
			}
		}
	}

	if s.thresholds.PositionConcentration > 0 {
		var totalInvested float64
		for i := range positions {
			totalInvested += positions[i].InvestedValue()
		}
		if totalInvested > 0 {
			for i := range positions {
				share := positions[i].InvestedValue() / totalInvested
				if share > s.thresholds.PositionConcentration {
					alerts = append(alerts, models.RiskAlert{
						Severity:    models.SeverityCaution,
						Message:     fmt.Sprintf("Position %s at %.1f%% of portfolio exceeds %.0f%% limit", positions[i].Symbol, share*100, s.thresholds.PositionConcentration*100),
						TriggeredBy: "position_concentration",
						Timestamp:   now,
						Actions:     []string{"Reduce oversized position"},
						Confidence:  0.8,
					})
				}
			}
		}
	}

	if s.thresholds.PortfolioDelta > 0 && math.Abs(metrics.Greeks.Delta) > s.thresholds.PortfolioDelta {
		alerts = append(alerts, models.RiskAlert{
			Severity:    models.SeverityWarning,
			Message:     fmt.Sprintf("Portfolio delta %.1f exceeds +/-%.0f limit", metrics.Greeks.Delta, s.thresholds.PortfolioDelta),
			TriggeredBy: "portfolio_delta",
			Timestamp:   now,
			Actions:     []string{"Hedge directional exposure"},
			Confidence:  0.85,
		})
	}

	if s.thresholds.PortfolioGamma > 0 && math.Abs(metrics.Greeks.Gamma) > s.thresholds.PortfolioGamma {
		alerts = append(alerts, models.RiskAlert{
			Severity:    models.SeverityCaution,
			Message:     fmt.Sprintf("Portfolio gamma %.1f exceeds +/-%.0f limit", metrics.Greeks.Gamma, s.thresholds.PortfolioGamma),
			TriggeredBy: "portfolio_gamma",
			Timestamp:   now,
			Actions:     []string{"Reduce short-dated option exposure"},
			Confidence:  0.8,
		})
	}

	if s.thresholds.PortfolioVega > 0 && math.Abs(metrics.Greeks.Vega) > s.thresholds.PortfolioVega {
		alerts = append(alerts, models.RiskAlert{
			Severity:    models.SeverityWarning,
			Message:     fmt.Sprintf("Portfolio vega %.1f exceeds +/-%.0f limit", metrics.Greeks.Vega, s.thresholds.PortfolioVega),
			TriggeredBy: "portfolio_vega",
			Timestamp:   now,
			Actions:     []string{"Balance volatility exposure across expiries"},
			Confidence:  0.85,
		})
	}

	if s.thresholds.MaxOpenPositions > 0 && len(positions) > s.thresholds.MaxOpenPositions {
		alerts = append(alerts, models.RiskAlert{
			Severity:    models.SeverityCaution,
			Message:     fmt.Sprintf("Open positions %d exceed limit of %d", len(positions), s.thresholds.MaxOpenPositions),
			TriggeredBy: "max_open_positions",
			Timestamp:   now,
			Actions:     []string{"Close lowest-conviction positions"},
			Confidence:  0.9,
		})
	}

	s.logger.Debug().
		Int("alerts", len(alerts)).
		Float64("risk_score", metrics.RiskScore).
		Msg("trigger check complete")

	return alerts
}
