package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seanpizarro/antigravity-trading-system/internal/logging"
	"github.com/seanpizarro/antigravity-trading-system/internal/models"
	"github.com/seanpizarro/antigravity-trading-system/internal/risk"
	"github.com/seanpizarro/antigravity-trading-system/pkg/utils"
)

// addPortfolioCommands adds portfolio analytics commands.
func addPortfolioCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPositionsCmd(app))
	rootCmd.AddCommand(newRiskCmd(app))
}

func newPositionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Compute per-position metrics from a portfolio snapshot",
		Example: `  antigravity positions --snapshot portfolio.json
  antigravity positions --snapshot portfolio.json --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path, _ := cmd.Flags().GetString("snapshot")

			snapshot, err := models.LoadSnapshot(path)
			if err != nil {
				return err
			}

			metrics := app.Calculator.BatchMetrics(snapshot.Positions)
			if output.IsJSON() {
				type row struct {
					Position models.Position        `json:"position"`
					Metrics  models.PositionMetrics `json:"metrics"`
				}
				rows := make([]row, len(metrics))
				for i := range metrics {
					rows[i] = row{snapshot.Positions[i], metrics[i]}
				}
				return output.JSON(rows)
			}

			table := NewTable(output, "SYMBOL", "STRATEGY", "VALUE", "POP", "EV", "DELTA", "THETA", "STATUS")
			for i, m := range metrics {
				pos := snapshot.Positions[i]
				if m.Outcome != models.MetricsComputed {
					logging.LogFallback(app.Logger, pos.ID, m.Outcome)
				}
				table.AddRow(
					pos.Symbol,
					string(pos.Strategy),
					utils.FormatPrice(m.TheoreticalValue),
					utils.FormatProbability(m.ProbabilityProfit),
					utils.FormatPrice(m.ExpectedValue),
					utils.FormatGreek(m.Greeks.Delta),
					utils.FormatGreek(m.Greeks.Theta),
					string(m.Outcome),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().String("snapshot", "", "path to the portfolio snapshot JSON (required)")
	cmd.MarkFlagRequired("snapshot")
	return cmd
}

func newRiskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Assess portfolio risk from a snapshot",
		Long: `Assess portfolio risk from a snapshot.

The default mode computes portfolio metrics, checks automated triggers, and
combines them with a qualitative assessment (AI advisor when enabled, the
concentration heuristic otherwise). The --fast mode skips pricing entirely
and looks only at strategy concentration.`,
		Example: `  antigravity risk --snapshot portfolio.json
  antigravity risk --snapshot portfolio.json --fast`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path, _ := cmd.Flags().GetString("snapshot")
			fast, _ := cmd.Flags().GetBool("fast")

			snapshot, err := models.LoadSnapshot(path)
			if err != nil {
				return err
			}

			if fast {
				assessment := app.Scorer.AssessConcentration(snapshot.Market, snapshot.Positions)
				return renderAssessment(output, assessment, nil, nil)
			}

			metrics := app.Scorer.PortfolioMetrics(snapshot.Account, snapshot.Positions)
			alerts := app.Scorer.CheckTriggers(metrics, snapshot.Positions)

			var qualitative *models.RiskAssessment
			if app.Advisor != nil {
				qa, err := app.Advisor.Assess(cmd.Context(), metrics, alerts, snapshot.Market)
				if err != nil {
					app.Logger.Warn().Err(err).Msg("Advisor failed, using concentration assessment")
				} else {
					qualitative = qa
				}
			}
			if qualitative == nil {
				fastAssessment := app.Scorer.AssessConcentration(snapshot.Market, snapshot.Positions)
				qualitative = &fastAssessment
			}

			assessment := risk.Combine(qualitative, alerts)
			logging.LogAssessment(app.Logger, assessment, metrics.RiskScore)
			return renderAssessment(output, assessment, &metrics, alerts)
		},
	}
	cmd.Flags().String("snapshot", "", "path to the portfolio snapshot JSON (required)")
	cmd.Flags().Bool("fast", false, "concentration-only assessment, no pricing")
	cmd.MarkFlagRequired("snapshot")
	return cmd
}

func renderAssessment(output *Output, assessment models.RiskAssessment, metrics *models.PortfolioMetrics, alerts []models.RiskAlert) error {
	if output.IsJSON() {
		payload := struct {
			Assessment models.RiskAssessment    `json:"assessment"`
			Metrics    *models.PortfolioMetrics `json:"metrics,omitempty"`
			Alerts     []models.RiskAlert       `json:"alerts,omitempty"`
		}{assessment, metrics, alerts}
		return output.JSON(payload)
	}

	level := fmt.Sprintf("Alert level %d/10", assessment.AlertLevel)
	output.Bold("%s - %s", output.ColoredString(output.AlertColor(assessment.AlertLevel), level), assessment.Message)

	if metrics != nil {
		output.Printf("Risk score: %.2f  Margin usage: %s  Delta: %s  Vega: %s\n",
			metrics.RiskScore,
			utils.FormatPercent(metrics.MarginUsage),
			utils.FormatGreek(metrics.Greeks.Delta),
			utils.FormatGreek(metrics.Greeks.Vega),
		)
	}

	if len(assessment.Concerns) > 0 {
		output.Warning("Concerns:")
		for _, concern := range assessment.Concerns {
			output.Printf("  - %s\n", concern)
		}
	}
	if len(assessment.Recommendations) > 0 {
		output.Info("Recommendations:")
		for _, rec := range assessment.Recommendations {
			output.Printf("  - %s\n", rec)
		}
	}
	for _, alert := range alerts {
		output.Printf("  [%s] %s\n", alert.Severity, alert.Message)
	}
	return nil
}
