package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
	"github.com/seanpizarro/antigravity-trading-system/internal/risk"
	"github.com/seanpizarro/antigravity-trading-system/internal/store"
)

// addMonitorCommands adds the continuous monitoring commands.
func addMonitorCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Continuous portfolio risk monitoring",
	}
	cmd.AddCommand(newMonitorRunCmd(app))
	cmd.AddCommand(newMonitorTrendCmd(app))
	rootCmd.AddCommand(cmd)
}

func newMonitorRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate the portfolio on an interval and record history",
		Example: `  antigravity monitor run --snapshot portfolio.json
  antigravity monitor run --snapshot portfolio.json --interval 1m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path, _ := cmd.Flags().GetString("snapshot")
			interval, _ := cmd.Flags().GetDuration("interval")
			if interval <= 0 {
				interval = app.Config.Monitor.Interval
			}

			history, err := store.NewSQLiteStore(historyPath(app.Config))
			if err != nil {
				app.Logger.Warn().Err(err).Msg("History store unavailable, alerts will not be recorded")
			} else {
				defer history.Close()
			}

			source := func() (*models.PortfolioSnapshot, error) {
				return models.LoadSnapshot(path)
			}

			monitor := risk.NewMonitor(app.Scorer, source, interval, app.Logger)
			if history != nil {
				monitor.WithHistory(history)
			}
			if app.Advisor != nil {
				monitor.WithAdvisor(app.Advisor)
			}

			output.Info("Monitoring %s every %s (Ctrl+C to stop)", path, interval)
			return monitor.Run(cmd.Context())
		},
	}
	cmd.Flags().String("snapshot", "", "path to the portfolio snapshot JSON (required)")
	cmd.Flags().Duration("interval", 0, "evaluation interval (default from config)")
	cmd.MarkFlagRequired("snapshot")
	return cmd
}

func newMonitorTrendCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show the risk trend from recorded history",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			days, _ := cmd.Flags().GetInt("days")

			history, err := store.NewSQLiteStore(historyPath(app.Config))
			if err != nil {
				return err
			}
			defer history.Close()

			since := time.Now().UTC().AddDate(0, 0, -days)
			avg, count, err := history.AverageAlertLevel(since)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"days":            days,
					"evaluations":     count,
					"avg_alert_level": avg,
				})
			}
			if count == 0 {
				output.Dim("No evaluations recorded in the last %d days", days)
				return nil
			}
			output.Printf("Last %d days: %d evaluations, average alert level %.2f\n", days, count, avg)

			records, err := history.Assessments(since, 10)
			if err != nil {
				return err
			}
			table := NewTable(output, "AS OF", "LEVEL", "SCORE", "MESSAGE")
			for _, rec := range records {
				table.AddRow(
					rec.AsOf.Format("2006-01-02 15:04"),
					output.ColoredString(output.AlertColor(rec.Assessment.AlertLevel), strconv.Itoa(rec.Assessment.AlertLevel)),
					fmt.Sprintf("%.2f", rec.RiskScore),
					rec.Assessment.Message,
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().Int("days", 7, "lookback window in days")
	return cmd
}
