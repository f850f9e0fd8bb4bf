package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seanpizarro/antigravity-trading-system/internal/advisor"
	"github.com/seanpizarro/antigravity-trading-system/internal/config"
	"github.com/seanpizarro/antigravity-trading-system/internal/engine"
	"github.com/seanpizarro/antigravity-trading-system/internal/logging"
	"github.com/seanpizarro/antigravity-trading-system/internal/risk"
)

// Version information
const (
	Version   = "0.2.0"
	BuildDate = "2026-08-01"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Calculator *engine.Calculator
	Scorer     *risk.Scorer
	Advisor    risk.Advisor
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	estimator := engine.NewEstimator(cfg.Engine.Simulations, cfg.Engine.Seed, logger)
	estimator.DefaultRate = cfg.Engine.RiskFreeRate
	app.Calculator = engine.NewCalculator(estimator, cfg.Engine.Workers, logger).
		WithSolver(engine.IVSolver{
			Iterations:   cfg.Engine.IVIterations,
			InitialGuess: cfg.Engine.IVInitialGuess,
		})
	app.Scorer = risk.NewScorer(thresholdsFromConfig(cfg.Risk), app.Calculator, logger)

	if cfg.Advisor.Enabled {
		client, err := advisor.New(advisor.Config{
			APIKey:  cfg.Credentials.OpenAI.APIKey,
			BaseURL: cfg.Advisor.BaseURL,
			Model:   cfg.Advisor.Model,
		}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Advisor unavailable, automated assessment only")
		} else {
			app.Advisor = client
			logger.Debug().Str("model", cfg.Advisor.Model).Msg("Advisor client initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "antigravity",
		Short: "Antigravity - derivatives analytics and portfolio risk CLI",
		Long: `Antigravity is a derivatives analytics and portfolio risk engine.

It prices options and multi-leg spreads, estimates probability of profit
with Monte Carlo simulation, solves implied volatility, and monitors
portfolio-level risk against configurable thresholds.

Use 'antigravity help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/antigravity)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addEngineCommands(rootCmd, app)
	addPortfolioCommands(rootCmd, app)
	addMonitorCommands(rootCmd, app)

	return rootCmd
}

func thresholdsFromConfig(rc config.RiskConfig) risk.Thresholds {
	t := risk.DefaultThresholds()
	t.BuyingPowerUsage = rc.BuyingPowerUsage
	t.MarginUsage = rc.MarginUsage
	t.MaxDrawdown = rc.MaxDrawdown
	t.SectorConcentration = rc.SectorConcentration
	t.PositionConcentration = rc.PositionConcentration
	t.PortfolioDelta = rc.PortfolioDelta
	t.PortfolioGamma = rc.PortfolioGamma
	t.PortfolioVega = rc.PortfolioVega
	t.MaxOpenPositions = rc.MaxOpenPositions
	if rc.ConcentrationConcernPct > 0 {
		t.ConcentrationConcernPct = rc.ConcentrationConcernPct
	}
	if rc.CriticalTier > 0 {
		t.CriticalTier = rc.CriticalTier
	}
	if rc.HighTier > 0 {
		t.HighTier = rc.HighTier
	}
	if rc.ModerateTier > 0 {
		t.ModerateTier = rc.ModerateTier
	}
	return t
}

func historyPath(cfg *config.Config) string {
	if cfg.Monitor.HistoryPath != "" {
		return cfg.Monitor.HistoryPath
	}
	return filepath.Join(config.DefaultConfigDir(), "history.db")
}

func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Antigravity v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Engine")
			output.Printf("  risk_free_rate:   %.4f\n", app.Config.Engine.RiskFreeRate)
			output.Printf("  simulations:      %d\n", app.Config.Engine.Simulations)
			output.Printf("  seed:             %d\n", app.Config.Engine.Seed)
			output.Printf("  iv_iterations:    %d\n", app.Config.Engine.IVIterations)
			output.Printf("  workers:          %d\n", app.Config.Engine.Workers)
			output.Bold("Risk")
			output.Printf("  buying_power_usage:     %.2f\n", app.Config.Risk.BuyingPowerUsage)
			output.Printf("  margin_usage:           %.2f\n", app.Config.Risk.MarginUsage)
			output.Printf("  max_drawdown:           %.2f\n", app.Config.Risk.MaxDrawdown)
			output.Printf("  sector_concentration:   %.2f\n", app.Config.Risk.SectorConcentration)
			output.Printf("  position_concentration: %.2f\n", app.Config.Risk.PositionConcentration)
			output.Printf("  portfolio_delta:        %.1f\n", app.Config.Risk.PortfolioDelta)
			output.Printf("  portfolio_gamma:        %.1f\n", app.Config.Risk.PortfolioGamma)
			output.Printf("  portfolio_vega:         %.1f\n", app.Config.Risk.PortfolioVega)
			output.Printf("  max_open_positions:     %d\n", app.Config.Risk.MaxOpenPositions)
			output.Printf("  concentration_concern_pct: %.1f\n", app.Config.Risk.ConcentrationConcernPct)
			output.Printf("  tiers (critical/high/moderate): %.0f/%.0f/%.0f\n",
				app.Config.Risk.CriticalTier, app.Config.Risk.HighTier, app.Config.Risk.ModerateTier)
			output.Bold("Advisor")
			output.Printf("  enabled: %v\n", app.Config.Advisor.Enabled)
			output.Printf("  model:   %s\n", app.Config.Advisor.Model)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}
