package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seanpizarro/antigravity-trading-system/internal/engine"
	"github.com/seanpizarro/antigravity-trading-system/internal/models"
	"github.com/seanpizarro/antigravity-trading-system/pkg/utils"
)

// addEngineCommands adds pricing and analytics commands.
func addEngineCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newIVCmd(app))
	rootCmd.AddCommand(newPOPCmd(app))
}

func contractFlags(cmd *cobra.Command, app *App) {
	cmd.Flags().Float64("spot", 0, "underlying spot price (required)")
	cmd.Flags().Float64("strike", 0, "strike price (required)")
	cmd.Flags().Float64("expiry", 0, "time to expiry in years (required)")
	cmd.Flags().Float64("vol", 0, "annualized volatility")
	cmd.Flags().Float64("rate", configuredRate(app), "risk-free rate")
	cmd.Flags().String("type", "call", "option type: call or put")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("expiry")
}

// configuredRate picks the rate flag default from configuration, falling
// back to the stock rate.
func configuredRate(app *App) float64 {
	if app.Config != nil && app.Config.Engine.RiskFreeRate > 0 {
		return app.Config.Engine.RiskFreeRate
	}
	return engine.DefaultRiskFreeRate
}

func contractFromFlags(cmd *cobra.Command) (engine.Contract, error) {
	spot, _ := cmd.Flags().GetFloat64("spot")
	strike, _ := cmd.Flags().GetFloat64("strike")
	expiry, _ := cmd.Flags().GetFloat64("expiry")
	vol, _ := cmd.Flags().GetFloat64("vol")
	rate, _ := cmd.Flags().GetFloat64("rate")
	kindStr, _ := cmd.Flags().GetString("type")

	var kind models.OptionKind
	switch strings.ToLower(kindStr) {
	case "call", "c":
		kind = models.Call
	case "put", "p":
		kind = models.Put
	default:
		return engine.Contract{}, fmt.Errorf("invalid option type %q (use call or put)", kindStr)
	}
	if spot <= 0 || strike <= 0 {
		return engine.Contract{}, fmt.Errorf("spot and strike must be positive")
	}

	return engine.Contract{
		Spot:   spot,
		Strike: strike,
		Expiry: expiry,
		Rate:   rate,
		Vol:    vol,
		Kind:   kind,
	}, nil
}

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a European option and compute its Greeks",
		Example: `  antigravity price --spot 100 --strike 105 --expiry 0.25 --vol 0.3
  antigravity price --spot 450 --strike 440 --expiry 0.08 --vol 0.22 --type put --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			contract, err := contractFromFlags(cmd)
			if err != nil {
				return err
			}

			result := engine.PriceContract(contract)
			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("%s %s @ %s", utils.FormatPrice(contract.Strike), contract.Kind, utils.FormatPrice(contract.Spot))
			output.Printf("Price:  %s\n", utils.FormatPrice(result.Price))
			output.Printf("Delta:  %s\n", utils.FormatGreek(result.Greeks.Delta))
			output.Printf("Gamma:  %s\n", utils.FormatGreek(result.Greeks.Gamma))
			output.Printf("Theta:  %s /day\n", utils.FormatGreek(result.Greeks.Theta))
			output.Printf("Vega:   %s /vol pt\n", utils.FormatGreek(result.Greeks.Vega))
			output.Printf("Rho:    %s /1%%\n", utils.FormatGreek(result.Greeks.Rho))
			return nil
		},
	}
	contractFlags(cmd, app)
	return cmd
}

func newIVCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iv",
		Short: "Solve implied volatility from a market price",
		Example: `  antigravity iv --price 4.20 --spot 100 --strike 105 --expiry 0.25
  antigravity iv --price 4.20 --spot 100 --strike 105 --expiry 0.25 --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			contract, err := contractFromFlags(cmd)
			if err != nil {
				return err
			}
			marketPrice, _ := cmd.Flags().GetFloat64("price")
			strict, _ := cmd.Flags().GetBool("strict")

			solver := app.Calculator.Solver()
			var sigma float64
			if strict {
				sigma, err = solver.SolveStrict(marketPrice, contract)
				if err != nil {
					output.Error("Solver did not converge: %v", err)
					return err
				}
			} else {
				sigma = solver.Solve(marketPrice, contract)
			}

			if output.IsJSON() {
				return output.JSON(map[string]float64{"implied_vol": sigma})
			}
			output.Printf("Implied volatility: %.4f (%s)\n", sigma, utils.FormatProbability(sigma))
			return nil
		},
	}
	contractFlags(cmd, app)
	cmd.Flags().Float64("price", 0, "observed market price (required)")
	cmd.Flags().Bool("strict", false, "fail instead of returning a non-converged estimate")
	cmd.MarkFlagRequired("price")
	return cmd
}

func newPOPCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pop",
		Short:   "Estimate probability of the underlying finishing above a target",
		Example: `  antigravity pop --spot 100 --target 105 --expiry 0.25 --vol 0.3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			spot, _ := cmd.Flags().GetFloat64("spot")
			target, _ := cmd.Flags().GetFloat64("target")
			expiry, _ := cmd.Flags().GetFloat64("expiry")
			vol, _ := cmd.Flags().GetFloat64("vol")
			rate, _ := cmd.Flags().GetFloat64("rate")

			if spot <= 0 || target <= 0 {
				return fmt.Errorf("spot and target must be positive")
			}

			p := app.Calculator.Estimator().ProbAbove(spot, target, expiry, vol, rate)
			if output.IsJSON() {
				return output.JSON(map[string]float64{"probability": p})
			}
			output.Printf("P(S_T > %s) = %s\n", utils.FormatPrice(target), utils.FormatProbability(p))
			return nil
		},
	}
	cmd.Flags().Float64("spot", 0, "underlying spot price (required)")
	cmd.Flags().Float64("target", 0, "target price (required)")
	cmd.Flags().Float64("expiry", 0, "time horizon in years (required)")
	cmd.Flags().Float64("vol", 0, "annualized volatility")
	cmd.Flags().Float64("rate", configuredRate(app), "risk-free rate")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("expiry")
	return cmd
}
