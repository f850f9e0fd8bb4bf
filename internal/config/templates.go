package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Antigravity Trading System Configuration

[engine]
# Risk-free rate used when a leg does not carry one
risk_free_rate = 0.05
# Monte Carlo simulation count per probability estimate
simulations = 5000
# Fixed random seed for reproducible estimates
seed = 42
# Newton-Raphson iterations for implied volatility
iv_iterations = 10
# Initial volatility guess for the solver
iv_initial_guess = 0.30
# Parallel workers for batch position metrics
workers = 4

[risk]
# Buying power usage limit (fraction of account value)
buying_power_usage = 0.70
# Margin usage limit
margin_usage = 0.50
# Drawdown limit
max_drawdown = 0.10
# Maximum share of invested value in one sector
sector_concentration = 0.30
# Maximum share of invested value in one position
position_concentration = 0.20
# Absolute portfolio Greek limits
portfolio_delta = 100.0
portfolio_gamma = 50.0
portfolio_vega = 200.0
# Maximum concurrent open positions
max_open_positions = 5
# Strategy concentration above this percentage raises a concern
concentration_concern_pct = 40.0
# Concentration score tiers (0-10 scale)
critical_tier = 8.0
high_tier = 5.0
moderate_tier = 3.0

[advisor]
# Enable the qualitative AI advisor (requires credentials.toml)
enabled = false
# OpenAI-compatible endpoint; leave empty for api.openai.com
base_url = ""
# Model name
model = "gpt-4o-mini"

[monitor]
# Evaluation interval
interval = "5m"

[logging]
# Levels: debug, info, warn, error
level = "info"
console = true
file = true
`

const credentialsTemplate = `# Antigravity Trading System Credentials
# Keep this file private (chmod 600).

[openai]
api_key = ""
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate, 0o644)
}

func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate, 0o600)
}

func writeTemplate(configDir, name, content string, mode os.FileMode) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("writing %s template: %w", name, err)
	}
	return nil
}
