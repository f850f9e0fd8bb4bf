// Package config provides configuration management for the analytics engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Engine      EngineConfig  `mapstructure:"engine"`
	Risk        RiskConfig    `mapstructure:"risk"`
	Advisor     AdvisorConfig `mapstructure:"advisor"`
	Monitor     MonitorConfig `mapstructure:"monitor"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately
}

// EngineConfig holds pricing and simulation parameters.
type EngineConfig struct {
	RiskFreeRate   float64 `mapstructure:"risk_free_rate"`
	Simulations    int     `mapstructure:"simulations"`
	Seed           int64   `mapstructure:"seed"`
	IVIterations   int     `mapstructure:"iv_iterations"`
	IVInitialGuess float64 `mapstructure:"iv_initial_guess"`
	Workers        int     `mapstructure:"workers"`
}

// RiskConfig holds portfolio risk thresholds.
type RiskConfig struct {
	BuyingPowerUsage      float64 `mapstructure:"buying_power_usage"`
	MarginUsage           float64 `mapstructure:"margin_usage"`
	MaxDrawdown           float64 `mapstructure:"max_drawdown"`
	SectorConcentration   float64 `mapstructure:"sector_concentration"`
	PositionConcentration float64 `mapstructure:"position_concentration"`
	PortfolioDelta        float64 `mapstructure:"portfolio_delta"`
	PortfolioGamma        float64 `mapstructure:"portfolio_gamma"`
	PortfolioVega         float64 `mapstructure:"portfolio_vega"`
	MaxOpenPositions      int     `mapstructure:"max_open_positions"`

	// Concentration-assessment bucketing.
	ConcentrationConcernPct float64 `mapstructure:"concentration_concern_pct"`
	CriticalTier            float64 `mapstructure:"critical_tier"`
	HighTier                float64 `mapstructure:"high_tier"`
	ModerateTier            float64 `mapstructure:"moderate_tier"`
}

// AdvisorConfig holds qualitative advisor settings.
type AdvisorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// MonitorConfig holds the monitoring loop settings.
type MonitorConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	HistoryPath string        `mapstructure:"history_path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds the advisor endpoint credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/antigravity"
	}
	return filepath.Join(home, ".config", "antigravity")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			// Fall through with defaults only.
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("engine.risk_free_rate", 0.05)
	v.SetDefault("engine.simulations", 5000)
	v.SetDefault("engine.seed", 42)
	v.SetDefault("engine.iv_iterations", 10)
	v.SetDefault("engine.iv_initial_guess", 0.30)
	v.SetDefault("engine.workers", 4)

	v.SetDefault("risk.buying_power_usage", 0.70)
	v.SetDefault("risk.margin_usage", 0.50)
	v.SetDefault("risk.max_drawdown", 0.10)
	v.SetDefault("risk.sector_concentration", 0.30)
	v.SetDefault("risk.position_concentration", 0.20)
	v.SetDefault("risk.portfolio_delta", 100.0)
	v.SetDefault("risk.portfolio_gamma", 50.0)
	v.SetDefault("risk.portfolio_vega", 200.0)
	v.SetDefault("risk.max_open_positions", 5)
	v.SetDefault("risk.concentration_concern_pct", 40.0)
	v.SetDefault("risk.critical_tier", 8.0)
	v.SetDefault("risk.high_tier", 5.0)
	v.SetDefault("risk.moderate_tier", 3.0)

	v.SetDefault("advisor.enabled", false)
	v.SetDefault("advisor.model", "gpt-4o-mini")

	v.SetDefault("monitor.interval", "5m")
	v.SetDefault("monitor.history_path", filepath.Join(configDir, "history.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "engine.log"))
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age", 30)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("ADVISOR_BASE_URL"); v != "" {
		cfg.Advisor.BaseURL = v
	}
	if v := os.Getenv("ADVISOR_MODEL"); v != "" {
		cfg.Advisor.Model = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.Simulations < 0 {
		return fmt.Errorf("simulations must be non-negative")
	}
	if c.Engine.IVIterations < 0 {
		return fmt.Errorf("iv_iterations must be non-negative")
	}
	if c.Engine.IVInitialGuess < 0 {
		return fmt.Errorf("iv_initial_guess must be non-negative")
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}

	for name, value := range map[string]float64{
		"buying_power_usage":     c.Risk.BuyingPowerUsage,
		"margin_usage":           c.Risk.MarginUsage,
		"max_drawdown":           c.Risk.MaxDrawdown,
		"sector_concentration":   c.Risk.SectorConcentration,
		"position_concentration": c.Risk.PositionConcentration,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if c.Risk.PortfolioDelta < 0 || c.Risk.PortfolioGamma < 0 || c.Risk.PortfolioVega < 0 {
		return fmt.Errorf("greek limits must be non-negative")
	}
	if c.Risk.MaxOpenPositions < 0 {
		return fmt.Errorf("max_open_positions must be non-negative")
	}
	if c.Risk.ConcentrationConcernPct < 0 || c.Risk.ConcentrationConcernPct > 100 {
		return fmt.Errorf("concentration_concern_pct must be between 0 and 100")
	}
	if c.Risk.CriticalTier < c.Risk.HighTier || c.Risk.HighTier < c.Risk.ModerateTier || c.Risk.ModerateTier < 0 {
		return fmt.Errorf("concentration tiers must satisfy critical >= high >= moderate >= 0")
	}

	if c.Advisor.Enabled && c.Credentials.OpenAI.APIKey == "" {
		return fmt.Errorf("advisor enabled but no API key configured")
	}
	if c.Monitor.Interval < 0 {
		return fmt.Errorf("monitor interval must be non-negative")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}

	return nil
}
