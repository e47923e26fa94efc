// Package config loads application configuration from file and environment
// and initializes the global logger. Every business threshold the engine
// uses lives here; components receive explicit config values instead of
// reading ambient state.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Risk       RiskConfig       `yaml:"risk" mapstructure:"risk"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
}

// StoreConfig configures the caller-side run store. An empty path disables
// run persistence entirely; the engine core never touches it either way.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RiskConfig holds the thresholds and weights for the risk assessment
// engine. These are business rules expected to change, so none of them are
// hard constants.
type RiskConfig struct {
	// TenantConcentrationPct triggers the concentration flag when a single
	// tenant's rent share strictly exceeds it.
	TenantConcentrationPct float64 `yaml:"tenant_concentration_pct" mapstructure:"tenant_concentration_pct"`
	// LeaseExpiryMonths is the lookahead window for expiration risk.
	LeaseExpiryMonths int `yaml:"lease_expiry_months" mapstructure:"lease_expiry_months"`
	// MarketRentPSF is the annual market comparable in $/SF for the
	// below-market-rent rule.
	MarketRentPSF float64 `yaml:"market_rent_psf" mapstructure:"market_rent_psf"`
	// MarketExpensePct maps expense category to the maximum share of gross
	// income (percent) considered in line with the market.
	MarketExpensePct map[string]float64 `yaml:"market_expense_pct" mapstructure:"market_expense_pct"`

	OccupancyWarnPct     float64 `yaml:"occupancy_warn_pct" mapstructure:"occupancy_warn_pct"`
	OccupancyCriticalPct float64 `yaml:"occupancy_critical_pct" mapstructure:"occupancy_critical_pct"`
	DSCRWarn             float64 `yaml:"dscr_warn" mapstructure:"dscr_warn"`
	DSCRCritical         float64 `yaml:"dscr_critical" mapstructure:"dscr_critical"`
	LTVWarnPct           float64 `yaml:"ltv_warn_pct" mapstructure:"ltv_warn_pct"`
	LTVCriticalPct       float64 `yaml:"ltv_critical_pct" mapstructure:"ltv_critical_pct"`

	// Severity weights added to the composite score per triggered flag.
	InfoWeight     int `yaml:"info_weight" mapstructure:"info_weight"`
	WarningWeight  int `yaml:"warning_weight" mapstructure:"warning_weight"`
	CriticalWeight int `yaml:"critical_weight" mapstructure:"critical_weight"`
	// BaselineMax caps the metric-distance baseline portion of the score.
	BaselineMax int `yaml:"baseline_max" mapstructure:"baseline_max"`
}

// ValidationConfig tunes the validation service.
type ValidationConfig struct {
	// Per-issue confidence penalties applied to the document confidence.
	CriticalPenalty float64 `yaml:"critical_penalty" mapstructure:"critical_penalty"`
	WarningPenalty  float64 `yaml:"warning_penalty" mapstructure:"warning_penalty"`
	InfoPenalty     float64 `yaml:"info_penalty" mapstructure:"info_penalty"`
	// OccupancyMismatchPts is the tolerated spread between the rent roll
	// occupancy and the metric occupancy before a consistency warning.
	OccupancyMismatchPts float64 `yaml:"occupancy_mismatch_pts" mapstructure:"occupancy_mismatch_pts"`
	// HighExpenseRatioPct flags statements spending most of their income.
	HighExpenseRatioPct float64 `yaml:"high_expense_ratio_pct" mapstructure:"high_expense_ratio_pct"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("UNDERWRITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "underwrite.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("risk.tenant_concentration_pct", 20.0)
	v.SetDefault("risk.lease_expiry_months", 12)
	v.SetDefault("risk.market_rent_psf", 18.0)
	v.SetDefault("risk.market_expense_pct", map[string]float64{
		"property_taxes":      15.0,
		"insurance":           6.0,
		"utilities":           10.0,
		"repairs_maintenance": 12.0,
		"management_fees":     6.0,
	})
	v.SetDefault("risk.occupancy_warn_pct", 85.0)
	v.SetDefault("risk.occupancy_critical_pct", 70.0)
	v.SetDefault("risk.dscr_warn", 1.25)
	v.SetDefault("risk.dscr_critical", 1.0)
	v.SetDefault("risk.ltv_warn_pct", 75.0)
	v.SetDefault("risk.ltv_critical_pct", 80.0)
	v.SetDefault("risk.info_weight", 3)
	v.SetDefault("risk.warning_weight", 10)
	v.SetDefault("risk.critical_weight", 20)
	v.SetDefault("risk.baseline_max", 40)

	v.SetDefault("validation.critical_penalty", 0.10)
	v.SetDefault("validation.warning_penalty", 0.05)
	v.SetDefault("validation.info_penalty", 0.01)
	v.SetDefault("validation.occupancy_mismatch_pts", 10.0)
	v.SetDefault("validation.high_expense_ratio_pct", 80.0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
