// Package risk implements rule-based flag detection and the composite 0-100
// risk score for a property underwriting run.
package risk

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/underwrite-cli/internal/config"
)

// DefaultConfig returns a config.RiskConfig with the standard underwriting
// thresholds. These mirror the config package defaults so library callers
// can run without viper.
func DefaultConfig() config.RiskConfig {
	return config.RiskConfig{
		TenantConcentrationPct: 20.0,
		LeaseExpiryMonths:      12,
		MarketRentPSF:          18.0,
		MarketExpensePct: map[string]float64{
			"property_taxes":      15.0,
			"insurance":           6.0,
			"utilities":           10.0,
			"repairs_maintenance": 12.0,
			"management_fees":     6.0,
		},
		OccupancyWarnPct:     85.0,
		OccupancyCriticalPct: 70.0,
		DSCRWarn:             1.25,
		DSCRCritical:         1.0,
		LTVWarnPct:           75.0,
		LTVCriticalPct:       80.0,
		InfoWeight:           3,
		WarningWeight:        10,
		CriticalWeight:       20,
		BaselineMax:          40,
	}
}

// ValidateConfig checks that a RiskConfig is internally consistent.
func ValidateConfig(c config.RiskConfig) error {
	var errs []string

	if c.TenantConcentrationPct <= 0 || c.TenantConcentrationPct > 100 {
		errs = append(errs, "tenant_concentration_pct must be in (0, 100]")
	}
	if c.LeaseExpiryMonths <= 0 {
		errs = append(errs, "lease_expiry_months must be > 0")
	}
	if c.OccupancyCriticalPct > c.OccupancyWarnPct {
		errs = append(errs, "occupancy_critical_pct must be <= occupancy_warn_pct")
	}
	if c.DSCRCritical > c.DSCRWarn {
		errs = append(errs, "dscr_critical must be <= dscr_warn")
	}
	if c.LTVCriticalPct < c.LTVWarnPct {
		errs = append(errs, "ltv_critical_pct must be >= ltv_warn_pct")
	}
	for category, pct := range c.MarketExpensePct {
		if pct <= 0 {
			errs = append(errs, fmt.Sprintf("market_expense_pct.%s must be > 0", category))
		}
	}

	// Severity weights must be non-negative and strictly ordered so a worse
	// severity always costs more.
	if c.InfoWeight < 0 || c.WarningWeight < 0 || c.CriticalWeight < 0 {
		errs = append(errs, "severity weights must be >= 0")
	}
	if !(c.CriticalWeight > c.WarningWeight && c.WarningWeight > c.InfoWeight) {
		errs = append(errs, "severity weights must satisfy critical > warning > info")
	}
	if c.BaselineMax < 0 || c.BaselineMax > 100 {
		errs = append(errs, "baseline_max must be between 0 and 100")
	}

	if len(errs) > 0 {
		return eris.Errorf("risk: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
