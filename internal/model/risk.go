package model

// Severity grades a risk flag or validation issue.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Flag codes emitted by the risk engine.
const (
	FlagTenantConcentration = "TENANT_CONCENTRATION_HIGH"
	FlagLeaseExpirationNear = "LEASE_EXPIRATION_NEAR"
	FlagRentBelowMarket     = "RENT_BELOW_MARKET"
	FlagExpenseAboveMarket  = "EXPENSE_ABOVE_MARKET"
	FlagOccupancyLow        = "OCCUPANCY_LOW"
	FlagDSCRWeak            = "DSCR_WEAK"
	FlagLeverageHigh        = "LEVERAGE_HIGH"
)

// RiskFlag is one triggered risk rule: a machine-readable code, its
// severity, and a message with the triggering value interpolated.
type RiskFlag struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// RiskScore is the composite 0-100 risk score (higher = riskier) together
// with the flags that produced it, in rule-definition order.
type RiskScore struct {
	Score int        `json:"score"`
	Flags []RiskFlag `json:"flags"`
}
