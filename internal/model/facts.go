package model

import "time"

// Tenant is one row of a rent roll.
type Tenant struct {
	Unit            string     `json:"unit,omitempty"`
	Name            string     `json:"name,omitempty"`
	SquareFootage   *float64   `json:"square_footage,omitempty"`
	CurrentRent     *float64   `json:"current_rent,omitempty"`
	LeaseStart      *time.Time `json:"lease_start,omitempty"`
	LeaseEnd        *time.Time `json:"lease_end,omitempty"`
	SecurityDeposit *float64   `json:"security_deposit,omitempty"`
	Occupied        bool       `json:"occupied"`
}

// LineItem is one categorized revenue or expense line from a statement.
// Prior holds the comparison-period amount when the statement carries one;
// Variance is (current-prior)/prior and is nil when the prior is zero.
type LineItem struct {
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Amount      float64  `json:"amount"`
	Prior       *float64 `json:"prior,omitempty"`
	Variance    *float64 `json:"variance,omitempty"`
}

// BudgetLine pairs an actual amount with its budgeted amount.
// VariancePct is nil when the budget is zero.
type BudgetLine struct {
	Description string   `json:"description"`
	Actual      float64  `json:"actual"`
	Budget      float64  `json:"budget"`
	Variance    float64  `json:"variance"`
	VariancePct *float64 `json:"variance_pct,omitempty"`
}

// Escalation is one step of a lease rent escalation schedule.
type Escalation struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
	// Kind is "percentage" or "fixed".
	Kind string `json:"kind"`
}

// Provision is a free-text lease clause captured for review.
type Provision struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}

// LeaseAbstract holds the structured terms pulled from a lease document.
type LeaseAbstract struct {
	LeaseType       string       `json:"lease_type,omitempty"`
	TenantName      string       `json:"tenant_name,omitempty"`
	UnitNumber      string       `json:"unit_number,omitempty"`
	SquareFootage   *float64     `json:"square_footage,omitempty"`
	BaseRent        *float64     `json:"base_rent,omitempty"`
	SecurityDeposit *float64     `json:"security_deposit,omitempty"`
	Commencement    *time.Time   `json:"commencement,omitempty"`
	Expiration      *time.Time   `json:"expiration,omitempty"`
	TermMonths      *int         `json:"term_months,omitempty"`
	Escalations     []Escalation `json:"escalations,omitempty"`
	RenewalOptions  []Provision  `json:"renewal_options,omitempty"`
	Provisions      []Provision  `json:"provisions,omitempty"`
}

// Period is the reporting period of an operating statement.
type Period struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
	// Type is "monthly", "quarterly", or "annual".
	Type string `json:"type,omitempty"`
}

// Facts carries the typed payload of an extraction, alongside the flattened
// field map. Risk rules read these instead of re-parsing dotted paths.
type Facts struct {
	Tenants  []Tenant       `json:"tenants,omitempty"`
	Revenue  []LineItem     `json:"revenue,omitempty"`
	Expenses []LineItem     `json:"expenses,omitempty"`
	Budget   []BudgetLine   `json:"budget,omitempty"`
	Lease    *LeaseAbstract `json:"lease,omitempty"`
	Period   *Period        `json:"period,omitempty"`
}

// MergeFacts combines facts from multiple extractions, applied in extractor
// registration order. Slices take the first non-empty contribution so the
// narrower extractor that ran a full tenant parse is not overwritten by a
// partial one later in the order.
func MergeFacts(all []Facts) Facts {
	var merged Facts
	for _, f := range all {
		if len(merged.Tenants) == 0 {
			merged.Tenants = f.Tenants
		}
		if len(merged.Revenue) == 0 {
			merged.Revenue = f.Revenue
		}
		if len(merged.Expenses) == 0 {
			merged.Expenses = f.Expenses
		}
		if len(merged.Budget) == 0 {
			merged.Budget = f.Budget
		}
		if merged.Lease == nil {
			merged.Lease = f.Lease
		}
		if merged.Period == nil {
			merged.Period = f.Period
		}
	}
	return merged
}
