// Package metrics computes underwriting ratios from normalized extracted
// facts. Every function is pure: identical inputs always produce identical
// outputs, and no metric is ever fabricated from a missing or zero
// denominator.
package metrics

import "github.com/sells-group/underwrite-cli/internal/model"

// Inputs is the normalized bag the calculator consumes: merged extractor
// output plus any caller-supplied loan terms. Nil means unknown.
type Inputs struct {
	GrossIncome   *float64
	TotalExpenses *float64
	NOI           *float64
	PropertyValue *float64
	LoanAmount    *float64
	DebtService   *float64
	OccupancyRate *float64
}

// Compute derives the full metric set. NOI stated by an extractor is used
// as-is; otherwise it is recomputed from gross income and expenses so the
// reported figures stay mutually consistent. Ratios with a missing or
// non-positive denominator come back nil, which downstream consumers must
// treat as "not computable", never as zero.
func Compute(in Inputs) model.FinancialMetrics {
	noi := in.NOI
	if noi == nil && in.GrossIncome != nil && in.TotalExpenses != nil {
		v := *in.GrossIncome - *in.TotalExpenses
		noi = &v
	}

	m := model.FinancialMetrics{
		NOI:           noi,
		GrossIncome:   in.GrossIncome,
		TotalExpenses: in.TotalExpenses,
		OccupancyRate: in.OccupancyRate,
		LoanAmount:    in.LoanAmount,
		PropertyValue: in.PropertyValue,
		DebtService:   in.DebtService,
	}

	m.CapRate = ratio(noi, in.PropertyValue, 1)
	m.DSCR = ratio(noi, in.DebtService, 1)
	m.LTV = ratio(in.LoanAmount, in.PropertyValue, 100)
	m.DebtYield = ratio(noi, in.LoanAmount, 100)
	m.ExpenseRatio = ratio(in.TotalExpenses, in.GrossIncome, 100)

	return m
}

// ratio divides num by den scaled by scale, returning nil when either side
// is missing or the denominator is not positive.
func ratio(num, den *float64, scale float64) *float64 {
	if num == nil || den == nil || *den <= 0 {
		return nil
	}
	v := *num / *den * scale
	return &v
}
