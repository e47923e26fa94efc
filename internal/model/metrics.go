package model

// FinancialMetrics holds the underwriting ratios derived from extracted
// facts. Pointer fields are nil when the metric is not computable (missing
// input or zero denominator); a nil ratio is never conflated with a
// computed zero.
//
// CapRate and DSCR are plain ratios; LTV, DebtYield, ExpenseRatio, and
// OccupancyRate are percentages in [0,100].
type FinancialMetrics struct {
	NOI           *float64 `json:"noi"`
	CapRate       *float64 `json:"capRate"`
	DSCR          *float64 `json:"dscr"`
	LTV           *float64 `json:"ltv"`
	OccupancyRate *float64 `json:"occupancyRate"`
	GrossIncome   *float64 `json:"grossIncome"`
	TotalExpenses *float64 `json:"totalExpenses"`
	ExpenseRatio  *float64 `json:"expenseRatio"`
	DebtYield     *float64 `json:"debtYield"`
	LoanAmount    *float64 `json:"loanAmount"`
	PropertyValue *float64 `json:"propertyValue"`
	DebtService   *float64 `json:"debtService"`
}
