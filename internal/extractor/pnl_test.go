package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/underwrite-cli/internal/model"
)

const pnlStatement = `Profit and Loss Statement
Maple Plaza - Year Ended December 31, 2024

Revenue
  Rental Income                 1,150,000
  Parking                          75,000
  Expense Reimbursements           50,000
  Total Revenue                 1,275,000

Expenses
  Property Taxes                  145,000
  Insurance                        38,750
  Utilities                        95,000
  Repairs and Maintenance          70,000
  Management Fees                  75,000
  Total Expenses                  423,750

Net Operating Income            851,250
`

func TestProfitAndLoss_CanHandle(t *testing.T) {
	e := NewProfitAndLoss()

	assert.True(t, e.CanHandle(pnlStatement, "maple_2024_p&l.pdf"))
	assert.True(t, e.CanHandle(pnlStatement, ""))
	assert.False(t, e.CanHandle(rentRollTabbed, "rentroll.xlsx"))
}

func TestProfitAndLoss_Extract(t *testing.T) {
	e := NewProfitAndLoss()
	result := e.Extract(pnlStatement)

	require.Len(t, result.Facts.Revenue, 3)
	require.Len(t, result.Facts.Expenses, 5)

	assert.Equal(t, "rental_income", result.Facts.Revenue[0].Category)
	assert.Equal(t, 1150000.0, result.Facts.Revenue[0].Amount)
	assert.Equal(t, "parking_income", result.Facts.Revenue[1].Category)
	assert.Equal(t, "other_income", result.Facts.Revenue[2].Category)

	assert.Equal(t, "property_taxes", result.Facts.Expenses[0].Category)
	assert.Equal(t, "insurance", result.Facts.Expenses[1].Category)
	assert.Equal(t, "utilities", result.Facts.Expenses[2].Category)
	assert.Equal(t, "repairs_maintenance", result.Facts.Expenses[3].Category)
	assert.Equal(t, "management_fees", result.Facts.Expenses[4].Category)

	assert.InDelta(t, 1275000.0, result.Fields["summary.gross_income"].(float64), 0.01)
	assert.InDelta(t, 423750.0, result.Fields["summary.total_expenses"].(float64), 0.01)
	assert.InDelta(t, 851250.0, result.Fields["summary.noi"].(float64), 0.01)
	assert.InDelta(t, 423750.0/1275000.0*100, result.Fields["summary.expense_ratio"].(float64), 1e-6)

	assert.True(t, e.Validate(result))
}

func TestProfitAndLoss_TotalRowsSkipped(t *testing.T) {
	result := NewProfitAndLoss().Extract(pnlStatement)

	// "Total Revenue" and "Total Expenses" rows are section footers, not
	// line items; summing them again would double the figures.
	for _, item := range result.Facts.Revenue {
		assert.NotContains(t, item.Description, "Total")
	}
	for _, item := range result.Facts.Expenses {
		assert.NotContains(t, item.Description, "Total")
	}
}

func TestProfitAndLoss_PriorPeriodVariance(t *testing.T) {
	text := `Income Statement

Revenue
  Rental Income       100,000     80,000

Expenses
  Insurance            38,750     36,500
  Utilities            12,000          0

Net Operating Income
`
	result := NewProfitAndLoss().Extract(text)

	require.Len(t, result.Facts.Revenue, 1)
	rent := result.Facts.Revenue[0]
	require.NotNil(t, rent.Prior)
	assert.Equal(t, 80000.0, *rent.Prior)
	require.NotNil(t, rent.Variance)
	assert.InDelta(t, 0.25, *rent.Variance, 1e-9)

	require.Len(t, result.Facts.Expenses, 2)
	utilities := result.Facts.Expenses[1]
	require.NotNil(t, utilities.Prior)
	assert.Equal(t, 0.0, *utilities.Prior)
	assert.Nil(t, utilities.Variance, "variance undefined against a zero prior")
}

func TestProfitAndLoss_UncategorizedItemsDropConfidence(t *testing.T) {
	text := `Revenue
  Rental Income       100,000
  Vending Machines      4,000

Expenses
  Insurance            38,750
`
	result := NewProfitAndLoss().Extract(text)

	require.Len(t, result.Facts.Revenue, 2)
	assert.Equal(t, "other", result.Facts.Revenue[1].Category)
	assert.Less(t,
		result.FieldConfidence["revenue[1].amount"],
		result.FieldConfidence["revenue[0].amount"],
	)
}

func TestProfitAndLoss_NoItems(t *testing.T) {
	e := NewProfitAndLoss()
	result := e.Extract("income statement with no figures at all")

	assert.Empty(t, result.Facts.Revenue)
	assert.Empty(t, result.Facts.Expenses)
	assert.Contains(t, result.RequiredMissing, "summary.gross_income")
	assert.Contains(t, result.RequiredMissing, "summary.total_expenses")
	assert.Contains(t, result.RequiredMissing, "summary.noi")
	assert.Equal(t, 0.0, result.OverallConfidence)
	assert.False(t, e.Validate(result))
}

func TestProfitAndLoss_Kind(t *testing.T) {
	assert.Equal(t, model.KindProfitAndLoss, NewProfitAndLoss().Kind())
}
