package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/underwrite-cli/internal/model"
)

func TestDefaultRegistry_Order(t *testing.T) {
	kinds := Kinds(DefaultRegistry().All())

	assert.Equal(t, []model.ExtractorKind{
		model.KindOperatingStatement,
		model.KindProfitAndLoss,
		model.KindRentRoll,
		model.KindLease,
	}, kinds)
}

func TestRegistry_MatchMultiple(t *testing.T) {
	// An operating statement reads as a P&L too; both must match.
	text := `Operating Statement

Revenue
  Rental Income    100,000

Expenses
  Insurance         38,750

Net Operating Income
`
	matched := DefaultRegistry().Match(text, "q3_operating_statement.txt")
	kinds := Kinds(matched)

	assert.Contains(t, kinds, model.KindOperatingStatement)
	assert.Contains(t, kinds, model.KindProfitAndLoss)
	assert.NotContains(t, kinds, model.KindLease)
}

func TestRegistry_MatchPreservesRegistrationOrder(t *testing.T) {
	text := `Operating Statement

Revenue
  Rental Income    100,000

Expenses
  Insurance         38,750

Net Operating Income
`
	matched := DefaultRegistry().Match(text, "")
	require.GreaterOrEqual(t, len(matched), 2)
	assert.Equal(t, model.KindOperatingStatement, matched[0].Kind())
	assert.Equal(t, model.KindProfitAndLoss, matched[1].Kind())
}

func TestRegistry_NoMatch(t *testing.T) {
	matched := DefaultRegistry().Match("completely unrelated text", "notes.txt")
	assert.Empty(t, matched)
}

func TestRegistry_EmptyInput(t *testing.T) {
	matched := DefaultRegistry().Match("", "")
	assert.Empty(t, matched)
}

func TestScanDocumentFacts(t *testing.T) {
	text := `Property Summary
NOI: $851,250
Occupancy: 92.5%
Appraised Value: $12,000,000
Loan Amount: $8,400,000
Annual Debt Service: $650,000
`
	facts := ScanDocumentFacts(text)

	require.NotNil(t, facts.NOI)
	assert.Equal(t, 851250.0, *facts.NOI)
	require.NotNil(t, facts.OccupancyRate)
	assert.Equal(t, 92.5, *facts.OccupancyRate)
	require.NotNil(t, facts.PropertyValue)
	assert.Equal(t, 12000000.0, *facts.PropertyValue)
	require.NotNil(t, facts.LoanAmount)
	assert.Equal(t, 8400000.0, *facts.LoanAmount)
	require.NotNil(t, facts.DebtService)
	assert.Equal(t, 650000.0, *facts.DebtService)
}

func TestScanDocumentFacts_AbsentStaysNil(t *testing.T) {
	facts := ScanDocumentFacts("rent roll with no stated figures")

	assert.Nil(t, facts.NOI)
	assert.Nil(t, facts.OccupancyRate)
	assert.Nil(t, facts.PropertyValue)
	assert.Nil(t, facts.LoanAmount)
	assert.Nil(t, facts.DebtService)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$1,275,000.50", 1275000.50, true},
		{"(423,750)", -423750, true},
		{"0", 0, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseAmount(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"92.5%", 92.5, true},
		{"92.5 %", 92.5, true},
		{"occupancy at 85% overall", 85, true},
		{"92.5", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parsePercent(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_Formats(t *testing.T) {
	for _, in := range []string{
		"January 1, 2023",
		"Jan 1, 2023",
		"01/01/2023",
		"1/1/2023",
		"2023-01-01",
		"1st January 2023",
	} {
		t.Run(in, func(t *testing.T) {
			d, ok := parseDate(in)
			require.True(t, ok)
			assert.Equal(t, "2023-01-01", isoDate(d))
		})
	}

	_, ok := parseDate("not a date")
	assert.False(t, ok)
}
