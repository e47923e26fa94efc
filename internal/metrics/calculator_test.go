package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/underwrite-cli/internal/model"
)

func TestCompute_FullInputs(t *testing.T) {
	m := Compute(Inputs{
		GrossIncome:   model.Float(1275000),
		TotalExpenses: model.Float(423750),
		PropertyValue: model.Float(12000000),
		LoanAmount:    model.Float(8400000),
		DebtService:   model.Float(650000),
		OccupancyRate: model.Float(90),
	})

	require.NotNil(t, m.NOI)
	assert.InDelta(t, 851250.0, *m.NOI, 0.01)

	require.NotNil(t, m.CapRate)
	assert.InDelta(t, 851250.0/12000000.0, *m.CapRate, 1e-9)

	require.NotNil(t, m.DSCR)
	assert.InDelta(t, 851250.0/650000.0, *m.DSCR, 1e-9)

	require.NotNil(t, m.LTV)
	assert.InDelta(t, 70.0, *m.LTV, 1e-9)

	require.NotNil(t, m.DebtYield)
	assert.InDelta(t, 851250.0/8400000.0*100, *m.DebtYield, 1e-9)

	require.NotNil(t, m.ExpenseRatio)
	assert.InDelta(t, 423750.0/1275000.0*100, *m.ExpenseRatio, 1e-9)
}

func TestCompute_StatedNOIWins(t *testing.T) {
	m := Compute(Inputs{
		NOI:           model.Float(900000),
		GrossIncome:   model.Float(1275000),
		TotalExpenses: model.Float(423750),
	})

	require.NotNil(t, m.NOI)
	assert.Equal(t, 900000.0, *m.NOI)
}

func TestCompute_ZeroPropertyValue(t *testing.T) {
	m := Compute(Inputs{
		NOI:           model.Float(851250),
		PropertyValue: model.Float(0),
		LoanAmount:    model.Float(8400000),
	})

	assert.Nil(t, m.CapRate)
	assert.Nil(t, m.LTV)
	require.NotNil(t, m.DebtYield)
}

func TestCompute_MissingDenominators(t *testing.T) {
	m := Compute(Inputs{NOI: model.Float(851250)})

	assert.Nil(t, m.CapRate)
	assert.Nil(t, m.DSCR)
	assert.Nil(t, m.LTV)
	assert.Nil(t, m.DebtYield)
	assert.Nil(t, m.ExpenseRatio)
}

func TestCompute_NegativeNOI(t *testing.T) {
	m := Compute(Inputs{
		GrossIncome:   model.Float(400000),
		TotalExpenses: model.Float(500000),
		DebtService:   model.Float(100000),
	})

	require.NotNil(t, m.NOI)
	assert.Equal(t, -100000.0, *m.NOI)
	require.NotNil(t, m.DSCR)
	assert.Equal(t, -1.0, *m.DSCR)
}

func TestCompute_NoNOIWithoutBothSides(t *testing.T) {
	m := Compute(Inputs{GrossIncome: model.Float(1275000)})
	assert.Nil(t, m.NOI)

	m = Compute(Inputs{TotalExpenses: model.Float(423750)})
	assert.Nil(t, m.NOI)
}

func TestCompute_Deterministic(t *testing.T) {
	in := Inputs{
		GrossIncome:   model.Float(1275000),
		TotalExpenses: model.Float(423750),
		PropertyValue: model.Float(12000000),
	}

	a := Compute(in)
	b := Compute(in)

	require.NotNil(t, a.CapRate)
	require.NotNil(t, b.CapRate)
	assert.Equal(t, *a.CapRate, *b.CapRate)
}
