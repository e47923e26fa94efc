package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/underwrite-cli/internal/extractor"
	"github.com/sells-group/underwrite-cli/internal/model"
	"github.com/sells-group/underwrite-cli/internal/risk"
	"github.com/sells-group/underwrite-cli/internal/validate"
)

var fixedNow = func() time.Time {
	return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
}

func newTestEngine(opts ...Option) *Engine {
	opts = append([]Option{WithClock(fixedNow)}, opts...)
	return New(risk.DefaultConfig(), validate.DefaultConfig(), opts...)
}

// rentRollDoc has ten units, nine occupied, with one tenant holding 25% of
// total rent.
const rentRollDoc = `Rent Roll - Maple Plaza

Unit	Tenant	Sq Ft	Monthly Rent	Lease End
1	Anchor Grocer	5,000	$10,000	12/31/2030
2	Tenant B	1,500	$3,400	06/30/2028
3	Tenant C	1,500	$3,400	06/30/2028
4	Tenant D	1,500	$3,400	06/30/2028
5	Tenant E	1,500	$3,400	06/30/2028
6	Tenant F	1,500	$3,400	06/30/2028
7	Tenant G	1,500	$3,400	06/30/2028
8	Tenant H	1,500	$3,400	06/30/2028
9	Tenant I	1,500	$3,400	06/30/2028
10	VACANT	1,500
`

func TestAnalyze_RentRollScenario(t *testing.T) {
	eng := newTestEngine()

	analysis, err := eng.Analyze(context.Background(), model.Document{
		Text:         rentRollDoc,
		FilenameHint: "maple_rent_roll.txt",
	}, model.LoanTerms{})

	require.NoError(t, err)
	require.Len(t, analysis.Extractions, 1)
	assert.Equal(t, model.KindRentRoll, analysis.Extractions[0].Kind)

	require.NotNil(t, analysis.Metrics.OccupancyRate)
	assert.InDelta(t, 90.0, *analysis.Metrics.OccupancyRate, 1e-9)

	// Anchor Grocer holds 10,000 of 37,200 monthly rent, about 26.9%.
	var codes []string
	for _, f := range analysis.Risk.Flags {
		codes = append(codes, f.Code)
	}
	assert.Contains(t, codes, model.FlagTenantConcentration)

	// The vacant unit carries no rent figure, but that absence is optional:
	// the document stays fully valid.
	assert.True(t, analysis.Validation.OverallValid)
	assert.Equal(t, fixedNow().UTC(), analysis.Validation.ValidatedAt)
}

func TestAnalyze_StatedOccupancyBeatsDerived(t *testing.T) {
	eng := newTestEngine()

	// A stated rate in the document body wins over the unit-count
	// derivation (9 of 10 occupied would give 90).
	text := strings.Replace(rentRollDoc,
		"Rent Roll - Maple Plaza",
		"Rent Roll - Maple Plaza\nOccupancy: 85.0%", 1)

	analysis, err := eng.Analyze(context.Background(), model.Document{
		Text:         text,
		FilenameHint: "maple_rent_roll.txt",
	}, model.LoanTerms{})

	require.NoError(t, err)
	require.NotNil(t, analysis.Metrics.OccupancyRate)
	assert.InDelta(t, 85.0, *analysis.Metrics.OccupancyRate, 1e-9)
}

func TestAnalyze_StatementWithLoanTerms(t *testing.T) {
	eng := newTestEngine()

	text := `Operating Statement

Revenue
  Rental Income                 1,275,000

Expenses
  Insurance                       423,750

Net Operating Income
`
	analysis, err := eng.Analyze(context.Background(), model.Document{Text: text}, model.LoanTerms{
		LoanAmount:    model.Float(8400000),
		DebtService:   model.Float(650000),
		PropertyValue: model.Float(12000000),
	})

	require.NoError(t, err)
	require.NotNil(t, analysis.Metrics.NOI)
	assert.InDelta(t, 851250.0, *analysis.Metrics.NOI, 0.01)
	require.NotNil(t, analysis.Metrics.DSCR)
	assert.InDelta(t, 851250.0/650000.0, *analysis.Metrics.DSCR, 1e-9)
	require.NotNil(t, analysis.Metrics.LTV)
	assert.InDelta(t, 70.0, *analysis.Metrics.LTV, 1e-9)
}

func TestAnalyze_DocumentFiguresBeatLoanTerms(t *testing.T) {
	eng := newTestEngine()

	text := `Operating Statement
Loan Amount: $9,000,000

Revenue
  Rental Income    100,000

Expenses
  Insurance         38,750

Net Operating Income
`
	analysis, err := eng.Analyze(context.Background(), model.Document{Text: text}, model.LoanTerms{
		LoanAmount:    model.Float(8400000),
		PropertyValue: model.Float(12000000),
	})

	require.NoError(t, err)
	require.NotNil(t, analysis.Metrics.LoanAmount)
	assert.Equal(t, 9000000.0, *analysis.Metrics.LoanAmount, "stated loan amount wins over caller terms")
	require.NotNil(t, analysis.Metrics.LTV)
	assert.InDelta(t, 75.0, *analysis.Metrics.LTV, 1e-9)
}

func TestAnalyze_NoMatchIsTerminal(t *testing.T) {
	eng := newTestEngine()

	analysis, err := eng.Analyze(context.Background(), model.Document{
		Text:         "completely unrelated text",
		FilenameHint: "notes.txt",
	}, model.LoanTerms{})

	require.NoError(t, err)
	assert.Empty(t, analysis.Extractions)
	assert.Nil(t, analysis.Metrics.NOI)
	assert.True(t, analysis.Validation.OverallValid)
}

func TestAnalyze_Idempotent(t *testing.T) {
	eng := newTestEngine()
	doc := model.Document{Text: rentRollDoc, FilenameHint: "maple_rent_roll.txt"}

	first, err := eng.Analyze(context.Background(), doc, model.LoanTerms{})
	require.NoError(t, err)
	second, err := eng.Analyze(context.Background(), doc, model.LoanTerms{})
	require.NoError(t, err)

	assert.Equal(t, first.Risk.Score, second.Risk.Score)
	assert.Equal(t, first.Validation.ConfidenceScore, second.Validation.ConfidenceScore)
	assert.Equal(t, len(first.Extractions), len(second.Extractions))
}

// panickingExtractor simulates an extractor implementation bug.
type panickingExtractor struct{}

func (panickingExtractor) Kind() model.ExtractorKind            { return model.KindLease }
func (panickingExtractor) CanHandle(string, string) bool        { return true }
func (panickingExtractor) Extract(string) model.ExtractionResult {
	panic("boom")
}
func (panickingExtractor) Validate(model.ExtractionResult) bool { return true }

func TestAnalyze_PanicRecovered(t *testing.T) {
	registry := extractor.NewRegistry(extractor.NewRentRoll(), panickingExtractor{})
	eng := newTestEngine(WithRegistry(registry))

	analysis, err := eng.Analyze(context.Background(), model.Document{
		Text:         rentRollDoc,
		FilenameHint: "maple_rent_roll.txt",
	}, model.LoanTerms{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	require.NotNil(t, analysis)
	require.Len(t, analysis.Extractions, 1, "successful extraction survives the panic")
	assert.Equal(t, model.KindRentRoll, analysis.Extractions[0].Kind)
	assert.Nil(t, analysis.Metrics.OccupancyRate, "metrics are not computed from a partial run")
}

func TestAnalyze_ResultsInRegistryOrder(t *testing.T) {
	eng := newTestEngine()

	text := `Operating Statement

Revenue
  Rental Income    100,000

Expenses
  Insurance         38,750

Net Operating Income
`
	for i := 0; i < 5; i++ {
		analysis, err := eng.Analyze(context.Background(), model.Document{Text: text}, model.LoanTerms{})
		require.NoError(t, err)
		require.Len(t, analysis.Extractions, 2)
		assert.Equal(t, model.KindOperatingStatement, analysis.Extractions[0].Kind)
		assert.Equal(t, model.KindProfitAndLoss, analysis.Extractions[1].Kind)
	}
}
