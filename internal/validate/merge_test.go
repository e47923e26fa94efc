package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/underwrite-cli/internal/model"
)

func result(kind model.ExtractorKind, path string, value any, conf float64) model.ExtractionResult {
	fs := model.NewFieldSet()
	fs.Put(path, value, conf)
	return model.NewExtractionResult(kind, fs, model.Facts{}, "")
}

func TestMerge_SpecificityWins(t *testing.T) {
	// P&L reports higher confidence but the operating statement is the
	// narrower document type.
	pnl := result(model.KindProfitAndLoss, "summary.noi", 800000.0, 0.95)
	op := result(model.KindOperatingStatement, "summary.noi", 851250.0, 0.70)

	merged := Merge([]model.ExtractionResult{pnl, op})

	require.Contains(t, merged, "summary.noi")
	assert.Equal(t, model.KindOperatingStatement, merged["summary.noi"].Kind)
	assert.Equal(t, 851250.0, merged["summary.noi"].Value)
}

func TestMerge_ConfidenceBreaksSpecificityTie(t *testing.T) {
	rr := result(model.KindRentRoll, "premises.square_footage", 1150.0, 0.85)
	lease := result(model.KindLease, "premises.square_footage", 1200.0, 0.95)

	merged := Merge([]model.ExtractionResult{rr, lease})

	assert.Equal(t, model.KindLease, merged["premises.square_footage"].Kind)
	assert.Equal(t, 1200.0, merged["premises.square_footage"].Value)
}

func TestMerge_FullTieKeepsEarlierExtraction(t *testing.T) {
	first := result(model.KindRentRoll, "summary.occupancy_rate", 90.0, 0.85)
	second := result(model.KindLease, "summary.occupancy_rate", 75.0, 0.85)

	merged := Merge([]model.ExtractionResult{first, second})

	assert.Equal(t, model.KindRentRoll, merged["summary.occupancy_rate"].Kind)
	assert.Equal(t, 90.0, merged["summary.occupancy_rate"].Value)
}

func TestMerge_DisjointPathsUnion(t *testing.T) {
	a := result(model.KindRentRoll, "summary.total_units", 10, 0.95)
	b := result(model.KindProfitAndLoss, "summary.gross_income", 1275000.0, 0.85)

	merged := Merge([]model.ExtractionResult{a, b})

	assert.Len(t, merged, 2)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(nil))
}

func TestNumber(t *testing.T) {
	merged := map[string]MergedField{
		"float":  {Value: 90.5},
		"int":    {Value: 10},
		"string": {Value: "not numeric"},
	}

	require.NotNil(t, Number(merged, "float"))
	assert.Equal(t, 90.5, *Number(merged, "float"))
	require.NotNil(t, Number(merged, "int"))
	assert.Equal(t, 10.0, *Number(merged, "int"))
	assert.Nil(t, Number(merged, "string"))
	assert.Nil(t, Number(merged, "absent"))
}
