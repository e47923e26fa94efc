package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtractionResult_OverallIsMean(t *testing.T) {
	fs := NewFieldSet()
	fs.Put("summary.gross_income", 1275000.0, 0.9)
	fs.Put("summary.total_expenses", 423750.0, 0.7)

	r := NewExtractionResult(KindProfitAndLoss, fs, Facts{}, "")

	assert.InDelta(t, 0.8, r.OverallConfidence, 1e-9)
	assert.Equal(t, 2, r.FieldCount())
	assert.Empty(t, r.RequiredMissing)
}

func TestNewExtractionResult_RequiredMissingCountsAsZero(t *testing.T) {
	fs := NewFieldSet()
	fs.Put("tenant.0.unit", "101", 0.9)
	fs.Put("tenant.0.monthly_rent", 2500.0, 0.9)
	fs.MarkRequiredMissing("tenant.0.square_footage")

	r := NewExtractionResult(KindRentRoll, fs, Facts{}, "")

	// (0.9 + 0.9 + 0) / 3
	assert.InDelta(t, 0.6, r.OverallConfidence, 1e-9)
	assert.Equal(t, []string{"tenant.0.square_footage"}, r.RequiredMissing)
}

func TestNewExtractionResult_OptionalMissingDoesNotDilute(t *testing.T) {
	fs := NewFieldSet()
	fs.Put("lease.base_rent", 4200.0, 0.85)
	// Optional fields that were never found are simply not added.

	r := NewExtractionResult(KindLease, fs, Facts{}, "")

	assert.InDelta(t, 0.85, r.OverallConfidence, 1e-9)
}

func TestNewExtractionResult_EmptyFieldSet(t *testing.T) {
	r := NewExtractionResult(KindLease, NewFieldSet(), Facts{}, "")

	assert.Equal(t, 0.0, r.OverallConfidence)
	assert.Equal(t, 0, r.FieldCount())
}

func TestFieldSet_PutClampsConfidence(t *testing.T) {
	fs := NewFieldSet()
	fs.Put("a", 1, 1.7)
	fs.Put("b", 2, -0.3)

	r := NewExtractionResult(KindRentRoll, fs, Facts{}, "")

	assert.Equal(t, 1.0, r.FieldConfidence["a"])
	assert.Equal(t, 0.0, r.FieldConfidence["b"])
}

func TestRecomputeOverall_MatchesConstruction(t *testing.T) {
	fs := NewFieldSet()
	fs.Put("x", 1.0, 0.95)
	fs.Put("y", 2.0, 0.60)
	fs.MarkRequiredMissing("z")

	r := NewExtractionResult(KindOperatingStatement, fs, Facts{}, "")

	require.InDelta(t, r.OverallConfidence, r.RecomputeOverall(), 1e-12)
}

func TestSpecificity_Ordering(t *testing.T) {
	assert.Greater(t, KindOperatingStatement.Specificity(), KindRentRoll.Specificity())
	assert.Greater(t, KindOperatingStatement.Specificity(), KindProfitAndLoss.Specificity())
	assert.Greater(t, KindRentRoll.Specificity(), KindProfitAndLoss.Specificity())
	assert.Equal(t, KindRentRoll.Specificity(), KindLease.Specificity())
	assert.Equal(t, 0, ExtractorKind("unknown").Specificity())
}
