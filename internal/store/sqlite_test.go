package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/underwrite-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleAnalysis() *model.Analysis {
	return &model.Analysis{
		Extractions: []model.ExtractionResult{
			{Kind: model.KindRentRoll, OverallConfidence: 0.85},
		},
		Metrics: model.FinancialMetrics{NOI: model.Float(851250)},
		Risk: model.RiskScore{
			Score: 25,
			Flags: []model.RiskFlag{{Code: model.FlagTenantConcentration, Severity: model.SeverityWarning, Message: "test"}},
		},
		Validation: model.ValidationReport{OverallValid: true, ConfidenceScore: 0.8},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	saved, err := st.SaveRun(ctx, "maple_rent_roll.xlsx", sampleAnalysis())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, []string{"rent_roll"}, saved.Kinds)
	assert.Equal(t, 25, saved.RiskScore)
	assert.True(t, saved.Valid)

	got, err := st.GetRun(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "maple_rent_roll.xlsx", got.Filename)
	require.NotNil(t, got.Analysis)
	require.NotNil(t, got.Analysis.Metrics.NOI)
	assert.Equal(t, 851250.0, *got.Analysis.Metrics.NOI)
	require.Len(t, got.Analysis.Risk.Flags, 1)
	assert.Equal(t, model.FlagTenantConcentration, got.Analysis.Risk.Flags[0].Code)
}

func TestGetRun_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetRun(context.Background(), "does-not-exist")
	assert.Error(t, err)
}

func TestListRuns_Filters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.SaveRun(ctx, "a.xlsx", sampleAnalysis())
	require.NoError(t, err)

	other := sampleAnalysis()
	other.Extractions[0].Kind = model.KindLease
	_, err = st.SaveRun(ctx, "b.pdf", other)
	require.NoError(t, err)

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byFile, err := st.ListRuns(ctx, RunFilter{Filename: "a.xlsx"})
	require.NoError(t, err)
	require.Len(t, byFile, 1)
	assert.Equal(t, "a.xlsx", byFile[0].Filename)

	byKind, err := st.ListRuns(ctx, RunFilter{Kind: "lease"})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "b.pdf", byKind[0].Filename)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMigrate_Idempotent(t *testing.T) {
	st := newTestStore(t)
	assert.NoError(t, st.Migrate(context.Background()))
}
