package pipeline

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oncosurv/domain/core"
	"oncosurv/domain/dataset"
	"oncosurv/domain/snapshot"
	"oncosurv/internal/testkit"
)

func trainingTable(t *testing.T, rows int) *dataset.Table {
	t.Helper()
	cfg := testkit.DefaultCohortConfig()
	cfg.Rows = rows
	tbl, err := testkit.NewCohortGenerator(cfg).Generate()
	require.NoError(t, err)
	return tbl
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Forest.NumTrees = 60
	return cfg
}

func TestPredictBeforeFit(t *testing.T) {
	p := New(DefaultConfig(), nil)
	_, err := p.Predict(Record{})
	require.Error(t, err)
	assert.True(t, core.IsModelNotTrainedError(err))
	assert.False(t, p.Fitted())
}

func TestFitMissingColumn(t *testing.T) {
	tbl, err := dataset.NewTable(
		[]string{"Age", "Gender", "Tobacco_Use", "Alcohol_Use", "Diagnosis_Stage", "Survival_Rate"},
		nil,
	)
	require.NoError(t, err)

	p := New(DefaultConfig(), nil)
	_, err = p.Fit(tbl)
	require.Error(t, err)
	assert.True(t, core.IsSchemaError(err))
	assert.Contains(t, err.Error(), "Treatment_Type")
}

func TestFitEmptyTable(t *testing.T) {
	tbl, err := dataset.NewTable(
		append(DefaultConfig().Spec.Names(), "Survival_Rate"),
		nil,
	)
	require.NoError(t, err)

	p := New(DefaultConfig(), nil)
	_, err = p.Fit(tbl)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestFitReturnsMetrics(t *testing.T) {
	tbl := trainingTable(t, 100)

	p := New(testConfig(), nil)
	m, err := p.Fit(tbl)
	require.NoError(t, err)
	require.True(t, p.Fitted())

	assert.Equal(t, 80, m.TrainRows)
	assert.Equal(t, 20, m.HoldoutRows)
	assert.Greater(t, m.TrainR2, 0.9, "noise-free cohort should fit tightly")
	assert.Less(t, m.TrainRMSE, 5.0)
	assert.Greater(t, m.HoldoutR2, 0.5)
	assert.False(t, p.SnapshotID().IsEmpty())
}

func TestPredictUnknownCategory(t *testing.T) {
	tbl := trainingTable(t, 60)
	p := New(testConfig(), nil)
	_, err := p.Fit(tbl)
	require.NoError(t, err)

	rec, err := testkit.Record(tbl, 0)
	require.NoError(t, err)
	rec["Diagnosis_Stage"] = "Terminal"

	_, err = p.Predict(rec)
	require.Error(t, err)
	assert.True(t, core.IsUnknownCategoryError(err))
	assert.Contains(t, err.Error(), "Terminal")
}

func TestPredictMissingField(t *testing.T) {
	tbl := trainingTable(t, 60)
	p := New(testConfig(), nil)
	_, err := p.Fit(tbl)
	require.NoError(t, err)

	rec, err := testkit.Record(tbl, 0)
	require.NoError(t, err)
	delete(rec, "Age")

	_, err = p.Predict(rec)
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func TestPredictClampedRange(t *testing.T) {
	tbl := trainingTable(t, 100)
	p := New(testConfig(), nil)
	_, err := p.Fit(tbl)
	require.NoError(t, err)

	for row := 0; row < tbl.RowCount(); row++ {
		rec, err := testkit.Record(tbl, row)
		require.NoError(t, err)
		pred, err := p.Predict(rec)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pred.SurvivalRate, 0.0)
		assert.LessOrEqual(t, pred.SurvivalRate, 100.0)
		assert.Equal(t, BucketFor(pred.SurvivalRate), pred.Bucket)
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, 0.0, Clip(-12.3))
	assert.Equal(t, 100.0, Clip(141.7))
	assert.Equal(t, 55.5, Clip(55.5))
}

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		estimate float64
		want     RiskBucket
	}{
		{70.0, RiskLow},
		{69.9, RiskModerate},
		{40.0, RiskModerate},
		{39.9, RiskHigh},
		{100, RiskLow},
		{0, RiskHigh},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, BucketFor(tc.estimate), "estimate %.1f", tc.estimate)
	}
}

// TestFitSaveLoadPredict walks the full lifecycle: fit, seal the snapshot,
// decode it into a fresh pipeline and predict a record identical to a
// training row. The estimate must land near that row's recorded target.
func TestFitSaveLoadPredict(t *testing.T) {
	tbl := trainingTable(t, 96)

	p := New(testConfig(), nil)
	_, err := p.Fit(tbl)
	require.NoError(t, err)

	bundle, err := p.Export()
	require.NoError(t, err)
	data, err := snapshot.Encode(bundle)
	require.NoError(t, err)

	restoredBundle, err := snapshot.Decode(data)
	require.NoError(t, err)

	restored := New(DefaultConfig(), nil)
	require.NoError(t, restored.Restore(restoredBundle))
	require.True(t, restored.Fitted())
	assert.Equal(t, p.SnapshotID(), restored.SnapshotID())

	for _, row := range []int{0, 17, 48} {
		rec, err := testkit.Record(tbl, row)
		require.NoError(t, err)

		pred, err := restored.Predict(rec)
		require.NoError(t, err)

		recorded, err := tbl.Cell(row, "Survival_Rate")
		require.NoError(t, err)
		want, err := strconv.ParseFloat(recorded, 64)
		require.NoError(t, err)

		assert.InDelta(t, want, pred.SurvivalRate, 5, "row %d", row)

		// The restored pipeline agrees with the original exactly.
		orig, err := p.Predict(rec)
		require.NoError(t, err)
		assert.Equal(t, orig.SurvivalRate, pred.SurvivalRate)
	}
}

func TestFitDeterministicSplit(t *testing.T) {
	tbl := trainingTable(t, 60)

	a := New(testConfig(), nil)
	ma, err := a.Fit(tbl)
	require.NoError(t, err)

	b := New(testConfig(), nil)
	mb, err := b.Fit(tbl)
	require.NoError(t, err)

	assert.Equal(t, ma.TrainR2, mb.TrainR2)
	assert.Equal(t, ma.HoldoutRMSE, mb.HoldoutRMSE)

	rec, err := testkit.Record(tbl, 5)
	require.NoError(t, err)
	pa, err := a.Predict(rec)
	require.NoError(t, err)
	pb, err := b.Predict(rec)
	require.NoError(t, err)
	assert.Equal(t, pa.SurvivalRate, pb.SurvivalRate)
}

func TestExportBeforeFit(t *testing.T) {
	p := New(DefaultConfig(), nil)
	_, err := p.Export()
	assert.True(t, core.IsModelNotTrainedError(err))
}

func TestRestoreRejectsInvalidBundle(t *testing.T) {
	p := New(DefaultConfig(), nil)
	err := p.Restore(&snapshot.Bundle{Version: snapshot.Version})
	require.Error(t, err)
	assert.True(t, core.IsSnapshotCorruptError(err))
	assert.False(t, p.Fitted())
}

func TestFitHoldoutOnlyCategoryLeavesUnfitted(t *testing.T) {
	tbl := trainingTable(t, 30)
	cfg := testConfig()

	// Plant a category on a row the seeded split assigns to holdout, so
	// the train-fitted vocabulary has never seen it.
	_, holdIdx := holdoutSplit(tbl.RowCount(), cfg.HoldoutFraction, cfg.Seed)
	require.NotEmpty(t, holdIdx)
	stageCol := -1
	for i, c := range tbl.Columns {
		if c == "Diagnosis_Stage" {
			stageCol = i
		}
	}
	require.NotEqual(t, -1, stageCol)
	tbl.Rows[holdIdx[0]][stageCol] = "Recurrent"

	p := New(cfg, nil)
	_, err := p.Fit(tbl)
	require.Error(t, err)
	assert.True(t, core.IsUnknownCategoryError(err))

	assert.False(t, p.Fitted(), "a failed fit must leave the pipeline unfitted")
	assert.True(t, p.SnapshotID().IsEmpty())
	assert.Zero(t, p.Metrics().TrainRows)

	rec, err := testkit.Record(tbl, 0)
	require.NoError(t, err)
	_, err = p.Predict(rec)
	assert.True(t, core.IsModelNotTrainedError(err))
}

func TestFitSingleRowHoldoutMetricsFinite(t *testing.T) {
	// Constant categories keep every holdout row encodable regardless of
	// which row the split picks; seven rows yield a one-row holdout.
	cols := append(DefaultConfig().Spec.Names(), "Survival_Rate")
	rows := make([][]string, 7)
	for i := range rows {
		rows[i] = []string{
			strconv.Itoa(40 + 5*i), "Male", "yes", "no", "Early", "Surgery",
			strconv.Itoa(90 - 3*i),
		}
	}
	tbl, err := dataset.NewTable(cols, rows)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Forest.NumTrees = 20
	p := New(cfg, nil)
	m, err := p.Fit(tbl)
	require.NoError(t, err)

	assert.Equal(t, 1, m.HoldoutRows)
	assert.Zero(t, m.HoldoutR2)
	assert.False(t, math.IsNaN(m.HoldoutRMSE))
	assert.False(t, math.IsInf(m.HoldoutRMSE, 0))
}
