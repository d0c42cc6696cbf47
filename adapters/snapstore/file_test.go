package snapstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oncosurv/domain/core"
	"oncosurv/domain/feature"
	"oncosurv/domain/forest"
	"oncosurv/domain/snapshot"
)

func fittedBundle(t *testing.T) *snapshot.Bundle {
	t.Helper()

	spec := feature.Spec{
		{Name: "Age", Kind: feature.KindNumeric},
		{Name: "Tobacco_Use", Kind: feature.KindCategorical},
	}
	vocab := feature.FitVocabulary("Tobacco_Use", []string{"yes", "no"})

	matrix := [][]float64{{50, 0}, {61, 1}, {72, 0}, {44, 1}}
	scaling, err := feature.FitScaler(matrix)
	require.NoError(t, err)

	cfg := forest.DefaultConfig()
	cfg.NumTrees = 5
	model := forest.New(cfg)
	require.NoError(t, model.Fit(matrix, []float64{60, 75, 30, 88}))

	return &snapshot.Bundle{
		Version:      snapshot.Version,
		SnapshotID:   core.SnapshotID(core.NewID()),
		CreatedAt:    time.Now().UTC(),
		FeatureOrder: spec,
		Target:       feature.TargetColumn,
		Vocabularies: map[string]feature.Vocabulary{"Tobacco_Use": vocab},
		Scaling:      scaling,
		Model:        model,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	b := fittedBundle(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "survival", b))

	got, err := store.Load(ctx, "survival")
	require.NoError(t, err)
	assert.Equal(t, b.SnapshotID, got.SnapshotID)
	assert.Equal(t, b.Fingerprint, got.Fingerprint)
	assert.Equal(t, b.Vocabularies, got.Vocabularies)
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	first := fittedBundle(t)
	require.NoError(t, store.Save(ctx, "survival", first))

	second := fittedBundle(t)
	require.NoError(t, store.Save(ctx, "survival", second))

	got, err := store.Load(ctx, "survival")
	require.NoError(t, err)
	assert.Equal(t, second.SnapshotID, got.SnapshotID)
}

func TestFileStoreMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "absent")
	assert.ErrorIs(t, err, core.ErrSnapshotNotFound)
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "survival.json"), []byte("{\"version\":1}"), 0o644))

	_, err = store.Load(context.Background(), "survival")
	assert.True(t, core.IsSnapshotCorruptError(err))
}

func TestFileStoreRejectsUnfittedBundle(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	err = store.Save(context.Background(), "survival", &snapshot.Bundle{Version: snapshot.Version})
	assert.True(t, core.IsSnapshotCorruptError(err))
}
