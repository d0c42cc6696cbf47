package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Snapshot.Backend)
	assert.Equal(t, "survival", cfg.Snapshot.Name)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, 0.2, cfg.Training.HoldoutFraction)
	assert.Equal(t, 200, cfg.Training.NumTrees)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SNAPSHOT_BACKEND", "sql")
	t.Setenv("SNAPSHOT_DRIVER", "postgres")
	t.Setenv("TRAINING_SEED", "1234")
	t.Setenv("NUM_TREES", "50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sql", cfg.Snapshot.Backend)
	assert.Equal(t, "postgres", cfg.Snapshot.Driver)
	assert.Equal(t, int64(1234), cfg.Training.Seed)
	assert.Equal(t, 50, cfg.Training.NumTrees)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("SNAPSHOT_BACKEND", "s3")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("SNAPSHOT_BACKEND", "sql")
		t.Setenv("SNAPSHOT_DRIVER", "mysql")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("holdout fraction out of range", func(t *testing.T) {
		t.Setenv("HOLDOUT_FRACTION", "1.5")
		_, err := Load()
		assert.Error(t, err)
	})
}
