package forest

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oncosurv/domain/core"
)

func syntheticRegression(n int, seed int64) ([][]float64, []float64) {
	rnd := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := rnd.Float64()*2 - 1
		b := rnd.Float64()*2 - 1
		c := rnd.Float64()*2 - 1
		x[i] = []float64{a, b, c}
		// Piecewise target a tree ensemble can represent well.
		y[i] = 30*a - 15*b + 50
		if c > 0 {
			y[i] += 20
		}
	}
	return x, y
}

func TestInferBeforeFit(t *testing.T) {
	f := New(DefaultConfig())
	_, err := f.Infer([]float64{1, 2, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrModelNotTrained)
	assert.False(t, f.Trained())
}

func TestFitValidation(t *testing.T) {
	f := New(DefaultConfig())

	assert.ErrorIs(t, f.Fit(nil, nil), core.ErrEmptyDataset)
	assert.Error(t, f.Fit([][]float64{{1}, {2}}, []float64{1}))
	assert.Error(t, f.Fit([][]float64{{1, 2}, {3}}, []float64{1, 2}))
}

func TestFitDeterminism(t *testing.T) {
	x, y := syntheticRegression(120, 7)

	cfg := DefaultConfig()
	cfg.NumTrees = 60
	cfg.Seed = 1234

	a := New(cfg)
	require.NoError(t, a.Fit(x, y))
	b := New(cfg)
	require.NoError(t, b.Fit(x, y))

	// Identical data and seed reproduce bit-identical predictions, even
	// though trees are grown concurrently.
	probe := [][]float64{
		{0.3, -0.2, 0.9},
		{-0.8, 0.5, -0.1},
		{0.0, 0.0, 0.0},
	}
	for _, p := range probe {
		pa, err := a.Infer(p)
		require.NoError(t, err)
		pb, err := b.Infer(p)
		require.NoError(t, err)
		assert.Equal(t, pa, pb)
	}
}

func TestFitLearnsSignal(t *testing.T) {
	x, y := syntheticRegression(300, 11)

	cfg := DefaultConfig()
	cfg.NumTrees = 100
	f := New(cfg)
	require.NoError(t, f.Fit(x, y))
	assert.Equal(t, 3, f.NumFeatures)

	// In-sample predictions should track the target closely.
	var sse, sst, mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))
	for i := range x {
		got, err := f.Infer(x[i])
		require.NoError(t, err)
		sse += (got - y[i]) * (got - y[i])
		sst += (y[i] - mean) * (y[i] - mean)
	}
	r2 := 1 - sse/sst
	assert.Greater(t, r2, 0.8, "in-sample R^2")
}

func TestInferDimensionMismatch(t *testing.T) {
	x, y := syntheticRegression(50, 3)
	cfg := DefaultConfig()
	cfg.NumTrees = 10
	f := New(cfg)
	require.NoError(t, f.Fit(x, y))

	_, err := f.Infer([]float64{1})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}
