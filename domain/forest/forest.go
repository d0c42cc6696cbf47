package forest

import (
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"oncosurv/domain/core"
)

// Config holds the ensemble hyperparameters.
type Config struct {
	NumTrees        int   `json:"num_trees"`
	MaxDepth        int   `json:"max_depth"` // 0 => unlimited
	MinSamplesSplit int   `json:"min_samples_split"`
	MinSamplesLeaf  int   `json:"min_samples_leaf"`
	MaxFeatures     int   `json:"max_features"` // 0 => p/3
	Seed            int64 `json:"seed"`
}

// DefaultConfig returns sensible defaults for small tabular datasets.
func DefaultConfig() Config {
	return Config{
		NumTrees:        200,
		MaxDepth:        12,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

// Forest is a bagged ensemble of regression trees. Immutable once fitted;
// concurrent Infer calls are safe because nothing mutates after Fit.
type Forest struct {
	Config      Config  `json:"config"`
	NumFeatures int     `json:"num_features"`
	Trees       []*Tree `json:"trees"`
}

// New creates an untrained forest.
func New(cfg Config) *Forest {
	return &Forest{Config: cfg}
}

// Fit grows the ensemble on a scaled feature matrix and target vector.
// Each tree draws its bootstrap sample and split randomness from an RNG
// seeded with Seed + tree index, so the result does not depend on the
// number of workers.
func (f *Forest) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 {
		return core.ErrEmptyDataset
	}
	if len(y) != len(x) {
		return fmt.Errorf("forest: %d rows but %d targets", len(x), len(y))
	}
	p := len(x[0])
	for i := range x {
		if len(x[i]) != p {
			return core.NewDimensionError(p, len(x[i]))
		}
	}
	if f.Config.NumTrees <= 0 {
		return fmt.Errorf("forest: NumTrees must be positive, got %d", f.Config.NumTrees)
	}

	n := len(x)
	trees := make([]*Tree, f.Config.NumTrees)

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for t := 0; t < f.Config.NumTrees; t++ {
		g.Go(func() error {
			rnd := rand.New(rand.NewSource(f.Config.Seed + int64(t)))
			sample := make([]int, n)
			for i := range sample {
				sample[i] = rnd.Intn(n)
			}
			trees[t] = growTree(f.Config, x, y, sample, rnd)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.NumFeatures = p
	f.Trees = trees
	return nil
}

// Trained reports whether the forest has been fitted.
func (f *Forest) Trained() bool {
	return len(f.Trees) > 0
}

// Infer returns the ensemble mean for one scaled feature vector.
func (f *Forest) Infer(x []float64) (float64, error) {
	if !f.Trained() {
		return 0, core.ErrModelNotTrained
	}
	if len(x) != f.NumFeatures {
		return 0, core.NewDimensionError(f.NumFeatures, len(x))
	}
	var sum float64
	for _, t := range f.Trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}
