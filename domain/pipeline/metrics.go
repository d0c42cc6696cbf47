package pipeline

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"oncosurv/domain/snapshot"
)

// Metrics re-exports the snapshot metrics type; the bundle persists the
// evaluation of the run that produced it.
type Metrics = snapshot.Metrics

func rSquared(truth, estimates []float64) float64 {
	// A single observation has zero total variance, which would divide
	// through to NaN and poison the persisted metrics.
	if len(truth) < 2 {
		return 0
	}
	return stat.RSquaredFrom(estimates, truth, nil)
}

func rmse(truth, estimates []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	var sse float64
	for i := range truth {
		d := estimates[i] - truth[i]
		sse += d * d
	}
	return math.Sqrt(sse / float64(len(truth)))
}
