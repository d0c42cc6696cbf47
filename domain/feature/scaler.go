package feature

import (
	"github.com/montanaflynn/stats"

	"oncosurv/domain/core"
)

// ScalingStats holds the per-column mean and standard deviation captured at
// fit time, applied as (x - mean) / std at inference time.
type ScalingStats struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes per-column statistics over the encoded training matrix.
// A column with zero standard deviation substitutes std = 1, so the feature
// becomes a constant-zero contribution instead of a division by zero.
func FitScaler(matrix [][]float64) (*ScalingStats, error) {
	if len(matrix) == 0 {
		return nil, core.ErrEmptyDataset
	}
	cols := len(matrix[0])
	s := &ScalingStats{
		Mean: make([]float64, cols),
		Std:  make([]float64, cols),
	}
	col := make([]float64, len(matrix))
	for j := 0; j < cols; j++ {
		for i, row := range matrix {
			if len(row) != cols {
				return nil, core.NewDimensionError(cols, len(row))
			}
			col[i] = row[j]
		}
		mean, err := stats.Mean(col)
		if err != nil {
			return nil, err
		}
		std, err := stats.StandardDeviationPopulation(col)
		if err != nil {
			return nil, err
		}
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}
	return s, nil
}

// Width returns the number of columns the stats were fitted on.
func (s *ScalingStats) Width() int {
	return len(s.Mean)
}

// Transform normalizes one feature vector column-wise.
func (s *ScalingStats) Transform(vector []float64) ([]float64, error) {
	if len(vector) != s.Width() {
		return nil, core.NewDimensionError(s.Width(), len(vector))
	}
	out := make([]float64, len(vector))
	for j, x := range vector {
		out[j] = (x - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

// TransformMatrix normalizes every row of a matrix.
func (s *ScalingStats) TransformMatrix(matrix [][]float64) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}
