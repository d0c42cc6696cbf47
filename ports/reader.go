// Package ports declares the boundary interfaces between the pipeline core
// and its adapters.
package ports

import (
	"context"

	"oncosurv/domain/dataset"
)

// DatasetReader loads raw tabular training data from an external source.
type DatasetReader interface {
	// Read loads the full dataset into memory. Training is batch-oriented;
	// there is no streaming contract.
	Read(ctx context.Context) (*dataset.Table, error)
}
