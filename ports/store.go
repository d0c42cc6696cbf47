package ports

import (
	"context"

	"oncosurv/domain/snapshot"
)

// SnapshotStore persists and retrieves sealed pipeline bundles. The bundle
// is saved and loaded as one unit; a store never exposes partial state.
type SnapshotStore interface {
	// Save seals and persists a bundle under a model name, replacing any
	// previous snapshot of that name.
	Save(ctx context.Context, name string, b *snapshot.Bundle) error

	// Load retrieves and verifies the bundle stored under name. It returns
	// core.ErrSnapshotNotFound when no snapshot exists and
	// core.ErrSnapshotCorrupt when verification fails.
	Load(ctx context.Context, name string) (*snapshot.Bundle, error)
}
