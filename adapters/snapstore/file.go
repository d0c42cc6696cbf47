// Package snapstore persists sealed pipeline snapshots, either as local
// files or in a SQL registry.
package snapstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"oncosurv/domain/core"
	"oncosurv/domain/snapshot"
	"oncosurv/ports"
)

// FileStore writes one JSON bundle per model name under a directory.
// Saves go through a temp file and rename, so a crash mid-write never
// leaves a truncated snapshot behind.
type FileStore struct {
	dir string
	log *zap.Logger
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string, log *zap.Logger) (*FileStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save seals the bundle and atomically replaces the named snapshot.
func (s *FileStore) Save(ctx context.Context, name string, b *snapshot.Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := snapshot.Encode(b)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("snapshot rename: %w", err)
	}

	s.log.Info("snapshot saved",
		zap.String("name", name),
		zap.String("path", s.path(name)),
		zap.String("snapshot_id", b.SnapshotID.String()))
	return nil
}

// Load reads and verifies the named snapshot.
func (s *FileStore) Load(ctx context.Context, name string) (*snapshot.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrSnapshotNotFound, name)
		}
		return nil, fmt.Errorf("snapshot read: %w", err)
	}
	return snapshot.Decode(data)
}

var _ ports.SnapshotStore = (*FileStore)(nil)
