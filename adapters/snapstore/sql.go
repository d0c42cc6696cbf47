package snapstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"oncosurv/domain/core"
	"oncosurv/domain/snapshot"
	"oncosurv/ports"
)

// SQLStore keeps one sealed bundle per model name in a relational registry.
// The default driver is sqlite3 for single-machine use; postgres serves a
// registry shared between training and serving hosts. The bundle bytes are
// stored verbatim, so Load re-runs the same verification as the file store.
type SQLStore struct {
	db  *sqlx.DB
	log *zap.Logger
}

const schemaStatement = `
CREATE TABLE IF NOT EXISTS model_snapshots (
	name        TEXT PRIMARY KEY,
	snapshot_id TEXT NOT NULL,
	version     INTEGER NOT NULL,
	fingerprint TEXT NOT NULL,
	bundle      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
)`

// NewSQLStore connects with the given driver ("sqlite3" or "postgres") and
// ensures the registry table exists.
func NewSQLStore(driver, dsn string, log *zap.Logger) (*SQLStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("snapshot registry connect (%s): %w", driver, err)
	}
	if _, err := db.Exec(schemaStatement); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot registry schema: %w", err)
	}
	return &SQLStore{db: db, log: log}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Save seals the bundle and upserts it under the model name.
func (s *SQLStore) Save(ctx context.Context, name string, b *snapshot.Bundle) error {
	data, err := snapshot.Encode(b)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO model_snapshots (name, snapshot_id, version, fingerprint, bundle, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			snapshot_id = excluded.snapshot_id,
			version     = excluded.version,
			fingerprint = excluded.fingerprint,
			bundle      = excluded.bundle,
			created_at  = excluded.created_at`),
		name, b.SnapshotID.String(), b.Version, b.Fingerprint.String(), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("snapshot registry save: %w", err)
	}

	s.log.Info("snapshot saved to registry",
		zap.String("name", name),
		zap.String("snapshot_id", b.SnapshotID.String()))
	return nil
}

// Load fetches the named bundle and verifies it before returning.
func (s *SQLStore) Load(ctx context.Context, name string) (*snapshot.Bundle, error) {
	var row struct {
		Bundle      string `db:"bundle"`
		Fingerprint string `db:"fingerprint"`
	}
	err := s.db.GetContext(ctx, &row,
		s.db.Rebind(`SELECT bundle, fingerprint FROM model_snapshots WHERE name = ?`), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot registry load: %w", err)
	}

	b, err := snapshot.Decode([]byte(row.Bundle))
	if err != nil {
		return nil, err
	}
	if b.Fingerprint.String() != row.Fingerprint {
		return nil, core.NewSnapshotCorruptError("registry fingerprint column does not match bundle")
	}
	return b, nil
}

var _ ports.SnapshotStore = (*SQLStore)(nil)
