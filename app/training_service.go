// Package app wires the pipeline core to its adapters: training runs and
// prediction serving.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"oncosurv/domain/core"
	"oncosurv/domain/pipeline"
	"oncosurv/internal/profiling"
	"oncosurv/ports"
)

// TrainingService executes a full training run: read, profile, fit, persist.
type TrainingService struct {
	reader ports.DatasetReader
	store  ports.SnapshotStore
	cfg    pipeline.Config
	log    *zap.Logger
}

// TrainRequest names the snapshot to produce and whether to profile first.
type TrainRequest struct {
	ModelName string
	Profile   bool
}

// TrainResult is the outcome of one training run.
type TrainResult struct {
	RunID      core.RunID         `json:"run_id"`
	SnapshotID core.SnapshotID    `json:"snapshot_id"`
	Metrics    pipeline.Metrics   `json:"metrics"`
	Profile    *profiling.Report  `json:"profile,omitempty"`
	RuntimeMs  int64              `json:"runtime_ms"`
	Pipeline   *pipeline.Pipeline `json:"-"`
}

// NewTrainingService assembles a training service.
func NewTrainingService(reader ports.DatasetReader, store ports.SnapshotStore, cfg pipeline.Config, log *zap.Logger) *TrainingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TrainingService{reader: reader, store: store, cfg: cfg, log: log}
}

// Run trains a fresh pipeline and saves its snapshot under the model name.
// There is no incremental update: a new run supersedes the stored snapshot
// wholesale.
func (s *TrainingService) Run(ctx context.Context, req TrainRequest) (*TrainResult, error) {
	start := time.Now()
	runID := core.RunID(core.NewID())
	log := s.log.With(zap.String("run_id", runID.String()))

	tbl, err := s.reader.Read(ctx)
	if err != nil {
		return nil, err
	}

	result := &TrainResult{RunID: runID}
	if req.Profile {
		profile, err := profiling.ProfileTable(tbl, s.cfg.Spec, s.cfg.Target)
		if err != nil {
			return nil, err
		}
		result.Profile = profile
	}

	p := pipeline.New(s.cfg, log)
	metrics, err := p.Fit(tbl)
	if err != nil {
		return nil, err
	}

	bundle, err := p.Export()
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, req.ModelName, bundle); err != nil {
		return nil, err
	}

	result.SnapshotID = p.SnapshotID()
	result.Metrics = *metrics
	result.RuntimeMs = time.Since(start).Milliseconds()
	result.Pipeline = p

	log.Info("training run complete",
		zap.String("model", req.ModelName),
		zap.String("snapshot_id", result.SnapshotID.String()),
		zap.Int64("runtime_ms", result.RuntimeMs))
	return result, nil
}
