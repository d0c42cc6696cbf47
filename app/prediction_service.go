package app

import (
	"context"

	"go.uber.org/zap"

	"oncosurv/domain/pipeline"
	"oncosurv/domain/snapshot"
	"oncosurv/internal/recommend"
	"oncosurv/ports"
)

// PredictionService serves single-patient predictions from a fitted
// pipeline. The fitted state is immutable, so one service instance can
// handle concurrent calls.
type PredictionService struct {
	pipe *pipeline.Pipeline
	log  *zap.Logger
}

// Outcome is one full prediction: estimate, bucket and guidance.
type Outcome struct {
	SurvivalRate    float64             `json:"survival_rate"`
	Bucket          pipeline.RiskBucket `json:"risk_bucket"`
	Recommendations []string            `json:"recommendations"`
}

// NewPredictionService wraps an already fitted pipeline.
func NewPredictionService(pipe *pipeline.Pipeline, log *zap.Logger) *PredictionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PredictionService{pipe: pipe, log: log}
}

// LoadPredictionService restores a pipeline from the named stored snapshot.
func LoadPredictionService(ctx context.Context, store ports.SnapshotStore, name string, log *zap.Logger) (*PredictionService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	bundle, err := store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	pipe := pipeline.New(pipeline.DefaultConfig(), log)
	if err := pipe.Restore(bundle); err != nil {
		return nil, err
	}
	log.Info("snapshot restored",
		zap.String("model", name),
		zap.String("snapshot_id", bundle.SnapshotID.String()))
	return &PredictionService{pipe: pipe, log: log}, nil
}

// Bundle re-exports the fitted state, for reporting endpoints.
func (s *PredictionService) Bundle() (*snapshot.Bundle, error) {
	return s.pipe.Export()
}

// Predict runs the pipeline on one record and attaches recommendations.
// Pipeline errors propagate unmodified; the caller decides presentation.
func (s *PredictionService) Predict(ctx context.Context, rec pipeline.Record) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pred, err := s.pipe.Predict(rec)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		SurvivalRate:    pred.SurvivalRate,
		Bucket:          pred.Bucket,
		Recommendations: recommend.For(rec, pred.Bucket),
	}, nil
}
