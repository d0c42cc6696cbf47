// Package pipeline owns the encoder, scaler and model as one unit, applying
// the same ordered transformations at training and inference time.
package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"oncosurv/domain/core"
	"oncosurv/domain/dataset"
	"oncosurv/domain/feature"
	"oncosurv/domain/forest"
	"oncosurv/domain/snapshot"
)

// Config holds the orchestration parameters.
type Config struct {
	Spec            feature.Spec
	Target          string
	Seed            int64
	HoldoutFraction float64
	Forest          forest.Config
}

// DefaultConfig returns the oral-cancer survival configuration: the fixed
// feature schema, an 80/20 split and a seeded forest.
func DefaultConfig() Config {
	return Config{
		Spec:            feature.DefaultSpec(),
		Target:          feature.TargetColumn,
		Seed:            42,
		HoldoutFraction: 0.2,
		Forest:          forest.DefaultConfig(),
	}
}

// Record is one raw patient input: one value per feature, keyed by feature
// name. Numeric features arrive as their string form and are parsed at the
// pipeline boundary.
type Record map[string]string

// Pipeline is the orchestrator. It moves from Uninitialized to Fitted via
// Fit or Restore; there is no way back except constructing a new instance.
// Once fitted nothing mutates, so concurrent Predict calls are safe.
type Pipeline struct {
	cfg Config
	log *zap.Logger

	vocabs     map[string]feature.Vocabulary
	scaling    *feature.ScalingStats
	model      *forest.Forest
	metrics    Metrics
	snapshotID core.SnapshotID
	createdAt  time.Time
	fitted     bool
}

// New creates an unfitted pipeline. A nil logger is replaced with a no-op
// logger, so the zero dependency case stays quiet instead of panicking.
func New(cfg Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, log: log}
}

// Fitted reports whether the pipeline can serve predictions.
func (p *Pipeline) Fitted() bool {
	return p.fitted
}

// Spec returns the feature order in effect.
func (p *Pipeline) Spec() feature.Spec {
	return p.cfg.Spec
}

// Metrics returns the evaluation of the fit that produced the current state.
func (p *Pipeline) Metrics() Metrics {
	return p.metrics
}

// SnapshotID identifies the fitted state, for reporting and persistence.
func (p *Pipeline) SnapshotID() core.SnapshotID {
	return p.snapshotID
}

// Fit validates the training table, splits it 80/20 with the configured
// seed, fits encoder, scaler and model in dependency order on the train
// partition and evaluates on both partitions.
func (p *Pipeline) Fit(tbl *dataset.Table) (*Metrics, error) {
	required := append(p.cfg.Spec.Names(), p.cfg.Target)
	if missing := tbl.MissingColumns(required); len(missing) > 0 {
		return nil, core.NewSchemaError(missing)
	}
	if tbl.RowCount() == 0 {
		return nil, core.ErrEmptyDataset
	}

	target, err := tbl.FloatColumn(p.cfg.Target)
	if err != nil {
		return nil, err
	}

	trainIdx, holdIdx := holdoutSplit(tbl.RowCount(), p.cfg.HoldoutFraction, p.cfg.Seed)
	p.log.Info("training split",
		zap.Int("train_rows", len(trainIdx)),
		zap.Int("holdout_rows", len(holdIdx)),
		zap.Int64("seed", p.cfg.Seed))

	vocabs, err := p.fitVocabularies(tbl, trainIdx)
	if err != nil {
		return nil, err
	}

	trainMatrix, err := encodeRows(p.cfg.Spec, vocabs, tbl, trainIdx)
	if err != nil {
		return nil, err
	}
	scaling, err := feature.FitScaler(trainMatrix)
	if err != nil {
		return nil, err
	}
	scaledTrain, err := scaling.TransformMatrix(trainMatrix)
	if err != nil {
		return nil, err
	}

	trainTarget := pick(target, trainIdx)
	model := forest.New(p.cfg.Forest)
	if err := model.Fit(scaledTrain, trainTarget); err != nil {
		return nil, err
	}

	// Evaluate both partitions before touching pipeline state: a holdout
	// row holding a category the train partition never saw must leave the
	// pipeline unfitted, not half-trained.
	trainEst, err := estimateRows(p.cfg.Spec, vocabs, scaling, model, tbl, trainIdx)
	if err != nil {
		return nil, err
	}
	holdEst, err := estimateRows(p.cfg.Spec, vocabs, scaling, model, tbl, holdIdx)
	if err != nil {
		return nil, err
	}
	holdTarget := pick(target, holdIdx)

	p.vocabs = vocabs
	p.scaling = scaling
	p.model = model
	p.snapshotID = core.SnapshotID(core.NewID())
	p.createdAt = time.Now().UTC()
	p.fitted = true
	p.metrics = Metrics{
		TrainR2:     rSquared(trainTarget, trainEst),
		TrainRMSE:   rmse(trainTarget, trainEst),
		HoldoutR2:   rSquared(holdTarget, holdEst),
		HoldoutRMSE: rmse(holdTarget, holdEst),
		TrainRows:   len(trainIdx),
		HoldoutRows: len(holdIdx),
	}
	p.log.Info("training complete",
		zap.String("snapshot_id", p.snapshotID.String()),
		zap.Float64("train_r2", p.metrics.TrainR2),
		zap.Float64("holdout_r2", p.metrics.HoldoutR2),
		zap.Float64("holdout_rmse", p.metrics.HoldoutRMSE))

	return &p.metrics, nil
}

// Predict applies the full transformation chain to one record and clips the
// estimate into [0, 100]. Unknown categories and the not-trained state
// propagate unmodified; presentation is the caller's concern.
func (p *Pipeline) Predict(rec Record) (*Prediction, error) {
	if !p.fitted {
		return nil, core.ErrModelNotTrained
	}

	vector := make([]float64, len(p.cfg.Spec))
	for i, f := range p.cfg.Spec {
		raw, ok := rec[f.Name]
		if !ok {
			return nil, core.NewInvalidValueError(f.Name, "", fmt.Errorf("missing from record"))
		}
		v, err := encodeValue(f, p.vocabs, raw)
		if err != nil {
			return nil, err
		}
		vector[i] = v
	}

	scaled, err := p.scaling.Transform(vector)
	if err != nil {
		return nil, err
	}
	raw, err := p.model.Infer(scaled)
	if err != nil {
		return nil, err
	}

	rate := Clip(raw)
	return &Prediction{SurvivalRate: rate, Bucket: BucketFor(rate)}, nil
}

// Export returns the complete fitted state as one atomic bundle.
func (p *Pipeline) Export() (*snapshot.Bundle, error) {
	if !p.fitted {
		return nil, core.ErrModelNotTrained
	}
	return &snapshot.Bundle{
		Version:      snapshot.Version,
		SnapshotID:   p.snapshotID,
		CreatedAt:    p.createdAt,
		FeatureOrder: p.cfg.Spec,
		Target:       p.cfg.Target,
		Vocabularies: p.vocabs,
		Scaling:      p.scaling,
		Model:        p.model,
		Metrics:      p.metrics,
	}, nil
}

// Restore loads a validated bundle, replacing the pipeline configuration
// with the persisted feature order so prediction matches the fit exactly.
func (p *Pipeline) Restore(b *snapshot.Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	p.cfg.Spec = b.FeatureOrder
	p.cfg.Target = b.Target
	p.vocabs = b.Vocabularies
	p.scaling = b.Scaling
	p.model = b.Model
	p.metrics = b.Metrics
	p.snapshotID = b.SnapshotID
	p.createdAt = b.CreatedAt
	p.fitted = true
	return nil
}

func (p *Pipeline) fitVocabularies(tbl *dataset.Table, rows []int) (map[string]feature.Vocabulary, error) {
	vocabs := make(map[string]feature.Vocabulary)
	for _, f := range p.cfg.Spec.Categorical() {
		column, err := tbl.Column(f.Name)
		if err != nil {
			return nil, err
		}
		values := make([]string, len(rows))
		for i, r := range rows {
			values[i] = strings.TrimSpace(column[r])
		}
		vocabs[f.Name] = feature.FitVocabulary(f.Name, values)
	}
	return vocabs, nil
}

// estimateRows runs a transform chain over table rows, returning raw
// (unclipped) estimates for metric computation.
func estimateRows(spec feature.Spec, vocabs map[string]feature.Vocabulary, scaling *feature.ScalingStats, model *forest.Forest, tbl *dataset.Table, rows []int) ([]float64, error) {
	matrix, err := encodeRows(spec, vocabs, tbl, rows)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(matrix))
	for i, row := range matrix {
		scaled, err := scaling.Transform(row)
		if err != nil {
			return nil, err
		}
		est, err := model.Infer(scaled)
		if err != nil {
			return nil, err
		}
		out[i] = est
	}
	return out, nil
}

// encodeValue parses a numeric feature or looks up a categorical code.
func encodeValue(f feature.Feature, vocabs map[string]feature.Vocabulary, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if f.Kind == feature.KindNumeric {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, core.NewInvalidValueError(f.Name, raw, err)
		}
		return v, nil
	}
	code, err := vocabs[f.Name].Encode(raw)
	if err != nil {
		return 0, err
	}
	return float64(code), nil
}

// encodeRows builds the ordered numeric matrix for a row subset.
func encodeRows(spec feature.Spec, vocabs map[string]feature.Vocabulary, tbl *dataset.Table, rows []int) ([][]float64, error) {
	matrix := make([][]float64, len(rows))
	for i, r := range rows {
		vector := make([]float64, len(spec))
		for j, f := range spec {
			raw, err := tbl.Cell(r, f.Name)
			if err != nil {
				return nil, err
			}
			v, err := encodeValue(f, vocabs, raw)
			if err != nil {
				return nil, err
			}
			vector[j] = v
		}
		matrix[i] = vector
	}
	return matrix, nil
}

func pick(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, r := range idx {
		out[i] = values[r]
	}
	return out
}
