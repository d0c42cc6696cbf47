// Package snapshot defines the atomic persisted bundle of a fitted pipeline:
// feature order, vocabularies, scaling stats and the trained forest always
// travel together, because model weights are only meaningful relative to the
// exact encoding and scaling that produced the training matrix.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"oncosurv/domain/core"
	"oncosurv/domain/feature"
	"oncosurv/domain/forest"
)

// Version is bumped whenever the bundle layout changes incompatibly.
const Version = 1

// Metrics are the evaluation results of the training run that produced a
// bundle.
type Metrics struct {
	TrainR2     float64 `json:"train_r2"`
	TrainRMSE   float64 `json:"train_rmse"`
	HoldoutR2   float64 `json:"holdout_r2"`
	HoldoutRMSE float64 `json:"holdout_rmse"`
	TrainRows   int     `json:"train_rows"`
	HoldoutRows int     `json:"holdout_rows"`
}

// Bundle is the complete fitted state of one pipeline.
type Bundle struct {
	Version      int                           `json:"version"`
	SnapshotID   core.SnapshotID               `json:"snapshot_id"`
	CreatedAt    time.Time                     `json:"created_at"`
	FeatureOrder feature.Spec                  `json:"feature_order"`
	Target       string                        `json:"target"`
	Vocabularies map[string]feature.Vocabulary `json:"vocabularies"`
	Scaling      *feature.ScalingStats         `json:"scaling"`
	Model        *forest.Forest                `json:"model"`
	Metrics      Metrics                       `json:"metrics"`
	Fingerprint  core.Hash                     `json:"fingerprint"`
}

// fingerprint hashes the canonical bundle payload with the fingerprint
// field zeroed, so the stored hash covers everything else.
func (b *Bundle) fingerprint() (core.Hash, error) {
	clone := *b
	clone.Fingerprint = ""
	payload, err := json.Marshal(&clone)
	if err != nil {
		return "", err
	}
	return core.NewHash(payload), nil
}

// Validate runs the shape checks that guard against partial or mismatched
// state, the invalid condition a versioned bundle exists to prevent.
func (b *Bundle) Validate() error {
	if b.Version != Version {
		return core.NewSnapshotCorruptError(fmt.Sprintf("version %d, want %d", b.Version, Version))
	}
	if len(b.FeatureOrder) == 0 {
		return core.NewSnapshotCorruptError("empty feature order")
	}
	if b.Target == "" {
		return core.NewSnapshotCorruptError("missing target column")
	}
	for _, f := range b.FeatureOrder.Categorical() {
		v, ok := b.Vocabularies[f.Name]
		if !ok {
			return core.NewSnapshotCorruptError(fmt.Sprintf("no vocabulary for categorical feature %s", f.Name))
		}
		if v.Size() == 0 {
			return core.NewSnapshotCorruptError(fmt.Sprintf("empty vocabulary for feature %s", f.Name))
		}
	}
	if b.Scaling == nil {
		return core.NewSnapshotCorruptError("missing scaling stats")
	}
	if b.Scaling.Width() != len(b.FeatureOrder) {
		return core.NewSnapshotCorruptError(fmt.Sprintf(
			"scaling stats cover %d features, feature order has %d", b.Scaling.Width(), len(b.FeatureOrder)))
	}
	if b.Model == nil || !b.Model.Trained() {
		return core.NewSnapshotCorruptError("missing trained model")
	}
	if b.Model.NumFeatures != len(b.FeatureOrder) {
		return core.NewSnapshotCorruptError(fmt.Sprintf(
			"model expects %d features, feature order has %d", b.Model.NumFeatures, len(b.FeatureOrder)))
	}
	return nil
}

// Encode seals the bundle: it stamps the fingerprint and serializes to JSON.
func Encode(b *Bundle) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	fp, err := b.fingerprint()
	if err != nil {
		return nil, err
	}
	b.Fingerprint = fp
	return json.MarshalIndent(b, "", "  ")
}

// Decode parses and verifies a sealed bundle. Any version, fingerprint or
// shape mismatch is reported as ErrSnapshotCorrupt rather than producing an
// inconsistent pipeline.
func Decode(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, core.NewSnapshotCorruptError(fmt.Sprintf("not valid JSON: %v", err))
	}
	if b.Fingerprint.IsEmpty() {
		return nil, core.NewSnapshotCorruptError("missing fingerprint")
	}
	want, err := b.fingerprint()
	if err != nil {
		return nil, err
	}
	if !b.Fingerprint.Equals(want) {
		return nil, core.NewSnapshotCorruptError("fingerprint mismatch")
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
