package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Training errors
	ErrSchema       = errors.New("training schema invalid")
	ErrEmptyDataset = errors.New("dataset has no rows")

	// Inference errors
	ErrUnknownCategory   = errors.New("unknown category")
	ErrModelNotTrained   = errors.New("model not trained")
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	ErrInvalidValue      = errors.New("invalid feature value")

	// Persistence errors
	ErrSnapshotCorrupt  = errors.New("snapshot corrupt")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Error constructors with context

// NewSchemaError reports the training columns that are required but absent.
func NewSchemaError(missing []string) error {
	return fmt.Errorf("%w: missing columns [%s]", ErrSchema, strings.Join(missing, ", "))
}

// NewUnknownCategoryError reports a categorical value never observed during fit.
func NewUnknownCategoryError(feature, value string) error {
	return fmt.Errorf("%w: value %q for feature %s was not seen at fit time", ErrUnknownCategory, value, feature)
}

func NewDimensionError(want, got int) error {
	return fmt.Errorf("%w: want %d features, got %d", ErrDimensionMismatch, want, got)
}

func NewInvalidValueError(feature, value string, cause error) error {
	return fmt.Errorf("%w: feature %s value %q: %v", ErrInvalidValue, feature, value, cause)
}

func NewSnapshotCorruptError(reason string) error {
	return fmt.Errorf("%w: %s", ErrSnapshotCorrupt, reason)
}

// Error checking helpers
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

func IsUnknownCategoryError(err error) bool {
	return errors.Is(err, ErrUnknownCategory)
}

func IsModelNotTrainedError(err error) bool {
	return errors.Is(err, ErrModelNotTrained)
}

func IsSnapshotCorruptError(err error) bool {
	return errors.Is(err, ErrSnapshotCorrupt)
}
