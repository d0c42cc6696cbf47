// Package config reads application configuration from environment
// variables, optionally pre-populated from a .env file by the hosting
// process.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the complete application configuration.
type Config struct {
	Dataset  DatasetConfig
	Snapshot SnapshotConfig
	Training TrainingConfig
	Server   ServerConfig
}

// DatasetConfig locates the training data.
type DatasetConfig struct {
	Path  string // CSV or XLSX file
	Sheet string // Excel sheet name, ignored for CSV
}

// SnapshotConfig selects where fitted snapshots are stored.
type SnapshotConfig struct {
	Backend string // "file" or "sql"
	Dir     string // file backend: snapshot directory
	Driver  string // sql backend: "sqlite3" or "postgres"
	DSN     string // sql backend: data source name
	Name    string // model name within the store
}

// TrainingConfig holds the reproducibility and ensemble knobs.
type TrainingConfig struct {
	Seed            int64
	HoldoutFraction float64
	NumTrees        int
	MaxDepth        int
}

// ServerConfig holds the prediction API settings.
type ServerConfig struct {
	Port    string
	GinMode string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Dataset: DatasetConfig{
			Path:  getEnvOrDefault("DATASET_PATH", "data/oral_cancer.csv"),
			Sheet: getEnvOrDefault("DATASET_SHEET", "Sheet1"),
		},
		Snapshot: SnapshotConfig{
			Backend: getEnvOrDefault("SNAPSHOT_BACKEND", "file"),
			Dir:     getEnvOrDefault("SNAPSHOT_DIR", "snapshots"),
			Driver:  getEnvOrDefault("SNAPSHOT_DRIVER", "sqlite3"),
			DSN:     getEnvOrDefault("SNAPSHOT_DSN", "snapshots/registry.db"),
			Name:    getEnvOrDefault("MODEL_NAME", "survival"),
		},
		Training: TrainingConfig{
			Seed:            getEnvInt64OrDefault("TRAINING_SEED", 42),
			HoldoutFraction: getEnvFloatOrDefault("HOLDOUT_FRACTION", 0.2),
			NumTrees:        getEnvIntOrDefault("NUM_TREES", 200),
			MaxDepth:        getEnvIntOrDefault("MAX_DEPTH", 12),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Snapshot.Backend {
	case "file", "sql":
	default:
		return fmt.Errorf("SNAPSHOT_BACKEND must be \"file\" or \"sql\", got %q", cfg.Snapshot.Backend)
	}
	if cfg.Snapshot.Backend == "sql" {
		switch cfg.Snapshot.Driver {
		case "sqlite3", "postgres":
		default:
			return fmt.Errorf("SNAPSHOT_DRIVER must be \"sqlite3\" or \"postgres\", got %q", cfg.Snapshot.Driver)
		}
	}
	if cfg.Training.HoldoutFraction < 0 || cfg.Training.HoldoutFraction >= 1 {
		return fmt.Errorf("HOLDOUT_FRACTION must be in [0, 1), got %g", cfg.Training.HoldoutFraction)
	}
	if cfg.Training.NumTrees <= 0 {
		return fmt.Errorf("NUM_TREES must be positive, got %d", cfg.Training.NumTrees)
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64OrDefault(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
