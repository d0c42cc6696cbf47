package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"oncosurv/adapters/snapstore"
	"oncosurv/adapters/tabular"
	"oncosurv/domain/pipeline"
	"oncosurv/internal/config"
	"oncosurv/ports"
)

func main() {
	// Optional .env; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "oncosurv",
		Short: "Oral-cancer survival prediction: train, inspect and serve a model from the command line",
	}

	rootCmd.AddCommand(
		newTrainCmd(),
		newPredictCmd(),
		newProfileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process-wide logger injected into every component.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// buildStore selects the snapshot backend from configuration.
func buildStore(cfg *config.Config, log *zap.Logger) (ports.SnapshotStore, func(), error) {
	if cfg.Snapshot.Backend == "sql" {
		store, err := snapstore.NewSQLStore(cfg.Snapshot.Driver, cfg.Snapshot.DSN, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	store, err := snapstore.NewFileStore(cfg.Snapshot.Dir, log)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

func buildReader(cfg *config.Config, path string, log *zap.Logger) *tabular.DataReader {
	if path == "" {
		path = cfg.Dataset.Path
	}
	return tabular.NewDataReader(path, cfg.Dataset.Sheet, log)
}

func pipelineConfig(cfg *config.Config) pipeline.Config {
	pcfg := pipeline.DefaultConfig()
	pcfg.Seed = cfg.Training.Seed
	pcfg.HoldoutFraction = cfg.Training.HoldoutFraction
	pcfg.Forest.NumTrees = cfg.Training.NumTrees
	pcfg.Forest.MaxDepth = cfg.Training.MaxDepth
	pcfg.Forest.Seed = cfg.Training.Seed
	return pcfg
}
