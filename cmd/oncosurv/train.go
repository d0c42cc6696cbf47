package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"oncosurv/app"
	"oncosurv/internal/config"
)

func newTrainCmd() *cobra.Command {
	var (
		dataPath string
		profile  bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the survival model and save its snapshot",
		Long: `Train reads the tabular cohort, fits the encoding/scaling/forest
pipeline on an 80/20 split and stores the fitted snapshot under the
configured model name.

Example: oncosurv train --data data/oral_cancer.csv --profile`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer log.Sync()

			store, closeStore, err := buildStore(cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			svc := app.NewTrainingService(buildReader(cfg, dataPath, log), store, pipelineConfig(cfg), log)
			result, err := svc.Run(cmd.Context(), app.TrainRequest{
				ModelName: cfg.Snapshot.Name,
				Profile:   profile,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Model %q trained in %d ms\n", cfg.Snapshot.Name, result.RuntimeMs)
			fmt.Fprintf(out, "  snapshot:     %s\n", result.SnapshotID)
			fmt.Fprintf(out, "  train    R2 %.3f  RMSE %.2f  (%d rows)\n",
				result.Metrics.TrainR2, result.Metrics.TrainRMSE, result.Metrics.TrainRows)
			fmt.Fprintf(out, "  held-out R2 %.3f  RMSE %.2f  (%d rows)\n",
				result.Metrics.HoldoutR2, result.Metrics.HoldoutRMSE, result.Metrics.HoldoutRows)

			if result.Profile != nil {
				printProfile(out, result.Profile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "dataset file (CSV or XLSX); defaults to DATASET_PATH")
	cmd.Flags().BoolVar(&profile, "profile", false, "print a column profile before the metrics")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "development-style logging")

	return cmd
}
