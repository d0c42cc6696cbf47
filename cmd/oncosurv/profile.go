package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"oncosurv/domain/feature"
	"oncosurv/internal/config"
	"oncosurv/internal/profiling"
)

func newProfileCmd() *cobra.Command {
	var (
		dataPath string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Summarize the training columns without fitting a model",
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

			tbl, err := buildReader(cfg, dataPath, log).Read(cmd.Context())
			if err != nil {
				return err
			}
			report, err := profiling.ProfileTable(tbl, feature.DefaultSpec(), feature.TargetColumn)
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "dataset file (CSV or XLSX); defaults to DATASET_PATH")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "development-style logging")

	return cmd
}

func printProfile(out io.Writer, report *profiling.Report) {
	fmt.Fprintf(out, "\nColumn profile (%d rows)\n", report.Rows)
	for _, p := range report.Numeric {
		fmt.Fprintf(out, "  %-16s mean %.2f  std %.2f  min %.1f  median %.1f  max %.1f",
			p.Name, p.Mean, p.StdDev, p.Min, p.Median, p.Max)
		if p.IsNormal {
			fmt.Fprintf(out, "  ~normal (p=%.3f)", p.NormalP)
		}
		fmt.Fprintln(out)
	}
	for _, p := range report.Categorical {
		fmt.Fprintf(out, "  %-16s %d categories:", p.Name, p.Distinct)
		for _, c := range p.Categories {
			fmt.Fprintf(out, " %s(%d)", c.Value, c.Count)
		}
		fmt.Fprintln(out)
	}
}
