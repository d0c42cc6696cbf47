package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"oncosurv/app"
	"oncosurv/domain/core"
	"oncosurv/domain/pipeline"
	"oncosurv/internal/config"
)

func newPredictCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Interactively estimate survival rate for single patients",
		Long: `Predict loads the stored snapshot and collects one patient record per
round through validated prompts. The session continues until you answer
"no" to another prediction; an input combination the model has never
seen yields "no prediction available" without ending the session.`,
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

			svc, err := app.LoadPredictionService(cmd.Context(), store, cfg.Snapshot.Name, log)
			if err != nil {
				if core.IsSnapshotCorruptError(err) {
					return fmt.Errorf("stored snapshot failed verification, retrain with \"oncosurv train\": %w", err)
				}
				return err
			}

			session := &predictSession{
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
				svc: svc,
			}
			return session.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "development-style logging")
	return cmd
}

type predictSession struct {
	in  *bufio.Scanner
	out io.Writer
	svc *app.PredictionService
}

func (s *predictSession) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Oral-cancer survival estimator. Enter one patient per round.")
	for {
		rec, ok := s.collectRecord()
		if !ok {
			return nil // input closed
		}

		outcome, err := s.svc.Predict(ctx, rec)
		switch {
		case err == nil:
			fmt.Fprintf(s.out, "\nEstimated survival rate: %.1f%%\n", outcome.SurvivalRate)
			fmt.Fprintf(s.out, "Risk assessment: %s\n", outcome.Bucket)
			for _, r := range outcome.Recommendations {
				fmt.Fprintf(s.out, "  - %s\n", r)
			}
		case core.IsUnknownCategoryError(err):
			// Recoverable: report and keep the session alive.
			fmt.Fprintf(s.out, "\nNo prediction available: %v\n", err)
		default:
			return err
		}

		fmt.Fprintln(s.out)
		again, ok := s.askChoice("Another prediction?", []string{"yes", "no"})
		if !ok || again == "no" {
			return nil
		}
		fmt.Fprintln(s.out)
	}
}

// collectRecord prompts for every feature with validation, re-asking until
// the value is acceptable. Returns false when stdin is exhausted.
func (s *predictSession) collectRecord() (pipeline.Record, bool) {
	age, ok := s.askInt("Age (0-120): ", 0, 120)
	if !ok {
		return nil, false
	}
	gender, ok := s.askChoice("Gender", []string{"Male", "Female"})
	if !ok {
		return nil, false
	}
	tobacco, ok := s.askChoice("Tobacco use", []string{"yes", "no"})
	if !ok {
		return nil, false
	}
	alcohol, ok := s.askChoice("Alcohol use", []string{"yes", "no"})
	if !ok {
		return nil, false
	}
	stage, ok := s.askChoice("Diagnosis stage", []string{"Early", "Moderate", "Late"})
	if !ok {
		return nil, false
	}
	treatment, ok := s.askChoice("Treatment type", []string{"Surgery", "Chemotherapy", "Radiation", "Combined"})
	if !ok {
		return nil, false
	}

	return pipeline.Record{
		"Age":             strconv.Itoa(age),
		"Gender":          gender,
		"Tobacco_Use":     tobacco,
		"Alcohol_Use":     alcohol,
		"Diagnosis_Stage": stage,
		"Treatment_Type":  treatment,
	}, true
}

func (s *predictSession) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *predictSession) askInt(prompt string, min, max int) (int, bool) {
	for {
		line, ok := s.readLine(prompt)
		if !ok {
			return 0, false
		}
		v, err := strconv.Atoi(line)
		if err != nil || v < min || v > max {
			fmt.Fprintf(s.out, "Please enter an integer between %d and %d.\n", min, max)
			continue
		}
		return v, true
	}
}

func (s *predictSession) askChoice(label string, choices []string) (string, bool) {
	prompt := fmt.Sprintf("%s (%s): ", label, strings.Join(choices, "/"))
	for {
		line, ok := s.readLine(prompt)
		if !ok {
			return "", false
		}
		for _, c := range choices {
			if strings.EqualFold(line, c) {
				return c, true
			}
		}
		fmt.Fprintf(s.out, "Please answer one of: %s.\n", strings.Join(choices, ", "))
	}
}
