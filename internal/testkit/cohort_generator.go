// Package testkit generates deterministic synthetic patient cohorts for
// tests and local development.
package testkit

import (
	"math/rand"
	"strconv"

	"oncosurv/domain/dataset"
	"oncosurv/domain/feature"
)

// CohortConfig configures the synthetic cohort generator.
type CohortConfig struct {
	Rows  int     `json:"rows"`
	Noise float64 `json:"noise"` // max absolute jitter added to the survival rate
	Seed  int64   `json:"seed"`
}

// DefaultCohortConfig returns a small, noise-free cohort suitable for
// reproducibility tests.
func DefaultCohortConfig() CohortConfig {
	return CohortConfig{
		Rows:  80,
		Noise: 0,
		Seed:  42,
	}
}

// CohortGenerator produces tabular patient data whose survival rate is a
// known function of the risk factors, so sanity checks have a ground truth.
type CohortGenerator struct {
	config CohortConfig
	rng    *rand.Rand
}

// NewCohortGenerator creates a generator with its own seeded RNG.
func NewCohortGenerator(config CohortConfig) *CohortGenerator {
	return &CohortGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var (
	ages       = []int{40, 50, 60, 70}
	genders    = []string{"Male", "Female"}
	yesNo      = []string{"yes", "no"}
	stages     = []string{"Early", "Moderate", "Late"}
	treatments = []string{"Surgery", "Chemotherapy", "Radiation", "Combined"}
)

// Generate builds the cohort table with the full training schema.
func (g *CohortGenerator) Generate() (*dataset.Table, error) {
	columns := append(feature.DefaultSpec().Names(), feature.TargetColumn)
	rows := make([][]string, g.config.Rows)

	for i := 0; i < g.config.Rows; i++ {
		// Cycle the discrete values so every category appears many times
		// and identical combinations recur; randomness only perturbs the
		// target, never the coverage.
		age := ages[i%len(ages)]
		gender := genders[i%len(genders)]
		tobacco := yesNo[(i/2)%len(yesNo)]
		alcohol := yesNo[(i/3)%len(yesNo)]
		stage := stages[i%len(stages)]
		treatment := treatments[i%len(treatments)]

		rate := SurvivalRate(age, tobacco, alcohol, stage, treatment)
		if g.config.Noise > 0 {
			rate += (g.rng.Float64()*2 - 1) * g.config.Noise
		}
		if rate < 0 {
			rate = 0
		}
		if rate > 100 {
			rate = 100
		}

		rows[i] = []string{
			strconv.Itoa(age),
			gender,
			tobacco,
			alcohol,
			stage,
			treatment,
			strconv.FormatFloat(rate, 'f', 1, 64),
		}
	}

	return dataset.NewTable(columns, rows)
}

// SurvivalRate is the ground-truth target function of the synthetic cohort.
func SurvivalRate(age int, tobacco, alcohol, stage, treatment string) float64 {
	rate := 95.0
	rate -= float64(age-40) * 0.3
	if tobacco == "yes" {
		rate -= 12
	}
	if alcohol == "yes" {
		rate -= 8
	}
	switch stage {
	case "Moderate":
		rate -= 18
	case "Late":
		rate -= 38
	}
	switch treatment {
	case "Surgery":
		rate += 4
	case "Combined":
		rate += 7
	case "Radiation":
		rate += 1
	}
	return rate
}

// Record returns one table row as a prediction input, without the target.
func Record(tbl *dataset.Table, row int) (map[string]string, error) {
	rec := make(map[string]string)
	for _, name := range feature.DefaultSpec().Names() {
		v, err := tbl.Cell(row, name)
		if err != nil {
			return nil, err
		}
		rec[name] = v
	}
	return rec, nil
}
