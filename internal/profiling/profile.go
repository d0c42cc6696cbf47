// Package profiling summarizes training columns before a fit: distribution
// shape for numeric features, cardinality for categorical ones. Text output
// only; no plotting.
package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"oncosurv/domain/dataset"
	"oncosurv/domain/feature"
)

// NumericProfile is the distribution summary of one numeric column.
type NumericProfile struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	IsNormal bool    `json:"is_normal"`
	NormalP  float64 `json:"normal_p"`
}

// CategoryCount is one category with its frequency.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalProfile is the cardinality summary of one categorical column.
type CategoricalProfile struct {
	Name       string          `json:"name"`
	Count      int             `json:"count"`
	Distinct   int             `json:"distinct"`
	Categories []CategoryCount `json:"categories"`
}

// Report covers every feature column plus the target.
type Report struct {
	Rows        int                  `json:"rows"`
	Numeric     []NumericProfile     `json:"numeric"`
	Categorical []CategoricalProfile `json:"categorical"`
}

// ProfileTable profiles a training table against a feature spec. The target
// column is profiled as numeric.
func ProfileTable(tbl *dataset.Table, spec feature.Spec, target string) (*Report, error) {
	report := &Report{Rows: tbl.RowCount()}

	numericColumns := []string{}
	for _, f := range spec {
		if f.Kind == feature.KindNumeric {
			numericColumns = append(numericColumns, f.Name)
		}
	}
	numericColumns = append(numericColumns, target)

	for _, name := range numericColumns {
		values, err := tbl.FloatColumn(name)
		if err != nil {
			return nil, err
		}
		p, err := ProfileNumeric(name, values)
		if err != nil {
			return nil, err
		}
		report.Numeric = append(report.Numeric, p)
	}

	for _, f := range spec.Categorical() {
		values, err := tbl.Column(f.Name)
		if err != nil {
			return nil, err
		}
		report.Categorical = append(report.Categorical, ProfileCategorical(f.Name, values))
	}
	return report, nil
}

// ProfileNumeric computes the distribution summary of one column.
func ProfileNumeric(name string, data []float64) (NumericProfile, error) {
	p := NumericProfile{Name: name, Count: len(data)}
	if len(data) == 0 {
		return p, nil
	}

	var err error
	if p.Mean, err = stats.Mean(data); err != nil {
		return p, err
	}
	if p.StdDev, err = stats.StandardDeviation(data); err != nil {
		return p, err
	}
	if p.Min, err = stats.Min(data); err != nil {
		return p, err
	}
	if p.Max, err = stats.Max(data); err != nil {
		return p, err
	}
	if p.Median, err = stats.Median(data); err != nil {
		return p, err
	}
	if len(data) >= 4 {
		if p.Q25, err = stats.Percentile(data, 25); err != nil {
			return p, err
		}
		if p.Q75, err = stats.Percentile(data, 75); err != nil {
			return p, err
		}
	}

	p.Skewness = skewness(data, p.Mean, p.StdDev)
	p.Kurtosis = kurtosis(data, p.Mean, p.StdDev)
	p.IsNormal, p.NormalP = normalityCheck(p.Skewness, p.Kurtosis, len(data))
	return p, nil
}

// ProfileCategorical counts categories, most frequent first.
func ProfileCategorical(name string, values []string) CategoricalProfile {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}

	categories := make([]CategoryCount, 0, len(counts))
	for v, c := range counts {
		categories = append(categories, CategoryCount{Value: v, Count: c})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Value < categories[j].Value
	})

	return CategoricalProfile{
		Name:       name,
		Count:      len(values),
		Distinct:   len(counts),
		Categories: categories,
	}
}

func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	var sum float64
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return (sum / n) * math.Sqrt(n*(n-1)) / (n - 2)
}

func kurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	var sum float64
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	return sum / n
}

// normalityCheck is a Jarque-Bera style approximation: the test statistic is
// asymptotically chi-squared with two degrees of freedom under normality.
func normalityCheck(skew, kurt float64, n int) (bool, float64) {
	if n < 8 {
		return false, 1
	}
	jb := float64(n) / 6 * (skew*skew + (kurt-3)*(kurt-3)/4)
	p := distuv.ChiSquared{K: 2}.Survival(jb)
	return p > 0.05, p
}
