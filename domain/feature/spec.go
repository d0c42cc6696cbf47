// Package feature defines the fixed input schema of the survival model and
// the deterministic transforms applied to raw patient values.
package feature

// Kind classifies a feature for encoding purposes.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Feature is one named input field.
type Feature struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Spec is the ordered list of input features. The order defines the vector
// layout consumed by the model, so the same Spec must be used for fitting
// and for every prediction.
type Spec []Feature

// TargetColumn is the numeric training target on a 0-100 scale.
const TargetColumn = "Survival_Rate"

// DefaultSpec is the oral-cancer survival schema.
func DefaultSpec() Spec {
	return Spec{
		{Name: "Age", Kind: KindNumeric},
		{Name: "Gender", Kind: KindCategorical},
		{Name: "Tobacco_Use", Kind: KindCategorical},
		{Name: "Alcohol_Use", Kind: KindCategorical},
		{Name: "Diagnosis_Stage", Kind: KindCategorical},
		{Name: "Treatment_Type", Kind: KindCategorical},
	}
}

// Names returns the feature names in spec order.
func (s Spec) Names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// Categorical returns the categorical features in spec order.
func (s Spec) Categorical() []Feature {
	var out []Feature
	for _, f := range s {
		if f.Kind == KindCategorical {
			out = append(out, f)
		}
	}
	return out
}
