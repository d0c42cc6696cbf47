package feature

import (
	"oncosurv/domain/core"
)

// Vocabulary is the fitted string-to-code mapping for one categorical
// feature. Codes are dense in [0, k) and assigned in first-seen order, so
// fitting twice on identically ordered input reproduces identical codes.
type Vocabulary struct {
	Feature string         `json:"feature"`
	Codes   map[string]int `json:"codes"`
	// Order records first-seen order for reverse lookup and reporting.
	Order []string `json:"order"`
}

// FitVocabulary builds a vocabulary from one raw categorical column.
func FitVocabulary(name string, values []string) Vocabulary {
	v := Vocabulary{
		Feature: name,
		Codes:   make(map[string]int),
	}
	for _, raw := range values {
		if _, seen := v.Codes[raw]; !seen {
			v.Codes[raw] = len(v.Order)
			v.Order = append(v.Order, raw)
		}
	}
	return v
}

// Encode looks up the code for a raw value. A value absent from the fitted
// vocabulary is an error, never a default code: defaulting would conflate an
// unseen category with the known category of code 0.
func (v Vocabulary) Encode(value string) (int, error) {
	code, ok := v.Codes[value]
	if !ok {
		return 0, core.NewUnknownCategoryError(v.Feature, value)
	}
	return code, nil
}

// Size returns the number of distinct fitted categories.
func (v Vocabulary) Size() int {
	return len(v.Codes)
}
