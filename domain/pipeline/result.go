package pipeline

// RiskBucket is the coarse ordinal classification derived from the numeric
// survival estimate.
type RiskBucket string

const (
	RiskLow      RiskBucket = "Low Risk"
	RiskModerate RiskBucket = "Moderate Risk"
	RiskHigh     RiskBucket = "High Risk"
)

// Prediction is the clipped survival-rate estimate plus its risk bucket.
type Prediction struct {
	SurvivalRate float64    `json:"survival_rate"`
	Bucket       RiskBucket `json:"risk_bucket"`
}

// Clip clamps a raw model output into the [0, 100] percentage range.
func Clip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// BucketFor maps a survival estimate to its risk bucket. Boundaries are
// inclusive on the upper bucket: exactly 70 is Low, exactly 40 is Moderate.
func BucketFor(rate float64) RiskBucket {
	switch {
	case rate >= 70:
		return RiskLow
	case rate >= 40:
		return RiskModerate
	default:
		return RiskHigh
	}
}
