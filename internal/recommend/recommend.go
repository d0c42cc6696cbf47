// Package recommend derives textual guidance from the risk factors present
// in a patient record. Plain conditionals, external to the core pipeline.
package recommend

import (
	"oncosurv/domain/pipeline"
)

// For returns recommendations for a record and its predicted risk bucket.
// The record uses the same keys as pipeline prediction input.
func For(rec pipeline.Record, bucket pipeline.RiskBucket) []string {
	var out []string

	if rec["Tobacco_Use"] == "yes" {
		out = append(out, "Tobacco cessation is strongly advised; continued use lowers survival odds.")
	}
	if rec["Alcohol_Use"] == "yes" {
		out = append(out, "Reducing alcohol consumption improves treatment outcomes.")
	}
	if rec["Diagnosis_Stage"] == "Late" {
		out = append(out, "Late-stage diagnosis: discuss aggressive treatment options with an oncologist promptly.")
	}

	switch bucket {
	case pipeline.RiskHigh:
		out = append(out, "High risk: schedule an immediate consultation and frequent follow-up scans.")
	case pipeline.RiskModerate:
		out = append(out, "Moderate risk: maintain regular follow-up appointments every three months.")
	case pipeline.RiskLow:
		out = append(out, "Low risk: continue routine checkups and a healthy lifestyle.")
	}
	return out
}
