// Package report renders a model card for a fitted snapshot: a markdown
// summary of training data, metrics and the persisted state, plus an HTML
// rendering for the prediction API.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"oncosurv/domain/feature"
	"oncosurv/domain/snapshot"
)

// ModelCard renders a markdown summary of one sealed bundle.
func ModelCard(b *snapshot.Bundle) string {
	var sb strings.Builder

	sb.WriteString("# Survival Model Card\n\n")
	fmt.Fprintf(&sb, "- Snapshot: `%s`\n", b.SnapshotID)
	fmt.Fprintf(&sb, "- Created: %s\n", b.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "- Bundle version: %d\n", b.Version)
	fmt.Fprintf(&sb, "- Fingerprint: `%s`\n\n", b.Fingerprint)

	sb.WriteString("## Evaluation\n\n")
	sb.WriteString("| Partition | Rows | R² | RMSE |\n")
	sb.WriteString("|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| Train | %d | %.3f | %.2f |\n", b.Metrics.TrainRows, b.Metrics.TrainR2, b.Metrics.TrainRMSE)
	fmt.Fprintf(&sb, "| Held-out | %d | %.3f | %.2f |\n\n", b.Metrics.HoldoutRows, b.Metrics.HoldoutR2, b.Metrics.HoldoutRMSE)

	sb.WriteString("## Features\n\n")
	for _, f := range b.FeatureOrder {
		if f.Kind == feature.KindCategorical {
			fmt.Fprintf(&sb, "- %s (categorical, %d categories)\n", f.Name, b.Vocabularies[f.Name].Size())
		} else {
			fmt.Fprintf(&sb, "- %s (numeric)\n", f.Name)
		}
	}
	fmt.Fprintf(&sb, "\nTarget: %s (0-100). Estimates are clipped into that range before bucketing.\n", b.Target)

	return sb.String()
}

// RenderHTML converts a markdown document to an HTML fragment.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
