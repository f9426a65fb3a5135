package analyzer

import (
	"fmt"

	"threatboard/internal/severity"
	"threatboard/pkg/models"
)

// Narrative composes the risk highlight sentences.
//
// categories must already be sorted by weight; only its first label is read.
// severityLabels is the distribution-level label set, independent of the
// per-technique severities behind HighCriticalTotal.
func Narrative(totalAttacks int, categories models.Distribution, severityLabels []string) []string {
	out := make([]string, 0, 3)
	out = append(out, fmt.Sprintf("Total of %d attacks recorded in the current window.", totalAttacks))

	if len(categories.Labels) > 0 {
		out = append(out, fmt.Sprintf("Dominant attack category: %s.", categories.Labels[0]))
	} else {
		out = append(out, "No dominant attack category identified.")
	}

	if severity.AnyElevated(severityLabels) {
		out = append(out, "Elevated risk: HIGH/CRITICAL severity activity present.")
	} else {
		out = append(out, "Routine monitoring: no HIGH or CRITICAL severity observed.")
	}
	return out
}
