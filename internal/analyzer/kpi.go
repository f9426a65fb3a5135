package analyzer

import (
	"strconv"

	"threatboard/pkg/models"
)

// ComputeVelocity returns total attacks per bucket annotated with the
// inferred granularity, e.g. "6.7 / 60 minutes". The divisor is the number of
// buckets actually present.
func ComputeVelocity(totalAttacks int, ts models.TimeSeries) models.Velocity {
	if !ts.Usable() {
		return models.Velocity{Text: models.Sentinel}
	}
	buckets := len(ts.Values)
	per := float64(totalAttacks) / float64(buckets)
	slot := InferSlot(ts.Labels)
	return models.Velocity{
		PerBucket: per,
		Buckets:   buckets,
		Text:      strconv.FormatFloat(per, 'f', 1, 64) + " / " + slot.Label,
	}
}

// FindPeak returns the bucket holding the maximum value. Ties go to the
// lowest index.
func FindPeak(ts models.TimeSeries) models.Peak {
	if !ts.Usable() {
		return models.Peak{Index: -1, Label: models.Sentinel}
	}
	best := 0
	for i := 1; i < len(ts.Values); i++ {
		if ts.Values[i] > ts.Values[best] {
			best = i
		}
	}
	return models.Peak{Index: best, Label: ts.Labels[best], Value: ts.Values[best]}
}
