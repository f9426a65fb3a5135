package dashboard

import (
	"threatboard/internal/analyzer"
	"threatboard/internal/layout"
	"threatboard/pkg/models"
)

// Build derives every dashboard value from one snapshot. It never fails;
// missing inputs render as the sentinel. RefreshID and GeneratedAt are left
// for the caller.
func Build(s models.Snapshot, region layout.Region, margin float64) models.Dashboard {
	d := models.Dashboard{
		Hostname:          s.Hostname,
		Identity:          s.Identity,
		TotalAttacks:      s.TotalAttacks,
		Slot:              analyzer.InferSlot(timelineLabels(s.Timeline)),
		Velocity:          analyzer.ComputeVelocity(s.TotalAttacks, s.Timeline),
		Peak:              analyzer.FindPeak(s.Timeline),
		Techniques:        analyzer.BuildRanking(s.Techniques, s.Tenants),
		TopTechnique:      models.Sentinel,
		HighCriticalTotal: analyzer.HighCriticalTotal(s.Techniques),
		Narrative:         analyzer.Narrative(s.TotalAttacks, s.OwaspDistribution, s.SeverityDistribution.Labels),
	}
	if top, ok := analyzer.TopTechnique(s.Techniques); ok && top.MitreID != "" {
		d.TopTechnique = top.MitreID
	}

	ids := make([]string, 0, len(s.Tenants))
	for _, t := range s.Tenants {
		ids = append(ids, analyzer.TenantDisplayName(t))
	}
	d.Layout = layout.Radial(region.Center(), ids, region, margin)
	return d
}

// A malformed timeline has no usable granularity.
func timelineLabels(ts models.TimeSeries) []string {
	if !ts.WellFormed() {
		return nil
	}
	return ts.Labels
}
