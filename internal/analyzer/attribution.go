package analyzer

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"threatboard/internal/severity"
	"threatboard/pkg/models"
)

// RankTechniques returns techniques ordered by count descending. Equal counts
// keep their input order so refreshes render identically.
func RankTechniques(techniques []models.TechniqueStat) []models.TechniqueStat {
	ranked := append([]models.TechniqueStat(nil), techniques...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// TopTechnique returns the first technique after ranking.
func TopTechnique(techniques []models.TechniqueStat) (models.TechniqueStat, bool) {
	ranked := RankTechniques(techniques)
	if len(ranked) == 0 {
		return models.TechniqueStat{}, false
	}
	return ranked[0], true
}

// HighCriticalTotal sums counts of techniques classified HIGH or CRITICAL.
func HighCriticalTotal(techniques []models.TechniqueStat) int {
	total := 0
	for _, t := range techniques {
		if severity.Classify(t.Severity).Elevated() {
			total += t.Count
		}
	}
	return total
}

// TotalTenantEvents sums tenant events, floored at 1.
func TotalTenantEvents(tenants []models.TenantStat) int {
	total := 0
	for _, t := range tenants {
		total += t.Events
	}
	if total < 1 {
		return 1
	}
	return total
}

// Attribute estimates how many of a technique's events belong to each tenant,
// assuming every tenant sees the same technique mix as the whole fleet.
// Tenants keep input order; zero estimates are dropped.
func Attribute(technique models.TechniqueStat, tenants []models.TenantStat, totalTenantEvents int) []models.TenantShare {
	if totalTenantEvents < 1 {
		totalTenantEvents = 1
	}
	shares := make([]models.TenantShare, 0, len(tenants))
	for _, tenant := range tenants {
		if tenant.Events <= 0 {
			continue
		}
		estimate := int(math.Round(float64(technique.Count) * float64(tenant.Events) / float64(totalTenantEvents)))
		if estimate == 0 {
			continue
		}
		shares = append(shares, models.TenantShare{
			Name:     TenantDisplayName(tenant),
			Hostname: tenant.Hostname,
			Count:    estimate,
		})
	}
	return shares
}

// AttributionText renders shares as "name (count)" pairs.
func AttributionText(shares []models.TenantShare) string {
	if len(shares) == 0 {
		return models.Sentinel
	}
	parts := make([]string, 0, len(shares))
	for _, s := range shares {
		parts = append(parts, s.Name+" ("+strconv.Itoa(s.Count)+")")
	}
	return strings.Join(parts, ", ")
}

// TenantDisplayName is the first DNS label of the hostname, else the identity.
func TenantDisplayName(tenant models.TenantStat) string {
	host := strings.TrimSpace(tenant.Hostname)
	if idx := strings.Index(host, "."); idx > 0 {
		host = host[:idx]
	}
	if host != "" {
		return host
	}
	if id := strings.TrimSpace(tenant.Identity); id != "" {
		return id
	}
	return models.Sentinel
}

// BuildRanking ranks techniques and annotates each with severity facets and
// per-tenant attribution.
func BuildRanking(techniques []models.TechniqueStat, tenants []models.TenantStat) []models.RankedTechnique {
	ranked := RankTechniques(techniques)
	total := TotalTenantEvents(tenants)

	out := make([]models.RankedTechnique, 0, len(ranked))
	for _, t := range ranked {
		level := severity.Classify(t.Severity)
		shares := Attribute(t, tenants, total)
		out = append(out, models.RankedTechnique{
			MitreID:         t.MitreID,
			Category:        t.Category,
			OwaspCategory:   t.OwaspCategory,
			Severity:        level.String(),
			Intensity:       level.Intensity(),
			Badge:           level.BadgeClass(),
			Count:           t.Count,
			Attribution:     shares,
			AttributionText: AttributionText(shares),
		})
	}
	return out
}
