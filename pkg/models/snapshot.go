package models

// Snapshot is one refresh-cycle payload from the statistics backend.
type Snapshot struct {
	Hostname             string          `json:"hostname"`
	Identity             string          `json:"identity"`
	TotalAttacks         int             `json:"total_attacks"`
	Timeline             TimeSeries      `json:"timeline"`
	OwaspDistribution    Distribution    `json:"owasp"`
	SeverityDistribution Distribution    `json:"severity"`
	Tenants              []TenantStat    `json:"tenants"`
	Techniques           []TechniqueStat `json:"mitre"`
}

// TimeSeries is a bucketed attack timeline.
type TimeSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// WellFormed reports whether labels and values line up.
func (ts TimeSeries) WellFormed() bool {
	return len(ts.Labels) == len(ts.Values)
}

// Usable reports whether the series can feed derived metrics.
func (ts TimeSeries) Usable() bool {
	return ts.WellFormed() && len(ts.Labels) > 0
}

// Distribution is a caller-sorted category breakdown.
type Distribution struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// TenantStat is the event count of one monitored hostname.
type TenantStat struct {
	Hostname string `json:"hostname"`
	Identity string `json:"identity"`
	Events   int    `json:"events"`
}

// TechniqueStat is the event count of one ATT&CK technique.
type TechniqueStat struct {
	MitreID       string `json:"mitre_id"`
	Category      string `json:"category,omitempty"`
	OwaspCategory string `json:"owasp,omitempty"`
	Severity      string `json:"severity"`
	Count         int    `json:"count"`
}
