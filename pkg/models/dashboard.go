package models

import "time"

// Sentinel is rendered wherever a derived value is unavailable.
const Sentinel = "-"

// Dashboard is the full set of derived values for one snapshot.
type Dashboard struct {
	RefreshID         string            `json:"refresh_id"`
	GeneratedAt       time.Time         `json:"generated_at"`
	Hostname          string            `json:"hostname"`
	Identity          string            `json:"identity"`
	TotalAttacks      int               `json:"total_attacks"`
	Slot              Slot              `json:"slot"`
	Velocity          Velocity          `json:"velocity"`
	Peak              Peak              `json:"peak"`
	Techniques        []RankedTechnique `json:"techniques"`
	TopTechnique      string            `json:"top_technique"`
	HighCriticalTotal int               `json:"high_critical_total"`
	Narrative         []string          `json:"narrative"`
	Layout            Layout            `json:"layout"`
	Diagnostics       []string          `json:"diagnostics,omitempty"`
}

// SlotMode tells how a bucket granularity was obtained.
type SlotMode string

const (
	SlotInferred SlotMode = "inferred"
	SlotFallback SlotMode = "fallback"
	SlotUnknown  SlotMode = "unknown"
)

// Slot is the inferred time-bucket granularity of a timeline.
type Slot struct {
	Mode       SlotMode `json:"mode"`
	DurationMS *float64 `json:"duration_ms,omitempty"`
	Label      string   `json:"label"`
}

// Velocity is the mean attack count per bucket.
type Velocity struct {
	PerBucket float64 `json:"per_bucket"`
	Buckets   int     `json:"buckets"`
	Text      string  `json:"text"`
}

// Peak is the busiest bucket of a timeline. Index is -1 when absent.
type Peak struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// RankedTechnique is a technique annotated for the ranking table.
type RankedTechnique struct {
	MitreID         string        `json:"mitre_id"`
	Category        string        `json:"category,omitempty"`
	OwaspCategory   string        `json:"owasp,omitempty"`
	Severity        string        `json:"severity"`
	Intensity       string        `json:"intensity"`
	Badge           string        `json:"badge"`
	Count           int           `json:"count"`
	Attribution     []TenantShare `json:"attribution"`
	AttributionText string        `json:"attribution_text"`
}

// TenantShare is the estimated part of a technique's events on one tenant.
type TenantShare struct {
	Name     string `json:"name"`
	Hostname string `json:"hostname"`
	Count    int    `json:"count"`
}

// Point is a 2D coordinate in presentation units, y pointing down.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout is a radial arrangement of satellites around a hub.
type Layout struct {
	Hub        Point       `json:"hub"`
	Radius     float64     `json:"radius"`
	Satellites []Satellite `json:"satellites"`
	Connectors []Connector `json:"connectors"`
}

// Satellite is one placed entity. Bearing is degrees clockwise from 12 o'clock.
type Satellite struct {
	ID       string  `json:"id"`
	Position Point   `json:"position"`
	Bearing  float64 `json:"bearing"`
}

// Connector describes the straight edge from the hub to a satellite.
type Connector struct {
	Start  Point   `json:"start"`
	Length float64 `json:"length"`
	Angle  float64 `json:"angle"`
}
