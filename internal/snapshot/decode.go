package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"threatboard/pkg/models"
)

var (
	// ErrNotJSON means the payload is not a JSON object at all.
	ErrNotJSON = errors.New("snapshot payload is not a JSON object")
	// ErrMalformedField marks an optional field that was dropped to its empty form.
	ErrMalformedField = errors.New("malformed snapshot field")
	// ErrNegativeCount marks a count that was clamped to zero.
	ErrNegativeCount = errors.New("negative count clamped to zero")
	// ErrSeriesLengthMismatch marks a timeline that engines treat as absent.
	ErrSeriesLengthMismatch = errors.New("timeline labels and values differ in length")
	// ErrDistributionLengthMismatch marks a distribution with unpaired labels.
	ErrDistributionLengthMismatch = errors.New("distribution labels and values differ in length")
)

// Decoded is a defaulted snapshot plus everything that had to be repaired.
// Diagnostics never stop the pipeline.
type Decoded struct {
	Snapshot    models.Snapshot
	Diagnostics []error
}

// Decode parses a backend payload field by field so a malformed optional
// field degrades to its empty form instead of failing the whole snapshot.
func Decode(payload []byte) (*Decoded, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}

	out := &Decoded{}
	s := &out.Snapshot
	decodeField(fields, "hostname", &s.Hostname, &out.Diagnostics)
	decodeField(fields, "identity", &s.Identity, &out.Diagnostics)
	decodeField(fields, "total_attacks", &s.TotalAttacks, &out.Diagnostics)
	decodeField(fields, "timeline", &s.Timeline, &out.Diagnostics)
	decodeField(fields, "owasp", &s.OwaspDistribution, &out.Diagnostics)
	decodeField(fields, "severity", &s.SeverityDistribution, &out.Diagnostics)
	decodeField(fields, "tenants", &s.Tenants, &out.Diagnostics)
	decodeField(fields, "mitre", &s.Techniques, &out.Diagnostics)

	out.Diagnostics = append(out.Diagnostics, normalize(s)...)
	out.Diagnostics = append(out.Diagnostics, Check(*s)...)
	return out, nil
}

func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T, diags *[]error) {
	raw, ok := fields[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		*diags = append(*diags, fmt.Errorf("%w %q: %v", ErrMalformedField, key, err))
		return
	}
	*dst = v
}

// Normalize applies the defaulting rules: nil containers become empty and
// negative counts become zero.
func Normalize(s models.Snapshot) models.Snapshot {
	normalize(&s)
	return s
}

func normalize(s *models.Snapshot) []error {
	var diags []error
	clamp := func(what string, v *int) {
		if *v < 0 {
			diags = append(diags, fmt.Errorf("%w: %s=%d", ErrNegativeCount, what, *v))
			*v = 0
		}
	}

	clamp("total_attacks", &s.TotalAttacks)

	s.Timeline.Labels = nonNil(s.Timeline.Labels)
	s.Timeline.Values = nonNil(s.Timeline.Values)
	for i := range s.Timeline.Values {
		clamp(fmt.Sprintf("timeline[%d]", i), &s.Timeline.Values[i])
	}

	for _, d := range []*models.Distribution{&s.OwaspDistribution, &s.SeverityDistribution} {
		d.Labels = nonNil(d.Labels)
		d.Values = nonNil(d.Values)
	}

	s.Tenants = nonNil(s.Tenants)
	for i := range s.Tenants {
		clamp("tenant "+s.Tenants[i].Hostname, &s.Tenants[i].Events)
	}

	s.Techniques = nonNil(s.Techniques)
	for i := range s.Techniques {
		clamp("technique "+s.Techniques[i].MitreID, &s.Techniques[i].Count)
	}
	return diags
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// Check reports invariant violations. Engines degrade on every one of them;
// the errors exist for logs and tests.
func Check(s models.Snapshot) []error {
	var errs []error
	if !s.Timeline.WellFormed() {
		errs = append(errs, fmt.Errorf("%w: labels=%d values=%d", ErrSeriesLengthMismatch, len(s.Timeline.Labels), len(s.Timeline.Values)))
	}
	if len(s.OwaspDistribution.Labels) != len(s.OwaspDistribution.Values) {
		errs = append(errs, fmt.Errorf("%w: owasp", ErrDistributionLengthMismatch))
	}
	if len(s.SeverityDistribution.Labels) != len(s.SeverityDistribution.Values) {
		errs = append(errs, fmt.Errorf("%w: severity", ErrDistributionLengthMismatch))
	}
	return errs
}
