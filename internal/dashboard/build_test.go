package dashboard

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatboard/internal/catalog"
	"threatboard/internal/layout"
	"threatboard/internal/snapshot"
	"threatboard/pkg/models"
)

const payload = `{
  "hostname": "praya.pelindo.co.id",
  "identity": "Praya",
  "total_attacks": 20,
  "owasp": {"labels": ["A03 Injection (SQLi / Exploit App)", "A01 Broken Access Control (Sensitive Files)"], "values": [15, 5]},
  "severity": {"labels": ["HIGH", "LOW"], "values": [15, 5]},
  "timeline": {"labels": ["08:00", "09:00", "10:00"], "values": [5, 10, 5]},
  "tenants": [
    {"hostname": "praya.pelindo.co.id", "events": 40},
    {"hostname": "parama.pelindo.co.id", "events": 60}
  ],
  "mitre": [
    {"mitre_id": "T1592.004", "severity": "low", "count": 5},
    {"mitre_id": "T1190", "severity": "high", "count": 15}
  ]
}`

func TestBuildScenario(t *testing.T) {
	decoded, err := snapshot.Decode([]byte(payload))
	require.NoError(t, err)

	d := Build(decoded.Snapshot, layout.Region{Width: 800, Height: 600}, layout.DefaultMargin)

	assert.Equal(t, 20, d.TotalAttacks)
	assert.Equal(t, models.SlotInferred, d.Slot.Mode)
	assert.Equal(t, "60 minutes", d.Slot.Label)
	assert.Equal(t, "6.7 / 60 minutes", d.Velocity.Text)
	assert.Equal(t, 1, d.Peak.Index)
	assert.Equal(t, "09:00", d.Peak.Label)
	assert.Equal(t, "T1190", d.TopTechnique)
	assert.Equal(t, 15, d.HighCriticalTotal)

	require.Len(t, d.Techniques, 2)
	top := d.Techniques[0]
	assert.Equal(t, "HIGH", top.Severity)
	assert.Equal(t, "badge-high", top.Badge)
	assert.Equal(t, "praya (6), parama (9)", top.AttributionText)
	assert.Equal(t, "praya (2), parama (3)", d.Techniques[1].AttributionText)

	assert.Equal(t, []string{
		"Total of 20 attacks recorded in the current window.",
		"Dominant attack category: A03 Injection (SQLi / Exploit App).",
		"Elevated risk: HIGH/CRITICAL severity activity present.",
	}, d.Narrative)

	assert.Equal(t, models.Point{X: 400, Y: 300}, d.Layout.Hub)
	assert.Equal(t, 240.0, d.Layout.Radius)
	require.Len(t, d.Layout.Satellites, 2)
	assert.Equal(t, "praya", d.Layout.Satellites[0].ID)
	assert.InDelta(t, 60, d.Layout.Satellites[0].Position.Y, 1e-9)
	assert.InDelta(t, 540, d.Layout.Satellites[1].Position.Y, 1e-9)
}

func TestBuildEmptySnapshot(t *testing.T) {
	d := Build(snapshot.Normalize(models.Snapshot{}), layout.Region{}, layout.DefaultMargin)

	assert.Equal(t, models.SlotUnknown, d.Slot.Mode)
	assert.Equal(t, models.Sentinel, d.Velocity.Text)
	assert.Equal(t, -1, d.Peak.Index)
	assert.Equal(t, models.Sentinel, d.TopTechnique)
	assert.Empty(t, d.Techniques)
	assert.Empty(t, d.Layout.Satellites)
	assert.Equal(t, 0.0, d.Layout.Radius)
	assert.Equal(t, "No dominant attack category identified.", d.Narrative[1])
	assert.Equal(t, "Routine monitoring: no HIGH or CRITICAL severity observed.", d.Narrative[2])
}

func TestBuildMalformedTimeline(t *testing.T) {
	s := models.Snapshot{
		TotalAttacks: 9,
		Timeline:     models.TimeSeries{Labels: []string{"08:00", "09:00"}, Values: []int{9}},
	}
	d := Build(s, layout.Region{Width: 100, Height: 100}, 0)
	assert.Equal(t, models.SlotUnknown, d.Slot.Mode)
	assert.Equal(t, models.Sentinel, d.Velocity.Text)
	assert.Equal(t, -1, d.Peak.Index)
}

func newTestBuilder(t *testing.T, cacheSize int) *Builder {
	t.Helper()
	v, err := snapshot.NewValidator()
	require.NoError(t, err)
	b, err := NewBuilder(Options{
		Region:    layout.Region{Width: 800, Height: 600},
		Margin:    layout.DefaultMargin,
		CacheSize: cacheSize,
	}, catalog.Builtin(), v)
	require.NoError(t, err)

	seq := 0
	b.newID = func() string {
		seq++
		return "refresh-" + strconv.Itoa(seq)
	}
	b.now = func() time.Time { return time.Date(2025, 11, 15, 10, 0, seq, 0, time.UTC) }
	return b
}

func TestDeriveEnrichesAndStamps(t *testing.T) {
	b := newTestBuilder(t, 0)

	d, err := b.Derive([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", d.RefreshID)
	assert.Empty(t, d.Diagnostics)
	assert.Equal(t, "Exploit Public-Facing Application (SQLi / RFI / LFI)", d.Techniques[0].Category)
	assert.Equal(t, "A03 Injection (SQLi / Exploit App)", d.Techniques[0].OwaspCategory)
}

func TestDeriveCacheRenewsRefreshID(t *testing.T) {
	b := newTestBuilder(t, 8)

	first, err := b.Derive([]byte(payload))
	require.NoError(t, err)
	second, err := b.Derive([]byte(payload))
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshID, second.RefreshID)
	assert.Equal(t, first.Velocity, second.Velocity)
	assert.Equal(t, first.Techniques, second.Techniques)
	assert.Equal(t, 1, b.cache.Len())

	other, err := b.DeriveIn([]byte(payload), layout.Region{Width: 400, Height: 400})
	require.NoError(t, err)
	assert.Equal(t, 140.0, other.Layout.Radius)
	assert.Equal(t, 2, b.cache.Len())
}

func TestDeriveInNonFiniteRegionStaysEncodable(t *testing.T) {
	b := newTestBuilder(t, 4)

	for _, region := range []layout.Region{
		{Width: math.NaN(), Height: 600},
		{Width: 800, Height: math.Inf(1)},
	} {
		d, err := b.DeriveIn([]byte(payload), region)
		require.NoError(t, err)
		assert.Equal(t, 0.0, d.Layout.Radius)
		_, err = json.Marshal(d)
		assert.NoError(t, err)
	}
}

func TestDeriveReportsDiagnostics(t *testing.T) {
	b := newTestBuilder(t, 0)

	d, err := b.Derive([]byte(`{"total_attacks": -3, "timeline": {"labels": ["08:00"], "values": [1, 2]}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, d.TotalAttacks)
	assert.NotEmpty(t, d.Diagnostics)
	assert.Equal(t, models.Sentinel, d.Velocity.Text)
}

func TestDeriveRejectsNonJSON(t *testing.T) {
	b := newTestBuilder(t, 4)
	_, err := b.Derive([]byte("502 Bad Gateway"))
	assert.ErrorIs(t, err, snapshot.ErrNotJSON)
}

func TestNewBuilderDefaults(t *testing.T) {
	b, err := NewBuilder(Options{Margin: -1}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, layout.Region{Width: 800, Height: 600}, b.Region())
	assert.Equal(t, layout.DefaultMargin, b.opts.Margin)
	assert.Nil(t, b.cache)

	d, err := b.Derive([]byte(`{}`))
	require.NoError(t, err)
	assert.False(t, math.IsNaN(d.Layout.Radius))
	assert.NotEmpty(t, d.RefreshID)
}
