package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObserveRefreshNormalizesOutcome(t *testing.T) {
	before := testutil.ToFloat64(refreshesTotal.WithLabelValues(OutcomeError))
	ObserveRefresh("timeout")
	ObserveRefresh(OutcomeError)
	assert.Equal(t, before+2, testutil.ToFloat64(refreshesTotal.WithLabelValues(OutcomeError)))

	stale := testutil.ToFloat64(refreshesTotal.WithLabelValues(OutcomeStale))
	ObserveRefresh(OutcomeStale)
	assert.Equal(t, stale+1, testutil.ToFloat64(refreshesTotal.WithLabelValues(OutcomeStale)))
}

func TestObserveDerive(t *testing.T) {
	hits := testutil.ToFloat64(cacheHitsTotal)
	violations := testutil.ToFloat64(schemaViolationsTotal)

	ObserveDerive(-time.Second, true, 3)
	ObserveDerive(time.Millisecond, false, 0)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheHitsTotal))
	assert.Equal(t, violations+3, testutil.ToFloat64(schemaViolationsTotal))
}

func TestSetLatest(t *testing.T) {
	SetLatest(20, 15)
	assert.Equal(t, 20.0, testutil.ToFloat64(totalAttacks))
	assert.Equal(t, 15.0, testutil.ToFloat64(highCriticalEvents))
}
