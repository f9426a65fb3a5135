package analyzer

import (
	"math"
	"testing"
	"time"

	"threatboard/pkg/models"
)

func TestInferSlotClockLabelsSixtyMinutes(t *testing.T) {
	slot := InferSlot([]string{"08:00", "09:00", "10:00"})
	if slot.Mode != models.SlotInferred {
		t.Fatalf("expected inferred mode, got %s", slot.Mode)
	}
	if slot.Label != "60 minutes" {
		t.Fatalf("expected label 60 minutes, got %q", slot.Label)
	}
	if slot.DurationMS == nil || *slot.DurationMS != float64(time.Hour/time.Millisecond) {
		t.Fatalf("unexpected duration: %v", slot.DurationMS)
	}
}

func TestInferSlotUniformSpacingRecoversDelta(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	deltas := []time.Duration{15 * time.Minute, time.Hour, 6 * time.Hour, 24 * time.Hour}
	for _, d := range deltas {
		labels := make([]string, 0, 6)
		for i := 0; i < 6; i++ {
			labels = append(labels, base.Add(time.Duration(i)*d).Format(time.RFC3339))
		}
		slot := InferSlot(labels)
		if slot.Mode != models.SlotInferred || slot.DurationMS == nil {
			t.Fatalf("delta %v: expected inferred slot, got %+v", d, slot)
		}
		want := float64(d / time.Millisecond)
		if math.Abs(*slot.DurationMS-want) > 1e-6 {
			t.Fatalf("delta %v: expected %f ms, got %f", d, want, *slot.DurationMS)
		}
	}
}

func TestInferSlotLabelFormatting(t *testing.T) {
	cases := []struct {
		labels []string
		want   string
	}{
		{[]string{"00:00:00", "00:07:30"}, "7.5 minutes"},
		{[]string{"2026-01-01 00:00", "2026-01-01 01:30", "2026-01-01 03:00"}, "1.5 hours"},
		{[]string{"2026-01-01", "2026-01-02", "2026-01-03"}, "1.0 days"},
		{[]string{"2026-01-01T10:00:00Z", "2026-01-01T10:05:00Z"}, "5 minutes"},
		{[]string{"Nov 15, 2025 10:00:00 PM", "Nov 15, 2025 10:30:00.500 PM"}, "30.0 minutes"},
	}
	for _, tc := range cases {
		got := InferSlot(tc.labels)
		if got.Label != tc.want {
			t.Fatalf("labels %v: expected %q, got %q", tc.labels, tc.want, got.Label)
		}
	}
}

func TestDurationLabelChoosesUnitBeforeRounding(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{time.Duration(59.97 * float64(time.Minute)), "60.0 minutes"},
		{time.Duration(23.97 * float64(time.Hour)), "24.0 hours"},
		{60 * time.Minute, "60 minutes"},
		{time.Duration(60.03 * float64(time.Minute)), "1.0 hours"},
	}
	for _, tc := range cases {
		if got := durationLabel(float64(tc.d)); got != tc.want {
			t.Fatalf("durationLabel(%s) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestInferSlotUsesMeanNotMedian(t *testing.T) {
	slot := InferSlot([]string{"00:00", "01:00", "05:00"})
	if slot.Label != "2.5 hours" {
		t.Fatalf("expected mean-based 2.5 hours, got %q", slot.Label)
	}
}

func TestInferSlotSortsBeforeDiffing(t *testing.T) {
	slot := InferSlot([]string{"10:00", "08:00", "09:00"})
	if slot.Label != "60 minutes" {
		t.Fatalf("expected 60 minutes for unordered labels, got %q", slot.Label)
	}
}

func TestInferSlotIdenticalTimestamps(t *testing.T) {
	slot := InferSlot([]string{"2026-01-01 08:00", "2026-01-01 08:00"})
	if slot.Mode != models.SlotInferred {
		t.Fatalf("expected inferred, got %s", slot.Mode)
	}
	if slot.Label != "0 minutes" || slot.DurationMS == nil || *slot.DurationMS != 0 {
		t.Fatalf("unexpected zero-delta slot: %+v", slot)
	}
}

func TestInferSlotFallbackAndUnknown(t *testing.T) {
	cases := []struct {
		labels []string
		mode   models.SlotMode
		label  string
	}{
		{nil, models.SlotUnknown, models.Sentinel},
		{[]string{"08:00"}, models.SlotFallback, "hour"},
		{[]string{"Mon 08:00", "Tue 09:00"}, models.SlotFallback, "hour"},
		{[]string{"2026-01-01"}, models.SlotFallback, "day"},
		{[]string{"week of 2026-01-05", "bucket"}, models.SlotFallback, "day"},
		{[]string{"alpha", "beta"}, models.SlotUnknown, models.Sentinel},
	}
	for _, tc := range cases {
		got := InferSlot(tc.labels)
		if got.Mode != tc.mode || got.Label != tc.label {
			t.Fatalf("labels %v: expected %s/%q, got %s/%q", tc.labels, tc.mode, tc.label, got.Mode, got.Label)
		}
		if got.DurationMS != nil {
			t.Fatalf("labels %v: duration must be absent outside inferred mode", tc.labels)
		}
	}
}

func TestParseTimestampBareDateIsMidnight(t *testing.T) {
	ts, ok := ParseTimestamp("2026-02-03")
	if !ok {
		t.Fatalf("expected bare date to parse")
	}
	if !ts.Equal(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", ts)
	}
	if _, ok := ParseTimestamp("not a time"); ok {
		t.Fatalf("did not expect garbage to parse")
	}
}
