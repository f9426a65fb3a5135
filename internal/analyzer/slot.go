package analyzer

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"threatboard/pkg/models"
)

// Layouts tried in order by ParseTimestamp. Clock-only labels land on the
// zero reference day, which keeps deltas between them meaningful.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"Jan 2, 2006 3:04:05 PM",
	"2006-01-02",
	"15:04:05",
	"15:04",
}

var (
	clockPattern = regexp.MustCompile(`\b([01]?\d|2[0-3]):[0-5]\d\b`)
	datePattern  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ParseTimestamp parses a bucket label. A bare date is midnight UTC.
func ParseTimestamp(label string) (time.Time, bool) {
	v := strings.TrimSpace(label)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// InferSlot infers the dominant bucket duration of an ordered label list.
//
// The canonical duration is the mean of consecutive deltas between sorted
// timestamps, so a single gap in the timeline inflates it. When fewer than two
// labels parse, the raw labels are scanned for clock or date shapes instead.
func InferSlot(labels []string) models.Slot {
	stamps := make([]time.Time, 0, len(labels))
	for _, label := range labels {
		if ts, ok := ParseTimestamp(label); ok {
			stamps = append(stamps, ts)
		}
	}
	if len(stamps) >= 2 {
		return inferFromDeltas(stamps)
	}
	return inferFromPatterns(labels)
}

func inferFromDeltas(stamps []time.Time) models.Slot {
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	var sum time.Duration
	for i := 1; i < len(stamps); i++ {
		sum += stamps[i].Sub(stamps[i-1])
	}
	avgNanos := float64(sum) / float64(len(stamps)-1)
	ms := avgNanos / float64(time.Millisecond)

	return models.Slot{
		Mode:       models.SlotInferred,
		DurationMS: &ms,
		Label:      durationLabel(avgNanos),
	}
}

func inferFromPatterns(labels []string) models.Slot {
	for _, label := range labels {
		if clockPattern.MatchString(label) {
			return models.Slot{Mode: models.SlotFallback, Label: "hour"}
		}
	}
	for _, label := range labels {
		if datePattern.MatchString(label) {
			return models.Slot{Mode: models.SlotFallback, Label: "day"}
		}
	}
	return models.Slot{Mode: models.SlotUnknown, Label: models.Sentinel}
}

// durationLabel picks the unit from the unrounded value, so 59.97 minutes
// renders as "60.0 minutes" rather than "1.0 hours".
func durationLabel(nanos float64) string {
	minutes := nanos / float64(time.Minute)
	switch {
	case minutes <= 60:
		if minutes == math.Trunc(minutes) {
			return strconv.FormatFloat(minutes, 'f', 0, 64) + " minutes"
		}
		return strconv.FormatFloat(minutes, 'f', 1, 64) + " minutes"
	case minutes < 24*60:
		return strconv.FormatFloat(minutes/60, 'f', 1, 64) + " hours"
	default:
		return strconv.FormatFloat(minutes/(24*60), 'f', 1, 64) + " days"
	}
}
