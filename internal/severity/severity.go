package severity

import "strings"

// Level is the canonical severity, ordered INFO < LOW < MEDIUM < HIGH < CRITICAL.
type Level int

const (
	Info Level = iota
	Low
	Medium
	High
	Critical
)

var levelNames = [...]string{"INFO", "LOW", "MEDIUM", "HIGH", "CRITICAL"}

var intensities = [...]string{"muted", "low", "moderate", "elevated", "severe"}

// Classify maps free text to a Level. Anything unrecognised is Info.
func Classify(raw string) Level {
	switch strings.ToUpper(raw) {
	case "CRITICAL":
		return Critical
	case "HIGH":
		return High
	case "MEDIUM":
		return Medium
	case "LOW":
		return Low
	default:
		return Info
	}
}

func (l Level) valid() bool {
	return l >= Info && l <= Critical
}

// String returns the canonical upper-case name.
func (l Level) String() string {
	if !l.valid() {
		return levelNames[Info]
	}
	return levelNames[l]
}

// Elevated reports whether the level is HIGH or CRITICAL.
func (l Level) Elevated() bool {
	return l >= High
}

// Intensity is the visual token used for colour and emphasis.
func (l Level) Intensity() string {
	if !l.valid() {
		return intensities[Info]
	}
	return intensities[l]
}

// BadgeClass is the table badge identifier.
func (l Level) BadgeClass() string {
	return "badge-" + strings.ToLower(l.String())
}

// Rank returns the ordinal of a free-text severity.
func Rank(raw string) int {
	return int(Classify(raw))
}

// Max returns the more severe of two levels.
func Max(a, b Level) Level {
	if b > a {
		return b
	}
	return a
}

// AnyElevated reports whether any label classifies as HIGH or CRITICAL.
func AnyElevated(labels []string) bool {
	for _, label := range labels {
		if Classify(label).Elevated() {
			return true
		}
	}
	return false
}
