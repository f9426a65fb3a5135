package layout

import (
	"math"

	"threatboard/pkg/models"
)

// DefaultMargin keeps satellites clear of the region edge.
const DefaultMargin = 60.0

// Region is the drawable area the layout must fit in.
type Region struct {
	Width  float64
	Height float64
}

// Finite returns the region with NaN, infinite or negative sides set to 0.
func (r Region) Finite() Region {
	return Region{Width: finiteSide(r.Width), Height: finiteSide(r.Height)}
}

func finiteSide(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Center returns the midpoint of the region.
func (r Region) Center() models.Point {
	r = r.Finite()
	return models.Point{X: r.Width / 2, Y: r.Height / 2}
}

// Radius is min(width, height)/2 - margin, never negative.
func Radius(region Region, margin float64) float64 {
	region = region.Finite()
	r := math.Min(region.Width, region.Height)/2 - margin
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Radial spreads ids evenly on a circle around hub, starting at 12 o'clock
// and moving clockwise by 360/N degrees. Screen coordinates are assumed, so
// y grows downward and an angle of -90 degrees points up.
func Radial(hub models.Point, ids []string, region Region, margin float64) models.Layout {
	radius := Radius(region, margin)
	out := models.Layout{
		Hub:        hub,
		Radius:     radius,
		Satellites: make([]models.Satellite, 0, len(ids)),
		Connectors: make([]models.Connector, 0, len(ids)),
	}
	if len(ids) == 0 {
		return out
	}

	step := 360.0 / float64(len(ids))
	for i, id := range ids {
		bearing := float64(i) * step
		theta := (bearing - 90) * math.Pi / 180
		pos := models.Point{
			X: hub.X + radius*math.Cos(theta),
			Y: hub.Y + radius*math.Sin(theta),
		}
		out.Satellites = append(out.Satellites, models.Satellite{ID: id, Position: pos, Bearing: bearing})
		out.Connectors = append(out.Connectors, Connect(hub, pos))
	}
	return out
}

// Connect describes the straight edge from hub to target.
func Connect(hub, target models.Point) models.Connector {
	dx := target.X - hub.X
	dy := target.Y - hub.Y
	return models.Connector{
		Start:  hub,
		Length: math.Hypot(dx, dy),
		Angle:  math.Atan2(dy, dx) * 180 / math.Pi,
	}
}
