package ctdf

import "math"

// Location is a point on the simulation plane. Coordinates are [x, y] in
// metres; feeds that receive WGS84 positions project them before building
// a Location.
type Location struct {
	Type        string    `json:"-"`
	Coordinates []float64 `json:"coordinates"`
}

func NewLocation(x float64, y float64) Location {
	return Location{
		Type:        "Point",
		Coordinates: []float64{x, y},
	}
}

// Valid reports whether the location carries a usable planar coordinate
func (l *Location) Valid() bool {
	if len(l.Coordinates) < 2 {
		return false
	}

	return !math.IsNaN(l.Coordinates[0]) && !math.IsNaN(l.Coordinates[1]) &&
		!math.IsInf(l.Coordinates[0], 0) && !math.IsInf(l.Coordinates[1], 0)
}

func (l *Location) X() float64 {
	return l.Coordinates[0]
}

func (l *Location) Y() float64 {
	return l.Coordinates[1]
}

// Distance is the straight line (Euclidean) distance between two planar locations
func (l *Location) Distance(other Location) float64 {
	dx := l.Coordinates[0] - other.Coordinates[0]
	dy := l.Coordinates[1] - other.Coordinates[1]

	return math.Sqrt(dx*dx + dy*dy)
}
