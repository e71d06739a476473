// Package haversine computes great-circle distances between two points on
// Earth's surface using the haversine formula.
//
// The package performs no validation: any float64 coordinate is accepted and
// NaN or infinite inputs propagate per IEEE-754 arithmetic. All functions are
// pure and safe for concurrent use.
package haversine

import "math"

// Point is a geographic coordinate in signed decimal degrees.
type Point struct {
	Latitude  float64 // Latitude of the point in degrees.
	Longitude float64 // Longitude of the point in degrees.
}

// NewPoint returns a Point for the given latitude and longitude.
func NewPoint(latitude, longitude float64) Point {
	return Point{Latitude: latitude, Longitude: longitude}
}

// DistanceTo returns the great-circle distance from p to b in the given unit.
func (p Point) DistanceTo(b Point, unit Unit) float64 {
	return Distance(p, b, unit)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// Distance returns the great-circle distance between a and b in the given unit.
//
// Near antipodal points rounding can leave h one ulp above 1, so it is clamped
// before the square roots; the result is then half the circumference.
func Distance(a, b Point, unit Unit) float64 {
	latA := Radians(a.Latitude)
	latB := Radians(b.Latitude)

	dLat := Radians(b.Latitude-a.Latitude) / 2
	dLon := Radians(b.Longitude-a.Longitude) / 2

	sinLat := math.Sin(dLat)
	sinLon := math.Sin(dLon)

	h := sinLat*sinLat + sinLon*sinLon*math.Cos(latA)*math.Cos(latB)
	h = math.Min(h, 1)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return unit.Radius() * c
}
