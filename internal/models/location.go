package models

import "github.com/UnknownOlympus/geodist/pkg/haversine"

// Location is the resolved position of a task together with its great-circle
// distance from the configured origin.
type Location struct {
	TaskID   int             // TaskID references the task the location belongs to.
	Point    haversine.Point // Point is the geocoded coordinate of the task address.
	Distance float64         // Distance from the origin, expressed in Unit.
	Unit     haversine.Unit  // Unit the distance is measured in.
}
