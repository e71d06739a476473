package haversine

// Earth radius constants used by the supported units.
const (
	EarthRadiusMiles      = 3960.0 // EarthRadiusMiles is the mean radius of Earth in miles.
	EarthRadiusKilometers = 6371.0 // EarthRadiusKilometers is the mean radius of Earth in kilometers.
)

// Unit selects the unit of measure a distance is returned in.
// Only Miles and Kilometers exist; the zero value is Miles.
type Unit int

const (
	// Miles reports distances in statute miles.
	Miles Unit = iota
	// Kilometers reports distances in kilometers.
	Kilometers
)

// Radius returns the Earth radius expressed in the unit.
func (u Unit) Radius() float64 {
	switch u {
	case Miles:
		return EarthRadiusMiles
	case Kilometers:
		return EarthRadiusKilometers
	default:
		panic("haversine: unknown unit")
	}
}

// String returns the short unit symbol ("mi" or "km").
func (u Unit) String() string {
	switch u {
	case Miles:
		return "mi"
	case Kilometers:
		return "km"
	default:
		return "unknown"
	}
}
