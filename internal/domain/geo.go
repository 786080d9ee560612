package domain

import "math"

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Valid reports whether the point carries finite coordinates within geographic bounds.
func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}
