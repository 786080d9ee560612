package dispatch

import "math"

const (
	baseCost     = 500.0
	perKmCost    = 100.0
	freeRadiusKm = 1.0
	minutesPerKm = 3.0
)

// Cost prices a delivery from the boutique→client distance: a flat base within
// the first kilometer, then per-km beyond it. Courier travel distance does not
// factor in; pricing follows the client distance only.
func Cost(distanceKm float64) float64 {
	if distanceKm <= freeRadiusKm {
		return baseCost
	}
	return baseCost + (distanceKm-freeRadiusKm)*perKmCost
}

// EstimatedMinutes converts the client distance into an ETA with a fixed speed
// heuristic. This is not a routing computation.
func EstimatedMinutes(distanceKm float64) int {
	return int(math.Round(distanceKm * minutesPerKm))
}
