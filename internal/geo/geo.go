// Package geo holds the pure courier-matching math: great-circle distance and
// eligibility rules. It performs no I/O and is deterministic.
package geo

import (
	"math"
	"sort"
	"time"

	"github.com/Emmanuel3dev/market-server/internal/domain"
)

// earthRadiusKm is the mean radius of the spherical Earth model.
const earthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between two points in kilometers.
// It is symmetric and returns 0 for identical points.
func DistanceKm(a, b domain.GeoPoint) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// IsEligible reports whether the courier can take a delivery at the given
// instant: available, working per schedule, and with a known position.
func IsEligible(c *domain.Courier, now time.Time) bool {
	if c == nil || c.Status != domain.StatusAvailable {
		return false
	}
	if c.Position == nil || !c.Position.Valid() {
		return false
	}
	return c.WorkingAt(now)
}

// Candidate is a courier ranked by distance from a pickup point.
type Candidate struct {
	Courier    *domain.Courier
	DistanceKm float64
}

// Rank filters the couriers down to those eligible at now and within
// domain.MaxRadiusKm of the pickup point, ordered nearest first. Couriers at
// equal distance are ordered by id so that selection is deterministic.
func Rank(pickup domain.GeoPoint, couriers []*domain.Courier, now time.Time) []Candidate {
	out := make([]Candidate, 0, len(couriers))
	for _, c := range couriers {
		if !IsEligible(c, now) {
			continue
		}
		d := DistanceKm(pickup, *c.Position)
		if d > domain.MaxRadiusKm {
			continue
		}
		out = append(out, Candidate{Courier: c, DistanceKm: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].Courier.ID < out[j].Courier.ID
	})
	return out
}
