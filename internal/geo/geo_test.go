package geo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Emmanuel3dev/market-server/internal/domain"
	"github.com/Emmanuel3dev/market-server/internal/geo"
)

var (
	abidjanPlateau = domain.GeoPoint{Lat: 5.3600, Lon: -4.0083}
	abidjanYopougon = domain.GeoPoint{Lat: 5.3200, Lon: -4.0300}
)

func fullWeekSchedule() domain.WeeklySchedule {
	s := domain.WeeklySchedule{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		s[d] = domain.DaySchedule{Active: true, Start: "00:00", End: "23:59"}
	}
	return s
}

func availableCourier(id string, pos domain.GeoPoint) *domain.Courier {
	return &domain.Courier{
		ID:       id,
		Name:     "c-" + id,
		Status:   domain.StatusAvailable,
		Position: &pos,
		Schedule: fullWeekSchedule(),
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	t.Parallel()

	d1 := geo.DistanceKm(abidjanPlateau, abidjanYopougon)
	d2 := geo.DistanceKm(abidjanYopougon, abidjanPlateau)
	require.InDelta(t, d1, d2, 1e-9)
	require.Greater(t, d1, 0.0)
}

func TestDistanceKm_ZeroForSamePoint(t *testing.T) {
	t.Parallel()

	require.Zero(t, geo.DistanceKm(abidjanPlateau, abidjanPlateau))
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	t.Parallel()

	// One degree of latitude on the 6371 km sphere is ~111.19 km.
	a := domain.GeoPoint{Lat: 0, Lon: 0}
	b := domain.GeoPoint{Lat: 1, Lon: 0}
	require.InDelta(t, 111.19, geo.DistanceKm(a, b), 0.05)
}

func TestIsEligible(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) // Monday noon

	t.Run("available within schedule", func(t *testing.T) {
		c := availableCourier("c1", abidjanPlateau)
		require.True(t, geo.IsEligible(c, now))
	})

	t.Run("busy courier is ineligible", func(t *testing.T) {
		c := availableCourier("c1", abidjanPlateau)
		c.Status = domain.StatusBusy
		require.False(t, geo.IsEligible(c, now))
	})

	t.Run("inactive weekday", func(t *testing.T) {
		c := availableCourier("c1", abidjanPlateau)
		c.Schedule[time.Monday] = domain.DaySchedule{Active: false, Start: "00:00", End: "00:00"}
		require.False(t, geo.IsEligible(c, now))
	})

	t.Run("outside working hours", func(t *testing.T) {
		c := availableCourier("c1", abidjanPlateau)
		c.Schedule[time.Monday] = domain.DaySchedule{Active: true, Start: "08:00", End: "11:00"}
		require.False(t, geo.IsEligible(c, now))
	})

	t.Run("boundary minute is inclusive", func(t *testing.T) {
		c := availableCourier("c1", abidjanPlateau)
		c.Schedule[time.Monday] = domain.DaySchedule{Active: true, Start: "08:00", End: "12:00"}
		require.True(t, geo.IsEligible(c, now))
	})

	t.Run("missing position", func(t *testing.T) {
		c := availableCourier("c1", abidjanPlateau)
		c.Position = nil
		require.False(t, geo.IsEligible(c, now))
	})
}

func TestRank_NearestFirstWithinRadius(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pickup := abidjanPlateau

	near := availableCourier("near", domain.GeoPoint{Lat: 5.3650, Lon: -4.0083})
	far := availableCourier("far", domain.GeoPoint{Lat: 5.4300, Lon: -4.0083})
	tooFar := availableCourier("too-far", domain.GeoPoint{Lat: 6.5, Lon: -4.0083})
	busy := availableCourier("busy", pickup)
	busy.Status = domain.StatusBusy

	ranked := geo.Rank(pickup, []*domain.Courier{tooFar, far, busy, near}, now)
	require.Len(t, ranked, 2)
	require.Equal(t, "near", ranked[0].Courier.ID)
	require.Equal(t, "far", ranked[1].Courier.ID)
	require.Less(t, ranked[0].DistanceKm, ranked[1].DistanceKm)
}

func TestRank_TieBreakByID(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pos := domain.GeoPoint{Lat: 5.3650, Lon: -4.0083}

	b := availableCourier("b", pos)
	a := availableCourier("a", pos)

	ranked := geo.Rank(abidjanPlateau, []*domain.Courier{b, a}, now)
	require.Len(t, ranked, 2)
	require.Equal(t, "a", ranked[0].Courier.ID)
}
