package domain

import (
	"strings"
	"time"
)

type (
	// CourierStatus represents the availability status of a courier.
	CourierStatus string
	// DeliveryStatus represents the lifecycle state of a delivery.
	DeliveryStatus string
	// SubscriptionStatus represents the state of a delivery subscription.
	SubscriptionStatus string
)

// MaxRadiusKm is the capacity radius of every courier. A courier is never
// dispatched to a pickup point farther away than this.
const MaxRadiusKm = 20.0

// DaySchedule describes one weekday entry of a courier's working hours.
// Start and End are local clock times in "HH:MM" form; both bounds are inclusive.
type DaySchedule struct {
	Active bool   `json:"active"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// WeeklySchedule maps each weekday to its working-hours entry.
type WeeklySchedule map[time.Weekday]DaySchedule

// Courier represents a delivery courier.
type Courier struct {
	ID                string
	Name              string
	Phone             string
	Status            CourierStatus
	Position          *GeoPoint
	Schedule          WeeklySchedule
	CurrentDeliveryID *string
	Token             *string
}

// PartialCourierUpdate carries optional fields to update a courier.
// A nil field means “do not change” that attribute.
type PartialCourierUpdate struct {
	ID       string
	Name     *string
	Phone    *string
	Status   *CourierStatus
	Position *GeoPoint
	Schedule WeeklySchedule
	Token    *string
}

// WorkingAt reports whether the courier's weekly schedule covers the given
// instant: the weekday entry is active and the clock time lies in [Start, End].
func (c *Courier) WorkingAt(now time.Time) bool {
	entry, ok := c.Schedule[now.Weekday()]
	if !ok || !entry.Active {
		return false
	}
	start, okStart := parseClock(entry.Start)
	end, okEnd := parseClock(entry.End)
	if !okStart || !okEnd {
		return false
	}
	minute := now.Hour()*60 + now.Minute()
	return minute >= start && minute <= end
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
