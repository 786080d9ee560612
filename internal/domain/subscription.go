package domain

import "time"

// PlanDurationDays is the fixed length of a delivery subscription. Any stored
// subscription whose end date deviates from start+30d is a data-integrity
// defect that the repair job corrects.
const PlanDurationDays = 30

// Subscription represents a user's delivery subscription.
type Subscription struct {
	ID        string
	UserID    string
	Status    SubscriptionStatus
	StartDate time.Time
	EndDate   time.Time
}

// DurationDays returns the subscription length rounded to whole days.
func (s Subscription) DurationDays() int {
	return int(s.EndDate.Sub(s.StartDate).Round(24*time.Hour) / (24 * time.Hour))
}

// DailyCounter tracks a user's daily order usage, keyed 1:1 with the user.
type DailyCounter struct {
	UserID          string    `json:"user_id"`
	DailyOrdersUsed int       `json:"daily_orders_used"`
	LastResetDate   time.Time `json:"last_reset_date"`
}

// User carries the account fields the maintenance and dispatch paths touch.
type User struct {
	ID                      string
	Token                   *string
	HasDeliverySubscription bool
}
