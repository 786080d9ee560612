package domain

import "time"

// Delivery - struct representing a delivery assignment. Immutable once created
// except for status transitions owned by downstream fulfillment.
type Delivery struct {
	ID           string
	BoutiqueID   string
	ClientID     string
	BoutiquePos  GeoPoint
	ClientPos    GeoPoint
	CourierID    string
	DistanceKm   float64
	Cost         float64
	Status       DeliveryStatus
	OrderDetails string
	CreatedAt    time.Time
	AssignedAt   time.Time
}

// AssignResult - struct representing the result of assigning a delivery.
type AssignResult struct {
	DeliveryID    string
	CourierID     string
	CourierName   string
	DistanceKm    float64
	Cost          float64
	EstimatedMins int
}
