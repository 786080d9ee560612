package domain

import "regexp"

// List of possible courier statuses
const (
	StatusAvailable CourierStatus = "available"
	StatusBusy      CourierStatus = "busy"
	StatusOffline   CourierStatus = "offline"
)

// List of possible delivery statuses. The dispatch core only ever produces
// DeliveryAssigned; the remaining transitions belong to downstream fulfillment.
const (
	DeliveryAssigned  DeliveryStatus = "assigned"
	DeliveryInTransit DeliveryStatus = "in_transit"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

// List of possible subscription statuses
const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

var allowedCourierStatuses = [...]CourierStatus{
	StatusAvailable, StatusBusy, StatusOffline,
}

var allowedDeliveryStatuses = [...]DeliveryStatus{
	DeliveryAssigned, DeliveryInTransit, DeliveryDelivered, DeliveryCancelled,
}

// Valid checks if the CourierStatus is valid
func (s CourierStatus) Valid() bool {
	for _, v := range allowedCourierStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the DeliveryStatus is valid
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedDeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the SubscriptionStatus is valid
func (s SubscriptionStatus) Valid() bool {
	return s == SubscriptionActive || s == SubscriptionExpired
}

// rePhone is a regex to validate phone numbers in international format
var rePhone = regexp.MustCompile(`^\+[0-9]{8,15}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
