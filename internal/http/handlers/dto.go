package handlers

import "github.com/Emmanuel3dev/market-server/internal/domain"

// positionDTO is the wire form of a coordinate pair. The client API uses
// "lng", not "lon".
type positionDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type assignDeliveryRequest struct {
	BoutiqueID       string       `json:"boutiqueId"`
	ClientID         string       `json:"clientId"`
	BoutiquePosition *positionDTO `json:"boutiquePosition"`
	ClientPosition   *positionDTO `json:"clientPosition"`
	OrderDetails     string       `json:"orderDetails"`
}

type assignDeliveryResponse struct {
	DeliveryID    string  `json:"deliveryId"`
	CourierID     string  `json:"courierId"`
	CourierName   string  `json:"courierName"`
	Distance      float64 `json:"distance"`
	Cost          float64 `json:"cost"`
	EstimatedTime int     `json:"estimatedTime"`
}

type noCourierResponse struct {
	Error    string  `json:"error"`
	Distance float64 `json:"distance"`
}

type courierDTO struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Phone    string                `json:"phone"`
	Status   domain.CourierStatus  `json:"status"`
	Position *positionDTO          `json:"position,omitempty"`
	Schedule domain.WeeklySchedule `json:"schedule,omitempty"`
}

type createCourierRequest struct {
	Name     string                `json:"name"`
	Phone    string                `json:"phone"`
	Status   domain.CourierStatus  `json:"status"`
	Position *positionDTO          `json:"position,omitempty"`
	Schedule domain.WeeklySchedule `json:"schedule,omitempty"`
	Token    *string               `json:"token,omitempty"`
}

type updateCourierRequest struct {
	ID       string                `json:"id"`
	Name     *string               `json:"name,omitempty"`
	Phone    *string               `json:"phone,omitempty"`
	Status   *domain.CourierStatus `json:"status,omitempty"`
	Position *positionDTO          `json:"position,omitempty"`
	Schedule domain.WeeklySchedule `json:"schedule,omitempty"`
	Token    *string               `json:"token,omitempty"`
}
