package handlers

import (
	"github.com/Emmanuel3dev/market-server/internal/domain"
	"github.com/Emmanuel3dev/market-server/internal/service/dispatch"
)

func positionToModel(p *positionDTO) *domain.GeoPoint {
	if p == nil {
		return nil
	}
	return &domain.GeoPoint{Lat: p.Lat, Lon: p.Lng}
}

func positionToResponse(p *domain.GeoPoint) *positionDTO {
	if p == nil {
		return nil
	}
	return &positionDTO{Lat: p.Lat, Lng: p.Lon}
}

func (req assignDeliveryRequest) toModel() dispatch.AssignRequest {
	out := dispatch.AssignRequest{
		BoutiqueID:   req.BoutiqueID,
		ClientID:     req.ClientID,
		OrderDetails: req.OrderDetails,
	}
	if req.BoutiquePosition != nil {
		out.BoutiquePos = domain.GeoPoint{Lat: req.BoutiquePosition.Lat, Lon: req.BoutiquePosition.Lng}
	}
	if req.ClientPosition != nil {
		out.ClientPos = domain.GeoPoint{Lat: req.ClientPosition.Lat, Lon: req.ClientPosition.Lng}
	}
	return out
}

func assignResultToResponse(res domain.AssignResult) assignDeliveryResponse {
	return assignDeliveryResponse{
		DeliveryID:    res.DeliveryID,
		CourierID:     res.CourierID,
		CourierName:   res.CourierName,
		Distance:      res.DistanceKm,
		Cost:          res.Cost,
		EstimatedTime: res.EstimatedMins,
	}
}

func (req createCourierRequest) toModel() *domain.Courier {
	return &domain.Courier{
		Name:     req.Name,
		Phone:    req.Phone,
		Status:   req.Status,
		Position: positionToModel(req.Position),
		Schedule: req.Schedule,
		Token:    req.Token,
	}
}

func (req updateCourierRequest) toModel() domain.PartialCourierUpdate {
	return domain.PartialCourierUpdate{
		ID:       req.ID,
		Name:     req.Name,
		Phone:    req.Phone,
		Status:   req.Status,
		Position: positionToModel(req.Position),
		Schedule: req.Schedule,
		Token:    req.Token,
	}
}

func modelToResponse(c domain.Courier) courierDTO {
	return courierDTO{
		ID:       c.ID,
		Name:     c.Name,
		Phone:    c.Phone,
		Status:   c.Status,
		Position: positionToResponse(c.Position),
		Schedule: c.Schedule,
	}
}

func modelsToResponse(list []domain.Courier) []courierDTO {
	out := make([]courierDTO, 0, len(list))
	for _, c := range list {
		out = append(out, modelToResponse(c))
	}
	return out
}
