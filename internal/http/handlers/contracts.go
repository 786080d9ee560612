package handlers

import (
	"context"

	"github.com/Emmanuel3dev/market-server/internal/domain"
	"github.com/Emmanuel3dev/market-server/internal/service/courier"
	"github.com/Emmanuel3dev/market-server/internal/service/dispatch"
)

type courierUsecase interface {
	Get(ctx context.Context, id string) (*domain.Courier, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Courier, error)
	Create(ctx context.Context, c *domain.Courier) (string, error)
	UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) (bool, error)
	Release(ctx context.Context, id string) error
}

// NewCourierUsecase wires a courier Service into a courierUsecase.
func NewCourierUsecase(service *courier.Service) courierUsecase {
	return service
}

type dispatchUsecase interface {
	Assign(ctx context.Context, req dispatch.AssignRequest) (domain.AssignResult, error)
}

// NewDispatchUsecase wires a dispatch Service into a dispatchUsecase.
func NewDispatchUsecase(svc *dispatch.Service) dispatchUsecase {
	return svc
}
