package courier

import (
	"context"

	"github.com/Emmanuel3dev/market-server/internal/domain"
)

// courierRepository defines storage operations required by the business layer.
type courierRepository interface {
	Get(ctx context.Context, id string) (*domain.Courier, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Courier, error)
	Create(ctx context.Context, c *domain.Courier) error
	UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) (bool, error)
	ReleaseCourier(ctx context.Context, id string) (bool, error)
}
