package dispatchtx

import (
	"context"

	"github.com/Emmanuel3dev/market-server/internal/domain"
)

// Directory is the transaction-scoped courier directory and delivery store
// used by the dispatch path. Candidate reads and the conditional reservation
// run against the same transaction so that racing assigns cannot both win a
// courier.
type Directory interface {
	QueryAvailable(ctx context.Context) ([]*domain.Courier, error)
	TryReserve(ctx context.Context, courierID, deliveryID string) (bool, error)
	InsertDelivery(ctx context.Context, d *domain.Delivery) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Directory) error) error
}
