package dispatch

import (
	"context"
	"time"

	"github.com/Emmanuel3dev/market-server/internal/domain"
	"github.com/Emmanuel3dev/market-server/internal/ports/dispatchtx"
)

type dispatchRepository interface {
	WithTx(ctx context.Context, fn func(tx dispatchtx.Directory) error) error
}

type pushGateway interface {
	Send(ctx context.Context, token, title, body string) error
}

type counterStore interface {
	Increment(ctx context.Context, userID string, now time.Time) error
}

type userDirectory interface {
	Get(ctx context.Context, id string) (*domain.User, error)
}

type delayedSender interface {
	SendAt(at time.Time, token, title, body string)
}

// AssignRequest carries a validated dispatch request.
type AssignRequest struct {
	BoutiqueID   string
	ClientID     string
	BoutiquePos  domain.GeoPoint
	ClientPos    domain.GeoPoint
	OrderDetails string
}
