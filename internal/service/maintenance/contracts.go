package maintenance

import (
	"context"
	"time"

	"github.com/Emmanuel3dev/market-server/internal/domain"
	"github.com/Emmanuel3dev/market-server/internal/repository"
)

type subscriptionStore interface {
	List(ctx context.Context) ([]domain.Subscription, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	UpdateEndDates(ctx context.Context, fixes map[string]time.Time) error
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]repository.ExpiringReminder, error)
}

type userStore interface {
	ListIDs(ctx context.Context) ([]string, error)
	RefreshSubscriptionFlags(ctx context.Context, now time.Time) (int64, error)
	SaveNotification(ctx context.Context, userID, title, body string) error
	PurgeToken(ctx context.Context, token string) error
}

type counterStore interface {
	ResetAll(ctx context.Context, userIDs []string, now time.Time) error
}

type storyStore interface {
	DeleteExpired(ctx context.Context, now time.Time) ([]repository.ExpiredStory, error)
}

// mediaDeleter removes an externally stored media object by its public id.
type mediaDeleter interface {
	Delete(ctx context.Context, publicID string) error
}

type pushGateway interface {
	Send(ctx context.Context, token, title, body string) error
}

type counter interface {
	Inc()
}
