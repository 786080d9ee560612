package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Emmanuel3dev/market-server/internal/domain"
)

// UserRepo gives the maintenance jobs their view of user accounts.
type UserRepo struct{ db *pgxpool.Pool }

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *pgxpool.Pool) *UserRepo { return &UserRepo{db: db} }

// ListIDs returns every user id. The daily counter reset iterates this.
func (r *UserRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Get returns a user by id.
func (r *UserRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, token, has_delivery_subscription FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Token, &u.HasDeliverySubscription)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

// RefreshSubscriptionFlags recomputes has_delivery_subscription for every user
// from the current set of active subscriptions, in one statement.
func (r *UserRepo) RefreshSubscriptionFlags(ctx context.Context, now time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE users u
        SET has_delivery_subscription = EXISTS (
                SELECT 1 FROM subscriptions s
                WHERE s.user_id = u.id AND s.status = $1
            ),
            last_subscription_check = $2
    `, string(domain.SubscriptionActive), now)
	if err != nil {
		return 0, fmt.Errorf("refresh subscription flags: %w", err)
	}
	return ct.RowsAffected(), nil
}

// SaveNotification persists a notification record alongside the push send so
// the client can list it later.
func (r *UserRepo) SaveNotification(ctx context.Context, userID, title, body string) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO notifications (user_id, title, body, read, created_at)
        VALUES ($1, $2, $3, FALSE, now())
    `, userID, title, body)
	if err != nil {
		return fmt.Errorf("save notification for %s: %w", userID, err)
	}
	return nil
}

// PurgeToken clears an unregistered push token from any user carrying it.
func (r *UserRepo) PurgeToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET token = NULL WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("purge user token: %w", err)
	}
	return nil
}
