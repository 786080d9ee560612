package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Emmanuel3dev/market-server/internal/domain"
)

// SubscriptionRepo represents the subscription store.
type SubscriptionRepo struct{ db *pgxpool.Pool }

// NewSubscriptionRepo creates a new SubscriptionRepo.
func NewSubscriptionRepo(db *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// List returns every subscription ordered by id.
func (r *SubscriptionRepo) List(ctx context.Context) ([]domain.Subscription, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, user_id, status, start_date, end_date
        FROM subscriptions
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []domain.Subscription
	for rows.Next() {
		var s domain.Subscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.Status, &s.StartDate, &s.EndDate); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ExpireOverdue transitions every active subscription whose end date has
// passed to expired, in one batched statement. Returns the number of rows.
func (r *SubscriptionRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE subscriptions
        SET status = $1
        WHERE status = $2 AND end_date < $3
    `, string(domain.SubscriptionExpired), string(domain.SubscriptionActive), now)
	if err != nil {
		return 0, fmt.Errorf("expire overdue subscriptions: %w", err)
	}
	return ct.RowsAffected(), nil
}

// UpdateEndDates applies the corrected end dates in a single transaction so a
// partial repair is never persisted.
func (r *SubscriptionRepo) UpdateEndDates(ctx context.Context, fixes map[string]time.Time) error {
	if len(fixes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for id, end := range fixes {
		if _, err := tx.Exec(ctx,
			`UPDATE subscriptions SET end_date = $2 WHERE id = $1`, id, end); err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
			}
			return fmt.Errorf("fix end date %s: %w", id, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ExpiringReminder pairs a subscription nearing expiry with the owner's token.
type ExpiringReminder struct {
	UserID  string
	EndDate time.Time
	Token   *string
}

// ListExpiringBetween returns active subscriptions whose end date falls in
// [from, to), joined to the owner's push token.
func (r *SubscriptionRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]ExpiringReminder, error) {
	rows, err := r.db.Query(ctx, `
        SELECT s.user_id, s.end_date, u.token
        FROM subscriptions s
        JOIN users u ON u.id = s.user_id
        WHERE s.status = $1 AND s.end_date >= $2 AND s.end_date < $3
        ORDER BY s.end_date
    `, string(domain.SubscriptionActive), from, to)
	if err != nil {
		return nil, fmt.Errorf("list expiring subscriptions: %w", err)
	}
	defer rows.Close()

	var out []ExpiringReminder
	for rows.Next() {
		var rem ExpiringReminder
		if err := rows.Scan(&rem.UserID, &rem.EndDate, &rem.Token); err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}
