package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StoryRepo represents the ephemeral-content store.
type StoryRepo struct{ db *pgxpool.Pool }

// NewStoryRepo creates a new StoryRepo.
func NewStoryRepo(db *pgxpool.Pool) *StoryRepo { return &StoryRepo{db: db} }

// ExpiredStory identifies a deleted story and its external media reference, if any.
type ExpiredStory struct {
	ID            string
	MediaPublicID *string
}

// DeleteExpired removes every story past its expiry in one batched statement
// and returns the deleted rows so the caller can clean up external media.
// Running it again immediately is a no-op.
func (r *StoryRepo) DeleteExpired(ctx context.Context, now time.Time) ([]ExpiredStory, error) {
	rows, err := r.db.Query(ctx, `
        DELETE FROM stories
        WHERE expires_at < $1
        RETURNING id, media_public_id
    `, now)
	if err != nil {
		return nil, fmt.Errorf("delete expired stories: %w", err)
	}
	defer rows.Close()

	var out []ExpiredStory
	for rows.Next() {
		var s ExpiredStory
		if err := rows.Scan(&s.ID, &s.MediaPublicID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
