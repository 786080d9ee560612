package domain

import "time"

// StoryTTL is how long a story stays visible after publication.
const StoryTTL = 24 * time.Hour

// Story is ephemeral boutique content. ExpiresAt is fixed at creation
// (created_at + StoryTTL); once it has passed, the garbage collector removes
// the record and, best-effort, its external media.
type Story struct {
	ID            string
	BoutiqueID    string
	MediaPublicID *string
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// Expired reports whether the story is past its expiry at the given instant.
func (s Story) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
