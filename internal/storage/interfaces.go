package storage

import (
	"context"

	"tokenbot/internal/domain"
)

// UserSettingsStore provides access to per-user trading settings.
type UserSettingsStore interface {
	// Get retrieves settings for a user on one chain. Returns
	// ErrNotFound if the user never saved settings for that chain.
	Get(ctx context.Context, userID int64, chain domain.Chain) (*domain.UserSettings, error)

	// Put inserts or replaces settings for (user, chain).
	Put(ctx context.Context, s *domain.UserSettings) error

	// ListByUser retrieves settings for a user across all chains.
	ListByUser(ctx context.Context, userID int64) ([]*domain.UserSettings, error)
}
