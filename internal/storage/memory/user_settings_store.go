package memory

import (
	"context"
	"sort"
	"sync"

	"tokenbot/internal/domain"
	"tokenbot/internal/storage"
)

type settingsKey struct {
	userID int64
	chain  domain.Chain
}

// UserSettingsStore is an in-memory implementation of storage.UserSettingsStore.
type UserSettingsStore struct {
	mu       sync.RWMutex
	settings map[settingsKey]*domain.UserSettings
}

// NewUserSettingsStore creates a new in-memory user settings store.
func NewUserSettingsStore() *UserSettingsStore {
	return &UserSettingsStore{
		settings: make(map[settingsKey]*domain.UserSettings),
	}
}

// Compile-time interface check.
var _ storage.UserSettingsStore = (*UserSettingsStore)(nil)

// Get retrieves settings for a user on one chain.
func (s *UserSettingsStore) Get(_ context.Context, userID int64, chain domain.Chain) (*domain.UserSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.settings[settingsKey{userID: userID, chain: chain}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copySettings(stored), nil
}

// Put inserts or replaces settings for (user, chain).
func (s *UserSettingsStore) Put(_ context.Context, us *domain.UserSettings) error {
	if us == nil || us.UserID == 0 || us.Chain == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[settingsKey{userID: us.UserID, chain: us.Chain}] = copySettings(us)
	return nil
}

// ListByUser retrieves settings for a user across all chains, ordered
// by chain name for deterministic output.
func (s *UserSettingsStore) ListByUser(_ context.Context, userID int64) ([]*domain.UserSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.UserSettings
	for key, stored := range s.settings {
		if key.userID == userID {
			result = append(result, copySettings(stored))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Chain < result[j].Chain
	})
	return result, nil
}

// copySettings deep-copies so callers cannot mutate stored state.
func copySettings(s *domain.UserSettings) *domain.UserSettings {
	out := *s
	out.Buy.Presets = append([]float64(nil), s.Buy.Presets...)
	out.Sell.Presets = append([]float64(nil), s.Sell.Presets...)
	return &out
}
