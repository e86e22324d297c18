package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tokenbot/internal/domain"
	"tokenbot/internal/storage"
)

// UserSettingsStore implements storage.UserSettingsStore using PostgreSQL.
type UserSettingsStore struct {
	pool *Pool
}

// NewUserSettingsStore creates a new UserSettingsStore.
func NewUserSettingsStore(pool *Pool) *UserSettingsStore {
	return &UserSettingsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UserSettingsStore = (*UserSettingsStore)(nil)

// Get retrieves settings for a user on one chain. Returns ErrNotFound
// if the user never saved settings for that chain.
func (s *UserSettingsStore) Get(ctx context.Context, userID int64, chain domain.Chain) (*domain.UserSettings, error) {
	query := `
		SELECT user_id, chain, buy_presets, buy_slippage_pct,
		       sell_presets, sell_slippage_pct, updated_at
		FROM user_settings
		WHERE user_id = $1 AND chain = $2
	`

	row := s.pool.QueryRow(ctx, query, userID, string(chain))
	us, err := scanUserSettings(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user settings: %w", err)
	}
	return us, nil
}

// Put inserts or replaces settings for (user, chain).
func (s *UserSettingsStore) Put(ctx context.Context, us *domain.UserSettings) error {
	if us == nil || us.UserID == 0 || us.Chain == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO user_settings (
			user_id, chain, buy_presets, buy_slippage_pct,
			sell_presets, sell_slippage_pct, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, chain) DO UPDATE SET
			buy_presets = EXCLUDED.buy_presets,
			buy_slippage_pct = EXCLUDED.buy_slippage_pct,
			sell_presets = EXCLUDED.sell_presets,
			sell_slippage_pct = EXCLUDED.sell_slippage_pct,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		us.UserID,
		string(us.Chain),
		us.Buy.Presets,
		us.Buy.SlippagePct,
		us.Sell.Presets,
		us.Sell.SlippagePct,
		us.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("put user settings: %w", err)
	}
	return nil
}

// ListByUser retrieves settings for a user across all chains.
func (s *UserSettingsStore) ListByUser(ctx context.Context, userID int64) ([]*domain.UserSettings, error) {
	query := `
		SELECT user_id, chain, buy_presets, buy_slippage_pct,
		       sell_presets, sell_slippage_pct, updated_at
		FROM user_settings
		WHERE user_id = $1
		ORDER BY chain ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user settings: %w", err)
	}
	defer rows.Close()

	var result []*domain.UserSettings
	for rows.Next() {
		us, err := scanUserSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user settings: %w", err)
		}
		result = append(result, us)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user settings: %w", err)
	}
	return result, nil
}

// scanUserSettings scans a row into a UserSettings.
func scanUserSettings(row pgx.Row) (*domain.UserSettings, error) {
	var us domain.UserSettings
	var chain string

	err := row.Scan(
		&us.UserID,
		&chain,
		&us.Buy.Presets,
		&us.Buy.SlippagePct,
		&us.Sell.Presets,
		&us.Sell.SlippagePct,
		&us.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	us.Chain = domain.Chain(chain)
	return &us, nil
}
