package domain

// TradeSettings holds one side (buy or sell) of a user's trading presets.
type TradeSettings struct {
	Presets     []float64 `json:"presets"` // buy: native-currency amounts; sell: percentages
	SlippagePct float64   `json:"slippage_pct"`
}

// UserSettings holds per-user, per-chain trading configuration.
// Corresponds to the user_settings table in PostgreSQL.
type UserSettings struct {
	UserID    int64         `json:"user_id"`
	Chain     Chain         `json:"chain"`
	Buy       TradeSettings `json:"buy"`
	Sell      TradeSettings `json:"sell"`
	UpdatedAt int64         `json:"updated_at"` // Unix timestamp in milliseconds
}

// DefaultSettings returns the chain-specific defaults applied until a
// user edits a field.
func DefaultSettings(userID int64, chain Chain) *UserSettings {
	s := &UserSettings{
		UserID: userID,
		Chain:  chain,
		Buy:    TradeSettings{Presets: []float64{0.1, 0.5, 1, 1.5}, SlippagePct: 1},
		Sell:   TradeSettings{Presets: []float64{25, 50, 70, 100}, SlippagePct: 1},
	}
	if chain == ChainTON {
		s.Buy.Presets = []float64{1, 4, 5, 10}
	}
	return s
}
