package domain

// Chain identifies a supported blockchain, detected from address shape.
type Chain string

const (
	ChainSolana Chain = "solana"
	ChainTON    Chain = "ton"
)

// NativeUnit returns the display name of the chain's native currency.
func (c Chain) NativeUnit() string {
	if c == ChainTON {
		return "TON"
	}
	return "SOL"
}

// Sentinel values used when no provider supplies token metadata.
const (
	UnknownName   = "Unknown"
	UnknownSymbol = "UNK"
)

// TokenInfo is a normalized market snapshot for a single token.
// It is constructed fresh per resolution and never cached or mutated.
type TokenInfo struct {
	Name           string  `json:"name"`             // display name, UnknownName when unresolved
	Symbol         string  `json:"symbol"`           // ticker, UnknownSymbol when unresolved
	Address        string  `json:"address"`          // echo of the input address
	PriceUSD       float64 `json:"price_usd"`        // 0 means "could not price"
	LiquidityUSD   float64 `json:"liquidity_usd"`    // 0 when the source cannot supply it
	MarketCapUSD   float64 `json:"market_cap_usd"`   // market cap or FDV substitute, 0 when unavailable
	PriceImpactPct float64 `json:"price_impact_pct"` // estimated impact of the reference trade, [0, 100]
}

// Resolved reports whether the snapshot carries any real market data.
// An all-sentinel snapshot must never be returned to callers.
func (t *TokenInfo) Resolved() bool {
	return t.PriceUSD > 0 || t.Name != UnknownName || t.Symbol != UnknownSymbol
}
