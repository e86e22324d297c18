package domain

// Quote is a partial market-data result from a single provider.
// Nil fields were not supplied by the provider; composition into a
// TokenInfo fills the gaps with sentinels. Mirrors the nullable-column
// convention used elsewhere in domain.
type Quote struct {
	Source         string // provider that produced this quote
	Name           *string
	Symbol         *string
	PriceUSD       *float64
	LiquidityUSD   *float64
	MarketCapUSD   *float64
	PriceImpactPct *float64
}

// Sufficient reports whether the quote alone justifies a snapshot:
// either a price or some identity (name/symbol) was supplied.
func (q *Quote) Sufficient() bool {
	if q == nil {
		return false
	}
	if q.PriceUSD != nil && *q.PriceUSD > 0 {
		return true
	}
	return q.Name != nil || q.Symbol != nil
}

// Snapshot composes the quote into a full TokenInfo for the given
// address, substituting sentinels for fields the provider did not fill.
func (q *Quote) Snapshot(address string) *TokenInfo {
	info := &TokenInfo{
		Name:    UnknownName,
		Symbol:  UnknownSymbol,
		Address: address,
	}
	if q == nil {
		return info
	}
	if q.Name != nil {
		info.Name = *q.Name
	}
	if q.Symbol != nil {
		info.Symbol = *q.Symbol
	}
	if q.PriceUSD != nil {
		info.PriceUSD = *q.PriceUSD
	}
	if q.LiquidityUSD != nil {
		info.LiquidityUSD = *q.LiquidityUSD
	}
	if q.MarketCapUSD != nil {
		info.MarketCapUSD = *q.MarketCapUSD
	}
	if q.PriceImpactPct != nil {
		info.PriceImpactPct = *q.PriceImpactPct
	}
	return info
}
