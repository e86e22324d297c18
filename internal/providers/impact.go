package providers

// AssumedLiquidityUSD is the liquidity stand-in used by free-tier
// providers whose APIs do not report pool liquidity.
const AssumedLiquidityUSD = 10_000.0

// PriceImpactPct estimates the cost, as a percentage in [0, 100], of
// executing tradeUSD against liquidityUSD. Non-positive liquidity is
// defined as total impact (100.0), not a division fault.
func PriceImpactPct(tradeUSD, liquidityUSD float64) float64 {
	if liquidityUSD <= 0 {
		return 100.0
	}
	impact := tradeUSD / (liquidityUSD + tradeUSD) * 100
	switch {
	case impact > 100:
		return 100.0
	case impact < 0:
		return 0.0
	}
	return impact
}
