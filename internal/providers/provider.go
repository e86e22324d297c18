// Package providers wraps the external market-data HTTP APIs behind a
// uniform interface. Every client converts transport and payload faults
// into the package's failure taxonomy at its own boundary; callers only
// ever see a Quote or an error value.
package providers

import (
	"context"

	"tokenbot/internal/domain"
)

// Ref carries the per-resolution context threaded into provider calls:
// the native-coin USD rate fetched once per resolution and the fixed
// reference trade size used for price-impact estimation.
type Ref struct {
	NativePriceUSD  float64
	TradeSizeNative float64
}

// TradeUSD returns the reference trade size converted to USD.
func (r Ref) TradeUSD() float64 {
	return r.TradeSizeNative * r.NativePriceUSD
}

// Provider fetches a partial market-data result for a token address.
type Provider interface {
	// Name returns the provider identifier used in logs and metrics.
	Name() string

	// Fetch returns a partial result for the address. A reachable
	// provider with no relevant data returns ErrNotFound; transport
	// and payload faults map to the taxonomy in errors.go.
	Fetch(ctx context.Context, address string, ref Ref) (*domain.Quote, error)
}

// ReferenceSource supplies the native-coin USD rate for a chain.
type ReferenceSource interface {
	NativePrice(ctx context.Context, chain domain.Chain) (float64, error)
}
