// Package resolver orchestrates market-data providers for one chain:
// primary providers in priority order with short-circuit on the first
// sufficient result, then exactly one fallback path selected by
// credential availability.
package resolver

import (
	"context"
	"log"
	"time"

	"tokenbot/internal/domain"
	"tokenbot/internal/observability"
	"tokenbot/internal/providers"
)

// Reference-price constants substituted when the oracle is unreachable.
// Stale by design: resolution proceeds on a documented constant rather
// than aborting when only the native rate is missing.
const (
	FallbackSolPriceUSD = 150.0
	FallbackTonPriceUSD = 3.10
)

// Default reference trade sizes in native currency, used for
// price-impact estimation.
const (
	DefaultSolTradeSize = 0.01
	DefaultTonTradeSize = 0.02
)

// Config assembles a per-chain resolver. Primaries are tried in slice
// order; Authenticated is used as the single fallback path when
// non-nil, otherwise FreeTier is.
type Config struct {
	Chain             domain.Chain
	Primaries         []providers.Provider
	Authenticated     providers.Provider
	FreeTier          providers.Provider
	Oracle            providers.ReferenceSource
	FallbackNativeUSD float64
	TradeSizeNative   float64
	Logger            *log.Logger
	Metrics           *observability.Metrics
}

// Resolver produces a normalized market snapshot for one chain.
// Stateless across calls; concurrent resolutions are independent.
type Resolver struct {
	chain             domain.Chain
	primaries         []providers.Provider
	authenticated     providers.Provider
	freeTier          providers.Provider
	oracle            providers.ReferenceSource
	fallbackNativeUSD float64
	tradeSizeNative   float64
	logger            *log.Logger
	metrics           *observability.Metrics
}

// New creates a resolver from the config.
func New(cfg Config) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[resolver] ", log.LstdFlags)
	}
	return &Resolver{
		chain:             cfg.Chain,
		primaries:         cfg.Primaries,
		authenticated:     cfg.Authenticated,
		freeTier:          cfg.FreeTier,
		oracle:            cfg.Oracle,
		fallbackNativeUSD: cfg.FallbackNativeUSD,
		tradeSizeNative:   cfg.TradeSizeNative,
		logger:            logger,
		metrics:           cfg.Metrics,
	}
}

// Resolve fetches the reference price once, then walks the provider
// chain. The returned snapshot always satisfies the non-empty
// invariant; an exhausted chain yields a *ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, address string) (info *domain.TokenInfo, err error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveResolution(string(r.chain), start, err)
	}()

	ref := providers.Ref{
		NativePriceUSD:  r.referencePrice(ctx),
		TradeSizeNative: r.tradeSizeNative,
	}

	resErr := &ResolutionError{Chain: r.chain, Address: address}

	for _, p := range r.primaries {
		quote, ferr := r.fetch(ctx, p, address, ref)
		if ferr != nil {
			r.logger.Printf("provider %s failed for %s: %v", p.Name(), address, ferr)
			resErr.record(p.Name(), ferr)
			continue
		}
		if quote.Sufficient() {
			return quote.Snapshot(address), nil
		}
		resErr.record(p.Name(), providers.ErrNotFound)
	}

	// Exactly one fallback path per resolution: the authenticated
	// quote service when a credential is configured, else free tier.
	fallback := r.freeTier
	if r.authenticated != nil {
		fallback = r.authenticated
	}
	if fallback == nil {
		return nil, resErr
	}

	quote, ferr := r.fetch(ctx, fallback, address, ref)
	if ferr != nil {
		r.logger.Printf("fallback %s failed for %s: %v", fallback.Name(), address, ferr)
		resErr.record(fallback.Name(), ferr)
		return nil, resErr
	}

	snapshot := quote.Snapshot(address)
	if !snapshot.Resolved() {
		resErr.record(fallback.Name(), providers.ErrNotFound)
		return nil, resErr
	}
	return snapshot, nil
}

// referencePrice consults the oracle once; on any failure the
// documented constant is substituted and resolution continues.
func (r *Resolver) referencePrice(ctx context.Context) float64 {
	if r.oracle != nil {
		start := time.Now()
		price, err := r.oracle.NativePrice(ctx, r.chain)
		r.metrics.ObserveProviderCall("oracle", start, err)
		if err == nil && price > 0 {
			return price
		}
		if err != nil {
			r.logger.Printf("reference price fetch failed for %s, using fallback %.2f: %v",
				r.chain, r.fallbackNativeUSD, err)
		}
	}
	r.metrics.ObserveReferencePriceFallback(string(r.chain))
	return r.fallbackNativeUSD
}

func (r *Resolver) fetch(ctx context.Context, p providers.Provider, address string, ref providers.Ref) (*domain.Quote, error) {
	start := time.Now()
	quote, err := p.Fetch(ctx, address, ref)
	r.metrics.ObserveProviderCall(p.Name(), start, err)
	return quote, err
}
