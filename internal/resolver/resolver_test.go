package resolver

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"testing"

	"tokenbot/internal/domain"
	"tokenbot/internal/providers"
)

const testAddr = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

func ptr[T any](v T) *T { return &v }

// fakeProvider counts calls and returns a canned quote or error.
type fakeProvider struct {
	name  string
	quote *domain.Quote
	err   error
	calls int
	// lastRef captures the Ref the provider saw.
	lastRef providers.Ref
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(_ context.Context, _ string, ref providers.Ref) (*domain.Quote, error) {
	f.calls++
	f.lastRef = ref
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

// fakeOracle returns a fixed rate or an error.
type fakeOracle struct {
	price float64
	err   error
	calls int
}

func (f *fakeOracle) NativePrice(context.Context, domain.Chain) (float64, error) {
	f.calls++
	return f.price, f.err
}

func newResolver(t *testing.T, cfg Config) *Resolver {
	t.Helper()
	cfg.Chain = domain.ChainSolana
	cfg.Logger = log.New(io.Discard, "", 0)
	if cfg.FallbackNativeUSD == 0 {
		cfg.FallbackNativeUSD = FallbackSolPriceUSD
	}
	if cfg.TradeSizeNative == 0 {
		cfg.TradeSizeNative = DefaultSolTradeSize
	}
	return New(cfg)
}

func TestResolve_PrimaryShortCircuits(t *testing.T) {
	primary := &fakeProvider{name: "primary", quote: &domain.Quote{
		Name:         ptr("Test Token"),
		Symbol:       ptr("TST"),
		PriceUSD:     ptr(0.05),
		LiquidityUSD: ptr(20000.0),
		MarketCapUSD: ptr(150000.0),
	}}
	auth := &fakeProvider{name: "auth"}
	free := &fakeProvider{name: "free"}

	r := newResolver(t, Config{
		Primaries:     []providers.Provider{primary},
		Authenticated: auth,
		FreeTier:      free,
		Oracle:        &fakeOracle{price: 150},
	})

	info, err := r.Resolve(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if info.PriceUSD != 0.05 || info.Name != "Test Token" {
		t.Errorf("unexpected snapshot %+v", info)
	}
	if info.Address != testAddr {
		t.Errorf("expected address echo, got %q", info.Address)
	}
	if auth.calls != 0 || free.calls != 0 {
		t.Errorf("fallbacks must not run after a sufficient primary: auth=%d free=%d",
			auth.calls, free.calls)
	}
}

func TestResolve_ReferencePriceThreadedToProviders(t *testing.T) {
	primary := &fakeProvider{name: "primary", quote: &domain.Quote{PriceUSD: ptr(1.0)}}

	r := newResolver(t, Config{
		Primaries: []providers.Provider{primary},
		Oracle:    &fakeOracle{price: 144.5},
	})

	if _, err := r.Resolve(context.Background(), testAddr); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if primary.lastRef.NativePriceUSD != 144.5 {
		t.Errorf("expected oracle rate in ref, got %v", primary.lastRef.NativePriceUSD)
	}
	if primary.lastRef.TradeSizeNative != DefaultSolTradeSize {
		t.Errorf("expected trade size %v, got %v", DefaultSolTradeSize, primary.lastRef.TradeSizeNative)
	}
}

func TestResolve_OracleFailureUsesConstant(t *testing.T) {
	primary := &fakeProvider{name: "primary", quote: &domain.Quote{PriceUSD: ptr(1.0)}}

	r := newResolver(t, Config{
		Primaries: []providers.Provider{primary},
		Oracle:    &fakeOracle{err: providers.ErrTimeout},
	})

	info, err := r.Resolve(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("resolution must continue on oracle failure: %v", err)
	}
	if info == nil {
		t.Fatal("expected snapshot")
	}
	if primary.lastRef.NativePriceUSD != FallbackSolPriceUSD {
		t.Errorf("expected fallback constant %v, got %v",
			FallbackSolPriceUSD, primary.lastRef.NativePriceUSD)
	}
}

func TestResolve_CredentialSelectsAuthenticatedPath(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: providers.ErrNotFound}
	auth := &fakeProvider{name: "auth", quote: &domain.Quote{PriceUSD: ptr(0.003)}}
	free := &fakeProvider{name: "free", quote: &domain.Quote{PriceUSD: ptr(0.004)}}

	r := newResolver(t, Config{
		Primaries:     []providers.Provider{primary},
		Authenticated: auth,
		FreeTier:      free,
		Oracle:        &fakeOracle{price: 150},
	})

	info, err := r.Resolve(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if info.PriceUSD != 0.003 {
		t.Errorf("expected authenticated path price, got %v", info.PriceUSD)
	}
	if free.calls != 0 {
		t.Errorf("free tier must never run when a credential is configured, calls=%d", free.calls)
	}
	if auth.calls != 1 {
		t.Errorf("expected exactly one authenticated attempt, got %d", auth.calls)
	}
}

func TestResolve_NoCredentialUsesFreeTier(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: &providers.StatusError{Status: 502}}
	// Free tier: price succeeded, metadata failed → sentinels remain.
	free := &fakeProvider{name: "free", quote: &domain.Quote{
		PriceUSD:       ptr(0.002),
		PriceImpactPct: ptr(providers.PriceImpactPct(1.5, providers.AssumedLiquidityUSD)),
	}}

	r := newResolver(t, Config{
		Primaries: []providers.Provider{primary},
		FreeTier:  free,
		Oracle:    &fakeOracle{price: 150},
	})

	info, err := r.Resolve(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if info.PriceUSD != 0.002 {
		t.Errorf("unexpected price %v", info.PriceUSD)
	}
	if info.Name != domain.UnknownName || info.Symbol != domain.UnknownSymbol {
		t.Errorf("expected sentinels, got %q %q", info.Name, info.Symbol)
	}
	wantImpact := providers.PriceImpactPct(1.5, providers.AssumedLiquidityUSD)
	if math.Abs(info.PriceImpactPct-wantImpact) > 1e-12 {
		t.Errorf("unexpected impact %v, want %v", info.PriceImpactPct, wantImpact)
	}
}

func TestResolve_AllPathsExhausted(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: providers.ErrTimeout}
	free := &fakeProvider{name: "free", err: providers.ErrNotFound}

	r := newResolver(t, Config{
		Primaries: []providers.Provider{primary},
		FreeTier:  free,
		Oracle:    &fakeOracle{price: 150},
	})

	info, err := r.Resolve(context.Background(), testAddr)
	if info != nil {
		t.Errorf("expected nil snapshot, got %+v", info)
	}

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if len(resErr.Attempts) != 2 {
		t.Fatalf("expected 2 recorded attempts, got %d", len(resErr.Attempts))
	}
	if resErr.Attempts[0].Provider != "primary" || resErr.Attempts[1].Provider != "free" {
		t.Errorf("unexpected attempt order %+v", resErr.Attempts)
	}
	if !errors.Is(resErr.Attempts[0].Err, providers.ErrTimeout) {
		t.Errorf("expected timeout recorded, got %v", resErr.Attempts[0].Err)
	}
}

func TestResolve_NeverReturnsAllSentinelSnapshot(t *testing.T) {
	// Fallback produced a quote with no price and no identity.
	primary := &fakeProvider{name: "primary", err: providers.ErrNotFound}
	free := &fakeProvider{name: "free", quote: &domain.Quote{Source: "free"}}

	r := newResolver(t, Config{
		Primaries: []providers.Provider{primary},
		FreeTier:  free,
		Oracle:    &fakeOracle{price: 150},
	})

	info, err := r.Resolve(context.Background(), testAddr)
	if err == nil {
		t.Fatal("expected failure for an all-sentinel result")
	}
	if info != nil {
		t.Errorf("expected nil snapshot, got %+v", info)
	}
}

func TestResolve_InsufficientPrimaryFallsThrough(t *testing.T) {
	// Primary answered but supplied neither price nor identity.
	primary := &fakeProvider{name: "primary", quote: &domain.Quote{Source: "primary"}}
	free := &fakeProvider{name: "free", quote: &domain.Quote{Symbol: ptr("TST")}}

	r := newResolver(t, Config{
		Primaries: []providers.Provider{primary},
		FreeTier:  free,
		Oracle:    &fakeOracle{price: 150},
	})

	info, err := r.Resolve(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if info.Symbol != "TST" {
		t.Errorf("expected free-tier symbol, got %q", info.Symbol)
	}
	if free.calls != 1 {
		t.Errorf("expected fallback attempt, calls=%d", free.calls)
	}
}
