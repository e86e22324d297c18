// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the token info services.
type Config struct {
	// JupiterAPIKey enables the authenticated swap-quote path when
	// non-empty.
	JupiterAPIKey string
	// BirdeyeAPIKey raises the free-tier rate limit; optional.
	BirdeyeAPIKey string
	// TonAPIKey authenticates tonapi.io requests; optional.
	TonAPIKey string
	// ToncenterAPIKey authenticates toncenter balance lookups; optional.
	ToncenterAPIKey string

	// SolanaRPCEndpoint is the HTTP JSON-RPC endpoint.
	SolanaRPCEndpoint string
	// SolanaWSEndpoint is the WebSocket endpoint for balance watches.
	SolanaWSEndpoint string

	// PostgresDSN selects the postgres settings store when non-empty;
	// otherwise settings live in memory.
	PostgresDSN string

	// ListenAddr is the HTTP API listen address.
	ListenAddr string

	// ProviderTimeout bounds each market-data provider request.
	ProviderTimeout time.Duration

	// SolTradeSize and TonTradeSize are the notional trade sizes used
	// for price-impact estimates, in native units.
	SolTradeSize float64
	TonTradeSize float64

	// FallbackSolPriceUSD and FallbackTonPriceUSD replace the reference
	// price when the oracle is unreachable. Zero means use the built-in
	// constants.
	FallbackSolPriceUSD float64
	FallbackTonPriceUSD float64
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load() // Load .env if present

	cfg := &Config{
		JupiterAPIKey:     os.Getenv("JUPITER_API_KEY"),
		BirdeyeAPIKey:     os.Getenv("BIRDEYE_API_KEY"),
		TonAPIKey:         os.Getenv("TONAPI_KEY"),
		ToncenterAPIKey:   os.Getenv("TONCENTER_API_KEY"),
		SolanaRPCEndpoint: envOr("SOLANA_RPC_ENDPOINT", "https://api.mainnet-beta.solana.com"),
		SolanaWSEndpoint:  envOr("SOLANA_WS_ENDPOINT", "wss://api.mainnet-beta.solana.com"),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		ListenAddr:        envOr("LISTEN_ADDR", ":8080"),
	}

	var err error
	if cfg.ProviderTimeout, err = envDuration("PROVIDER_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.SolTradeSize, err = envFloat("SOL_TRADE_SIZE", 0); err != nil {
		return nil, err
	}
	if cfg.TonTradeSize, err = envFloat("TON_TRADE_SIZE", 0); err != nil {
		return nil, err
	}
	if cfg.FallbackSolPriceUSD, err = envFloat("FALLBACK_SOL_PRICE_USD", 0); err != nil {
		return nil, err
	}
	if cfg.FallbackTonPriceUSD, err = envFloat("FALLBACK_TON_PRICE_USD", 0); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number: %w", key, v, err)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration: %w", key, v, err)
	}
	return d, nil
}
