// Command resolve fetches a token market snapshot for one address and
// prints the buy-menu view.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"tokenbot/internal/config"
	"tokenbot/internal/domain"
	"tokenbot/internal/providers"
	"tokenbot/internal/resolver"
	"tokenbot/internal/solana"
	"tokenbot/internal/tokeninfo"
	"tokenbot/internal/wallet"
)

func main() {
	walletAddr := flag.String("wallet", "", "Optional wallet address to show the native balance for")
	jsonOut := flag.Bool("json", false, "Print the raw snapshot as JSON instead of the buy menu")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall resolution timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <token-address>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	address := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := log.New(os.Stderr, "[resolve] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	tokens := buildTokenService(cfg, logger)

	info, ch, err := tokens.GetTokenInfo(ctx, address)
	if err != nil {
		logger.Fatalf("Resolution failed: %v", err)
	}

	balance := 0.0
	if *walletAddr != "" {
		wallets := wallet.New(wallet.Config{
			Solana: solana.NewHTTPClient(cfg.SolanaRPCEndpoint),
			Logger: logger,
		})
		balance, err = wallets.NativeBalance(ctx, ch, *walletAddr)
		if err != nil {
			logger.Printf("Balance lookup failed: %v", err)
		}
	}

	if *jsonOut {
		out, err := json.MarshalIndent(map[string]interface{}{
			"chain": ch,
			"token": info,
		}, "", "  ")
		if err != nil {
			logger.Fatalf("Encode failed: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println(tokeninfo.FormatDisplay(info, ch, balance))
}

func buildTokenService(cfg *config.Config, logger *log.Logger) *tokeninfo.Service {
	timeout := providers.WithTimeout(cfg.ProviderTimeout)
	oracle := providers.NewCoinGeckoOracle(timeout)

	solCfg := resolver.Config{
		Chain:             domain.ChainSolana,
		Primaries:         []providers.Provider{providers.NewDexScreenerClient(domain.ChainSolana, timeout)},
		FreeTier:          providers.NewBirdeyeClient(timeout, providers.WithAPIKey(cfg.BirdeyeAPIKey)),
		Oracle:            oracle,
		FallbackNativeUSD: resolver.FallbackSolPriceUSD,
		TradeSizeNative:   resolver.DefaultSolTradeSize,
		Logger:            logger,
	}
	if cfg.JupiterAPIKey != "" {
		solCfg.Authenticated = providers.NewJupiterClient(timeout, providers.WithAPIKey(cfg.JupiterAPIKey))
	}

	tonCfg := resolver.Config{
		Chain:             domain.ChainTON,
		Primaries:         []providers.Provider{providers.NewDexScreenerClient(domain.ChainTON, timeout)},
		FreeTier:          providers.NewTonAPIClient(timeout, providers.WithAPIKey(cfg.TonAPIKey)),
		Oracle:            oracle,
		FallbackNativeUSD: resolver.FallbackTonPriceUSD,
		TradeSizeNative:   resolver.DefaultTonTradeSize,
		Logger:            logger,
	}

	return tokeninfo.New(map[domain.Chain]*resolver.Resolver{
		domain.ChainSolana: resolver.New(solCfg),
		domain.ChainTON:    resolver.New(tonCfg),
	}, logger)
}
