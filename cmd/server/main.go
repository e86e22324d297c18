// Command server exposes token resolution, wallet balances, and user
// trading settings over HTTP.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"tokenbot/internal/chain"
	"tokenbot/internal/config"
	"tokenbot/internal/domain"
	"tokenbot/internal/observability"
	"tokenbot/internal/providers"
	"tokenbot/internal/resolver"
	"tokenbot/internal/solana"
	"tokenbot/internal/storage"
	"tokenbot/internal/storage/memory"
	"tokenbot/internal/storage/migrations"
	"tokenbot/internal/storage/postgres"
	"tokenbot/internal/tokeninfo"
	"tokenbot/internal/ton"
	"tokenbot/internal/wallet"
)

// Server holds the wired services behind the HTTP API.
type Server struct {
	tokens   *tokeninfo.Service
	wallets  *wallet.Service
	settings storage.UserSettingsStore
	logger   *log.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", cfg.ListenAddr, "HTTP listen address")
	rpcEndpoint := flag.String("rpc-endpoint", cfg.SolanaRPCEndpoint, "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", cfg.SolanaWSEndpoint, "Solana WebSocket endpoint")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory settings storage instead of PostgreSQL")
	watchWallets := flag.String("watch-wallets", "", "Comma-separated Solana wallets to watch for balance changes")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics("tokenbot")

	// Settings store
	settingsStore, cleanup, err := createSettingsStore(ctx, *postgresDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create settings store: %v", err)
	}
	defer cleanup()

	// Market-data services
	tokens := buildTokenService(cfg, metrics, logger)

	wallets := wallet.New(wallet.Config{
		Solana:  solana.NewHTTPClient(*rpcEndpoint),
		TON:     ton.NewClient(ton.WithAPIKey(cfg.ToncenterAPIKey)),
		Oracle:  providers.NewCoinGeckoOracle(providers.WithTimeout(cfg.ProviderTimeout)),
		Logger:  logger,
		Metrics: metrics,
	})

	server := &Server{
		tokens:   tokens,
		wallets:  wallets,
		settings: settingsStore,
		logger:   logger,
	}

	// Optional live balance watch over WebSocket
	if *watchWallets != "" {
		ws, err := solana.NewWSClient(ctx, *wsEndpoint, nil)
		if err != nil {
			logger.Fatalf("Failed to connect WebSocket: %v", err)
		}
		defer ws.Close()
		for _, address := range strings.Split(*watchWallets, ",") {
			address = strings.TrimSpace(address)
			if address == "" {
				continue
			}
			watchBalance(ctx, ws, address, logger)
		}
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}()

	logger.Printf("Starting HTTP server on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// buildTokenService wires the per-chain provider stacks.
func buildTokenService(cfg *config.Config, metrics *observability.Metrics, logger *log.Logger) *tokeninfo.Service {
	timeout := providers.WithTimeout(cfg.ProviderTimeout)
	oracle := providers.NewCoinGeckoOracle(timeout)

	solFallback := resolver.FallbackSolPriceUSD
	if cfg.FallbackSolPriceUSD > 0 {
		solFallback = cfg.FallbackSolPriceUSD
	}
	tonFallback := resolver.FallbackTonPriceUSD
	if cfg.FallbackTonPriceUSD > 0 {
		tonFallback = cfg.FallbackTonPriceUSD
	}
	solTradeSize := resolver.DefaultSolTradeSize
	if cfg.SolTradeSize > 0 {
		solTradeSize = cfg.SolTradeSize
	}
	tonTradeSize := resolver.DefaultTonTradeSize
	if cfg.TonTradeSize > 0 {
		tonTradeSize = cfg.TonTradeSize
	}

	solCfg := resolver.Config{
		Chain:             domain.ChainSolana,
		Primaries:         []providers.Provider{providers.NewDexScreenerClient(domain.ChainSolana, timeout)},
		FreeTier:          providers.NewBirdeyeClient(timeout, providers.WithAPIKey(cfg.BirdeyeAPIKey)),
		Oracle:            oracle,
		FallbackNativeUSD: solFallback,
		TradeSizeNative:   solTradeSize,
		Logger:            logger,
		Metrics:           metrics,
	}
	if cfg.JupiterAPIKey != "" {
		solCfg.Authenticated = providers.NewJupiterClient(timeout, providers.WithAPIKey(cfg.JupiterAPIKey))
	}

	tonCfg := resolver.Config{
		Chain:             domain.ChainTON,
		Primaries:         []providers.Provider{providers.NewDexScreenerClient(domain.ChainTON, timeout)},
		FreeTier:          providers.NewTonAPIClient(timeout, providers.WithAPIKey(cfg.TonAPIKey)),
		Oracle:            oracle,
		FallbackNativeUSD: tonFallback,
		TradeSizeNative:   tonTradeSize,
		Logger:            logger,
		Metrics:           metrics,
	}

	return tokeninfo.New(map[domain.Chain]*resolver.Resolver{
		domain.ChainSolana: resolver.New(solCfg),
		domain.ChainTON:    resolver.New(tonCfg),
	}, logger)
}

// createSettingsStore selects postgres or in-memory settings storage.
func createSettingsStore(ctx context.Context, dsn string, useMemory bool) (storage.UserSettingsStore, func(), error) {
	if useMemory {
		return memory.NewUserSettingsStore(), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return postgres.NewUserSettingsStore(pool), pool.Close, nil
}

// watchBalance logs lamports changes for one wallet.
func watchBalance(ctx context.Context, ws *solana.WSClient, address string, logger *log.Logger) {
	ch, err := ws.SubscribeAccount(ctx, address)
	if err != nil {
		logger.Printf("Failed to watch %s: %v", address, err)
		return
	}
	logger.Printf("Watching balance of %s", address)
	go func() {
		for update := range ch {
			logger.Printf("Balance change: %s now %.4f SOL", update.Address, solana.ToSOL(update.Lamports))
		}
	}()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())

	mux.HandleFunc("GET /api/token/{address}", s.handleToken)
	mux.HandleFunc("GET /api/wallet/{chain}/{address}/balance", s.handleWalletBalance)
	mux.HandleFunc("GET /api/settings/{userID}", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings/{userID}", s.handlePutSettings)

	return mux
}

type tokenResponse struct {
	Chain   string            `json:"chain"`
	Token   *domain.TokenInfo `json:"token"`
	Display string            `json:"display"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	info, ch, err := s.tokens.GetTokenInfo(r.Context(), address)
	if err != nil {
		if errors.Is(err, chain.ErrUnsupportedLength) || errors.Is(err, chain.ErrInvalidEncoding) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Chain:   string(ch),
		Token:   info,
		Display: tokeninfo.FormatDisplay(info, ch, 0),
	})
}

type balanceResponse struct {
	Chain   string  `json:"chain"`
	Address string  `json:"address"`
	Native  float64 `json:"native"`
	USD     float64 `json:"usd"`
}

func (s *Server) handleWalletBalance(w http.ResponseWriter, r *http.Request) {
	ch := domain.Chain(r.PathValue("chain"))
	address := r.PathValue("address")

	if ch != domain.ChainSolana && ch != domain.ChainTON {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported chain %q", ch))
		return
	}

	balance, err := s.wallets.BalanceWithUSD(r.Context(), ch, address)
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidWallet) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		Chain:   string(ch),
		Address: address,
		Native:  balance.Native,
		USD:     balance.USD,
	})
}

type settingsPayload struct {
	Chain string              `json:"chain"`
	Buy   tradeSettingsJSON   `json:"buy"`
	Sell  tradeSettingsJSON   `json:"sell"`
}

type tradeSettingsJSON struct {
	Presets     []float64 `json:"presets"`
	SlippagePct float64   `json:"slippage_pct"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid user id"))
		return
	}

	// Without an explicit chain, list everything the user saved.
	chainParam := r.URL.Query().Get("chain")
	if chainParam == "" {
		all, err := s.settings.ListByUser(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, all)
		return
	}

	ch := domain.Chain(chainParam)
	settings, err := s.settings.Get(r.Context(), userID, ch)
	if errors.Is(err, storage.ErrNotFound) {
		// Unsaved users get the chain defaults.
		settings = domain.DefaultSettings(userID, ch)
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid user id"))
		return
	}

	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}

	ch := domain.Chain(payload.Chain)
	if ch != domain.ChainSolana && ch != domain.ChainTON {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported chain %q", payload.Chain))
		return
	}

	settings := &domain.UserSettings{
		UserID:    userID,
		Chain:     ch,
		Buy:       domain.TradeSettings{Presets: payload.Buy.Presets, SlippagePct: payload.Buy.SlippagePct},
		Sell:      domain.TradeSettings{Presets: payload.Sell.Presets, SlippagePct: payload.Sell.SlippagePct},
		UpdatedAt: time.Now().UnixMilli(),
	}
	if err := s.settings.Put(r.Context(), settings); err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
