// Package wallet reads native-currency balances for user wallets on
// the supported chains.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"tokenbot/internal/chain"
	"tokenbot/internal/domain"
	"tokenbot/internal/observability"
	"tokenbot/internal/providers"
	"tokenbot/internal/solana"
	"tokenbot/internal/ton"
)

// ErrInvalidWallet indicates the address is not a plausible wallet for
// the requested chain.
var ErrInvalidWallet = errors.New("invalid wallet address")

// SolanaBalancer reads lamport balances from a Solana RPC node.
type SolanaBalancer interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
}

// TONBalancer reads nanoton balances from a TON API node.
type TONBalancer interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
}

// Balance is a wallet balance in the chain's native currency, with an
// optional USD valuation.
type Balance struct {
	Chain  domain.Chain
	Native float64
	USD    float64
}

// Service resolves wallet balances across chains.
type Service struct {
	solana  SolanaBalancer
	ton     TONBalancer
	oracle  providers.ReferenceSource
	logger  *log.Logger
	metrics *observability.Metrics
}

// Config holds Service dependencies. Oracle and Metrics are optional.
type Config struct {
	Solana  SolanaBalancer
	TON     TONBalancer
	Oracle  providers.ReferenceSource
	Logger  *log.Logger
	Metrics *observability.Metrics
}

// New creates a wallet Service.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		solana:  cfg.Solana,
		ton:     cfg.TON,
		oracle:  cfg.Oracle,
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

// NativeBalance returns the wallet balance in SOL or TON.
func (s *Service) NativeBalance(ctx context.Context, ch domain.Chain, address string) (float64, error) {
	native, err := s.nativeBalance(ctx, ch, address)
	s.metrics.ObserveBalanceRequest(string(ch), err)
	return native, err
}

func (s *Service) nativeBalance(ctx context.Context, ch domain.Chain, address string) (float64, error) {
	switch ch {
	case domain.ChainSolana:
		if s.solana == nil {
			return 0, fmt.Errorf("solana balance lookup not configured")
		}
		// Wallets are keypair accounts; off-curve addresses are PDAs
		// or mints and never hold a user's SOL.
		if !chain.IsOnCurve(address) {
			return 0, fmt.Errorf("%w: %s is not an ed25519 key", ErrInvalidWallet, address)
		}
		lamports, err := s.solana.GetBalance(ctx, address)
		if err != nil {
			return 0, fmt.Errorf("solana balance: %w", err)
		}
		return solana.ToSOL(lamports), nil

	case domain.ChainTON:
		if s.ton == nil {
			return 0, fmt.Errorf("ton balance lookup not configured")
		}
		if !strings.HasPrefix(address, "EQ") && !strings.HasPrefix(address, "UQ") {
			return 0, fmt.Errorf("%w: %s is not a user-friendly TON address", ErrInvalidWallet, address)
		}
		nanotons, err := s.ton.GetBalance(ctx, address)
		if err != nil {
			return 0, fmt.Errorf("ton balance: %w", err)
		}
		return ton.ToTON(nanotons), nil

	default:
		return 0, fmt.Errorf("unsupported chain %q", ch)
	}
}

// BalanceWithUSD returns the native balance plus its USD value at the
// current reference price. A reference-price failure degrades to a
// zero USD value rather than failing the lookup.
func (s *Service) BalanceWithUSD(ctx context.Context, ch domain.Chain, address string) (*Balance, error) {
	native, err := s.NativeBalance(ctx, ch, address)
	if err != nil {
		return nil, err
	}

	b := &Balance{Chain: ch, Native: native}
	if s.oracle != nil {
		price, err := s.oracle.NativePrice(ctx, ch)
		if err != nil {
			s.logger.Printf("wallet: reference price for %s unavailable: %v", ch, err)
		} else {
			b.USD = native * price
		}
	}
	return b, nil
}
