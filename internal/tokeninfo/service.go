// Package tokeninfo is the public entry point of the market-data
// pipeline: it classifies a pasted address, dispatches to the matching
// chain resolver and formats snapshots for display.
package tokeninfo

import (
	"context"
	"fmt"
	"log"

	"tokenbot/internal/chain"
	"tokenbot/internal/domain"
	"tokenbot/internal/resolver"
)

// Service routes addresses to per-chain resolvers.
type Service struct {
	resolvers map[domain.Chain]*resolver.Resolver
	logger    *log.Logger
}

// New creates the facade over the given per-chain resolvers.
func New(resolvers map[domain.Chain]*resolver.Resolver, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.Writer(), "[tokeninfo] ", log.LstdFlags)
	}
	return &Service{resolvers: resolvers, logger: logger}
}

// GetTokenInfo classifies the address and resolves its market snapshot.
// Callers need only the outcome: a snapshot, or an error meaning "no
// info available"; the per-provider detail stays in the logs.
func (s *Service) GetTokenInfo(ctx context.Context, address string) (*domain.TokenInfo, domain.Chain, error) {
	tag, err := chain.Classify(address)
	if err != nil {
		s.logger.Printf("rejected address %q: %v", address, err)
		return nil, "", err
	}

	r, ok := s.resolvers[tag]
	if !ok {
		s.logger.Printf("no resolver configured for chain %s", tag)
		return nil, tag, fmt.Errorf("chain %s not configured", tag)
	}

	info, err := r.Resolve(ctx, address)
	if err != nil {
		s.logger.Printf("resolution failed: %v", err)
		return nil, tag, err
	}
	return info, tag, nil
}
