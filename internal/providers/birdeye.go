package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"tokenbot/internal/domain"
)

const birdeyeBaseURL = "https://public-api.birdeye.so"

// BirdeyeClient is the free-tier fallback for Solana: a price lookup
// by mint and a metadata lookup by mint, issued independently so one
// can fail without the other. The free tier reports no liquidity, so
// price impact is estimated from AssumedLiquidityUSD.
type BirdeyeClient struct {
	http *resty.Client
}

// NewBirdeyeClient creates a free-tier price/metadata client.
func NewBirdeyeClient(opts ...Option) *BirdeyeClient {
	o := buildOptions(birdeyeBaseURL, opts)
	c := newHTTPClient(o)
	if o.apiKey != "" {
		c.SetHeader("X-API-KEY", o.apiKey)
	}
	return &BirdeyeClient{http: c}
}

func (c *BirdeyeClient) Name() string { return "birdeye" }

type birdeyePriceResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Value float64 `json:"value"`
	} `json:"data"`
}

type birdeyeMetaResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"data"`
}

// Fetch runs the two sub-calls and composes whatever succeeded. Only
// when both fail does the provider as a whole fail.
func (c *BirdeyeClient) Fetch(ctx context.Context, address string, ref Ref) (*domain.Quote, error) {
	q := &domain.Quote{Source: c.Name()}

	priceErr := c.fetchPrice(ctx, address, ref, q)
	metaErr := c.fetchMetadata(ctx, address, q)
	if priceErr != nil && metaErr != nil {
		return nil, errors.Join(priceErr, metaErr)
	}
	return q, nil
}

func (c *BirdeyeClient) fetchPrice(ctx context.Context, address string, ref Ref, q *domain.Quote) error {
	var out birdeyePriceResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("address", address).
		SetResult(&out).
		Get("/public/price")
	if err != nil {
		return wrapErr(c.Name(), err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%s: %w", c.Name(), &StatusError{Status: resp.StatusCode()})
	}
	if !out.Success || out.Data.Value <= 0 {
		return fmt.Errorf("%s: %w: no price data", c.Name(), ErrNotFound)
	}

	price := out.Data.Value
	impact := PriceImpactPct(ref.TradeUSD(), AssumedLiquidityUSD)
	q.PriceUSD = &price
	q.PriceImpactPct = &impact
	return nil
}

func (c *BirdeyeClient) fetchMetadata(ctx context.Context, address string, q *domain.Quote) error {
	var out birdeyeMetaResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("address", address).
		SetResult(&out).
		Get("/public/token_meta")
	if err != nil {
		return wrapErr(c.Name(), err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%s: %w", c.Name(), &StatusError{Status: resp.StatusCode()})
	}
	if !out.Success {
		return fmt.Errorf("%s: %w: no metadata", c.Name(), ErrNotFound)
	}

	if out.Data.Name != "" {
		name := out.Data.Name
		q.Name = &name
	}
	if out.Data.Symbol != "" {
		symbol := out.Data.Symbol
		q.Symbol = &symbol
	}
	return nil
}

var _ Provider = (*BirdeyeClient)(nil)
