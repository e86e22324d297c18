package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"tokenbot/internal/domain"
)

const tonAPIBaseURL = "https://tonapi.io"

// TonAPIClient is the free-tier fallback for TON jettons: a rates
// lookup and a jetton-metadata lookup, issued independently. Like the
// Solana free tier it reports no liquidity, so price impact uses
// AssumedLiquidityUSD.
type TonAPIClient struct {
	http *resty.Client
}

// NewTonAPIClient creates a free-tier jetton price/metadata client.
func NewTonAPIClient(opts ...Option) *TonAPIClient {
	o := buildOptions(tonAPIBaseURL, opts)
	c := newHTTPClient(o)
	if o.apiKey != "" {
		c.SetHeader("Authorization", "Bearer "+o.apiKey)
	}
	return &TonAPIClient{http: c}
}

func (c *TonAPIClient) Name() string { return "tonapi" }

type tonRatesResponse struct {
	Rates map[string]struct {
		Prices map[string]float64 `json:"prices"`
	} `json:"rates"`
}

type tonJettonResponse struct {
	Metadata struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"metadata"`
}

// Fetch runs the two sub-calls and composes whatever succeeded.
func (c *TonAPIClient) Fetch(ctx context.Context, address string, ref Ref) (*domain.Quote, error) {
	q := &domain.Quote{Source: c.Name()}

	priceErr := c.fetchRate(ctx, address, ref, q)
	metaErr := c.fetchMetadata(ctx, address, q)
	if priceErr != nil && metaErr != nil {
		return nil, errors.Join(priceErr, metaErr)
	}
	return q, nil
}

func (c *TonAPIClient) fetchRate(ctx context.Context, address string, ref Ref, q *domain.Quote) error {
	var out tonRatesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("tokens", address).
		SetQueryParam("currencies", "usd").
		SetResult(&out).
		Get("/v2/rates")
	if err != nil {
		return wrapErr(c.Name(), err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%s: %w", c.Name(), &StatusError{Status: resp.StatusCode()})
	}

	price := out.Rates[address].Prices["USD"]
	if price <= 0 {
		return fmt.Errorf("%s: %w: no usd rate", c.Name(), ErrNotFound)
	}

	impact := PriceImpactPct(ref.TradeUSD(), AssumedLiquidityUSD)
	q.PriceUSD = &price
	q.PriceImpactPct = &impact
	return nil
}

func (c *TonAPIClient) fetchMetadata(ctx context.Context, address string, q *domain.Quote) error {
	var out tonJettonResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v2/jettons/" + address)
	if err != nil {
		return wrapErr(c.Name(), err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%s: %w", c.Name(), ErrNotFound)
	case resp.StatusCode() != http.StatusOK:
		return fmt.Errorf("%s: %w", c.Name(), &StatusError{Status: resp.StatusCode()})
	}

	if out.Metadata.Name != "" {
		name := out.Metadata.Name
		q.Name = &name
	}
	if out.Metadata.Symbol != "" {
		symbol := out.Metadata.Symbol
		q.Symbol = &symbol
	}
	return nil
}

var _ Provider = (*TonAPIClient)(nil)
