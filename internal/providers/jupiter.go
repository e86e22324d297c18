package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"tokenbot/internal/domain"
)

const (
	jupiterBaseURL = "https://api.jup.ag"

	// Wrapped SOL mint, the input side of every simulated swap.
	wsolMint = "So11111111111111111111111111111111111111112"

	lamportsPerSOL = 1_000_000_000

	// Slippage tolerance sent with simulated quotes, in basis points.
	quoteSlippageBps = 50
)

// JupiterClient is the authenticated swap-quote provider, used as the
// fallback path only when an API key is configured. Price comes from a
// simulated swap of the reference trade into the target token; price
// impact is the provider's own estimate. Token identity comes from an
// independent metadata call that may fail without failing the quote.
type JupiterClient struct {
	http   *resty.Client
	apiKey string
}

// NewJupiterClient creates an authenticated quote client.
func NewJupiterClient(opts ...Option) *JupiterClient {
	o := buildOptions(jupiterBaseURL, opts)
	c := newHTTPClient(o)
	if o.apiKey != "" {
		c.SetHeader("x-api-key", o.apiKey)
	}
	return &JupiterClient{http: c, apiKey: o.apiKey}
}

func (c *JupiterClient) Name() string { return "jupiter" }

type jupiterQuoteResponse struct {
	OutAmount      string `json:"outAmount"`
	PriceImpactPct string `json:"priceImpactPct"`
}

type jupiterTokenResponse struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Fetch simulates a reference-sized swap and attaches token metadata.
func (c *JupiterClient) Fetch(ctx context.Context, address string, ref Ref) (*domain.Quote, error) {
	amount := int64(ref.TradeSizeNative * lamportsPerSOL)
	if amount <= 0 {
		amount = lamportsPerSOL / 100
	}

	var quote jupiterQuoteResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"inputMint":   wsolMint,
			"outputMint":  address,
			"amount":      strconv.FormatInt(amount, 10),
			"slippageBps": strconv.Itoa(quoteSlippageBps),
		}).
		SetResult(&quote).
		Get("/swap/v1/quote")
	if err != nil {
		return nil, wrapErr(c.Name(), err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", c.Name(), ErrNotFound)
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("%s: %w", c.Name(), &StatusError{Status: resp.StatusCode()})
	}

	outAmount, err := strconv.ParseFloat(quote.OutAmount, 64)
	if err != nil || outAmount <= 0 {
		return nil, fmt.Errorf("%s: %w: outAmount %q", c.Name(), ErrMalformed, quote.OutAmount)
	}

	price := outAmount / float64(amount) * ref.NativePriceUSD

	q := &domain.Quote{
		Source:   c.Name(),
		PriceUSD: &price,
	}
	if impact, err := strconv.ParseFloat(quote.PriceImpactPct, 64); err == nil {
		clamped := impact
		if clamped < 0 {
			clamped = 0
		}
		if clamped > 100 {
			clamped = 100
		}
		q.PriceImpactPct = &clamped
	}

	// Metadata is best-effort: a failure here leaves the sentinels in
	// place, independent of the quote call's success.
	if name, symbol, err := c.fetchMetadata(ctx, address); err == nil {
		if name != "" {
			q.Name = &name
		}
		if symbol != "" {
			q.Symbol = &symbol
		}
	}
	return q, nil
}

func (c *JupiterClient) fetchMetadata(ctx context.Context, address string) (string, string, error) {
	var token jupiterTokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&token).
		Get("/tokens/v1/token/" + address)
	if err != nil {
		return "", "", wrapErr(c.Name(), err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", "", fmt.Errorf("%s: %w", c.Name(), &StatusError{Status: resp.StatusCode()})
	}
	if token.Name == "" && token.Symbol == "" {
		return "", "", fmt.Errorf("%s: %w: empty metadata", c.Name(), ErrMalformed)
	}
	return token.Name, token.Symbol, nil
}

var _ Provider = (*JupiterClient)(nil)
