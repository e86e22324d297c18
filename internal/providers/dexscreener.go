package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"tokenbot/internal/domain"
)

const dexScreenerBaseURL = "https://api.dexscreener.com"

// DexScreener chain identifiers.
var dexScreenerChainIDs = map[domain.Chain]string{
	domain.ChainSolana: "solana",
	domain.ChainTON:    "ton",
}

// DexScreenerClient queries the DexScreener pair-lookup endpoint. It is
// the primary provider for both chains: on success it supplies name,
// symbol, price, liquidity and market cap in one call. Price impact is
// derived locally from the reported liquidity.
type DexScreenerClient struct {
	http  *resty.Client
	chain domain.Chain
}

// NewDexScreenerClient creates a DexScreener client scoped to one chain.
// A pair whose chain identifier differs from the scoped chain is a
// not-found, never a cross-chain result.
func NewDexScreenerClient(chain domain.Chain, opts ...Option) *DexScreenerClient {
	o := buildOptions(dexScreenerBaseURL, opts)
	return &DexScreenerClient{
		http:  newHTTPClient(o),
		chain: chain,
	}
}

func (c *DexScreenerClient) Name() string { return "dexscreener" }

type dexPairsResponse struct {
	Pairs []dexPair `json:"pairs"`
}

type dexPair struct {
	ChainID   string `json:"chainId"`
	BaseToken struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUSD  string `json:"priceUsd"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	MarketCap float64 `json:"marketCap"`
	FDV       float64 `json:"fdv"`
}

// Fetch looks up the token's primary trading pair.
func (c *DexScreenerClient) Fetch(ctx context.Context, address string, ref Ref) (*domain.Quote, error) {
	var out dexPairsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/latest/dex/tokens/" + address)
	if err != nil {
		return nil, wrapErr(c.Name(), err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", c.Name(), &StatusError{Status: resp.StatusCode()})
	}

	if len(out.Pairs) == 0 {
		return nil, fmt.Errorf("%s: %w: no pairs", c.Name(), ErrNotFound)
	}
	pair := out.Pairs[0]
	if pair.ChainID != dexScreenerChainIDs[c.chain] {
		return nil, fmt.Errorf("%s: %w: pair on chain %q", c.Name(), ErrNotFound, pair.ChainID)
	}

	price, err := strconv.ParseFloat(pair.PriceUSD, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: priceUsd %q", c.Name(), ErrMalformed, pair.PriceUSD)
	}

	marketCap := pair.MarketCap
	if marketCap == 0 {
		marketCap = pair.FDV
	}
	liquidity := pair.Liquidity.USD
	impact := PriceImpactPct(ref.TradeUSD(), liquidity)

	q := &domain.Quote{
		Source:         c.Name(),
		PriceUSD:       &price,
		LiquidityUSD:   &liquidity,
		MarketCapUSD:   &marketCap,
		PriceImpactPct: &impact,
	}
	if pair.BaseToken.Name != "" {
		q.Name = &pair.BaseToken.Name
	}
	if pair.BaseToken.Symbol != "" {
		q.Symbol = &pair.BaseToken.Symbol
	}
	return q, nil
}

var _ Provider = (*DexScreenerClient)(nil)
