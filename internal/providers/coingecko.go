package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"tokenbot/internal/domain"
)

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGecko coin identifiers for native currencies.
var coinGeckoIDs = map[domain.Chain]string{
	domain.ChainSolana: "solana",
	domain.ChainTON:    "the-open-network",
}

// CoinGeckoOracle supplies the native-coin USD rate consulted once per
// resolution. It knows nothing about the target token.
type CoinGeckoOracle struct {
	http *resty.Client
}

// NewCoinGeckoOracle creates a reference-price oracle.
func NewCoinGeckoOracle(opts ...Option) *CoinGeckoOracle {
	o := buildOptions(coinGeckoBaseURL, opts)
	return &CoinGeckoOracle{http: newHTTPClient(o)}
}

func (c *CoinGeckoOracle) Name() string { return "coingecko" }

// NativePrice fetches the USD rate for the chain's native coin.
func (c *CoinGeckoOracle) NativePrice(ctx context.Context, chain domain.Chain) (float64, error) {
	id, ok := coinGeckoIDs[chain]
	if !ok {
		return 0, fmt.Errorf("%s: no coin id for chain %q", c.Name(), chain)
	}

	// {"solana": {"usd": 150.12}}
	var out map[string]map[string]float64
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("ids", id).
		SetQueryParam("vs_currencies", "usd").
		SetResult(&out).
		Get("/simple/price")
	if err != nil {
		return 0, wrapErr(c.Name(), err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("%s: %w", c.Name(), &StatusError{Status: resp.StatusCode()})
	}

	price, ok := out[id]["usd"]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("%s: %w: missing usd rate for %s", c.Name(), ErrMalformed, id)
	}
	return price, nil
}

var _ ReferenceSource = (*CoinGeckoOracle)(nil)
