// Package ton provides a minimal client for the toncenter HTTP API,
// covering wallet balance lookups.
package ton

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://toncenter.com"
	defaultTimeout = 10 * time.Second

	// NanotonsPerTON is the number of nanotons in one TON.
	NanotonsPerTON = 1_000_000_000
)

// Client calls the toncenter API. The free tier works without an API
// key at a reduced rate limit.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.http.SetBaseURL(url) }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithAPIKey sets the toncenter API key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.http.SetHeader("X-API-Key", key)
		}
	}
}

// NewClient creates a toncenter client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type addressInfoResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Result struct {
		Balance string `json:"balance"`
	} `json:"result"`
}

// GetBalance returns the wallet balance in nanotons.
func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {
	var body addressInfoResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("address", address).
		SetResult(&body).
		Get("/api/v2/getAddressInformation")
	if err != nil {
		return 0, fmt.Errorf("toncenter: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("toncenter: unexpected status %d", resp.StatusCode())
	}
	if !body.OK {
		return 0, fmt.Errorf("toncenter: %s", body.Error)
	}

	nanotons, err := strconv.ParseUint(body.Result.Balance, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("toncenter: parse balance %q: %w", body.Result.Balance, err)
	}
	return nanotons, nil
}

// ToTON converts nanotons to TON.
func ToTON(nanotons uint64) float64 {
	return float64(nanotons) / NanotonsPerTON
}
