package providers

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds every provider HTTP call.
const DefaultTimeout = 5 * time.Second

// clientOptions configures a provider client.
type clientOptions struct {
	baseURL string
	timeout time.Duration
	apiKey  string
}

// Option configures a provider client.
type Option func(*clientOptions)

// WithBaseURL overrides the provider's endpoint base URL.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) {
		o.baseURL = u
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithAPIKey sets the provider credential.
func WithAPIKey(key string) Option {
	return func(o *clientOptions) {
		o.apiKey = key
	}
}

func buildOptions(defaultBaseURL string, opts []Option) clientOptions {
	o := clientOptions{
		baseURL: defaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newHTTPClient creates a resty client with the shared transport
// defaults used by every provider.
func newHTTPClient(o clientOptions) *resty.Client {
	return resty.New().
		SetTransport(&http.Transport{Proxy: http.ProxyFromEnvironment}).
		SetBaseURL(o.baseURL).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json")
}
