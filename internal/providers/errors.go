package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// Provider failure taxonomy. Every fault inside a provider call is
// converted to one of these before it reaches the resolver.
var (
	// ErrNotFound means the provider was reached but has no relevant
	// data for the token (no pairs, wrong chain, unknown mint).
	ErrNotFound = errors.New("token not found")

	// ErrTimeout means the bounded call did not complete in time.
	ErrTimeout = errors.New("provider call timed out")

	// ErrMalformed means the provider was reached but its payload
	// could not be used (bad JSON, non-numeric price field).
	ErrMalformed = errors.New("malformed provider response")
)

// StatusError is a non-2xx HTTP response from a provider.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// wrapErr classifies a transport-level error under the taxonomy and
// tags it with the provider name.
func wrapErr(provider string, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%s: %w", provider, ErrTimeout)
	}
	if isDecodeError(err) {
		return fmt.Errorf("%s: %w: %v", provider, ErrMalformed, err)
	}
	return fmt.Errorf("%s: %w", provider, err)
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
