package resolver

import (
	"fmt"
	"strings"

	"tokenbot/internal/domain"
)

// Attempt records one failed provider attempt during a resolution.
type Attempt struct {
	Provider string
	Err      error
}

// ResolutionError aggregates the per-provider failures of an exhausted
// resolution. It is kept for diagnostics; callers only need the
// boolean outcome.
type ResolutionError struct {
	Chain    domain.Chain
	Address  string
	Attempts []Attempt
}

func (e *ResolutionError) record(provider string, err error) {
	e.Attempts = append(e.Attempts, Attempt{Provider: provider, Err: err})
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "resolution failed for %s on %s", e.Address, e.Chain)
	for i, a := range e.Attempts {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %v", a.Provider, a.Err)
	}
	return b.String()
}
