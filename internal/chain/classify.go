// Package chain detects which blockchain a pasted token address belongs to.
// Detection is purely structural: no network access, deterministic.
package chain

import (
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"tokenbot/internal/domain"
)

// Classification errors. ErrInvalidEncoding means the length window
// matched but the payload is not a valid key for that chain.
var (
	ErrUnsupportedLength = errors.New("address length matches no supported chain")
	ErrInvalidEncoding   = errors.New("address is not a valid public key")
)

const (
	solanaMinLen = 40
	solanaMaxLen = 44
	tonAddrLen   = 48
	pubkeyBytes  = 32
)

// TON user-friendly addresses are base64 with a tag byte that renders
// as one of these prefixes (bounceable / non-bounceable, mainnet).
var tonPrefixes = []string{"EQ", "UQ"}

// Classify maps a raw address string to its chain. Rules apply in
// order, first match wins:
//   - length 40..44 and base58-decodes to 32 bytes → Solana
//   - length 48 with a known two-letter prefix → TON
//
// A length-window match with an invalid encoding is ErrInvalidEncoding,
// never a silent fallthrough to the next rule.
func Classify(address string) (domain.Chain, error) {
	switch n := len(address); {
	case n >= solanaMinLen && n <= solanaMaxLen:
		decoded, err := base58.Decode(address)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, address)
		}
		if len(decoded) != pubkeyBytes {
			return "", fmt.Errorf("%w: decoded to %d bytes", ErrInvalidEncoding, len(decoded))
		}
		return domain.ChainSolana, nil

	case n == tonAddrLen:
		for _, p := range tonPrefixes {
			if strings.HasPrefix(address, p) {
				return domain.ChainTON, nil
			}
		}
		return "", fmt.Errorf("%w: unrecognized prefix %q", ErrInvalidEncoding, address[:2])

	default:
		return "", fmt.Errorf("%w: length %d", ErrUnsupportedLength, n)
	}
}

// IsOnCurve reports whether a Solana address is a valid ed25519 curve
// point. Wallet addresses are always on-curve; mint addresses may be
// program-derived and off-curve, so this is not part of Classify.
func IsOnCurve(address string) bool {
	decoded, err := base58.Decode(address)
	if err != nil || len(decoded) != pubkeyBytes {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}
