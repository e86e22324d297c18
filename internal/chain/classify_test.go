package chain

import (
	"errors"
	"strings"
	"testing"

	"tokenbot/internal/domain"
)

const (
	wsolMint  = "So11111111111111111111111111111111111111112"
	usdcMint  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	tonJetton = "EQAYpxYkdsiJoOxnBqhrx5XkEyUNbRk0oHDnMIaKHiWTcRRv"
)

var tonNonBncl = "UQ" + tonJetton[2:]

func TestClassify_Valid(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    domain.Chain
	}{
		{"wrapped SOL mint", wsolMint, domain.ChainSolana},
		{"USDC mint", usdcMint, domain.ChainSolana},
		{"TON bounceable jetton", tonJetton, domain.ChainTON},
		{"TON non-bounceable", tonNonBncl, domain.ChainTON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.address)
			if err != nil {
				t.Fatalf("Classify(%q): %v", tt.address, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.address, got, tt.want)
			}
		})
	}
}

func TestClassify_UnsupportedLength(t *testing.T) {
	tests := []string{
		"",
		"invalid",
		"ABC123",
		strings.Repeat("1", 39),
		strings.Repeat("1", 45),
		strings.Repeat("1", 49),
	}

	for _, address := range tests {
		_, err := Classify(address)
		if !errors.Is(err, ErrUnsupportedLength) {
			t.Errorf("Classify(%q) err = %v, want ErrUnsupportedLength", address, err)
		}
	}
}

func TestClassify_InvalidEncoding(t *testing.T) {
	// Length inside the Solana window but not valid base58 / not 32 bytes.
	tests := []string{
		// 'l' and '0' are not in the base58 alphabet
		"l0l0l0l0l0l0l0l0l0l0l0l0l0l0l0l0l0l0l0l0l0l0",
		// valid base58 but decodes to fewer than 32 bytes
		strings.Repeat("1", 44),
	}

	for _, address := range tests {
		_, err := Classify(address)
		if !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("Classify(%q) err = %v, want ErrInvalidEncoding", address, err)
		}
	}
}

func TestClassify_TONBadPrefix(t *testing.T) {
	address := "XX" + tonJetton[2:]
	_, err := Classify(address)
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("Classify(%q) err = %v, want ErrInvalidEncoding", address, err)
	}
}

func TestIsOnCurve(t *testing.T) {
	// Wallet-style addresses are on-curve; garbage is not.
	if IsOnCurve("not-an-address") {
		t.Error("IsOnCurve accepted a non-base58 string")
	}
	if IsOnCurve(strings.Repeat("1", 44)) {
		t.Error("IsOnCurve accepted a short key")
	}
}
