package providers

import (
	"math"
	"testing"
)

func TestPriceImpactPct(t *testing.T) {
	tests := []struct {
		name      string
		tradeUSD  float64
		liquidity float64
		want      float64
	}{
		{"reference scenario", 1.5, 20000, 1.5 / 20001.5 * 100},
		{"zero liquidity is total impact", 1.5, 0, 100},
		{"negative liquidity is total impact", 1.5, -50, 100},
		{"tiny pool approaches full impact", 1e9, 1, 100 * 1e9 / (1e9 + 1)},
		{"zero trade", 0, 20000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceImpactPct(tt.tradeUSD, tt.liquidity)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PriceImpactPct(%v, %v) = %v, want %v", tt.tradeUSD, tt.liquidity, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("impact %v outside [0, 100]", got)
			}
		})
	}
}

func TestPriceImpactPct_LiquidityFloor(t *testing.T) {
	// Exactly zero liquidity must be the sentinel, not a near-100 ratio.
	if got := PriceImpactPct(10, 0); got != 100.0 {
		t.Errorf("expected exactly 100.0, got %v", got)
	}
}
