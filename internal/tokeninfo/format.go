package tokeninfo

import (
	"fmt"
	"strings"

	"tokenbot/internal/domain"
)

// Suggested buy amounts shown under every snapshot, in native currency.
var buyAmounts = map[domain.Chain][]float64{
	domain.ChainSolana: {0.01, 0.02, 0.03, 0.04, 0.05},
	domain.ChainTON:    {0.02, 0.04, 0.06, 0.08, 0.1},
}

// FormatDisplay renders a snapshot into the fixed multi-line buy-menu
// template. Pure function: prices to 6 decimals, liquidity and market
// cap in thousands to 1 decimal, native unit chosen by chain.
func FormatDisplay(info *domain.TokenInfo, tag domain.Chain, walletBalance float64) string {
	unit := tag.NativeUnit()
	amounts := buyAmounts[tag]

	buttons := make([]string, len(amounts))
	for i, amt := range amounts {
		buttons[i] = fmt.Sprintf("[%v %s]", amt, unit)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Buy $%s - %s 📈\n", info.Symbol, info.Name)
	fmt.Fprintf(&b, "Token CA: %s\n", info.Address)
	fmt.Fprintf(&b, "Wallet Balance: %.2f %s\n", walletBalance, unit)
	fmt.Fprintf(&b, "Price: $%.6f - Liq: $%.1fK\n", info.PriceUSD, info.LiquidityUSD/1000)
	fmt.Fprintf(&b, "Market Cap: $%.1fK\n", info.MarketCapUSD/1000)
	b.WriteString(strings.Join(buttons, " "))
	b.WriteString("\n")
	fmt.Fprintf(&b, "[Buy %v %s]", amounts[0], unit)
	return b.String()
}
