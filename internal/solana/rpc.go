package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface the bot depends on.
type RPCClient interface {
	// GetBalance retrieves an account's balance in lamports.
	GetBalance(ctx context.Context, address string) (uint64, error)

	// GetAccountInfo retrieves raw account data for an address.
	GetAccountInfo(ctx context.Context, address string) (*AccountInfo, error)
}

// AccountInfo is the subset of getAccountInfo the bot reads.
type AccountInfo struct {
	Lamports uint64
	Owner    string
	Data     string // base64-encoded account data
}

// LamportsPerSOL converts between lamports and SOL.
const LamportsPerSOL = 1_000_000_000

// ToSOL converts lamports to SOL.
func ToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSOL
}
