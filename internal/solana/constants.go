package solana

import "time"

const (
	// LamportsPerSOL is the smallest SOL unit (1 SOL = 10^9 lamports)
	LamportsPerSOL = 1_000_000_000

	// USDTDecimals is the decimal count of the USDT mint (1 USDT = 10^6 units)
	USDTDecimals = 6

	// SystemProgramID executes native SOL transfers
	SystemProgramID = "11111111111111111111111111111111"

	// TokenProgramID executes SPL token transfers (USDT)
	TokenProgramID = "TokenkegQfeZYiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	// USDTMint is the mainnet USDT mint address
	USDTMint = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"

	// CommitmentConfirmed is the finality level the platform treats as final
	CommitmentConfirmed = "confirmed"

	// ConfirmPollInterval is how often to poll signature status
	ConfirmPollInterval = 2 * time.Second

	// DefaultConfirmTimeout bounds a confirmation wait before the caller
	// has to reconcile
	DefaultConfirmTimeout = 60 * time.Second
)

// Solana RPC endpoints
const (
	RPCMainnet = "https://api.mainnet-beta.solana.com"
	RPCDevnet  = "https://api.devnet.solana.com"
)

// SOLToLamports converts SOL to lamports
func SOLToLamports(sol float64) int64 {
	return int64(sol * LamportsPerSOL)
}

// LamportsToSOL converts lamports to SOL
func LamportsToSOL(lamports int64) float64 {
	return float64(lamports) / LamportsPerSOL
}
