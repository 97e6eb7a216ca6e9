package solprogram

import "github.com/gagliardetto/solana-go"

// Compute budget
const (
	// Units requested by the create-dare transaction (ATA creation + swap)
	CreateComputeUnitLimit = 400_000

	// Priority fee for the create-dare transaction
	CreateComputeUnitPrice = 1_000_000

	// Priority fee for the stake transaction
	StakeComputeUnitPrice = 1_000
)

// Memos
const (
	CreateMemo = "dare to blink"
	StakeMemo  = "blinkit"
)

// Amounts
const (
	// SEND has 6 decimals
	SendDecimals = 6

	// Bets below this are raised to it: 0.001 SOL
	MinBetLamports = 1_000_000

	// Bets of at least 0.069 SOL ask participants for a stake
	StakeThresholdLamports = 69_000_000

	// Stake asked from participants when the threshold is met
	StakeAmountSOL = 0.0069
)

// Program IDs
var (
	MemoProgramID = solana.MemoProgramID
	NativeMint    = solana.WrappedSol
)

// Blockchain IDs (CAIP-2) advertised in the X-Blockchain-Ids header
const (
	BlockchainIDMainnet = "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp"
	BlockchainIDDevnet  = "solana:EtWTRABZaYq6iMfeYKouRu166VU2xqa1"
)

// BlockchainID maps a cluster name to its CAIP-2 id.
func BlockchainID(network string) string {
	if network == "devnet" {
		return BlockchainIDDevnet
	}
	return BlockchainIDMainnet
}
