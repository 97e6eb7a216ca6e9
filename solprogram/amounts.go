package solprogram

import (
	"fmt"
	"math"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

var lamportsPerSOL = decimal.NewFromInt(int64(solana.LAMPORTS_PER_SOL))

// ParseSOLToLamports converts a decimal SOL amount to whole lamports, rounding
// half away from zero. Negative amounts yield 0.
func ParseSOLToLamports(amount string) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("invalid SOL amount %q: %w", amount, err)
	}
	lamports := d.Mul(lamportsPerSOL).Round(0)
	if lamports.Sign() <= 0 {
		return 0, nil
	}
	b := lamports.BigInt()
	if !b.IsUint64() {
		return 0, fmt.Errorf("SOL amount %q out of range", amount)
	}
	return b.Uint64(), nil
}

// SOLToLamports converts a stored SOL amount to whole lamports.
func SOLToLamports(amount float64) uint64 {
	if amount <= 0 {
		return 0
	}
	return uint64(decimal.NewFromFloat(amount).Mul(lamportsPerSOL).Round(0).IntPart())
}

// ClampBetLamports raises bets below the minimum to the minimum.
func ClampBetLamports(lamports uint64) uint64 {
	if lamports < MinBetLamports {
		return MinBetLamports
	}
	return lamports
}

// StakeForBet returns the SOL stake participants pay for a dare with the given bet.
func StakeForBet(betLamports uint64) float64 {
	if betLamports >= StakeThresholdLamports {
		return StakeAmountSOL
	}
	return 0
}

// WholeTokens splits a base-unit amount into whole tokens and the same amount
// rounded down to whole tokens in base units.
func WholeTokens(baseUnits uint64, decimals int32) (whole uint64, rounded uint64) {
	unit := uint64(math.Pow10(int(decimals)))
	whole = baseUnits / unit
	return whole, whole * unit
}
