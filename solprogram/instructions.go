package solprogram

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

// BuildComputeUnitLimitInstruction sets the compute unit limit of the transaction.
func BuildComputeUnitLimitInstruction(units uint32) solana.Instruction {
	return computebudget.NewSetComputeUnitLimitInstruction(units).Build()
}

// BuildComputeUnitPriceInstruction sets the priority fee in micro-lamports per compute unit.
func BuildComputeUnitPriceInstruction(microLamports uint64) solana.Instruction {
	return computebudget.NewSetComputeUnitPriceInstruction(microLamports).Build()
}

// BuildMemoInstruction writes an unsigned memo.
func BuildMemoInstruction(text string) solana.Instruction {
	return solana.NewInstruction(
		MemoProgramID,
		solana.AccountMetaSlice{},
		[]byte(text),
	)
}

// GetAssociatedTokenAddress - Derive Associated Token Account address for a wallet and mint
func GetAssociatedTokenAddress(wallet solana.PublicKey, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive ATA: %w", err)
	}
	return ata, nil
}

// BuildCreateATAInstruction creates the wallet's associated token account for mint, paid by payer.
func BuildCreateATAInstruction(payer, wallet, mint solana.PublicKey) solana.Instruction {
	return associatedtokenaccount.NewCreateInstruction(payer, wallet, mint).Build()
}

// BuildSOLTransferInstruction moves lamports between system accounts.
func BuildSOLTransferInstruction(lamports uint64, from, to solana.PublicKey) solana.Instruction {
	return system.NewTransferInstruction(lamports, from, to).Build()
}

// BuildWrapSOLInstructions funds the owner's wrapped SOL account with lamports
// and syncs its token balance.
func BuildWrapSOLInstructions(owner, wsolAccount solana.PublicKey, lamports uint64) []solana.Instruction {
	return []solana.Instruction{
		BuildSOLTransferInstruction(lamports, owner, wsolAccount),
		token.NewSyncNativeInstruction(wsolAccount).Build(),
	}
}

// BuildCloseAccountInstruction closes a token account and returns its rent to owner.
func BuildCloseAccountInstruction(account, owner solana.PublicKey) solana.Instruction {
	return token.NewCloseAccountInstruction(account, owner, owner, nil).Build()
}

// BuildTokenTransferInstruction moves amount base units of an SPL token.
func BuildTokenTransferInstruction(amount uint64, source, destination, owner solana.PublicKey) solana.Instruction {
	return token.NewTransferInstruction(amount, source, destination, owner, nil).Build()
}
