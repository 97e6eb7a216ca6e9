package chainsol

import (
	"context"
	"encoding/base64"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// CreateTransaction builds an unsigned transaction paid by payer and returns it
// base64 encoded, ready for the wallet to sign.
func (p *SolChain) CreateTransaction(
	ctx context.Context,
	instructions []solana.Instruction,
	payer solana.PublicKey,
) (string, error) {
	recent, err := p.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("failed to get recent blockhash: %w", err)
	}
	if recent == nil || recent.Value == nil {
		return "", fmt.Errorf("failed to get recent blockhash: empty response")
	}

	// Build transaction WITHOUT signatures
	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	// Empty signature slots are serialized for every required signer.
	txBytes, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(txBytes), nil
}

// DecodeTransaction parses a base64 transaction produced by CreateTransaction.
func DecodeTransaction(encoded string) (*solana.Transaction, error) {
	txBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(txBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	return tx, nil
}
