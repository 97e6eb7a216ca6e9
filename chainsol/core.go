package chainsol

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// RPC is the subset of the Solana JSON-RPC client used by SolChain.
// *rpc.Client satisfies it.
type RPC interface {
	GetHealth(ctx context.Context) (string, error)
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

type SolChain struct {
	rpc     RPC
	network string // mainnet, devnet, testnet
}

type Config struct {
	RPCURL  string
	Network string
}

// NewSolChain - Initialize Solana
func NewSolChain(config Config) *SolChain {
	return NewWithRPC(rpc.New(config.RPCURL), config.Network)
}

// NewWithRPC wraps an existing RPC client.
func NewWithRPC(client RPC, network string) *SolChain {
	if network == "" {
		network = "mainnet"
	}
	return &SolChain{
		rpc:     client,
		network: network,
	}
}

// Network returns the cluster name the chain was configured for.
func (p *SolChain) Network() string {
	return p.network
}

// AccountExists reports whether the account is allocated on chain.
func (p *SolChain) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	info, err := p.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get account info for %s: %w", account, err)
	}
	return info != nil && info.Value != nil, nil
}

// Health check
func (p *SolChain) HealthCheck(ctx context.Context) error {
	status, err := p.rpc.GetHealth(ctx)
	if err != nil {
		return err
	}
	if status != rpc.HealthOk {
		return fmt.Errorf("rpc node unhealthy: %s", status)
	}
	return nil
}
