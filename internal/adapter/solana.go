package adapter

import (
	"context"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
)

// SolanaRPC is the chain RPC surface the services query for rent quotes
type SolanaRPC interface {
	GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)
}

// NewSolanaRPC creates a client for endpoint, defaulting to devnet
func NewSolanaRPC(endpoint string) SolanaRPC {
	if endpoint == "" {
		endpoint = rpc.DevnetRPCEndpoint
	}
	return client.NewClient(endpoint)
}
