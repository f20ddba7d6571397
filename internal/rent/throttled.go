package rent

import (
	"context"

	"github.com/Plant-GO/biodex/internal/ratelimit"
)

type throttledClient struct {
	client RPCClient
	proxy  ratelimit.Proxy
}

// NewThrottledClient runs every quote request through proxy under the solana_rpc budget
func NewThrottledClient(client RPCClient, proxy ratelimit.Proxy) RPCClient {
	return &throttledClient{client: client, proxy: proxy}
}

func (c *throttledClient) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	return ratelimit.Request(ctx, c.proxy, ratelimit.PROVIDER_SOLANA_RPC, func(ctx context.Context) (uint64, error) {
		return c.client.GetMinimumBalanceForRentExemption(ctx, dataLen)
	})
}
