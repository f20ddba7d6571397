package app_test

import (
	"context"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/app"
	"github.com/Plant-GO/biodex/internal/config"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/store"
)

func newTestStack(t *testing.T) *app.Stack {
	t.Helper()
	stack, err := app.Build(context.Background(), store.NewMemoryStore(), app.Options{
		Program: config.ProgramConfig{
			ProgramID: types.NewAccount().PublicKey.ToBase58(),
			Payer:     types.NewAccount().PublicKey.ToBase58(),
		},
	})
	require.NoError(t, err)
	return stack
}

func TestBootstrapPools(t *testing.T) {
	ctx := context.Background()
	stack := newTestStack(t)

	pools, err := app.BootstrapPools(ctx, stack, app.BootstrapOptions{
		PayerFunding: 1_000_000_000_000,
		URIBase:      "https://biodex.example/pools/",
	})
	require.NoError(t, err)
	require.Len(t, pools, len(domain.AllRarityTiers))

	for tier, pool := range pools {
		registered, err := stack.Registry.Pool(ctx, stack.Store, tier)
		require.NoError(t, err)
		assert.Equal(t, pool, registered)
	}

	entries, total, err := stack.Service.GetIssuances(ctx, store.IssuanceQueryFilter{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, uint64(len(domain.AllRarityTiers)), total)
	assert.Len(t, entries, len(domain.AllRarityTiers))

	t.Run("rerun keeps registered pools", func(t *testing.T) {
		again, err := app.BootstrapPools(ctx, stack, app.BootstrapOptions{URIBase: "https://biodex.example/pools"})
		require.NoError(t, err)
		assert.Equal(t, pools, again)

		_, total, err := stack.Service.GetIssuances(ctx, store.IssuanceQueryFilter{Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, uint64(len(domain.AllRarityTiers)), total)
	})
}

func TestBootstrapPools_UnfundedPayer(t *testing.T) {
	stack := newTestStack(t)

	_, err := app.BootstrapPools(context.Background(), stack, app.BootstrapOptions{URIBase: "https://biodex.example/pools"})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}
