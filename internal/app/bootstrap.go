package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/issuance"
	"github.com/Plant-GO/biodex/internal/logger"
)

const POOL_SYMBOL = "BDX"

// BootstrapOptions configures BootstrapPools
type BootstrapOptions struct {
	// PayerFunding is credited to the payer before any pool is created; zero skips funding
	PayerFunding uint64
	// URIBase prefixes "<tier>.json" to form each pool's metadata URI
	URIBase string
	// NewPoolKey returns the address of a new pool; defaults to a fresh keypair
	NewPoolKey func() common.PublicKey
}

// BootstrapPools funds the payer and creates the asset pool of every tier that has none
// registered yet. It returns the pool of every tier.
func BootstrapPools(ctx context.Context, stack *Stack, opts BootstrapOptions) (map[domain.RarityTier]common.PublicKey, error) {
	if opts.NewPoolKey == nil {
		opts.NewPoolKey = func() common.PublicKey { return types.NewAccount().PublicKey }
	}

	if opts.PayerFunding > 0 {
		if err := stack.Store.Fund(ctx, stack.Payer, opts.PayerFunding); err != nil {
			return nil, fmt.Errorf("failed to fund payer: %w", err)
		}
		logger.InfoCtx(ctx, "Funded payer",
			zap.String("payer", stack.Payer.ToBase58()),
			zap.Uint64("lamports", opts.PayerFunding))
	}

	pools := make(map[domain.RarityTier]common.PublicKey, len(domain.AllRarityTiers))
	for _, tier := range domain.AllRarityTiers {
		existing, err := stack.Registry.Pool(ctx, stack.Store, tier)
		if err == nil {
			logger.InfoCtx(ctx, "Asset pool already registered",
				zap.String("tier", tier.String()),
				zap.String("pool", existing.ToBase58()))
			pools[tier] = existing
			continue
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}

		pool := opts.NewPoolKey()
		_, err = stack.Service.CreateAssetPool(ctx, issuance.PoolRequest{
			Tier:   tier,
			Pool:   pool,
			Title:  tier.CardName(),
			Symbol: POOL_SYMBOL,
			URI:    strings.TrimSuffix(opts.URIBase, "/") + "/" + tier.String() + ".json",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create asset pool for %s: %w", tier, err)
		}

		logger.InfoCtx(ctx, "Created asset pool",
			zap.String("tier", tier.String()),
			zap.String("card_name", tier.CardName()),
			zap.String("pool", pool.ToBase58()))
		pools[tier] = pool
	}

	return pools, nil
}
