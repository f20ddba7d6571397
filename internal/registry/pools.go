package registry

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/Plant-GO/biodex/internal/domain"
)

// PoolRegistry maps each rarity tier to its asset pool
//
//go:generate mockgen -source=pools.go -destination=../mocks/pool_registry.go -package=mocks -mock_names=PoolRegistry=MockPoolRegistry
type PoolRegistry interface {
	// Pool returns the asset pool of tier as recorded in kv
	Pool(ctx context.Context, kv KeyValueReader, tier domain.RarityTier) (common.PublicKey, error)

	// Pools returns the asset pools of every tier kind may award, in account order
	Pools(ctx context.Context, kv KeyValueReader, kind domain.PathKind) ([]common.PublicKey, error)

	// Register records pool as the asset pool of tier in kv
	Register(ctx context.Context, kv KeyValueStore, tier domain.RarityTier, pool common.PublicKey) error
}

// KeyValueReader is what the registry reads pools from. Inside an invocation it is the
// invocation's store.Tx, so lookups stay in the invocation's snapshot.
type KeyValueReader interface {
	GetKeyValue(ctx context.Context, key string) (string, error)
}

// KeyValueStore is what the registry records pools in
type KeyValueStore interface {
	KeyValueReader
	SetKeyValue(ctx context.Context, key string, value string) error
}

type poolRegistry struct {
	// overrides take precedence over stored pools
	overrides map[domain.RarityTier]common.PublicKey
}

// NewPoolRegistry creates a registry. overrides maps a tier name (snake_case or card name) to a
// base58 pool address.
func NewPoolRegistry(overrides map[string]string) (PoolRegistry, error) {
	r := &poolRegistry{
		overrides: make(map[domain.RarityTier]common.PublicKey, len(overrides)),
	}

	for name, value := range overrides {
		tier, err := domain.ParseRarityTier(name)
		if err != nil {
			return nil, fmt.Errorf("invalid asset pool override: %w", err)
		}
		pool, err := domain.ParseAddress(value)
		if err != nil {
			return nil, fmt.Errorf("invalid asset pool override for %s: %w", tier, err)
		}
		r.overrides[tier] = pool
	}

	return r, nil
}

// PoolKey returns the key value store key of tier's pool
func PoolKey(tier domain.RarityTier) string {
	return domain.KV_ASSET_POOL_PREFIX + tier.String()
}

func (r *poolRegistry) Pool(ctx context.Context, kv KeyValueReader, tier domain.RarityTier) (common.PublicKey, error) {
	if !tier.Valid() {
		return common.PublicKey{}, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, tier)
	}
	if pool, ok := r.overrides[tier]; ok {
		return pool, nil
	}

	value, err := kv.GetKeyValue(ctx, PoolKey(tier))
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("failed to get asset pool: %w", err)
	}
	if value == "" {
		return common.PublicKey{}, fmt.Errorf("%w: no asset pool registered for %s", domain.ErrAccountNotFound, tier)
	}

	pool, err := domain.ParseAddress(value)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: asset pool of %s: %v", domain.ErrCorruptState, tier, err)
	}
	return pool, nil
}

func (r *poolRegistry) Pools(ctx context.Context, kv KeyValueReader, kind domain.PathKind) ([]common.PublicKey, error) {
	tiers := kind.Tiers()
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: unknown path %q", domain.ErrInvalidArgument, kind)
	}

	pools := make([]common.PublicKey, 0, len(tiers))
	for _, tier := range tiers {
		pool, err := r.Pool(ctx, kv, tier)
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

func (r *poolRegistry) Register(ctx context.Context, kv KeyValueStore, tier domain.RarityTier, pool common.PublicKey) error {
	if !tier.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, tier)
	}
	if err := kv.SetKeyValue(ctx, PoolKey(tier), pool.ToBase58()); err != nil {
		return fmt.Errorf("failed to register asset pool: %w", err)
	}
	return nil
}
