package counter_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/codec"
	"github.com/Plant-GO/biodex/internal/counter"
	"github.com/Plant-GO/biodex/internal/derive"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/rent"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/system"
)

var (
	programID = common.PublicKeyFromBytes(bytes.Repeat([]byte{7}, 32))
	payer     = common.PublicKeyFromBytes(bytes.Repeat([]byte{1}, 32))
	holder    = common.PublicKeyFromBytes(bytes.Repeat([]byte{4}, 32))
)

func setup(t *testing.T) (store.Store, *counter.Store) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Fund(context.Background(), payer, 1_000_000_000))
	return s, counter.NewStore(derive.New(programID), system.NewAllocator(), rent.NewLocalOracle(0, 0))
}

func TestLoadOrInit_Fresh(t *testing.T) {
	ctx := context.Background()
	s, counters := setup(t)
	address, err := counters.Address("Sunflower")
	require.NoError(t, err)

	err = s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		loaded, err := counters.LoadOrInit(ctx, tx, "Sunflower", address)
		require.NoError(t, err)
		assert.False(t, loaded.Exists)
		assert.Equal(t, domain.NewSubjectCounter("Sunflower"), loaded.Counter)
		assert.Equal(t, address, loaded.Address)
		return nil
	})
	require.NoError(t, err)
}

func TestPersist_AllocatesThenOverwrites(t *testing.T) {
	ctx := context.Background()
	s, counters := setup(t)
	address, err := counters.Address("Sunflower")
	require.NoError(t, err)

	bump := func(ctx context.Context, tx store.Tx) error {
		loaded, err := counters.LoadOrInit(ctx, tx, "Sunflower", address)
		if err != nil {
			return err
		}
		next := loaded.Counter.Clone()
		next.EpicCount++
		if next.FirstMinter == nil {
			minter := holder
			next.FirstMinter = &minter
		}
		return counters.Persist(ctx, tx, loaded, payer, next)
	}

	require.NoError(t, s.RunInvocation(ctx, bump))
	first, err := s.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, codec.SubjectCounterSize("Sunflower"), first.Space())

	require.NoError(t, s.RunInvocation(ctx, bump))
	second, err := s.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, first.Space(), second.Space())
	assert.Equal(t, first.Lamports, second.Lamports)

	got, err := counters.Get(ctx, s, "Sunflower")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.EpicCount)
	assert.Equal(t, holder, *got.FirstMinter)
}

func TestLoadOrInit_WrongAddress(t *testing.T) {
	ctx := context.Background()
	s, counters := setup(t)
	other, err := counters.Address("Rose")
	require.NoError(t, err)

	err = s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := counters.LoadOrInit(ctx, tx, "Sunflower", other)
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestLoadOrInit_CorruptState(t *testing.T) {
	ctx := context.Background()
	address, _, err := derive.New(programID).SubjectCounter("Sunflower")
	require.NoError(t, err)

	valid, err := codec.EncodeSubjectCounter(domain.NewSubjectCounter("Sunflower"))
	require.NoError(t, err)
	otherSubject, err := codec.EncodeSubjectCounter(domain.NewSubjectCounter("Sunflowe2"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		owner common.PublicKey
		data  []byte
	}{
		{name: "garbage", owner: programID, data: []byte{1, 2, 3}},
		{name: "trailing bytes", owner: programID, data: append(append([]byte{}, valid...), 0)},
		{name: "foreign owner", owner: common.SystemProgramID, data: valid},
		{name: "other subject", owner: programID, data: otherSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, counters := setup(t)
			require.NoError(t, s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
				return tx.PutAccount(ctx, &store.Account{Address: address, Owner: tt.owner, Lamports: 1, Data: tt.data})
			}))

			err := s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
				_, err := counters.LoadOrInit(ctx, tx, "Sunflower", address)
				return err
			})
			assert.True(t, errors.Is(err, domain.ErrCorruptState), "got %v", err)
		})
	}
}

func TestPersist_SizeMismatch(t *testing.T) {
	ctx := context.Background()
	s, counters := setup(t)
	address, err := counters.Address("Sunflower")
	require.NoError(t, err)

	err = s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		loaded, err := counters.LoadOrInit(ctx, tx, "Sunflower", address)
		if err != nil {
			return err
		}
		// another writer allocated the address with a different size
		if err := tx.PutAccount(ctx, &store.Account{Address: address, Owner: programID, Lamports: 1, Data: make([]byte, 8)}); err != nil {
			return err
		}
		loaded.Exists = true
		return counters.Persist(ctx, tx, loaded, payer, loaded.Counter)
	})
	assert.True(t, errors.Is(err, domain.ErrCorruptState), "got %v", err)
}

func TestGet_Missing(t *testing.T) {
	s, counters := setup(t)
	got, err := counters.Get(context.Background(), s, "Unseen")
	require.NoError(t, err)
	assert.Nil(t, got)
}
