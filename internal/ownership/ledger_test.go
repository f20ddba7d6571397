package ownership_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/codec"
	"github.com/Plant-GO/biodex/internal/derive"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/mocks"
	"github.com/Plant-GO/biodex/internal/ownership"
	"github.com/Plant-GO/biodex/internal/rent"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/system"
)

var (
	programID = common.PublicKeyFromBytes(bytes.Repeat([]byte{7}, 32))
	payer     = common.PublicKeyFromBytes(bytes.Repeat([]byte{1}, 32))
	holder    = common.PublicKeyFromBytes(bytes.Repeat([]byte{4}, 32))
	pool      = common.PublicKeyFromBytes(bytes.Repeat([]byte{5}, 32))
)

func setup(t *testing.T) (store.Store, *ownership.Ledger) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Fund(context.Background(), payer, 1_000_000_000))
	return s, ownership.NewLedger(derive.New(programID), system.NewAllocator(), rent.NewLocalOracle(0, 0))
}

func record(tier domain.RarityTier) domain.OwnershipRecord {
	return domain.OwnershipRecord{Holder: holder, SubjectName: "Sunflower", Rarity: tier, AssetPool: pool}
}

func TestLedger_ReserveCommitGet(t *testing.T) {
	ctx := context.Background()
	s, ledger := setup(t)

	address, err := ledger.Address("Sunflower", holder, domain.RarityEpic)
	require.NoError(t, err)

	err = s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		res, err := ledger.Reserve(ctx, tx, "Sunflower", holder, domain.RarityEpic, address)
		if err != nil {
			return err
		}
		return ledger.Commit(ctx, tx, res, payer, record(domain.RarityFirstNewSpecies))
	})
	require.NoError(t, err)

	account, err := s.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, codec.MaxOwnershipRecordSize, account.Space())
	assert.Equal(t, programID, account.Owner)

	got, err := ledger.Get(ctx, s, address)
	require.NoError(t, err)
	assert.Equal(t, record(domain.RarityFirstNewSpecies), *got)
}

func TestLedger_ReserveRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	s, ledger := setup(t)
	address, err := ledger.Address("Sunflower", holder, domain.RarityEpic)
	require.NoError(t, err)

	issue := func(ctx context.Context, tx store.Tx) error {
		res, err := ledger.Reserve(ctx, tx, "Sunflower", holder, domain.RarityEpic, address)
		if err != nil {
			return err
		}
		return ledger.Commit(ctx, tx, res, payer, record(domain.RarityEpic))
	}

	require.NoError(t, s.RunInvocation(ctx, issue))
	err = s.RunInvocation(ctx, issue)
	assert.True(t, errors.Is(err, domain.ErrAlreadyOwned), "got %v", err)
}

func TestLedger_ReserveRejectsFundedAddress(t *testing.T) {
	ctx := context.Background()
	s, ledger := setup(t)
	address, err := ledger.Address("Rose", holder, domain.RarityMastery)
	require.NoError(t, err)

	// lamports sent to the address without any data still count as used
	require.NoError(t, s.Fund(ctx, address, 1))

	err = s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := ledger.Reserve(ctx, tx, "Rose", holder, domain.RarityMastery, address)
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrAlreadyOwned))
}

func TestLedger_ReserveRejectsWrongAddress(t *testing.T) {
	ctx := context.Background()
	s, ledger := setup(t)
	other, err := ledger.Address("Sunflower", holder, domain.RarityRare)
	require.NoError(t, err)

	err = s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := ledger.Reserve(ctx, tx, "Sunflower", holder, domain.RarityEpic, other)
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestLedger_GetMissingAndForeign(t *testing.T) {
	ctx := context.Background()
	s, ledger := setup(t)

	missing, err := ledger.Get(ctx, s, holder)
	require.NoError(t, err)
	assert.Nil(t, missing)

	// system-owned accounts are not ownership records
	_, err = ledger.Get(ctx, s, payer)
	assert.True(t, errors.Is(err, domain.ErrCorruptState))
}

func TestLedger_CommitRentQuoteFails(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	oracle := mocks.NewMockRentOracle(ctrl)
	oracle.EXPECT().
		MinimumBalance(gomock.Any(), uint64(codec.MaxOwnershipRecordSize)).
		Return(uint64(0), errors.New("rpc unavailable"))

	s := store.NewMemoryStore()
	require.NoError(t, s.Fund(ctx, payer, 1_000_000_000))
	ledger := ownership.NewLedger(derive.New(programID), system.NewAllocator(), oracle)

	address, err := ledger.Address("Sunflower", holder, domain.RarityRare)
	require.NoError(t, err)

	err = s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		res, err := ledger.Reserve(ctx, tx, "Sunflower", holder, domain.RarityRare, address)
		if err != nil {
			return err
		}
		return ledger.Commit(ctx, tx, res, payer, record(domain.RarityRare))
	})
	assert.ErrorContains(t, err, "rpc unavailable")

	account, err := s.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.False(t, account.Exists())
}
