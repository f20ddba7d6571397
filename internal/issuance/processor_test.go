package issuance_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/counter"
	"github.com/Plant-GO/biodex/internal/derive"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/instruction"
	"github.com/Plant-GO/biodex/internal/issuance"
	"github.com/Plant-GO/biodex/internal/mocks"
	"github.com/Plant-GO/biodex/internal/ownership"
	"github.com/Plant-GO/biodex/internal/rent"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/system"
	"github.com/Plant-GO/biodex/internal/token"
)

// quizFixture runs the processor over an in-memory host with the asset pool and receiving
// services mocked out
type quizFixture struct {
	store     store.Store
	counters  *counter.Store
	processor *issuance.Processor
	registry  *mocks.MockPoolRegistry
	pools     *mocks.MockPoolService
	receiving *mocks.MockReceivingService

	payer     common.PublicKey
	holder    common.PublicKey
	mastery   common.PublicKey
	knowledge common.PublicKey
	// receiving accounts of holder, in quiz tier order
	accounts []common.PublicKey
}

func newQuizFixture(t *testing.T, ctrl *gomock.Controller) *quizFixture {
	t.Helper()

	deriver := derive.New(programID)
	oracle := rent.NewLocalOracle(0, 0)
	allocator := system.NewAllocator()

	f := &quizFixture{
		store:     store.NewMemoryStore(),
		counters:  counter.NewStore(deriver, allocator, oracle),
		registry:  mocks.NewMockPoolRegistry(ctrl),
		pools:     mocks.NewMockPoolService(ctrl),
		receiving: mocks.NewMockReceivingService(ctrl),
		payer:     types.NewAccount().PublicKey,
		holder:    types.NewAccount().PublicKey,
		mastery:   types.NewAccount().PublicKey,
		knowledge: types.NewAccount().PublicKey,
		accounts:  []common.PublicKey{types.NewAccount().PublicKey, types.NewAccount().PublicKey},
	}
	f.processor = issuance.NewProcessor(
		deriver,
		f.registry,
		ownership.NewLedger(deriver, allocator, oracle),
		f.counters,
		f.pools,
		f.receiving,
	)

	f.registry.EXPECT().
		Pools(gomock.Any(), gomock.Any(), domain.PathQuiz).
		Return([]common.PublicKey{f.mastery, f.knowledge}, nil).
		AnyTimes()
	f.receiving.EXPECT().Address(f.holder, f.mastery).Return(f.accounts[0], nil).AnyTimes()
	f.receiving.EXPECT().Address(f.holder, f.knowledge).Return(f.accounts[1], nil).AnyTimes()

	require.NoError(t, f.store.Fund(context.Background(), f.payer, payerFunding))
	return f
}

func (f *quizFixture) process(t *testing.T, winner bool) error {
	t.Helper()
	ctx := context.Background()

	tag := domain.RarityKnowledge
	if winner {
		tag = domain.RarityMastery
	}
	data, err := instruction.Encode(instruction.IssueQuizCard{RarityTag: tag, SubjectName: "Sunflower", Winner: winner})
	require.NoError(t, err)
	accounts, err := f.processor.IssueAccounts(ctx, f.store, domain.PathQuiz, f.holder, "Sunflower", tag, f.payer)
	require.NoError(t, err)

	return f.store.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := f.processor.Process(ctx, tx, issuance.Invocation{
			Data:     data,
			Accounts: accounts.List(),
			Signers:  []common.PublicKey{f.payer},
		})
		return err
	})
}

func TestProcessor_MintFailureAbortsInvocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newQuizFixture(t, ctrl)

	f.receiving.EXPECT().
		CreateIfAbsent(gomock.Any(), gomock.Any(), f.payer, f.holder, f.mastery).
		Return(f.accounts[0], nil)
	f.pools.EXPECT().
		MintTo(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ store.Tx, req token.MintToRequest) error {
			assert.Equal(t, f.mastery, req.Pool)
			assert.Equal(t, f.accounts[0], req.Destination)
			assert.Equal(t, uint64(1), req.Amount)
			return fmt.Errorf("%w: pool supply exhausted", domain.ErrInvalidArgument)
		})

	err := f.process(t, true)
	requireStage(t, err, issuance.StageMintOneUnit, domain.ErrInvalidArgument)

	c, err := f.counters.Get(context.Background(), f.store, "Sunflower")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestProcessor_ReceivingAccountMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newQuizFixture(t, ctrl)

	// the service created the account somewhere other than the listed address; no mint follows
	f.receiving.EXPECT().
		CreateIfAbsent(gomock.Any(), gomock.Any(), f.payer, f.holder, f.knowledge).
		Return(types.NewAccount().PublicKey, nil)

	err := f.process(t, false)
	requireStage(t, err, issuance.StageEnsureReceivingAccount, domain.ErrInvalidArgument)
}

func TestProcessor_MintsIntoDecidedPool(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newQuizFixture(t, ctrl)

	gomock.InOrder(
		f.receiving.EXPECT().
			CreateIfAbsent(gomock.Any(), gomock.Any(), f.payer, f.holder, f.knowledge).
			Return(f.accounts[1], nil),
		f.pools.EXPECT().
			MintTo(gomock.Any(), gomock.Any(), token.MintToRequest{
				Pool:          f.knowledge,
				Destination:   f.accounts[1],
				Authority:     mintAuthority(t),
				AuthoritySalt: mintAuthoritySalt(t),
				Amount:        1,
			}).
			Return(nil),
	)

	require.NoError(t, f.process(t, false))

	c, err := f.counters.Get(context.Background(), f.store, "Sunflower")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, uint64(1), c.CodexCount)
	assert.Nil(t, c.FirstMinter)
}

func mintAuthority(t *testing.T) common.PublicKey {
	t.Helper()
	address, _, err := derive.New(programID).MintAuthority()
	require.NoError(t, err)
	return address
}

func mintAuthoritySalt(t *testing.T) uint8 {
	t.Helper()
	_, salt, err := derive.New(programID).MintAuthority()
	require.NoError(t, err)
	return salt
}
