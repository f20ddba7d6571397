package issuance_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/adapter"
	"github.com/Plant-GO/biodex/internal/codec"
	"github.com/Plant-GO/biodex/internal/counter"
	"github.com/Plant-GO/biodex/internal/derive"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/issuance"
	"github.com/Plant-GO/biodex/internal/messaging"
	"github.com/Plant-GO/biodex/internal/ownership"
	"github.com/Plant-GO/biodex/internal/registry"
	"github.com/Plant-GO/biodex/internal/rent"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/system"
	"github.com/Plant-GO/biodex/internal/token"
)

const payerFunding = 1_000_000_000_000

var programID = common.PublicKeyFromBytes(bytes.Repeat([]byte{0x42}, 32))

// testHarness wires the issuance stack over an in-memory host with every tier pool created
type testHarness struct {
	store     store.Store
	deriver   *derive.Deriver
	oracle    rent.Oracle
	ledger    *ownership.Ledger
	counters  *counter.Store
	receiving token.ReceivingService
	processor *issuance.Processor
	service   issuance.Service
	payer     common.PublicKey
	pools     map[domain.RarityTier]common.PublicKey
}

func newTestHarness(t *testing.T, publisher messaging.Publisher) *testHarness {
	t.Helper()
	ctx := context.Background()

	h := &testHarness{
		store:   store.NewMemoryStore(),
		deriver: derive.New(programID),
		oracle:  rent.NewLocalOracle(0, 0),
		payer:   types.NewAccount().PublicKey,
		pools:   make(map[domain.RarityTier]common.PublicKey),
	}

	allocator := system.NewAllocator()
	reg, err := registry.NewPoolRegistry(nil)
	require.NoError(t, err)

	h.ledger = ownership.NewLedger(h.deriver, allocator, h.oracle)
	h.counters = counter.NewStore(h.deriver, allocator, h.oracle)
	h.receiving = token.NewReceivingService(allocator, h.oracle)
	h.processor = issuance.NewProcessor(
		h.deriver,
		reg,
		h.ledger,
		h.counters,
		token.NewPoolService(h.deriver, allocator, h.oracle),
		h.receiving,
	)
	h.service = issuance.NewService(
		issuance.Config{Payer: h.payer},
		h.store,
		h.processor,
		h.ledger,
		h.counters,
		reg,
		publisher,
		nil,
		adapter.NewClock(),
		adapter.NewJSON(),
	)

	require.NoError(t, h.store.Fund(ctx, h.payer, payerFunding))

	for _, tier := range domain.AllRarityTiers {
		pool := types.NewAccount().PublicKey
		_, err := h.service.CreateAssetPool(ctx, issuance.PoolRequest{
			Tier:   tier,
			Pool:   pool,
			Title:  tier.CardName(),
			Symbol: "BDX",
			URI:    "https://biodex.example/pools/" + tier.String() + ".json",
		})
		require.NoError(t, err)
		h.pools[tier] = pool
	}

	return h
}

func (h *testHarness) issueRegular(t *testing.T, holder common.PublicKey, subject string, tag domain.RarityTier, isNew bool) (*issuance.Outcome, error) {
	t.Helper()
	return h.service.IssueCard(context.Background(), issuance.CardRequest{
		Path:         domain.PathRegular,
		RarityTag:    tag,
		SubjectName:  subject,
		Holder:       holder,
		IsNewSubject: isNew,
	})
}

func (h *testHarness) issueQuiz(t *testing.T, holder common.PublicKey, subject string, tag domain.RarityTier, winner bool) (*issuance.Outcome, error) {
	t.Helper()
	return h.service.IssueCard(context.Background(), issuance.CardRequest{
		Path:        domain.PathQuiz,
		RarityTag:   tag,
		SubjectName: subject,
		Holder:      holder,
		Winner:      winner,
	})
}

func (h *testHarness) counter(t *testing.T, subject string) *domain.SubjectCounter {
	t.Helper()
	c, err := h.service.GetCounter(context.Background(), subject)
	require.NoError(t, err)
	return c
}

func (h *testHarness) lamports(t *testing.T, address common.PublicKey) uint64 {
	t.Helper()
	account, err := h.store.GetAccount(context.Background(), address)
	require.NoError(t, err)
	if account == nil {
		return 0
	}
	return account.Lamports
}

func (h *testHarness) poolSupply(t *testing.T, tier domain.RarityTier) uint64 {
	t.Helper()
	account, err := h.store.GetAccount(context.Background(), h.pools[tier])
	require.NoError(t, err)
	require.NotNil(t, account)
	pool, err := codec.DecodePool(account.Data)
	require.NoError(t, err)
	return pool.Supply
}

func (h *testHarness) tokenBalance(t *testing.T, holder common.PublicKey, tier domain.RarityTier) uint64 {
	t.Helper()
	address, err := h.receiving.Address(holder, h.pools[tier])
	require.NoError(t, err)
	account, err := h.store.GetAccount(context.Background(), address)
	require.NoError(t, err)
	if account == nil {
		return 0
	}
	state, err := codec.DecodeTokenAccount(account.Data)
	require.NoError(t, err)
	return state.Amount
}

func newHolder() common.PublicKey {
	return types.NewAccount().PublicKey
}
