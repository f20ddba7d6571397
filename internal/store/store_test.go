package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/store/schema"
)

var errAbort = errors.New("abort")

// =============================================================================
// Test Data Builders
// =============================================================================

func testAddress(b byte) common.PublicKey {
	return common.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

func buildTestAccount(b byte, lamports uint64, data []byte) *Account {
	return &Account{
		Address:  testAddress(b),
		Owner:    testAddress(0xAA),
		Lamports: lamports,
		Data:     data,
	}
}

func buildTestJournal(operation schema.Operation, subject, holder string) *schema.IssuanceJournal {
	rarity := domain.RarityEpic.String()
	return &schema.IssuanceJournal{
		InvocationID: "01JTESTINVOCATION",
		Operation:    operation,
		SubjectName:  subject,
		Holder:       holder,
		Rarity:       &rarity,
		Address:      testAddress(0x10).ToBase58(),
		AssetPool:    testAddress(0x20).ToBase58(),
		Meta:         datatypes.JSON(`{"rarity_tag":"epic"}`),
	}
}

// =============================================================================
// Test: Accounts
// =============================================================================

func testAccounts(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing account returns nil", func(t *testing.T) {
		account, err := store.GetAccount(ctx, testAddress(0x01))
		require.NoError(t, err)
		assert.Nil(t, account)
		assert.False(t, account.Exists())
	})

	t.Run("committed invocation persists accounts", func(t *testing.T) {
		err := store.RunInvocation(ctx, func(ctx context.Context, tx Tx) error {
			return tx.PutAccount(ctx, buildTestAccount(0x02, 1000, []byte{1, 2, 3}))
		})
		require.NoError(t, err)

		account, err := store.GetAccount(ctx, testAddress(0x02))
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, uint64(1000), account.Lamports)
		assert.Equal(t, []byte{1, 2, 3}, account.Data)
		assert.Equal(t, 3, account.Space())
		assert.Equal(t, testAddress(0xAA), account.Owner)
		assert.True(t, account.Exists())
	})

	t.Run("writes are visible inside the invocation", func(t *testing.T) {
		err := store.RunInvocation(ctx, func(ctx context.Context, tx Tx) error {
			if err := tx.PutAccount(ctx, buildTestAccount(0x03, 5, nil)); err != nil {
				return err
			}
			account, err := tx.GetAccount(ctx, testAddress(0x03))
			if err != nil {
				return err
			}
			assert.Equal(t, uint64(5), account.Lamports)
			account.Lamports = 7
			return tx.PutAccount(ctx, account)
		})
		require.NoError(t, err)

		account, err := store.GetAccount(ctx, testAddress(0x03))
		require.NoError(t, err)
		assert.Equal(t, uint64(7), account.Lamports)
		assert.Equal(t, 0, account.Space())
	})

	t.Run("failed invocation leaves no trace", func(t *testing.T) {
		err := store.RunInvocation(ctx, func(ctx context.Context, tx Tx) error {
			if err := tx.PutAccount(ctx, buildTestAccount(0x04, 1, []byte{9})); err != nil {
				return err
			}
			if err := tx.SetKeyValue(ctx, "abort:key", "v"); err != nil {
				return err
			}
			if err := tx.AppendJournal(ctx, buildTestJournal(schema.OperationIssueQuizCard, "Aborted", "h")); err != nil {
				return err
			}
			return errAbort
		})
		assert.ErrorIs(t, err, errAbort)

		account, err := store.GetAccount(ctx, testAddress(0x04))
		require.NoError(t, err)
		assert.Nil(t, account)

		value, err := store.GetKeyValue(ctx, "abort:key")
		require.NoError(t, err)
		assert.Empty(t, value)

		entries, total, err := store.GetIssuances(ctx, IssuanceQueryFilter{SubjectName: "Aborted"})
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.Equal(t, uint64(0), total)
	})

	t.Run("returned accounts are copies", func(t *testing.T) {
		require.NoError(t, store.RunInvocation(ctx, func(ctx context.Context, tx Tx) error {
			return tx.PutAccount(ctx, buildTestAccount(0x05, 1, []byte{1}))
		}))

		account, err := store.GetAccount(ctx, testAddress(0x05))
		require.NoError(t, err)
		account.Data[0] = 0xFF

		again, err := store.GetAccount(ctx, testAddress(0x05))
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, again.Data)
	})
}

// =============================================================================
// Test: Fund
// =============================================================================

func testFund(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("creates a system-owned account", func(t *testing.T) {
		require.NoError(t, store.Fund(ctx, testAddress(0x30), 500))

		account, err := store.GetAccount(ctx, testAddress(0x30))
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, uint64(500), account.Lamports)
		assert.Equal(t, common.SystemProgramID, account.Owner)
	})

	t.Run("credits an existing account", func(t *testing.T) {
		require.NoError(t, store.Fund(ctx, testAddress(0x31), 500))
		require.NoError(t, store.Fund(ctx, testAddress(0x31), 250))

		account, err := store.GetAccount(ctx, testAddress(0x31))
		require.NoError(t, err)
		assert.Equal(t, uint64(750), account.Lamports)
	})
}

// =============================================================================
// Test: KeyValueStore
// =============================================================================

func testKeyValueStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.SetKeyValue(ctx, domain.KV_ASSET_POOL_PREFIX+"epic", "pool-epic"))
		value, err := store.GetKeyValue(ctx, domain.KV_ASSET_POOL_PREFIX+"epic")
		require.NoError(t, err)
		assert.Equal(t, "pool-epic", value)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.SetKeyValue(ctx, "kv:overwrite", "a"))
		require.NoError(t, store.SetKeyValue(ctx, "kv:overwrite", "b"))
		value, err := store.GetKeyValue(ctx, "kv:overwrite")
		require.NoError(t, err)
		assert.Equal(t, "b", value)
	})

	t.Run("missing key returns empty", func(t *testing.T) {
		value, err := store.GetKeyValue(ctx, "kv:missing")
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("by prefix", func(t *testing.T) {
		require.NoError(t, store.SetKeyValue(ctx, domain.KV_ASSET_POOL_PREFIX+"rare", "pool-rare"))
		require.NoError(t, store.RunInvocation(ctx, func(ctx context.Context, tx Tx) error {
			return tx.SetKeyValue(ctx, domain.KV_ASSET_POOL_PREFIX+"common", "pool-common")
		}))

		values, err := store.GetAllKeyValuesByPrefix(ctx, domain.KV_ASSET_POOL_PREFIX)
		require.NoError(t, err)
		assert.Equal(t, "pool-rare", values[domain.KV_ASSET_POOL_PREFIX+"rare"])
		assert.Equal(t, "pool-common", values[domain.KV_ASSET_POOL_PREFIX+"common"])
		assert.NotContains(t, values, "kv:overwrite")
	})
}

// =============================================================================
// Test: Issuance journal
// =============================================================================

func testIssuanceJournal(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.RunInvocation(ctx, func(ctx context.Context, tx Tx) error {
		for _, e := range []*schema.IssuanceJournal{
			buildTestJournal(schema.OperationIssueRegularCard, "Journal-Sunflower", "holder-a"),
			buildTestJournal(schema.OperationIssueQuizCard, "Journal-Sunflower", "holder-b"),
			buildTestJournal(schema.OperationIssueRegularCard, "Journal-Rose", "holder-a"),
		} {
			if err := tx.AppendJournal(ctx, e); err != nil {
				return err
			}
		}
		return nil
	}))

	t.Run("filter by subject", func(t *testing.T) {
		entries, total, err := store.GetIssuances(ctx, IssuanceQueryFilter{SubjectName: "Journal-Sunflower"})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), total)
		require.Len(t, entries, 2)
		assert.Less(t, entries[0].Cursor, entries[1].Cursor)
		assert.Equal(t, "holder-a", entries[0].Holder)
		assert.JSONEq(t, `{"rarity_tag":"epic"}`, string(entries[0].Meta))
	})

	t.Run("filter by holder and operation", func(t *testing.T) {
		entries, total, err := store.GetIssuances(ctx, IssuanceQueryFilter{
			Holder:    "holder-a",
			Operation: schema.OperationIssueRegularCard,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), total)
		assert.Len(t, entries, 2)
	})

	t.Run("anchor and limit paginate", func(t *testing.T) {
		first, total, err := store.GetIssuances(ctx, IssuanceQueryFilter{Holder: "holder-a", Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), total)
		require.Len(t, first, 1)

		anchor := first[0].Cursor
		next, _, err := store.GetIssuances(ctx, IssuanceQueryFilter{Holder: "holder-a", Anchor: &anchor, Limit: 1})
		require.NoError(t, err)
		require.Len(t, next, 1)
		assert.Equal(t, "Journal-Rose", next[0].SubjectName)

		anchor = next[0].Cursor
		rest, _, err := store.GetIssuances(ctx, IssuanceQueryFilter{Holder: "holder-a", Anchor: &anchor})
		require.NoError(t, err)
		assert.Empty(t, rest)
	})
}

// =============================================================================
// Test Runner
// =============================================================================

// RunStoreTests runs the shared suite against a store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Accounts", testAccounts},
		{"Fund", testFund},
		{"KeyValueStore", testKeyValueStore},
		{"IssuanceJournal", testIssuanceJournal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
