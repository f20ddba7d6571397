package app_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/adapter"
	"github.com/Plant-GO/biodex/internal/app"
	"github.com/Plant-GO/biodex/internal/config"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/issuance"
	"github.com/Plant-GO/biodex/internal/rent"
	"github.com/Plant-GO/biodex/internal/store"
)

func keypairJSON(t *testing.T, account types.Account) []byte {
	t.Helper()
	ints := make([]int, len(account.PrivateKey))
	for i, b := range account.PrivateKey {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)
	return data
}

func TestDecodeKeypair(t *testing.T) {
	account := types.NewAccount()

	decoded, err := app.DecodeKeypair(keypairJSON(t, account), adapter.NewJSON())
	require.NoError(t, err)
	assert.Equal(t, account.PublicKey, decoded.PublicKey)

	_, err = app.DecodeKeypair([]byte(`[1,2,3]`), adapter.NewJSON())
	assert.ErrorContains(t, err, "unexpected secret key length")

	_, err = app.DecodeKeypair([]byte(`{"key":1}`), adapter.NewJSON())
	assert.Error(t, err)
}

func TestLoadPayer(t *testing.T) {
	account := types.NewAccount()

	t.Run("address", func(t *testing.T) {
		payer, keypair, err := app.LoadPayer(config.ProgramConfig{Payer: account.PublicKey.ToBase58()}, adapter.NewJSON())
		require.NoError(t, err)
		assert.Equal(t, account.PublicKey, payer)
		assert.Nil(t, keypair)
	})

	t.Run("keypair file wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "payer.json")
		require.NoError(t, os.WriteFile(path, keypairJSON(t, account), 0o600))

		payer, keypair, err := app.LoadPayer(config.ProgramConfig{
			Payer:            types.NewAccount().PublicKey.ToBase58(),
			PayerKeypairPath: path,
		}, adapter.NewJSON())
		require.NoError(t, err)
		assert.Equal(t, account.PublicKey, payer)
		require.NotNil(t, keypair)
		assert.Equal(t, account.PublicKey, keypair.PublicKey)
	})

	t.Run("missing keypair file", func(t *testing.T) {
		_, _, err := app.LoadPayer(config.ProgramConfig{PayerKeypairPath: filepath.Join(t.TempDir(), "absent.json")}, adapter.NewJSON())
		assert.ErrorContains(t, err, "failed to read payer keypair")
	})

	t.Run("invalid address", func(t *testing.T) {
		_, _, err := app.LoadPayer(config.ProgramConfig{Payer: "not-an-address"}, adapter.NewJSON())
		assert.ErrorContains(t, err, "invalid payer")
	})
}

func TestNATSConfig(t *testing.T) {
	cfg := app.NATSConfig(config.NATSConfig{
		URL:           "nats://nats:4222",
		EventStream:   "BIODEX_EVENTS",
		CommandStream: "BIODEX_COMMANDS",
		ConsumerName:  "biodex-worker",
		MaxDeliver:    5,
	}, "biodex-api")
	assert.Equal(t, "nats://nats:4222", cfg.URL)
	assert.Equal(t, "biodex-api", cfg.ConnectionName)
	assert.Equal(t, 5, cfg.MaxDeliver)

	cfg = app.NATSConfig(config.NATSConfig{ConnectionName: "custom"}, "biodex-api")
	assert.Equal(t, "custom", cfg.ConnectionName)
}

func TestNewRentOracle(t *testing.T) {
	oracle, proxy, err := app.NewRentOracle(config.RentConfig{Source: config.RentSourceLocal})
	require.NoError(t, err)
	assert.Nil(t, proxy)

	balance, err := oracle.MinimumBalance(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(rent.ACCOUNT_STORAGE_OVERHEAD*rent.DEFAULT_LAMPORTS_PER_BYTE_YEAR*rent.DEFAULT_EXEMPTION_THRESHOLD), balance)

	oracle, proxy, err = app.NewRentOracle(config.RentConfig{
		Source:               config.RentSourceRPC,
		RPCURL:               "http://localhost:8899",
		RPCRequestsPerSecond: 5,
	})
	require.NoError(t, err)
	assert.NotNil(t, oracle)
	require.NotNil(t, proxy)
	assert.NoError(t, proxy.Close())

	_, _, err = app.NewRentOracle(config.RentConfig{Source: config.RentSourceRPC})
	assert.ErrorContains(t, err, "requests_per_second must be positive")

	_, _, err = app.NewRentOracle(config.RentConfig{Source: "oracle"})
	assert.ErrorContains(t, err, "unknown rent source")
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	payer := types.NewAccount()
	programID := types.NewAccount().PublicKey

	t.Run("wires an issuing stack", func(t *testing.T) {
		st := store.NewMemoryStore()
		stack, err := app.Build(ctx, st, app.Options{
			Program: config.ProgramConfig{
				ProgramID: programID.ToBase58(),
				Payer:     payer.PublicKey.ToBase58(),
			},
			Rent: config.RentConfig{Source: config.RentSourceLocal},
		})
		require.NoError(t, err)
		assert.Equal(t, programID, stack.Deriver.ProgramID())
		assert.Equal(t, payer.PublicKey, stack.Payer)
		defer stack.Close()

		require.NoError(t, st.Fund(ctx, payer.PublicKey, 1_000_000_000_000))
		pool := types.NewAccount().PublicKey
		outcome, err := stack.Service.CreateAssetPool(ctx, issuance.PoolRequest{
			Tier:   domain.RarityCommon,
			Pool:   pool,
			Title:  domain.RarityCommon.CardName(),
			Symbol: "BDX",
			URI:    "https://biodex.example/pools/common.json",
		})
		require.NoError(t, err)
		assert.Equal(t, pool, outcome.AssetPool)

		registered, err := stack.Registry.Pool(ctx, stack.Store, domain.RarityCommon)
		require.NoError(t, err)
		assert.Equal(t, pool, registered)
	})

	t.Run("asset pool overrides", func(t *testing.T) {
		pool := types.NewAccount().PublicKey
		stack, err := app.Build(ctx, store.NewMemoryStore(), app.Options{
			Program: config.ProgramConfig{
				ProgramID:  programID.ToBase58(),
				Payer:      payer.PublicKey.ToBase58(),
				AssetPools: map[string]string{"MythicCrest": pool.ToBase58()},
			},
		})
		require.NoError(t, err)

		registered, err := stack.Registry.Pool(ctx, stack.Store, domain.RarityEpic)
		require.NoError(t, err)
		assert.Equal(t, pool, registered)
	})

	t.Run("invalid program id", func(t *testing.T) {
		_, err := app.Build(ctx, store.NewMemoryStore(), app.Options{
			Program: config.ProgramConfig{ProgramID: "bad", Payer: payer.PublicKey.ToBase58()},
		})
		assert.ErrorContains(t, err, "invalid program id")
	})
}
