package app

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"os"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Plant-GO/biodex/internal/adapter"
	"github.com/Plant-GO/biodex/internal/config"
	"github.com/Plant-GO/biodex/internal/counter"
	"github.com/Plant-GO/biodex/internal/derive"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/issuance"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/messaging"
	"github.com/Plant-GO/biodex/internal/metrics"
	"github.com/Plant-GO/biodex/internal/ownership"
	"github.com/Plant-GO/biodex/internal/providers/jetstream"
	"github.com/Plant-GO/biodex/internal/ratelimit"
	"github.com/Plant-GO/biodex/internal/registry"
	"github.com/Plant-GO/biodex/internal/rent"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/system"
	"github.com/Plant-GO/biodex/internal/token"
)

// Options configures the issuance stack
type Options struct {
	Program config.ProgramConfig
	Rent    config.RentConfig
	// Publisher receives events after commit; nil disables publishing
	Publisher messaging.Publisher
	// Metrics may be nil
	Metrics *metrics.Metrics
}

// Stack is the wired issuance stack shared by every service
type Stack struct {
	Store     store.Store
	Deriver   *derive.Deriver
	Oracle    rent.Oracle
	Registry  registry.PoolRegistry
	Processor *issuance.Processor
	Service   issuance.Service
	Payer     common.PublicKey
	// PayerAccount holds the payer keypair when one was configured
	PayerAccount *types.Account

	proxy ratelimit.Proxy
}

// Close releases the rent RPC rate limiter
func (s *Stack) Close() {
	if s.proxy == nil {
		return
	}
	if err := s.proxy.Close(); err != nil {
		logger.Warn("Failed to close rate limit proxy", zap.Error(err))
	}
}

// OpenDatabase connects to Postgres and applies the connection pool settings
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.ConfigureConnectionPool(db, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime); err != nil {
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.String("host", cfg.Host),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return db, nil
}

// NATSConfig maps the nats section onto the JetStream provider config
func NATSConfig(cfg config.NATSConfig, defaultConnectionName string) jetstream.Config {
	name := cfg.ConnectionName
	if name == "" {
		name = defaultConnectionName
	}
	return jetstream.Config{
		URL:            cfg.URL,
		EventStream:    cfg.EventStream,
		CommandStream:  cfg.CommandStream,
		ConsumerName:   cfg.ConsumerName,
		MaxReconnects:  cfg.MaxReconnects,
		ReconnectWait:  cfg.ReconnectWait,
		ConnectionName: name,
		AckWait:        cfg.AckWait,
		MaxDeliver:     cfg.MaxDeliver,
	}
}

// NewRentOracle returns the oracle selected by cfg.Source. The RPC oracle comes with the
// proxy throttling its requests; the caller closes it.
func NewRentOracle(cfg config.RentConfig) (rent.Oracle, ratelimit.Proxy, error) {
	switch cfg.Source {
	case "", config.RentSourceLocal:
		return rent.NewLocalOracle(cfg.LamportsPerByteYear, cfg.ExemptionThreshold), nil, nil
	case config.RentSourceRPC:
		proxy, err := ratelimit.NewProxy(ratelimit.Config{
			Providers: map[string]ratelimit.ProviderConfig{
				ratelimit.PROVIDER_SOLANA_RPC: {
					RequestsPerSecond: cfg.RPCRequestsPerSecond,
					Burst:             cfg.RPCBurst,
				},
			},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create rent rate limiter: %w", err)
		}
		client := rent.NewThrottledClient(adapter.NewSolanaRPC(cfg.RPCURL), proxy)
		return rent.NewRPCOracle(client), proxy, nil
	default:
		return nil, nil, fmt.Errorf("unknown rent source: %s", cfg.Source)
	}
}

// Build wires the issuance stack over st
func Build(ctx context.Context, st store.Store, opts Options) (*Stack, error) {
	programID, err := domain.ParseAddress(opts.Program.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %w", err)
	}

	payer, payerAccount, err := LoadPayer(opts.Program, adapter.NewJSON())
	if err != nil {
		return nil, err
	}

	reg, err := registry.NewPoolRegistry(opts.Program.AssetPools)
	if err != nil {
		return nil, err
	}

	oracle, proxy, err := NewRentOracle(opts.Rent)
	if err != nil {
		return nil, err
	}

	deriver := derive.New(programID)
	allocator := system.NewAllocator()
	ledger := ownership.NewLedger(deriver, allocator, oracle)
	counters := counter.NewStore(deriver, allocator, oracle)
	processor := issuance.NewProcessor(
		deriver,
		reg,
		ledger,
		counters,
		token.NewPoolService(deriver, allocator, oracle),
		token.NewReceivingService(allocator, oracle),
	)

	service := issuance.NewService(
		issuance.Config{Payer: payer},
		st,
		processor,
		ledger,
		counters,
		reg,
		opts.Publisher,
		opts.Metrics,
		adapter.NewClock(),
		adapter.NewJSON(),
	)

	logger.InfoCtx(ctx, "Issuance stack ready",
		zap.String("program_id", programID.ToBase58()),
		zap.String("payer", payer.ToBase58()),
		zap.String("rent_source", opts.Rent.Source),
		zap.Int("asset_pool_overrides", len(opts.Program.AssetPools)),
	)

	return &Stack{
		Store:        st,
		Deriver:      deriver,
		Oracle:       oracle,
		Registry:     reg,
		Processor:    processor,
		Service:      service,
		Payer:        payer,
		PayerAccount: payerAccount,
		proxy:        proxy,
	}, nil
}

// LoadPayer resolves the funding account. A keypair file takes precedence over the address.
func LoadPayer(cfg config.ProgramConfig, json adapter.JSON) (common.PublicKey, *types.Account, error) {
	if cfg.PayerKeypairPath != "" {
		data, err := os.ReadFile(cfg.PayerKeypairPath)
		if err != nil {
			return common.PublicKey{}, nil, fmt.Errorf("failed to read payer keypair: %w", err)
		}
		account, err := DecodeKeypair(data, json)
		if err != nil {
			return common.PublicKey{}, nil, fmt.Errorf("failed to decode payer keypair: %w", err)
		}
		return account.PublicKey, &account, nil
	}

	payer, err := domain.ParseAddress(cfg.Payer)
	if err != nil {
		return common.PublicKey{}, nil, fmt.Errorf("invalid payer: %w", err)
	}
	return payer, nil, nil
}

// DecodeKeypair restores an account from a keypair file holding the 64 secret key bytes as a
// JSON number array
func DecodeKeypair(data []byte, json adapter.JSON) (types.Account, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return types.Account{}, fmt.Errorf("unmarshal keypair json: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return types.Account{}, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	key := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return types.Account{}, fmt.Errorf("secret key byte %d out of range: %d", i, v)
		}
		key[i] = byte(v)
	}

	return types.AccountFromBytes(key)
}
