package token

import (
	"context"
	"fmt"
	"math"

	"github.com/blocto/solana-go-sdk/common"
	"go.uber.org/zap"

	"github.com/Plant-GO/biodex/internal/codec"
	"github.com/Plant-GO/biodex/internal/derive"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/rent"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/system"
)

//go:generate mockgen -source=pool.go -destination=../mocks/pool_service.go -package=mocks -mock_names=PoolService=MockPoolService

// CreatePoolRequest describes a new asset pool. The pool address must have signed the invocation.
type CreatePoolRequest struct {
	Payer         common.PublicKey
	Pool          common.PublicKey
	MintAuthority common.PublicKey
	Title         string
	Symbol        string
	URI           string
}

// MintToRequest mints units of a pool into a receiving account. The authority is a
// program address proven by its seeds and salt.
type MintToRequest struct {
	Pool          common.PublicKey
	Destination   common.PublicKey
	Authority     common.PublicKey
	AuthoritySalt uint8
	Amount        uint64
}

// PoolService manages asset pools
type PoolService interface {
	// CreatePool allocates and initializes a pool with zero supply
	CreatePool(ctx context.Context, tx store.Tx, req CreatePoolRequest) error
	// MintTo adds units to a receiving account and to the pool supply
	MintTo(ctx context.Context, tx store.Tx, req MintToRequest) error
	// GetPool decodes the pool at address
	GetPool(ctx context.Context, tx store.Tx, address common.PublicKey) (*codec.Pool, error)
}

type poolService struct {
	deriver   *derive.Deriver
	allocator system.Allocator
	rent      rent.Oracle
}

// NewPoolService creates a pool service whose mint authority seeds are checked with deriver
func NewPoolService(deriver *derive.Deriver, allocator system.Allocator, oracle rent.Oracle) PoolService {
	return &poolService{
		deriver:   deriver,
		allocator: allocator,
		rent:      oracle,
	}
}

func (s *poolService) CreatePool(ctx context.Context, tx store.Tx, req CreatePoolRequest) error {
	data, err := codec.EncodePool(codec.Pool{
		MintAuthority: req.MintAuthority,
		Decimals:      0,
		Title:         req.Title,
		Symbol:        req.Symbol,
		URI:           req.URI,
	})
	if err != nil {
		return err
	}

	lamports, err := s.rent.MinimumBalance(ctx, uint64(len(data)))
	if err != nil {
		return err
	}

	if err := s.allocator.CreateAccount(ctx, tx, system.CreateAccountRequest{
		Payer:    req.Payer,
		Address:  req.Pool,
		Lamports: lamports,
		Space:    uint64(len(data)),
		Owner:    common.TokenProgramID,
		Auth:     system.SignedBy(),
	}); err != nil {
		return fmt.Errorf("failed to allocate pool: %w", err)
	}

	if err := tx.PutAccount(ctx, &store.Account{
		Address:  req.Pool,
		Owner:    common.TokenProgramID,
		Lamports: lamports,
		Data:     data,
	}); err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Asset pool created",
		zap.String("pool", req.Pool.ToBase58()),
		zap.String("title", req.Title),
		zap.String("symbol", req.Symbol))

	return nil
}

func (s *poolService) GetPool(ctx context.Context, tx store.Tx, address common.PublicKey) (*codec.Pool, error) {
	_, pool, err := s.loadPool(ctx, tx, address)
	return pool, err
}

func (s *poolService) MintTo(ctx context.Context, tx store.Tx, req MintToRequest) error {
	poolAccount, pool, err := s.loadPool(ctx, tx, req.Pool)
	if err != nil {
		return err
	}
	if pool.MintAuthority != req.Authority {
		return fmt.Errorf("%w: %s is not the mint authority of pool %s",
			domain.ErrInvalidArgument, req.Authority.ToBase58(), req.Pool.ToBase58())
	}
	if !s.deriver.Verify(req.Authority, req.AuthoritySalt, derive.MintAuthoritySeeds()...) {
		return fmt.Errorf("%w: mint authority seeds do not match", domain.ErrInvalidArgument)
	}

	destAccount, err := tx.GetAccount(ctx, req.Destination)
	if err != nil {
		return err
	}
	if !destAccount.Exists() || destAccount.Owner != common.TokenProgramID {
		return fmt.Errorf("%w: receiving account %s", domain.ErrAccountNotFound, req.Destination.ToBase58())
	}
	dest, err := codec.DecodeTokenAccount(destAccount.Data)
	if err != nil {
		return err
	}
	if dest.Mint != req.Pool {
		return fmt.Errorf("%w: receiving account %s holds another pool", domain.ErrInvalidArgument, req.Destination.ToBase58())
	}

	if pool.Supply > math.MaxUint64-req.Amount || dest.Amount > math.MaxUint64-req.Amount {
		return fmt.Errorf("%w: minting %d units of %s", domain.ErrCounterOverflow, req.Amount, req.Pool.ToBase58())
	}
	pool.Supply += req.Amount
	dest.Amount += req.Amount

	if poolAccount.Data, err = codec.EncodePool(*pool); err != nil {
		return err
	}
	if destAccount.Data, err = codec.EncodeTokenAccount(*dest); err != nil {
		return err
	}
	if err := tx.PutAccount(ctx, poolAccount); err != nil {
		return err
	}
	return tx.PutAccount(ctx, destAccount)
}

func (s *poolService) loadPool(ctx context.Context, tx store.Tx, address common.PublicKey) (*store.Account, *codec.Pool, error) {
	account, err := tx.GetAccount(ctx, address)
	if err != nil {
		return nil, nil, err
	}
	if !account.Exists() {
		return nil, nil, fmt.Errorf("%w: pool %s", domain.ErrAccountNotFound, address.ToBase58())
	}
	if account.Owner != common.TokenProgramID {
		return nil, nil, fmt.Errorf("%w: %s is not a token program account", domain.ErrInvalidArgument, address.ToBase58())
	}

	pool, err := codec.DecodePool(account.Data)
	if err != nil {
		return nil, nil, err
	}
	return account, pool, nil
}
