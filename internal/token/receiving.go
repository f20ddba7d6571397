package token

import (
	"context"
	"fmt"

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

//go:generate mockgen -source=receiving.go -destination=../mocks/receiving_service.go -package=mocks -mock_names=ReceivingService=MockReceivingService

// ReceivingService manages the per-holder accounts that receive units of a pool
type ReceivingService interface {
	// Address returns the receiving account of holder for pool
	Address(holder, pool common.PublicKey) (common.PublicKey, error)
	// CreateIfAbsent creates the receiving account unless it already exists, returning its address
	CreateIfAbsent(ctx context.Context, tx store.Tx, payer, holder, pool common.PublicKey) (common.PublicKey, error)
}

type receivingService struct {
	deriver   *derive.Deriver
	allocator system.Allocator
	rent      rent.Oracle
}

// NewReceivingService creates a receiving-account service deriving associated token addresses
func NewReceivingService(allocator system.Allocator, oracle rent.Oracle) ReceivingService {
	return &receivingService{
		deriver:   derive.New(common.SPLAssociatedTokenAccountProgramID),
		allocator: allocator,
		rent:      oracle,
	}
}

// ReceivingSeeds returns the associated token address seeds of holder for pool
func ReceivingSeeds(holder, pool common.PublicKey) [][]byte {
	return [][]byte{holder.Bytes(), common.TokenProgramID.Bytes(), pool.Bytes()}
}

func (s *receivingService) Address(holder, pool common.PublicKey) (common.PublicKey, error) {
	address, _, err := s.deriver.Canonical(ReceivingSeeds(holder, pool)...)
	return address, err
}

func (s *receivingService) CreateIfAbsent(ctx context.Context, tx store.Tx, payer, holder, pool common.PublicKey) (common.PublicKey, error) {
	seeds := ReceivingSeeds(holder, pool)
	address, salt, err := s.deriver.Canonical(seeds...)
	if err != nil {
		return common.PublicKey{}, err
	}

	existing, err := tx.GetAccount(ctx, address)
	if err != nil {
		return common.PublicKey{}, err
	}
	if existing.Exists() {
		if existing.Owner != common.TokenProgramID {
			return common.PublicKey{}, fmt.Errorf("%w: %s is not a token account", domain.ErrInvalidArgument, address.ToBase58())
		}
		state, err := codec.DecodeTokenAccount(existing.Data)
		if err != nil {
			return common.PublicKey{}, err
		}
		if state.Mint != pool || state.Owner != holder {
			return common.PublicKey{}, fmt.Errorf("%w: receiving account %s belongs to another holder or pool",
				domain.ErrInvalidArgument, address.ToBase58())
		}
		return address, nil
	}

	lamports, err := s.rent.MinimumBalance(ctx, codec.TokenAccountSize)
	if err != nil {
		return common.PublicKey{}, err
	}
	if err := s.allocator.CreateAccount(ctx, tx, system.CreateAccountRequest{
		Payer:    payer,
		Address:  address,
		Lamports: lamports,
		Space:    codec.TokenAccountSize,
		Owner:    common.TokenProgramID,
		Auth:     system.DerivedFrom(s.deriver, salt, seeds...),
	}); err != nil {
		return common.PublicKey{}, fmt.Errorf("failed to allocate receiving account: %w", err)
	}

	data, err := codec.EncodeTokenAccount(codec.TokenAccount{Mint: pool, Owner: holder})
	if err != nil {
		return common.PublicKey{}, err
	}
	if err := tx.PutAccount(ctx, &store.Account{
		Address:  address,
		Owner:    common.TokenProgramID,
		Lamports: lamports,
		Data:     data,
	}); err != nil {
		return common.PublicKey{}, err
	}

	logger.DebugCtx(ctx, "Receiving account created",
		zap.String("address", address.ToBase58()),
		zap.String("holder", holder.ToBase58()),
		zap.String("pool", pool.ToBase58()))

	return address, nil
}
