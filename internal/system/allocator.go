package system

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"go.uber.org/zap"

	"github.com/Plant-GO/biodex/internal/derive"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/store"
)

//go:generate mockgen -source=allocator.go -destination=../mocks/allocator.go -package=mocks -mock_names=Allocator=MockAllocator

// Authorization proves the right to create an account at an address: either the address
// signed the invocation, or Seeds and Salt re-derive it with Deriver
type Authorization struct {
	Signed  bool
	Deriver *derive.Deriver
	Seeds   [][]byte
	Salt    uint8
}

// SignedBy authorizes an address that signed the invocation
func SignedBy() Authorization {
	return Authorization{Signed: true}
}

// DerivedFrom authorizes an address derived by d from seeds and salt
func DerivedFrom(d *derive.Deriver, salt uint8, seeds ...[]byte) Authorization {
	return Authorization{Deriver: d, Seeds: seeds, Salt: salt}
}

func (a Authorization) permits(address common.PublicKey) bool {
	if a.Signed {
		return true
	}
	return a.Deriver != nil && a.Deriver.Verify(address, a.Salt, a.Seeds...)
}

// CreateAccountRequest describes a new account
type CreateAccountRequest struct {
	Payer    common.PublicKey
	Address  common.PublicKey
	Lamports uint64
	Space    uint64
	Owner    common.PublicKey
	Auth     Authorization
}

// Allocator creates funded accounts
type Allocator interface {
	// CreateAccount debits the payer, then allocates Space zeroed bytes at Address owned by Owner
	CreateAccount(ctx context.Context, tx store.Tx, req CreateAccountRequest) error
}

type allocator struct{}

// NewAllocator creates the system allocator
func NewAllocator() Allocator {
	return &allocator{}
}

func (a *allocator) CreateAccount(ctx context.Context, tx store.Tx, req CreateAccountRequest) error {
	if req.Payer == req.Address {
		return fmt.Errorf("%w: payer cannot fund itself", domain.ErrInvalidArgument)
	}
	if !req.Auth.permits(req.Address) {
		return fmt.Errorf("%w: %s is neither a signer nor derived from the supplied seeds",
			domain.ErrInvalidArgument, req.Address.ToBase58())
	}

	existing, err := tx.GetAccount(ctx, req.Address)
	if err != nil {
		return err
	}
	if existing.Exists() {
		return fmt.Errorf("%w: %s", domain.ErrAccountAlreadyInUse, req.Address.ToBase58())
	}

	payer, err := tx.GetAccount(ctx, req.Payer)
	if err != nil {
		return err
	}
	if payer == nil || payer.Lamports < req.Lamports {
		var available uint64
		if payer != nil {
			available = payer.Lamports
		}
		return fmt.Errorf("%w: payer %s has %d lamports, needs %d",
			domain.ErrInsufficientFunds, req.Payer.ToBase58(), available, req.Lamports)
	}
	if payer.Owner != common.SystemProgramID {
		return fmt.Errorf("%w: payer %s is not a system account", domain.ErrInvalidArgument, req.Payer.ToBase58())
	}

	payer.Lamports -= req.Lamports
	if err := tx.PutAccount(ctx, payer); err != nil {
		return err
	}

	if err := tx.PutAccount(ctx, &store.Account{
		Address:  req.Address,
		Owner:    req.Owner,
		Lamports: req.Lamports,
		Data:     make([]byte, req.Space),
	}); err != nil {
		return err
	}

	logger.DebugCtx(ctx, "Account created",
		zap.String("address", req.Address.ToBase58()),
		zap.String("owner", req.Owner.ToBase58()),
		zap.Uint64("lamports", req.Lamports),
		zap.Uint64("space", req.Space))

	return nil
}
