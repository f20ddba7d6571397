package ownership

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

// Reservation is a checked-unused ownership address for one (subject, holder, rarity tag) triple
type Reservation struct {
	Address common.PublicKey
	Salt    uint8
	Seeds   [][]byte
}

// Ledger records which holders own which cards. A record is written once and never updated.
type Ledger struct {
	deriver   *derive.Deriver
	allocator system.Allocator
	rent      rent.Oracle
}

// NewLedger creates an ownership ledger for the program of deriver
func NewLedger(deriver *derive.Deriver, allocator system.Allocator, oracle rent.Oracle) *Ledger {
	return &Ledger{
		deriver:   deriver,
		allocator: allocator,
		rent:      oracle,
	}
}

// Reserve checks that supplied is the ownership address of the triple and that nothing is
// allocated there yet. The account contents are not decoded.
func (l *Ledger) Reserve(ctx context.Context, tx store.Tx, subject string, holder common.PublicKey, tag domain.RarityTier, supplied common.PublicKey) (*Reservation, error) {
	seeds := derive.OwnershipSeeds(subject, holder, tag)
	address, salt, err := l.deriver.Canonical(seeds...)
	if err != nil {
		return nil, err
	}
	if address != supplied {
		return nil, fmt.Errorf("%w: ownership account %s, expected %s",
			domain.ErrInvalidArgument, supplied.ToBase58(), address.ToBase58())
	}

	account, err := tx.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if account.Exists() {
		return nil, fmt.Errorf("%w: %s already holds %s for %q",
			domain.ErrAlreadyOwned, holder.ToBase58(), tag, subject)
	}

	return &Reservation{Address: address, Salt: salt, Seeds: seeds}, nil
}

// Commit allocates the reserved account at its maximum record size and writes record into it
func (l *Ledger) Commit(ctx context.Context, tx store.Tx, res *Reservation, payer common.PublicKey, record domain.OwnershipRecord) error {
	encoded, err := codec.EncodeOwnershipRecord(record)
	if err != nil {
		return err
	}

	lamports, err := l.rent.MinimumBalance(ctx, codec.MaxOwnershipRecordSize)
	if err != nil {
		return err
	}
	if err := l.allocator.CreateAccount(ctx, tx, system.CreateAccountRequest{
		Payer:    payer,
		Address:  res.Address,
		Lamports: lamports,
		Space:    codec.MaxOwnershipRecordSize,
		Owner:    l.deriver.ProgramID(),
		Auth:     system.DerivedFrom(l.deriver, res.Salt, res.Seeds...),
	}); err != nil {
		return fmt.Errorf("failed to allocate ownership record: %w", err)
	}

	data := make([]byte, codec.MaxOwnershipRecordSize)
	copy(data, encoded)
	if err := tx.PutAccount(ctx, &store.Account{
		Address:  res.Address,
		Owner:    l.deriver.ProgramID(),
		Lamports: lamports,
		Data:     data,
	}); err != nil {
		return err
	}

	logger.DebugCtx(ctx, "Ownership recorded",
		zap.String("address", res.Address.ToBase58()),
		zap.String("holder", record.Holder.ToBase58()),
		zap.String("subject", record.SubjectName),
		zap.Stringer("rarity", record.Rarity))

	return nil
}

// Address derives the ownership address of a triple
func (l *Ledger) Address(subject string, holder common.PublicKey, tag domain.RarityTier) (common.PublicKey, error) {
	address, _, err := l.deriver.Ownership(subject, holder, tag)
	return address, err
}

// Get decodes the record at address, returning nil when nothing is allocated there
func (l *Ledger) Get(ctx context.Context, reader store.AccountReader, address common.PublicKey) (*domain.OwnershipRecord, error) {
	account, err := reader.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if !account.Exists() {
		return nil, nil
	}
	if account.Owner != l.deriver.ProgramID() {
		return nil, fmt.Errorf("%w: ownership account %s is not program owned", domain.ErrCorruptState, address.ToBase58())
	}
	return codec.DecodeOwnershipRecord(account.Data)
}
