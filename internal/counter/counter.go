package counter

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/Plant-GO/biodex/internal/codec"
	"github.com/Plant-GO/biodex/internal/derive"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/rent"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/system"
)

// Loaded is a subject counter together with where it lives
type Loaded struct {
	Counter domain.SubjectCounter
	Address common.PublicKey
	Salt    uint8
	Seeds   [][]byte
	// Exists is false when nothing is allocated yet and Counter is the zero counter
	Exists bool
}

// Store loads and persists per-subject counters
type Store struct {
	deriver   *derive.Deriver
	allocator system.Allocator
	rent      rent.Oracle
}

func NewStore(deriver *derive.Deriver, allocator system.Allocator, oracle rent.Oracle) *Store {
	return &Store{
		deriver:   deriver,
		allocator: allocator,
		rent:      oracle,
	}
}

// Address derives the counter address of subject
func (s *Store) Address(subject string) (common.PublicKey, error) {
	address, _, err := s.deriver.SubjectCounter(subject)
	return address, err
}

// LoadOrInit returns the counter at the subject's address, or the zero counter when nothing
// is allocated there. supplied must be the derived address.
func (s *Store) LoadOrInit(ctx context.Context, tx store.Tx, subject string, supplied common.PublicKey) (*Loaded, error) {
	seeds := derive.SubjectCounterSeeds(subject)
	address, salt, err := s.deriver.Canonical(seeds...)
	if err != nil {
		return nil, err
	}
	if address != supplied {
		return nil, fmt.Errorf("%w: counter account %s, expected %s",
			domain.ErrInvalidArgument, supplied.ToBase58(), address.ToBase58())
	}

	loaded := &Loaded{
		Counter: domain.NewSubjectCounter(subject),
		Address: address,
		Salt:    salt,
		Seeds:   seeds,
	}

	account, err := tx.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if !account.Exists() {
		return loaded, nil
	}

	counter, err := s.decode(account, subject)
	if err != nil {
		return nil, err
	}
	loaded.Counter = *counter
	loaded.Exists = true
	return loaded, nil
}

// Persist writes counter to the loaded address, allocating it on first use. The encoding
// size must equal the existing allocation.
func (s *Store) Persist(ctx context.Context, tx store.Tx, loaded *Loaded, payer common.PublicKey, counter domain.SubjectCounter) error {
	if counter.SubjectName != loaded.Counter.SubjectName {
		return fmt.Errorf("%w: counter for %q persisted at the address of %q",
			domain.ErrInvalidArgument, counter.SubjectName, loaded.Counter.SubjectName)
	}

	data, err := codec.EncodeSubjectCounter(counter)
	if err != nil {
		return err
	}

	if !loaded.Exists {
		lamports, err := s.rent.MinimumBalance(ctx, uint64(len(data)))
		if err != nil {
			return err
		}
		if err := s.allocator.CreateAccount(ctx, tx, system.CreateAccountRequest{
			Payer:    payer,
			Address:  loaded.Address,
			Lamports: lamports,
			Space:    uint64(len(data)),
			Owner:    s.deriver.ProgramID(),
			Auth:     system.DerivedFrom(s.deriver, loaded.Salt, loaded.Seeds...),
		}); err != nil {
			return fmt.Errorf("failed to allocate subject counter: %w", err)
		}
	}

	account, err := tx.GetAccount(ctx, loaded.Address)
	if err != nil {
		return err
	}
	if !account.Exists() {
		return fmt.Errorf("%w: counter %s", domain.ErrAccountNotFound, loaded.Address.ToBase58())
	}
	if account.Space() != len(data) {
		return fmt.Errorf("%w: counter encoding is %d bytes, allocation is %d",
			domain.ErrCorruptState, len(data), account.Space())
	}

	account.Data = data
	if err := tx.PutAccount(ctx, account); err != nil {
		return err
	}

	loaded.Counter = counter.Clone()
	loaded.Exists = true
	return nil
}

// Get reads the committed counter of subject, returning nil when none exists
func (s *Store) Get(ctx context.Context, reader store.AccountReader, subject string) (*domain.SubjectCounter, error) {
	address, err := s.Address(subject)
	if err != nil {
		return nil, err
	}
	account, err := reader.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if !account.Exists() {
		return nil, nil
	}
	return s.decode(account, subject)
}

func (s *Store) decode(account *store.Account, subject string) (*domain.SubjectCounter, error) {
	if account.Owner != s.deriver.ProgramID() {
		return nil, fmt.Errorf("%w: counter account %s is not program owned", domain.ErrCorruptState, account.Address.ToBase58())
	}
	counter, err := codec.DecodeSubjectCounter(account.Data)
	if err != nil {
		return nil, err
	}
	if counter.SubjectName != subject {
		return nil, fmt.Errorf("%w: counter at %s is for %q", domain.ErrCorruptState, account.Address.ToBase58(), counter.SubjectName)
	}
	return counter, nil
}
