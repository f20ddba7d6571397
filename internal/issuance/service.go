package issuance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Plant-GO/biodex/internal/adapter"
	"github.com/Plant-GO/biodex/internal/counter"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/instruction"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/messaging"
	"github.com/Plant-GO/biodex/internal/metrics"
	"github.com/Plant-GO/biodex/internal/ownership"
	"github.com/Plant-GO/biodex/internal/registry"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/store/schema"
)

// CardRequest issues a card with the service payer funding new accounts
type CardRequest struct {
	Path         domain.PathKind
	RarityTag    domain.RarityTier
	SubjectName  string
	Holder       common.PublicKey
	IsNewSubject bool
	Winner       bool
}

// PoolRequest creates the asset pool of a tier. The caller holds the pool key and vouches
// for its signature.
type PoolRequest struct {
	Tier   domain.RarityTier
	Pool   common.PublicKey
	Title  string
	Symbol string
	URI    string
}

// OwnershipView is an ownership record with its address
type OwnershipView struct {
	Address common.PublicKey
	Record  *domain.OwnershipRecord
}

// Service runs invocations against the host ledger and reads committed state
//
//go:generate mockgen -source=service.go -destination=../mocks/issuance_service.go -package=mocks -mock_names=Service=MockIssuanceService
type Service interface {
	// Submit runs one invocation atomically
	Submit(ctx context.Context, inv Invocation) (*Outcome, error)
	// IssueCard builds the envelope and accounts of a card issuance and submits it
	IssueCard(ctx context.Context, req CardRequest) (*Outcome, error)
	// CreateAssetPool creates a pool and registers it for the tier in the same invocation
	CreateAssetPool(ctx context.Context, req PoolRequest) (*Outcome, error)
	// GetCounter returns the committed counter of subject, nil when none exists
	GetCounter(ctx context.Context, subject string) (*domain.SubjectCounter, error)
	// GetOwnership returns the ownership record of a triple; Record is nil when none exists
	GetOwnership(ctx context.Context, subject string, holder common.PublicKey, tag domain.RarityTier) (*OwnershipView, error)
	// GetIssuances lists journal entries
	GetIssuances(ctx context.Context, filter store.IssuanceQueryFilter) ([]*schema.IssuanceJournal, uint64, error)
	// GetPools returns the registered pool of every tier that has one
	GetPools(ctx context.Context) (map[domain.RarityTier]common.PublicKey, error)
}

// Config holds the service settings
type Config struct {
	// Payer funds accounts created by IssueCard and CreateAssetPool
	Payer common.PublicKey
}

type service struct {
	config    Config
	store     store.Store
	processor *Processor
	ledger    *ownership.Ledger
	counters  *counter.Store
	registry  registry.PoolRegistry
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	clock     adapter.Clock
	json      adapter.JSON
}

// NewService creates the issuance service. publisher and m may be nil.
func NewService(
	config Config,
	st store.Store,
	processor *Processor,
	ledger *ownership.Ledger,
	counters *counter.Store,
	reg registry.PoolRegistry,
	publisher messaging.Publisher,
	m *metrics.Metrics,
	clock adapter.Clock,
	jsonAdapter adapter.JSON,
) Service {
	if publisher == nil {
		publisher = messaging.NewNopPublisher()
	}
	return &service{
		config:    config,
		store:     st,
		processor: processor,
		ledger:    ledger,
		counters:  counters,
		registry:  reg,
		publisher: publisher,
		metrics:   m,
		clock:     clock,
		json:      jsonAdapter,
	}
}

func (s *service) Submit(ctx context.Context, inv Invocation) (*Outcome, error) {
	return s.submit(ctx, inv, nil)
}

func (s *service) IssueCard(ctx context.Context, req CardRequest) (*Outcome, error) {
	var ins instruction.Instruction
	switch req.Path {
	case domain.PathRegular:
		ins = instruction.IssueRegularCard{RarityTag: req.RarityTag, SubjectName: req.SubjectName, IsNewSubject: req.IsNewSubject}
	case domain.PathQuiz:
		ins = instruction.IssueQuizCard{RarityTag: req.RarityTag, SubjectName: req.SubjectName, Winner: req.Winner}
	default:
		return nil, fmt.Errorf("%w: unknown path %q", domain.ErrMalformedInstruction, req.Path)
	}

	data, err := instruction.Encode(ins)
	if err != nil {
		return nil, err
	}
	accounts, err := s.processor.IssueAccounts(ctx, s.store, req.Path, req.Holder, req.SubjectName, req.RarityTag, s.config.Payer)
	if err != nil {
		return nil, err
	}

	return s.submit(ctx, Invocation{
		Data:     data,
		Accounts: accounts.List(),
		Signers:  []common.PublicKey{s.config.Payer},
	}, nil)
}

func (s *service) CreateAssetPool(ctx context.Context, req PoolRequest) (*Outcome, error) {
	if !req.Tier.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, req.Tier)
	}

	data, err := instruction.Encode(instruction.CreateAssetPool{Title: req.Title, Symbol: req.Symbol, URI: req.URI})
	if err != nil {
		return nil, err
	}
	accounts, err := s.processor.PoolAccounts(req.Pool, s.config.Payer)
	if err != nil {
		return nil, err
	}

	inv := Invocation{
		Data:     data,
		Accounts: accounts.List(),
		Signers:  []common.PublicKey{req.Pool, s.config.Payer},
	}
	return s.submit(ctx, inv, func(ctx context.Context, tx store.Tx, _ *Outcome) error {
		return s.registry.Register(ctx, tx, req.Tier, req.Pool)
	})
}

// submit runs inv in one host transaction; after, when set, runs in the same transaction
func (s *service) submit(ctx context.Context, inv Invocation, after func(ctx context.Context, tx store.Tx, outcome *Outcome) error) (*Outcome, error) {
	if inv.ID == "" {
		inv.ID = ulid.Make().String()
	}
	operation := operationOf(inv.Data)
	ctx = logger.WithInvocation(ctx, logger.InvocationInfo{ID: inv.ID, Operation: operation})

	start := s.clock.Now()
	var outcome *Outcome
	err := s.store.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		out, err := s.processor.Process(ctx, tx, inv)
		if err != nil {
			return err
		}
		if after != nil {
			if err := after(ctx, tx, out); err != nil {
				return err
			}
		}

		entry, err := s.journalEntry(out, start)
		if err != nil {
			return err
		}
		if err := tx.AppendJournal(ctx, entry); err != nil {
			return err
		}

		outcome = out
		return nil
	})
	s.metrics.ObserveInvocation(operation, err, s.clock.Since(start))
	if err != nil {
		return nil, err
	}

	if outcome.Path != "" {
		s.metrics.CardIssued(outcome.Path, outcome.Rarity)
	}
	s.publish(ctx, outcome, start)

	return outcome, nil
}

func (s *service) journalEntry(out *Outcome, at time.Time) (*schema.IssuanceJournal, error) {
	entry := &schema.IssuanceJournal{
		InvocationID: out.InvocationID,
		Operation:    schema.Operation(out.Instruction.Operation()),
		AssetPool:    out.AssetPool.ToBase58(),
		CreatedAt:    at.UTC(),
	}

	var meta map[string]interface{}
	switch ins := out.Instruction.(type) {
	case instruction.CreateAssetPool:
		entry.Address = out.AssetPool.ToBase58()
		meta = map[string]interface{}{
			"title":  ins.Title,
			"symbol": ins.Symbol,
			"uri":    ins.URI,
		}
	default:
		rarityName := out.Rarity.String()
		entry.SubjectName = out.SubjectName
		entry.Holder = out.Holder.ToBase58()
		entry.Rarity = &rarityName
		entry.Address = out.Ownership.ToBase58()
		meta = map[string]interface{}{
			"path":              out.Path,
			"rarity_tag":        out.RarityTag.String(),
			"is_first":          out.IsFirst,
			"receiving_account": out.Receiving.ToBase58(),
		}
	}

	data, err := s.json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal journal meta: %w", err)
	}
	entry.Meta = datatypes.JSON(data)

	return entry, nil
}

// publish announces a committed outcome. The invocation already committed, so failures are
// only logged.
func (s *service) publish(ctx context.Context, out *Outcome, at time.Time) {
	var err error
	switch ins := out.Instruction.(type) {
	case instruction.CreateAssetPool:
		err = s.publisher.PublishPoolCreated(ctx, &domain.PoolCreatedEvent{
			InvocationID: out.InvocationID,
			Pool:         out.AssetPool.ToBase58(),
			Title:        ins.Title,
			Symbol:       ins.Symbol,
			URI:          ins.URI,
			CreatedAt:    at.UTC(),
		})
	default:
		err = s.publisher.PublishCardIssued(ctx, &domain.CardIssuedEvent{
			InvocationID:     out.InvocationID,
			Path:             out.Path,
			SubjectName:      out.SubjectName,
			Holder:           out.Holder.ToBase58(),
			RarityTag:        out.RarityTag,
			Rarity:           out.Rarity,
			RarityName:       out.Rarity.CardName(),
			OwnershipAddress: out.Ownership.ToBase58(),
			AssetPool:        out.AssetPool.ToBase58(),
			ReceivingAccount: out.Receiving.ToBase58(),
			IssuedAt:         at.UTC(),
		})
	}
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to publish issuance event"))
	}
}

func (s *service) GetCounter(ctx context.Context, subject string) (*domain.SubjectCounter, error) {
	if err := domain.ValidateSubjectName(subject); err != nil {
		return nil, err
	}
	return s.counters.Get(ctx, s.store, subject)
}

func (s *service) GetOwnership(ctx context.Context, subject string, holder common.PublicKey, tag domain.RarityTier) (*OwnershipView, error) {
	if err := domain.ValidateSubjectName(subject); err != nil {
		return nil, err
	}
	if !tag.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, tag)
	}

	address, err := s.ledger.Address(subject, holder, tag)
	if err != nil {
		return nil, err
	}
	record, err := s.ledger.Get(ctx, s.store, address)
	if err != nil {
		return nil, err
	}
	return &OwnershipView{Address: address, Record: record}, nil
}

func (s *service) GetIssuances(ctx context.Context, filter store.IssuanceQueryFilter) ([]*schema.IssuanceJournal, uint64, error) {
	return s.store.GetIssuances(ctx, filter)
}

func (s *service) GetPools(ctx context.Context) (map[domain.RarityTier]common.PublicKey, error) {
	pools := make(map[domain.RarityTier]common.PublicKey)
	for _, tier := range domain.AllRarityTiers {
		pool, err := s.registry.Pool(ctx, s.store, tier)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				continue
			}
			return nil, err
		}
		pools[tier] = pool
	}
	return pools, nil
}

// operationOf names the operation of an envelope for logs and metrics
func operationOf(data []byte) string {
	ins, err := instruction.Decode(data)
	if err != nil {
		return "malformed"
	}
	return ins.Operation()
}
