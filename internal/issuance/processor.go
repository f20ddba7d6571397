package issuance

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"go.uber.org/zap"

	"github.com/Plant-GO/biodex/internal/counter"
	"github.com/Plant-GO/biodex/internal/derive"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/instruction"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/ownership"
	"github.com/Plant-GO/biodex/internal/rarity"
	"github.com/Plant-GO/biodex/internal/registry"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/token"
)

// Invocation is one instruction with its positional accounts and the addresses that signed it
type Invocation struct {
	ID       string
	Data     []byte
	Accounts []common.PublicKey
	Signers  []common.PublicKey
}

// Outcome is what a committed invocation did
type Outcome struct {
	InvocationID string
	Instruction  instruction.Instruction
	Path         domain.PathKind
	SubjectName  string
	Holder       common.PublicKey
	RarityTag    domain.RarityTier
	// Rarity is the awarded tier
	Rarity    domain.RarityTier
	IsFirst   bool
	Ownership common.PublicKey
	// AssetPool is the pool minted from, or the pool created
	AssetPool common.PublicKey
	Receiving common.PublicKey
	Counter   domain.SubjectCounter
}

// Processor runs instructions inside a host transaction
type Processor struct {
	deriver   *derive.Deriver
	registry  registry.PoolRegistry
	ledger    *ownership.Ledger
	counters  *counter.Store
	pools     token.PoolService
	receiving token.ReceivingService
}

// NewProcessor creates a processor for the program of deriver
func NewProcessor(
	deriver *derive.Deriver,
	registry registry.PoolRegistry,
	ledger *ownership.Ledger,
	counters *counter.Store,
	pools token.PoolService,
	receiving token.ReceivingService,
) *Processor {
	return &Processor{
		deriver:   deriver,
		registry:  registry,
		ledger:    ledger,
		counters:  counters,
		pools:     pools,
		receiving: receiving,
	}
}

// Process decodes and executes one invocation against tx. Any error leaves tx to be aborted by
// the caller; the error is a *StageError naming where it failed.
func (p *Processor) Process(ctx context.Context, tx store.Tx, inv Invocation) (*Outcome, error) {
	ins, err := instruction.Decode(inv.Data)
	if err != nil {
		return nil, p.abort(ctx, StageStart, err)
	}

	switch ins := ins.(type) {
	case instruction.CreateAssetPool:
		return p.createAssetPool(ctx, tx, inv, ins)
	case instruction.IssueRegularCard:
		return p.issue(ctx, tx, inv, ins, ins.RarityTag, ins.SubjectName, rarity.Regular{IsNewSubject: ins.IsNewSubject})
	case instruction.IssueQuizCard:
		return p.issue(ctx, tx, inv, ins, ins.RarityTag, ins.SubjectName, rarity.Quiz{Winner: ins.Winner})
	default:
		return nil, p.abort(ctx, StageStart, fmt.Errorf("%w: unsupported instruction %T", domain.ErrMalformedInstruction, ins))
	}
}

func (p *Processor) issue(
	ctx context.Context,
	tx store.Tx,
	inv Invocation,
	ins instruction.Instruction,
	tag domain.RarityTier,
	subject string,
	path rarity.Path,
) (*Outcome, error) {
	kind := path.Kind()

	accounts, mintSalt, err := p.validateIssueAccounts(ctx, tx, kind, tag, subject, inv)
	if err != nil {
		return nil, p.abort(ctx, StageValidateAccounts, err)
	}

	reservation, err := p.ledger.Reserve(ctx, tx, subject, accounts.Holder, tag, accounts.Ownership)
	if err != nil {
		return nil, p.abort(ctx, StageCheckOwnershipUnused, err)
	}

	loaded, err := p.counters.LoadOrInit(ctx, tx, subject, accounts.Counter)
	if err != nil {
		return nil, p.abort(ctx, StageLoadCounter, err)
	}

	isFirst := rarity.IsFirstChainOccurrence(loaded.Counter)
	decision, err := rarity.Decide(loaded.Counter, accounts.Holder, isFirst, path)
	if err != nil {
		return nil, p.abort(ctx, StageComputeRarity, err)
	}
	slot := tierSlot(kind, decision.Tier)
	if slot < 0 {
		return nil, p.abort(ctx, StageComputeRarity,
			fmt.Errorf("%w: %s path awarded %s", domain.ErrCorruptState, kind, decision.Tier))
	}
	pool := accounts.Pools[slot]

	receiving, err := p.receiving.CreateIfAbsent(ctx, tx, accounts.Payer, accounts.Holder, pool)
	if err != nil {
		return nil, p.abort(ctx, StageEnsureReceivingAccount, err)
	}
	if receiving != accounts.Receiving[slot] {
		return nil, p.abort(ctx, StageEnsureReceivingAccount,
			fmt.Errorf("%w: receiving account %s, expected %s", domain.ErrInvalidArgument,
				accounts.Receiving[slot].ToBase58(), receiving.ToBase58()))
	}

	if err := p.pools.MintTo(ctx, tx, token.MintToRequest{
		Pool:          pool,
		Destination:   receiving,
		Authority:     accounts.MintAuthority,
		AuthoritySalt: mintSalt,
		Amount:        1,
	}); err != nil {
		return nil, p.abort(ctx, StageMintOneUnit, err)
	}

	if err := p.counters.Persist(ctx, tx, loaded, accounts.Payer, decision.Counter); err != nil {
		return nil, p.abort(ctx, StagePersistCounter, err)
	}

	if err := p.ledger.Commit(ctx, tx, reservation, accounts.Payer, domain.OwnershipRecord{
		Holder:      accounts.Holder,
		SubjectName: subject,
		Rarity:      decision.Tier,
		AssetPool:   pool,
	}); err != nil {
		return nil, p.abort(ctx, StagePersistOwnership, err)
	}

	logger.InfoCtx(ctx, "Card issued",
		zap.String("path", string(kind)),
		zap.String("subject", subject),
		zap.String("holder", accounts.Holder.ToBase58()),
		zap.Stringer("rarityTag", tag),
		zap.Stringer("rarity", decision.Tier),
		zap.Bool("isFirst", isFirst))

	return &Outcome{
		InvocationID: inv.ID,
		Instruction:  ins,
		Path:         kind,
		SubjectName:  subject,
		Holder:       accounts.Holder,
		RarityTag:    tag,
		Rarity:       decision.Tier,
		IsFirst:      isFirst,
		Ownership:    reservation.Address,
		AssetPool:    pool,
		Receiving:    receiving,
		Counter:      decision.Counter,
	}, nil
}

// validateIssueAccounts checks every positional account against its role and returns the
// mint authority salt
func (p *Processor) validateIssueAccounts(
	ctx context.Context,
	tx store.Tx,
	kind domain.PathKind,
	tag domain.RarityTier,
	subject string,
	inv Invocation,
) (*instruction.IssueAccounts, uint8, error) {
	accounts, err := instruction.ParseIssueAccounts(kind, inv.Accounts)
	if err != nil {
		return nil, 0, err
	}

	pools, err := p.registry.Pools(ctx, tx, kind)
	if err != nil {
		return nil, 0, err
	}
	for i, pool := range pools {
		if accounts.Pools[i] != pool {
			return nil, 0, mismatch("asset pool of "+kind.Tiers()[i].String(), accounts.Pools[i], pool)
		}
		receiving, err := p.receiving.Address(accounts.Holder, pool)
		if err != nil {
			return nil, 0, err
		}
		if accounts.Receiving[i] != receiving {
			return nil, 0, mismatch("receiving account for "+kind.Tiers()[i].String(), accounts.Receiving[i], receiving)
		}
	}

	authority, salt, err := p.deriver.MintAuthority()
	if err != nil {
		return nil, 0, err
	}
	if err := expect("mint authority", accounts.MintAuthority, authority); err != nil {
		return nil, 0, err
	}
	if err := checkPrograms(accounts.Rent, accounts.SystemProgram, accounts.TokenProgram); err != nil {
		return nil, 0, err
	}
	if !signed(inv.Signers, accounts.Payer) {
		return nil, 0, fmt.Errorf("%w: payer %s did not sign", domain.ErrInvalidArgument, accounts.Payer.ToBase58())
	}

	ownershipAddress, err := p.ledger.Address(subject, accounts.Holder, tag)
	if err != nil {
		return nil, 0, err
	}
	if err := expect("ownership account", accounts.Ownership, ownershipAddress); err != nil {
		return nil, 0, err
	}
	counterAddress, err := p.counters.Address(subject)
	if err != nil {
		return nil, 0, err
	}
	if err := expect("counter account", accounts.Counter, counterAddress); err != nil {
		return nil, 0, err
	}

	return accounts, salt, nil
}

func (p *Processor) createAssetPool(ctx context.Context, tx store.Tx, inv Invocation, ins instruction.CreateAssetPool) (*Outcome, error) {
	accounts, err := instruction.ParsePoolAccounts(inv.Accounts)
	if err == nil {
		err = p.validatePoolAccounts(accounts, inv.Signers)
	}
	if err != nil {
		return nil, p.abort(ctx, StageValidateAccounts, err)
	}

	if err := p.pools.CreatePool(ctx, tx, token.CreatePoolRequest{
		Payer:         accounts.Payer,
		Pool:          accounts.Pool,
		MintAuthority: accounts.MintAuthority,
		Title:         ins.Title,
		Symbol:        ins.Symbol,
		URI:           ins.URI,
	}); err != nil {
		return nil, p.abort(ctx, StageCreatePool, err)
	}

	return &Outcome{
		InvocationID: inv.ID,
		Instruction:  ins,
		AssetPool:    accounts.Pool,
	}, nil
}

func (p *Processor) validatePoolAccounts(accounts *instruction.PoolAccounts, signers []common.PublicKey) error {
	authority, _, err := p.deriver.MintAuthority()
	if err != nil {
		return err
	}
	if err := expect("mint authority", accounts.MintAuthority, authority); err != nil {
		return err
	}
	if err := checkPrograms(accounts.Rent, accounts.SystemProgram, accounts.TokenProgram); err != nil {
		return err
	}
	if !signed(signers, accounts.Pool) {
		return fmt.Errorf("%w: pool %s did not sign", domain.ErrInvalidArgument, accounts.Pool.ToBase58())
	}
	if !signed(signers, accounts.Payer) {
		return fmt.Errorf("%w: payer %s did not sign", domain.ErrInvalidArgument, accounts.Payer.ToBase58())
	}
	return nil
}

func (p *Processor) abort(ctx context.Context, stage Stage, err error) error {
	logger.WarnCtx(ctx, "Invocation aborted",
		zap.Stringer("stage", stage),
		zap.Error(err))
	return &StageError{Stage: stage, Err: err}
}

func checkPrograms(rent, system, tokenProgram common.PublicKey) error {
	if err := expect("rent sysvar", rent, common.SysVarRentPubkey); err != nil {
		return err
	}
	if err := expect("system program", system, common.SystemProgramID); err != nil {
		return err
	}
	return expect("token program", tokenProgram, common.TokenProgramID)
}

func expect(role string, got, want common.PublicKey) error {
	if got != want {
		return mismatch(role, got, want)
	}
	return nil
}

func mismatch(role string, got, want common.PublicKey) error {
	return fmt.Errorf("%w: %s is %s, expected %s", domain.ErrInvalidArgument, role, got.ToBase58(), want.ToBase58())
}

func signed(signers []common.PublicKey, address common.PublicKey) bool {
	for _, s := range signers {
		if s == address {
			return true
		}
	}
	return false
}

// tierSlot returns the account slot of tier among the path's pools, or -1
func tierSlot(kind domain.PathKind, tier domain.RarityTier) int {
	for i, t := range kind.Tiers() {
		if t == tier {
			return i
		}
	}
	return -1
}
