package issuance

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/instruction"
	"github.com/Plant-GO/biodex/internal/registry"
)

// IssueAccounts derives the account list of an issue instruction for holder, reading the
// asset pools from kv
func (p *Processor) IssueAccounts(ctx context.Context, kv registry.KeyValueReader, kind domain.PathKind, holder common.PublicKey, subject string, tag domain.RarityTier, payer common.PublicKey) (*instruction.IssueAccounts, error) {
	pools, err := p.registry.Pools(ctx, kv, kind)
	if err != nil {
		return nil, err
	}

	receiving := make([]common.PublicKey, len(pools))
	for i, pool := range pools {
		if receiving[i], err = p.receiving.Address(holder, pool); err != nil {
			return nil, err
		}
	}

	authority, _, err := p.deriver.MintAuthority()
	if err != nil {
		return nil, err
	}
	ownershipAddress, err := p.ledger.Address(subject, holder, tag)
	if err != nil {
		return nil, err
	}
	counterAddress, err := p.counters.Address(subject)
	if err != nil {
		return nil, err
	}

	return &instruction.IssueAccounts{
		Holder:        holder,
		Pools:         pools,
		MintAuthority: authority,
		Receiving:     receiving,
		Payer:         payer,
		Rent:          common.SysVarRentPubkey,
		SystemProgram: common.SystemProgramID,
		TokenProgram:  common.TokenProgramID,
		Ownership:     ownershipAddress,
		Counter:       counterAddress,
	}, nil
}

// PoolAccounts derives the account list of CreateAssetPool
func (p *Processor) PoolAccounts(pool, payer common.PublicKey) (*instruction.PoolAccounts, error) {
	authority, _, err := p.deriver.MintAuthority()
	if err != nil {
		return nil, err
	}
	return &instruction.PoolAccounts{
		Pool:          pool,
		MintAuthority: authority,
		Payer:         payer,
		Rent:          common.SysVarRentPubkey,
		SystemProgram: common.SystemProgramID,
		TokenProgram:  common.TokenProgramID,
	}, nil
}
