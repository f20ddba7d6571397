package instruction

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"

	"github.com/Plant-GO/biodex/internal/domain"
)

// IssueAccounts is the positional account list of an issue instruction:
//
//	holder, pool x n, mint authority, receiving account x n, payer,
//	rent sysvar, system program, token program, ownership record, subject counter
//
// where n is the number of tiers the path may award, pools and receiving accounts in
// the path's tier order
type IssueAccounts struct {
	Holder        common.PublicKey
	Pools         []common.PublicKey
	MintAuthority common.PublicKey
	Receiving     []common.PublicKey
	Payer         common.PublicKey
	Rent          common.PublicKey
	SystemProgram common.PublicKey
	TokenProgram  common.PublicKey
	Ownership     common.PublicKey
	Counter       common.PublicKey
}

// PoolAccounts is the positional account list of CreateAssetPool:
//
//	pool, mint authority, payer, rent sysvar, system program, token program
type PoolAccounts struct {
	Pool          common.PublicKey
	MintAuthority common.PublicKey
	Payer         common.PublicKey
	Rent          common.PublicKey
	SystemProgram common.PublicKey
	TokenProgram  common.PublicKey
}

const poolAccountCount = 6

// IssueAccountCount returns the account list length of an issue instruction on kind
func IssueAccountCount(kind domain.PathKind) int {
	return 2*len(kind.Tiers()) + 8
}

// ParseIssueAccounts assigns roles to a positional account list
func ParseIssueAccounts(kind domain.PathKind, accounts []common.PublicKey) (*IssueAccounts, error) {
	n := len(kind.Tiers())
	if n == 0 {
		return nil, fmt.Errorf("%w: unknown path %q", domain.ErrInvalidArgument, kind)
	}
	if len(accounts) != IssueAccountCount(kind) {
		return nil, fmt.Errorf("%w: %s issue takes %d accounts, got %d",
			domain.ErrInvalidArgument, kind, IssueAccountCount(kind), len(accounts))
	}

	i := 0
	next := func() common.PublicKey {
		a := accounts[i]
		i++
		return a
	}

	out := &IssueAccounts{Holder: next()}
	out.Pools = make([]common.PublicKey, n)
	for j := range out.Pools {
		out.Pools[j] = next()
	}
	out.MintAuthority = next()
	out.Receiving = make([]common.PublicKey, n)
	for j := range out.Receiving {
		out.Receiving[j] = next()
	}
	out.Payer = next()
	out.Rent = next()
	out.SystemProgram = next()
	out.TokenProgram = next()
	out.Ownership = next()
	out.Counter = next()

	return out, nil
}

// List returns the accounts in positional order
func (a *IssueAccounts) List() []common.PublicKey {
	list := make([]common.PublicKey, 0, 2*len(a.Pools)+8)
	list = append(list, a.Holder)
	list = append(list, a.Pools...)
	list = append(list, a.MintAuthority)
	list = append(list, a.Receiving...)
	return append(list, a.Payer, a.Rent, a.SystemProgram, a.TokenProgram, a.Ownership, a.Counter)
}

// ParsePoolAccounts assigns roles to the account list of CreateAssetPool
func ParsePoolAccounts(accounts []common.PublicKey) (*PoolAccounts, error) {
	if len(accounts) != poolAccountCount {
		return nil, fmt.Errorf("%w: pool creation takes %d accounts, got %d",
			domain.ErrInvalidArgument, poolAccountCount, len(accounts))
	}
	return &PoolAccounts{
		Pool:          accounts[0],
		MintAuthority: accounts[1],
		Payer:         accounts[2],
		Rent:          accounts[3],
		SystemProgram: accounts[4],
		TokenProgram:  accounts[5],
	}, nil
}

// List returns the accounts in positional order
func (a *PoolAccounts) List() []common.PublicKey {
	return []common.PublicKey{a.Pool, a.MintAuthority, a.Payer, a.Rent, a.SystemProgram, a.TokenProgram}
}

// ParseAddressList decodes base58 addresses, reporting the position of the first bad one
func ParseAddressList(values []string) ([]common.PublicKey, error) {
	out := make([]common.PublicKey, 0, len(values))
	for i, v := range values {
		b, err := base58.Decode(v)
		if err != nil || len(b) != common.PublicKeyLength {
			return nil, fmt.Errorf("%w: account %d is not a valid address", domain.ErrInvalidArgument, i)
		}
		out = append(out, common.PublicKeyFromBytes(b))
	}
	return out, nil
}

// FormatAddressList encodes addresses as base58
func FormatAddressList(accounts []common.PublicKey) []string {
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.ToBase58())
	}
	return out
}
