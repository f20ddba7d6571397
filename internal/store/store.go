package store

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/Plant-GO/biodex/internal/store/schema"
)

// Account is a host ledger account
type Account struct {
	Address  common.PublicKey
	Owner    common.PublicKey
	Lamports uint64
	Data     []byte
}

// Space returns the allocated data size of the account
func (a *Account) Space() int {
	return len(a.Data)
}

// Exists reports whether the account is funded or has allocated space
func (a *Account) Exists() bool {
	return a != nil && (a.Lamports > 0 || len(a.Data) > 0)
}

// Clone returns a deep copy of the account
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := *a
	out.Data = append([]byte(nil), a.Data...)
	return &out
}

// IssuanceQueryFilter represents filters for the issuance journal
type IssuanceQueryFilter struct {
	Holder      string
	SubjectName string
	Operation   schema.Operation
	// Anchor is a cursor; only entries after it are returned
	Anchor *int64
	Limit  int
}

// AccountReader reads accounts; both Store (committed state) and Tx satisfy it
type AccountReader interface {
	GetAccount(ctx context.Context, address common.PublicKey) (*Account, error)
}

// Tx is the view of the host ledger inside one invocation. Writes become visible to other
// invocations only when the invocation commits.
type Tx interface {
	// GetAccount retrieves an account, returning nil when nothing exists at the address
	GetAccount(ctx context.Context, address common.PublicKey) (*Account, error)
	// PutAccount creates or replaces an account
	PutAccount(ctx context.Context, account *Account) error
	// GetKeyValue retrieves a value by key, returning an empty string when absent
	GetKeyValue(ctx context.Context, key string) (string, error)
	// SetKeyValue sets a key-value pair
	SetKeyValue(ctx context.Context, key string, value string) error
	// AppendJournal appends an entry to the issuance journal
	AppendJournal(ctx context.Context, entry *schema.IssuanceJournal) error
}

// Store defines the interface for host ledger operations
type Store interface {
	// RunInvocation runs fn as one atomic invocation. Any error from fn aborts every write.
	// Concurrent invocations touching the same accounts fail with domain.ErrInvocationConflict.
	RunInvocation(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// GetAccount retrieves a committed account, returning nil when nothing exists at the address
	GetAccount(ctx context.Context, address common.PublicKey) (*Account, error)
	// Fund credits lamports to an address, creating a system-owned account when absent
	Fund(ctx context.Context, address common.PublicKey, lamports uint64) error
	// GetKeyValue retrieves a value by key, returning an empty string when absent
	GetKeyValue(ctx context.Context, key string) (string, error)
	// SetKeyValue sets a key-value pair
	SetKeyValue(ctx context.Context, key string, value string) error
	// GetAllKeyValuesByPrefix retrieves all key-value pairs with a specific prefix
	GetAllKeyValuesByPrefix(ctx context.Context, prefix string) (map[string]string, error)
	// GetIssuances retrieves journal entries ordered by cursor, with the total match count
	GetIssuances(ctx context.Context, filter IssuanceQueryFilter) ([]*schema.IssuanceJournal, uint64, error)
}
