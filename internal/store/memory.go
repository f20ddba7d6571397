package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/Plant-GO/biodex/internal/store/schema"
)

// memoryStore is a host ledger kept in process memory. Invocations run one at a time,
// so they never conflict.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[common.PublicKey]*Account
	kv       map[string]string
	journal  []*schema.IssuanceJournal
	cursor   int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() Store {
	return &memoryStore{
		accounts: make(map[common.PublicKey]*Account),
		kv:       make(map[string]string),
	}
}

// RunInvocation runs fn against a private overlay and applies it only when fn succeeds
func (s *memoryStore) RunInvocation(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memoryTx{
		store:    s,
		accounts: make(map[common.PublicKey]*Account),
		kv:       make(map[string]string),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for addr, account := range tx.accounts {
		s.accounts[addr] = account
	}
	for k, v := range tx.kv {
		s.kv[k] = v
	}
	for _, entry := range tx.journal {
		s.cursor++
		entry.Cursor = s.cursor
		s.journal = append(s.journal, entry)
	}

	return nil
}

func (s *memoryStore) GetAccount(_ context.Context, address common.PublicKey) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[address].Clone(), nil
}

func (s *memoryStore) Fund(ctx context.Context, address common.PublicKey, lamports uint64) error {
	return s.RunInvocation(ctx, func(ctx context.Context, tx Tx) error {
		account, err := tx.GetAccount(ctx, address)
		if err != nil {
			return err
		}
		account, err = credit(account, address, lamports)
		if err != nil {
			return err
		}
		return tx.PutAccount(ctx, account)
	})
}

func (s *memoryStore) GetKeyValue(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv[key], nil
}

func (s *memoryStore) SetKeyValue(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
	return nil
}

func (s *memoryStore) GetAllKeyValuesByPrefix(_ context.Context, prefix string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]string)
	for k, v := range s.kv {
		if strings.HasPrefix(k, prefix) {
			result[k] = v
		}
	}
	return result, nil
}

func (s *memoryStore) GetIssuances(_ context.Context, filter IssuanceQueryFilter) ([]*schema.IssuanceJournal, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total uint64
	results := []*schema.IssuanceJournal{}
	for _, entry := range s.journal {
		if filter.Holder != "" && entry.Holder != filter.Holder {
			continue
		}
		if filter.SubjectName != "" && entry.SubjectName != filter.SubjectName {
			continue
		}
		if filter.Operation != "" && entry.Operation != filter.Operation {
			continue
		}
		total++

		if filter.Anchor != nil && entry.Cursor <= *filter.Anchor {
			continue
		}
		if filter.Limit > 0 && len(results) >= filter.Limit {
			continue
		}
		cp := *entry
		results = append(results, &cp)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Cursor < results[j].Cursor })
	return results, total, nil
}

type memoryTx struct {
	store    *memoryStore
	accounts map[common.PublicKey]*Account
	kv       map[string]string
	journal  []*schema.IssuanceJournal
}

func (t *memoryTx) GetAccount(_ context.Context, address common.PublicKey) (*Account, error) {
	if account, ok := t.accounts[address]; ok {
		return account.Clone(), nil
	}
	return t.store.accounts[address].Clone(), nil
}

func (t *memoryTx) PutAccount(_ context.Context, account *Account) error {
	t.accounts[account.Address] = account.Clone()
	return nil
}

func (t *memoryTx) GetKeyValue(_ context.Context, key string) (string, error) {
	if v, ok := t.kv[key]; ok {
		return v, nil
	}
	return t.store.kv[key], nil
}

func (t *memoryTx) SetKeyValue(_ context.Context, key string, value string) error {
	t.kv[key] = value
	return nil
}

func (t *memoryTx) AppendJournal(_ context.Context, entry *schema.IssuanceJournal) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	t.journal = append(t.journal, entry)
	return nil
}
