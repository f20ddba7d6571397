package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/store/schema"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero settings fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// RunInvocation runs fn inside a serializable transaction
func (s *pgStore) RunInvocation(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &pgTx{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	return classifyTxError(ctx, err)
}

// classifyTxError maps serialization failures and deadlocks to domain.ErrInvocationConflict
func classifyTxError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected) {
		logger.DebugCtx(ctx, "Invocation aborted by concurrent invocation",
			zap.String("code", pgErr.Code),
			zap.String("message", pgErr.Message))
		return fmt.Errorf("%w: %s", domain.ErrInvocationConflict, pgErr.Message)
	}

	return err
}

// GetAccount retrieves a committed account
func (s *pgStore) GetAccount(ctx context.Context, address common.PublicKey) (*Account, error) {
	return getAccount(s.db.WithContext(ctx), address)
}

// Fund credits lamports to an address
func (s *pgStore) Fund(ctx context.Context, address common.PublicKey, lamports uint64) error {
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

// SetKeyValue sets a key-value pair in the key-value store
func (s *pgStore) SetKeyValue(ctx context.Context, key string, value string) error {
	return setKeyValue(s.db.WithContext(ctx), key, value)
}

// GetKeyValue retrieves a value by key from the key-value store
func (s *pgStore) GetKeyValue(ctx context.Context, key string) (string, error) {
	return getKeyValue(s.db.WithContext(ctx), key)
}

// GetAllKeyValuesByPrefix retrieves all key-value pairs with a specific prefix
func (s *pgStore) GetAllKeyValuesByPrefix(ctx context.Context, prefix string) (map[string]string, error) {
	var kvs []schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key LIKE ?", prefix+"%").Find(&kvs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get key-values by prefix: %w", err)
	}

	result := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		result[kv.Key] = kv.Value
	}

	return result, nil
}

// GetIssuances retrieves journal entries with optional filters and cursor pagination
func (s *pgStore) GetIssuances(ctx context.Context, filter IssuanceQueryFilter) ([]*schema.IssuanceJournal, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.IssuanceJournal{})

	if filter.Holder != "" {
		query = query.Where("holder = ?", filter.Holder)
	}
	if filter.SubjectName != "" {
		query = query.Where("subject_name = ?", filter.SubjectName)
	}
	if filter.Operation != "" {
		query = query.Where("operation = ?", filter.Operation)
	}

	// Count before the anchor is applied so the total covers every page
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count issuances: %w", err)
	}

	if filter.Anchor != nil {
		query = query.Where("\"cursor\" > ?", *filter.Anchor)
	}
	query = query.Order("\"cursor\" ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []schema.IssuanceJournal
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query issuances: %w", err)
	}

	results := make([]*schema.IssuanceJournal, 0, len(entries))
	for i := range entries {
		results = append(results, &entries[i])
	}

	return results, uint64(total), nil //nolint:gosec,G115
}

type pgTx struct {
	db *gorm.DB
}

func (t *pgTx) GetAccount(ctx context.Context, address common.PublicKey) (*Account, error) {
	return getAccount(t.db.WithContext(ctx), address)
}

func (t *pgTx) PutAccount(ctx context.Context, account *Account) error {
	if account.Lamports > math.MaxInt64 {
		return fmt.Errorf("%w: lamports %d exceed storable range", domain.ErrCounterOverflow, account.Lamports)
	}

	row := schema.Account{
		Address:   account.Address.ToBase58(),
		Owner:     account.Owner.ToBase58(),
		Lamports:  account.Lamports,
		Data:      account.Data,
		UpdatedAt: time.Now().UTC(),
	}
	if row.Data == nil {
		row.Data = []byte{}
	}

	err := t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner", "lamports", "data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to put account: %w", err)
	}

	return nil
}

func (t *pgTx) GetKeyValue(ctx context.Context, key string) (string, error) {
	return getKeyValue(t.db.WithContext(ctx), key)
}

func (t *pgTx) SetKeyValue(ctx context.Context, key string, value string) error {
	return setKeyValue(t.db.WithContext(ctx), key, value)
}

func (t *pgTx) AppendJournal(ctx context.Context, entry *schema.IssuanceJournal) error {
	if err := t.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append issuance journal: %w", err)
	}
	return nil
}

func getAccount(db *gorm.DB, address common.PublicKey) (*Account, error) {
	var row schema.Account
	err := db.Where("address = ?", address.ToBase58()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	owner, err := domain.ParseAddress(row.Owner)
	if err != nil {
		return nil, fmt.Errorf("%w: account %s owner: %v", domain.ErrCorruptState, row.Address, err)
	}

	return &Account{
		Address:  address,
		Owner:    owner,
		Lamports: row.Lamports,
		Data:     row.Data,
	}, nil
}

func getKeyValue(db *gorm.DB, key string) (string, error) {
	var kv schema.KeyValueStore
	err := db.Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key-value: %w", err)
	}

	return kv.Value, nil
}

func setKeyValue(db *gorm.DB, key string, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	if err := db.Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set key-value: %w", err)
	}

	return nil
}

// credit adds lamports to account, creating a system-owned account when it is nil
func credit(account *Account, address common.PublicKey, lamports uint64) (*Account, error) {
	if account == nil {
		account = &Account{Address: address, Owner: common.SystemProgramID}
	}
	if account.Lamports > math.MaxUint64-lamports {
		return nil, fmt.Errorf("%w: funding %s", domain.ErrCounterOverflow, address.ToBase58())
	}
	account.Lamports += lamports
	return account, nil
}
