package schema

import "time"

// Account represents the accounts table - the host ledger holding every funded address
type Account struct {
	// Address is the base58 public key of the account
	Address string `gorm:"column:address;primaryKey;type:text"`
	// Owner is the base58 program id allowed to write the account data
	Owner string `gorm:"column:owner;not null;type:text"`
	// Lamports is the funding balance of the account
	Lamports uint64 `gorm:"column:lamports;not null;default:0"`
	// Data is the account's allocated data; its length is the allocated space
	Data      []byte    `gorm:"column:data;not null;type:bytea"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
