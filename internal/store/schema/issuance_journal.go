package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Operation identifies the instruction an issuance journal entry was written for
type Operation string

const (
	// OperationCreateAssetPool indicates a new asset pool was created
	OperationCreateAssetPool Operation = "create_asset_pool"
	// OperationIssueRegularCard indicates a card was issued on the regular path
	OperationIssueRegularCard Operation = "issue_regular_card"
	// OperationIssueQuizCard indicates a card was issued on the quiz path
	OperationIssueQuizCard Operation = "issue_quiz_card"
)

// IssuanceJournal represents the issuance_journal table - append-only log of committed invocations
type IssuanceJournal struct {
	// Cursor is an auto-incrementing sequence number for pagination and ordering
	Cursor int64 `gorm:"column:\"cursor\";primaryKey;autoIncrement"`
	// InvocationID is the ULID of the invocation that wrote the entry
	InvocationID string    `gorm:"column:invocation_id;not null;type:text"`
	Operation    Operation `gorm:"column:operation;not null;type:text"`
	// SubjectName is empty for pool creation
	SubjectName string `gorm:"column:subject_name;not null;default:'';type:text"`
	// Holder is empty for pool creation
	Holder string `gorm:"column:holder;not null;default:'';type:text"`
	// Rarity is the snake_case name of the awarded tier
	Rarity *string `gorm:"column:rarity;type:text"`
	// Address is the ownership record address, or the pool address for pool creation
	Address   string         `gorm:"column:address;not null;type:text"`
	AssetPool string         `gorm:"column:asset_pool;not null;type:text"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	Meta      datatypes.JSON `gorm:"column:meta;type:jsonb"`
}

// TableName specifies the table name for the IssuanceJournal model
func (IssuanceJournal) TableName() string {
	return "issuance_journal"
}
