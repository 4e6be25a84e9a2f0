package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents the database model for ledger transactions.
// Column names mirror the public API: "type" for the kind and "created_at"
// for the event time (the ordering key, not the row insertion time).
type Transaction struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	ExternalRef *string         `gorm:"uniqueIndex;size:255"`
	Description string          `gorm:"size:255"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Type        string          `gorm:"not null;size:10"`
	CreatedAt   time.Time       `gorm:"not null;index"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// ExternalRef records every feed reference ever consumed. Rows are never
// deleted, so a reference stays reserved after its transaction is removed
// and a re-import of the same feed record is still skipped.
type ExternalRef struct {
	Ref           string `gorm:"primaryKey;size:255"`
	TransactionID uint64 `gorm:"not null"`
}

// TableName specifies the table name for ExternalRef
func (ExternalRef) TableName() string {
	return "external_refs"
}
