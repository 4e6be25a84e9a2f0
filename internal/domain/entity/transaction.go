package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/moneytrail/ledger/internal/domain/error"
	tport "github.com/moneytrail/ledger/internal/domain/port/core"
)

// Kind represents the direction of a transaction
type Kind string

// Transaction kinds
const (
	KindDeposit Kind = "deposit"
	KindExpense Kind = "expense"
)

// IsValidKind validates if the transaction kind is allowed
func IsValidKind(kind string) bool {
	return kind == string(KindDeposit) || kind == string(KindExpense)
}

// Transaction is the single ledger entity. Amount is always stored positive;
// Kind decides whether it adds to or subtracts from the balance.
type Transaction struct {
	ID             uint64          // Unique identifier, assigned monotonically, never reused
	ExternalRef    *string         // Identifier from the external feed, nil for manual entries
	Description    string          // Free text, no effect on balance logic
	Amount         decimal.Decimal // Strictly positive monetary amount
	Kind           Kind            // deposit or expense
	OccurredAt     time.Time       // Event time, the ordering key for balance computation
	RunningBalance decimal.Decimal // Balance immediately after this transaction, set by the engine
}

// NewTransaction creates a new manually entered transaction with validation.
// occurredAt defaults to the current time when nil.
func NewTransaction(
	description string,
	amount string,
	kind string,
	occurredAt *time.Time,
	timeProvider tport.TimeProvider,
) (*Transaction, error) {
	if !IsValidKind(kind) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidKind, kind)
	}

	parsedAmount, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	when := timeProvider.Now()
	if occurredAt != nil {
		when = *occurredAt
	}

	return &Transaction{
		Description: description,
		Amount:      parsedAmount,
		Kind:        Kind(kind),
		OccurredAt:  when,
	}, nil
}

// DisplayCode returns the human-facing identifier derived from the internal id,
// zero-padded to at least four digits. Ids above 9999 keep all their digits.
func (t *Transaction) DisplayCode() string {
	if t.ID == 0 {
		return "TRN-N/A"
	}
	return fmt.Sprintf("TRN-%04d", t.ID)
}

// IsDeposit returns true if this transaction increases the balance
func (t *Transaction) IsDeposit() bool {
	return t.Kind == KindDeposit
}

// IsExpense returns true if this transaction decreases the balance
func (t *Transaction) IsExpense() bool {
	return t.Kind == KindExpense
}

// Signed returns the amount with the sign implied by the kind
func (t *Transaction) Signed() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// DateIn returns the calendar date of OccurredAt in the given location,
// formatted as YYYY-MM-DD. All daily bucketing goes through this.
func (t *Transaction) DateIn(loc *time.Location) string {
	return t.OccurredAt.In(loc).Format("2006-01-02")
}
