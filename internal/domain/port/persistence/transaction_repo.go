package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneytrail/ledger/internal/domain/entity"
)

// UpdateFields carries a partial update for a transaction. Nil fields are left
// unchanged. ID and ExternalRef are immutable and therefore not present.
type UpdateFields struct {
	Description *string
	Amount      *decimal.Decimal
	Kind        *entity.Kind
	OccurredAt  *time.Time
}

// TransactionRepository is the Store: durable transaction records keyed by a
// monotonically assigned id. All() carries no ordering guarantee; callers sort.
type TransactionRepository interface {
	// Insert persists a new transaction and assigns its id.
	// Returns ErrDuplicateExternalRef when the external reference is taken.
	Insert(ctx context.Context, transaction *entity.Transaction) error

	// Update applies a partial field update and returns the updated record.
	// Returns ErrTransactionNotFound for unknown ids.
	Update(ctx context.Context, id uint64, fields UpdateFields) (*entity.Transaction, error)

	// Delete removes a transaction permanently.
	// Returns ErrTransactionNotFound for unknown ids.
	Delete(ctx context.Context, id uint64) error

	// GetByID fetches a single transaction.
	// Returns ErrTransactionNotFound for unknown ids.
	GetByID(ctx context.Context, id uint64) (*entity.Transaction, error)

	// All returns every stored transaction in unspecified order.
	All(ctx context.Context) ([]entity.Transaction, error)

	// ExternalRefExists reports whether an external reference is already stored.
	ExternalRefExists(ctx context.Context, ref string) (bool, error)
}
