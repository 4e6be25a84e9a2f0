package repository

import (
	"context"
	"sync"

	"github.com/moneytrail/ledger/internal/domain/entity"
	errs "github.com/moneytrail/ledger/internal/domain/error"
	"github.com/moneytrail/ledger/internal/domain/port/persistence"
)

// MemoryTransactionRepository is an in-memory Store implementation. It backs
// the test suites and the "memory" storage driver. Id assignment is monotonic
// and ids of deleted transactions are never reused.
type MemoryTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[uint64]entity.Transaction
	externalRefs map[string]uint64
	nextID       uint64
}

// NewMemoryTransactionRepository creates an empty in-memory repository
func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{
		transactions: make(map[uint64]entity.Transaction),
		externalRefs: make(map[string]uint64),
		nextID:       1,
	}
}

// Insert persists a new transaction and assigns its id
func (r *MemoryTransactionRepository) Insert(_ context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transaction.ExternalRef != nil {
		if _, taken := r.externalRefs[*transaction.ExternalRef]; taken {
			return errs.ErrDuplicateExternalRef
		}
	}

	transaction.ID = r.nextID
	r.nextID++

	r.transactions[transaction.ID] = *transaction
	if transaction.ExternalRef != nil {
		r.externalRefs[*transaction.ExternalRef] = transaction.ID
	}
	return nil
}

// Update applies a partial field update and returns the updated record
func (r *MemoryTransactionRepository) Update(_ context.Context, id uint64, fields persistence.UpdateFields) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.transactions[id]
	if !ok {
		return nil, errs.ErrTransactionNotFound
	}

	if fields.Description != nil {
		stored.Description = *fields.Description
	}
	if fields.Amount != nil {
		stored.Amount = *fields.Amount
	}
	if fields.Kind != nil {
		stored.Kind = *fields.Kind
	}
	if fields.OccurredAt != nil {
		stored.OccurredAt = *fields.OccurredAt
	}

	r.transactions[id] = stored
	updated := stored
	return &updated, nil
}

// Delete removes a transaction permanently. The external reference stays
// reserved; the upstream feed never reassigns a consumed ref.
func (r *MemoryTransactionRepository) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transactions[id]; !ok {
		return errs.ErrTransactionNotFound
	}
	delete(r.transactions, id)
	return nil
}

// GetByID fetches a single transaction
func (r *MemoryTransactionRepository) GetByID(_ context.Context, id uint64) (*entity.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.transactions[id]
	if !ok {
		return nil, errs.ErrTransactionNotFound
	}
	found := stored
	return &found, nil
}

// All returns every stored transaction in unspecified order
func (r *MemoryTransactionRepository) All(_ context.Context) ([]entity.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions := make([]entity.Transaction, 0, len(r.transactions))
	for _, stored := range r.transactions {
		transactions = append(transactions, stored)
	}
	return transactions, nil
}

// ExternalRefExists reports whether an external reference was ever consumed
func (r *MemoryTransactionRepository) ExternalRefExists(_ context.Context, ref string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.externalRefs[ref]
	return ok, nil
}
