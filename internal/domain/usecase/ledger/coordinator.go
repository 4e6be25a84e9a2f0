package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneytrail/ledger/internal/domain/entity"
	coreport "github.com/moneytrail/ledger/internal/domain/port/core"
	"github.com/moneytrail/ledger/internal/domain/port/persistence"
)

// CreateInput carries a validated request to record a new transaction.
// OccurredAt nil means "now". ExternalRef is only set by the importer.
type CreateInput struct {
	Description string
	Amount      decimal.Decimal
	Kind        entity.Kind
	OccurredAt  *time.Time
	ExternalRef *string
}

// Coordinator serializes mutations against the store. Each write runs
// {snapshot, check, mutate, recompute} as one critical section so that no two
// concurrent expense submissions can both pass a balance or daily-count check
// that only one should pass. The checks always see previously committed state,
// never merely admitted state.
type Coordinator struct {
	repo         persistence.TransactionRepository
	checker      *Checker
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	loc          *time.Location

	mu sync.Mutex
}

// NewCoordinator creates a mutation coordinator
func NewCoordinator(
	repo persistence.TransactionRepository,
	checker *Checker,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	loc *time.Location,
) *Coordinator {
	return &Coordinator{
		repo:         repo,
		checker:      checker,
		timeProvider: timeProvider,
		logger:       logger,
		loc:          loc,
	}
}

// View recomputes the derived ledger state from a store snapshot. Reads run
// outside the write lock; a scan is atomic at the repository level.
func (c *Coordinator) View(ctx context.Context) (LedgerView, error) {
	all, err := c.repo.All(ctx)
	if err != nil {
		return LedgerView{}, err
	}
	return Compute(all, c.timeProvider.Now(), c.loc), nil
}

// Create admits and commits a new transaction, returning it together with the
// recomputed view. A rejection leaves the store unchanged.
func (c *Coordinator) Create(ctx context.Context, input CreateInput) (*entity.Transaction, LedgerView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	committed, err := c.repo.All(ctx)
	if err != nil {
		return nil, LedgerView{}, err
	}

	occurredAt := c.timeProvider.Now()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	if err := c.checker.CheckCreate(committed, input.Kind, input.Amount, occurredAt); err != nil {
		c.logger.Warn("Transaction rejected", map[string]any{
			"kind":   string(input.Kind),
			"amount": entity.FormatAmount(input.Amount),
			"error":  err.Error(),
		})
		return nil, LedgerView{}, err
	}

	transaction := &entity.Transaction{
		ExternalRef: input.ExternalRef,
		Description: input.Description,
		Amount:      input.Amount,
		Kind:        input.Kind,
		OccurredAt:  occurredAt,
	}
	if err := c.repo.Insert(ctx, transaction); err != nil {
		return nil, LedgerView{}, err
	}

	c.logger.Info("Transaction created", map[string]any{
		"id":     transaction.ID,
		"code":   transaction.DisplayCode(),
		"kind":   string(transaction.Kind),
		"amount": entity.FormatAmount(transaction.Amount),
	})

	view, err := c.recompute(ctx)
	if err != nil {
		return nil, LedgerView{}, err
	}
	annotate(transaction, view)
	return transaction, view, nil
}

// Import commits a feed-sourced transaction without admission checks; the
// original system persisted imports directly, relying only on the store's
// external-reference uniqueness. Runs in the same critical section as
// interactive writes so imports never interleave with a check.
func (c *Coordinator) Import(ctx context.Context, transaction *entity.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.repo.Insert(ctx, transaction)
}

// Update admits and commits a partial update, returning the updated
// transaction together with the recomputed view.
func (c *Coordinator) Update(ctx context.Context, id uint64, fields persistence.UpdateFields) (*entity.Transaction, LedgerView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, LedgerView{}, err
	}

	// Resolve the effective post-update values; unset fields keep their
	// current value.
	kind := current.Kind
	if fields.Kind != nil {
		kind = *fields.Kind
	}
	amount := current.Amount
	if fields.Amount != nil {
		amount = *fields.Amount
	}
	occurredAt := current.OccurredAt
	if fields.OccurredAt != nil {
		occurredAt = *fields.OccurredAt
	}

	committed, err := c.repo.All(ctx)
	if err != nil {
		return nil, LedgerView{}, err
	}

	if err := c.checker.CheckUpdate(committed, current, kind, amount, occurredAt); err != nil {
		c.logger.Warn("Transaction update rejected", map[string]any{
			"id":     id,
			"kind":   string(kind),
			"amount": entity.FormatAmount(amount),
			"error":  err.Error(),
		})
		return nil, LedgerView{}, err
	}

	updated, err := c.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, LedgerView{}, err
	}

	c.logger.Info("Transaction updated", map[string]any{
		"id":     updated.ID,
		"kind":   string(updated.Kind),
		"amount": entity.FormatAmount(updated.Amount),
	})

	view, err := c.recompute(ctx)
	if err != nil {
		return nil, LedgerView{}, err
	}
	annotate(updated, view)
	return updated, view, nil
}

// Delete removes a transaction and returns the recomputed view. Deletion has
// no invariant check; any committed transaction may be removed.
func (c *Coordinator) Delete(ctx context.Context, id uint64) (LedgerView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.Delete(ctx, id); err != nil {
		return LedgerView{}, err
	}

	c.logger.Info("Transaction deleted", map[string]any{"id": id})

	return c.recompute(ctx)
}

// recompute rebuilds the derived view inside the caller's critical section
func (c *Coordinator) recompute(ctx context.Context) (LedgerView, error) {
	all, err := c.repo.All(ctx)
	if err != nil {
		return LedgerView{}, err
	}
	return Compute(all, c.timeProvider.Now(), c.loc), nil
}

// annotate copies the running balance computed for the view back onto a
// freshly written transaction so callers see its derived state.
func annotate(transaction *entity.Transaction, view LedgerView) {
	for i := range view.Transactions {
		if view.Transactions[i].ID == transaction.ID {
			transaction.RunningBalance = view.Transactions[i].RunningBalance
			return
		}
	}
}
