package ledger

import (
	"context"
	"net/http"

	"github.com/moneytrail/ledger/internal/domain/entity"
	errs "github.com/moneytrail/ledger/internal/domain/error"
	coreport "github.com/moneytrail/ledger/internal/domain/port/core"
	"github.com/moneytrail/ledger/internal/domain/port/persistence"
)

// ListResult is the payload for a filtered, paginated listing
type ListResult struct {
	TotalBalance string
	Transactions []entity.Transaction
	HasMore      bool
	History      []BalancePoint
}

// MutationResult is the payload returned after a committed mutation: the
// affected transaction (nil for deletes), the new total, the top page of the
// recomputed display sequence, and the refreshed history series.
type MutationResult struct {
	Transaction  *entity.Transaction
	TotalBalance string
	Transactions []entity.Transaction
	History      []BalancePoint
}

// Service is the ledger facade used by the HTTP layer. It composes the
// mutation coordinator with the query assembler and owns nothing else.
type Service struct {
	coordinator *Coordinator
	assembler   *Assembler
	logger      coreport.Logger
}

// NewService creates the ledger service
func NewService(coordinator *Coordinator, assembler *Assembler, logger coreport.Logger) *Service {
	return &Service{
		coordinator: coordinator,
		assembler:   assembler,
		logger:      logger,
	}
}

// List returns one page of the filtered ledger together with the full-set
// total balance and history.
func (s *Service) List(ctx context.Context, filter Filter) (*ListResult, error) {
	view, err := s.coordinator.View(ctx)
	if err != nil {
		return nil, err
	}

	page := s.assembler.Apply(view, filter)
	return &ListResult{
		TotalBalance: entity.FormatAmount(view.TotalBalance),
		Transactions: page.Transactions,
		HasMore:      page.HasMore,
		History:      view.History,
	}, nil
}

// Get returns a single transaction annotated with its running balance
// computed against the full history.
func (s *Service) Get(ctx context.Context, id uint64) (*entity.Transaction, error) {
	view, err := s.coordinator.View(ctx)
	if err != nil {
		return nil, err
	}
	for i := range view.Transactions {
		if view.Transactions[i].ID == id {
			return &view.Transactions[i], nil
		}
	}
	return nil, errs.ErrTransactionNotFound
}

// Create records a new manual transaction
func (s *Service) Create(ctx context.Context, input CreateInput) (*MutationResult, error) {
	created, view, err := s.coordinator.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.mutationResult(created, view), nil
}

// Update applies a partial update to an existing transaction
func (s *Service) Update(ctx context.Context, id uint64, fields persistence.UpdateFields) (*MutationResult, error) {
	updated, view, err := s.coordinator.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return s.mutationResult(updated, view), nil
}

// Delete removes a transaction
func (s *Service) Delete(ctx context.Context, id uint64) (*MutationResult, error) {
	view, err := s.coordinator.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mutationResult(nil, view), nil
}

func (s *Service) mutationResult(transaction *entity.Transaction, view LedgerView) *MutationResult {
	top := view.Transactions
	if len(top) > DefaultPageSize {
		top = top[:DefaultPageSize]
	}
	return &MutationResult{
		Transaction:  transaction,
		TotalBalance: entity.FormatAmount(view.TotalBalance),
		Transactions: top,
		History:      view.History,
	}
}

// StatusCode maps domain errors to HTTP status codes
func StatusCode(err error) int {
	switch {
	case errs.IsNotFoundError(err):
		return http.StatusNotFound
	case errs.IsBusinessRuleError(err), errs.IsValidationError(err):
		return http.StatusBadRequest
	case errs.IsDuplicateExternalRefError(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
