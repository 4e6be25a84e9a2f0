package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/moneytrail/ledger/internal/domain/entity"
	errs "github.com/moneytrail/ledger/internal/domain/error"
	coreport "github.com/moneytrail/ledger/internal/domain/port/core"
	"github.com/moneytrail/ledger/internal/domain/port/persistence"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/database"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/model"
)

// TransactionRepository implements the Store port using GORM
type TransactionRepository struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *database.ErrorMapper
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:          db,
		logger:      logger,
		errorMapper: database.NewErrorMapper(),
	}
}

func entityToModel(transaction *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:          transaction.ID,
		ExternalRef: transaction.ExternalRef,
		Description: transaction.Description,
		Amount:      transaction.Amount,
		Type:        string(transaction.Kind),
		CreatedAt:   transaction.OccurredAt,
	}
}

func modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:          m.ID,
		ExternalRef: m.ExternalRef,
		Description: m.Description,
		Amount:      m.Amount,
		Kind:        entity.Kind(m.Type),
		OccurredAt:  m.CreatedAt,
	}
}

// Insert saves a new transaction and assigns its id. When the transaction
// carries an external reference the reservation row is written in the same
// database transaction, so a duplicate reference rolls back the whole insert.
func (r *TransactionRepository) Insert(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := entityToModel(transaction)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transactionModel).Error; err != nil {
			return err
		}
		if transaction.ExternalRef != nil {
			refModel := model.ExternalRef{
				Ref:           *transaction.ExternalRef,
				TransactionID: transactionModel.ID,
			}
			if err := tx.Create(&refModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		mapped := r.errorMapper.MapError(err, "insert")
		if errs.IsDuplicateExternalRefError(mapped) {
			r.logger.Warn("Duplicate external reference on insert", map[string]any{
				"external_ref": derefRef(transaction.ExternalRef),
			})
			return mapped
		}
		r.logger.Error("Failed to insert transaction", map[string]any{
			"error": err.Error(),
		})
		return mapped
	}

	transaction.ID = transactionModel.ID

	r.logger.Debug("Transaction inserted", map[string]any{
		"id": transaction.ID,
	})
	return nil
}

// Update applies a partial field update and returns the updated record
func (r *TransactionRepository) Update(ctx context.Context, id uint64, fields persistence.UpdateFields) (*entity.Transaction, error) {
	updates := map[string]any{}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Amount != nil {
		updates["amount"] = *fields.Amount
	}
	if fields.Kind != nil {
		updates["type"] = string(*fields.Kind)
	}
	if fields.OccurredAt != nil {
		updates["created_at"] = *fields.OccurredAt
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&model.Transaction{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			r.logger.Error("Failed to update transaction", map[string]any{
				"id":    id,
				"error": result.Error.Error(),
			})
			return nil, r.errorMapper.MapError(result.Error, "update")
		}
		if result.RowsAffected == 0 {
			return nil, errs.ErrTransactionNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes a transaction permanently. Its external reference row, if
// any, is kept so a consumed reference is never reassigned by a later import.
func (r *TransactionRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.Transaction{}, id)
	if result.Error != nil {
		r.logger.Error("Failed to delete transaction", map[string]any{
			"id":    id,
			"error": result.Error.Error(),
		})
		return r.errorMapper.MapError(result.Error, "delete")
	}
	if result.RowsAffected == 0 {
		return errs.ErrTransactionNotFound
	}
	return nil
}

// GetByID fetches a single transaction
func (r *TransactionRepository) GetByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).First(&transactionModel, id)
	if result.Error != nil {
		mapped := r.errorMapper.MapError(result.Error, "get")
		if !errs.IsNotFoundError(mapped) {
			r.logger.Error("Failed to get transaction", map[string]any{
				"id":    id,
				"error": result.Error.Error(),
			})
		}
		return nil, mapped
	}
	return modelToEntity(&transactionModel), nil
}

// All returns every stored transaction; callers sort
func (r *TransactionRepository) All(ctx context.Context) ([]entity.Transaction, error) {
	var models []model.Transaction
	result := r.db.WithContext(ctx).Find(&models)
	if result.Error != nil {
		r.logger.Error("Failed to scan transactions", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, r.errorMapper.MapError(result.Error, "scan")
	}

	transactions := make([]entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, *modelToEntity(&models[i]))
	}
	return transactions, nil
}

// ExternalRefExists reports whether an external reference was ever consumed,
// including references whose transactions have since been deleted.
func (r *TransactionRepository) ExternalRefExists(ctx context.Context, ref string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.ExternalRef{}).
		Where("ref = ?", ref).
		Count(&count)
	if result.Error != nil {
		return false, r.errorMapper.MapError(result.Error, "ref lookup")
	}
	return count > 0, nil
}

func derefRef(ref *string) string {
	if ref == nil {
		return ""
	}
	return *ref
}
