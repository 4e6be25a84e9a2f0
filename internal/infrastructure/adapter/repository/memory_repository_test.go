package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneytrail/ledger/internal/domain/entity"
	errs "github.com/moneytrail/ledger/internal/domain/error"
	"github.com/moneytrail/ledger/internal/domain/port/persistence"
)

func newDeposit(amount string) *entity.Transaction {
	return &entity.Transaction{
		Description: "Deposit",
		Amount:      decimal.RequireFromString(amount),
		Kind:        entity.KindDeposit,
		OccurredAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryRepositoryInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Ids are assigned monotonically", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()

		first := newDeposit("10.00")
		second := newDeposit("20.00")
		require.NoError(t, repo.Insert(ctx, first))
		require.NoError(t, repo.Insert(ctx, second))

		assert.Equal(t, uint64(1), first.ID)
		assert.Equal(t, uint64(2), second.ID)
	})

	t.Run("Deleted ids are never reused", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()

		first := newDeposit("10.00")
		require.NoError(t, repo.Insert(ctx, first))
		require.NoError(t, repo.Delete(ctx, first.ID))

		second := newDeposit("20.00")
		require.NoError(t, repo.Insert(ctx, second))
		assert.Equal(t, uint64(2), second.ID)
	})

	t.Run("Duplicate external references are rejected", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()

		ref := "feed-42"
		first := newDeposit("10.00")
		first.ExternalRef = &ref
		require.NoError(t, repo.Insert(ctx, first))

		ref2 := "feed-42"
		second := newDeposit("20.00")
		second.ExternalRef = &ref2
		err := repo.Insert(ctx, second)
		assert.ErrorIs(t, err, errs.ErrDuplicateExternalRef)
	})

	t.Run("External reference stays reserved after delete", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()

		ref := "feed-43"
		first := newDeposit("10.00")
		first.ExternalRef = &ref
		require.NoError(t, repo.Insert(ctx, first))
		require.NoError(t, repo.Delete(ctx, first.ID))

		exists, err := repo.ExternalRefExists(ctx, "feed-43")
		require.NoError(t, err)
		assert.True(t, exists)

		ref2 := "feed-43"
		second := newDeposit("20.00")
		second.ExternalRef = &ref2
		assert.ErrorIs(t, repo.Insert(ctx, second), errs.ErrDuplicateExternalRef)
	})
}

func TestMemoryRepositoryUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Partial updates keep unset fields", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()
		transaction := newDeposit("10.00")
		require.NoError(t, repo.Insert(ctx, transaction))

		description := "Adjusted"
		updated, err := repo.Update(ctx, transaction.ID, persistence.UpdateFields{
			Description: &description,
		})
		require.NoError(t, err)

		assert.Equal(t, "Adjusted", updated.Description)
		assert.Equal(t, entity.KindDeposit, updated.Kind)
		assert.Equal(t, "10.00", entity.FormatAmount(updated.Amount))
	})

	t.Run("All fields can change at once", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()
		transaction := newDeposit("10.00")
		require.NoError(t, repo.Insert(ctx, transaction))

		description := "Now an expense"
		amount := decimal.RequireFromString("5.50")
		kind := entity.KindExpense
		occurredAt := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
		updated, err := repo.Update(ctx, transaction.ID, persistence.UpdateFields{
			Description: &description,
			Amount:      &amount,
			Kind:        &kind,
			OccurredAt:  &occurredAt,
		})
		require.NoError(t, err)

		assert.Equal(t, "Now an expense", updated.Description)
		assert.Equal(t, "5.50", entity.FormatAmount(updated.Amount))
		assert.Equal(t, entity.KindExpense, updated.Kind)
		assert.Equal(t, occurredAt, updated.OccurredAt)
	})

	t.Run("Unknown id fails", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()
		_, err := repo.Update(ctx, 404, persistence.UpdateFields{})
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})
}

func TestMemoryRepositoryReads(t *testing.T) {
	ctx := context.Background()

	t.Run("GetByID returns a copy", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()
		transaction := newDeposit("10.00")
		require.NoError(t, repo.Insert(ctx, transaction))

		found, err := repo.GetByID(ctx, transaction.ID)
		require.NoError(t, err)

		found.Description = "Mutated by caller"

		again, err := repo.GetByID(ctx, transaction.ID)
		require.NoError(t, err)
		assert.Equal(t, "Deposit", again.Description)
	})

	t.Run("GetByID of an unknown id fails", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()
		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})

	t.Run("All returns every stored transaction", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()
		for i := 0; i < 5; i++ {
			require.NoError(t, repo.Insert(ctx, newDeposit("1.00")))
		}

		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})

	t.Run("Delete of an unknown id fails", func(t *testing.T) {
		repo := NewMemoryTransactionRepository()
		assert.ErrorIs(t, repo.Delete(ctx, 404), errs.ErrTransactionNotFound)
	})
}
