package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/moneytrail/ledger/internal/domain/error"
)

// fixedTimeProvider returns a constant instant from Now
type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time { return f.now }

func TestIsValidKind(t *testing.T) {
	assert.True(t, IsValidKind("deposit"))
	assert.True(t, IsValidKind("expense"))
	assert.False(t, IsValidKind("transfer"))
	assert.False(t, IsValidKind("Deposit"))
	assert.False(t, IsValidKind(""))
}

func TestNewTransaction(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	tp := &fixedTimeProvider{now: now}

	t.Run("Valid deposit with default time", func(t *testing.T) {
		transaction, err := NewTransaction("Salary", "1500.00", "deposit", nil, tp)
		require.NoError(t, err)
		assert.Equal(t, "Salary", transaction.Description)
		assert.Equal(t, "1500.00", FormatAmount(transaction.Amount))
		assert.Equal(t, KindDeposit, transaction.Kind)
		assert.Equal(t, now, transaction.OccurredAt)
		assert.Equal(t, uint64(0), transaction.ID)
	})

	t.Run("Valid expense with explicit time", func(t *testing.T) {
		when := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
		transaction, err := NewTransaction("Coffee", "4.50", "expense", &when, tp)
		require.NoError(t, err)
		assert.Equal(t, KindExpense, transaction.Kind)
		assert.Equal(t, when, transaction.OccurredAt)
	})

	t.Run("Invalid kind", func(t *testing.T) {
		_, err := NewTransaction("Oops", "10.00", "withdrawal", nil, tp)
		assert.ErrorIs(t, err, errs.ErrInvalidKind)
	})

	t.Run("Invalid amount", func(t *testing.T) {
		_, err := NewTransaction("Oops", "abc", "deposit", nil, tp)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("Non-positive amount", func(t *testing.T) {
		_, err := NewTransaction("Oops", "0.00", "deposit", nil, tp)
		assert.ErrorIs(t, err, errs.ErrNonPositiveAmount)
	})
}

func TestDisplayCode(t *testing.T) {
	testCases := []struct {
		id       uint64
		expected string
	}{
		{0, "TRN-N/A"},
		{1, "TRN-0001"},
		{7, "TRN-0007"},
		{42, "TRN-0042"},
		{999, "TRN-0999"},
		{9999, "TRN-9999"},
		{10000, "TRN-10000"},
		{12345, "TRN-12345"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			transaction := &Transaction{ID: tc.id}
			assert.Equal(t, tc.expected, transaction.DisplayCode())
		})
	}
}

func TestSigned(t *testing.T) {
	amount, err := ParseAmount("25.00")
	require.NoError(t, err)

	deposit := &Transaction{Amount: amount, Kind: KindDeposit}
	assert.Equal(t, "25.00", FormatAmount(deposit.Signed()))
	assert.True(t, deposit.IsDeposit())
	assert.False(t, deposit.IsExpense())

	expense := &Transaction{Amount: amount, Kind: KindExpense}
	assert.Equal(t, "-25.00", FormatAmount(expense.Signed()))
	assert.True(t, expense.IsExpense())
	assert.False(t, expense.IsDeposit())
}

func TestDateIn(t *testing.T) {
	// 23:30 UTC on June 15 is already June 16 in Tokyo
	occurredAt := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	transaction := &Transaction{OccurredAt: occurredAt}

	assert.Equal(t, "2025-06-15", transaction.DateIn(time.UTC))

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-16", transaction.DateIn(tokyo))
}
