package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneytrail/ledger/internal/domain/entity"
	errs "github.com/moneytrail/ledger/internal/domain/error"
)

// Checker decides admit/reject for proposed mutations against the committed
// transaction set. It enforces the non-negative balance rule and the daily
// expense count rule; deletions are never checked.
type Checker struct {
	dailyLimit int
	loc        *time.Location
}

// NewChecker creates a Checker with the configured daily expense limit and
// the time zone used for calendar-date bucketing.
func NewChecker(dailyLimit int, loc *time.Location) *Checker {
	return &Checker{
		dailyLimit: dailyLimit,
		loc:        loc,
	}
}

// DailyLimit returns the configured maximum number of expenses per date
func (c *Checker) DailyLimit() int {
	return c.dailyLimit
}

// CheckCreate validates a proposed new transaction against committed state.
// Deposits always pass. Expenses must fit under the daily count quota for
// their date and must not exceed the current total balance.
func (c *Checker) CheckCreate(
	committed []entity.Transaction,
	kind entity.Kind,
	amount decimal.Decimal,
	occurredAt time.Time,
) error {
	if !amount.IsPositive() {
		return errs.ErrNonPositiveAmount
	}

	if kind != entity.KindExpense {
		return nil
	}

	date := occurredAt.In(c.loc).Format("2006-01-02")
	if c.countExpensesOn(committed, date, 0) >= c.dailyLimit {
		return &errs.DailyLimitError{Limit: c.dailyLimit, Date: date}
	}

	balance := totalOf(committed)
	if balance.LessThan(amount) {
		return &errs.InsufficientBalanceError{
			Balance: entity.FormatAmount(balance),
			Amount:  entity.FormatAmount(amount),
		}
	}

	return nil
}

// CheckUpdate validates a proposed update to an existing transaction. Both
// rules are evaluated against committed state excluding the transaction being
// updated, so its old values never double-count.
//
// The balance rule here is the zero-floor form (others' sum minus the new
// amount must not go negative). That is algebraically the same test as
// CheckCreate's, but the two are kept as separate code paths with distinct
// messages, matching observed behavior.
//
// The daily-count rule is skipped when the transaction was already an expense
// on the same date before the update; it already occupies a slot there.
func (c *Checker) CheckUpdate(
	committed []entity.Transaction,
	current *entity.Transaction,
	kind entity.Kind,
	amount decimal.Decimal,
	occurredAt time.Time,
) error {
	if !amount.IsPositive() {
		return errs.ErrNonPositiveAmount
	}

	if kind != entity.KindExpense {
		return nil
	}

	others := decimal.Zero
	for i := range committed {
		if committed[i].ID == current.ID {
			continue
		}
		others = others.Add(committed[i].Signed())
	}

	if others.Sub(amount).IsNegative() {
		return &errs.NegativeBalanceUpdateError{
			OthersBalance: entity.FormatAmount(others),
			Amount:        entity.FormatAmount(amount),
		}
	}

	date := occurredAt.In(c.loc).Format("2006-01-02")
	alreadyCounted := current.IsExpense() && current.DateIn(c.loc) == date
	if !alreadyCounted {
		if c.countExpensesOn(committed, date, current.ID) >= c.dailyLimit {
			return &errs.DailyLimitError{Limit: c.dailyLimit, Date: date, ForSelectedDate: true}
		}
	}

	return nil
}

// countExpensesOn counts committed expenses on the given date, optionally
// excluding one id (the transaction being updated).
func (c *Checker) countExpensesOn(committed []entity.Transaction, date string, excludeID uint64) int {
	count := 0
	for i := range committed {
		if committed[i].ID == excludeID {
			continue
		}
		if committed[i].IsExpense() && committed[i].DateIn(c.loc) == date {
			count++
		}
	}
	return count
}
