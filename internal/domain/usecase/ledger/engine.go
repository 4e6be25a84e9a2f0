package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneytrail/ledger/internal/domain/entity"
)

// BalancePoint is one entry of the balance history series: the balance
// immediately after a transaction, tagged with that transaction's date.
type BalancePoint struct {
	Date    string
	Balance decimal.Decimal
}

// LedgerView is the derived state computed from the full transaction set.
type LedgerView struct {
	// Transactions holds the balance-annotated sequence in display order
	// (newest first). Balances were attached in chronological order and
	// travel with each transaction through the reversal.
	Transactions []entity.Transaction

	// TotalBalance is the running balance after the chronologically last
	// transaction, zero for an empty ledger.
	TotalBalance decimal.Decimal

	// History contains one point per transaction in chronological order,
	// not deduplicated by date. An empty ledger yields a single synthetic
	// point at today's date with balance zero.
	History []BalancePoint
}

// Compute folds the full transaction set into a LedgerView.
//
// The fold runs strictly in ascending (OccurredAt, ID) order; the id tie-break
// keeps the order total when timestamps collide. Reversing for display happens
// only after every running balance is attached. Computing balances against the
// reversed order would be wrong, which is why this function owns both steps.
func Compute(transactions []entity.Transaction, now time.Time, loc *time.Location) LedgerView {
	ordered := make([]entity.Transaction, len(transactions))
	copy(ordered, transactions)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].OccurredAt.Equal(ordered[j].OccurredAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
	})

	view := LedgerView{
		TotalBalance: decimal.Zero,
		History:      make([]BalancePoint, 0, len(ordered)),
	}

	if len(ordered) == 0 {
		view.History = append(view.History, BalancePoint{
			Date:    now.In(loc).Format("2006-01-02"),
			Balance: decimal.Zero,
		})
		view.Transactions = []entity.Transaction{}
		return view
	}

	running := decimal.Zero
	for i := range ordered {
		running = running.Add(ordered[i].Signed())
		ordered[i].RunningBalance = running
		view.History = append(view.History, BalancePoint{
			Date:    ordered[i].DateIn(loc),
			Balance: running,
		})
	}
	view.TotalBalance = running

	// Reverse in place for newest-first display; balances stay attached.
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	view.Transactions = ordered

	return view
}

// totalOf sums the signed amounts of a transaction set. Order-independent,
// used by the invariant checks which only need the aggregate.
func totalOf(transactions []entity.Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range transactions {
		total = total.Add(transactions[i].Signed())
	}
	return total
}
