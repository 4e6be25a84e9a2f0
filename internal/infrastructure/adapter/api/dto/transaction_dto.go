package dto

import (
	"time"

	"github.com/moneytrail/ledger/internal/domain/entity"
	"github.com/moneytrail/ledger/internal/domain/usecase/ledger"
)

// CreateTransactionRequest is the API request for recording a transaction.
// Amount is a decimal string; created_at is optional ISO 8601 and defaults
// to the current time.
type CreateTransactionRequest struct {
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Type        string  `json:"type"`
	CreatedAt   *string `json:"created_at"`
}

// UpdateTransactionRequest is the API request for a partial update.
// Absent fields are left unchanged.
type UpdateTransactionRequest struct {
	Description *string `json:"description"`
	Amount      *string `json:"amount"`
	Type        *string `json:"type"`
	CreatedAt   *string `json:"created_at"`
}

// TransactionResponse is the API representation of a single transaction
type TransactionResponse struct {
	ID             uint64  `json:"id"`
	DisplayCode    string  `json:"display_code"`
	ExternalRef    *string `json:"external_ref"`
	Description    string  `json:"description"`
	Amount         string  `json:"amount"`
	Type           string  `json:"type"`
	CreatedAt      string  `json:"created_at"`
	RunningBalance string  `json:"running_balance"`
}

// BalancePointResponse is one entry of the balance history series.
// Balance is a float for direct charting.
type BalancePointResponse struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// ListTransactionsResponse is the payload of a filtered listing
type ListTransactionsResponse struct {
	TotalBalance   string                 `json:"total_balance"`
	Transactions   []TransactionResponse  `json:"transactions"`
	HasMore        bool                   `json:"has_more"`
	BalanceHistory []BalancePointResponse `json:"balance_history"`
}

// CreateTransactionResponse is the payload after a successful create
type CreateTransactionResponse struct {
	TotalBalance   string                 `json:"total_balance"`
	NewTransaction TransactionResponse    `json:"new_transaction"`
	Transactions   []TransactionResponse  `json:"transactions"`
	BalanceHistory []BalancePointResponse `json:"balance_history"`
}

// UpdateTransactionResponse is the payload after a successful update
type UpdateTransactionResponse struct {
	TotalBalance       string                 `json:"total_balance"`
	UpdatedTransaction TransactionResponse    `json:"updated_transaction"`
	Transactions       []TransactionResponse  `json:"transactions"`
	BalanceHistory     []BalancePointResponse `json:"balance_history"`
}

// DeleteTransactionResponse is the payload after a successful delete
type DeleteTransactionResponse struct {
	TotalBalance   string                 `json:"total_balance"`
	Transactions   []TransactionResponse  `json:"transactions"`
	BalanceHistory []BalancePointResponse `json:"balance_history"`
}

// ImportResponse reports the outcome of a feed import run
type ImportResponse struct {
	Detail  string `json:"detail"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
}

// FromTransaction converts a balance-annotated transaction to its API form
func FromTransaction(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		DisplayCode:    t.DisplayCode(),
		ExternalRef:    t.ExternalRef,
		Description:    t.Description,
		Amount:         entity.FormatAmount(t.Amount),
		Type:           string(t.Kind),
		CreatedAt:      t.OccurredAt.Format(time.RFC3339),
		RunningBalance: entity.FormatAmount(t.RunningBalance),
	}
}

// FromTransactions converts a transaction slice, preserving order
func FromTransactions(transactions []entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		out = append(out, FromTransaction(&transactions[i]))
	}
	return out
}

// FromHistory converts the engine's balance history series
func FromHistory(history []ledger.BalancePoint) []BalancePointResponse {
	out := make([]BalancePointResponse, 0, len(history))
	for _, point := range history {
		out = append(out, BalancePointResponse{
			Date:    point.Date,
			Balance: point.Balance.InexactFloat64(),
		})
	}
	return out
}
