package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientBalance  = 4001
	CodeInvalidAmount        = 4002
	CodeDailyLimitExceeded   = 4003
	CodeDuplicateExternalRef = 4004
	CodeInvalidKind          = 4005
	CodeInvalidDate          = 4006
	CodeTransactionNotFound  = 4040

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrInsufficientBalance is returned when an expense exceeds the available balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount is returned when the amount format is invalid
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNonPositiveAmount is returned when the amount is zero or negative
	ErrNonPositiveAmount = errors.New("amount must be a positive number")

	// ErrInvalidKind is returned when the transaction type is not deposit or expense
	ErrInvalidKind = errors.New("invalid transaction type")

	// ErrInvalidDate is returned when a date parameter can't be parsed
	ErrInvalidDate = errors.New("invalid date format")

	// ErrDailyLimitExceeded is returned when the per-date expense quota is full
	ErrDailyLimitExceeded = errors.New("daily expense limit reached")

	// ErrDuplicateExternalRef is returned when an external reference already exists
	ErrDuplicateExternalRef = errors.New("transaction with this external reference already exists")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNonPositiveAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrDailyLimitExceeded):
		return CodeDailyLimitExceeded
	case errors.Is(err, ErrDuplicateExternalRef):
		return CodeDuplicateExternalRef
	case errors.Is(err, ErrInvalidKind):
		return CodeInvalidKind
	case errors.Is(err, ErrInvalidDate):
		return CodeInvalidDate
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	default:
		return CodeInternalServer
	}
}

// InsufficientBalanceError is returned when creating an expense larger than
// the current total balance
type InsufficientBalanceError struct {
	Balance string
	Amount  string
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, available %s", e.Amount, e.Balance)
}

// Detail returns the user-facing message for API responses
func (e *InsufficientBalanceError) Detail() string {
	return "Not enough balance. Cannot add expense."
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "insufficient_balance",
		"amount":          e.Amount,
		"current_balance": e.Balance,
		"error_code":      CodeInsufficientBalance,
	}
}

// NegativeBalanceUpdateError is returned when updating an expense would drive
// the total balance below zero
type NegativeBalanceUpdateError struct {
	OthersBalance string
	Amount        string
}

// Error implements the error interface
func (e *NegativeBalanceUpdateError) Error() string {
	return fmt.Sprintf("update would result in negative balance: others total %s, new amount %s",
		e.OthersBalance, e.Amount)
}

// Detail returns the user-facing message for API responses
func (e *NegativeBalanceUpdateError) Detail() string {
	return "Updating this expense would result in a negative balance."
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *NegativeBalanceUpdateError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *NegativeBalanceUpdateError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "negative_balance_update",
		"amount":         e.Amount,
		"others_balance": e.OthersBalance,
		"error_code":     CodeInsufficientBalance,
	}
}

// DailyLimitError is returned when the expense quota for a calendar date is full
type DailyLimitError struct {
	Limit int
	Date  string
	// ForSelectedDate marks the update-path variant of the message, where the
	// offending date is the one the user is moving the expense onto
	ForSelectedDate bool
}

// Error implements the error interface
func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily expense limit of %d reached for %s", e.Limit, e.Date)
}

// Detail returns the user-facing message for API responses
func (e *DailyLimitError) Detail() string {
	if e.ForSelectedDate {
		return fmt.Sprintf("Daily expense limit reached (%d expenses per day) for the selected date.", e.Limit)
	}
	return fmt.Sprintf("Daily expense limit reached (%d expenses per day).", e.Limit)
}

// Is checks if the target error is an ErrDailyLimitExceeded
func (e *DailyLimitError) Is(target error) bool {
	return target == ErrDailyLimitExceeded
}

// LogFields returns a map of fields for structured logging
func (e *DailyLimitError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "daily_limit_exceeded",
		"limit":      e.Limit,
		"date":       e.Date,
		"error_code": CodeDailyLimitExceeded,
	}
}

// Detail extracts the user-facing detail message from a business-rule error.
// Falls back to the raw error text for errors without a dedicated message.
func Detail(err error) string {
	type detailer interface{ Detail() string }
	var d detailer
	if errors.As(err, &d) {
		return d.Detail()
	}
	if errors.Is(err, ErrNonPositiveAmount) {
		return "Amount must be a positive number."
	}
	return err.Error()
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsDailyLimitError checks if the error is a daily expense limit rejection
func IsDailyLimitError(err error) bool {
	return errors.Is(err, ErrDailyLimitExceeded)
}

// IsDuplicateExternalRefError checks if the error is an external reference collision
func IsDuplicateExternalRefError(err error) bool {
	return errors.Is(err, ErrDuplicateExternalRef)
}

// IsValidationError checks if the error is a user-correctable input error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidRequest)
}

// IsBusinessRuleError checks if the error is a business-rule rejection
// (insufficient balance or daily expense limit)
func IsBusinessRuleError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrDailyLimitExceeded)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTransactionNotFound)
}
