package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moneytrail/ledger/internal/domain/entity"
	domainerr "github.com/moneytrail/ledger/internal/domain/error"
	coreport "github.com/moneytrail/ledger/internal/domain/port/core"
	"github.com/moneytrail/ledger/internal/domain/port/persistence"
	"github.com/moneytrail/ledger/internal/domain/usecase/ledger"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/api/dto"
)

// createdAtLayouts are accepted for the optional created_at request field.
// Layouts without an offset are treated as local to the configured zone.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	service *ledger.Service
	logger  coreport.Logger
	loc     *time.Location
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(service *ledger.Service, logger coreport.Logger, loc *time.Location) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  logger,
		loc:     loc,
	}
}

// List handles GET /api/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	filter := ledger.Filter{Page: 1}

	if v := c.Query("type"); v != "" {
		kind := entity.Kind(v)
		filter.Kind = &kind
	}

	if v := c.Query("start_date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.DetailResponse{
				Detail: "Invalid start_date format. Use YYYY-MM-DD.",
			})
			return
		}
		filter.StartDate = &parsed
	}

	if v := c.Query("end_date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.DetailResponse{
				Detail: "Invalid end_date format. Use YYYY-MM-DD.",
			})
			return
		}
		filter.EndDate = &parsed
	}

	filter.DescriptionSearch = c.Query("description_search")
	filter.CodeSearch = c.Query("code_search")

	if v := c.Query("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			filter.Page = page
		}
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		TotalBalance:   result.TotalBalance,
		Transactions:   dto.FromTransactions(result.Transactions),
		HasMore:        result.HasMore,
		BalanceHistory: dto.FromHistory(result.History),
	})
}

// Get handles GET /api/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	transaction, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTransaction(transaction))
}

// Create handles POST /api/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.DetailResponse{
			Detail: "Invalid request format: " + err.Error(),
		})
		return
	}

	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, amountFieldErrors(err))
		return
	}

	if !entity.IsValidKind(req.Type) {
		c.JSON(http.StatusBadRequest, dto.FieldErrors{
			"type": {fmt.Sprintf("%q is not a valid choice.", req.Type)},
		})
		return
	}

	var occurredAt *time.Time
	if req.CreatedAt != nil {
		parsed, err := h.parseCreatedAt(*req.CreatedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FieldErrors{
				"created_at": {"Datetime has wrong format."},
			})
			return
		}
		occurredAt = &parsed
	}

	result, err := h.service.Create(c.Request.Context(), ledger.CreateInput{
		Description: req.Description,
		Amount:      amount,
		Kind:        entity.Kind(req.Type),
		OccurredAt:  occurredAt,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateTransactionResponse{
		TotalBalance:   result.TotalBalance,
		NewTransaction: dto.FromTransaction(result.Transaction),
		Transactions:   dto.FromTransactions(result.Transactions),
		BalanceHistory: dto.FromHistory(result.History),
	})
}

// Update handles PUT/PATCH /api/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.DetailResponse{
			Detail: "Invalid request format: " + err.Error(),
		})
		return
	}

	fields := persistence.UpdateFields{
		Description: req.Description,
	}

	if req.Amount != nil {
		amount, err := entity.ParseAmount(*req.Amount)
		if err != nil {
			// The update path reports amount problems as a detail message
			c.JSON(http.StatusBadRequest, dto.DetailResponse{
				Detail: "Amount must be a positive number.",
			})
			return
		}
		fields.Amount = &amount
	}

	if req.Type != nil {
		if !entity.IsValidKind(*req.Type) {
			c.JSON(http.StatusBadRequest, dto.FieldErrors{
				"type": {fmt.Sprintf("%q is not a valid choice.", *req.Type)},
			})
			return
		}
		kind := entity.Kind(*req.Type)
		fields.Kind = &kind
	}

	if req.CreatedAt != nil {
		parsed, err := h.parseCreatedAt(*req.CreatedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FieldErrors{
				"created_at": {"Datetime has wrong format."},
			})
			return
		}
		fields.OccurredAt = &parsed
	}

	result, err := h.service.Update(c.Request.Context(), id, fields)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateTransactionResponse{
		TotalBalance:       result.TotalBalance,
		UpdatedTransaction: dto.FromTransaction(result.Transaction),
		Transactions:       dto.FromTransactions(result.Transactions),
		BalanceHistory:     dto.FromHistory(result.History),
	})
}

// Delete handles DELETE /api/transactions/:id.
// Responds 200 with the refreshed ledger payload. A 204 cannot carry a body
// over net/http, and clients rely on the recomputed balances after a delete.
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteTransactionResponse{
		TotalBalance:   result.TotalBalance,
		Transactions:   dto.FromTransactions(result.Transactions),
		BalanceHistory: dto.FromHistory(result.History),
	})
}

func (h *TransactionHandler) parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.DetailResponse{Detail: "Not found."})
		return 0, false
	}
	return id, true
}

func (h *TransactionHandler) parseCreatedAt(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range createdAtLayouts {
		t, err := time.ParseInLocation(layout, value, h.loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// renderError maps a domain error to its HTTP response
func (h *TransactionHandler) renderError(c *gin.Context, err error) {
	status := ledger.StatusCode(err)

	switch {
	case domainerr.IsNotFoundError(err):
		c.JSON(status, dto.DetailResponse{Detail: "Not found."})
	case domainerr.IsBusinessRuleError(err), domainerr.IsValidationError(err):
		c.JSON(status, dto.DetailResponse{Detail: domainerr.Detail(err)})
	default:
		h.internalError(c, err)
	}
}

func (h *TransactionHandler) internalError(c *gin.Context, err error) {
	h.logger.Error("Request failed", map[string]any{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	c.JSON(http.StatusInternalServerError, dto.DetailResponse{
		Detail: "Internal server error.",
	})
}

// amountFieldErrors renders a ParseAmount failure as a field-scoped error
func amountFieldErrors(err error) dto.FieldErrors {
	if errors.Is(err, domainerr.ErrNonPositiveAmount) {
		return dto.FieldErrors{"amount": {"Amount must be a positive number."}}
	}
	return dto.FieldErrors{"amount": {"A valid number is required."}}
}
