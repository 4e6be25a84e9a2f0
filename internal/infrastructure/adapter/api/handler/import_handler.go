package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/moneytrail/ledger/internal/domain/port/core"
	"github.com/moneytrail/ledger/internal/domain/usecase/importer"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/api/dto"
)

// ImportHandler exposes the external feed import as an API trigger
type ImportHandler struct {
	importer *importer.Importer
	logger   coreport.Logger
}

// NewImportHandler creates a new import handler instance
func NewImportHandler(imp *importer.Importer, logger coreport.Logger) *ImportHandler {
	return &ImportHandler{
		importer: imp,
		logger:   logger,
	}
}

// FetchExternal handles POST /api/fetch-external-transactions.
// A failed feed fetch aborts the run; per-record problems are skips.
func (h *ImportHandler) FetchExternal(c *gin.Context) {
	result, err := h.importer.Run(c.Request.Context())
	if err != nil {
		h.logger.Error("Feed import failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.DetailResponse{
			Detail: "Error fetching external transactions: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ImportResponse{
		Detail:  "External transactions fetched successfully.",
		Added:   result.Added,
		Skipped: result.Skipped,
	})
}
