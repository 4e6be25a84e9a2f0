package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneytrail/ledger/internal/domain/usecase/importer"
	"github.com/moneytrail/ledger/internal/domain/usecase/ledger"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/feed"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/logger"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/repository"
)

func newImportRouter(t *testing.T, feedURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryTransactionRepository()
	noop := logger.NewNoopLogger()
	coordinator := ledger.NewCoordinator(
		repo,
		ledger.NewChecker(5, time.UTC),
		&fixedTimeProvider{now: time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC)},
		noop,
		time.UTC,
	)
	client := feed.NewHTTPClient(feedURL, 2*time.Second, noop)
	imp := importer.NewImporter(client, coordinator, repo, noop, time.UTC)
	h := NewImportHandler(imp, noop)

	router := gin.New()
	router.POST("/api/fetch-external-transactions", h.FetchExternal)
	return router
}

func TestFetchExternal(t *testing.T) {
	t.Run("Successful import reports counts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"id": "2", "amount": "bogus", "type": "deposit", "createdAt": "2025-06-02T10:00:00Z"},
				{"id": "1", "amount": "100.00", "type": "deposit", "createdAt": "2025-06-01T10:00:00Z"}
			]`))
		}))
		defer server.Close()

		router := newImportRouter(t, server.URL)
		recorder := doJSON(t, router, http.MethodPost, "/api/fetch-external-transactions", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		body := decodeBody(t, recorder)
		assert.Equal(t, "External transactions fetched successfully.", body["detail"])
		assert.Equal(t, float64(1), body["added"])
		assert.Equal(t, float64(1), body["skipped"])
	})

	t.Run("Second run skips everything", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"id": "1", "amount": "100.00", "type": "deposit", "createdAt": "2025-06-01T10:00:00Z"}
			]`))
		}))
		defer server.Close()

		router := newImportRouter(t, server.URL)
		doJSON(t, router, http.MethodPost, "/api/fetch-external-transactions", nil)

		recorder := doJSON(t, router, http.MethodPost, "/api/fetch-external-transactions", nil)
		body := decodeBody(t, recorder)
		assert.Equal(t, float64(0), body["added"])
		assert.Equal(t, float64(1), body["skipped"])
	})

	t.Run("Feed failure is a 500", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		router := newImportRouter(t, server.URL)
		recorder := doJSON(t, router, http.MethodPost, "/api/fetch-external-transactions", nil)
		require.Equal(t, http.StatusInternalServerError, recorder.Code)

		body := decodeBody(t, recorder)
		assert.Contains(t, body["detail"], "Error fetching external transactions")
	})
}
