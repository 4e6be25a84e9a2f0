package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneytrail/ledger/internal/infrastructure/adapter/logger"
)

func TestHTTPClientFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes a valid feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id": "2", "amount": "50.00", "type": "deposit", "createdAt": "2025-06-02T10:00:00Z"},
				{"id": "1", "amount": "100.00", "type": "deposit", "createdAt": "2025-06-01T10:00:00Z"}
			]`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, 5*time.Second, logger.NewNoopLogger())
		records, err := client.Fetch(ctx)
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, "2", records[0].ID)
		assert.Equal(t, "50.00", records[0].Amount)
		assert.Equal(t, "deposit", records[0].Type)
		assert.Equal(t, "2025-06-01T10:00:00Z", records[1].CreatedAt)
	})

	t.Run("Empty feed decodes to no records", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, 5*time.Second, logger.NewNoopLogger())
		records, err := client.Fetch(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, 5*time.Second, logger.NewNoopLogger())
		_, err := client.Fetch(ctx)
		assert.ErrorContains(t, err, "503")
	})

	t.Run("Malformed body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not": "a list"}`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, 5*time.Second, logger.NewNoopLogger())
		_, err := client.Fetch(ctx)
		assert.Error(t, err)
	})

	t.Run("Unreachable host is an error", func(t *testing.T) {
		client := NewHTTPClient("http://127.0.0.1:1", time.Second, logger.NewNoopLogger())
		_, err := client.Fetch(ctx)
		assert.Error(t, err)
	})
}
