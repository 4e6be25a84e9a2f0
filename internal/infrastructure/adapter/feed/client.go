package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	coreport "github.com/moneytrail/ledger/internal/domain/port/core"
	"github.com/moneytrail/ledger/internal/domain/usecase/importer"
)

// HTTPClient fetches the external transaction feed over HTTP
type HTTPClient struct {
	url    string
	client *http.Client
	logger coreport.Logger
}

// NewHTTPClient creates a feed client for the given URL
func NewHTTPClient(url string, timeout time.Duration, logger coreport.Logger) *HTTPClient {
	return &HTTPClient{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch retrieves and decodes the feed
func (c *HTTPClient) Fetch(ctx context.Context) ([]importer.FeedRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var records []importer.FeedRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}

	c.logger.Debug("Fetched feed records", map[string]any{
		"count": len(records),
		"url":   c.url,
	})
	return records, nil
}
