package importer

import (
	"context"
	"strings"
	"time"

	"github.com/moneytrail/ledger/internal/domain/entity"
	errs "github.com/moneytrail/ledger/internal/domain/error"
	coreport "github.com/moneytrail/ledger/internal/domain/port/core"
	"github.com/moneytrail/ledger/internal/domain/port/persistence"
	"github.com/moneytrail/ledger/internal/domain/usecase/ledger"
)

// FeedRecord is one raw record from the external transaction feed
type FeedRecord struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	CreatedAt string `json:"createdAt"`
}

// FeedClient fetches the external transaction feed
type FeedClient interface {
	Fetch(ctx context.Context) ([]FeedRecord, error)
}

// Result summarizes an import run
type Result struct {
	Added   int
	Skipped int
}

// Importer consumes the external feed and inserts unseen records into the
// ledger. Every malformed or already-imported record is skipped with a log
// line, never surfaced as an error; only a failed feed fetch aborts the run.
type Importer struct {
	client      FeedClient
	coordinator *ledger.Coordinator
	repo        persistence.TransactionRepository
	logger      coreport.Logger
	loc         *time.Location
}

// NewImporter creates a feed importer
func NewImporter(
	client FeedClient,
	coordinator *ledger.Coordinator,
	repo persistence.TransactionRepository,
	logger coreport.Logger,
	loc *time.Location,
) *Importer {
	return &Importer{
		client:      client,
		coordinator: coordinator,
		repo:        repo,
		logger:      logger,
		loc:         loc,
	}
}

// Run fetches the feed and imports every valid, unseen record. The feed
// arrives newest-first; records are processed oldest-first so assigned ids
// follow chronology and display codes line up with the date order.
func (i *Importer) Run(ctx context.Context) (Result, error) {
	records, err := i.client.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}

	for left, right := 0, len(records)-1; left < right; left, right = left+1, right-1 {
		records[left], records[right] = records[right], records[left]
	}

	var result Result
	for _, record := range records {
		if i.importRecord(ctx, record) {
			result.Added++
		} else {
			result.Skipped++
		}
	}

	i.logger.Info("Feed import finished", map[string]any{
		"added":   result.Added,
		"skipped": result.Skipped,
	})
	return result, nil
}

// importRecord validates and inserts a single record, reporting success
func (i *Importer) importRecord(ctx context.Context, record FeedRecord) bool {
	if record.ID == "" || record.Amount == "" || record.Type == "" || record.CreatedAt == "" {
		i.logger.Warn("Skipping feed record with missing fields", map[string]any{
			"external_ref": record.ID,
		})
		return false
	}

	amount, err := entity.ParseAmount(record.Amount)
	if err != nil {
		i.logger.Warn("Skipping feed record with invalid amount", map[string]any{
			"external_ref": record.ID,
			"amount":       record.Amount,
		})
		return false
	}

	if !entity.IsValidKind(record.Type) {
		i.logger.Warn("Skipping feed record with unrecognized type", map[string]any{
			"external_ref": record.ID,
			"type":         record.Type,
		})
		return false
	}

	occurredAt, err := parseFeedTime(record.CreatedAt, i.loc)
	if err != nil {
		i.logger.Warn("Skipping feed record with unparseable date", map[string]any{
			"external_ref": record.ID,
			"created_at":   record.CreatedAt,
		})
		return false
	}

	exists, err := i.repo.ExternalRefExists(ctx, record.ID)
	if err != nil {
		i.logger.Error("Failed to check feed record existence", map[string]any{
			"external_ref": record.ID,
			"error":        err.Error(),
		})
		return false
	}
	if exists {
		i.logger.Warn("Skipping duplicate feed record", map[string]any{
			"external_ref": record.ID,
		})
		return false
	}

	ref := record.ID
	transaction := &entity.Transaction{
		ExternalRef: &ref,
		Description: capitalize(record.Type) + " from API",
		Amount:      amount,
		Kind:        entity.Kind(record.Type),
		OccurredAt:  occurredAt,
	}

	if err := i.coordinator.Import(ctx, transaction); err != nil {
		// A ref collision between the existence check and the insert is a
		// plain skip; anything else is logged per-record and the run goes on.
		if errs.IsDuplicateExternalRefError(err) {
			i.logger.Warn("Skipping duplicate feed record", map[string]any{
				"external_ref": record.ID,
			})
		} else {
			i.logger.Error("Failed to store feed record", map[string]any{
				"external_ref": record.ID,
				"error":        err.Error(),
			})
		}
		return false
	}

	i.logger.Info("Imported feed transaction", map[string]any{
		"external_ref": record.ID,
		"id":           transaction.ID,
		"amount":       entity.FormatAmount(amount),
	})
	return true
}

// capitalize upper-cases the first letter for the default description
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// feedTimeLayouts are tried in order when parsing feed timestamps
var feedTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseFeedTime parses a feed timestamp, treating layouts without an offset
// as local to the configured location.
func parseFeedTime(value string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range feedTimeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
