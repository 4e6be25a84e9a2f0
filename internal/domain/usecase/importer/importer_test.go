package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneytrail/ledger/internal/domain/port/persistence"
	"github.com/moneytrail/ledger/internal/domain/usecase/ledger"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/logger"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/repository"
)

type fakeFeedClient struct {
	records []FeedRecord
	err     error
}

func (f *fakeFeedClient) Fetch(_ context.Context) ([]FeedRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time { return f.now }

func newTestImporter(t *testing.T, client FeedClient) (*Importer, persistence.TransactionRepository) {
	t.Helper()
	repo := repository.NewMemoryTransactionRepository()
	noop := logger.NewNoopLogger()
	coordinator := ledger.NewCoordinator(
		repo,
		ledger.NewChecker(5, time.UTC),
		&fixedTimeProvider{now: time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC)},
		noop,
		time.UTC,
	)
	return NewImporter(client, coordinator, repo, noop, time.UTC), repo
}

func TestImporterRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid feed imports every record", func(t *testing.T) {
		// Feed order is newest first, as the upstream API serves it.
		client := &fakeFeedClient{records: []FeedRecord{
			{ID: "3", Amount: "25.00", Type: "expense", CreatedAt: "2025-06-03T10:00:00Z"},
			{ID: "2", Amount: "50.00", Type: "deposit", CreatedAt: "2025-06-02T10:00:00Z"},
			{ID: "1", Amount: "100.00", Type: "deposit", CreatedAt: "2025-06-01T10:00:00Z"},
		}}
		imp, repo := newTestImporter(t, client)

		result, err := imp.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Added: 3, Skipped: 0}, result)

		// Oldest-first processing means the oldest record got the lowest id.
		all, err := repo.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for _, transaction := range all {
			require.NotNil(t, transaction.ExternalRef)
			if *transaction.ExternalRef == "1" {
				assert.Equal(t, uint64(1), transaction.ID)
				assert.Equal(t, "Deposit from API", transaction.Description)
			}
			if *transaction.ExternalRef == "3" {
				assert.Equal(t, uint64(3), transaction.ID)
				assert.Equal(t, "Expense from API", transaction.Description)
			}
		}
	})

	t.Run("Re-running the same feed adds nothing", func(t *testing.T) {
		client := &fakeFeedClient{records: []FeedRecord{
			{ID: "a", Amount: "10.00", Type: "deposit", CreatedAt: "2025-06-01T10:00:00Z"},
			{ID: "b", Amount: "20.00", Type: "deposit", CreatedAt: "2025-06-02T10:00:00Z"},
		}}
		imp, _ := newTestImporter(t, client)

		first, err := imp.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Added: 2, Skipped: 0}, first)

		second, err := imp.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Added: 0, Skipped: 2}, second)
	})

	t.Run("Deleted transactions keep their references reserved", func(t *testing.T) {
		client := &fakeFeedClient{records: []FeedRecord{
			{ID: "once", Amount: "10.00", Type: "deposit", CreatedAt: "2025-06-01T10:00:00Z"},
		}}
		imp, repo := newTestImporter(t, client)

		first, err := imp.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Added: 1, Skipped: 0}, first)

		all, err := repo.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.NoError(t, repo.Delete(ctx, all[0].ID))

		// A consumed reference is never reassigned, so the record stays out.
		second, err := imp.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Added: 0, Skipped: 1}, second)

		all, err = repo.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("Malformed records are skipped, valid ones still land", func(t *testing.T) {
		client := &fakeFeedClient{records: []FeedRecord{
			{ID: "ok", Amount: "10.00", Type: "deposit", CreatedAt: "2025-06-01T10:00:00Z"},
			{ID: "", Amount: "10.00", Type: "deposit", CreatedAt: "2025-06-01T10:00:00Z"},
			{ID: "bad-amount", Amount: "abc", Type: "deposit", CreatedAt: "2025-06-01T10:00:00Z"},
			{ID: "bad-type", Amount: "10.00", Type: "transfer", CreatedAt: "2025-06-01T10:00:00Z"},
			{ID: "bad-date", Amount: "10.00", Type: "deposit", CreatedAt: "June 1st"},
			{ID: "negative", Amount: "-10.00", Type: "expense", CreatedAt: "2025-06-01T10:00:00Z"},
		}}
		imp, repo := newTestImporter(t, client)

		result, err := imp.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Added: 1, Skipped: 5}, result)

		all, err := repo.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "ok", *all[0].ExternalRef)
	})

	t.Run("Imported expenses bypass the balance check", func(t *testing.T) {
		client := &fakeFeedClient{records: []FeedRecord{
			{ID: "spend", Amount: "500.00", Type: "expense", CreatedAt: "2025-06-01T10:00:00Z"},
		}}
		imp, repo := newTestImporter(t, client)

		result, err := imp.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Added: 1, Skipped: 0}, result)

		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Date-only timestamps are accepted", func(t *testing.T) {
		client := &fakeFeedClient{records: []FeedRecord{
			{ID: "d", Amount: "10.00", Type: "deposit", CreatedAt: "2025-06-01"},
		}}
		imp, repo := newTestImporter(t, client)

		result, err := imp.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)

		all, err := repo.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "2025-06-01", all[0].DateIn(time.UTC))
	})

	t.Run("Feed failure aborts the run", func(t *testing.T) {
		client := &fakeFeedClient{err: errors.New("connection refused")}
		imp, repo := newTestImporter(t, client)

		_, err := imp.Run(ctx)
		assert.Error(t, err)

		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestParseFeedTime(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	t.Run("Offset layouts keep their zone", func(t *testing.T) {
		parsed, err := parseFeedTime("2025-06-01T10:00:00Z", berlin)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), parsed.UTC())
	})

	t.Run("Offset-free layouts are local to the configured zone", func(t *testing.T) {
		parsed, err := parseFeedTime("2025-06-01T10:00:00", berlin)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-01", parsed.Format("2006-01-02"))
		assert.Equal(t, berlin, parsed.Location())
	})

	t.Run("Garbage fails", func(t *testing.T) {
		_, err := parseFeedTime("yesterday", berlin)
		assert.Error(t, err)
	})
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Deposit", capitalize("deposit"))
	assert.Equal(t, "Expense", capitalize("expense"))
	assert.Equal(t, "", capitalize(""))
}
