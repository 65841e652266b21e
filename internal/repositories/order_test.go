package repositories

import (
	"context"
	"testing"
	"time"

	"pilates-studio/internal/database"
	"pilates-studio/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type ledger interface {
	Claim(ctx context.Context, sessionID string) error
	Complete(ctx context.Context, order *models.Order) error
	Release(ctx context.Context, sessionID string) error
	Get(ctx context.Context, sessionID string) (*OrderRecord, error)
	Recent(ctx context.Context, limit int) ([]*OrderRecord, error)
}

func setupTestDB(t *testing.T) *OrderRepository {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewConnection(ctx, database.Config{URL: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())

	return NewOrderRepository(db.DB)
}

func paidOrder(sessionID string) *models.Order {
	return &models.Order{
		StripeSessionID: sessionID,
		CustomerEmail:   "a@b.co",
		TotalAmount:     decimal.RequireFromString("35.50"),
		Status:          models.OrderCompleted,
		Items:           `[{"id":"c1","title":"Mat Basics","price":20}]`,
		CreatedDate:     "2024-01-01",
	}
}

func runLedgerContract(t *testing.T, repo ledger) {
	ctx := context.Background()

	t.Run("second claim is a duplicate", func(t *testing.T) {
		require.NoError(t, repo.Claim(ctx, "cs_dup"))
		assert.ErrorIs(t, repo.Claim(ctx, "cs_dup"), models.ErrDuplicateSession)
	})

	t.Run("released claim can be claimed again", func(t *testing.T) {
		require.NoError(t, repo.Claim(ctx, "cs_retry"))
		require.NoError(t, repo.Release(ctx, "cs_retry"))
		assert.NoError(t, repo.Claim(ctx, "cs_retry"))
	})

	t.Run("completed claim is kept on release", func(t *testing.T) {
		require.NoError(t, repo.Claim(ctx, "cs_done"))
		require.NoError(t, repo.Complete(ctx, paidOrder("cs_done")))
		require.NoError(t, repo.Release(ctx, "cs_done"))

		rec, err := repo.Get(ctx, "cs_done")
		require.NoError(t, err)
		assert.Equal(t, StatusRecorded, rec.Status)
		assert.Equal(t, "a@b.co", rec.CustomerEmail)
		assert.True(t, decimal.RequireFromString("35.50").Equal(rec.TotalAmount))
		assert.JSONEq(t, `[{"id":"c1","title":"Mat Basics","price":20}]`, rec.Items)

		assert.ErrorIs(t, repo.Claim(ctx, "cs_done"), models.ErrDuplicateSession)
	})

	t.Run("complete without claim is not found", func(t *testing.T) {
		err := repo.Complete(ctx, paidOrder("cs_unclaimed"))
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("get unknown session is not found", func(t *testing.T) {
		_, err := repo.Get(ctx, "cs_missing")
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("recent lists recorded orders only", func(t *testing.T) {
		records, err := repo.Recent(ctx, 10)
		require.NoError(t, err)
		for _, rec := range records {
			assert.Equal(t, StatusRecorded, rec.Status)
		}
		assert.NotEmpty(t, records)
	})
}

func TestMemoryOrderRepository(t *testing.T) {
	runLedgerContract(t, NewMemoryOrderRepository())
}

func TestOrderRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	runLedgerContract(t, setupTestDB(t))
}
