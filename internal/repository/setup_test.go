package repository

import (
	"context"
	"testing"
	"time"

	"order-fulfilment/internal/database"
	"order-fulfilment/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a migrated PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr, zerolog.Nop()))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedOrder inserts the products and one order referencing each of them once.
func seedOrder(t *testing.T, pool *pgxpool.Pool, products []*model.Product) int64 {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()
	productRepo := NewProductRepository(pool, logger)
	orderRepo := NewOrderRepository(pool, logger)

	tx, err := orderRepo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	order := &model.Order{}
	require.NoError(t, orderRepo.CreateOrder(ctx, tx, order))

	items := make([]model.LineItem, 0, len(products))
	for _, p := range products {
		if p.ID == 0 {
			require.NoError(t, productRepo.Create(ctx, tx, p))
		}
		items = append(items, model.LineItem{OrderID: order.ID, ProductID: p.ID})
	}
	require.NoError(t, orderRepo.CreateLineItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))

	return order.ID
}

func timePtr(t time.Time) *time.Time {
	return &t
}
