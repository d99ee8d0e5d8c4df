package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"order-fulfilment/internal/config"
	"order-fulfilment/internal/database"
	"order-fulfilment/internal/model"
	"order-fulfilment/internal/notification"
	"order-fulfilment/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a migrated PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	if err := database.Migrate(dbConfig.ConnectionString(), logger); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   dbConfig.ConnectionString(),
	}
}

// SeedOrder inserts the products and an order with one line item per product.
// Products with a non-zero ID are referenced rather than inserted.
func SeedOrder(t *testing.T, pool *pgxpool.Pool, products ...*model.Product) int64 {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	tx, err := orderRepo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	items := make([]model.LineItem, 0, len(products))
	for _, p := range products {
		if p.ID == 0 {
			if err := productRepo.Create(ctx, tx, p); err != nil {
				t.Fatalf("failed to seed product %s: %v", p.Name, err)
			}
		}
		items = append(items, model.LineItem{ProductID: p.ID})
	}

	order := &model.Order{}
	if err := orderRepo.CreateOrder(ctx, tx, order); err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := orderRepo.CreateLineItems(ctx, tx, items); err != nil {
		t.Fatalf("failed to seed line items: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit seed: %v", err)
	}
	return order.ID
}

// AvailableStock reads the current stock of a product.
func AvailableStock(t *testing.T, pool *pgxpool.Pool, productID int64) int {
	t.Helper()

	var available int
	err := pool.QueryRow(context.Background(), "SELECT available FROM products WHERE id = $1", productID).Scan(&available)
	if err != nil {
		t.Fatalf("failed to read stock of product %d: %v", productID, err)
	}
	return available
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// Days returns a pointer to now shifted by d days.
func Days(d int) *time.Time {
	t := time.Now().AddDate(0, 0, d)
	return &t
}

// RecordingPublisher keeps published events in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []notification.Event
	err    error
}

// Publish records the event, or fails with the configured error.
func (p *RecordingPublisher) Publish(ctx context.Context, key string, event notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

// Close is a no-op.
func (p *RecordingPublisher) Close() error { return nil }

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []notification.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notification.Event(nil), p.events...)
}

// FailWith makes subsequent publishes fail with err; nil restores success.
func (p *RecordingPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Reset drops recorded events and clears any configured failure.
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
	p.err = nil
}
