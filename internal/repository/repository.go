package repository

import (
	"context"

	"order-fulfilment/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	// Returns nil without error when the product does not exist.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create inserts a product within the provided transaction and sets its ID.
	Create(ctx context.Context, tx pgx.Tx, product *model.Product) error

	// Update writes the mutable fields of a product within the provided transaction.
	Update(ctx context.Context, tx pgx.Tx, product *model.Product) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction and sets its ID and creation time.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateLineItems inserts line items within the provided transaction and sets their IDs.
	CreateLineItems(ctx context.Context, tx pgx.Tx, items []model.LineItem) error

	// GetByID retrieves an order by its ID along with the product of every line item.
	// Returns a nil order without error when the order does not exist.
	GetByID(ctx context.Context, id int64) (*model.Order, []model.Product, error)

	// GetForProcessing retrieves an order and its line items within the provided
	// transaction, locking the referenced product rows until the transaction ends.
	// Returns a nil order without error when the order does not exist.
	GetForProcessing(ctx context.Context, tx pgx.Tx, id int64) (*model.Order, []model.LineItem, error)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
