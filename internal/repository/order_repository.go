package repository

import (
	"context"
	"errors"
	"fmt"

	"order-fulfilment/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders DEFAULT VALUES
		RETURNING id, created_at
	`

	if err := tx.QueryRow(ctx, query).Scan(&order.ID, &order.CreatedAt); err != nil {
		r.logger.Error().Err(err).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Msg("order created successfully")

	return nil
}

// CreateLineItems inserts line items within the provided transaction.
func (r *orderRepository) CreateLineItems(ctx context.Context, tx pgx.Tx, items []model.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, product_id)
		VALUES ($1, $2)
		RETURNING id
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.OrderID, item.ProductID)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if err := results.QueryRow().Scan(&items[i].ID); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", items[i].OrderID).
				Int64("product_id", items[i].ProductID).
				Msg("failed to create line item")
			return fmt.Errorf("failed to create line item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("line items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with the product of every line item.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, []model.Product, error) {
	order, items, err := r.load(ctx, r.pool, id, false)
	if err != nil || order == nil {
		return nil, nil, err
	}

	products := make([]model.Product, 0, len(items))
	for _, item := range items {
		products = append(products, *item.Product)
	}

	return order, products, nil
}

// GetForProcessing retrieves an order and its line items, locking the product rows.
func (r *orderRepository) GetForProcessing(ctx context.Context, tx pgx.Tx, id int64) (*model.Order, []model.LineItem, error) {
	return r.load(ctx, tx, id, true)
}

// load reads the order and its line items in line item order. Line items that
// reference the same product share a single *model.Product.
func (r *orderRepository) load(ctx context.Context, q querier, id int64, lock bool) (*model.Order, []model.LineItem, error) {
	orderQuery := `
		SELECT id, created_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := q.QueryRow(ctx, orderQuery, id).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT li.id, li.order_id, p.id, p.name, p.type, p.available, p.lead_time,
			p.season_start_date, p.season_end_date, p.expiry_date
		FROM order_items li
		JOIN products p ON p.id = li.product_id
		WHERE li.order_id = $1
		ORDER BY li.id
	`
	if lock {
		itemsQuery += ` FOR UPDATE OF p`
	}

	rows, err := q.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("order_id", id).
			Msg("failed to query line items")
		return nil, nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	shared := make(map[int64]*model.Product)
	var items []model.LineItem
	for rows.Next() {
		var (
			item model.LineItem
			p    model.Product
		)
		if err := scanProduct(rows, &p, &item.ID, &item.OrderID); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan line item row")
			return nil, nil, err
		}

		if existing, ok := shared[p.ID]; ok {
			item.Product = existing
		} else {
			item.Product = &p
			shared[p.ID] = &p
		}
		item.ProductID = p.ID
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating line item rows")
		return nil, nil, fmt.Errorf("error iterating line items: %w", err)
	}

	return &order, items, nil
}
