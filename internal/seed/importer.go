package seed

import (
	"context"
	"fmt"

	"order-fulfilment/internal/model"
	"order-fulfilment/internal/repository"

	"github.com/rs/zerolog"
)

// Importer inserts fixtures, one transaction per order.
type Importer struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewImporter creates a new fixture importer.
func NewImporter(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("component", "importer").Logger(),
	}
}

// Import inserts every fixture and returns the created order IDs in order.
// It stops at the first failing fixture; orders imported before it are kept.
func (i *Importer) Import(ctx context.Context, fixtures []OrderFixture) ([]int64, error) {
	ids := make([]int64, 0, len(fixtures))
	for n, f := range fixtures {
		id, err := i.importOrder(ctx, f)
		if err != nil {
			return ids, fmt.Errorf("fixture %d: %w", n+1, err)
		}
		ids = append(ids, id)
	}

	i.logger.Info().Int("orders", len(ids)).Msg("fixtures imported")
	return ids, nil
}

func (i *Importer) importOrder(ctx context.Context, f OrderFixture) (orderID int64, err error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	tx, err := i.orderRepo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				i.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	items := make([]model.LineItem, len(f.Products))
	for idx := range f.Products {
		product := &f.Products[idx]
		product.ID = 0
		if err = i.productRepo.Create(ctx, tx, product); err != nil {
			return 0, fmt.Errorf("failed to create product %q: %w", product.Name, err)
		}
		items[idx] = model.LineItem{ProductID: product.ID, Product: product}
	}

	order := &model.Order{}
	if err = i.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	for idx := range items {
		items[idx].OrderID = order.ID
	}
	if err = i.orderRepo.CreateLineItems(ctx, tx, items); err != nil {
		return 0, fmt.Errorf("failed to create line items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	i.logger.Debug().
		Int64("order_id", order.ID).
		Int("line_items", len(items)).
		Msg("fixture imported")

	return order.ID, nil
}
