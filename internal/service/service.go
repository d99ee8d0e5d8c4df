package service

import (
	"context"

	"order-fulfilment/internal/model"
)

// ProductService defines read operations for products.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// OrderService defines operations for order processing.
type OrderService interface {
	// ProcessOrder fulfils or notifies every line item of the order.
	ProcessOrder(ctx context.Context, id int64) (*model.ProcessOrderResponse, error)

	// GetByID retrieves an order by its ID with the product of every line item.
	GetByID(ctx context.Context, id int64) (*model.OrderResponse, error)
}
